package middleware

import (
	"encoding/gob"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// CookieName is the signed cookie holding the browser id and pending flashes.
const CookieName = "poing_console"

const browserIDKey = "browser_id"

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a one-shot toast message shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

func init() {
	gob.Register(Flash{})
}

// NewCookieStore returns the gorilla cookie store backing the browser cookie.
func NewCookieStore(secret string, secure bool, maxAge int) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Browser gives every client a stable random browser id. The id keys the
// client's slots in the session area; it is the only state in the cookie
// besides flashes.
func Browser(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := session.Get(CookieName, c)
			if sess == nil {
				return fmt.Errorf("browser cookie: %w", err)
			}
			if err != nil {
				log.Debug().Err(err).Msg("discarding unreadable browser cookie")
			}

			id, _ := sess.Values[browserIDKey].(string)
			if id == "" {
				id = uuid.NewString()
				sess.Values[browserIDKey] = id
				if err := sess.Save(c.Request(), c.Response()); err != nil {
					log.Warn().Err(err).Msg("failed to set browser cookie")
				}
			}
			c.Set(ctxBrowserID, id)
			return next(c)
		}
	}
}

// BrowserID returns the id assigned by Browser.
func BrowserID(c echo.Context) string {
	id, _ := c.Get(ctxBrowserID).(string)
	return id
}

// RotateBrowserID issues a fresh browser id, so slots stored under the old
// one are no longer reachable from this client.
func RotateBrowserID(c echo.Context) error {
	id := uuid.NewString()
	c.Set(ctxBrowserID, id)

	sess, err := session.Get(CookieName, c)
	if sess == nil {
		return fmt.Errorf("browser cookie: %w", err)
	}
	sess.Values[browserIDKey] = id
	return sess.Save(c.Request(), c.Response())
}

// AddFlash queues a message for the next rendered page. A cookie that failed
// to decode still yields a fresh session, so only a missing store drops it.
func AddFlash(c echo.Context, kind, msg string) {
	sess, _ := session.Get(CookieName, c)
	if sess == nil {
		return
	}
	sess.AddFlash(Flash{Kind: kind, Message: msg})
	_ = sess.Save(c.Request(), c.Response())
}

// Flashes pops the queued messages.
func Flashes(c echo.Context) []Flash {
	sess, _ := session.Get(CookieName, c)
	if sess == nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save(c.Request(), c.Response())

	out := make([]Flash, 0, len(raw))
	for _, r := range raw {
		if f, ok := r.(Flash); ok {
			out = append(out, f)
		}
	}
	return out
}
