package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/poing/admin-console/internal/api/middleware"
	"github.com/poing/admin-console/internal/core/access"
	"github.com/poing/admin-console/internal/core/domain"
	"github.com/poing/admin-console/internal/core/ports"
)

type InboxHandler struct {
	inbox ports.InboxService
	log   zerolog.Logger
}

func NewInboxHandler(inbox ports.InboxService, log zerolog.Logger) *InboxHandler {
	return &InboxHandler{inbox: inbox, log: log}
}

type replyRequest struct {
	From    string `form:"from" validate:"required"`
	Subject string `form:"subject"`
	Body    string `form:"body" validate:"required"`
}

type composeRequest struct {
	To      string `form:"to" validate:"required,email"`
	Subject string `form:"subject" validate:"required,max=200"`
	Body    string `form:"body" validate:"required"`
}

type inboxView struct {
	Page     *ports.InboxPage
	Selected *domain.InboxMessage
}

// List renders one page of the inbox. The message named by ?id= on that
// page is opened in the reader.
func (h *InboxHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var view inboxView
	page, err := h.inbox.List(c.Request().Context(), sess, pageParam(c))
	if err != nil {
		h.log.Error().Err(err).Msg("list inbox")
		middleware.AddFlash(c, middleware.FlashError, userMessage(err, "Could not load messages."))
	} else {
		view.Page = page
		if id := c.QueryParam("id"); id != "" {
			for i := range page.Messages {
				if page.Messages[i].ID == id {
					view.Selected = &page.Messages[i]
					break
				}
			}
		}
	}
	return render(c, "inbox", "Customer Service", access.PathCustomerService, view)
}

func (h *InboxHandler) Reply(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req replyRequest
	if err := c.Bind(&req); err != nil {
		return redirectWith(c, access.PathCustomerService, middleware.FlashError, "Invalid form submission.")
	}
	if err := c.Validate(&req); err != nil {
		return redirectWith(c, access.PathCustomerService, middleware.FlashError, err.Error())
	}

	err = h.inbox.Reply(c.Request().Context(), sess, ports.ReplyInput{From: req.From, Subject: req.Subject, Body: req.Body})
	if err != nil {
		return redirectWith(c, access.PathCustomerService, middleware.FlashError, userMessage(err, "Could not send the reply."))
	}
	return redirectWith(c, access.PathCustomerService, middleware.FlashSuccess, "Reply sent.")
}

func (h *InboxHandler) Compose(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req composeRequest
	if err := c.Bind(&req); err != nil {
		return redirectWith(c, access.PathCustomerService, middleware.FlashError, "Invalid form submission.")
	}
	if err := c.Validate(&req); err != nil {
		return redirectWith(c, access.PathCustomerService, middleware.FlashError, err.Error())
	}

	err = h.inbox.Compose(c.Request().Context(), sess, ports.ComposeInput{To: req.To, Subject: req.Subject, Body: req.Body})
	if err != nil {
		return redirectWith(c, access.PathCustomerService, middleware.FlashError, userMessage(err, "Could not send the message."))
	}
	return redirectWith(c, access.PathCustomerService, middleware.FlashSuccess, "Message sent to "+req.To+".")
}
