package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/poing/admin-console/internal/core/domain"
	"github.com/poing/admin-console/internal/core/ports"
)

const (
	// InboxPageSize is the number of messages requested per page.
	InboxPageSize = 10

	previewRunes    = 140
	timestampLayout = "01/02/2006, 3:04 PM"
)

type inboxService struct {
	gw    ports.InboxGateway
	audit auditor
	log   zerolog.Logger
	now   func() time.Time
}

func NewInboxService(gw ports.InboxGateway, audit ports.AuditRecorder, log zerolog.Logger) ports.InboxService {
	return &inboxService{gw: gw, audit: auditor{rec: audit, log: log}, log: log, now: time.Now}
}

func (s *inboxService) List(ctx context.Context, sess domain.Session, page int) (*ports.InboxPage, error) {
	if page < 1 {
		page = 1
	}
	raw, err := s.gw.ListMessages(ctx, sess.Token, page, InboxPageSize)
	if err != nil {
		return nil, fmt.Errorf("list inbox: %w", err)
	}
	out, err := DecodeInbox(raw, page, InboxPageSize, s.now())
	if err != nil {
		return nil, fmt.Errorf("list inbox: %w", err)
	}
	return out, nil
}

// DecodeInbox normalises an inbox listing. The body may be a bare array or
// an object with a messages array and an optional total.
func DecodeInbox(raw []byte, page, limit int, now time.Time) (*ports.InboxPage, error) {
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnexpectedResponse, err)
	}

	var items []any
	out := &ports.InboxPage{Page: page}
	switch v := body.(type) {
	case []any:
		items = v
	case map[string]any:
		items, _ = v["messages"].([]any)
		if n, ok := v["total"].(float64); ok {
			out.Total, out.TotalKnown = int(n), true
		} else if p, ok := v["pagination"].(map[string]any); ok {
			if n, ok := p["total"].(float64); ok {
				out.Total, out.TotalKnown = int(n), true
			}
		}
	}

	for i, it := range items {
		m, _ := it.(map[string]any)
		out.Messages = append(out.Messages, normalizeMessage(m, i, now))
	}

	if out.TotalKnown {
		out.HasNext = page*limit < out.Total
	} else {
		out.HasNext = len(items) == limit
	}
	return out, nil
}

func normalizeMessage(m map[string]any, idx int, now time.Time) domain.InboxMessage {
	fromObj, _ := m["from"].(map[string]any)
	fromStr := str(m["from"])

	body := firstString(str(m["html"]), str(m["text"]))

	msg := domain.InboxMessage{
		ID:        firstString(str(m["id"]), str(m["_id"]), strconv.Itoa(idx+1)),
		From:      firstString(str(fromObj["email"]), fromStr, str(m["sender"]), "unknown@unknown"),
		Name:      firstString(str(fromObj["name"]), str(m["name"]), str(m["senderName"]), fromStr, "Unknown"),
		Subject:   firstString(str(m["subject"]), "(no subject)"),
		Preview:   truncateRunes(StripHTML(body), previewRunes),
		HTML:      SanitizeHTML(body),
		Timestamp: formatTimestamp(firstString(str(m["createdAt"]), str(m["date"]), str(m["timestamp"])), now),
		Status:    firstString(str(m["status"]), "new"),
		Priority:  firstString(str(m["priority"]), "medium"),
		Category:  firstString(str(m["category"]), "Inbox"),
		IsRead:    truthy(m["isRead"]),
		IsStarred: truthy(m["isStarred"]),
	}
	return msg
}

// str renders scalar JSON values as strings; other values become "".
func str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "true"
		}
	}
	return ""
}

func firstString(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case nil:
		return false
	}
	return true
}

func formatTimestamp(v string, now time.Time) string {
	if v == "" {
		return now.Format(timestampLayout)
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC1123Z, time.RFC1123, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(timestampLayout)
		}
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC().Format(timestampLayout)
	}
	return v
}

// Reply answers the sender of a message with a "Re:" subject.
func (s *inboxService) Reply(ctx context.Context, sess domain.Session, in ports.ReplyInput) error {
	to := ExtractAddress(in.From)
	if to == "" || strings.TrimSpace(in.Body) == "" {
		return fmt.Errorf("reply: %w: recipient and message are required", domain.ErrInvalidInput)
	}
	mail := domain.OutgoingEmail{
		To:      to,
		Subject: "Re: " + in.Subject,
		HTML:    TextToHTML(in.Body),
	}
	if err := s.gw.Reply(ctx, sess.Token, mail); err != nil {
		return fmt.Errorf("reply: %w", err)
	}
	s.audit.record(ctx, sess, domain.AuditInboxSend, to, map[string]string{"subject": mail.Subject, "kind": "reply"})
	return nil
}

// Compose sends a new message.
func (s *inboxService) Compose(ctx context.Context, sess domain.Session, in ports.ComposeInput) error {
	to := ExtractAddress(in.To)
	subject := strings.TrimSpace(in.Subject)
	if to == "" || subject == "" || strings.TrimSpace(in.Body) == "" {
		return fmt.Errorf("compose: %w: to, subject and message are required", domain.ErrInvalidInput)
	}
	mail := domain.OutgoingEmail{To: to, Subject: subject, HTML: TextToHTML(in.Body)}
	if err := s.gw.Send(ctx, sess.Token, mail); err != nil {
		return fmt.Errorf("compose: %w", err)
	}
	s.audit.record(ctx, sess, domain.AuditInboxSend, to, map[string]string{"subject": subject, "kind": "compose"})
	return nil
}
