package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/poing/admin-console/internal/core/domain"
	"github.com/poing/admin-console/internal/core/ports"
)

// markdown renders legal texts. Raw HTML in the source is omitted.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

type legalService struct {
	gw    ports.LegalGateway
	audit auditor
	log   zerolog.Logger
}

func NewLegalService(gw ports.LegalGateway, audit ports.AuditRecorder, log zerolog.Logger) ports.LegalService {
	return &legalService{gw: gw, audit: auditor{rec: audit, log: log}, log: log}
}

func (s *legalService) Get(ctx context.Context, sess domain.Session, kind domain.LegalKind) (*ports.LegalView, error) {
	doc, err := s.gw.GetLegal(ctx, sess.Token, kind)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", kind, err)
	}
	return s.view(*doc), nil
}

func (s *legalService) Publish(ctx context.Context, sess domain.Session, kind domain.LegalKind, content string) (*ports.LegalView, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("publish %s: %w: content is empty", kind, domain.ErrInvalidInput)
	}
	doc, err := s.gw.UpdateLegal(ctx, sess.Token, kind, content)
	if err != nil {
		return nil, fmt.Errorf("publish %s: %w", kind, err)
	}
	s.audit.record(ctx, sess, domain.AuditLegalPublish, string(kind), map[string]string{"version": doc.Version})
	return s.view(*doc), nil
}

func (s *legalService) view(doc domain.LegalDocument) *ports.LegalView {
	html, err := RenderMarkdown(doc.Content)
	if err != nil {
		s.log.Warn().Err(err).Str("kind", string(doc.Kind)).Msg("legal markdown render failed")
	}
	return &ports.LegalView{Document: doc, HTML: html}
}

// RenderMarkdown converts markdown to HTML.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
