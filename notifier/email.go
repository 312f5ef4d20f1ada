package notifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"

	"portal-noticias/config"
	"portal-noticias/events"
)

var ErrEmailNotConfigured = errors.New("notifier: resend api key not configured")

// EmailAPI 는 resend 클라이언트의 Emails 서비스 중 사용하는 부분이다.
type EmailAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type SubscriberStore interface {
	ActiveEmails(ctx context.Context) ([]string, error)
}

type EmailSender struct {
	cfg  config.EmailConfig
	api  EmailAPI
	subs SubscriberStore
}

// NewEmailSender returns a sender backed by Resend. api may be nil to build one from cfg.APIKey.
func NewEmailSender(cfg config.EmailConfig, subs SubscriberStore, api EmailAPI) *EmailSender {
	if api == nil && cfg.APIKey != "" {
		api = resend.NewClient(cfg.APIKey).Emails
	}
	return &EmailSender{cfg: cfg, api: api, subs: subs}
}

var breakingTemplate = template.Must(template.New("breaking").Parse(`<!doctype html>
<html lang="pt-BR"><body style="font-family:Arial,sans-serif;max-width:600px;margin:auto">
<p style="color:#c00;font-weight:bold;text-transform:uppercase">Urgente</p>
<h1>{{.Title}}</h1>
{{if .Image}}<img src="{{.Image}}" alt="" style="max-width:100%">{{end}}
<p>{{.Excerpt}}</p>
<p><a href="{{.URL}}">Leia a matéria completa</a></p>
</body></html>`))

type breakingView struct {
	Title   string
	Excerpt string
	Image   string
	URL     string
}

func (e *EmailSender) render(evt events.PostPublishedEvent) (string, error) {
	var buf bytes.Buffer
	err := breakingTemplate.Execute(&buf, breakingView{
		Title:   evt.Title,
		Excerpt: evt.Excerpt,
		Image:   evt.CoverImage,
		URL:     postURL(e.cfg.SiteURL, evt.Slug),
	})
	return buf.String(), err
}

// SendBreaking emails each active subscriber separately so addresses are never shared.
// Returns how many emails were accepted by Resend.
func (e *EmailSender) SendBreaking(ctx context.Context, evt events.PostPublishedEvent) (int, error) {
	if e.api == nil {
		return 0, ErrEmailNotConfigured
	}
	body, err := e.render(evt)
	if err != nil {
		return 0, fmt.Errorf("render email: %w", err)
	}
	emails, err := e.subs.ActiveEmails(ctx)
	if err != nil {
		return 0, fmt.Errorf("load newsletter subscribers: %w", err)
	}

	sent := 0
	for _, to := range emails {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		_, err := e.api.SendWithContext(ctx, &resend.SendEmailRequest{
			From:    e.cfg.From,
			To:      []string{to},
			Subject: "Urgente: " + evt.Title,
			Html:    body,
		})
		if err != nil {
			config.Logger.Warnf("email: send failed: %v", err)
			continue
		}
		sent++
	}
	config.InfoWithFields("breaking email finished", config.Fields{"slug": evt.Slug, "sent": sent, "total": len(emails)})
	return sent, nil
}
