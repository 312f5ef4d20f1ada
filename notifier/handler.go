package notifier

import (
	"context"
	"errors"
	"strings"

	"portal-noticias/config"
	"portal-noticias/eventbus"
	"portal-noticias/events"
)

type Broadcaster interface {
	Broadcast(ctx context.Context, msg PushMessage, urgent bool) (PushReport, error)
}

type BreakingMailer interface {
	SendBreaking(ctx context.Context, evt events.PostPublishedEvent) (int, error)
}

// Handler reacts to post.published events.
type Handler struct {
	push    Broadcaster
	mail    BreakingMailer
	siteURL string
}

func NewHandler(push Broadcaster, mail BreakingMailer, siteURL string) *Handler {
	return &Handler{push: push, mail: mail, siteURL: siteURL}
}

func postURL(siteURL, slug string) string {
	return strings.TrimSuffix(siteURL, "/") + "/noticia/" + slug
}

// MessageFor 는 이벤트를 푸시 메시지로 바꾼다.
func MessageFor(evt events.PostPublishedEvent, siteURL string) PushMessage {
	title := evt.Title
	if evt.IsBreaking {
		title = "🔴 URGENTE: " + title
	}
	return PushMessage{
		Title: title,
		Body:  evt.Excerpt,
		URL:   postURL(siteURL, evt.Slug),
		Image: evt.CoverImage,
		Tag:   evt.Slug,
	}
}

// HandleEvent dispatches on the event type. Unknown types are ignored (and committed).
func (h *Handler) HandleEvent(ctx context.Context, evt eventbus.Event) error {
	switch evt.Type {
	case events.PostPublished:
		v, err := eventbus.DecodeJSON[events.PostPublishedEvent](evt)
		if err != nil {
			return err
		}
		return h.HandlePostPublished(ctx, v)
	default:
		return nil
	}
}

// HandlePostPublished 는 푸시를 보내고, 속보일 때만 이메일을 보낸다.
// 설정되지 않은 채널은 건너뛴다. 그 외 실패는 DLQ 로 보내기 위해 에러로 돌려준다.
func (h *Handler) HandlePostPublished(ctx context.Context, evt events.PostPublishedEvent) error {
	config.Logger.Infof("handling post.published: %s (breaking=%t)", evt.Slug, evt.IsBreaking)

	var errs []error
	if h.push != nil {
		if _, err := h.push.Broadcast(ctx, MessageFor(evt, h.siteURL), evt.IsBreaking); err != nil {
			if errors.Is(err, ErrPushNotConfigured) {
				config.Logger.Debug("push disabled, skip")
			} else {
				errs = append(errs, err)
			}
		}
	}
	if evt.IsBreaking && h.mail != nil {
		if _, err := h.mail.SendBreaking(ctx, evt); err != nil {
			if errors.Is(err, ErrEmailNotConfigured) {
				config.Logger.Debug("email disabled, skip")
			} else {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
