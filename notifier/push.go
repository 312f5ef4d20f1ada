// Package notifier delivers post.published events to readers: Web Push to every
// browser subscription and, for breaking news, an email to newsletter subscribers.
package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	webpush "github.com/SherClockHolmes/webpush-go"

	"portal-noticias/config"
	"portal-noticias/models"
)

var ErrPushNotConfigured = errors.New("notifier: vapid keys not configured")

// PushMessage 는 서비스 워커가 받는 JSON 페이로드이다.
type PushMessage struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
	Image string `json:"image,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

type SubscriptionStore interface {
	All(ctx context.Context) ([]models.PushSubscription, error)
	DeleteByEndpoint(ctx context.Context, endpoint string) error
}

// PushReport 는 한 번의 브로드캐스트 결과이다.
type PushReport struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Removed int `json:"removed"`
}

type PushSender struct {
	cfg    config.PushConfig
	subs   SubscriptionStore
	client webpush.HTTPClient
}

func NewPushSender(cfg config.PushConfig, subs SubscriptionStore, client *http.Client) *PushSender {
	if client == nil {
		client = http.DefaultClient
	}
	return &PushSender{cfg: cfg, subs: subs, client: client}
}

func (s *PushSender) PublicKey() string { return s.cfg.VAPIDPublicKey }

func (s *PushSender) Enabled() bool {
	return s.cfg.VAPIDPublicKey != "" && s.cfg.VAPIDPrivateKey != ""
}

// Broadcast sends msg to every stored subscription. Subscriptions the push service
// reports as gone (404/410) are deleted. Individual failures do not stop the loop.
func (s *PushSender) Broadcast(ctx context.Context, msg PushMessage, urgent bool) (PushReport, error) {
	var report PushReport
	if !s.Enabled() {
		return report, ErrPushNotConfigured
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return report, fmt.Errorf("marshal push payload: %w", err)
	}
	subs, err := s.subs.All(ctx)
	if err != nil {
		return report, fmt.Errorf("load subscriptions: %w", err)
	}

	urgency := webpush.UrgencyNormal
	if urgent {
		urgency = webpush.UrgencyHigh
	}
	opts := &webpush.Options{
		HTTPClient:      s.client,
		Subscriber:      s.cfg.Subscriber,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
		TTL:             s.cfg.TTLSeconds,
		Urgency:         urgency,
	}

	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		gone, err := s.send(ctx, payload, sub, opts)
		switch {
		case gone:
			if derr := s.subs.DeleteByEndpoint(ctx, sub.Endpoint); derr != nil {
				config.Logger.Warnf("push: failed to delete expired subscription: %v", derr)
			}
			report.Removed++
		case err != nil:
			config.Logger.Warnf("push: send failed (%s): %v", endpointHost(sub.Endpoint), err)
			report.Failed++
		default:
			report.Sent++
		}
	}

	config.InfoWithFields("push broadcast finished", config.Fields{
		"title":   msg.Title,
		"sent":    report.Sent,
		"failed":  report.Failed,
		"removed": report.Removed,
	})
	return report, nil
}

func (s *PushSender) send(ctx context.Context, payload []byte, sub models.PushSubscription, opts *webpush.Options) (gone bool, err error) {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys:     webpush.Keys{P256dh: sub.P256dh, Auth: sub.Auth},
	}, opts)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return true, nil
	case resp.StatusCode >= 400:
		return false, fmt.Errorf("push service status %d", resp.StatusCode)
	}
	return false, nil
}

// endpointHost 는 로그에 엔드포인트 전체(토큰 포함)를 남기지 않기 위해 호스트만 남긴다.
func endpointHost(endpoint string) string {
	rest := strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[:i]
	}
	return rest
}
