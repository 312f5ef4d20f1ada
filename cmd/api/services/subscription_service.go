package services

import (
	"context"
	"errors"
	"strings"

	"portal-noticias/cmd/api/dto"
	"portal-noticias/models"
	"portal-noticias/notifier"
)

var ErrInvalidEndpoint = errors.New("invalid_push_endpoint")

type PushSubscriptionStore interface {
	Upsert(ctx context.Context, s models.PushSubscription) error
	DeleteByEndpoint(ctx context.Context, endpoint string) error
}

type NewsletterStore interface {
	Subscribe(ctx context.Context, email string) error
	Unsubscribe(ctx context.Context, email string) error
}

type PushBroadcaster interface {
	Broadcast(ctx context.Context, msg notifier.PushMessage, urgent bool) (notifier.PushReport, error)
	PublicKey() string
}

type SubscriptionService struct {
	push       PushSubscriptionStore
	newsletter NewsletterStore
	sender     PushBroadcaster
}

func NewSubscriptionService(push PushSubscriptionStore, newsletter NewsletterStore, sender PushBroadcaster) *SubscriptionService {
	return &SubscriptionService{push: push, newsletter: newsletter, sender: sender}
}

// SubscribePush 는 https 엔드포인트만 받는다.
func (s *SubscriptionService) SubscribePush(ctx context.Context, req dto.PushSubscribeRequestDTO, userAgent string) error {
	if !strings.HasPrefix(req.Endpoint, "https://") {
		return ErrInvalidEndpoint
	}
	return s.push.Upsert(ctx, models.PushSubscription{
		Endpoint:  req.Endpoint,
		P256dh:    req.Keys.P256dh,
		Auth:      req.Keys.Auth,
		UserAgent: userAgent,
	})
}

func (s *SubscriptionService) UnsubscribePush(ctx context.Context, endpoint string) error {
	return s.push.DeleteByEndpoint(ctx, endpoint)
}

func (s *SubscriptionService) VAPIDPublicKey() string {
	if s.sender == nil {
		return ""
	}
	return s.sender.PublicKey()
}

func (s *SubscriptionService) SubscribeNewsletter(ctx context.Context, email string) error {
	return s.newsletter.Subscribe(ctx, email)
}

func (s *SubscriptionService) UnsubscribeNewsletter(ctx context.Context, email string) error {
	return s.newsletter.Unsubscribe(ctx, email)
}

// SendPush 는 관리자 수동 푸시이다.
func (s *SubscriptionService) SendPush(ctx context.Context, req dto.PushSendRequestDTO) (notifier.PushReport, error) {
	if s.sender == nil {
		return notifier.PushReport{}, notifier.ErrPushNotConfigured
	}
	return s.sender.Broadcast(ctx, notifier.PushMessage{
		Title: req.Title,
		Body:  req.Body,
		URL:   req.URL,
		Image: req.Image,
	}, req.Urgent)
}
