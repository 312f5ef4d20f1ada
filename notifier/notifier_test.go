package notifier

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal-noticias/config"
	"portal-noticias/eventbus"
	"portal-noticias/events"
	"portal-noticias/models"
)

type memSubs struct {
	mu      sync.Mutex
	subs    []models.PushSubscription
	deleted []string
}

func (m *memSubs) All(ctx context.Context) ([]models.PushSubscription, error) {
	return m.subs, nil
}

func (m *memSubs) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, endpoint)
	return nil
}

func browserKeys(t *testing.T) (p256dh, auth string) {
	t.Helper()
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	secret := make([]byte, 16)
	_, err = rand.Read(secret)
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
		base64.RawURLEncoding.EncodeToString(secret)
}

func TestPushBroadcastRemovesGoneSubscriptions(t *testing.T) {
	var mu sync.Mutex
	var urgency []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		urgency = append(urgency, r.Header.Get("Urgency"))
		mu.Unlock()
		switch {
		case strings.HasSuffix(r.URL.Path, "/gone"):
			w.WriteHeader(http.StatusGone)
		case strings.HasSuffix(r.URL.Path, "/missing"):
			w.WriteHeader(http.StatusNotFound)
		case strings.HasSuffix(r.URL.Path, "/broken"):
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusCreated)
		}
	}))
	defer srv.Close()

	priv, pub, err := webpush.GenerateVAPIDKeys()
	require.NoError(t, err)

	store := &memSubs{}
	for _, path := range []string{"/ok", "/gone", "/missing", "/broken"} {
		p256dh, auth := browserKeys(t)
		store.subs = append(store.subs, models.PushSubscription{Endpoint: srv.URL + path, P256dh: p256dh, Auth: auth})
	}

	sender := NewPushSender(config.PushConfig{
		Subscriber:      "redacao@portal.com.br",
		TTLSeconds:      60,
		VAPIDPublicKey:  pub,
		VAPIDPrivateKey: priv,
	}, store, srv.Client())

	report, err := sender.Broadcast(context.Background(), PushMessage{Title: "t", Body: "b", URL: "https://portal/noticia/x"}, true)
	require.NoError(t, err)

	assert.Equal(t, PushReport{Sent: 1, Failed: 1, Removed: 2}, report)
	assert.ElementsMatch(t, []string{srv.URL + "/gone", srv.URL + "/missing"}, store.deleted)
	for _, u := range urgency {
		assert.Equal(t, "high", u)
	}
}

func TestPushBroadcastWithoutKeys(t *testing.T) {
	sender := NewPushSender(config.PushConfig{}, &memSubs{}, nil)
	_, err := sender.Broadcast(context.Background(), PushMessage{}, false)
	assert.ErrorIs(t, err, ErrPushNotConfigured)
}

type fakeEmailAPI struct {
	reqs []*resend.SendEmailRequest
	fail map[string]bool
}

func (f *fakeEmailAPI) SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.reqs = append(f.reqs, params)
	if f.fail[params.To[0]] {
		return nil, errors.New("rate limited")
	}
	return &resend.SendEmailResponse{Id: "id"}, nil
}

type staticEmails []string

func (s staticEmails) ActiveEmails(ctx context.Context) ([]string, error) { return s, nil }

func TestSendBreakingOneEmailPerSubscriber(t *testing.T) {
	api := &fakeEmailAPI{fail: map[string]bool{"b@x.com": true}}
	sender := NewEmailSender(config.EmailConfig{From: "Portal <noticias@portal.com.br>", SiteURL: "https://portal.com.br/"},
		staticEmails{"a@x.com", "b@x.com", "c@x.com"}, api)

	sent, err := sender.SendBreaking(context.Background(), events.PostPublishedEvent{
		Title:   "Explosão <b>no</b> centro",
		Slug:    "explosao-no-centro-1",
		Excerpt: "Resumo",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, api.reqs, 3)

	req := api.reqs[0]
	assert.Equal(t, []string{"a@x.com"}, req.To)
	assert.Equal(t, "Urgente: Explosão <b>no</b> centro", req.Subject)
	assert.Contains(t, req.Html, "https://portal.com.br/noticia/explosao-no-centro-1")
	assert.Contains(t, req.Html, "Explosão &lt;b&gt;no&lt;/b&gt; centro")
}

func TestSendBreakingWithoutKey(t *testing.T) {
	sender := NewEmailSender(config.EmailConfig{}, staticEmails{"a@x.com"}, nil)
	_, err := sender.SendBreaking(context.Background(), events.PostPublishedEvent{})
	assert.ErrorIs(t, err, ErrEmailNotConfigured)
}

type recordingPush struct {
	msgs   []PushMessage
	urgent []bool
	err    error
}

func (r *recordingPush) Broadcast(ctx context.Context, msg PushMessage, urgent bool) (PushReport, error) {
	r.msgs = append(r.msgs, msg)
	r.urgent = append(r.urgent, urgent)
	return PushReport{}, r.err
}

type recordingMail struct {
	slugs []string
	err   error
}

func (r *recordingMail) SendBreaking(ctx context.Context, evt events.PostPublishedEvent) (int, error) {
	r.slugs = append(r.slugs, evt.Slug)
	return 1, r.err
}

func TestHandlerDispatch(t *testing.T) {
	tests := []struct {
		name      string
		breaking  bool
		pushErr   error
		mailErr   error
		wantMails int
		wantErr   bool
	}{
		{name: "regular post only pushes", breaking: false, wantMails: 0},
		{name: "breaking post pushes and emails", breaking: true, wantMails: 1},
		{name: "unconfigured channels are skipped", breaking: true, pushErr: ErrPushNotConfigured, mailErr: ErrEmailNotConfigured, wantMails: 1},
		{name: "delivery failure is returned", breaking: true, mailErr: errors.New("resend down"), wantMails: 1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			push := &recordingPush{err: tt.pushErr}
			mail := &recordingMail{err: tt.mailErr}
			h := NewHandler(push, mail, "https://portal.com.br")

			evt, err := eventbus.NewJSONEvent(events.PostPublished, events.PostPublishedEvent{
				Title: "Título", Slug: "titulo-1", IsBreaking: tt.breaking,
			})
			require.NoError(t, err)

			err = h.HandleEvent(context.Background(), evt)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			require.Len(t, push.msgs, 1)
			assert.Equal(t, "https://portal.com.br/noticia/titulo-1", push.msgs[0].URL)
			assert.Equal(t, tt.breaking, push.urgent[0])
			assert.Len(t, mail.slugs, tt.wantMails)
		})
	}
}

func TestHandlerIgnoresUnknownEvents(t *testing.T) {
	push := &recordingPush{}
	h := NewHandler(push, nil, "")
	assert.NoError(t, h.HandleEvent(context.Background(), eventbus.Event{Type: "post.deleted"}))
	assert.Empty(t, push.msgs)
}

func TestMessageForBreaking(t *testing.T) {
	msg := MessageFor(events.PostPublishedEvent{Title: "Queda", Slug: "queda", IsBreaking: true}, "https://p")
	assert.True(t, strings.HasPrefix(msg.Title, "🔴 URGENTE: "))
	assert.Equal(t, "queda", msg.Tag)
}
