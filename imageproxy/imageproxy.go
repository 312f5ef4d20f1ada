// Package imageproxy fetches remote images for the front-end so hot-link protected
// sources can still be shown.
package imageproxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"

	"portal-noticias/config"
	"portal-noticias/httpclient"
)

var (
	ErrInvalidURL  = errors.New("imageproxy: url must be absolute http or https")
	ErrNotImage    = errors.New("imageproxy: upstream content is not an image")
	ErrTooLarge    = errors.New("imageproxy: image exceeds size limit")
	ErrBlockedHost = errors.New("imageproxy: destination address is not allowed")
)

const userAgent = "Mozilla/5.0 (compatible; PortalNoticiasImageProxy/1.0)"

// Image 는 그대로 응답에 쓸 수 있는 원격 이미지이다.
type Image struct {
	ContentType string
	Data        []byte
}

type Proxy struct {
	client   *http.Client
	maxBytes int64
}

// New 는 사설/루프백 주소로의 연결을 막는 클라이언트를 사용한다.
func New(cfg config.ImageProxyConfig) *Proxy {
	dialer := &net.Dialer{Control: denyPrivate}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	client := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: httpclient.Transport(transport, false),
	}
	return newProxy(client, cfg.MaxBytes)
}

func newProxy(client *http.Client, maxBytes int64) *Proxy {
	return &Proxy{client: client, maxBytes: maxBytes}
}

func denyPrivate(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
		return ErrBlockedHost
	}
	return nil
}

// ParseTarget 은 프록시 대상 URL 을 검증한다.
func ParseTarget(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return nil, ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrInvalidURL
	}
	return u, nil
}

// rasterTypes 외 타입은 거부한다. image/svg+xml 은 스크립트를 담을 수 있다.
var rasterTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/avif": true,
}

// Fetch downloads the image. Non-image content types and bodies over the
// size limit are rejected without returning any data.
func (p *Proxy) Fetch(ctx context.Context, raw string) (*Image, error) {
	target, err := ParseTarget(raw)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "image/avif,image/webp,image/png,image/jpeg,image/gif")

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, ErrBlockedHost) {
			return nil, ErrBlockedHost
		}
		return nil, fmt.Errorf("imageproxy request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.NewHTTPError(resp)
	}
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || !rasterTypes[mediaType] {
		return nil, ErrNotImage
	}
	if resp.ContentLength > p.maxBytes {
		return nil, ErrTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("imageproxy read failed: %w", err)
	}
	if int64(len(data)) > p.maxBytes {
		return nil, ErrTooLarge
	}
	return &Image{ContentType: mediaType, Data: data}, nil
}
