package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"portal-noticias/config"
	"portal-noticias/trace"
)

const maxBodyLog = 1024

// Config 는 아웃바운드 HTTP 클라이언트 설정이다.
type Config struct {
	Timeout time.Duration
	// LogBody 가 false 이면 요청 바디를 로그에 남기지 않는다. (API 키가 바디에 들어가는 경우)
	LogBody bool
}

// HTTPError is returned by API clients for non-2xx responses.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// NewHTTPError 는 응답 바디 일부를 읽어 HTTPError 를 만든다. 바디는 닫지 않는다.
func NewHTTPError(resp *http.Response) *HTTPError {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyLog))
	return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}

// loggingRoundTripper 는 모든 외부 호출에 request/span id 를 붙이고 결과를 로그로 남긴다.
type loggingRoundTripper struct {
	inner   http.RoundTripper
	logBody bool
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID, spanID := trace.NextSpanID(req.Context())
	req = req.Clone(req.Context())
	req.Header.Set(trace.HeaderRequestID, requestID)
	req.Header.Set(trace.HeaderSpanID, spanID)

	fields := config.Fields{
		"method":     req.Method,
		"host":       req.URL.Host,
		"path":       req.URL.Path,
		"request_id": requestID,
		"span_id":    spanID,
	}

	if l.logBody && req.Body != nil && req.GetBody != nil {
		if rc, err := req.GetBody(); err == nil {
			b, _ := io.ReadAll(io.LimitReader(rc, maxBodyLog))
			rc.Close()
			if len(b) > 0 {
				fields["body"] = string(b)
			}
		}
	}

	resp, err := l.inner.RoundTrip(req)
	fields["duration"] = time.Since(start).String()
	if err != nil {
		fields["error"] = err.Error()
		config.ErrorWithFields("httpclient request failed", fields)
		return nil, err
	}
	fields["status"] = resp.StatusCode
	config.DebugWithFields("httpclient request done", fields)
	return resp, nil
}

// BaseClient 는 공통 http.Client 와 baseURL 을 묶어 요청 생성을 돕는다.
type BaseClient struct {
	HTTPClient *http.Client
	BaseURL    string
}

func NewBaseClient(baseURL string, cfg Config) *BaseClient {
	return &BaseClient{HTTPClient: New(cfg), BaseURL: baseURL}
}

// NewRequest joins relPath onto BaseURL. relPath must not carry a query string.
func (c *BaseClient) NewRequest(ctx context.Context, method, relPath string, query url.Values, body io.Reader) (*http.Request, error) {
	if strings.Contains(relPath, "?") {
		return nil, fmt.Errorf("httpclient: relPath must not contain query string: %s", relPath)
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	if relPath != "" {
		base.Path = path.Join(base.Path, relPath)
	}
	if query != nil {
		base.RawQuery = query.Encode()
	}
	return http.NewRequestWithContext(ctx, method, base.String(), body)
}

// NewJSONRequest 는 payload 를 바디로 하는 JSON 요청을 만든다.
func (c *BaseClient) NewJSONRequest(ctx context.Context, method, relPath string, payload []byte) (*http.Request, error) {
	req, err := c.NewRequest(ctx, method, relPath, nil, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	return c.HTTPClient.Do(req)
}

// New 는 로깅 트랜스포트를 사용하는 http.Client 를 만든다.
// Timeout 0 은 10초, 음수는 타임아웃 없음(컨텍스트로만 제어)이다.
func New(cfg Config) *http.Client {
	timeout := cfg.Timeout
	switch {
	case timeout == 0:
		timeout = 10 * time.Second
	case timeout < 0:
		timeout = 0
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: Transport(http.DefaultTransport, cfg.LogBody),
	}
}

// Transport wraps inner with request logging; used for SDK clients that accept an *http.Client.
func Transport(inner http.RoundTripper, logBody bool) http.RoundTripper {
	if inner == nil {
		inner = http.DefaultTransport
	}
	return &loggingRoundTripper{inner: inner, logBody: logBody}
}

func NewDefault() *http.Client {
	return New(Config{})
}
