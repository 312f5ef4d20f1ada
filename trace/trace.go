// Package trace carries a request id and a span counter through context so
// that inbound requests and the outbound calls they cause share one id.
package trace

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

type ctxKey struct{}

const HeaderRequestID = "X-Request-Id"
const HeaderSpanID = "X-Span-Id"

// Info 는 요청 하나의 트레이싱 상태이다. spanSeq 는 outbound 호출마다 1씩 증가한다.
type Info struct {
	RequestID string
	spanSeq   atomic.Int64
}

// GenerateID returns a random request id.
func GenerateID() string {
	return uuid.NewString()
}

// WithRequestID 는 requestID 를 담은 새 컨텍스트를 반환한다. 비어 있으면 새로 만든다.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		requestID = GenerateID()
	}
	return context.WithValue(ctx, ctxKey{}, &Info{RequestID: requestID})
}

func infoFrom(ctx context.Context) *Info {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(ctxKey{}).(*Info)
	return v
}

func RequestIDFromContext(ctx context.Context) string {
	if info := infoFrom(ctx); info != nil {
		return info.RequestID
	}
	return ""
}

// CurrentSpanID 는 증가 없이 현재 span 값을 돌려준다.
func CurrentSpanID(ctx context.Context) string {
	info := infoFrom(ctx)
	if info == nil {
		return "0"
	}
	return strconv.FormatInt(info.spanSeq.Load(), 10)
}

// NextSpanID increments the span counter and returns (requestID, spanID).
// Outside a traced context a fresh request id with span "1" is returned.
func NextSpanID(ctx context.Context) (string, string) {
	info := infoFrom(ctx)
	if info == nil {
		return GenerateID(), "1"
	}
	return info.RequestID, strconv.FormatInt(info.spanSeq.Add(1), 10)
}
