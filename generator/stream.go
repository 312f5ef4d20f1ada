package generator

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const DoneSentinel = "[DONE]"

// Event types sent over the generation stream.
const (
	EventDelta = "delta"
	EventDone  = "done"
	EventError = "error"
)

type StreamEvent struct {
	Type    string   `json:"type"`
	Content string   `json:"content,omitempty"`
	Article *Article `json:"article,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// SSEWriter writes `data: ...\n\n` frames and flushes after each one.
type SSEWriter struct {
	w       io.Writer
	flusher http.Flusher
}

func NewSSEWriter(w http.ResponseWriter) *SSEWriter {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	f, _ := w.(http.Flusher)
	return &SSEWriter{w: w, flusher: f}
}

func (s *SSEWriter) Event(ev StreamEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.raw(string(b))
}

func (s *SSEWriter) Done() error {
	return s.raw(DoneSentinel)
}

func (s *SSEWriter) raw(data string) error {
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return err
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}

var ErrStreamIncomplete = errors.New("generator: stream ended before [DONE]")

// StreamError is an error event sent by the server.
type StreamError struct {
	Message string
}

func (e *StreamError) Error() string { return "generation stream error: " + e.Message }

// ConsumeStream reads a generation stream. Deltas are applied in arrival order
// and the accumulated buffer is re-parsed after each one for onPreview.
// The article is returned only after the [DONE] sentinel; on cancellation or an
// early EOF the partial buffer is discarded.
func ConsumeStream(ctx context.Context, r io.Reader, onPreview func(Parsed)) (*Article, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var buf strings.Builder
	var final *Article
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := sc.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == DoneSentinel {
			if final == nil {
				p, err := checkContent(ParseDelimited(buf.String()))
				if err != nil {
					return nil, err
				}
				final = &Article{
					Title:    p.Title,
					Excerpt:  p.Excerpt,
					Author:   p.Author,
					Content:  p.Content,
					IsUrgent: p.Urgent,
				}
			}
			return final, nil
		}

		var ev StreamEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			continue
		}
		switch ev.Type {
		case EventDelta:
			buf.WriteString(ev.Content)
			if onPreview != nil {
				onPreview(ParseDelimited(buf.String()))
			}
		case EventDone:
			final = ev.Article
		case EventError:
			return nil, &StreamError{Message: ev.Error}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nil, ErrStreamIncomplete
}
