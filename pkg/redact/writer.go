package redact

import (
	"io"
	"sync"
)

// Writer is io.Writer middleware that redacts every chunk before passing it
// on. Log frameworks hand it one fully formatted record per Write, so
// secrets injected through format arguments are caught as well.
type Writer struct {
	mu      sync.Mutex
	out     io.Writer
	service *Service
}

// NewWriter wraps out with the default Service.
func NewWriter(out io.Writer) *Writer {
	return NewWriterWith(out, defaultService)
}

// NewWriterWith wraps out with a specific Service.
func NewWriterWith(out io.Writer, service *Service) *Writer {
	if service == nil {
		service = defaultService
	}

	if w, ok := out.(*Writer); ok && w.service == service {
		return w
	}

	return &Writer{out: out, service: service}
}

// Write redacts p and forwards it. The returned count refers to p so
// callers never see a short write caused by masking.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := io.WriteString(w.out, w.service.Redact(string(p))); err != nil {
		return 0, err
	}

	return len(p), nil
}
