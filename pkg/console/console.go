// Package console serializes writes to a shared output stream.
package console

import (
	"io"
	"sync"
)

// SyncWriter guards an io.Writer with a mutex so that each Write call lands
// as one contiguous block, even when callers run on many goroutines.
type SyncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSyncWriter wraps w. A nil w discards everything.
func NewSyncWriter(w io.Writer) *SyncWriter {
	if w == nil {
		w = io.Discard
	}
	return &SyncWriter{w: w}
}

func (s *SyncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// WriteString writes str in a single call.
func (s *SyncWriter) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

// Do runs fn with exclusive access to the underlying writer, for output
// that must be produced by several writes without interleaving.
func (s *SyncWriter) Do(fn func(w io.Writer) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.w)
}
