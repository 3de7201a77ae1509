//go:build !tinygo

package hal

import (
	"io"
	"sync"
)

// hostUART is a drivers.UART over the process's standard streams.
type hostUART struct {
	mu sync.Mutex
	r  io.Reader
	w  io.Writer
}

func (s *hostUART) Read(p []byte) (int, error) {
	if s.r == nil {
		return 0, ErrNotImplemented
	}
	return s.r.Read(p)
}

func (s *hostUART) Write(p []byte) (int, error) {
	if s.w == nil {
		return 0, ErrNotImplemented
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Buffered reports 0: host reads block instead.
func (s *hostUART) Buffered() int { return 0 }
