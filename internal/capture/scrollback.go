// Package capture provides the raw-output retention layer for a session.
//
// The interpreter keeps only a short tail of decoded text for its
// heuristics; Scrollback keeps a larger window of the verbatim PTY byte
// stream, control sequences included, for the "copy terminal output" debug
// surface. It implements io.Writer so the PTY reader can tee into it.
package capture

import "sync"

// Scrollback is a fixed-capacity circular buffer over a byte stream.
// Once full, each write overwrites the oldest bytes, so the buffer always
// holds the most recent cap bytes ever written.
//
// Scrollback is safe for concurrent use: the PTY reader writes while the
// UI or an export command reads.
type Scrollback struct {
	mu   sync.RWMutex
	data []byte
	off  int // next write position
	n    int // bytes stored, <= len(data)
}

// NewScrollback creates a scrollback retaining the most recent size bytes.
func NewScrollback(size int) *Scrollback {
	if size <= 0 {
		size = 1
	}
	return &Scrollback{data: make([]byte, size)}
}

// Write implements io.Writer. It always succeeds; when p is larger than
// the whole buffer only its tail is kept.
func (s *Scrollback) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	written := len(p)
	if len(p) >= len(s.data) {
		copy(s.data, p[len(p)-len(s.data):])
		s.off = 0
		s.n = len(s.data)
		return written, nil
	}

	head := copy(s.data[s.off:], p)
	copy(s.data, p[head:])
	s.off = (s.off + len(p)) % len(s.data)
	if s.n += len(p); s.n > len(s.data) {
		s.n = len(s.data)
	}
	return written, nil
}

// Bytes returns a copy of the retained stream in chronological order.
func (s *Scrollback) Bytes() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]byte, 0, s.n)
	if s.n < len(s.data) {
		return append(out, s.data[:s.n]...)
	}
	out = append(out, s.data[s.off:]...)
	return append(out, s.data[:s.off]...)
}

// String returns the retained stream as a string.
func (s *Scrollback) String() string {
	return string(s.Bytes())
}

// Len returns the number of bytes currently retained.
func (s *Scrollback) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.n
}

// Reset discards all retained output.
func (s *Scrollback) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.off = 0
	s.n = 0
}
