package internal

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Session holds the process-wide session id and sequence counter. It
// assumes single-threaded access: not protected by locks, because the
// core assumes single-threaded, game-loop-synchronous use.
type Session struct {
	id  string
	seq uint32
}

// NewSession generates a fresh session id from 12 bytes read off the
// platform's cryptographic entropy source, hex-encoded to 24 lowercase
// characters. Unlike the wire protocol's masking key (rand.go, which
// doesn't need to be unpredictable), the session id is explicitly
// specified to come from a real entropy source — failure here is fatal
// setup failure, not a dropped record.
func NewSession() (*Session, error) {
	raw := make([]byte, 12)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
	}
	return &Session{id: hex.EncodeToString(raw)}, nil
}

// ID returns the 24-character hex session id, fixed for the process
// lifetime.
func (s *Session) ID() string {
	return s.id
}

// Next returns the current sequence value and increments the counter.
// Wraparound at 2^32 is intentional and tolerated.
func (s *Session) Next() uint32 {
	v := s.seq
	s.seq++
	return v
}
