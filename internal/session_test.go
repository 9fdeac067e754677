package internal

import "testing"

func TestNewSessionIDShape(t *testing.T) {
	s, err := NewSession()
	if err != nil {
		t.Fatalf("NewSession() = %v", err)
	}
	if len(s.ID()) != 24 {
		t.Fatalf("session id length = %d, want 24", len(s.ID()))
	}
	for _, r := range s.ID() {
		if !(r >= '0' && r <= '9') && !(r >= 'a' && r <= 'f') {
			t.Fatalf("session id %q contains non-lowercase-hex rune %q", s.ID(), r)
		}
	}
}

func TestSessionIDFixedAcrossSequence(t *testing.T) {
	s, err := NewSession()
	if err != nil {
		t.Fatalf("NewSession() = %v", err)
	}
	id := s.ID()
	for i := 0; i < 5; i++ {
		s.Next()
	}
	if s.ID() != id {
		t.Fatalf("session id changed after Next() calls: %q -> %q", id, s.ID())
	}
}

func TestSessionNextStrictlyIncreasing(t *testing.T) {
	s, err := NewSession()
	if err != nil {
		t.Fatalf("NewSession() = %v", err)
	}
	var prev uint32
	for i := 0; i < 10; i++ {
		v := s.Next()
		if i > 0 && v != prev+1 {
			t.Fatalf("sequence not strictly increasing: prev=%d, got=%d", prev, v)
		}
		prev = v
	}
}

func TestSessionNextWraparound(t *testing.T) {
	s := &Session{seq: ^uint32(0)}
	last := s.Next()
	if last != ^uint32(0) {
		t.Fatalf("Next() = %d, want max uint32", last)
	}
	wrapped := s.Next()
	if wrapped != 0 {
		t.Fatalf("Next() after wraparound = %d, want 0", wrapped)
	}
}
