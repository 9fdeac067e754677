package internal

import (
	"errors"
	"log"
	"sync"
	"time"
)

// TelemetrySystem ties together the session, composer, and dispatcher
// into the single process-wide emission path. It assumes
// single-threaded, game-loop-synchronous use: no internal locking guards
// the hot path.
type TelemetrySystem struct {
	cfg       *Config
	session   *Session
	composer  *Composer
	dispatcher *Dispatcher
	fatal     func(error)

	enabled bool
	started bool
}

var (
	defaultSystem   *TelemetrySystem
	defaultSystemMu sync.Mutex
)

// InitTelemetry wires up the default process-wide TelemetrySystem. Setup
// failures (entropy unavailable, transport connect/resolve/handshake
// failure) are escalated to fatal rather than returned as a soft error;
// fatal may be nil, in which case InitTelemetry itself returns the error
// instead.
func InitTelemetry(cfg *Config, fatal func(error)) error {
	defaultSystemMu.Lock()
	defer defaultSystemMu.Unlock()

	if defaultSystem != nil && defaultSystem.started {
		return nil
	}

	sys := &TelemetrySystem{cfg: cfg, fatal: fatal}
	if err := sys.start(); err != nil {
		if fatal != nil {
			fatal(err)
			return nil
		}
		return err
	}
	defaultSystem = sys
	return nil
}

// StopTelemetry tears down the default TelemetrySystem, if one is active.
func StopTelemetry() error {
	defaultSystemMu.Lock()
	defer defaultSystemMu.Unlock()

	if defaultSystem == nil {
		return nil
	}
	err := defaultSystem.stop()
	defaultSystem = nil
	return err
}

func (s *TelemetrySystem) start() error {
	if !s.cfg.Enabled {
		s.enabled = false
		s.started = true
		return nil
	}

	sess, err := NewSession()
	if err != nil {
		return err
	}
	disp := NewDispatcher()
	if err := disp.Init(s.cfg.Mode, s.cfg, sess.ID()); err != nil {
		return err
	}

	s.session = sess
	s.composer = NewComposer()
	s.dispatcher = disp
	s.enabled = true
	s.started = true
	return nil
}

func (s *TelemetrySystem) stop() error {
	if !s.enabled || s.dispatcher == nil {
		return nil
	}
	return s.dispatcher.Close()
}

// emit is the short-circuit-then-compose-then-dispatch path every On*
// function in emit.go funnels through. Runtime errors are logged and dropped: they are
// never escalated to fatal, since a single lost telemetry record must
// never affect the game loop. A record that overflows maxRecordBytes is a
// misconfiguration, not a runtime error: it goes to the fatal callback
// when one was supplied, and is logged and dropped otherwise.
func (s *TelemetrySystem) emit(desc EventDescriptor, tic uint32) {
	if s == nil || !s.enabled {
		return
	}

	millis := time.Now().UnixMilli()
	rec, err := s.composer.Compose(desc, tic, millis, s.session, s.dispatcher.NeedsTerminator())
	if err != nil {
		if errors.Is(err, ErrRecordOverflow) && s.fatal != nil {
			s.fatal(err)
			return
		}
		log.Printf("telemetry: failed to compose %s record: %v", desc.Kind, err)
		return
	}
	if _, err := s.dispatcher.WriteRecord(rec); err != nil {
		log.Printf("telemetry: failed to write %s record: %v", desc.Kind, err)
		observeDrop(modeLabel(s.cfg.Mode), "write_error")
		return
	}
	observeEmit(modeLabel(s.cfg.Mode), desc.Kind.String())
}

func modeLabel(m TransportMode) string {
	switch m {
	case ModeFile:
		return "file"
	case ModeDatagram:
		return "datagram"
	case ModeBroker:
		return "broker"
	case ModeFramedStream:
		return "framed_stream"
	case ModePubSubOverlay:
		return "pubsub_overlay"
	default:
		return "unknown"
	}
}

func currentSystem() *TelemetrySystem {
	defaultSystemMu.Lock()
	defer defaultSystemMu.Unlock()
	return defaultSystem
}
