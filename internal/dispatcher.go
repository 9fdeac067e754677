package internal

import "fmt"

// Dispatcher owns the single active back-end for the process. Only one transport is ever live at a time; Init is re-entrant:
// a second call while a back-end is active returns nil and leaves that
// back-end in place. Init does not report which mode is active.
type Dispatcher struct {
	mode    TransportMode
	backend Backend
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Init activates the back-end for mode, constructing and initializing it.
// Calling Init again while a back-end is already active is a no-op: it
// returns nil without touching the existing connection.
func (d *Dispatcher) Init(mode TransportMode, cfg *Config, sessionID string) error {
	if d.backend != nil {
		return nil
	}

	backend, err := newBackend(mode, cfg, sessionID)
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return err
	}

	d.mode = mode
	d.backend = backend
	return nil
}

func newBackend(mode TransportMode, cfg *Config, sessionID string) (Backend, error) {
	switch mode {
	case ModeFile:
		return NewFileBackend(), nil
	case ModeDatagram:
		return NewDatagramBackend(cfg.Datagram.Host, cfg.Datagram.Port), nil
	case ModeBroker:
		return NewBrokerBackend(cfg.Broker, sessionID), nil
	case ModeFramedStream:
		return NewWSBackend(cfg.WS, sessionID), nil
	case ModePubSubOverlay:
		return NewPubSubBackend(cfg.WS, sessionID), nil
	default:
		return nil, fmt.Errorf("%w: mode %d", ErrUnsupportedMode, mode)
	}
}

// NeedsTerminator reports whether the active back-end wants composer.Compose
// to append a trailing '\n'. With no active back-end (telemetry disabled,
// Init never called) it defaults to false.
func (d *Dispatcher) NeedsTerminator() bool {
	if nt, ok := d.backend.(needsTerminator); ok {
		return nt.NeedsTerminator()
	}
	return false
}

// WriteRecord hands a composed record to the active back-end. Runtime I/O
// errors here are non-fatal: callers log and continue rather than tearing
// down the emission surface.
func (d *Dispatcher) WriteRecord(b []byte) (int, error) {
	if d.backend == nil {
		return 0, ErrNotConnected
	}
	return d.backend.Write(b)
}

// Poll reports whether the active back-end has inbound data ready,
// without blocking. Back-ends with no feedback channel always report
// false.
func (d *Dispatcher) Poll() bool {
	if p, ok := d.backend.(Poller); ok {
		return p.Poll()
	}
	return false
}

// Read pulls inbound data from the active back-end's feedback channel, if
// it has one.
func (d *Dispatcher) Read(buf []byte) (int, error) {
	if r, ok := d.backend.(Reader); ok {
		return r.Read(buf)
	}
	return 0, ErrWantPoll
}

func (d *Dispatcher) Close() error {
	if d.backend == nil {
		return nil
	}
	err := d.backend.Close()
	d.backend = nil
	return err
}
