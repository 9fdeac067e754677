package internal

import "errors"

// Setup failures. These are never retried; callers escalate them to the
// host's fatal-error callback (see InitTelemetry).
var (
	ErrConnCreate        = errors.New("telemetry: failed to create socket")
	ErrConnResolve       = errors.New("telemetry: failed to resolve host")
	ErrConnConnect       = errors.New("telemetry: failed to connect")
	ErrHandshakeRejected = errors.New("telemetry: websocket handshake rejected")
	ErrEntropyUnavailable = errors.New("telemetry: entropy source unavailable")
	ErrUnsupportedMode   = errors.New("telemetry: unsupported transport mode")
	ErrConfigInvalid     = errors.New("telemetry: invalid configuration")
)

// Protocol violations. When Client.Recv receives a fragmented, text or
// oversize frame it tears the stream down, and the back-end that owns it
// must re-init to recover. Send returns ErrTooLarge before writing
// anything, and ErrUnexpectedOpcode leaves the stream up: the frame is
// drained and dropped.
var (
	ErrFragmentedFrame = errors.New("telemetry: fragmented frame not supported")
	ErrTextFrame       = errors.New("telemetry: text frames are not supported")
	ErrTooLarge        = errors.New("telemetry: payload too large to frame")
	ErrUnexpectedOpcode = errors.New("telemetry: unexpected opcode")
)

// Transient conditions. Never fatal: retried once or surfaced to the
// caller as "no data available right now".
var (
	ErrWantPoll  = errors.New("telemetry: no data available, poll again")
	ErrWantPong  = errors.New("telemetry: expected pong")
	ErrShutdown  = errors.New("telemetry: peer closed the connection")
	ErrQueueFull = errors.New("telemetry: producer queue full")
)

// ErrNotConnected is returned by wsclient operations attempted before Connect.
var ErrNotConnected = errors.New("telemetry: websocket client not connected")

// ErrRecordOverflow indicates the composer could not fit a record in the
// scratch buffer. This is treated as a misconfiguration (the schema is
// supposed to be chosen to fit) and is therefore fatal, not dropped
// (see TelemetrySystem.emit).
var ErrRecordOverflow = errors.New("telemetry: record exceeds maximum payload size")
