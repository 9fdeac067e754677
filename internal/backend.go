package internal

// Backend is the uniform surface every transport back-end implements.
// Write is always present; Read and Poll are optional capabilities a
// back-end may additionally expose.
type Backend interface {
	Init() error
	Close() error
	Write(b []byte) (int, error)
}

// Poller reports whether a back-end has data ready without blocking.
// Back-ends that only send (file, datagram) don't implement this.
type Poller interface {
	Poll() bool
}

// Reader lets a back-end receive inbound data, for back-ends with a
// feedback channel (broker consumer, framed-stream, pub/sub overlay).
type Reader interface {
	Read(b []byte) (int, error)
}

// needsTerminator reports whether records written to this back-end should
// have composer.Compose's trailing '\n' appended — true for byte-stream
// back-ends (file, framed-stream raw mode), false for back-ends that are
// already self-delimited (datagram packets, broker messages, framed-stream
// kv mode). See DESIGN.md for the full reasoning.
type needsTerminator interface {
	NeedsTerminator() bool
}
