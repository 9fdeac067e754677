package internal

import (
	"context"
	"encoding/binary"
)

// wsReadScratch is sized well above maxRecordBytes. A feedback frame
// longer than wsReadScratch bytes is truncated to it by Recv.
const wsReadScratch = 4096

// WSBackend is the framed-stream back-end: a single persistent Client
// connection, in either raw mode (one JSON document per binary frame) or
// kv mode (a big-endian length-prefixed key/value pair per frame).
type WSBackend struct {
	cfg    WSConfig
	client *Client
	kvKey  string
}

// NewWSBackend constructs a framed-stream back-end. kvKey is the key used
// for every kv-mode frame; it is ignored in raw mode.
func NewWSBackend(cfg WSConfig, kvKey string) *WSBackend {
	return &WSBackend{cfg: cfg, kvKey: kvKey}
}

// NeedsTerminator is true only for raw mode: kv mode is already
// length-prefixed and self-delimiting.
func (b *WSBackend) NeedsTerminator() bool { return !b.cfg.KVMode }

func (b *WSBackend) Init() error {
	b.client = NewClient(b.cfg.Fwmark)
	ctx := context.Background()

	var err error
	if b.cfg.TLSEnabled {
		err = b.client.ConnectTLS(ctx, b.cfg.Host, b.cfg.Port, false)
	} else {
		err = b.client.Connect(ctx, b.cfg.Host, b.cfg.Port)
	}
	if err != nil {
		return err
	}
	return b.client.Handshake(b.cfg.Resource, "telemetry")
}

func (b *WSBackend) Write(payload []byte) (int, error) {
	if !b.cfg.KVMode {
		if err := b.client.Send(payload); err != nil {
			return 0, err
		}
		return len(payload), nil
	}

	frame := encodeKV(b.kvKey, payload)
	if err := b.client.Send(frame); err != nil {
		return 0, err
	}
	return len(payload), nil
}

// Poll opportunistically checks for inbound data without blocking past a
// single short read attempt.
func (b *WSBackend) Poll() bool {
	var probe [1]byte
	n, err := b.client.Recv(probe[:])
	if err == ErrWantPoll {
		return false
	}
	return err == nil || n > 0
}

func (b *WSBackend) Read(out []byte) (int, error) {
	var scratch [wsReadScratch]byte
	n, err := b.client.Recv(scratch[:])
	if err != nil {
		return 0, err
	}
	return copy(out, scratch[:n]), nil
}

func (b *WSBackend) Close() error {
	if b.client == nil {
		return nil
	}
	return b.client.Close()
}

// encodeKV builds the u16be key_len|key|u16be value_len|value wire shape.
// Big-endian was chosen unconditionally for the header length fields.
func encodeKV(key string, value []byte) []byte {
	out := make([]byte, 0, 2+len(key)+2+len(value))
	var lenBuf [2]byte

	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(key)))
	out = append(out, lenBuf[:]...)
	out = append(out, key...)

	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(value)))
	out = append(out, lenBuf[:]...)
	out = append(out, value...)
	return out
}
