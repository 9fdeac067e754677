package internal

import (
	"context"
	"encoding/binary"
	"fmt"
)

// mqttConnect/mqttPublish/mqttPingreq are the handful of MQTT 3.1.1 control
// packet types this overlay needs. PubSubBackend only ever publishes at QoS
// 0, so PUBACK/PUBREC/SUBACK and friends never come up.
const (
	mqttConnect  = 1
	mqttConnack  = 2
	mqttPublish  = 3
	mqttPingreq  = 12
	mqttPingresp = 13
)

// PubSubBackend layers a minimal MQTT-lite publish path over the
// framed-stream client, publishing each record to doom/<session>/data.
// It is grounded on original_source/src/mqtt_dws.h + mqtt_pal_dws.c:
// that code pairs
// MQTT-C — itself a minimal, dependency-free MQTT client, not a
// full-featured library — with a PAL adapter translating MQTT-C's
// sendall/recvall calls into dumb_send/dumb_recv. This back-end plays the
// same role directly in Go: a small hand-rolled CONNECT+PUBLISH encoder
// sitting on top of wsclient.Client, rather than wiring a general-purpose
// MQTT client library whose transport/dialer plumbing doesn't compose
// cleanly with an already-open framed-stream connection (see DESIGN.md).
type PubSubBackend struct {
	cfg       WSConfig
	client    *Client
	sessionID string
	topic     string
}

func NewPubSubBackend(cfg WSConfig, sessionID string) *PubSubBackend {
	return &PubSubBackend{cfg: cfg, sessionID: sessionID}
}

// NeedsTerminator is false: each record is already framed by the MQTT
// PUBLISH packet's own remaining-length header.
func (b *PubSubBackend) NeedsTerminator() bool { return false }

func (b *PubSubBackend) Init() error {
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
	if err := b.client.Handshake(b.cfg.Resource, "mqtt"); err != nil {
		return err
	}

	b.topic = fmt.Sprintf("doom/%s/data", b.sessionID)
	return b.mqttConnect()
}

// mqttConnect sends a minimal clean-session CONNECT packet (client id =
// session id, no credentials, no will, no keepalive) and waits for
// CONNACK.
func (b *PubSubBackend) mqttConnect() error {
	var body []byte
	body = appendMQTTString(body, "MQTT")
	body = append(body, 4)    // protocol level 4 (3.1.1)
	body = append(body, 0x02) // clean session, no will/credentials
	body = append(body, 0, 0) // keepalive = 0 (disabled)
	body = appendMQTTString(body, b.sessionID)

	pkt := encodeMQTTFixedHeader(mqttConnect, len(body))
	pkt = append(pkt, body...)
	if err := b.client.Send(pkt); err != nil {
		return fmt.Errorf("telemetry: pub/sub overlay CONNECT failed: %w", err)
	}

	var resp [512]byte
	n, err := b.client.Recv(resp[:])
	if err != nil {
		return fmt.Errorf("telemetry: pub/sub overlay CONNACK failed: %w", err)
	}
	if n < 2 || resp[0]>>4 != mqttConnack {
		return fmt.Errorf("%w: expected CONNACK", ErrHandshakeRejected)
	}
	return nil
}

// Write publishes payload as a QoS-0 PUBLISH to the session's topic.
func (b *PubSubBackend) Write(payload []byte) (int, error) {
	var body []byte
	body = appendMQTTString(body, b.topic)
	body = append(body, payload...)

	// QoS 0, no DUP, no RETAIN: the fixed header's low nibble stays zero.
	pkt := encodeMQTTFixedHeader(mqttPublish, len(body))
	pkt = append(pkt, body...)

	if err := b.client.Send(pkt); err != nil {
		return 0, err
	}
	return len(payload), nil
}

// Poll checks for an inbound frame (e.g. a PINGRESP or, in a fuller
// implementation, a subscribed control message) without blocking.
func (b *PubSubBackend) Poll() bool {
	var probe [1]byte
	_, err := b.client.Recv(probe[:])
	return err != ErrWantPoll
}

func (b *PubSubBackend) Read(out []byte) (int, error) {
	return b.client.Recv(out)
}

func (b *PubSubBackend) Close() error {
	if b.client == nil {
		return nil
	}
	return b.client.Close()
}

func encodeMQTTFixedHeader(packetType byte, remainingLen int) []byte {
	hdr := []byte{packetType << 4}
	hdr = append(hdr, encodeMQTTVarint(remainingLen)...)
	return hdr
}

// encodeMQTTVarint implements MQTT's 7-bit-per-byte remaining-length
// encoding (spec section 2.2.3 of MQTT 3.1.1); records here never
// approach the 4-byte-varint ceiling given the 1023-byte record bound.
func encodeMQTTVarint(n int) []byte {
	var out []byte
	for {
		b := byte(n % 128)
		n /= 128
		if n > 0 {
			b |= 0x80
		}
		out = append(out, b)
		if n == 0 {
			break
		}
	}
	return out
}

func appendMQTTString(buf []byte, s string) []byte {
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(s)))
	buf = append(buf, lenBuf[:]...)
	return append(buf, s...)
}
