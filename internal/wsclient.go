package internal

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"syscall"
	"time"
)

// Client is a minimal RFC6455 client: text-upgrade handshake followed by
// binary framing, masking, and control-opcode handling. It is hand-rolled
// rather than built on a websocket library, grounded directly on
// original_source/src/dws.c (dumb_connect/dumb_handshake/dumb_send/
// dumb_recv/dumb_ping/dumb_close), with the frame header layout
// cross-checked against other_examples' independent Go implementations.
//
// Only one stream is meant to be active per process, so Client carries no
// internal locking; callers own serialization.
type Client struct {
	conn      net.Conn
	host      string
	port      string
	connected bool
	fwmark    uint32

	// ioBudget bounds how long the all-or-nothing read/write loops will
	// busy-spin on a transient EAGAIN/WantPoll* condition before giving up,
	// instead of spinning forever. See util.go's spinBudget.
	ioBudget time.Duration
}

// NewClient constructs a disconnected Client. fwmark, if non-zero, is
// applied to the underlying socket via SO_MARK on Linux (see
// fwmark_linux.go); it is a no-op error on other platforms unless zero.
func NewClient(fwmark uint32) *Client {
	return &Client{fwmark: fwmark, ioBudget: 5 * time.Second}
}

const handshakeBufSize = 1024

var serverHandshakePrefix = []byte("HTTP/1.1 101 Switching Protocols")

const handshakeTemplate = "GET %s HTTP/1.1\r\n" +
	"Host: %s\r\n" +
	"Upgrade: websocket\r\n" +
	"Connection: Upgrade\r\n" +
	"Sec-WebSocket-Key: %s\r\n" +
	"Sec-WebSocket-Protocol: %s\r\n" +
	"Sec-WebSocket-Version: 13\r\n\r\n"

// Connect resolves host and dials the first address it gets back.
func (c *Client) Connect(ctx context.Context, host string, port int) error {
	addrs, err := net.DefaultResolver.LookupHost(ctx, host)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnResolve, err)
	}
	if len(addrs) == 0 {
		return fmt.Errorf("%w: no addresses for %s", ErrConnResolve, host)
	}

	d := &net.Dialer{Timeout: 10 * time.Second}
	if c.fwmark != 0 {
		d.Control = func(_, _ string, rc syscall.RawConn) error {
			var ctrlErr error
			if err := rc.Control(func(fd uintptr) {
				ctrlErr = setSocketMark(fd, c.fwmark)
			}); err != nil {
				return err
			}
			return ctrlErr
		}
	}

	addr := net.JoinHostPort(addrs[0], strconv.Itoa(port))
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnConnect, err)
	}

	c.conn = conn
	c.host = host
	c.port = strconv.Itoa(port)
	c.connected = true
	return nil
}

// ConnectTLS is Connect followed by a TLS handshake. insecure disables both
// certificate and hostname verification, matching dumb_connect_tls's
// insecure flag.
func (c *Client) ConnectTLS(ctx context.Context, host string, port int, insecure bool) error {
	if err := c.Connect(ctx, host, port); err != nil {
		return err
	}

	cfg := &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
	if insecure {
		cfg.InsecureSkipVerify = true
	}

	tlsConn := tls.Client(c.conn, cfg)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		_ = c.conn.Close()
		c.connected = false
		return fmt.Errorf("%w: %v", ErrConnConnect, err)
	}
	c.conn = tlsConn
	return nil
}

// Handshake sends the literal text-upgrade request and accepts any
// response whose status line matches the exact prefix
// "HTTP/1.1 101 Switching Protocols". The returned Sec-WebSocket-Accept is
// not validated — an explicit, documented decision rather than an
// oversight.
func (c *Client) Handshake(path, subprotocol string) error {
	if !c.connected {
		return ErrNotConnected
	}

	key := dumbHandshakeKey()
	req := fmt.Sprintf(handshakeTemplate, path, net.JoinHostPort(c.host, c.port), key, subprotocol)
	if err := c.writeAll([]byte(req)); err != nil {
		return err
	}

	resp, err := c.readHandshakeResponse()
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(resp, serverHandshakePrefix) {
		return ErrHandshakeRejected
	}
	return nil
}

func (c *Client) readHandshakeResponse() ([]byte, error) {
	buf := make([]byte, 0, 256)
	one := make([]byte, 1)
	for len(buf) < handshakeBufSize {
		if _, err := c.readAllOrNothing(one); err != nil {
			return nil, err
		}
		buf = append(buf, one[0])
		if len(buf) >= 4 && bytes.HasSuffix(buf, []byte("\r\n\r\n")) {
			return buf, nil
		}
	}
	return nil, ErrHandshakeRejected
}

// Send wraps payload in a single masked binary frame (FIN set) and writes
// it in full, or returns an error — it never re-fragments.
func (c *Client) Send(payload []byte) error {
	if !c.connected {
		return ErrNotConnected
	}

	mask := randMask()
	hdr, err := frameHeaderBytes(wsOpBinary, mask, len(payload))
	if err != nil {
		return err
	}

	masked := make([]byte, len(payload))
	copy(masked, payload)
	maskPayload(masked, mask)

	frame := make([]byte, 0, len(hdr)+len(masked))
	frame = append(frame, hdr...)
	frame = append(frame, masked...)
	return c.writeAll(frame)
}

// Recv reads one frame's worth of data. The first header byte is read
// opportunistically: if nothing is available yet, it returns ErrWantPoll
// without blocking the caller. Once a first byte has arrived, the rest of
// the header and payload are read all-or-nothing (busy-spin within a
// bounded budget); a partial read blocking past that point escalates to an
// error rather than returning ErrWantPoll again.
func (c *Client) Recv(buf []byte) (int, error) {
	if !c.connected {
		return 0, ErrNotConnected
	}

	var b0 [1]byte
	if _, err := c.readOpportunistic(b0[:]); err != nil {
		return 0, err
	}

	var b1 [1]byte
	if _, err := c.readAllOrNothing(b1[:]); err != nil {
		return 0, err
	}

	h, extra := parseFrameHeaderBytes(b0[0], b1[0])
	if !h.fin {
		c.shutdown()
		return 0, ErrFragmentedFrame
	}
	if extra < 0 {
		c.shutdown()
		return 0, ErrTooLarge
	}

	length := h.length
	if extra > 0 {
		ext := make([]byte, extra)
		if _, err := c.readAllOrNothing(ext); err != nil {
			return 0, err
		}
		length = decodeExtendedLen16(ext)
	}

	switch h.opcode {
	case wsOpBinary, wsOpPong:
		return c.readPayloadInto(buf, length)
	case wsOpClose:
		_ = c.drain(length)
		c.shutdown()
		return 0, ErrShutdown
	case wsOpPing:
		_ = c.drain(length)
		return 0, ErrWantPong
	case wsOpText:
		_ = c.drain(length)
		c.shutdown()
		return 0, ErrTextFrame
	default:
		_ = c.drain(length)
		return 0, ErrUnexpectedOpcode
	}
}

func (c *Client) readPayloadInto(buf []byte, length uint64) (int, error) {
	if length == 0 {
		return 0, nil
	}
	payload := make([]byte, length)
	if _, err := c.readAllOrNothing(payload); err != nil {
		return 0, err
	}
	return copy(buf, payload), nil
}

func (c *Client) drain(length uint64) error {
	if length == 0 {
		return nil
	}
	discard := make([]byte, length)
	_, err := c.readAllOrNothing(discard)
	return err
}

// Ping sends an empty PING frame and synchronously reads and discards
// exactly one PONG.
func (c *Client) Ping() error {
	if !c.connected {
		return ErrNotConnected
	}

	mask := randMask()
	hdr, err := frameHeaderBytes(wsOpPing, mask, 0)
	if err != nil {
		return err
	}
	if err := c.writeAll(hdr); err != nil {
		return err
	}

	op, _, err := c.readFrameBlocking()
	if err != nil {
		return err
	}
	if op != wsOpPong {
		return ErrUnexpectedOpcode
	}
	return nil
}

// Close sends a CLOSE frame, reads the server's mandatory CLOSE response,
// and shuts down the underlying socket.
func (c *Client) Close() error {
	if !c.connected {
		return nil
	}

	mask := randMask()
	if hdr, err := frameHeaderBytes(wsOpClose, mask, 0); err == nil {
		_ = c.writeAll(hdr)
	}
	_, _, _ = c.readFrameBlocking()

	c.shutdown()
	return c.conn.Close()
}

func (c *Client) shutdown() {
	c.connected = false
}

// readFrameBlocking reads one full frame (header + payload) without the
// opportunistic first-byte short-circuit Recv uses; it is meant for
// synchronous protocol steps (Ping, Close) where the caller already knows
// a response must follow.
func (c *Client) readFrameBlocking() (wsOpcode, []byte, error) {
	var hdr [2]byte
	if _, err := c.readAllOrNothing(hdr[:]); err != nil {
		return 0, nil, err
	}
	h, extra := parseFrameHeaderBytes(hdr[0], hdr[1])
	if !h.fin {
		return 0, nil, ErrFragmentedFrame
	}
	if extra < 0 {
		return 0, nil, ErrTooLarge
	}

	length := h.length
	if extra > 0 {
		ext := make([]byte, extra)
		if _, err := c.readAllOrNothing(ext); err != nil {
			return 0, nil, err
		}
		length = decodeExtendedLen16(ext)
	}

	var payload []byte
	if length > 0 {
		payload = make([]byte, length)
		if _, err := c.readAllOrNothing(payload); err != nil {
			return 0, nil, err
		}
	}
	return h.opcode, payload, nil
}

func isTimeoutErr(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}

// readOpportunistic attempts a single non-blocking-ish read: a very short
// deadline stands in for O_NONBLOCK, since Go's net.Conn has no portable
// EAGAIN surface. A timeout with zero bytes read becomes ErrWantPoll.
func (c *Client) readOpportunistic(buf []byte) (int, error) {
	_ = c.conn.SetReadDeadline(time.Now().Add(time.Millisecond))
	n, err := c.conn.Read(buf)
	_ = c.conn.SetReadDeadline(time.Time{})
	if err != nil {
		if isTimeoutErr(err) && n == 0 {
			return 0, ErrWantPoll
		}
		return n, err
	}
	return n, nil
}

// readAllOrNothing fills buf completely or returns an error, busy-spinning
// through transient timeouts within a bounded budget (see spinBudget).
func (c *Client) readAllOrNothing(buf []byte) (int, error) {
	budget := newSpinBudget(c.ioBudget)
	total := 0
	for total < len(buf) {
		_ = c.conn.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
		n, err := c.conn.Read(buf[total:])
		total += n
		if err != nil {
			if isTimeoutErr(err) {
				if budget.tick() {
					return total, fmt.Errorf("telemetry: read budget exhausted: %w", err)
				}
				continue
			}
			_ = c.conn.SetReadDeadline(time.Time{})
			return total, err
		}
	}
	_ = c.conn.SetReadDeadline(time.Time{})
	return total, nil
}

// writeAll writes buf completely or returns an error, with the same
// bounded busy-spin behavior as readAllOrNothing.
func (c *Client) writeAll(buf []byte) error {
	budget := newSpinBudget(c.ioBudget)
	total := 0
	for total < len(buf) {
		_ = c.conn.SetWriteDeadline(time.Now().Add(50 * time.Millisecond))
		n, err := c.conn.Write(buf[total:])
		total += n
		if err != nil {
			if isTimeoutErr(err) {
				if budget.tick() {
					return fmt.Errorf("telemetry: write budget exhausted: %w", err)
				}
				continue
			}
			_ = c.conn.SetWriteDeadline(time.Time{})
			return err
		}
	}
	_ = c.conn.SetWriteDeadline(time.Time{})
	return nil
}
