package internal

import (
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"
)

func newTestClientPair(t *testing.T) (*Client, net.Conn) {
	t.Helper()
	clientSide, serverSide := net.Pipe()
	c := &Client{conn: clientSide, connected: true, ioBudget: time.Second}
	t.Cleanup(func() { _ = clientSide.Close(); _ = serverSide.Close() })
	return c, serverSide
}

// readRawFrame reads one frame off conn using the client's own header
// parsing helpers, unmasking the payload if the mask bit is set.
func readRawFrame(t *testing.T, conn net.Conn) (wsOpcode, []byte) {
	t.Helper()
	var hdr [2]byte
	if _, err := io.ReadFull(conn, hdr[:]); err != nil {
		t.Fatalf("read header: %v", err)
	}
	h, extra := parseFrameHeaderBytes(hdr[0], hdr[1])
	length := h.length
	if extra > 0 {
		ext := make([]byte, extra)
		if _, err := io.ReadFull(conn, ext); err != nil {
			t.Fatalf("read extended length: %v", err)
		}
		length = decodeExtendedLen16(ext)
	}
	var mask [4]byte
	if h.masked {
		if _, err := io.ReadFull(conn, mask[:]); err != nil {
			t.Fatalf("read mask: %v", err)
		}
	}
	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(conn, payload); err != nil {
			t.Fatalf("read payload: %v", err)
		}
	}
	if h.masked {
		maskPayload(payload, mask)
	}
	return h.opcode, payload
}

// buildUnmaskedFrame builds a server-style frame (no mask bit), matching
// what a real websocket server sends to clients.
func buildUnmaskedFrame(op wsOpcode, payload []byte) []byte {
	var hdr []byte
	switch {
	case len(payload) <= wsLen7Max:
		hdr = []byte{0x80 | byte(op), byte(len(payload))}
	default:
		var ext [2]byte
		binary.BigEndian.PutUint16(ext[:], uint16(len(payload)))
		hdr = append([]byte{0x80 | byte(op), wsLen16Tag}, ext[:]...)
	}
	return append(hdr, payload...)
}

func TestHandshakeAccepted(t *testing.T) {
	c, server := newTestClientPair(t)

	done := make(chan error, 1)
	go func() { done <- c.Handshake("/telemetry", "doom") }()

	buf := make([]byte, 1024)
	n, err := server.Read(buf)
	if err != nil {
		t.Fatalf("server read request: %v", err)
	}
	if n == 0 {
		t.Fatalf("server read empty request")
	}
	if _, err := server.Write([]byte("HTTP/1.1 101 Switching Protocols\r\nUpgrade: websocket\r\n\r\n")); err != nil {
		t.Fatalf("server write response: %v", err)
	}

	if err := <-done; err != nil {
		t.Fatalf("Handshake() = %v, want nil", err)
	}
}

func TestHandshakeRejected(t *testing.T) {
	c, server := newTestClientPair(t)

	done := make(chan error, 1)
	go func() { done <- c.Handshake("/telemetry", "doom") }()

	buf := make([]byte, 1024)
	if _, err := server.Read(buf); err != nil {
		t.Fatalf("server read request: %v", err)
	}
	if _, err := server.Write([]byte("HTTP/1.1 400 Bad Request\r\n\r\n")); err != nil {
		t.Fatalf("server write response: %v", err)
	}

	if err := <-done; err != ErrHandshakeRejected {
		t.Fatalf("Handshake() = %v, want ErrHandshakeRejected", err)
	}
}

func TestSendMasksPayload(t *testing.T) {
	c, server := newTestClientPair(t)
	payload := []byte(`{"type":"move"}`)

	done := make(chan error, 1)
	go func() { done <- c.Send(payload) }()

	op, got := readRawFrame(t, server)
	if err := <-done; err != nil {
		t.Fatalf("Send() = %v", err)
	}
	if op != wsOpBinary {
		t.Fatalf("opcode = %d, want binary", op)
	}
	if string(got) != string(payload) {
		t.Fatalf("payload = %q, want %q", got, payload)
	}
}

func TestRecvUnmaskedFrame(t *testing.T) {
	c, server := newTestClientPair(t)
	payload := []byte(`{"type":"pong-data"}`)

	go func() { _, _ = server.Write(buildUnmaskedFrame(wsOpBinary, payload)) }()

	buf := make([]byte, 256)
	n, err := c.Recv(buf)
	if err != nil {
		t.Fatalf("Recv() = %v", err)
	}
	if string(buf[:n]) != string(payload) {
		t.Fatalf("Recv() payload = %q, want %q", buf[:n], payload)
	}
}

func TestRecvWantPollWhenIdle(t *testing.T) {
	c, _ := newTestClientPair(t)

	buf := make([]byte, 16)
	_, err := c.Recv(buf)
	if err != ErrWantPoll {
		t.Fatalf("Recv() = %v, want ErrWantPoll", err)
	}
}

func TestRecvCloseFrame(t *testing.T) {
	c, server := newTestClientPair(t)
	go func() { _, _ = server.Write(buildUnmaskedFrame(wsOpClose, nil)) }()

	buf := make([]byte, 16)
	_, err := c.Recv(buf)
	if err != ErrShutdown {
		t.Fatalf("Recv() = %v, want ErrShutdown", err)
	}
	if c.connected {
		t.Fatalf("client still marked connected after close frame")
	}
}

func TestRecvPingFrameWantsPong(t *testing.T) {
	c, server := newTestClientPair(t)
	go func() { _, _ = server.Write(buildUnmaskedFrame(wsOpPing, nil)) }()

	buf := make([]byte, 16)
	_, err := c.Recv(buf)
	if err != ErrWantPong {
		t.Fatalf("Recv() = %v, want ErrWantPong", err)
	}
}

func TestPingPong(t *testing.T) {
	c, server := newTestClientPair(t)

	done := make(chan error, 1)
	go func() { done <- c.Ping() }()

	op, _ := readRawFrame(t, server)
	if op != wsOpPing {
		t.Fatalf("opcode = %d, want ping", op)
	}
	if _, err := server.Write(buildUnmaskedFrame(wsOpPong, nil)); err != nil {
		t.Fatalf("server write pong: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Ping() = %v", err)
	}
}
