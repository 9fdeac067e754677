package internal

import (
	"fmt"
	"log"
	"net"
)

// DatagramBackend sends one JSON document per UDP packet, no delimiter.
// Send failures are logged and dropped, never retried: UDP telemetry is
// explicitly best-effort.
type DatagramBackend struct {
	host string
	port int
	conn *net.UDPConn
}

func NewDatagramBackend(host string, port int) *DatagramBackend {
	return &DatagramBackend{host: host, port: port}
}

func (b *DatagramBackend) NeedsTerminator() bool { return false }

func (b *DatagramBackend) Init() error {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", b.host, b.port))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnResolve, err)
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnConnect, err)
	}
	b.conn = conn
	return nil
}

func (b *DatagramBackend) Write(payload []byte) (int, error) {
	n, err := b.conn.Write(payload)
	if err != nil {
		log.Printf("telemetry: datagram send dropped: %v", err)
		return n, nil
	}
	return n, nil
}

func (b *DatagramBackend) Close() error {
	if b.conn == nil {
		return nil
	}
	return b.conn.Close()
}
