package internal

import "encoding/binary"

// Frame length encoding thresholds, per RFC6455 section 5.2 and
// original_source/src/dws.c's init_frame/dumb_recv.
const (
	wsLen7Max  = 125
	wsLen16Tag = 126
	wsLen16Max = 65535
	// wsMaxPayload is the protocol ceiling (2^24). The wire encoding
	// implemented here only supports the 7-bit and 7+16-bit length forms
	// (no 7+64-bit form), so anything over wsLen16Max is rejected with
	// ErrTooLarge in practice — see frameHeaderBytes.
	wsMaxPayload = 1 << 24
)

// frameHeaderBytes builds the first bytes of a client-to-server frame: the
// FIN+opcode byte, the MASK+length byte(s), and the 4 mask bytes. It does
// not touch the payload. The 16-bit length field is always written
// big-endian via encoding/binary, rather than the host-order-dependent
// htons() trick the original C source used.
func frameHeaderBytes(op wsOpcode, mask [4]byte, payloadLen int) ([]byte, error) {
	if payloadLen > wsMaxPayload {
		return nil, ErrTooLarge
	}

	var hdr []byte
	switch {
	case payloadLen <= wsLen7Max:
		hdr = make([]byte, 2, 2+4)
		hdr[0] = 0x80 | byte(op)
		hdr[1] = 0x80 | byte(payloadLen)
	case payloadLen <= wsLen16Max:
		hdr = make([]byte, 4, 4+4)
		hdr[0] = 0x80 | byte(op)
		hdr[1] = 0x80 | wsLen16Tag
		binary.BigEndian.PutUint16(hdr[2:4], uint16(payloadLen))
	default:
		return nil, ErrTooLarge
	}
	hdr = append(hdr, mask[0], mask[1], mask[2], mask[3])
	return hdr, nil
}

// maskPayload XORs each byte of payload with mask[i%4] in place. Applying
// it twice undoes it, per RFC6455 section 5.3.
func maskPayload(payload []byte, mask [4]byte) {
	for i := range payload {
		payload[i] ^= mask[i%4]
	}
}

// wsFrameHeader is the parsed form of a server-to-client frame header,
// excluding payload bytes.
type wsFrameHeader struct {
	fin     bool
	opcode  wsOpcode
	masked  bool
	length  uint64
}

// parseFrameHeaderBytes decodes the first two header bytes (already read by
// the caller) and reports how many more bytes of extended length must be
// read, if any. Servers never mask frames sent to the client (RFC6455
// section 5.1); this client does not enforce that and simply ignores the
// mask bit on receipt, matching original_source/src/dws.c's dumb_recv,
// which never checks it either.
func parseFrameHeaderBytes(b0, b1 byte) (h wsFrameHeader, extraLenBytes int) {
	h.fin = b0&0x80 != 0
	h.opcode = wsOpcode(b0 & 0x0F)
	h.masked = b1&0x80 != 0
	l := b1 & 0x7F
	switch {
	case l <= wsLen7Max:
		h.length = uint64(l)
		return h, 0
	case l == wsLen16Tag:
		return h, 2
	default:
		// 127 (7+64-bit form) is not supported by this client; callers
		// that see this length tag should treat it as ErrTooLarge.
		return h, -1
	}
}

func decodeExtendedLen16(b []byte) uint64 {
	return uint64(binary.BigEndian.Uint16(b))
}
