package internal

import "testing"

func TestFrameHeaderBytesLengthForms(t *testing.T) {
	mask := [4]byte{1, 2, 3, 4}

	cases := []struct {
		name       string
		payloadLen int
		wantLen    int // header bytes before the 4 mask bytes
	}{
		{"zero", 0, 2},
		{"boundary 125", wsLen7Max, 2},
		{"boundary 126", wsLen7Max + 1, 4},
		{"boundary 65535", wsLen16Max, 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			hdr, err := frameHeaderBytes(wsOpBinary, mask, c.payloadLen)
			if err != nil {
				t.Fatalf("frameHeaderBytes(%d): %v", c.payloadLen, err)
			}
			if len(hdr) != c.wantLen+4 {
				t.Fatalf("header length = %d, want %d", len(hdr), c.wantLen+4)
			}
			if hdr[len(hdr)-4] != mask[0] || hdr[len(hdr)-1] != mask[3] {
				t.Fatalf("mask bytes not appended correctly: %v", hdr)
			}
		})
	}
}

func TestFrameHeaderBytesRejectsOversize(t *testing.T) {
	mask := [4]byte{}
	if _, err := frameHeaderBytes(wsOpBinary, mask, wsLen16Max+1); err != ErrTooLarge {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
}

func TestFrameHeaderFINAndOpcode(t *testing.T) {
	mask := [4]byte{}
	hdr, err := frameHeaderBytes(wsOpPing, mask, 0)
	if err != nil {
		t.Fatalf("frameHeaderBytes: %v", err)
	}
	if hdr[0] != 0x80|byte(wsOpPing) {
		t.Fatalf("byte0 = %#x, want FIN set and opcode PING", hdr[0])
	}
}

func TestMaskPayloadRoundTrip(t *testing.T) {
	mask := [4]byte{0xde, 0xad, 0xbe, 0xef}
	original := []byte("hello telemetry")
	buf := append([]byte(nil), original...)

	maskPayload(buf, mask)
	if string(buf) == string(original) {
		t.Fatalf("masking did not change payload")
	}
	maskPayload(buf, mask)
	if string(buf) != string(original) {
		t.Fatalf("double masking did not restore payload: got %q, want %q", buf, original)
	}
}

func TestParseFrameHeaderBytes(t *testing.T) {
	// FIN=1, opcode=binary, masked=0, length=10
	h, extra := parseFrameHeaderBytes(0x80|byte(wsOpBinary), 10)
	if !h.fin || h.opcode != wsOpBinary || h.length != 10 || extra != 0 {
		t.Fatalf("unexpected parse: %+v extra=%d", h, extra)
	}

	// length tag 126 requires 2 extended bytes
	_, extra = parseFrameHeaderBytes(0x80|byte(wsOpBinary), 0x80|wsLen16Tag)
	if extra != 2 {
		t.Fatalf("extra = %d, want 2 for 16-bit length tag", extra)
	}

	// length tag 127 (64-bit form) is unsupported
	_, extra = parseFrameHeaderBytes(0x80|byte(wsOpBinary), 0x80|127)
	if extra != -1 {
		t.Fatalf("extra = %d, want -1 for unsupported 64-bit length form", extra)
	}
}

func TestDecodeExtendedLen16(t *testing.T) {
	if got := decodeExtendedLen16([]byte{0x01, 0x00}); got != 256 {
		t.Fatalf("decodeExtendedLen16 = %d, want 256", got)
	}
}
