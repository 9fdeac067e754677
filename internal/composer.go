package internal

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// maxRecordBytes is a conservative MTU-minus-one bound on a single
// record.
const maxRecordBytes = 1023

// scratchBufferBytes is sized for the 1023-byte record plus the single
// trailing '\n' some back-ends append.
const scratchBufferBytes = 1024

// Composer builds the structured per-event record, reusing a single
// scratch buffer across the process's lifetime instead of allocating per
// call. It is grounded on original_source/src/doom/x_events.c's logEvent,
// which builds a cJSON object field-by-field into a preallocated buffer
// via cJSON_PrintPreallocated.
type Composer struct {
	scratch *bytes.Buffer
}

// NewComposer allocates the scratch buffer once.
func NewComposer() *Composer {
	buf := bytes.NewBuffer(make([]byte, 0, scratchBufferBytes))
	return &Composer{scratch: buf}
}

// Compose builds one record for desc into the reused scratch buffer and
// returns a view of it. appendNewline controls whether a trailing '\n' is
// appended: stream-oriented back-ends (file, framed-stream raw mode) want
// one; length-prefixed or packet-bounded back-ends (datagram, framed-stream
// kv mode, broker) do not — see DESIGN.md for the reasoning behind which
// back-ends fall in which bucket.
//
// The returned slice aliases the Composer's internal buffer and is only
// valid until the next call to Compose; callers must finish writing it to
// a transport before composing the next record.
func (c *Composer) Compose(desc EventDescriptor, tic uint32, millis int64, sess *Session, appendNewline bool) ([]byte, error) {
	c.scratch.Reset()

	counter := sess.Next()
	if err := writeRecord(c.scratch, desc, tic, millis, sess.ID(), counter); err != nil {
		return nil, err
	}
	if c.scratch.Len() > maxRecordBytes {
		return nil, ErrRecordOverflow
	}
	if appendNewline {
		c.scratch.WriteByte('\n')
	}
	return c.scratch.Bytes(), nil
}

// writeRecord builds a fresh document with counter/session/type/frame,
// then optional actor/target/extra fields.
func writeRecord(buf *bytes.Buffer, desc EventDescriptor, tic uint32, millis int64, sessionID string, counter uint32) error {
	buf.WriteByte('{')
	first := true
	field := func(key string) {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		writeJSONString(buf, key)
		buf.WriteByte(':')
	}

	field("counter")
	buf.WriteString(strconv.FormatUint(uint64(counter), 10))

	field("session")
	writeJSONString(buf, sessionID)

	field("type")
	writeJSONString(buf, desc.Kind.String())

	field("frame")
	buf.WriteByte('{')
	writeJSONString(buf, "millis")
	buf.WriteByte(':')
	buf.WriteString(strconv.FormatInt(millis, 10))
	buf.WriteByte(',')
	writeJSONString(buf, "tic")
	buf.WriteByte(':')
	buf.WriteString(strconv.FormatUint(uint64(tic), 10))
	buf.WriteByte('}')

	if desc.Actor != nil {
		field("actor")
		writeGameObject(buf, desc.Actor)
	}
	if desc.Target != nil {
		field("target")
		writeGameObject(buf, desc.Target)
	}
	if desc.Extra != nil {
		field(desc.Extra.Key)
		if err := writeJSONValue(buf, desc.Extra.Value); err != nil {
			return err
		}
	}

	buf.WriteByte('}')
	return nil
}

// writeGameObject writes an actor/target object: position:{x,y,z,angle,
// subsector}, type, health, (armor if player), id.
func writeGameObject(buf *bytes.Buffer, o *GameObject) {
	buf.WriteByte('{')

	writeJSONString(buf, "position")
	buf.WriteByte(':')
	buf.WriteByte('{')
	writeJSONString(buf, "x")
	buf.WriteByte(':')
	buf.WriteString(formatFloat(o.Position.X))
	buf.WriteByte(',')
	writeJSONString(buf, "y")
	buf.WriteByte(':')
	buf.WriteString(formatFloat(o.Position.Y))
	buf.WriteByte(',')
	writeJSONString(buf, "z")
	buf.WriteByte(':')
	buf.WriteString(formatFloat(o.Position.Z))
	buf.WriteByte(',')
	writeJSONString(buf, "angle")
	buf.WriteByte(':')
	buf.WriteString(formatFloat(o.Position.Angle))
	buf.WriteByte(',')
	writeJSONString(buf, "subsector")
	buf.WriteByte(':')
	buf.WriteString(strconv.FormatUint(o.Position.Subsector, 10))
	buf.WriteByte('}')

	buf.WriteByte(',')
	writeJSONString(buf, "type")
	buf.WriteByte(':')
	if o.IsPlayer {
		writeJSONString(buf, "player")
	} else {
		writeJSONString(buf, enemyKindLabel(o.Kind))
	}

	buf.WriteByte(',')
	writeJSONString(buf, "health")
	buf.WriteByte(':')
	buf.WriteString(strconv.Itoa(o.Health))

	if o.IsPlayer {
		buf.WriteByte(',')
		writeJSONString(buf, "armor")
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(o.Armor))
	}

	buf.WriteByte(',')
	writeJSONString(buf, "id")
	buf.WriteByte(':')
	buf.WriteString(strconv.FormatUint(o.ID, 10))

	buf.WriteByte('}')
}

func writeJSONString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}

func writeJSONValue(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
