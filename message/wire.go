package message

import (
	"encoding/binary"
	"fmt"

	"github.com/sage-x-project/nngmux/codec"
)

// MarshalWire encodes metadata followed by the already-serialized payload.
// Metadata field order is msg_type, instance_id, encoding, deadline?,
// correlation?, session_id, sequence?, with optional fields encoded as
// {present:bool, value?}.
func MarshalWire(m Metadata, payload []byte) ([]byte, error) {
	buf := make([]byte, 0, 16+16+2+1+17+16+1+9+len(payload))

	buf = append(buf, m.Type[:]...)
	buf = append(buf, m.Instance[:]...)

	buf = append(buf, byte(m.Encoding.Kind))
	if m.Encoding.Compression != codec.CompressionNone {
		buf = append(buf, 1, byte(m.Encoding.Compression))
	} else {
		buf = append(buf, 0)
	}

	buf = appendOptionalDeadline(buf, m.Deadline)
	buf = appendOptionalInstanceId(buf, m.Correlation)

	buf = append(buf, m.Session[:]...)

	buf = appendOptionalSequence(buf, m.Sequence)

	buf = append(buf, payload...)
	return buf, nil
}

// UnmarshalWire is the inverse of MarshalWire.
func UnmarshalWire(data []byte) (Metadata, []byte, error) {
	var m Metadata
	off := 0

	if len(data) < off+16 {
		return m, nil, fmt.Errorf("message: truncated msg_type")
	}
	copy(m.Type[:], data[off:off+16])
	off += 16

	if len(data) < off+16 {
		return m, nil, fmt.Errorf("message: truncated instance_id")
	}
	copy(m.Instance[:], data[off:off+16])
	off += 16

	if len(data) < off+1 {
		return m, nil, fmt.Errorf("message: truncated encoding kind")
	}
	m.Encoding.Kind = codec.Kind(data[off])
	off++
	if len(data) < off+1 {
		return m, nil, fmt.Errorf("message: truncated encoding compression flag")
	}
	present := data[off]
	off++
	if present != 0 {
		if len(data) < off+1 {
			return m, nil, fmt.Errorf("message: truncated compression value")
		}
		m.Encoding.Compression = codec.Compression(data[off])
		off++
	}

	var err error
	m.Deadline, off, err = readOptionalDeadline(data, off)
	if err != nil {
		return m, nil, err
	}
	m.Correlation, off, err = readOptionalInstanceId(data, off)
	if err != nil {
		return m, nil, err
	}

	if len(data) < off+16 {
		return m, nil, fmt.Errorf("message: truncated session_id")
	}
	copy(m.Session[:], data[off:off+16])
	off += 16

	m.Sequence, off, err = readOptionalSequence(data, off)
	if err != nil {
		return m, nil, err
	}

	return m, data[off:], nil
}

func appendOptionalDeadline(buf []byte, d *Deadline) []byte {
	if d == nil {
		return append(buf, 0)
	}
	buf = append(buf, 1, byte(d.Kind))
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], d.Millis)
	return append(buf, b[:]...)
}

func readOptionalDeadline(data []byte, off int) (*Deadline, int, error) {
	if len(data) < off+1 {
		return nil, off, fmt.Errorf("message: truncated deadline flag")
	}
	present := data[off]
	off++
	if present == 0 {
		return nil, off, nil
	}
	if len(data) < off+9 {
		return nil, off, fmt.Errorf("message: truncated deadline value")
	}
	d := &Deadline{Kind: DeadlineKind(data[off])}
	off++
	d.Millis = binary.LittleEndian.Uint64(data[off : off+8])
	off += 8
	return d, off, nil
}

func appendOptionalInstanceId(buf []byte, id *InstanceId) []byte {
	if id == nil {
		return append(buf, 0)
	}
	buf = append(buf, 1)
	return append(buf, id[:]...)
}

func readOptionalInstanceId(data []byte, off int) (*InstanceId, int, error) {
	if len(data) < off+1 {
		return nil, off, fmt.Errorf("message: truncated correlation flag")
	}
	present := data[off]
	off++
	if present == 0 {
		return nil, off, nil
	}
	if len(data) < off+16 {
		return nil, off, fmt.Errorf("message: truncated correlation value")
	}
	var id InstanceId
	copy(id[:], data[off:off+16])
	off += 16
	return &id, off, nil
}

func appendOptionalSequence(buf []byte, s *Sequence) []byte {
	if s == nil {
		return append(buf, 0)
	}
	buf = append(buf, 1, byte(s.Mode))
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], s.N)
	return append(buf, b[:]...)
}

func readOptionalSequence(data []byte, off int) (*Sequence, int, error) {
	if len(data) < off+1 {
		return nil, off, fmt.Errorf("message: truncated sequence flag")
	}
	present := data[off]
	off++
	if present == 0 {
		return nil, off, nil
	}
	if len(data) < off+9 {
		return nil, off, fmt.Errorf("message: truncated sequence value")
	}
	s := &Sequence{Mode: SequenceMode(data[off])}
	off++
	s.N = binary.LittleEndian.Uint64(data[off : off+8])
	off += 8
	return s, off, nil
}
