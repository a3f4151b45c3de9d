// Package codec serializes typed payloads to byte strings and back, with an
// optional compression pass, per the core's Encoding/Compression data model.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Kind names the serialization scheme. Bincode has no Go port; msgpack is the
// closest compact self-describing binary format in the ecosystem and is what
// this core treats as "Bincode" on the wire (see DESIGN.md).
type Kind int

const (
	Bincode Kind = iota
	CBOR
	JSON
)

func (k Kind) String() string {
	switch k {
	case Bincode:
		return "bincode"
	case CBOR:
		return "cbor"
	case JSON:
		return "json"
	default:
		return "unknown"
	}
}

// Encoding pairs a serialization Kind with an optional Compression pass.
type Encoding struct {
	Kind        Kind
	Compression Compression // CompressionNone if absent
}

// EncodingError wraps a failure raised while serializing or compressing a value.
type EncodingError struct {
	Encoding Encoding
	Cause    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("codec: encode with %s failed: %v", e.Encoding.Kind, e.Cause)
}
func (e *EncodingError) Unwrap() error { return e.Cause }

// DecodingError wraps a failure raised while decompressing or deserializing bytes.
type DecodingError struct {
	Encoding Encoding
	Cause    error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("codec: decode with %s failed: %v", e.Encoding.Kind, e.Cause)
}
func (e *DecodingError) Unwrap() error { return e.Cause }

// Encode serializes v with e.Kind, then applies e.Compression if set.
func Encode(e Encoding, v interface{}) ([]byte, error) {
	raw, err := marshal(e.Kind, v)
	if err != nil {
		return nil, &EncodingError{Encoding: e, Cause: err}
	}
	out, err := compress(e.Compression, raw)
	if err != nil {
		return nil, &EncodingError{Encoding: e, Cause: err}
	}
	return out, nil
}

// Decode is the inverse of Encode: it decompresses data, then deserializes
// into v (which must be a pointer).
func Decode(e Encoding, data []byte, v interface{}) error {
	raw, err := decompress(e.Compression, data)
	if err != nil {
		return &DecodingError{Encoding: e, Cause: err}
	}
	if err := unmarshal(e.Kind, raw, v); err != nil {
		return &DecodingError{Encoding: e, Cause: err}
	}
	return nil
}

func marshal(k Kind, v interface{}) ([]byte, error) {
	switch k {
	case Bincode:
		return msgpack.Marshal(v)
	case CBOR:
		return cbor.Marshal(v)
	case JSON:
		return json.Marshal(v)
	default:
		return nil, fmt.Errorf("codec: unknown encoding kind %d", k)
	}
}

func unmarshal(k Kind, data []byte, v interface{}) error {
	switch k {
	case Bincode:
		return msgpack.Unmarshal(data, v)
	case CBOR:
		return cbor.Unmarshal(data, v)
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		return dec.Decode(v)
	default:
		return fmt.Errorf("codec: unknown encoding kind %d", k)
	}
}
