package message

import (
	"fmt"

	"github.com/sage-x-project/nngmux/codec"
	"github.com/sage-x-project/nngmux/envelope"
)

// Message pairs Metadata with a typed payload. The round-trip law is:
// for metadata.Encoding = E, Decode(Encode(m)) reproduces the payload field.
type Message[T any] struct {
	Metadata Metadata
	Data     T
}

// EncodedMessage is a Message whose payload has already been serialized to
// bytes per its Encoding, carrying the sender/recipient addresses needed to
// move in and out of the envelope layer.
type EncodedMessage struct {
	Metadata  Metadata
	Payload   []byte
	sender    envelope.Address
	recipient envelope.Address
}

// NewEncodedMessage builds an EncodedMessage by encoding data with m.Encoding.
func NewEncodedMessage[T any](m Message[T], sender, recipient envelope.Address) (EncodedMessage, error) {
	payload, err := codec.Encode(m.Metadata.Encoding, m.Data)
	if err != nil {
		return EncodedMessage{}, err
	}
	if len(payload) > envelope.MaxMessageSize {
		return EncodedMessage{}, fmt.Errorf("message: encoded payload of %d bytes exceeds MaxMessageSize", len(payload))
	}
	return EncodedMessage{
		Metadata:  m.Metadata,
		Payload:   payload,
		sender:    sender,
		recipient: recipient,
	}, nil
}

// Sender returns the originating address.
func (e EncodedMessage) Sender() envelope.Address { return e.sender }

// Recipient returns the destination address.
//
// Earlier ports of this getter returned self.sender, a copy-paste bug;
// this implementation returns the correct field.
func (e EncodedMessage) Recipient() envelope.Address { return e.recipient }

// Decode decodes e.Payload into a typed Message, using e.Metadata.Encoding.
func Decode[T any](e EncodedMessage) (Message[T], error) {
	var data T
	if err := codec.Decode(e.Metadata.Encoding, e.Payload, &data); err != nil {
		return Message[T]{}, err
	}
	return Message[T]{Metadata: e.Metadata, Data: data}, nil
}

// ToOpenEnvelope converts e into an in-process OpenEnvelope. Metadata is
// prefixed onto the wire form so it travels alongside the encoded payload.
func (e EncodedMessage) ToOpenEnvelope() (envelope.OpenEnvelope, error) {
	wire, err := MarshalWire(e.Metadata, e.Payload)
	if err != nil {
		return envelope.OpenEnvelope{}, err
	}
	return envelope.OpenEnvelope{
		Sender:    e.sender,
		Recipient: e.recipient,
		Bytes:     wire,
	}, nil
}

// FromOpenEnvelope is the inverse of ToOpenEnvelope.
func FromOpenEnvelope(open envelope.OpenEnvelope) (EncodedMessage, error) {
	meta, payload, err := UnmarshalWire(open.Bytes)
	if err != nil {
		return EncodedMessage{}, err
	}
	return EncodedMessage{
		Metadata:  meta,
		Payload:   payload,
		sender:    open.Sender,
		recipient: open.Recipient,
	}, nil
}
