package message

import (
	"time"

	"github.com/sage-x-project/nngmux/codec"
)

// Metadata is immutable once constructed; builders (With*) return modified copies.
type Metadata struct {
	Type        MessageType
	Instance    InstanceId
	Encoding    codec.Encoding
	Deadline    *Deadline
	Correlation *InstanceId
	Session     SessionId
	Sequence    *Sequence
}

// NewMetadata assigns a fresh InstanceId and SessionId, with no correlation
// and no sequence.
func NewMetadata(t MessageType, enc codec.Encoding, deadline *Deadline) Metadata {
	return Metadata{
		Type:     t,
		Instance: NewInstanceId(),
		Encoding: enc,
		Deadline: deadline,
		Session:  NewSessionId(),
	}
}

// WithSession returns a copy of m bound to the given session.
func (m Metadata) WithSession(s SessionId) Metadata {
	m.Session = s
	return m
}

// WithSequence returns a copy of m carrying seq.
func (m Metadata) WithSequence(seq Sequence) Metadata {
	m.Sequence = &seq
	return m
}

// WithCorrelation returns a copy of m correlated to a prior InstanceId (e.g. a
// reply referencing the request it answers).
func (m Metadata) WithCorrelation(id InstanceId) Metadata {
	m.Correlation = &id
	return m
}

// Timestamp derives the message's creation time from its InstanceId's ULID
// timestamp, at millisecond resolution. Callers needing sub-millisecond
// ordering must additionally rely on Sequence.
func (m Metadata) Timestamp() time.Time {
	return m.Instance.ID().Time()
}
