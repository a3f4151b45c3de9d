// Package message defines the typed metadata carried by every request/reply
// exchange: MessageType, InstanceId, SessionId, Sequence, Deadline, and the
// Metadata/Message[T] value types built from them.
package message

import "github.com/sage-x-project/nngmux/ulid"

// MessageType names the schema of a payload. Its timestamp component is
// irrelevant; only the identifier value matters.
type MessageType ulid.ID

func NewMessageType() MessageType { return MessageType(ulid.New()) }
func (t MessageType) String() string { return ulid.ID(t).String() }

// InstanceId is unique per message; its timestamp is the message's creation time.
type InstanceId ulid.ID

func NewInstanceId() InstanceId { return InstanceId(ulid.New()) }
func (id InstanceId) String() string { return ulid.ID(id).String() }
func (id InstanceId) ID() ulid.ID    { return ulid.ID(id) }

// SessionId is assigned once at connection establishment and shared by every
// message exchanged on that connection.
type SessionId ulid.ID

func NewSessionId() SessionId { return SessionId(ulid.New()) }
func (id SessionId) String() string { return ulid.ID(id).String() }

// ReqRepId names an RPC method/service type; it is a stable metric label and registry key.
type ReqRepId ulid.ID

func NewReqRepId() ReqRepId { return ReqRepId(ulid.New()) }
func (id ReqRepId) String() string { return ulid.ID(id).String() }

// MessageId names an individual request within a ReqRep exchange.
type MessageId ulid.ID

func NewMessageId() MessageId { return MessageId(ulid.New()) }
func (id MessageId) String() string { return ulid.ID(id).String() }
