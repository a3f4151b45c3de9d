package message_test

import (
	"testing"
	"time"

	"github.com/sage-x-project/nngmux/codec"
	"github.com/sage-x-project/nngmux/envelope"
	"github.com/sage-x-project/nngmux/message"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Value string `json:"value" cbor:"value" msgpack:"value"`
}

func TestMessageWireRoundTrip(t *testing.T) {
	enc := codec.Encoding{Kind: codec.JSON, Compression: codec.Gzip}
	deadline := message.NewMessageTimeout(5 * time.Second)
	meta := message.NewMetadata(message.NewMessageType(), enc, &deadline).
		WithSequence(message.NewStrict(3))

	sender, _ := envelope.GenerateKeyPair()
	recipient, _ := envelope.GenerateKeyPair()

	m := message.Message[payload]{Metadata: meta, Data: payload{Value: "round trip me"}}
	encoded, err := message.NewEncodedMessage(m, sender.PublicKey, recipient.PublicKey)
	require.NoError(t, err)
	require.Equal(t, recipient.PublicKey, encoded.Recipient())
	require.Equal(t, sender.PublicKey, encoded.Sender())

	open, err := encoded.ToOpenEnvelope()
	require.NoError(t, err)

	roundTripped, err := message.FromOpenEnvelope(open)
	require.NoError(t, err)
	require.Equal(t, encoded.Metadata, roundTripped.Metadata)
	require.Equal(t, encoded.Payload, roundTripped.Payload)

	decoded, err := message.Decode[payload](roundTripped)
	require.NoError(t, err)
	require.Equal(t, m.Data, decoded.Data)
}

func TestSequenceInc(t *testing.T) {
	require.Equal(t, message.NewStrict(6), message.NewStrict(5).Inc())
	require.Equal(t, message.NewLoose(6), message.NewLoose(5).Inc())
}

func TestDeadlineMessageTimeoutFloorsAtZero(t *testing.T) {
	d := message.NewMessageTimeout(10 * time.Millisecond)
	start := time.Now().Add(-time.Hour)
	require.Equal(t, time.Duration(0), d.Remaining(start, time.Now()))
}

func TestDeadlineProcessingTimeoutIsLiteral(t *testing.T) {
	d := message.NewProcessingTimeout(250 * time.Millisecond)
	require.Equal(t, 250*time.Millisecond, d.Remaining(time.Now().Add(-time.Hour), time.Now()))
}
