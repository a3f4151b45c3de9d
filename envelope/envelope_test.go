package envelope_test

import (
	"crypto/ed25519"
	"testing"

	"github.com/sage-x-project/nngmux/envelope"
	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	sender, err := envelope.GenerateKeyPair()
	require.NoError(t, err)
	recipient, err := envelope.GenerateKeyPair()
	require.NoError(t, err)

	sealingKey := envelope.PrecomputeSealingKey(recipient.PublicKey, sender.SecretKey)
	openingKey := envelope.PrecomputeOpeningKey(sender.PublicKey, recipient.SecretKey)

	open := envelope.OpenEnvelope{
		Sender:    sender.PublicKey,
		Recipient: recipient.PublicKey,
		Bytes:     []byte("hello recipient"),
	}

	sealed, err := envelope.Seal(open, sealingKey)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(mustMarshal(t, sealed)), envelope.SealedEnvelopeMinSize)

	got, err := envelope.Open(sealed, openingKey)
	require.NoError(t, err)
	require.Equal(t, open, got)
}

func TestOpenFailsWithWrongKey(t *testing.T) {
	sender, _ := envelope.GenerateKeyPair()
	recipient, _ := envelope.GenerateKeyPair()
	mallory, _ := envelope.GenerateKeyPair()

	sealingKey := envelope.PrecomputeSealingKey(recipient.PublicKey, sender.SecretKey)
	sealed, err := envelope.Seal(envelope.OpenEnvelope{
		Sender: sender.PublicKey, Recipient: recipient.PublicKey, Bytes: []byte("secret"),
	}, sealingKey)
	require.NoError(t, err)

	wrongKey := envelope.PrecomputeOpeningKey(sender.PublicKey, mallory.SecretKey)
	_, err = envelope.Open(sealed, wrongKey)
	require.ErrorIs(t, err, envelope.ErrSealedEnvelopeOpenFailed)
}

func TestSealedEnvelopeWireRoundTrip(t *testing.T) {
	sender, _ := envelope.GenerateKeyPair()
	recipient, _ := envelope.GenerateKeyPair()
	sealingKey := envelope.PrecomputeSealingKey(recipient.PublicKey, sender.SecretKey)
	sealed, err := envelope.Seal(envelope.OpenEnvelope{
		Sender: sender.PublicKey, Recipient: recipient.PublicKey, Bytes: []byte("payload"),
	}, sealingKey)
	require.NoError(t, err)

	wire, err := sealed.MarshalBinary()
	require.NoError(t, err)

	var decoded envelope.SealedEnvelope
	require.NoError(t, decoded.UnmarshalBinary(wire))
	require.Equal(t, sealed, decoded)
}

func TestSignedHashVerify(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	msg := []byte("the message being authenticated")
	digest := envelope.Digest(msg)
	h := envelope.SignDigest(digest[:], priv)

	require.NoError(t, h.Verify(msg, pub))

	tampered := append([]byte(nil), msg...)
	tampered[0] ^= 0xFF
	require.ErrorIs(t, h.Verify(tampered, pub), envelope.ErrChecksumFailed)

	badSig := h
	badSig.Signature = append([]byte(nil), h.Signature...)
	badSig.Signature[0] ^= 0xFF
	require.ErrorIs(t, badSig.Verify(msg, pub), envelope.ErrInvalidSignature)
}

func TestEncryptedSignedHashRoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	msg := []byte("session-bound message")
	digest := envelope.Digest(msg)
	h := envelope.SignDigest(digest[:], priv)

	sessionKey := make([]byte, 32)
	for i := range sessionKey {
		sessionKey[i] = byte(i)
	}

	enc, err := h.Encrypt(sessionKey)
	require.NoError(t, err)

	gotDigest, err := enc.Verify(sessionKey, pub)
	require.NoError(t, err)
	require.Equal(t, digest[:], gotDigest)
}

func mustMarshal(t *testing.T, s envelope.SealedEnvelope) []byte {
	t.Helper()
	b, err := s.MarshalBinary()
	require.NoError(t, err)
	return b
}
