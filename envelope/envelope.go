// Package envelope implements public-key authenticated encryption of
// message payloads (sealed/open envelopes), the Address key model, and the
// signed-hash / session-cipher primitives layered on top of it.
package envelope

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/nacl/box"
)

// MaxMessageSize is the largest plaintext payload accepted by the codec/envelope pipeline.
const MaxMessageSize = 256_000

// SealedEnvelopeMinSize is a sanity floor on the binary-encoded size of a
// SealedEnvelope: two 32-byte keys, a 24-byte nonce, an 8-byte length prefix
// and at minimum a 16-byte Poly1305 tag.
const SealedEnvelopeMinSize = 32 + 32 + 24 + 8 + 16

// Nonce is the fresh-per-seal value mixed into the box cipher.
type Nonce [24]byte

// OpenEnvelope is a plaintext payload plus routing, immutable once constructed.
type OpenEnvelope struct {
	Sender    Address
	Recipient Address
	Bytes     []byte
}

// SealedEnvelope is the wire form produced by Seal and consumed by Open.
type SealedEnvelope struct {
	Sender     Address
	Recipient  Address
	Nonce      Nonce
	Ciphertext []byte
}

// ErrSealedEnvelopeOpenFailed is returned when authenticated decryption fails.
// The core never exposes partially decrypted bytes when this occurs.
var ErrSealedEnvelopeOpenFailed = errors.New("envelope: sealed envelope failed to open")

// Seal encrypts open under sealingKey with a fresh random nonce.
func Seal(open OpenEnvelope, sealingKey SealingKey) (SealedEnvelope, error) {
	var nonce Nonce
	if _, err := rand.Read(nonce[:]); err != nil {
		return SealedEnvelope{}, fmt.Errorf("envelope: generate nonce: %w", err)
	}
	n := [24]byte(nonce)
	ciphertext := box.SealAfterPrecomputation(nil, open.Bytes, &n, &sealingKey.shared)
	return SealedEnvelope{
		Sender:     open.Sender,
		Recipient:  open.Recipient,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}, nil
}

// Open decrypts sealed under openingKey, returning ErrSealedEnvelopeOpenFailed
// on any authentication failure. No partially decrypted bytes are ever returned.
func Open(sealed SealedEnvelope, openingKey OpeningKey) (OpenEnvelope, error) {
	n := [24]byte(sealed.Nonce)
	plain, ok := box.OpenAfterPrecomputation(nil, sealed.Ciphertext, &n, &openingKey.shared)
	if !ok {
		return OpenEnvelope{}, ErrSealedEnvelopeOpenFailed
	}
	return OpenEnvelope{
		Sender:    sealed.Sender,
		Recipient: sealed.Recipient,
		Bytes:     plain,
	}, nil
}

// MarshalBinary encodes a SealedEnvelope in the deterministic wire layout:
// sender(32) recipient(32) nonce(24) ciphertext-len(u64 LE) ciphertext.
func (s SealedEnvelope) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, 32+32+24+8+len(s.Ciphertext))
	out = append(out, s.Sender[:]...)
	out = append(out, s.Recipient[:]...)
	out = append(out, s.Nonce[:]...)
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(s.Ciphertext)))
	out = append(out, lenBuf[:]...)
	out = append(out, s.Ciphertext...)
	return out, nil
}

// UnmarshalBinary decodes the wire layout produced by MarshalBinary.
func (s *SealedEnvelope) UnmarshalBinary(data []byte) error {
	const headerLen = 32 + 32 + 24 + 8
	if len(data) < headerLen {
		return fmt.Errorf("envelope: sealed envelope too short: %d bytes", len(data))
	}
	var sender, recipient Address
	copy(sender[:], data[0:32])
	copy(recipient[:], data[32:64])
	var nonce Nonce
	copy(nonce[:], data[64:88])
	n := binary.LittleEndian.Uint64(data[88:96])
	if uint64(len(data)-headerLen) != n {
		return fmt.Errorf("envelope: ciphertext length mismatch: header says %d, have %d", n, len(data)-headerLen)
	}
	ciphertext := make([]byte, n)
	copy(ciphertext, data[headerLen:])

	s.Sender = sender
	s.Recipient = recipient
	s.Nonce = nonce
	s.Ciphertext = ciphertext
	return nil
}

// MarshalBinary encodes an OpenEnvelope using the same field layout as
// SealedEnvelope but without a nonce and with plaintext bytes. It is used
// only in-process for diagnostics and is not intended for the wire.
func (o OpenEnvelope) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, 32+32+8+len(o.Bytes))
	out = append(out, o.Sender[:]...)
	out = append(out, o.Recipient[:]...)
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(o.Bytes)))
	out = append(out, lenBuf[:]...)
	out = append(out, o.Bytes...)
	return out, nil
}
