package envelope

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// DigestSize is the length in bytes of the hash digests SignedHash signs over.
const DigestSize = sha256.Size

// Digest hashes msg with the core's cryptographic hash function.
func Digest(msg []byte) [DigestSize]byte {
	return sha256.Sum256(msg)
}

var (
	ErrInvalidSignature   = errors.New("envelope: invalid signature")
	ErrChecksumFailed     = errors.New("envelope: digest does not match message")
	ErrInvalidDigestLength = errors.New("envelope: invalid digest length")
	ErrDecryptionFailed   = errors.New("envelope: decryption failed")
)

// SignedHash is a detached Ed25519 signature over a digest of a message.
type SignedHash struct {
	Digest    []byte
	Signature []byte
}

// SignDigest produces a SignedHash over digest using signingSecret.
func SignDigest(digest []byte, signingSecret ed25519.PrivateKey) SignedHash {
	sig := ed25519.Sign(signingSecret, digest)
	out := make([]byte, len(digest))
	copy(out, digest)
	return SignedHash{Digest: out, Signature: sig}
}

// Verify checks that h.Signature is valid for h.Digest under signingPublic,
// and that h.Digest equals the hash of msgBytes.
func (h SignedHash) Verify(msgBytes []byte, signingPublic ed25519.PublicKey) error {
	if len(h.Digest) != DigestSize {
		return ErrInvalidDigestLength
	}
	if !ed25519.Verify(signingPublic, h.Digest, h.Signature) {
		return ErrInvalidSignature
	}
	want := sha256.Sum256(msgBytes)
	if subtle.ConstantTimeCompare(want[:], h.Digest) != 1 {
		return ErrChecksumFailed
	}
	return nil
}

// EncryptedSignedHash is a SignedHash symmetrically sealed under a session key.
type EncryptedSignedHash struct {
	Nonce      [chacha20poly1305.NonceSize]byte
	Ciphertext []byte
}

// Encrypt seals h under sessionKey (a 32-byte ChaCha20-Poly1305 key) with a fresh nonce.
func (h SignedHash) Encrypt(sessionKey []byte) (EncryptedSignedHash, error) {
	aead, err := chacha20poly1305.New(sessionKey)
	if err != nil {
		return EncryptedSignedHash{}, fmt.Errorf("envelope: build AEAD: %w", err)
	}
	var nonce [chacha20poly1305.NonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return EncryptedSignedHash{}, fmt.Errorf("envelope: generate nonce: %w", err)
	}
	plain := encodeSignedHash(h)
	ct := aead.Seal(nil, nonce[:], plain, nil)
	return EncryptedSignedHash{Nonce: nonce, Ciphertext: ct}, nil
}

// Verify decrypts e under sessionKey, then verifies the recovered SignedHash
// against signingPublic, returning the digest on success.
func (e EncryptedSignedHash) Verify(sessionKey []byte, signingPublic ed25519.PublicKey) ([]byte, error) {
	aead, err := chacha20poly1305.New(sessionKey)
	if err != nil {
		return nil, fmt.Errorf("envelope: build AEAD: %w", err)
	}
	plain, err := aead.Open(nil, e.Nonce[:], e.Ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	h, err := decodeSignedHash(plain)
	if err != nil {
		return nil, ErrInvalidDigestLength
	}
	if len(h.Digest) != DigestSize {
		return nil, ErrInvalidDigestLength
	}
	if !ed25519.Verify(signingPublic, h.Digest, h.Signature) {
		return nil, ErrInvalidSignature
	}
	return h.Digest, nil
}

func encodeSignedHash(h SignedHash) []byte {
	out := make([]byte, 0, 1+len(h.Digest)+len(h.Signature))
	out = append(out, byte(len(h.Digest)))
	out = append(out, h.Digest...)
	out = append(out, h.Signature...)
	return out
}

func decodeSignedHash(data []byte) (SignedHash, error) {
	if len(data) < 1 {
		return SignedHash{}, fmt.Errorf("envelope: truncated signed hash")
	}
	dl := int(data[0])
	if len(data) < 1+dl {
		return SignedHash{}, fmt.Errorf("envelope: truncated signed hash digest")
	}
	digest := data[1 : 1+dl]
	sig := data[1+dl:]
	return SignedHash{Digest: digest, Signature: sig}, nil
}
