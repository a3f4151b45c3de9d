package envelope

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/nacl/box"
)

// Address is an opaque public key identifying a peer. It is comparable and
// hashable, so it can be used directly as a map key.
type Address [32]byte

func (a Address) String() string { return hex.EncodeToString(a[:]) }

// KeyPair is a peer's own box key pair: PublicKey is the Address it is known
// by; SecretKey never leaves the process.
type KeyPair struct {
	PublicKey Address
	SecretKey [32]byte
}

// GenerateKeyPair creates a fresh random box key pair.
func GenerateKeyPair() (KeyPair, error) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, fmt.Errorf("envelope: generate key pair: %w", err)
	}
	return KeyPair{PublicKey: Address(*pub), SecretKey: *priv}, nil
}

// SealingKey is the precomputed shared secret a sender uses to encrypt
// messages addressed to a specific recipient.
type SealingKey struct{ shared [32]byte }

// OpeningKey is the precomputed shared secret a recipient uses to decrypt
// messages that were sealed under the matching SealingKey.
type OpeningKey struct{ shared [32]byte }

// PrecomputeSealingKey derives the shared secret used to seal messages to
// theirPublic, as mySecret's owner.
func PrecomputeSealingKey(theirPublic Address, mySecret [32]byte) SealingKey {
	var shared [32]byte
	pub := [32]byte(theirPublic)
	box.Precompute(&shared, &pub, &mySecret)
	return SealingKey{shared: shared}
}

// PrecomputeOpeningKey derives the shared secret used to open messages sealed
// by theirPublic, as mySecret's owner. Because box key agreement is
// symmetric, this yields the same bytes as the sender's SealingKey.
func PrecomputeOpeningKey(theirPublic Address, mySecret [32]byte) OpeningKey {
	var shared [32]byte
	pub := [32]byte(theirPublic)
	box.Precompute(&shared, &pub, &mySecret)
	return OpeningKey{shared: shared}
}
