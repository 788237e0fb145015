//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package keys implements identity keys and signatures. User
// identities are ed25519 keys. The chain signs its receipts with
// Dilithium3 keys.
package keys

import (
	"encoding/hex"
	"io"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/sha3"
)

// IDSize specifies the size of user IDs and addresses in bytes.
const IDSize = 20

// AddressPrefix is the human readable prefix of wallet addresses.
const AddressPrefix = "mpc1"

var (
	// ErrInvalidKey is returned for malformed keys.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidSignature is returned when a signature does not
	// verify.
	ErrInvalidSignature = errors.New("invalid signature")
)

// PrivateKey implements an ed25519 identity key.
type PrivateKey struct {
	key ed25519.PrivateKey
}

// PublicKey implements an ed25519 public key.
type PublicKey []byte

// GeneratePrivateKey creates a new random identity key.
func GeneratePrivateKey(rand io.Reader) (*PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, errors.Wrap(err, "generate identity key")
	}
	return &PrivateKey{
		key: priv,
	}, nil
}

// PrivateKeyFromHex creates a private key from its hex encoded seed.
func PrivateKeyFromHex(s string) (*PrivateKey, error) {
	seed, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKey, err.Error())
	}
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(ErrInvalidKey, "seed length %d", len(seed))
	}
	return &PrivateKey{
		key: ed25519.NewKeyFromSeed(seed),
	}, nil
}

// Hex returns the key's seed as a hex string.
func (k *PrivateKey) Hex() string {
	return hex.EncodeToString(k.key.Seed())
}

// Public returns the public key.
func (k *PrivateKey) Public() PublicKey {
	pub := k.key.Public().(ed25519.PublicKey)
	return PublicKey(pub)
}

// Sign signs the message.
func (k *PrivateKey) Sign(msg []byte) []byte {
	return ed25519.Sign(k.key, msg)
}

// UserID returns the user ID of the key.
func (k *PrivateKey) UserID() string {
	return k.Public().UserID()
}

// Address returns the wallet address of the key.
func (k *PrivateKey) Address() string {
	return k.Public().Address()
}

// Hex returns the public key as a hex string.
func (pub PublicKey) Hex() string {
	return hex.EncodeToString(pub)
}

// UserID returns the user ID of the public key: the hex encoding of
// the first IDSize bytes of SHA3-256(pub).
func (pub PublicKey) UserID() string {
	digest := sha3.Sum256(pub)
	return hex.EncodeToString(digest[:IDSize])
}

// Address returns the wallet address of the public key.
func (pub PublicKey) Address() string {
	h := sha3.New256()
	h.Write([]byte("wallet"))
	h.Write(pub)
	digest := h.Sum(nil)
	return AddressPrefix + hex.EncodeToString(digest[:IDSize])
}

// Verify verifies the signature of the message.
func Verify(pub PublicKey, msg, sig []byte) error {
	if len(pub) != ed25519.PublicKeySize {
		return errors.Wrapf(ErrInvalidKey, "public key length %d", len(pub))
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), msg, sig) {
		return ErrInvalidSignature
	}
	return nil
}

// ChainKey implements the Dilithium3 signing key of the chain.
type ChainKey struct {
	pub  *mode3.PublicKey
	priv *mode3.PrivateKey
}

// ChainPublicKey implements the Dilithium3 public key of the chain.
type ChainPublicKey []byte

// GenerateChainKey creates a new chain signing key.
func GenerateChainKey(rand io.Reader) (*ChainKey, error) {
	pub, priv, err := mode3.GenerateKey(rand)
	if err != nil {
		return nil, errors.Wrap(err, "generate chain key")
	}
	return &ChainKey{
		pub:  pub,
		priv: priv,
	}, nil
}

// Public returns the chain public key.
func (k *ChainKey) Public() ChainPublicKey {
	data, _ := k.pub.MarshalBinary()
	return ChainPublicKey(data)
}

// Sign signs the message with the chain key.
func (k *ChainKey) Sign(msg []byte) []byte {
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(k.priv, msg, sig)
	return sig
}

// ChainPublicKeyFromHex parses the hex encoded chain public key.
func ChainPublicKeyFromHex(s string) (ChainPublicKey, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKey, err.Error())
	}
	var pk mode3.PublicKey
	if err := pk.UnmarshalBinary(data); err != nil {
		return nil, errors.Wrap(ErrInvalidKey, err.Error())
	}
	return ChainPublicKey(data), nil
}

// Hex returns the chain public key as a hex string.
func (pub ChainPublicKey) Hex() string {
	return hex.EncodeToString(pub)
}

// Verify verifies the chain signature of the message.
func (pub ChainPublicKey) Verify(msg, sig []byte) error {
	var pk mode3.PublicKey
	if err := pk.UnmarshalBinary(pub); err != nil {
		return errors.Wrap(ErrInvalidKey, err.Error())
	}
	if len(sig) != mode3.SignatureSize || !mode3.Verify(&pk, msg, sig) {
		return ErrInvalidSignature
	}
	return nil
}
