// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package core

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"io"

	"github.com/soteria-bft/soteria/util"
)

// errors
var (
	ErrInvalidKeySize = errors.New("invalid key size")
	ErrInvalidSig     = errors.New("invalid signature")
)

// PublicKey type
type PublicKey struct {
	key    ed25519.PublicKey
	keyStr string
}

// NewPublicKey creates PublicKey from bytes
func NewPublicKey(b []byte) (*PublicKey, error) {
	if len(b) != ed25519.PublicKeySize {
		return nil, ErrInvalidKeySize
	}
	return &PublicKey{
		key:    b,
		keyStr: util.Base64String(b),
	}, nil
}

// Equal checks whether pub and x has the same value
func (pub *PublicKey) Equal(x *PublicKey) bool {
	return pub.key.Equal(x.key)
}

// Bytes return raw bytes
func (pub *PublicKey) Bytes() []byte {
	return pub.key
}

func (pub *PublicKey) String() string {
	return pub.keyStr
}

// PrivateKey type
type PrivateKey struct {
	key    ed25519.PrivateKey
	pubKey *PublicKey
}

// NewPrivateKey creates PrivateKey from bytes
func NewPrivateKey(b []byte) (*PrivateKey, error) {
	if len(b) != ed25519.PrivateKeySize {
		return nil, ErrInvalidKeySize
	}
	priv := &PrivateKey{
		key: b,
	}
	priv.pubKey, _ = NewPublicKey(priv.key.Public().(ed25519.PublicKey))
	return priv, nil
}

// GenerateKey generates a new private key.
// If rnd is nil, crypto/rand.Reader is used.
func GenerateKey(rnd io.Reader) *PrivateKey {
	if rnd == nil {
		rnd = rand.Reader
	}
	_, key, _ := ed25519.GenerateKey(rnd)
	priv, _ := NewPrivateKey(key)
	return priv
}

// Bytes return raw bytes
func (priv *PrivateKey) Bytes() []byte {
	return priv.key
}

// PublicKey returns corresponding public key
func (priv *PrivateKey) PublicKey() *PublicKey {
	return priv.pubKey
}

// Sign signs the message
func (priv *PrivateKey) Sign(msg []byte) []byte {
	return ed25519.Sign(priv.key, msg)
}

// VerifySig verifies a signature over msg for the given public key bytes
func VerifySig(pubKey, msg, sig []byte) error {
	if len(pubKey) != ed25519.PublicKeySize {
		return ErrInvalidKeySize
	}
	if !ed25519.Verify(pubKey, msg, sig) {
		return ErrInvalidSig
	}
	return nil
}
