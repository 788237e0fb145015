//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package keys

import (
	"crypto/rand"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	key, err := GeneratePrivateKey(rand.Reader)
	require.NoError(t, err)

	parsed, err := PrivateKeyFromHex(key.Hex())
	require.NoError(t, err)
	require.Equal(t, key.Public(), parsed.Public())

	id := key.UserID()
	require.Len(t, id, 2*IDSize)
	require.Equal(t, id, parsed.UserID())

	addr := key.Address()
	require.True(t, strings.HasPrefix(addr, AddressPrefix))
	require.Len(t, addr, len(AddressPrefix)+2*IDSize)
	require.NotEqual(t, id, strings.TrimPrefix(addr, AddressPrefix))

	msg := []byte("hello, world")
	sig := key.Sign(msg)
	require.NoError(t, Verify(key.Public(), msg, sig))

	sig[0] ^= 1
	require.True(t, errors.Is(Verify(key.Public(), msg, sig),
		ErrInvalidSignature))
	require.True(t, errors.Is(Verify(key.Public()[:4], msg, sig),
		ErrInvalidKey))
}

func TestPrivateKeyFromHex(t *testing.T) {
	_, err := PrivateKeyFromHex("not hex")
	require.True(t, errors.Is(err, ErrInvalidKey))

	_, err = PrivateKeyFromHex("0011")
	require.True(t, errors.Is(err, ErrInvalidKey))
}

func TestChainKey(t *testing.T) {
	key, err := GenerateChainKey(rand.Reader)
	require.NoError(t, err)

	pub, err := ChainPublicKeyFromHex(key.Public().Hex())
	require.NoError(t, err)

	msg := []byte("receipt")
	sig := key.Sign(msg)
	require.NoError(t, pub.Verify(msg, sig))
	require.True(t, errors.Is(pub.Verify([]byte("other"), sig),
		ErrInvalidSignature))

	_, err = ChainPublicKeyFromHex("00")
	require.True(t, errors.Is(err, ErrInvalidKey))
}
