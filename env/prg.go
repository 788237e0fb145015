//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package env

import (
	"crypto/sha256"
	"io"
	"sync"

	"golang.org/x/crypto/chacha20"
)

var (
	_ io.Reader = &PRG{}
)

// PRG implements a deterministic pseudo-random generator keyed by a
// seed. It is used for reproducible test runs and for expanding short
// seeds into long random streams. PRG is safe for concurrent use.
type PRG struct {
	m      sync.Mutex
	cipher *chacha20.Cipher
}

// NewPRG creates a new PRG from the seed.
func NewPRG(seed []byte) (*PRG, error) {
	key := sha256.Sum256(seed)
	var nonce [chacha20.NonceSize]byte

	cipher, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		return nil, err
	}
	return &PRG{
		cipher: cipher,
	}, nil
}

// Read implements io.Reader.
func (prg *PRG) Read(p []byte) (int, error) {
	prg.m.Lock()
	defer prg.m.Unlock()

	for i := range p {
		p[i] = 0
	}
	prg.cipher.XORKeyStream(p, p)
	return len(p), nil
}
