//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package store

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// Nonces tracks used payment receipt nonces.
type Nonces struct {
	m    sync.Mutex
	used map[string]struct{}
}

// NewNonces creates a new nonce set.
func NewNonces() *Nonces {
	return &Nonces{
		used: make(map[string]struct{}),
	}
}

// Use marks the nonce used. It returns ErrExists if the nonce was
// already used.
func (n *Nonces) Use(nonce string) error {
	if len(nonce) == 0 {
		return errors.New("store: empty nonce")
	}
	n.m.Lock()
	defer n.m.Unlock()

	if _, ok := n.used[nonce]; ok {
		return errors.Wrapf(ErrExists, "nonce %s", nonce)
	}
	n.used[nonce] = struct{}{}
	return nil
}
