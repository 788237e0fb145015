//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package store implements the node-side stores for programs, secret
// value shares, and computation results.
package store

import (
	"github.com/cockroachdb/errors"
)

// Store errors.
var (
	ErrNotFound         = errors.New("store: not found")
	ErrPermissionDenied = errors.New("store: permission denied")
	ErrExists           = errors.New("store: already exists")
	ErrImmutable        = errors.New("store: immutable object mismatch")
	ErrInvalidCID       = errors.New("store: invalid cid")
	ErrCIDMismatch      = errors.New("store: cid mismatch")
)

// IsNotFound tests if the error is caused by ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
