//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package vm defines the domain types shared by the compute nodes,
// the chain, and the clients.
package vm

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// ErrInvalidID is returned for malformed identifiers.
var ErrInvalidID = errors.New("invalid identifier")

// UserID identifies a user. It is derived from the user's identity
// public key.
type UserID string

func (id UserID) String() string {
	return string(id)
}

// ProgramID identifies a stored program. It has the form
// <user>/<name>/<cid> where cid is the content ID of the compiled
// program.
type ProgramID string

// NewProgramID creates a program ID.
func NewProgramID(user UserID, name, cid string) ProgramID {
	return ProgramID(string(user) + "/" + name + "/" + cid)
}

// Parse parses the program ID into its components.
func (id ProgramID) Parse() (user UserID, name, cid string, err error) {
	parts := strings.Split(string(id), "/")
	if len(parts) != 3 || len(parts[0]) == 0 || len(parts[1]) == 0 ||
		len(parts[2]) == 0 {
		return "", "", "", errors.Wrapf(ErrInvalidID, "program ID %q", id)
	}
	return UserID(parts[0]), parts[1], parts[2], nil
}

func (id ProgramID) String() string {
	return string(id)
}

// ValueID identifies a stored value record.
type ValueID string

// NewValueID creates a new random value ID.
func NewValueID(rand io.Reader) (ValueID, error) {
	id, err := newUUID(rand)
	return ValueID(id), err
}

// ParseValueID parses the value ID.
func ParseValueID(s string) (ValueID, error) {
	id, err := parseUUID(s)
	return ValueID(id), err
}

func (id ValueID) String() string {
	return string(id)
}

// ComputeID identifies a compute job.
type ComputeID string

// NewComputeID creates a new random compute ID.
func NewComputeID(rand io.Reader) (ComputeID, error) {
	id, err := newUUID(rand)
	return ComputeID(id), err
}

// ParseComputeID parses the compute ID.
func ParseComputeID(s string) (ComputeID, error) {
	id, err := parseUUID(s)
	return ComputeID(id), err
}

func (id ComputeID) String() string {
	return string(id)
}

func newUUID(rand io.Reader) (string, error) {
	id, err := uuid.NewRandomFromReader(rand)
	if err != nil {
		return "", errors.Wrap(err, "generate ID")
	}
	return id.String(), nil
}

func parseUUID(s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidID, "%q: %v", s, err)
	}
	return id.String(), nil
}
