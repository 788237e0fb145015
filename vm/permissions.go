//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package vm

import (
	"slices"

	"github.com/cockroachdb/errors"
)

// Permissions define who may access a stored value record. The owner
// may retrieve, update, and delete the record and use it as an input
// to any program.
type Permissions struct {
	Owner    UserID                 `json:"owner"`
	Retrieve []UserID               `json:"retrieve,omitempty"`
	Update   []UserID               `json:"update,omitempty"`
	Delete   []UserID               `json:"delete,omitempty"`
	Compute  map[UserID][]ProgramID `json:"compute,omitempty"`
}

// DefaultsForUser creates the default permissions for the owner user.
func DefaultsForUser(user UserID) *Permissions {
	return &Permissions{
		Owner:    user,
		Retrieve: []UserID{user},
		Update:   []UserID{user},
		Delete:   []UserID{user},
		Compute:  make(map[UserID][]ProgramID),
	}
}

// AllowRetrieve allows user to retrieve the values.
func (p *Permissions) AllowRetrieve(user UserID) *Permissions {
	p.Retrieve = addUser(p.Retrieve, user)
	return p
}

// AllowUpdate allows user to update the permissions.
func (p *Permissions) AllowUpdate(user UserID) *Permissions {
	p.Update = addUser(p.Update, user)
	return p
}

// AllowDelete allows user to delete the values.
func (p *Permissions) AllowDelete(user UserID) *Permissions {
	p.Delete = addUser(p.Delete, user)
	return p
}

// AllowCompute allows user to use the values as inputs of the
// program.
func (p *Permissions) AllowCompute(user UserID, program ProgramID) *Permissions {
	if p.Compute == nil {
		p.Compute = make(map[UserID][]ProgramID)
	}
	if !slices.Contains(p.Compute[user], program) {
		p.Compute[user] = append(p.Compute[user], program)
	}
	return p
}

func addUser(users []UserID, user UserID) []UserID {
	if slices.Contains(users, user) {
		return users
	}
	return append(users, user)
}

// CanRetrieve tests if user may retrieve the values.
func (p *Permissions) CanRetrieve(user UserID) bool {
	return user == p.Owner || slices.Contains(p.Retrieve, user)
}

// CanUpdate tests if user may update the permissions.
func (p *Permissions) CanUpdate(user UserID) bool {
	return user == p.Owner || slices.Contains(p.Update, user)
}

// CanDelete tests if user may delete the values.
func (p *Permissions) CanDelete(user UserID) bool {
	return user == p.Owner || slices.Contains(p.Delete, user)
}

// CanCompute tests if user may use the values as inputs of the
// program.
func (p *Permissions) CanCompute(user UserID, program ProgramID) bool {
	if user == p.Owner {
		return true
	}
	return slices.Contains(p.Compute[user], program)
}

// Validate checks that the permissions are well formed.
func (p *Permissions) Validate() error {
	if p == nil {
		return errors.Wrap(ErrInvalidValue, "missing permissions")
	}
	if len(p.Owner) == 0 {
		return errors.Wrap(ErrInvalidValue, "permissions without owner")
	}
	for user, programs := range p.Compute {
		for _, program := range programs {
			if _, _, _, err := program.Parse(); err != nil {
				return errors.Wrapf(err, "compute permission for %s", user)
			}
		}
	}
	return nil
}

// Clone creates a deep copy of the permissions.
func (p *Permissions) Clone() *Permissions {
	result := &Permissions{
		Owner:    p.Owner,
		Retrieve: slices.Clone(p.Retrieve),
		Update:   slices.Clone(p.Update),
		Delete:   slices.Clone(p.Delete),
		Compute:  make(map[UserID][]ProgramID),
	}
	for user, programs := range p.Compute {
		result.Compute[user] = slices.Clone(programs)
	}
	return result
}
