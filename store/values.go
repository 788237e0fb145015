//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package store

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/mpcnet/vm"
)

// ValueRecord holds this node's shares of a stored value set.
type ValueRecord struct {
	ID          vm.ValueID
	Permissions *vm.Permissions
	Expires     time.Time
	Shares      vm.NamedShares
}

// Owner returns the owner of the record.
func (r *ValueRecord) Owner() vm.UserID {
	return r.Permissions.Owner
}

func (r *ValueRecord) clone() *ValueRecord {
	shares := make(vm.NamedShares)
	for k, v := range r.Shares {
		shares[k] = v
	}
	return &ValueRecord{
		ID:          r.ID,
		Permissions: r.Permissions.Clone(),
		Expires:     r.Expires,
		Shares:      shares,
	}
}

// ValueStore stores value shares with permissions and expiry times.
// Expired records behave as if they did not exist.
type ValueStore struct {
	m       sync.Mutex
	records map[vm.ValueID]*ValueRecord
	now     func() time.Time
}

// NewValueStore creates a new value store. The now function is used
// as the clock. If it is nil, time.Now is used.
func NewValueStore(now func() time.Time) *ValueStore {
	if now == nil {
		now = time.Now
	}
	return &ValueStore{
		records: make(map[vm.ValueID]*ValueRecord),
		now:     now,
	}
}

// Put stores the shares under the value ID for ttl.
func (s *ValueStore) Put(id vm.ValueID, shares vm.NamedShares,
	ttl time.Duration, perms *vm.Permissions) error {

	if len(shares) == 0 {
		return errors.Wrap(vm.ErrInvalidValue, "no values")
	}
	for name, share := range shares {
		if len(name) == 0 {
			return errors.Wrap(vm.ErrInvalidValue, "value without name")
		}
		if err := share.Validate(); err != nil {
			return errors.Wrapf(err, "value %s", name)
		}
	}
	if ttl <= 0 {
		return errors.Newf("store: invalid ttl %v", ttl)
	}
	if err := perms.Validate(); err != nil {
		return err
	}

	s.m.Lock()
	defer s.m.Unlock()

	if r, ok := s.records[id]; ok && !s.expired(r) {
		return errors.Wrapf(ErrExists, "value %s", id)
	}
	record := &ValueRecord{
		ID:          id,
		Permissions: perms.Clone(),
		Expires:     s.now().Add(ttl),
		Shares:      make(vm.NamedShares),
	}
	for k, v := range shares {
		record.Shares[k] = v
	}
	s.records[id] = record
	return nil
}

func (s *ValueStore) expired(r *ValueRecord) bool {
	return !s.now().Before(r.Expires)
}

// lookup returns the live record. The caller must hold the lock.
func (s *ValueStore) lookup(id vm.ValueID) (*ValueRecord, error) {
	r, ok := s.records[id]
	if !ok || s.expired(r) {
		return nil, errors.Wrapf(ErrNotFound, "value %s", id)
	}
	return r, nil
}

// Lookup returns a copy of the record without permission checks. It
// is used when validating computations.
func (s *ValueStore) Lookup(id vm.ValueID) (*ValueRecord, error) {
	s.m.Lock()
	defer s.m.Unlock()

	r, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return r.clone(), nil
}

// Get returns a copy of the record if the requester may retrieve it.
func (s *ValueStore) Get(id vm.ValueID, requester vm.UserID) (
	*ValueRecord, error) {

	s.m.Lock()
	defer s.m.Unlock()

	r, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if !r.Permissions.CanRetrieve(requester) {
		return nil, errors.Wrapf(ErrPermissionDenied, "retrieve value %s", id)
	}
	return r.clone(), nil
}

// UpdatePermissions replaces the record's permissions. The owner of
// the record cannot be changed.
func (s *ValueStore) UpdatePermissions(id vm.ValueID, requester vm.UserID,
	perms *vm.Permissions) error {

	if err := perms.Validate(); err != nil {
		return err
	}

	s.m.Lock()
	defer s.m.Unlock()

	r, err := s.lookup(id)
	if err != nil {
		return err
	}
	if !r.Permissions.CanUpdate(requester) {
		return errors.Wrapf(ErrPermissionDenied, "update value %s", id)
	}
	if perms.Owner != r.Permissions.Owner {
		return errors.Wrapf(ErrPermissionDenied,
			"change owner of value %s", id)
	}
	r.Permissions = perms.Clone()
	return nil
}

// Delete deletes the record.
func (s *ValueStore) Delete(id vm.ValueID, requester vm.UserID) error {
	s.m.Lock()
	defer s.m.Unlock()

	r, err := s.lookup(id)
	if err != nil {
		return err
	}
	if !r.Permissions.CanDelete(requester) {
		return errors.Wrapf(ErrPermissionDenied, "delete value %s", id)
	}
	delete(s.records, id)
	return nil
}

// Purge removes all expired records and returns the number of
// records removed.
func (s *ValueStore) Purge() int {
	s.m.Lock()
	defer s.m.Unlock()

	var count int
	for id, r := range s.records {
		if s.expired(r) {
			delete(s.records, id)
			count++
		}
	}
	return count
}

// Len returns the number of records in the store, including expired
// records not yet purged.
func (s *ValueStore) Len() int {
	s.m.Lock()
	defer s.m.Unlock()
	return len(s.records)
}
