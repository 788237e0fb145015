//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package store

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ipfs/go-cid"
	"github.com/markkurossi/mpcnet/circuit"
	"github.com/markkurossi/mpcnet/vm"
)

// ProgramStore stores compiled programs in a CAS and indexes them by
// their program IDs.
type ProgramStore struct {
	cas      CAS
	m        sync.Mutex
	index    map[vm.ProgramID]cid.Cid
	circuits map[cid.Cid]*circuit.Circuit
}

// NewProgramStore creates a new program store on top of the CAS.
func NewProgramStore(cas CAS) *ProgramStore {
	return &ProgramStore{
		cas:      cas,
		index:    make(map[vm.ProgramID]cid.Cid),
		circuits: make(map[cid.Cid]*circuit.Circuit),
	}
}

// Put stores the compiled program for the user. The program must be
// a valid circuit. Storing the same program again returns the same
// program ID.
func (s *ProgramStore) Put(user vm.UserID, name string, data []byte) (
	vm.ProgramID, error) {

	if len(name) == 0 {
		return "", errors.New("store: program name is required")
	}
	circ, err := circuit.ParseBytes(data)
	if err != nil {
		return "", errors.Wrap(err, "store: invalid program")
	}
	id, err := s.cas.Put(data)
	if err != nil {
		return "", err
	}
	pid := vm.NewProgramID(user, name, id.String())

	s.m.Lock()
	s.index[pid] = id
	s.circuits[id] = circ
	s.m.Unlock()

	return pid, nil
}

func (s *ProgramStore) lookup(pid vm.ProgramID) (cid.Cid, error) {
	_, _, c, err := pid.Parse()
	if err != nil {
		return cid.Undef, err
	}
	id, err := ParseCID(c)
	if err != nil {
		return cid.Undef, err
	}

	s.m.Lock()
	defer s.m.Unlock()

	stored, ok := s.index[pid]
	if !ok || !stored.Equals(id) {
		return cid.Undef, errors.Wrapf(ErrNotFound, "program %s", pid)
	}
	return id, nil
}

// Get returns the compiled program.
func (s *ProgramStore) Get(pid vm.ProgramID) ([]byte, error) {
	id, err := s.lookup(pid)
	if err != nil {
		return nil, err
	}
	return s.cas.Get(id)
}

// Circuit returns the parsed circuit of the program.
func (s *ProgramStore) Circuit(pid vm.ProgramID) (*circuit.Circuit, error) {
	id, err := s.lookup(pid)
	if err != nil {
		return nil, err
	}
	s.m.Lock()
	circ, ok := s.circuits[id]
	s.m.Unlock()
	if ok {
		return circ, nil
	}

	data, err := s.cas.Get(id)
	if err != nil {
		return nil, err
	}
	circ, err = circuit.ParseBytes(data)
	if err != nil {
		return nil, errors.Wrapf(err, "program %s", pid)
	}
	s.m.Lock()
	s.circuits[id] = circ
	s.m.Unlock()

	return circ, nil
}
