//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package store

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// CAS is a content-addressable store. Put is idempotent, stored
// objects are immutable, and Get returns ErrNotFound for unknown
// CIDs.
type CAS interface {
	Put(data []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}

// CID computes the CIDv1 of the data using the raw multicodec and
// sha2-256 multihash.
func CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, errors.Wrap(err, "multihash")
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// ParseCID parses the CID string.
func ParseCID(s string) (cid.Cid, error) {
	id, err := cid.Decode(s)
	if err != nil || !id.Defined() {
		return cid.Undef, errors.Wrapf(ErrInvalidCID, "%q", s)
	}
	return id, nil
}

// MemoryCAS implements an in-memory CAS.
type MemoryCAS struct {
	m       sync.RWMutex
	objects map[cid.Cid][]byte
}

// NewMemoryCAS creates a new in-memory CAS.
func NewMemoryCAS() *MemoryCAS {
	return &MemoryCAS{
		objects: make(map[cid.Cid][]byte),
	}
}

// Put implements CAS.Put.
func (c *MemoryCAS) Put(data []byte) (cid.Cid, error) {
	id, err := CID(data)
	if err != nil {
		return cid.Undef, err
	}
	c.m.Lock()
	defer c.m.Unlock()

	if existing, ok := c.objects[id]; ok {
		if !bytes.Equal(existing, data) {
			return cid.Undef, ErrImmutable
		}
		return id, nil
	}
	c.objects[id] = bytes.Clone(data)
	return id, nil
}

// Get implements CAS.Get.
func (c *MemoryCAS) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, ErrInvalidCID
	}
	c.m.RLock()
	defer c.m.RUnlock()

	data, ok := c.objects[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "object %s", id)
	}
	return bytes.Clone(data), nil
}

// Has implements CAS.Has.
func (c *MemoryCAS) Has(id cid.Cid) bool {
	c.m.RLock()
	defer c.m.RUnlock()
	_, ok := c.objects[id]
	return ok
}

// DirCAS implements a CAS in a filesystem directory. The objects are
// stored in read-only files under two character prefix directories.
type DirCAS struct {
	root string
}

// NewDirCAS creates a directory CAS rooted at root. The directory is
// created if needed.
func NewDirCAS(root string) (*DirCAS, error) {
	if len(root) == 0 {
		return nil, errors.New("store: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "create CAS root")
	}
	return &DirCAS{
		root: root,
	}, nil
}

// Put implements CAS.Put.
func (c *DirCAS) Put(data []byte) (cid.Cid, error) {
	id, err := CID(data)
	if err != nil {
		return cid.Undef, err
	}
	path := c.pathFor(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return cid.Undef, errors.Wrap(err, "create CAS directory")
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o444)
	if err != nil {
		if os.IsExist(err) {
			existing, err := c.Get(id)
			if err != nil || !bytes.Equal(existing, data) {
				return cid.Undef, ErrImmutable
			}
			return id, nil
		}
		return cid.Undef, errors.Wrap(err, "create object")
	}
	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return cid.Undef, errors.Wrap(err, "write object")
	}
	return id, nil
}

// Get implements CAS.Get.
func (c *DirCAS) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, ErrInvalidCID
	}
	data, err := os.ReadFile(c.pathFor(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "object %s", id)
		}
		return nil, errors.Wrap(err, "read object")
	}
	got, err := CID(data)
	if err != nil {
		return nil, err
	}
	if !got.Equals(id) {
		return nil, errors.Wrapf(ErrCIDMismatch, "object %s", id)
	}
	return data, nil
}

// Has implements CAS.Has.
func (c *DirCAS) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	_, err := os.Stat(c.pathFor(id))
	return err == nil
}

func (c *DirCAS) pathFor(id cid.Cid) string {
	s := id.String()
	if len(s) < 2 {
		return filepath.Join(c.root, s)
	}
	return filepath.Join(c.root, s[:2], s)
}
