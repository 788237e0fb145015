//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package node implements the compute node of the MPC network. Nodes
// store programs and secret value shares, and evaluate computations
// with their peers.
package node

import (
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/mpcnet/env"
	"github.com/markkurossi/mpcnet/gmw"
	"github.com/markkurossi/mpcnet/keys"
	"github.com/markkurossi/mpcnet/rpc"
	"github.com/markkurossi/mpcnet/store"
	"github.com/markkurossi/mpcnet/vm"
	"github.com/markkurossi/text/superscript"
)

const (
	// DefaultArrivalTimeout specifies how long peers wait for a job
	// announced by the leader to arrive.
	DefaultArrivalTimeout = 10 * time.Second

	// DefaultPurgeInterval specifies how often expired values are
	// removed from the value store.
	DefaultPurgeInterval = time.Minute

	queueSize = 64
)

var _ rpc.NodeServer = &Node{}

// Options define node options.
type Options struct {
	// Mesh connects the node to its peers. The node ID and cluster
	// size come from the mesh.
	Mesh *gmw.Mesh

	// ChainPublicKey verifies payment receipts.
	ChainPublicKey keys.ChainPublicKey

	// CAS stores compiled programs. If unset, an in-memory store is
	// used.
	CAS store.CAS

	// Config specifies the runtime configuration.
	Config *env.Config

	// Now returns the current time. If unset, time.Now is used.
	Now func() time.Time

	// ArrivalTimeout overrides DefaultArrivalTimeout.
	ArrivalTimeout time.Duration

	// PurgeInterval overrides DefaultPurgeInterval.
	PurgeInterval time.Duration
}

// Node implements a compute node.
type Node struct {
	rpc.UnimplementedNodeServer

	ID       int
	N        int
	config   *env.Config
	mesh     *gmw.Mesh
	chainPub keys.ChainPublicKey
	timeout  time.Duration
	purge    time.Duration
	now      func() time.Time

	programs *store.ProgramStore
	values   *store.ValueStore
	results  *store.ResultStore
	nonces   *store.Nonces

	m        sync.Mutex
	arrivals map[vm.ComputeID]*arrival
	queue    chan *arrival
	done     chan struct{}
	wg       sync.WaitGroup
	closed   bool
}

// arrival tracks a job announced to the node. The channel c is
// closed when the node has either accepted or rejected the job.
type arrival struct {
	id       vm.ComputeID
	c        chan struct{}
	accepted bool
	decided  bool
}

// New creates a new node.
func New(opts Options) (*Node, error) {
	if opts.Mesh == nil {
		return nil, errors.New("node: mesh is required")
	}
	if len(opts.ChainPublicKey) == 0 {
		return nil, errors.New("node: chain public key is required")
	}
	cas := opts.CAS
	if cas == nil {
		cas = store.NewMemoryCAS()
	}
	timeout := opts.ArrivalTimeout
	if timeout <= 0 {
		timeout = DefaultArrivalTimeout
	}
	purge := opts.PurgeInterval
	if purge <= 0 {
		purge = DefaultPurgeInterval
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Node{
		ID:       opts.Mesh.ID,
		N:        opts.Mesh.N,
		config:   opts.Config,
		mesh:     opts.Mesh,
		chainPub: opts.ChainPublicKey,
		timeout:  timeout,
		purge:    purge,
		now:      now,
		programs: store.NewProgramStore(cas),
		values:   store.NewValueStore(now),
		results:  store.NewResultStore(),
		nonces:   store.NewNonces(),
		arrivals: make(map[vm.ComputeID]*arrival),
		queue:    make(chan *arrival, queueSize),
		done:     make(chan struct{}),
	}, nil
}

func (n *Node) String() string {
	return fmt.Sprintf("node%s", superscript.Itoa(n.ID))
}

// Leader tests if the node is the leader of the network.
func (n *Node) Leader() bool {
	return n.ID == 0
}

// Start starts the job coordinator and the value purger of the node.
func (n *Node) Start() {
	n.wg.Add(2)
	go n.purger()
	go func() {
		defer n.wg.Done()
		var err error
		if n.Leader() {
			err = n.lead()
		} else {
			err = n.follow()
		}
		if err != nil && !n.isClosed() {
			n.config.GetLogger().Printf("%s: coordinator: %v\n", n, err)
		}
	}()
}

// Close stops the node and closes its mesh.
func (n *Node) Close() error {
	n.m.Lock()
	if n.closed {
		n.m.Unlock()
		return nil
	}
	n.closed = true
	close(n.done)
	n.m.Unlock()

	err := n.mesh.Close()
	n.wg.Wait()
	return err
}

func (n *Node) purger() {
	defer n.wg.Done()

	ticker := time.NewTicker(n.purge)
	defer ticker.Stop()

	for {
		select {
		case <-n.done:
			return
		case <-ticker.C:
			if count := n.values.Purge(); count > 0 {
				n.config.Logf("%s: purged %d expired values\n", n, count)
			}
		}
	}
}

func (n *Node) isClosed() bool {
	n.m.Lock()
	defer n.m.Unlock()
	return n.closed
}

// arrival returns the arrival record of the job. The caller must
// hold the lock.
func (n *Node) arrival(id vm.ComputeID) *arrival {
	a, ok := n.arrivals[id]
	if !ok {
		a = &arrival{
			id: id,
			c:  make(chan struct{}),
		}
		n.arrivals[id] = a
	}
	return a
}

// decide records the node's decision about the job and, on the
// leader, queues the job for coordination. It returns false if the
// job was already decided.
func (n *Node) decide(id vm.ComputeID, accepted bool) bool {
	n.m.Lock()
	a := n.arrival(id)
	if a.decided {
		n.m.Unlock()
		return false
	}
	a.decided = true
	a.accepted = accepted
	close(a.c)
	closed := n.closed
	n.m.Unlock()

	if n.Leader() && !closed {
		select {
		case n.queue <- a:
		case <-n.done:
		}
	}
	return true
}

// forget removes the arrival record of the coordinated job.
func (n *Node) forget(id vm.ComputeID) {
	n.m.Lock()
	delete(n.arrivals, id)
	n.m.Unlock()
}
