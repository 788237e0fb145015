//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package gmw implements the GMW multi-party protocol for XOR-shared
// boolean circuits.
package gmw

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/markkurossi/mpcnet/env"
	"github.com/markkurossi/mpcnet/p2p"
	"github.com/markkurossi/text/superscript"
)

const (
	dialAttempts = 50
	dialDelay    = 100 * time.Millisecond
)

// Mesh implements a fully connected network of N peers. Peer 0 is
// the leader that bootstraps the TCP network.
type Mesh struct {
	m        sync.Mutex
	ID       int
	N        int
	config   *env.Config
	listener net.Listener
	peers    []*Peer
	closed   bool
}

// Peer implements a peer in the mesh.
type Peer struct {
	ID   int
	Addr string
	Conn *p2p.Conn
}

func (p *Peer) String() string {
	return fmt.Sprintf("%d[%v]", p.ID, p.Addr)
}

func newMesh(id, n int, config *env.Config) *Mesh {
	return &Mesh{
		ID:     id,
		N:      n,
		config: config,
		peers:  make([]*Peer, n),
	}
}

func (m *Mesh) String() string {
	return fmt.Sprintf("mesh%s", superscript.Itoa(m.ID))
}

// Peer returns the peer with the ID. It returns nil for this node and
// for invalid IDs.
func (m *Mesh) Peer(id int) *Peer {
	if id < 0 || id >= m.N {
		return nil
	}
	return m.peers[id]
}

// Peers returns all remote peers ordered by their IDs.
func (m *Mesh) Peers() []*Peer {
	var result []*Peer
	for _, p := range m.peers {
		if p != nil {
			result = append(result, p)
		}
	}
	return result
}

// Stats returns the aggregated I/O statistics of all peer
// connections.
func (m *Mesh) Stats() p2p.IOStats {
	var result p2p.IOStats
	for _, p := range m.Peers() {
		result = result.Add(p.Conn.Stats())
	}
	return result
}

// Close closes the mesh and all its peer connections.
func (m *Mesh) Close() error {
	m.m.Lock()
	defer m.m.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	var result error
	for _, p := range m.peers {
		if p != nil && p.Conn != nil {
			if err := p.Conn.Close(); err != nil && result == nil {
				result = err
			}
		}
	}
	if m.listener != nil {
		m.listener.Close()
	}
	return result
}

func (m *Mesh) addPeer(peer *Peer) error {
	if peer.ID < 0 || peer.ID >= m.N || peer.ID == m.ID {
		return fmt.Errorf("invalid peer ID %v: expected [0...%v[",
			peer.ID, m.N)
	}
	if m.peers[peer.ID] != nil {
		return fmt.Errorf("peer %v already defined", peer.ID)
	}
	m.peers[peer.ID] = peer
	m.config.Debugf("%s: new peer %v\n", m, peer)
	return nil
}

// NewPipeMesh creates an in-memory mesh of n peers. The result
// contains each peer's view of the mesh, indexed by peer ID.
func NewPipeMesh(n int, config *env.Config) []*Mesh {
	result := make([]*Mesh, n)
	for i := 0; i < n; i++ {
		result[i] = newMesh(i, n, config)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			ci, cj := p2p.Pipe()
			result[i].peers[j] = &Peer{
				ID:   j,
				Addr: "pipe",
				Conn: ci,
			}
			result[j].peers[i] = &Peer{
				ID:   i,
				Addr: "pipe",
				Conn: cj,
			}
		}
	}
	return result
}

// CreateNetwork creates the network for the leader peer. The function
// blocks until all n-1 peers have joined the network.
func CreateNetwork(addr string, n int, config *env.Config) (*Mesh, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return Lead(l, n, config)
}

// Lead runs the leader bootstrap on the listener. The mesh takes the
// ownership of the listener.
func Lead(l net.Listener, n int, config *env.Config) (*Mesh, error) {
	mesh := newMesh(0, n, config)
	mesh.listener = l

	for joined := 1; joined < n; joined++ {
		c, err := l.Accept()
		if err != nil {
			mesh.Close()
			return nil, err
		}
		conn := p2p.NewConn(c)
		id, err := conn.ReceiveUint32()
		if err != nil {
			conn.Close()
			mesh.Close()
			return nil, err
		}
		addr, err := conn.ReceiveString()
		if err != nil {
			conn.Close()
			mesh.Close()
			return nil, err
		}
		err = mesh.addPeer(&Peer{
			ID:   id,
			Addr: addr,
			Conn: conn,
		})
		if err != nil {
			conn.Close()
			mesh.Close()
			return nil, err
		}
	}
	config.Logf("%s: all %d peers connected\n", mesh, n-1)

	// Send network info to all peers.
	for _, peer := range mesh.Peers() {
		err := peer.Conn.SendUint32(n - 2)
		if err != nil {
			mesh.Close()
			return nil, err
		}
		for _, o := range mesh.Peers() {
			if o.ID == peer.ID {
				continue
			}
			if err := peer.Conn.SendUint32(o.ID); err != nil {
				mesh.Close()
				return nil, err
			}
			if err := peer.Conn.SendString(o.Addr); err != nil {
				mesh.Close()
				return nil, err
			}
		}
		if err := peer.Conn.Flush(); err != nil {
			mesh.Close()
			return nil, err
		}
	}
	return mesh, nil
}

// JoinNetwork joins the leader's network. The argument this specifies
// the address where this peer accepts connections from other peers.
func JoinNetwork(leader, this string, id, n int, config *env.Config) (
	*Mesh, error) {

	l, err := net.Listen("tcp", this)
	if err != nil {
		return nil, err
	}
	return Join(leader, l, id, n, config)
}

// Join joins the leader's network and accepts peer connections from
// the listener. The mesh takes the ownership of the listener.
func Join(leader string, l net.Listener, id, n int, config *env.Config) (
	*Mesh, error) {

	if id <= 0 || id >= n {
		l.Close()
		return nil, fmt.Errorf("invalid ID %v: expected [1...%v[", id, n)
	}
	mesh := newMesh(id, n, config)
	mesh.listener = l

	conn, err := dial(mesh, leader)
	if err != nil {
		mesh.Close()
		return nil, err
	}
	mesh.peers[0] = &Peer{
		ID:   0,
		Addr: leader,
		Conn: conn,
	}
	if err := conn.SendUint32(id); err != nil {
		mesh.Close()
		return nil, err
	}
	if err := conn.SendString(l.Addr().String()); err != nil {
		mesh.Close()
		return nil, err
	}
	if err := conn.Flush(); err != nil {
		mesh.Close()
		return nil, err
	}

	// Get other peers' connection endpoints.
	count, err := conn.ReceiveUint32()
	if err != nil {
		mesh.Close()
		return nil, err
	}
	if count != n-2 {
		mesh.Close()
		return nil, fmt.Errorf("leader announced %d peers, expected %d",
			count, n-2)
	}
	var addrs []*Peer
	for i := 0; i < count; i++ {
		pid, err := conn.ReceiveUint32()
		if err != nil {
			mesh.Close()
			return nil, err
		}
		addr, err := conn.ReceiveString()
		if err != nil {
			mesh.Close()
			return nil, err
		}
		addrs = append(addrs, &Peer{
			ID:   pid,
			Addr: addr,
		})
	}

	// Lower IDs dial higher IDs.
	for _, peer := range addrs {
		if peer.ID < id {
			continue
		}
		c, err := dial(mesh, peer.Addr)
		if err != nil {
			mesh.Close()
			return nil, err
		}
		if err := c.SendUint32(id); err != nil {
			c.Close()
			mesh.Close()
			return nil, err
		}
		if err := c.Flush(); err != nil {
			c.Close()
			mesh.Close()
			return nil, err
		}
		peer.Conn = c
		if err := mesh.addPeer(peer); err != nil {
			c.Close()
			mesh.Close()
			return nil, err
		}
	}
	for accepted := 1; accepted < id; accepted++ {
		c, err := l.Accept()
		if err != nil {
			mesh.Close()
			return nil, err
		}
		conn := p2p.NewConn(c)
		pid, err := conn.ReceiveUint32()
		if err != nil {
			conn.Close()
			mesh.Close()
			return nil, err
		}
		if pid >= id {
			conn.Close()
			mesh.Close()
			return nil, fmt.Errorf("unexpected connection from peer %d", pid)
		}
		var addr string
		for _, p := range addrs {
			if p.ID == pid {
				addr = p.Addr
			}
		}
		err = mesh.addPeer(&Peer{
			ID:   pid,
			Addr: addr,
			Conn: conn,
		})
		if err != nil {
			conn.Close()
			mesh.Close()
			return nil, err
		}
	}
	config.Logf("%s: connected to %d peers\n", mesh, n-1)

	return mesh, nil
}

func dial(mesh *Mesh, addr string) (*p2p.Conn, error) {
	var err error
	for i := 0; i < dialAttempts; i++ {
		var nc net.Conn
		nc, err = net.Dial("tcp", addr)
		if err == nil {
			mesh.config.Debugf("%s: connected to %s\n", mesh, addr)
			return p2p.NewConn(nc), nil
		}
		mesh.config.Debugf("%s: connect to %s failed, retrying in %s\n",
			mesh, addr, dialDelay)
		time.Sleep(dialDelay)
	}
	return nil, fmt.Errorf("connect to %s failed: %v", addr, err)
}
