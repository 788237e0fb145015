//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package devnet runs a local developer network: a chain ledger and a
// set of compute nodes in one process.
package devnet

import (
	"context"
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/mpcnet/chain"
	"github.com/markkurossi/mpcnet/config"
	"github.com/markkurossi/mpcnet/env"
	"github.com/markkurossi/mpcnet/gmw"
	"github.com/markkurossi/mpcnet/keys"
	"github.com/markkurossi/mpcnet/node"
	"github.com/markkurossi/mpcnet/rpc"
	"github.com/markkurossi/mpcnet/store"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

// Default options.
const (
	DefaultNodes   = 3
	DefaultWallets = 1
	DefaultFunds   = 1000000000
	DefaultName    = "devnet"

	bufSize = 1024 * 1024
)

// Options define devnet options.
type Options struct {
	// Name specifies the network name.
	Name string

	// Nodes specifies the number of compute nodes.
	Nodes int

	// Listen enables TCP listeners. If false, the network runs over
	// in-memory connections.
	Listen bool

	// BaseAddr specifies the TCP address of the chain service. The
	// nodes listen on the following ports. Port 0 selects random
	// ports.
	BaseAddr string

	// Wallets specifies the number of genesis wallets.
	Wallets int

	// Funds specifies the genesis funds of each wallet.
	Funds uint64

	// StoreDir specifies a directory for program stores. If empty,
	// programs are stored in memory.
	StoreDir string

	// Config specifies the runtime configuration.
	Config *env.Config
}

// Devnet implements a local developer network.
type Devnet struct {
	config    *env.Config
	network   *config.Network
	wallets   []*keys.PrivateKey
	ledger    *chain.Ledger
	nodes     []*node.Node
	servers   []*grpc.Server
	listeners map[string]*bufconn.Listener
	wg        sync.WaitGroup
}

// Start starts a devnet.
func Start(ctx context.Context, opts Options) (*Devnet, error) {
	if opts.Nodes <= 0 {
		opts.Nodes = DefaultNodes
	}
	if opts.Wallets <= 0 {
		opts.Wallets = DefaultWallets
	}
	if opts.Funds == 0 {
		opts.Funds = DefaultFunds
	}
	if len(opts.Name) == 0 {
		opts.Name = DefaultName
	}
	if len(opts.BaseAddr) == 0 {
		opts.BaseAddr = "127.0.0.1:0"
	}
	rand := opts.Config.GetRandom()

	chainKey, err := keys.GenerateChainKey(rand)
	if err != nil {
		return nil, err
	}
	d := &Devnet{
		config: opts.Config,
		network: &config.Network{
			Name:           opts.Name,
			ChainPublicKey: chainKey.Public(),
		},
		listeners: make(map[string]*bufconn.Listener),
	}
	genesis := make(map[string]uint64)
	for i := 0; i < opts.Wallets; i++ {
		key, err := keys.GeneratePrivateKey(rand)
		if err != nil {
			return nil, err
		}
		d.wallets = append(d.wallets, key)
		genesis[key.Address()] = opts.Funds
	}
	d.ledger = chain.NewLedger(chainKey, genesis, chain.Options{
		Rand: rand,
	})

	meshes, err := d.createMesh(ctx, opts)
	if err != nil {
		return nil, err
	}
	for _, mesh := range meshes {
		var cas store.CAS
		if len(opts.StoreDir) > 0 {
			cas, err = store.NewDirCAS(filepath.Join(opts.StoreDir,
				fmt.Sprintf("node%d", mesh.ID)))
			if err != nil {
				d.closeMeshes(meshes)
				d.Stop()
				return nil, err
			}
		}
		n, err := node.New(node.Options{
			Mesh:           mesh,
			ChainPublicKey: chainKey.Public(),
			CAS:            cas,
			Config:         opts.Config,
		})
		if err != nil {
			d.closeMeshes(meshes)
			d.Stop()
			return nil, err
		}
		n.Start()
		d.nodes = append(d.nodes, n)
	}

	host, port, err := splitAddr(opts.BaseAddr)
	if err != nil {
		d.Stop()
		return nil, err
	}

	// Chain service.
	srv := grpc.NewServer()
	rpc.RegisterChainServer(srv, &rpc.ChainService{
		Ledger: d.ledger,
	})
	d.network.Chain, err = d.serve(srv, opts.Listen, "chain", host, port)
	if err != nil {
		d.Stop()
		return nil, err
	}

	// Node services.
	for idx, n := range d.nodes {
		srv := grpc.NewServer()
		rpc.RegisterNodeServer(srv, n)

		p := port
		if p != 0 {
			p += idx + 1
		}
		addr, err := d.serve(srv, opts.Listen, fmt.Sprintf("node%d", idx),
			host, p)
		if err != nil {
			d.Stop()
			return nil, err
		}
		d.network.Nodes = append(d.network.Nodes, addr)
	}
	if !opts.Listen {
		d.network.Dialer = d.dial
	}
	opts.Config.Logf("devnet: chain %s, nodes %v\n",
		d.network.Chain, d.network.Nodes)

	return d, nil
}

func splitAddr(addr string) (string, int, error) {
	host, p, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, errors.Wrapf(err, "devnet: address %s", addr)
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		return "", 0, errors.Wrapf(err, "devnet: port %s", p)
	}
	return host, port, nil
}

// createMesh creates the compute node mesh. With TCP listeners, the
// nodes connect with the leader bootstrap over loopback connections.
func (d *Devnet) createMesh(ctx context.Context, opts Options) (
	[]*gmw.Mesh, error) {

	if !opts.Listen {
		return gmw.NewPipeMesh(opts.Nodes, opts.Config), nil
	}
	host, _, err := splitAddr(opts.BaseAddr)
	if err != nil {
		return nil, err
	}
	var lc net.ListenConfig
	listeners := make([]net.Listener, opts.Nodes)
	for i := range listeners {
		listeners[i], err = lc.Listen(ctx, "tcp", net.JoinHostPort(host, "0"))
		if err != nil {
			for j := 0; j < i; j++ {
				listeners[j].Close()
			}
			return nil, errors.Wrap(err, "devnet: mesh listener")
		}
	}
	leader := listeners[0].Addr().String()

	meshes := make([]*gmw.Mesh, opts.Nodes)
	errs := make([]error, opts.Nodes)

	var wg sync.WaitGroup
	for i := range listeners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i == 0 {
				meshes[i], errs[i] = gmw.Lead(listeners[i], opts.Nodes,
					opts.Config)
			} else {
				meshes[i], errs[i] = gmw.Join(leader, listeners[i], i,
					opts.Nodes, opts.Config)
			}
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			d.closeMeshes(meshes)
			return nil, errors.Wrapf(err, "devnet: mesh node %d", i)
		}
	}
	return meshes, nil
}

func (d *Devnet) closeMeshes(meshes []*gmw.Mesh) {
	for idx, mesh := range meshes {
		if mesh != nil && idx >= len(d.nodes) {
			mesh.Close()
		}
	}
}

func (d *Devnet) serve(srv *grpc.Server, listen bool, name, host string,
	port int) (string, error) {

	var l net.Listener
	var addr string
	if listen {
		var err error
		l, err = net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
		if err != nil {
			return "", errors.Wrapf(err, "devnet: %s", name)
		}
		addr = l.Addr().String()
	} else {
		bl := bufconn.Listen(bufSize)
		d.listeners[name] = bl
		l = bl
		addr = name
	}
	d.servers = append(d.servers, srv)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := srv.Serve(l); err != nil {
			d.config.GetLogger().Printf("devnet: %s: %v\n", name, err)
		}
	}()
	return addr, nil
}

func (d *Devnet) dial(ctx context.Context, addr string) (net.Conn, error) {
	l, ok := d.listeners[addr]
	if !ok {
		return nil, errors.Newf("devnet: unknown address %s", addr)
	}
	return l.DialContext(ctx)
}

// Network returns the network configuration of the devnet.
func (d *Devnet) Network() *config.Network {
	return d.network
}

// Wallets returns the genesis wallet keys.
func (d *Devnet) Wallets() []*keys.PrivateKey {
	return d.wallets
}

// Ledger returns the chain ledger of the devnet.
func (d *Devnet) Ledger() *chain.Ledger {
	return d.ledger
}

// Stop stops the devnet.
func (d *Devnet) Stop() {
	for _, srv := range d.servers {
		srv.Stop()
	}
	for _, n := range d.nodes {
		n.Close()
	}
	d.wg.Wait()
}
