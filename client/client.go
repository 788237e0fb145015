//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package client implements the client SDK of the MPC network. The
// client splits secret values into shares, pays for the network
// operations, and sends each node its share of the requests.
package client

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/mpcnet/chain"
	"github.com/markkurossi/mpcnet/config"
	"github.com/markkurossi/mpcnet/env"
	"github.com/markkurossi/mpcnet/keys"
	"github.com/markkurossi/mpcnet/rpc"
	"github.com/markkurossi/mpcnet/vm"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

// VmClient implements a client of the MPC network.
type VmClient struct {
	key      *keys.PrivateKey
	network  *config.Network
	payer    *Payer
	config   *env.Config
	conns    []*grpc.ClientConn
	nodes    []*rpc.NodeClient
	chain    *rpc.ChainClient
	chainPub keys.ChainPublicKey
}

// Create creates a new client for the user identity key. The client
// connects to all nodes of the network and to the chain.
func Create(ctx context.Context, key *keys.PrivateKey,
	network *config.Network, payer *Payer) (*VmClient, error) {

	if key == nil {
		return nil, errors.New("client: identity key is required")
	}
	if network == nil || len(network.Nodes) == 0 {
		return nil, errors.New("client: network has no nodes")
	}
	c := &VmClient{
		key:     key,
		network: network,
		payer:   payer,
		config:  &env.Config{},
	}
	opts := rpc.DialOptions{
		Dialer: network.Dialer,
	}
	cc, err := rpc.Dial(network.Chain, opts)
	if err != nil {
		return nil, err
	}
	c.conns = append(c.conns, cc)
	c.chain = rpc.NewChainClient(cc)

	nodes := make([]*rpc.NodeClient, len(network.Nodes))
	for idx, addr := range network.Nodes {
		cc, err := rpc.Dial(addr, opts)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.conns = append(c.conns, cc)
		nodes[idx] = rpc.NewNodeClient(cc, key)
	}

	// Order the node clients by node IDs.
	infos := make([]*rpc.InfoResponse, len(nodes))
	g, gctx := errgroup.WithContext(ctx)
	for idx, node := range nodes {
		g.Go(func() error {
			info, err := node.Info(gctx, &rpc.InfoRequest{})
			if err != nil {
				return errors.Wrapf(err, "node %s", network.Nodes[idx])
			}
			infos[idx] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.Close()
		return nil, err
	}
	c.nodes = make([]*rpc.NodeClient, len(nodes))
	c.chainPub = network.ChainPublicKey
	for idx, info := range infos {
		if info.Nodes != len(nodes) || info.ID < 0 || info.ID >= len(nodes) ||
			c.nodes[info.ID] != nil {
			c.Close()
			return nil, errors.Newf("client: node %s: invalid info %d/%d",
				network.Nodes[idx], info.ID, info.Nodes)
		}
		if len(c.chainPub) == 0 {
			c.chainPub = info.ChainPublicKey
		} else if c.chainPub.Hex() != info.ChainPublicKey.Hex() {
			c.Close()
			return nil, errors.Newf("client: node %s: chain key mismatch",
				network.Nodes[idx])
		}
		c.nodes[info.ID] = nodes[idx]
	}
	return c, nil
}

// Close closes the client connections.
func (c *VmClient) Close() error {
	var result error
	for _, cc := range c.conns {
		if err := cc.Close(); err != nil && result == nil {
			result = err
		}
	}
	c.conns = nil
	return result
}

// UserID returns the user ID of the client.
func (c *VmClient) UserID() vm.UserID {
	return vm.UserID(c.key.UserID())
}

// NumNodes returns the number of nodes in the network.
func (c *VmClient) NumNodes() int {
	return len(c.nodes)
}

// AddFunds funds the user balance from the payer's wallet. It returns
// the new balance.
func (c *VmClient) AddFunds(ctx context.Context, amount uint64) (
	uint64, error) {
	return c.payer.Fund(ctx, c.chain, c.UserID(), amount)
}

// Balance returns the user balance.
func (c *VmClient) Balance(ctx context.Context) (uint64, error) {
	return c.chain.Balance(ctx, c.UserID())
}

// pay pays for the operation and returns the chain receipt.
func (c *VmClient) pay(ctx context.Context, op vm.Operation, units uint64) (
	*chain.Receipt, error) {

	nonce, err := chain.NewNonce(c.config.GetRandom())
	if err != nil {
		return nil, err
	}
	p := &chain.Payment{
		Op:    op,
		Units: units,
		Nonce: nonce,
	}
	p.Sign(c.key)

	receipt, err := c.chain.Pay(ctx, p)
	if err != nil {
		return nil, errors.Wrapf(err, "pay %s", op)
	}
	if err := receipt.Check(c.chainPub, c.UserID(), op, units); err != nil {
		return nil, err
	}
	return receipt, nil
}

// fanout calls f for all nodes concurrently.
func (c *VmClient) fanout(ctx context.Context,
	f func(ctx context.Context, idx int, node *rpc.NodeClient) error) error {

	g, gctx := errgroup.WithContext(ctx)
	for idx, node := range c.nodes {
		g.Go(func() error {
			if err := f(gctx, idx, node); err != nil {
				return errors.Wrapf(err, "node %d", idx)
			}
			return nil
		})
	}
	return g.Wait()
}

// StoreProgram stores the compiled program binary on all nodes and
// returns its program ID.
func (c *VmClient) StoreProgram(ctx context.Context, name string,
	binary []byte) (vm.ProgramID, error) {

	receipt, err := c.pay(ctx, vm.OpStoreProgram,
		vm.StoreProgramUnits(len(binary)))
	if err != nil {
		return "", err
	}
	req := &rpc.StoreProgramRequest{
		Name:    name,
		Program: binary,
		Receipt: receipt,
	}
	ids := make([]vm.ProgramID, len(c.nodes))
	err = c.fanout(ctx, func(ctx context.Context, idx int,
		node *rpc.NodeClient) error {

		var err error
		ids[idx], err = node.StoreProgram(ctx, req)
		return err
	})
	if err != nil {
		return "", err
	}
	for idx, id := range ids {
		if id != ids[0] {
			return "", errors.Newf("node %d: program ID mismatch: %s != %s",
				idx, id, ids[0])
		}
	}
	return ids[0], nil
}

// StoreValues splits the values into shares and stores them on all
// nodes for ttlDays days. If perms is nil, the user's default
// permissions are used.
func (c *VmClient) StoreValues(ctx context.Context, values vm.NamedValues,
	ttlDays int, perms *vm.Permissions) (vm.ValueID, error) {

	if len(values) == 0 {
		return "", errors.Wrap(vm.ErrInvalidValue, "no values")
	}
	if err := vm.CheckTTL(ttlDays); err != nil {
		return "", err
	}
	if perms == nil {
		perms = vm.DefaultsForUser(c.UserID())
	}
	id, err := vm.NewValueID(c.config.GetRandom())
	if err != nil {
		return "", err
	}
	shares, err := vm.SplitValues(values, len(c.nodes), c.config.GetRandom())
	if err != nil {
		return "", err
	}
	receipt, err := c.pay(ctx, vm.OpStoreValues,
		vm.StoreValuesUnits(len(values), ttlDays))
	if err != nil {
		return "", err
	}
	err = c.fanout(ctx, func(ctx context.Context, idx int,
		node *rpc.NodeClient) error {

		_, err := node.StoreValues(ctx, &rpc.StoreValuesRequest{
			ValueID:     id,
			Shares:      shares[idx],
			TTLDays:     ttlDays,
			Permissions: perms,
			Receipt:     receipt,
		})
		return err
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// RetrieveValues retrieves the stored values.
func (c *VmClient) RetrieveValues(ctx context.Context, id vm.ValueID) (
	vm.NamedValues, error) {

	receipt, err := c.pay(ctx, vm.OpRetrieveValues, 1)
	if err != nil {
		return nil, err
	}
	req := &rpc.ValueRequest{
		ValueID: id,
		Receipt: receipt,
	}
	shares := make([]vm.NamedShares, len(c.nodes))
	err = c.fanout(ctx, func(ctx context.Context, idx int,
		node *rpc.NodeClient) error {

		var err error
		shares[idx], err = node.RetrieveValues(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return vm.CombineValues(shares)
}

// UpdatePermissions replaces the permissions of the stored values.
func (c *VmClient) UpdatePermissions(ctx context.Context, id vm.ValueID,
	perms *vm.Permissions) error {

	receipt, err := c.pay(ctx, vm.OpUpdatePermissions, 1)
	if err != nil {
		return err
	}
	req := &rpc.UpdatePermissionsRequest{
		ValueID:     id,
		Permissions: perms,
		Receipt:     receipt,
	}
	return c.fanout(ctx, func(ctx context.Context, idx int,
		node *rpc.NodeClient) error {
		return node.UpdatePermissions(ctx, req)
	})
}

// DeleteValues deletes the stored values.
func (c *VmClient) DeleteValues(ctx context.Context, id vm.ValueID) error {
	receipt, err := c.pay(ctx, vm.OpDeleteValues, 1)
	if err != nil {
		return err
	}
	req := &rpc.ValueRequest{
		ValueID: id,
		Receipt: receipt,
	}
	return c.fanout(ctx, func(ctx context.Context, idx int,
		node *rpc.NodeClient) error {
		return node.DeleteValues(ctx, req)
	})
}

// ProgramInfo returns information about the stored program.
func (c *VmClient) ProgramInfo(ctx context.Context, id vm.ProgramID) (
	*rpc.ProgramInfo, error) {

	info, err := c.nodes[0].Info(ctx, &rpc.InfoRequest{
		ProgramID: id,
	})
	if err != nil {
		return nil, err
	}
	if info.Program == nil {
		return nil, errors.Newf("client: no info for program %s", id)
	}
	return info.Program, nil
}

// Compute starts the program with the input and output party
// bindings. The program inputs come from the compute-time values and
// from the stored values valueIDs.
func (c *VmClient) Compute(ctx context.Context, id vm.ProgramID,
	inputBindings []vm.InputPartyBinding,
	outputBindings []vm.OutputPartyBinding,
	values vm.NamedValues, valueIDs []vm.ValueID) (vm.ComputeID, error) {

	program, err := c.ProgramInfo(ctx, id)
	if err != nil {
		return "", err
	}
	computeID, err := vm.NewComputeID(c.config.GetRandom())
	if err != nil {
		return "", err
	}
	shares, err := vm.SplitValues(values, len(c.nodes), c.config.GetRandom())
	if err != nil {
		return "", err
	}
	receipt, err := c.pay(ctx, vm.OpCompute,
		vm.ComputeUnits(program.Nonlinear))
	if err != nil {
		return "", err
	}
	err = c.fanout(ctx, func(ctx context.Context, idx int,
		node *rpc.NodeClient) error {

		_, err := node.Compute(ctx, &rpc.ComputeRequest{
			ComputeID:      computeID,
			ProgramID:      id,
			InputBindings:  inputBindings,
			OutputBindings: outputBindings,
			Shares:         shares[idx],
			ValueIDs:       valueIDs,
			Receipt:        receipt,
		})
		return err
	})
	if err != nil {
		return "", err
	}
	return computeID, nil
}

// RetrieveComputeResults waits for the computation to complete and
// returns the outputs bound to the user. The results are keyed by
// output names. If the user receives an output with the same name for
// many parties, the results are keyed by "party.name".
func (c *VmClient) RetrieveComputeResults(ctx context.Context,
	id vm.ComputeID) (map[string]vm.Secret, error) {

	receipt, err := c.pay(ctx, vm.OpRetrieveResults, 1)
	if err != nil {
		return nil, err
	}
	req := &rpc.RetrieveResultsRequest{
		ComputeID: id,
		Receipt:   receipt,
	}
	outputs := make([][]rpc.OutputShare, len(c.nodes))
	err = c.fanout(ctx, func(ctx context.Context, idx int,
		node *rpc.NodeClient) error {

		var err error
		outputs[idx], err = node.RetrieveResults(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return combineResults(outputs)
}

type outputKey struct {
	party string
	name  string
}

func combineResults(outputs [][]rpc.OutputShare) (map[string]vm.Secret,
	error) {

	shares := make(map[outputKey][]vm.Share)
	var order []outputKey
	for idx, out := range outputs {
		if len(out) != len(outputs[0]) {
			return nil, errors.Newf("node %d: got %d results, expected %d",
				idx, len(out), len(outputs[0]))
		}
		for _, r := range out {
			key := outputKey{
				party: r.Party,
				name:  r.Name,
			}
			if idx == 0 {
				order = append(order, key)
			}
			shares[key] = append(shares[key], r.Share)
		}
	}
	names := make(map[string]int)
	for _, key := range order {
		if len(shares[key]) != len(outputs) {
			return nil, errors.Newf("result %s of party %s: %d shares",
				key.name, key.party, len(shares[key]))
		}
		names[key.name]++
	}

	result := make(map[string]vm.Secret)
	for _, key := range order {
		secret, err := vm.Combine(shares[key])
		if err != nil {
			return nil, errors.Wrapf(err, "result %s", key.name)
		}
		name := key.name
		if names[key.name] > 1 {
			name = fmt.Sprintf("%s.%s", key.party, key.name)
		}
		result[name] = secret
	}
	return result, nil
}
