//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package rpc

import (
	"context"
	"net"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/mpcnet/chain"
	"github.com/markkurossi/mpcnet/keys"
	"github.com/markkurossi/mpcnet/vm"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// DialOptions define options for connecting to the services.
type DialOptions struct {
	// Dialer overrides the network dialer. It is used with in-memory
	// listeners.
	Dialer func(ctx context.Context, addr string) (net.Conn, error)

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

// Dial creates a client connection to the target address.
func Dial(target string, opts DialOptions) (*grpc.ClientConn, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.Dialer != nil {
		dialOpts = append(dialOpts, grpc.WithContextDialer(opts.Dialer))
		target = "passthrough:///" + target
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}
	cc, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", target)
	}
	return cc, nil
}

func invoke(ctx context.Context, cc grpc.ClientConnInterface, method string,
	in *wrapperspb.BytesValue, out interface{}) error {

	reply := new(wrapperspb.BytesValue)
	if err := cc.Invoke(ctx, method, in, reply); err != nil {
		return FromStatus(err)
	}
	if out == nil {
		return nil
	}
	return Decode(reply, out)
}

// NodeClient implements the client API of the node service.
type NodeClient struct {
	cc  grpc.ClientConnInterface
	key *keys.PrivateKey
}

// NewNodeClient creates a node client that signs its requests with
// the key.
func NewNodeClient(cc grpc.ClientConnInterface, key *keys.PrivateKey) *NodeClient {
	return &NodeClient{
		cc:  cc,
		key: key,
	}
}

func (c *NodeClient) call(ctx context.Context, name string, req,
	resp interface{}) error {

	in, err := Seal(c.key, req)
	if err != nil {
		return err
	}
	return invoke(ctx, c.cc, "/"+NodeServiceName+"/"+name, in, resp)
}

// StoreProgram stores the compiled program.
func (c *NodeClient) StoreProgram(ctx context.Context,
	req *StoreProgramRequest) (vm.ProgramID, error) {

	var resp StoreProgramResponse
	if err := c.call(ctx, "StoreProgram", req, &resp); err != nil {
		return "", err
	}
	return resp.ProgramID, nil
}

// StoreValues stores the value shares.
func (c *NodeClient) StoreValues(ctx context.Context,
	req *StoreValuesRequest) (vm.ValueID, error) {

	var resp StoreValuesResponse
	if err := c.call(ctx, "StoreValues", req, &resp); err != nil {
		return "", err
	}
	return resp.ValueID, nil
}

// RetrieveValues retrieves the value shares.
func (c *NodeClient) RetrieveValues(ctx context.Context,
	req *ValueRequest) (vm.NamedShares, error) {

	var resp RetrieveValuesResponse
	if err := c.call(ctx, "RetrieveValues", req, &resp); err != nil {
		return nil, err
	}
	return resp.Shares, nil
}

// UpdatePermissions updates the permissions of stored values.
func (c *NodeClient) UpdatePermissions(ctx context.Context,
	req *UpdatePermissionsRequest) error {
	return c.call(ctx, "UpdatePermissions", req, &Empty{})
}

// DeleteValues deletes stored values.
func (c *NodeClient) DeleteValues(ctx context.Context, req *ValueRequest) error {
	return c.call(ctx, "DeleteValues", req, &Empty{})
}

// Compute starts a computation.
func (c *NodeClient) Compute(ctx context.Context, req *ComputeRequest) (
	vm.ComputeID, error) {

	var resp ComputeResponse
	if err := c.call(ctx, "Compute", req, &resp); err != nil {
		return "", err
	}
	return resp.ComputeID, nil
}

// RetrieveResults retrieves the requester's output shares. The call
// blocks until the computation completes or the context is done.
func (c *NodeClient) RetrieveResults(ctx context.Context,
	req *RetrieveResultsRequest) ([]OutputShare, error) {

	var resp RetrieveResultsResponse
	if err := c.call(ctx, "RetrieveResults", req, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Info returns node information.
func (c *NodeClient) Info(ctx context.Context, req *InfoRequest) (
	*InfoResponse, error) {

	resp := new(InfoResponse)
	if err := c.call(ctx, "Info", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ChainClient implements the client API of the chain service.
type ChainClient struct {
	cc grpc.ClientConnInterface
}

// NewChainClient creates a chain client.
func NewChainClient(cc grpc.ClientConnInterface) *ChainClient {
	return &ChainClient{
		cc: cc,
	}
}

func (c *ChainClient) call(ctx context.Context, name string, req,
	resp interface{}) error {

	in, err := Encode(req)
	if err != nil {
		return err
	}
	return invoke(ctx, c.cc, "/"+ChainServiceName+"/"+name, in, resp)
}

// Balance returns the user balance.
func (c *ChainClient) Balance(ctx context.Context, user vm.UserID) (
	uint64, error) {

	var resp BalanceResponse
	err := c.call(ctx, "Balance", &BalanceRequest{User: user}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.Balance, nil
}

// AddFunds submits the signed transfer. It returns the new balance of
// the recipient.
func (c *ChainClient) AddFunds(ctx context.Context, t *chain.Transfer) (
	uint64, error) {

	var resp BalanceResponse
	if err := c.call(ctx, "AddFunds", t, &resp); err != nil {
		return 0, err
	}
	return resp.Balance, nil
}

// Quote returns the price of the operation.
func (c *ChainClient) Quote(ctx context.Context, op vm.Operation,
	units uint64) (uint64, error) {

	var resp QuoteResponse
	err := c.call(ctx, "Quote", &QuoteRequest{Op: op, Units: units}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.Amount, nil
}

// Pay submits the signed payment and returns the chain receipt.
func (c *ChainClient) Pay(ctx context.Context, p *chain.Payment) (
	*chain.Receipt, error) {

	receipt := new(chain.Receipt)
	if err := c.call(ctx, "Pay", p, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}
