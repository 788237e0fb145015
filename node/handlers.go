//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package node

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/mpcnet/chain"
	"github.com/markkurossi/mpcnet/rpc"
	"github.com/markkurossi/mpcnet/store"
	"github.com/markkurossi/mpcnet/vm"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Day is the unit of value TTLs.
const Day = 24 * time.Hour

// checkReceipt checks that the receipt pays for the operation and
// marks its nonce used.
func (n *Node) checkReceipt(r *chain.Receipt, user vm.UserID,
	op vm.Operation, units uint64) error {

	if err := r.Check(n.chainPub, user, op, units); err != nil {
		return err
	}
	if err := n.nonces.Use(r.Nonce); err != nil {
		return errors.Wrapf(chain.ErrReplay, "receipt %s", r.Nonce)
	}
	return nil
}

func reply(msg interface{}) (*wrapperspb.BytesValue, error) {
	out, err := rpc.Encode(msg)
	if err != nil {
		return nil, rpc.Status(err)
	}
	return out, nil
}

func (n *Node) fail(method string, user vm.UserID, err error) error {
	n.config.Logf("%s: %s(%s): %v\n", n, method, user, err)
	return rpc.Status(err)
}

// StoreProgram implements rpc.NodeServer.StoreProgram.
func (n *Node) StoreProgram(ctx context.Context,
	in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {

	var req rpc.StoreProgramRequest
	user, err := rpc.Open(in, &req)
	if err != nil {
		return nil, rpc.Status(err)
	}
	if len(req.Name) == 0 || strings.ContainsRune(req.Name, '/') {
		return nil, n.fail("StoreProgram", user,
			errors.Wrapf(rpc.ErrInvalidArgument, "program name %q", req.Name))
	}
	err = n.checkReceipt(req.Receipt, user, vm.OpStoreProgram,
		vm.StoreProgramUnits(len(req.Program)))
	if err != nil {
		return nil, n.fail("StoreProgram", user, err)
	}
	pid, err := n.programs.Put(user, req.Name, req.Program)
	if err != nil {
		if !errors.Is(err, store.ErrImmutable) {
			err = errors.Mark(err, rpc.ErrInvalidArgument)
		}
		return nil, n.fail("StoreProgram", user, err)
	}
	n.config.Logf("%s: stored program %s\n", n, pid)

	return reply(&rpc.StoreProgramResponse{
		ProgramID: pid,
	})
}

// StoreValues implements rpc.NodeServer.StoreValues.
func (n *Node) StoreValues(ctx context.Context,
	in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {

	var req rpc.StoreValuesRequest
	user, err := rpc.Open(in, &req)
	if err != nil {
		return nil, rpc.Status(err)
	}
	id, err := vm.ParseValueID(string(req.ValueID))
	if err != nil {
		return nil, n.fail("StoreValues", user, err)
	}
	if err := vm.CheckTTL(req.TTLDays); err != nil {
		return nil, n.fail("StoreValues", user, err)
	}
	perms := req.Permissions
	if perms == nil {
		perms = vm.DefaultsForUser(user)
	}
	if perms.Owner != user {
		return nil, n.fail("StoreValues", user,
			errors.Wrapf(rpc.ErrInvalidArgument, "value owner %s", perms.Owner))
	}
	if err := perms.Validate(); err != nil {
		return nil, n.fail("StoreValues", user,
			errors.Mark(err, rpc.ErrInvalidArgument))
	}
	err = n.checkReceipt(req.Receipt, user, vm.OpStoreValues,
		vm.StoreValuesUnits(len(req.Shares), req.TTLDays))
	if err != nil {
		return nil, n.fail("StoreValues", user, err)
	}
	err = n.values.Put(id, req.Shares, time.Duration(req.TTLDays)*Day, perms)
	if err != nil {
		return nil, n.fail("StoreValues", user, err)
	}
	n.config.Debugf("%s: stored values %s: %s\n", n, id,
		strings.Join(shareNames(req.Shares), ","))

	return reply(&rpc.StoreValuesResponse{
		ValueID: id,
	})
}

// RetrieveValues implements rpc.NodeServer.RetrieveValues.
func (n *Node) RetrieveValues(ctx context.Context,
	in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {

	var req rpc.ValueRequest
	user, err := rpc.Open(in, &req)
	if err != nil {
		return nil, rpc.Status(err)
	}
	err = n.checkReceipt(req.Receipt, user, vm.OpRetrieveValues, 1)
	if err != nil {
		return nil, n.fail("RetrieveValues", user, err)
	}
	record, err := n.values.Get(req.ValueID, user)
	if err != nil {
		return nil, n.fail("RetrieveValues", user, err)
	}
	return reply(&rpc.RetrieveValuesResponse{
		Shares: record.Shares,
	})
}

// UpdatePermissions implements rpc.NodeServer.UpdatePermissions.
func (n *Node) UpdatePermissions(ctx context.Context,
	in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {

	var req rpc.UpdatePermissionsRequest
	user, err := rpc.Open(in, &req)
	if err != nil {
		return nil, rpc.Status(err)
	}
	err = n.checkReceipt(req.Receipt, user, vm.OpUpdatePermissions, 1)
	if err != nil {
		return nil, n.fail("UpdatePermissions", user, err)
	}
	err = n.values.UpdatePermissions(req.ValueID, user, req.Permissions)
	if err != nil {
		return nil, n.fail("UpdatePermissions", user, err)
	}
	return reply(&rpc.Empty{})
}

// DeleteValues implements rpc.NodeServer.DeleteValues.
func (n *Node) DeleteValues(ctx context.Context,
	in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {

	var req rpc.ValueRequest
	user, err := rpc.Open(in, &req)
	if err != nil {
		return nil, rpc.Status(err)
	}
	err = n.checkReceipt(req.Receipt, user, vm.OpDeleteValues, 1)
	if err != nil {
		return nil, n.fail("DeleteValues", user, err)
	}
	if err := n.values.Delete(req.ValueID, user); err != nil {
		return nil, n.fail("DeleteValues", user, err)
	}
	return reply(&rpc.Empty{})
}

// Compute implements rpc.NodeServer.Compute.
func (n *Node) Compute(ctx context.Context,
	in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {

	var req rpc.ComputeRequest
	user, err := rpc.Open(in, &req)
	if err != nil {
		return nil, rpc.Status(err)
	}
	id, err := vm.ParseComputeID(string(req.ComputeID))
	if err != nil {
		return nil, n.fail("Compute", user, err)
	}
	if _, err := n.results.Get(id); err == nil {
		return nil, n.fail("Compute", user,
			errors.Wrapf(store.ErrExists, "compute %s", id))
	}
	job, err := n.newJob(id, user, &req)
	if err == nil {
		err = n.results.Add(job)
		if errors.Is(err, store.ErrExists) {
			return nil, n.fail("Compute", user, err)
		}
	}
	if !n.decide(id, err == nil) && err == nil {
		err = errors.Wrapf(rpc.ErrAborted, "compute %s arrived too late", id)
		n.abort(id, err)
	}
	if err != nil {
		return nil, n.fail("Compute", user, err)
	}
	n.config.Logf("%s: compute %s: program %s, invoker %s\n",
		n, id, job.Program, user)

	return reply(&rpc.ComputeResponse{
		ComputeID: id,
	})
}

// RetrieveResults implements rpc.NodeServer.RetrieveResults.
func (n *Node) RetrieveResults(ctx context.Context,
	in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {

	var req rpc.RetrieveResultsRequest
	user, err := rpc.Open(in, &req)
	if err != nil {
		return nil, rpc.Status(err)
	}
	err = n.checkReceipt(req.Receipt, user, vm.OpRetrieveResults, 1)
	if err != nil {
		return nil, n.fail("RetrieveResults", user, err)
	}
	job, err := n.results.Wait(ctx, req.ComputeID)
	if err != nil {
		return nil, n.fail("RetrieveResults", user, err)
	}
	if job.State == store.JobFailed {
		return nil, n.fail("RetrieveResults", user,
			errors.Wrapf(rpc.ErrAborted, "compute %s: %s", job.ID, job.Err))
	}
	results := job.ResultsFor(user)
	if len(results) == 0 {
		return nil, n.fail("RetrieveResults", user,
			errors.Wrapf(store.ErrPermissionDenied,
				"no outputs of compute %s bound to %s", job.ID, user))
	}
	resp := &rpc.RetrieveResultsResponse{}
	for _, r := range results {
		resp.Results = append(resp.Results, rpc.OutputShare{
			Name:  r.Name,
			Party: r.Party,
			Share: r.Share,
		})
	}
	return reply(resp)
}

// Info implements rpc.NodeServer.Info.
func (n *Node) Info(ctx context.Context,
	in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {

	var req rpc.InfoRequest
	if _, err := rpc.Open(in, &req); err != nil {
		return nil, rpc.Status(err)
	}
	resp := &rpc.InfoResponse{
		ID:             n.ID,
		Nodes:          n.N,
		ChainPublicKey: n.chainPub,
	}
	if len(req.ProgramID) > 0 {
		circ, err := n.programs.Circuit(req.ProgramID)
		if err != nil {
			return nil, rpc.Status(err)
		}
		resp.Program = rpc.NewProgramInfo(circ)
	}
	return reply(resp)
}
