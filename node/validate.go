//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package node

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/mpcnet/circuit"
	"github.com/markkurossi/mpcnet/rpc"
	"github.com/markkurossi/mpcnet/store"
	"github.com/markkurossi/mpcnet/vm"
)

// inputSource holds the share of a program input and the value
// record it came from. The record is nil for compute-time values.
type inputSource struct {
	share  vm.Share
	record *store.ValueRecord
}

func shareNames(shares vm.NamedShares) []string {
	var names []string
	for name := range shares {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func invalid(format string, a ...interface{}) error {
	return errors.Wrapf(rpc.ErrInvalidArgument, format, a...)
}

func denied(format string, a ...interface{}) error {
	return errors.Wrapf(store.ErrPermissionDenied, format, a...)
}

// newJob validates the compute request and creates the computation
// job. The job input shares are in the circuit input order.
func (n *Node) newJob(id vm.ComputeID, invoker vm.UserID,
	req *rpc.ComputeRequest) (*store.Job, error) {

	circ, err := n.programs.Circuit(req.ProgramID)
	if err != nil {
		return nil, err
	}
	err = n.checkReceipt(req.Receipt, invoker, vm.OpCompute,
		vm.ComputeUnits(circ.NumNonlinear()))
	if err != nil {
		return nil, err
	}
	inputBindings, err := vm.InputBindings(req.InputBindings)
	if err != nil {
		return nil, errors.Mark(err, rpc.ErrInvalidArgument)
	}
	outputBindings, err := vm.OutputBindings(req.OutputBindings)
	if err != nil {
		return nil, errors.Mark(err, rpc.ErrInvalidArgument)
	}
	if err := checkBindings(circ, inputBindings, outputBindings); err != nil {
		return nil, err
	}

	// Collect input sources.
	sources := make(map[string]*inputSource)
	for name, share := range req.Shares {
		sources[name] = &inputSource{
			share: share,
		}
	}
	seen := make(map[vm.ValueID]bool)
	for _, vid := range req.ValueIDs {
		if seen[vid] {
			return nil, invalid("value %s used multiple times", vid)
		}
		seen[vid] = true

		record, err := n.values.Lookup(vid)
		if err != nil {
			return nil, err
		}
		for _, name := range shareNames(record.Shares) {
			if _, ok := sources[name]; ok {
				return nil, invalid("input %s supplied multiple times", name)
			}
			sources[name] = &inputSource{
				share:  record.Shares[name],
				record: record,
			}
		}
	}

	inputs := make([][]byte, len(circ.Inputs))
	for idx, arg := range circ.Inputs {
		src, ok := sources[arg.Name]
		if !ok {
			return nil, invalid("input %s not supplied", arg.Name)
		}
		delete(sources, arg.Name)

		if err := src.share.Validate(); err != nil {
			return nil, errors.Wrapf(err, "input %s", arg.Name)
		}
		if !src.share.Type.Equal(arg.Type) {
			return nil, invalid("input %s: type %v, expected %v",
				arg.Name, src.share.Type, arg.Type)
		}
		party := circ.Parties[arg.Party]
		user := inputBindings[party]

		if src.record == nil {
			if user != invoker {
				return nil, denied("input %s of party %s bound to %s",
					arg.Name, party, user)
			}
		} else {
			if src.record.Owner() != user {
				return nil, denied("value %s of input %s not owned by %s",
					src.record.ID, arg.Name, user)
			}
			if !src.record.Permissions.CanCompute(invoker, req.ProgramID) {
				return nil, denied("%s may not compute %s with value %s",
					invoker, req.ProgramID, src.record.ID)
			}
		}
		inputs[idx] = src.share.Data
	}
	if len(sources) > 0 {
		var names []string
		for name := range sources {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, invalid("unknown inputs %v", names)
	}

	return &store.Job{
		ID:             id,
		Program:        req.ProgramID,
		Invoker:        invoker,
		InputBindings:  inputBindings,
		OutputBindings: outputBindings,
		InputShares:    inputs,
		Created:        n.now(),
	}, nil
}

// checkBindings checks that every party with inputs has an input
// binding, every party with outputs has an output binding, and the
// bindings name only program parties.
func checkBindings(circ *circuit.Circuit, inputs map[string]vm.UserID,
	outputs map[string][]vm.UserID) error {

	for party := range inputs {
		if _, ok := circ.PartyIndex(party); !ok {
			return invalid("input binding for unknown party %s", party)
		}
	}
	for party := range outputs {
		if _, ok := circ.PartyIndex(party); !ok {
			return invalid("output binding for unknown party %s", party)
		}
	}
	for _, arg := range circ.Inputs {
		party := circ.Parties[arg.Party]
		if _, ok := inputs[party]; !ok {
			return invalid("input party %s not bound", party)
		}
	}
	for _, arg := range circ.Outputs {
		party := circ.Parties[arg.Party]
		if _, ok := outputs[party]; !ok {
			return invalid("output party %s not bound", party)
		}
	}
	return nil
}
