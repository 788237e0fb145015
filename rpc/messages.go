//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package rpc

import (
	"github.com/markkurossi/mpcnet/chain"
	"github.com/markkurossi/mpcnet/circuit"
	"github.com/markkurossi/mpcnet/keys"
	"github.com/markkurossi/mpcnet/vm"
)

// StoreProgramRequest stores a compiled program.
type StoreProgramRequest struct {
	Name    string         `json:"name"`
	Program []byte         `json:"program"`
	Receipt *chain.Receipt `json:"receipt"`
}

// StoreProgramResponse returns the ID of the stored program.
type StoreProgramResponse struct {
	ProgramID vm.ProgramID `json:"program_id"`
}

// StoreValuesRequest stores this node's shares of secret values. The
// client selects the value ID so that all nodes store the shares
// under the same ID.
type StoreValuesRequest struct {
	ValueID     vm.ValueID      `json:"value_id"`
	Shares      vm.NamedShares  `json:"shares"`
	TTLDays     int             `json:"ttl_days"`
	Permissions *vm.Permissions `json:"permissions"`
	Receipt     *chain.Receipt  `json:"receipt"`
}

// StoreValuesResponse returns the ID of the stored values.
type StoreValuesResponse struct {
	ValueID vm.ValueID `json:"value_id"`
}

// ValueRequest identifies a stored value record. It is used for
// RetrieveValues and DeleteValues.
type ValueRequest struct {
	ValueID vm.ValueID     `json:"value_id"`
	Receipt *chain.Receipt `json:"receipt"`
}

// RetrieveValuesResponse returns this node's shares of the values.
type RetrieveValuesResponse struct {
	Shares vm.NamedShares `json:"shares"`
}

// UpdatePermissionsRequest replaces the permissions of stored values.
type UpdatePermissionsRequest struct {
	ValueID     vm.ValueID      `json:"value_id"`
	Permissions *vm.Permissions `json:"permissions"`
	Receipt     *chain.Receipt  `json:"receipt"`
}

// Empty is an empty response.
type Empty struct{}

// ComputeRequest starts a computation. The inputs come from the
// stored values ValueIDs and from the compute-time value shares
// Shares.
type ComputeRequest struct {
	ComputeID      vm.ComputeID            `json:"compute_id"`
	ProgramID      vm.ProgramID            `json:"program_id"`
	InputBindings  []vm.InputPartyBinding  `json:"input_bindings"`
	OutputBindings []vm.OutputPartyBinding `json:"output_bindings"`
	Shares         vm.NamedShares          `json:"shares,omitempty"`
	ValueIDs       []vm.ValueID            `json:"value_ids,omitempty"`
	Receipt        *chain.Receipt          `json:"receipt"`
}

// ComputeResponse returns the ID of the started computation.
type ComputeResponse struct {
	ComputeID vm.ComputeID `json:"compute_id"`
}

// RetrieveResultsRequest retrieves computation results.
type RetrieveResultsRequest struct {
	ComputeID vm.ComputeID   `json:"compute_id"`
	Receipt   *chain.Receipt `json:"receipt"`
}

// OutputShare holds this node's share of a program output.
type OutputShare struct {
	Name  string   `json:"name"`
	Party string   `json:"party"`
	Share vm.Share `json:"share"`
}

// RetrieveResultsResponse returns the requester's output shares.
type RetrieveResultsResponse struct {
	Results []OutputShare `json:"results"`
}

// InfoRequest queries node information. If ProgramID is set, the
// response contains information about the program.
type InfoRequest struct {
	ProgramID vm.ProgramID `json:"program_id,omitempty"`
}

// ProgramInfo describes a stored program.
type ProgramInfo struct {
	Name      string        `json:"name"`
	Parties   []string      `json:"parties"`
	Inputs    circuit.IO    `json:"inputs"`
	Outputs   circuit.IO    `json:"outputs"`
	NumGates  int           `json:"num_gates"`
	NumWires  int           `json:"num_wires"`
	Stats     circuit.Stats `json:"stats"`
	Nonlinear int           `json:"nonlinear"`
	Depth     int           `json:"depth"`
}

// NewProgramInfo creates program information from the circuit.
func NewProgramInfo(circ *circuit.Circuit) *ProgramInfo {
	return &ProgramInfo{
		Name:      circ.Name,
		Parties:   circ.Parties,
		Inputs:    circ.Inputs,
		Outputs:   circ.Outputs,
		NumGates:  circ.NumGates,
		NumWires:  circ.NumWires,
		Stats:     circ.Stats,
		Nonlinear: circ.NumNonlinear(),
		Depth:     circ.Depth(),
	}
}

// InfoResponse returns node information.
type InfoResponse struct {
	ID             int                 `json:"id"`
	Nodes          int                 `json:"nodes"`
	ChainPublicKey keys.ChainPublicKey `json:"chain_public_key"`
	Program        *ProgramInfo        `json:"program,omitempty"`
}

// BalanceRequest queries a user balance.
type BalanceRequest struct {
	User vm.UserID `json:"user"`
}

// BalanceResponse returns a user balance.
type BalanceResponse struct {
	Balance uint64 `json:"balance"`
}

// QuoteRequest queries an operation price.
type QuoteRequest struct {
	Op    vm.Operation `json:"op"`
	Units uint64       `json:"units"`
}

// QuoteResponse returns an operation price.
type QuoteResponse struct {
	Amount uint64 `json:"amount"`
}
