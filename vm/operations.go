//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package vm

import (
	"github.com/cockroachdb/errors"
)

// MaxTTLDays is the maximum lifetime of stored values in days.
const MaxTTLDays = 100 * 365

// Operation names a paid network operation.
type Operation string

// Network operations.
const (
	OpStoreProgram      Operation = "store_program"
	OpStoreValues       Operation = "store_values"
	OpRetrieveValues    Operation = "retrieve_values"
	OpUpdatePermissions Operation = "update_permissions"
	OpDeleteValues      Operation = "delete_values"
	OpCompute           Operation = "compute"
	OpRetrieveResults   Operation = "retrieve_results"
)

// Operations lists all paid operations.
var Operations = []Operation{
	OpStoreProgram,
	OpStoreValues,
	OpRetrieveValues,
	OpUpdatePermissions,
	OpDeleteValues,
	OpCompute,
	OpRetrieveResults,
}

// Valid tests if the operation is known.
func (op Operation) Valid() bool {
	for _, o := range Operations {
		if o == op {
			return true
		}
	}
	return false
}

// StoreProgramUnits returns the price units for storing a compiled
// program of size bytes.
func StoreProgramUnits(size int) uint64 {
	units := uint64((size + 1023) / 1024)
	if units == 0 {
		units = 1
	}
	return units
}

// CheckTTL checks that ttlDays is a valid value lifetime.
func CheckTTL(ttlDays int) error {
	if ttlDays <= 0 || ttlDays > MaxTTLDays {
		return errors.Wrapf(ErrInvalidValue, "ttl %d days not in [1...%d]",
			ttlDays, MaxTTLDays)
	}
	return nil
}

// StoreValuesUnits returns the price units for storing count values
// for ttlDays days.
func StoreValuesUnits(count, ttlDays int) uint64 {
	units := uint64(count) * uint64(ttlDays)
	if units == 0 {
		units = 1
	}
	return units
}

// ComputeUnits returns the price units for a computation with the
// argument number of nonlinear gates.
func ComputeUnits(nonlinear int) uint64 {
	return 1 + uint64(nonlinear)/64
}
