//
// circ_multiplier.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package circuits

import (
	"fmt"

	"github.com/markkurossi/mpcnet/circuit"
	"github.com/markkurossi/mpcnet/types"
)

// NewMultiplier creates a multiplier circuit implementing z=x*y
// modulo 2^len(z). The partial products are accumulated row by row
// and only the bits below len(z) are computed.
func NewMultiplier(compiler *Compiler, x, y, z []*Wire) error {
	x, y = compiler.ZeroPad(x, y)
	if len(z) == 0 || len(x) == 0 {
		return fmt.Errorf("invalid multiplier arguments: x=%d, y=%d, z=%d",
			len(x), len(y), len(z))
	}
	bits := len(z)

	// Row y0.
	acc := make([]*Wire, bits)
	for i := 0; i < bits; i++ {
		if i < len(x) {
			acc[i] = NewWire()
			compiler.AddGate(NewBinary(circuit.AND, x[i], y[0], acc[i]))
		} else {
			acc[i] = compiler.ZeroWire()
		}
	}

	// Rows y1...yn-1 shifted left by their index.
	for j := 1; j < len(y) && j < bits; j++ {
		var ands []*Wire
		for i := j; i < bits; i++ {
			if i-j < len(x) {
				w := NewWire()
				compiler.AddGate(NewBinary(circuit.AND, x[i-j], y[j], w))
				ands = append(ands, w)
			} else {
				ands = append(ands, compiler.ZeroWire())
			}
		}
		sums := MakeWires(types.Size(bits - j))
		err := NewAdder(compiler, acc[j:], ands, sums)
		if err != nil {
			return err
		}
		copy(acc[j:], sums)
	}

	for i := 0; i < bits; i++ {
		compiler.ID(acc[i], z[i])
	}
	return nil
}
