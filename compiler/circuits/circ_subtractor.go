//
// circ_subtractor.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package circuits

import (
	"fmt"

	"github.com/markkurossi/mpcnet/circuit"
)

// NewFullSubtractor creates a full subtractor circuit computing
// d=y-x-cin. The borrow output cout is optional.
func NewFullSubtractor(compiler *Compiler, x, y, cin, d, cout *Wire) {
	w1 := NewWire()
	compiler.AddGate(NewBinary(circuit.XNOR, y, cin, w1))
	compiler.AddGate(NewBinary(circuit.XNOR, x, w1, d))

	if cout != nil {
		w2 := NewWire()
		compiler.AddGate(NewBinary(circuit.XOR, x, cin, w2))

		w3 := NewWire()
		compiler.AddGate(NewBinary(circuit.AND, w1, w2, w3))

		compiler.AddGate(NewBinary(circuit.XOR, w3, cin, cout))
	}
}

// NewSubtractor creates a new subtractor circuit implementing z=x-y
// modulo 2^len(z).
func NewSubtractor(compiler *Compiler, x, y, z []*Wire) error {
	x, y = compiler.ZeroPad(x, y)
	if len(z) == 0 {
		return fmt.Errorf("invalid subtractor arguments: x=%d, y=%d, z=%d",
			len(x), len(y), len(z))
	}
	if len(x) > len(z) {
		x = x[0:len(z)]
		y = y[0:len(z)]
	}
	cin := compiler.ZeroWire()

	for i := 0; i < len(x); i++ {
		var cout *Wire
		if i+1 < len(x) {
			cout = NewWire()
		} else if i+1 < len(z) {
			cout = z[i+1]
		}

		// Note y-x here.
		NewFullSubtractor(compiler, y[i], x[i], cin, z[i], cout)

		cin = cout
	}
	for i := len(x) + 1; i < len(z); i++ {
		compiler.ID(compiler.ZeroWire(), z[i])
	}
	return nil
}
