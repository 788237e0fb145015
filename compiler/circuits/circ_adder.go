//
// circ_adder.go
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

// NewHalfAdder creates a half adder circuit. The carry output c is
// optional.
func NewHalfAdder(compiler *Compiler, a, b, s, c *Wire) {
	// S = XOR(A, B)
	compiler.AddGate(NewBinary(circuit.XOR, a, b, s))

	if c != nil {
		// C = AND(A, B)
		compiler.AddGate(NewBinary(circuit.AND, a, b, c))
	}
}

// NewFullAdder creates a full adder circuit. The carry output cout is
// optional.
func NewFullAdder(compiler *Compiler, a, b, cin, s, cout *Wire) {
	// s = a XOR b XOR cin
	// cout = cin XOR ((a XOR cin) AND (b XOR cin)).

	// w1 = XOR(b, cin)
	w1 := NewWire()
	compiler.AddGate(NewBinary(circuit.XOR, b, cin, w1))

	// s = XOR(a, w1)
	compiler.AddGate(NewBinary(circuit.XOR, a, w1, s))

	if cout != nil {
		// w2 = XOR(a, cin)
		w2 := NewWire()
		compiler.AddGate(NewBinary(circuit.XOR, a, cin, w2))

		// w3 = AND(w1, w2)
		w3 := NewWire()
		compiler.AddGate(NewBinary(circuit.AND, w1, w2, w3))

		// cout = XOR(cin, w3)
		compiler.AddGate(NewBinary(circuit.XOR, cin, w3, cout))
	}
}

// NewAdder creates an adder circuit implementing z=x+y. If z is
// shorter than x+1 bits, the result is truncated to len(z) bits.
func NewAdder(compiler *Compiler, x, y, z []*Wire) error {
	x, y = compiler.ZeroPad(x, y)
	if len(z) == 0 {
		return fmt.Errorf("invalid adder arguments: x=%d, y=%d, z=%d",
			len(x), len(y), len(z))
	}
	if len(x) > len(z) {
		x = x[0:len(z)]
		y = y[0:len(z)]
	}

	var cin *Wire
	for i := 0; i < len(x); i++ {
		var cout *Wire
		if i+1 < len(x) {
			cout = NewWire()
		} else if i+1 < len(z) {
			cout = z[i+1]
		}
		if i == 0 {
			NewHalfAdder(compiler, x[i], y[i], z[i], cout)
		} else {
			NewFullAdder(compiler, x[i], y[i], cin, z[i], cout)
		}
		cin = cout
	}

	// Set all leftover bits to zero.
	for i := len(x) + 1; i < len(z); i++ {
		compiler.ID(compiler.ZeroWire(), z[i])
	}

	return nil
}
