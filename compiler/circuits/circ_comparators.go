//
// Copyright (c) 2020-2026 Markku Rossi
//
// All rights reserved.
//

package circuits

import (
	"fmt"

	"github.com/markkurossi/mpcnet/circuit"
)

// comparator tests if x>y if cin=0, and x>=y if cin=1.
func comparator(cc *Compiler, cin *Wire, x, y, r []*Wire) error {
	x, y = cc.ZeroPad(x, y)
	if len(r) != 1 {
		return fmt.Errorf("invalid comparator arguments: r=%d", len(r))
	}
	if len(x) == 0 {
		cc.ID(cin, r[0])
		return nil
	}

	for i := 0; i < len(x); i++ {
		w1 := NewWire()
		cc.AddGate(NewBinary(circuit.XNOR, cin, y[i], w1))
		w2 := NewWire()
		cc.AddGate(NewBinary(circuit.XOR, cin, x[i], w2))
		w3 := NewWire()
		cc.AddGate(NewBinary(circuit.AND, w1, w2, w3))

		var cout *Wire
		if i+1 < len(x) {
			cout = NewWire()
		} else {
			cout = r[0]
		}
		cc.AddGate(NewBinary(circuit.XOR, cin, w3, cout))
		cin = cout
	}
	return nil
}

// NewGtComparator tests if x>y.
func NewGtComparator(cc *Compiler, x, y, r []*Wire) error {
	return comparator(cc, cc.ZeroWire(), x, y, r)
}

// NewGeComparator tests if x>=y.
func NewGeComparator(cc *Compiler, x, y, r []*Wire) error {
	return comparator(cc, cc.OneWire(), x, y, r)
}

// NewLtComparator tests if x<y.
func NewLtComparator(cc *Compiler, x, y, r []*Wire) error {
	return comparator(cc, cc.ZeroWire(), y, x, r)
}

// NewLeComparator tests if x<=y.
func NewLeComparator(cc *Compiler, x, y, r []*Wire) error {
	return comparator(cc, cc.OneWire(), y, x, r)
}

// NewNeqComparator tests if x!=y. The bit differences are combined
// with a balanced OR tree.
func NewNeqComparator(cc *Compiler, x, y, r []*Wire) error {
	x, y = cc.ZeroPad(x, y)
	if len(r) != 1 {
		return fmt.Errorf("invalid neq comparator arguments: r=%d", len(r))
	}
	if len(x) == 0 {
		cc.ID(cc.ZeroWire(), r[0])
		return nil
	}
	if len(x) == 1 {
		cc.AddGate(NewBinary(circuit.XOR, x[0], y[0], r[0]))
		return nil
	}

	var diff []*Wire
	for i := 0; i < len(x); i++ {
		xor := NewWire()
		cc.AddGate(NewBinary(circuit.XOR, x[i], y[i], xor))
		diff = append(diff, xor)
	}
	for len(diff) > 1 {
		var next []*Wire
		for i := 0; i+1 < len(diff); i += 2 {
			var out *Wire
			if len(diff) == 2 {
				out = r[0]
			} else {
				out = NewWire()
			}
			cc.AddGate(NewBinary(circuit.OR, diff[i], diff[i+1], out))
			next = append(next, out)
		}
		if len(diff)%2 == 1 {
			next = append(next, diff[len(diff)-1])
		}
		diff = next
	}
	return nil
}

// NewEqComparator tests if x==y.
func NewEqComparator(cc *Compiler, x, y, r []*Wire) error {
	if len(r) != 1 {
		return fmt.Errorf("invalid eq comparator arguments: r=%d", len(r))
	}

	// w = x != y
	w := NewWire()
	err := NewNeqComparator(cc, x, y, []*Wire{w})
	if err != nil {
		return err
	}
	// r = !w
	cc.INV(w, r[0])
	return nil
}

// NewLogicalAND implements logical AND implementing r=x&y. The input
// and output wires must be 1 bit wide.
func NewLogicalAND(cc *Compiler, x, y, r []*Wire) error {
	if len(x) != 1 || len(y) != 1 || len(r) != 1 {
		return fmt.Errorf("invalid logical and arguments: x=%d, y=%d, r=%d",
			len(x), len(y), len(r))
	}
	cc.AddGate(NewBinary(circuit.AND, x[0], y[0], r[0]))
	return nil
}

// NewLogicalOR implements logical OR implementing r=x|y.  The input
// and output wires must be 1 bit wide.
func NewLogicalOR(cc *Compiler, x, y, r []*Wire) error {
	if len(x) != 1 || len(y) != 1 || len(r) != 1 {
		return fmt.Errorf("invalid logical or arguments: x=%d, y=%d, r=%d",
			len(x), len(y), len(r))
	}
	cc.AddGate(NewBinary(circuit.OR, x[0], y[0], r[0]))
	return nil
}

// NewLogicalNOT implements logical negation r=!x. The input and
// output wires must be 1 bit wide.
func NewLogicalNOT(cc *Compiler, x, r []*Wire) error {
	if len(x) != 1 || len(r) != 1 {
		return fmt.Errorf("invalid logical not arguments: x=%d, r=%d",
			len(x), len(r))
	}
	cc.INV(x[0], r[0])
	return nil
}
