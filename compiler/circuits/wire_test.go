//
// Copyright (c) 2023-2026 Markku Rossi
//
// All rights reserved.
//

package circuits

import (
	"testing"

	"github.com/markkurossi/mpcnet/circuit"
)

func TestWire(t *testing.T) {
	w := NewWire()
	if w.ID != UnassignedID {
		t.Error("w.ID")
	}
	if w.Assigned() {
		t.Error("Assigned")
	}
	w.ID = 42
	if !w.Assigned() {
		t.Error("Assigned")
	}
	if w.Value != Unknown {
		t.Error("Value")
	}
	if !w.IsInput() {
		t.Error("IsInput")
	}

	o := NewWire()
	gate := NewBinary(circuit.AND, w, w, o)
	if w.NumOutputs() != 2 {
		t.Errorf("NumOutputs: %d", w.NumOutputs())
	}
	if o.Input != gate || o.IsInput() {
		t.Error("SetInput")
	}
	if !gate.Prune() {
		t.Error("Prune")
	}
	if w.NumOutputs() != 0 {
		t.Errorf("Prune: NumOutputs: %d", w.NumOutputs())
	}
	if gate.Prune() {
		t.Error("Prune: pruned twice")
	}
}

func TestShortCircuit(t *testing.T) {
	a := NewWire()
	b := NewWire()
	o := NewWire()
	r := NewWire()

	g := NewBinary(circuit.XOR, a, b, o)
	reader := NewINV(o, r)

	g.ShortCircuit(b)
	if reader.A != b {
		t.Fatalf("reader not moved")
	}
	if o.NumOutputs() != 0 || b.NumOutputs() != 2 {
		t.Fatalf("unexpected outputs: o=%d, b=%d",
			o.NumOutputs(), b.NumOutputs())
	}

	out := NewWire()
	out.Output = true
	g2 := NewBinary(circuit.XOR, a, b, out)
	g2.ShortCircuit(a)
	if out.Input != g2 || g2.Prune() {
		t.Fatalf("output wire short circuited")
	}
}
