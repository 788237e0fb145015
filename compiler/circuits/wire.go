//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package circuits

import (
	"fmt"
	"math"

	"github.com/markkurossi/mpcnet/types"
)

const (
	// UnassignedID identifies an unassigned wire ID.
	UnassignedID uint32 = math.MaxUint32
)

// Wire implements a wire connecting binary gates.
type Wire struct {
	Output  bool
	Value   WireValue
	ID      uint32
	Input   *Gate
	Outputs []*Gate
}

// WireValue defines wire values.
type WireValue uint8

// Possible wire values.
const (
	Unknown WireValue = iota
	Zero
	One
)

func (v WireValue) String() string {
	switch v {
	case Zero:
		return "0"
	case One:
		return "1"
	default:
		return "?"
	}
}

// NewWire creates an unassigned wire.
func NewWire() *Wire {
	return &Wire{
		ID:      UnassignedID,
		Outputs: make([]*Gate, 0, 1),
	}
}

// MakeWires creates bits number of wires.
func MakeWires(bits types.Size) []*Wire {
	result := make([]*Wire, bits)
	for i := 0; i < int(bits); i++ {
		result[i] = NewWire()
	}
	return result
}

func (w *Wire) String() string {
	return fmt.Sprintf("Wire{%x, Input:%s, Value:%s, Outputs:%d, Output=%v}",
		w.ID, w.Input, w.Value, len(w.Outputs), w.Output)
}

// Assigned tests if the wire is assigned with an unique ID.
func (w *Wire) Assigned() bool {
	return w.ID != UnassignedID
}

// IsInput tests if the wire is an input wire.
func (w *Wire) IsInput() bool {
	return w.Input == nil
}

// NumOutputs returns the number of gates reading the wire.
func (w *Wire) NumOutputs() int {
	return len(w.Outputs)
}

// Assign assigns wire ID and visits the wire's output gates.
func (w *Wire) Assign(c *Compiler) {
	if w.Output {
		return
	}
	if !w.Assigned() {
		w.ID = c.NextWireID()
	}
	for _, output := range w.Outputs {
		output.Visit(c)
	}
}

// SetInput sets the wire's input gate.
func (w *Wire) SetInput(gate *Gate) {
	if w.Input != nil {
		panic("Input gate already set")
	}
	w.Input = gate
}

// AddOutput adds gate to the wire's output gates.
func (w *Wire) AddOutput(gate *Gate) {
	w.Outputs = append(w.Outputs, gate)
}

// RemoveOutput removes gate from the wire's output gates.
func (w *Wire) RemoveOutput(gate *Gate) {
	for i, g := range w.Outputs {
		if g == gate {
			w.Outputs = append(w.Outputs[:i], w.Outputs[i+1:]...)
			return
		}
	}
}
