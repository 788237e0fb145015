//
// Copyright (c) 2020-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"fmt"
	"math/big"

	"github.com/markkurossi/mpcnet/types"
)

// Compute evaluates the circuit in plaintext with the argument input
// values. The inputs are given in the circuit input order. The
// function returns the output values in the circuit output order.
func (c *Circuit) Compute(inputs []*big.Int) ([]*big.Int, error) {
	if len(inputs) != len(c.Inputs) {
		return nil, fmt.Errorf("invalid inputs: got %d, expected %d",
			len(inputs), len(c.Inputs))
	}

	wires := make([]byte, c.NumWires)

	var w int
	for idx, arg := range c.Inputs {
		data, err := types.Encode(arg.Type, inputs[idx])
		if err != nil {
			return nil, fmt.Errorf("input %s: %v", arg.Name, err)
		}
		for bit := 0; bit < int(arg.Type.Bits); bit++ {
			wires[w] = (data[bit/8] >> (bit % 8)) & 1
			w++
		}
	}

	for _, gate := range c.Gates {
		var result byte

		switch gate.Op {
		case XOR:
			result = wires[gate.Input0] ^ wires[gate.Input1]

		case XNOR:
			result = wires[gate.Input0] ^ wires[gate.Input1] ^ 1

		case AND:
			result = wires[gate.Input0] & wires[gate.Input1]

		case OR:
			result = wires[gate.Input0] | wires[gate.Input1]

		case INV:
			result = wires[gate.Input0] ^ 1

		default:
			return nil, fmt.Errorf("invalid gate %s", gate.Op)
		}
		wires[gate.Output] = result
	}

	return c.OutputValues(wires[c.NumWires-c.Outputs.Size():])
}

// OutputValues decodes output values from the output wire bits. The
// argument bits holds one bit per byte.
func (c *Circuit) OutputValues(bits []byte) ([]*big.Int, error) {
	if len(bits) != c.Outputs.Size() {
		return nil, fmt.Errorf("invalid output bits: got %d, expected %d",
			len(bits), c.Outputs.Size())
	}
	var result []*big.Int
	var w int
	for _, arg := range c.Outputs {
		data := make([]byte, arg.Type.Bytes())
		for bit := 0; bit < int(arg.Type.Bits); bit++ {
			data[bit/8] |= (bits[w] & 1) << (bit % 8)
			w++
		}
		result = append(result, types.Decode(arg.Type, data))
	}
	return result, nil
}
