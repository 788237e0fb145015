//
// circuits_test.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package circuits

import (
	"fmt"
	"math/big"
	"os"
	"testing"

	"github.com/markkurossi/mpcnet/circuit"
	"github.com/markkurossi/mpcnet/compiler/utils"
	"github.com/markkurossi/mpcnet/types"
)

const (
	verbose = false
)

type builder func(cc *Compiler, x, y, r []*Wire) error

func newIO(t types.Type, bits int, parties ...int) circuit.IO {
	var result circuit.IO
	for idx, party := range parties {
		result = append(result, circuit.IOArg{
			Name:  fmt.Sprintf("a%d", idx),
			Party: party,
			Type: types.Info{
				Type: t,
				Bits: types.Size(bits),
			},
		})
	}
	return result
}

// compile creates a circuit with two bits wide unsigned inputs and
// one rbits wide output computed by the builder b.
func compile(t *testing.T, bits, rbits int, b builder) *circuit.Circuit {
	inputs := newIO(types.TSecretUnsignedInteger, bits, 0, 1)
	rtype := types.TSecretUnsignedInteger
	if rbits == 1 {
		rtype = types.TSecretBoolean
	}
	outputs := newIO(rtype, rbits, 0)

	inputWires := MakeWires(types.Size(bits * 2))
	outputWires := MakeWires(types.Size(rbits))

	cc, err := NewCompiler(utils.NewParams(), inputs, outputs, inputWires,
		outputWires)
	if err != nil {
		t.Fatalf("NewCompiler: %s", err)
	}
	err = b(cc, inputWires[:bits], inputWires[bits:], outputWires)
	if err != nil {
		t.Fatalf("builder failed: %s", err)
	}
	cc.ConstPropagate()
	cc.Prune()

	result, err := cc.Compile()
	if err != nil {
		t.Fatalf("Compile: %s", err)
	}
	result.Parties = []string{"A", "B"}
	if err := result.Validate(); err != nil {
		t.Fatalf("Validate: %s", err)
	}
	if verbose {
		fmt.Printf("Result: %s\n", result)
		result.Marshal(os.Stdout)
	}
	return result
}

func exhaustive(t *testing.T, name string, bits, rbits int, b builder,
	f func(x, y int64) int64) {

	circ := compile(t, bits, rbits, b)
	mask := int64(1)<<rbits - 1
	for x := int64(0); x < 1<<bits; x++ {
		for y := int64(0); y < 1<<bits; y++ {
			result, err := circ.Compute([]*big.Int{
				big.NewInt(x), big.NewInt(y),
			})
			if err != nil {
				t.Fatalf("%s: Compute failed: %s", name, err)
			}
			expected := f(x, y) & mask
			if result[0].Int64() != expected {
				t.Fatalf("%s(%d, %d)=%v, expected %v",
					name, x, y, result[0], expected)
			}
		}
	}
}

func boolValue(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

func TestAdder(t *testing.T) {
	exhaustive(t, "add", 4, 4, NewAdder, func(x, y int64) int64 {
		return x + y
	})
	exhaustive(t, "add-carry", 4, 5, NewAdder, func(x, y int64) int64 {
		return x + y
	})
	exhaustive(t, "add1", 1, 2, NewAdder, func(x, y int64) int64 {
		return x + y
	})
}

func TestSubtractor(t *testing.T) {
	exhaustive(t, "sub", 4, 4, NewSubtractor, func(x, y int64) int64 {
		return x - y
	})
}

func TestMultiplier(t *testing.T) {
	exhaustive(t, "mul", 4, 4, NewMultiplier, func(x, y int64) int64 {
		return x * y
	})
	exhaustive(t, "mul-wide", 3, 6, NewMultiplier, func(x, y int64) int64 {
		return x * y
	})
}

func TestComparators(t *testing.T) {
	exhaustive(t, "gt", 4, 1, NewGtComparator, func(x, y int64) int64 {
		return boolValue(x > y)
	})
	exhaustive(t, "ge", 4, 1, NewGeComparator, func(x, y int64) int64 {
		return boolValue(x >= y)
	})
	exhaustive(t, "lt", 4, 1, NewLtComparator, func(x, y int64) int64 {
		return boolValue(x < y)
	})
	exhaustive(t, "le", 4, 1, NewLeComparator, func(x, y int64) int64 {
		return boolValue(x <= y)
	})
	exhaustive(t, "eq", 4, 1, NewEqComparator, func(x, y int64) int64 {
		return boolValue(x == y)
	})
	exhaustive(t, "neq", 3, 1, NewNeqComparator, func(x, y int64) int64 {
		return boolValue(x != y)
	})
}

func TestMUX(t *testing.T) {
	// The lowest bit of x selects between y and zero.
	mux := func(cc *Compiler, x, y, r []*Wire) error {
		return NewMUX(cc, x[0:1], y, cc.ConstWires(nil, len(y)), r)
	}
	exhaustive(t, "mux", 3, 3, mux, func(x, y int64) int64 {
		if x&1 == 1 {
			return y
		}
		return 0
	})
}

func TestConstPropagate(t *testing.T) {
	// x+0 must not need any AND gates.
	addZero := func(cc *Compiler, x, y, r []*Wire) error {
		return NewAdder(cc, x, cc.ConstWires(nil, len(x)), r)
	}
	circ := compile(t, 8, 8, addZero)
	if circ.NumNonlinear() != 0 {
		t.Errorf("x+0: unexpected nonlinear gates: %v", circ.Stats)
	}
	exhaustive(t, "add0", 4, 4, addZero, func(x, y int64) int64 {
		return x
	})

	// x*1 is x.
	mulOne := func(cc *Compiler, x, y, r []*Wire) error {
		return NewMultiplier(cc, x, cc.ConstWires([]byte{1}, len(x)), r)
	}
	exhaustive(t, "mul1", 4, 4, mulOne, func(x, y int64) int64 {
		return x
	})
}

func TestPrune(t *testing.T) {
	// Gt only depends on the comparator: the unused adder is pruned.
	unused := func(cc *Compiler, x, y, r []*Wire) error {
		err := NewAdder(cc, x, y, MakeWires(types.Size(len(x))))
		if err != nil {
			return err
		}
		return NewGtComparator(cc, x, y, r)
	}
	circ := compile(t, 8, 1, unused)
	if circ.Stats[circuit.AND] != 8 {
		t.Errorf("unexpected AND gates: %v", circ.Stats)
	}
}

func TestInvalidArguments(t *testing.T) {
	inputs := newIO(types.TSecretUnsignedInteger, 4, 0)
	outputs := newIO(types.TSecretBoolean, 1, 0)

	_, err := NewCompiler(nil, inputs, outputs, nil, MakeWires(1))
	if err == nil {
		t.Fatalf("NewCompiler accepted circuit without input wires")
	}
	cc, err := NewCompiler(nil, inputs, outputs, MakeWires(4), MakeWires(1))
	if err != nil {
		t.Fatalf("NewCompiler: %s", err)
	}
	x := cc.InputWires
	if err := NewGtComparator(cc, x, x, MakeWires(2)); err == nil {
		t.Errorf("comparator accepted 2-bit result")
	}
	if err := NewLogicalAND(cc, x, x, MakeWires(1)); err == nil {
		t.Errorf("logical and accepted 4-bit operands")
	}
	if err := NewMUX(cc, x, x, x, MakeWires(4)); err == nil {
		t.Errorf("mux accepted 4-bit condition")
	}
	if _, err := cc.Compile(); err == nil {
		t.Errorf("Compile accepted unconnected output wire")
	}
}
