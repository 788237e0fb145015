//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package programs

import (
	"math/big"
	"testing"

	"github.com/markkurossi/mpcnet/compiler"
)

func TestNames(t *testing.T) {
	names := Names()
	if len(names) < 2 {
		t.Fatalf("unexpected programs: %v", names)
	}
	if names[0] != "millionaire_problem" || names[1] != "richest_of_three" {
		t.Errorf("unexpected program names: %v", names)
	}
	if _, err := Lookup("unknown"); err == nil {
		t.Errorf("Lookup succeeded for unknown program")
	}
}

func TestMillionaire(t *testing.T) {
	p, err := Lookup("millionaire_problem")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	circ, err := compiler.Compile(p, nil)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	outputs, err := circ.Compute([]*big.Int{
		big.NewInt(1000000), big.NewInt(800000),
	})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	for idx, out := range outputs {
		if out.Int64() != 1 {
			t.Errorf("output %d: got %v, expected 1", idx, out)
		}
	}
}

func TestRichestOfThree(t *testing.T) {
	p, err := Lookup("richest_of_three")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	circ, err := compiler.Compile(p, nil)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if len(circ.Outputs) != 9 {
		t.Fatalf("unexpected outputs: %v", circ.Outputs)
	}

	tests := []struct {
		wealth  []int64
		richest []int64
	}{
		{[]int64{10, 20, 30}, []int64{0, 0, 1}},
		{[]int64{30, 20, 10}, []int64{1, 0, 0}},
		{[]int64{30, 30, 10}, []int64{1, 1, 0}},
	}
	for _, test := range tests {
		var inputs []*big.Int
		for _, w := range test.wealth {
			inputs = append(inputs, big.NewInt(w))
		}
		outputs, err := circ.Compute(inputs)
		if err != nil {
			t.Fatalf("Compute failed: %v", err)
		}
		for idx, out := range outputs {
			expected := test.richest[idx/3]
			if out.Int64() != expected {
				t.Errorf("%v: output %s@%d: got %v, expected %v",
					test.wealth, circ.Outputs[idx].Name,
					circ.Outputs[idx].Party, out, expected)
			}
		}
	}
}
