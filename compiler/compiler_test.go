//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package compiler

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/markkurossi/mpcnet/circuit"
	"github.com/markkurossi/mpcnet/compiler/utils"
	"github.com/markkurossi/mpcnet/program"
)

type testCase struct {
	inputs  []int64
	outputs []int64
}

func run(t *testing.T, circ *circuit.Circuit, tests []testCase) {
	for _, test := range tests {
		var inputs []*big.Int
		for _, in := range test.inputs {
			inputs = append(inputs, big.NewInt(in))
		}
		outputs, err := circ.Compute(inputs)
		if err != nil {
			t.Fatalf("%s: Compute(%v) failed: %v", circ.Name, test.inputs, err)
		}
		if len(outputs) != len(test.outputs) {
			t.Fatalf("%s: got %d outputs, expected %d",
				circ.Name, len(outputs), len(test.outputs))
		}
		for idx, out := range outputs {
			if out.Int64() != test.outputs[idx] {
				t.Errorf("%s%v: output %d: got %v, expected %v",
					circ.Name, test.inputs, idx, out, test.outputs[idx])
			}
		}
	}
}

func TestMillionaire(t *testing.T) {
	p := program.New("millionaire_problem")
	alice := p.Party("Alice")
	bob := p.Party("Bob")
	a := p.SecretInteger("alice_wealth", alice)
	b := p.SecretInteger("bob_wealth", bob)
	result := a.Gt(b)
	p.Output(result, "comparison_result", alice)
	p.Output(result, "comparison_result", bob)

	circ, err := Compile(p, nil)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if circ.Name != "millionaire_problem" {
		t.Errorf("unexpected name: %v", circ.Name)
	}
	if len(circ.Parties) != 2 || circ.Parties[1] != "Bob" {
		t.Errorf("unexpected parties: %v", circ.Parties)
	}
	if len(circ.Outputs) != 2 || circ.Outputs[1].Party != 1 {
		t.Errorf("unexpected outputs: %v", circ.Outputs)
	}
	if circ.Stats[circuit.AND] != 64 {
		t.Errorf("unexpected AND gates: %v", circ.Stats)
	}
	run(t, circ, []testCase{
		{[]int64{1000000, 800000}, []int64{1, 1}},
		{[]int64{800000, 1000000}, []int64{0, 0}},
		{[]int64{1000000, 1000000}, []int64{0, 0}},
		{[]int64{-5, -6}, []int64{1, 1}},
		{[]int64{-5, 3}, []int64{0, 0}},
		{[]int64{3, -5}, []int64{1, 1}},
	})

	var buf bytes.Buffer
	if err := circ.Marshal(&buf); err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	parsed, err := circuit.Parse(&buf)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	run(t, parsed, []testCase{
		{[]int64{1000000, 800000}, []int64{1, 1}},
	})
}

func TestComparisons(t *testing.T) {
	p := program.New("comparisons")
	alice := p.Party("Alice")
	bob := p.Party("Bob")
	a := p.SecretInteger("a", alice)
	b := p.SecretInteger("b", bob)
	p.Output(a.Ge(b), "ge", alice)
	p.Output(a.Lt(b), "lt", alice)
	p.Output(a.Le(b), "le", alice)
	p.Output(a.Eq(b), "eq", alice)
	p.Output(a.Neq(b), "neq", alice)
	p.Output(a.Gt(p.Integer(0)).And(b.Gt(p.Integer(0))), "both", bob)
	p.Output(a.Gt(p.Integer(0)).Or(b.Gt(p.Integer(0))).Not(), "none", bob)

	circ, err := Compile(p, utils.NewParams())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	run(t, circ, []testCase{
		{[]int64{3, 3}, []int64{1, 0, 1, 1, 0, 1, 0}},
		{[]int64{-3, 3}, []int64{0, 1, 1, 0, 1, 0, 0}},
		{[]int64{4, -9}, []int64{1, 0, 0, 0, 1, 0, 0}},
		{[]int64{-1, -1}, []int64{1, 0, 1, 1, 0, 0, 1}},
	})
}

func TestArithmetic(t *testing.T) {
	p := program.New("arithmetic")
	alice := p.Party("Alice")
	bob := p.Party("Bob")
	a := p.SecretInteger("a", alice)
	b := p.SecretInteger("b", bob)
	p.Output(a.Add(b), "sum", alice)
	p.Output(a.Sub(b), "diff", alice)
	p.Output(a.Mul(b), "prod", alice)
	p.Output(a.Gt(b).IfElse(a, b), "max", bob)
	p.Output(a.Add(p.Integer(10)), "plus10", bob)

	circ, err := Compile(p, nil)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	run(t, circ, []testCase{
		{[]int64{7, 5}, []int64{12, 2, 35, 7, 17}},
		{[]int64{-7, 5}, []int64{-2, -12, -35, 5, 3}},
		{
			[]int64{1 << 40, 1 << 30},
			[]int64{1<<40 + 1<<30, 1<<40 - 1<<30, 0, 1 << 40, 1<<40 + 10},
		},
	})
}

func TestUnsigned(t *testing.T) {
	p := program.New("unsigned")
	alice := p.Party("Alice")
	bob := p.Party("Bob")
	a := p.SecretUnsignedInteger("a", alice)
	b := p.SecretUnsignedInteger("b", bob)
	p.Output(a.Gt(b), "gt", alice)

	circ, err := Compile(p, nil)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	inputs := []*big.Int{
		new(big.Int).Lsh(big.NewInt(1), 63),
		big.NewInt(1),
	}
	outputs, err := circ.Compute(inputs)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if outputs[0].Int64() != 1 {
		t.Errorf("2^63 > 1 failed")
	}
}

func TestBoolean(t *testing.T) {
	p := program.New("boolean")
	alice := p.Party("Alice")
	bob := p.Party("Bob")
	a := p.SecretBoolean("a", alice)
	b := p.SecretBoolean("b", bob)
	p.Output(a.Eq(b), "same", alice)
	p.Output(a.IfElse(p.Integer(100), p.Integer(-100)).Add(p.Integer(1)),
		"choice", bob)

	circ, err := Compile(p, nil)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	run(t, circ, []testCase{
		{[]int64{0, 0}, []int64{1, -99}},
		{[]int64{1, 0}, []int64{0, 101}},
		{[]int64{1, 1}, []int64{1, 101}},
	})
}

func TestErrors(t *testing.T) {
	p := program.New("errors")
	alice := p.Party("Alice")
	a := p.SecretInteger("a", alice)
	b := p.SecretBoolean("b", alice)
	p.Output(a.Add(b), "bad", alice)
	if _, err := Compile(p, nil); err == nil {
		t.Errorf("Compile accepted invalid program")
	}

	p = program.New("no-inputs")
	p.Party("Alice")
	if _, err := Compile(p, nil); err == nil {
		t.Errorf("Compile accepted program without inputs")
	}
}

func TestOutputs(t *testing.T) {
	var circOut bytes.Buffer
	params := utils.NewParams()
	params.CircOut = nopCloser{&circOut}

	p := program.New("identity")
	alice := p.Party("Alice")
	a := p.SecretInteger("a", alice)
	p.Output(a, "a", alice)

	circ, err := Compile(p, params)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if circ.NumNonlinear() != 0 {
		t.Errorf("identity has nonlinear gates: %v", circ.Stats)
	}
	if circOut.Len() == 0 {
		t.Errorf("circuit not written to CircOut")
	}
	run(t, circ, []testCase{
		{[]int64{-42}, []int64{-42}},
	})
}

type nopCloser struct {
	*bytes.Buffer
}

func (nopCloser) Close() error {
	return nil
}
