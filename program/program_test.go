//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package program

import (
	"strings"
	"testing"

	"github.com/markkurossi/mpcnet/types"
)

func millionaire() *Program {
	p := New("millionaire_problem")
	alice := p.Party("Alice")
	bob := p.Party("Bob")
	a := p.SecretInteger("alice_wealth", alice)
	b := p.SecretInteger("bob_wealth", bob)
	result := a.Gt(b)
	p.Output(result, "comparison_result", alice)
	p.Output(result, "comparison_result", bob)
	return p
}

func TestMillionaire(t *testing.T) {
	p := millionaire()
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(p.Parties()) != 2 {
		t.Fatalf("unexpected parties: %v", p.Parties())
	}
	if len(p.Inputs()) != 2 {
		t.Fatalf("unexpected inputs: %v", p.Inputs())
	}
	if p.Inputs()[1].Party.Name != "Bob" || p.Inputs()[1].Party.Index != 1 {
		t.Fatalf("unexpected input party: %v", p.Inputs()[1].Party)
	}
	outputs := p.Outputs()
	if len(outputs) != 2 {
		t.Fatalf("unexpected outputs: %v", outputs)
	}
	if outputs[0].Value != outputs[1].Value {
		t.Fatalf("outputs do not share value")
	}
	if !outputs[0].Value.Type.Equal(types.SecretBoolean) {
		t.Fatalf("unexpected result type %v", outputs[0].Value.Type)
	}
	if outputs[0].Value.String() != "(alice_wealth > bob_wealth)" {
		t.Fatalf("unexpected expression: %v", outputs[0].Value)
	}
	if !strings.Contains(p.String(), "output comparison_result@Bob") {
		t.Fatalf("unexpected program string:\n%v", p)
	}
}

func TestLiterals(t *testing.T) {
	p := New("literals")
	alice := p.Party("Alice")
	a := p.SecretUnsignedInteger("a", alice)

	v := a.Add(p.Integer(5))
	if err := p.Err(); err != nil {
		t.Fatalf("literal did not adapt: %v", err)
	}
	if !v.Type.Equal(types.SecretUnsignedInteger) {
		t.Fatalf("unexpected type %v", v.Type)
	}
	if !v.Args[1].Type.Equal(types.UnsignedInteger) {
		t.Fatalf("literal not converted: %v", v.Args[1].Type)
	}

	// Negative literals do not fit unsigned values.
	a.Add(p.Integer(-1))
	if p.Err() == nil {
		t.Fatalf("negative literal accepted for unsigned operand")
	}
}

func TestPublicExpression(t *testing.T) {
	p := New("public")
	alice := p.Party("Alice")
	v := p.Integer(1).Add(p.Integer(2))
	if v.Secret() {
		t.Fatalf("public expression is secret")
	}
	cond := p.SecretBoolean("c", alice)
	r := cond.IfElse(v, p.Integer(0))
	if !r.Type.Equal(types.SecretInteger) {
		t.Fatalf("unexpected IfElse type %v", r.Type)
	}
	p.Output(v, "public", alice)
	if p.Err() == nil {
		t.Fatalf("public output accepted")
	}
}

var errorTests = []struct {
	name   string
	define func(p *Program)
	msg    string
}{
	{
		name: "duplicate party",
		define: func(p *Program) {
			p.Party("Alice")
			p.Party("Alice")
		},
		msg: "party Alice defined multiple times",
	},
	{
		name: "duplicate input",
		define: func(p *Program) {
			alice := p.Party("Alice")
			p.SecretInteger("a", alice)
			p.SecretInteger("a", alice)
		},
		msg: "input a defined multiple times",
	},
	{
		name: "foreign party",
		define: func(p *Program) {
			other := New("other").Party("Mallory")
			p.SecretInteger("a", other)
		},
		msg: "not defined in program",
	},
	{
		name: "signed and unsigned",
		define: func(p *Program) {
			alice := p.Party("Alice")
			a := p.SecretInteger("a", alice)
			b := p.SecretUnsignedInteger("b", alice)
			a.Add(b)
		},
		msg: "operand type mismatch",
	},
	{
		name: "boolean arithmetic",
		define: func(p *Program) {
			alice := p.Party("Alice")
			a := p.SecretBoolean("a", alice)
			a.Add(p.Boolean(true))
		},
		msg: "invalid operand for +",
	},
	{
		name: "integer logic",
		define: func(p *Program) {
			alice := p.Party("Alice")
			a := p.SecretInteger("a", alice)
			a.Not()
		},
		msg: "invalid operand for !",
	},
	{
		name: "duplicate output",
		define: func(p *Program) {
			alice := p.Party("Alice")
			a := p.SecretInteger("a", alice)
			p.Output(a, "x", alice)
			p.Output(a, "x", alice)
		},
		msg: "output x to Alice defined multiple times",
	},
	{
		name: "first error wins",
		define: func(p *Program) {
			alice := p.Party("Alice")
			a := p.SecretInteger("a", alice)
			b := p.SecretBoolean("b", alice)
			a.Gt(b).And(b)
		},
		msg: "operand type mismatch",
	},
}

func TestErrors(t *testing.T) {
	for _, test := range errorTests {
		p := New("errors")
		test.define(p)
		err := p.Err()
		if err == nil {
			t.Fatalf("%s: no error", test.name)
		}
		if !strings.Contains(err.Error(), test.msg) {
			t.Errorf("%s: unexpected error: %v", test.name, err)
		}
	}
}

func TestBuild(t *testing.T) {
	p, err := Build("millionaire", DefinerFunc(func(p *Program) error {
		alice := p.Party("Alice")
		a := p.SecretInteger("a", alice)
		p.Output(a.Ge(p.Integer(10)), "rich", alice)
		return nil
	}))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if p.Name != "millionaire" {
		t.Fatalf("unexpected name: %v", p.Name)
	}

	_, err = Build("empty", DefinerFunc(func(p *Program) error {
		p.Party("Alice")
		return nil
	}))
	if err == nil {
		t.Fatalf("Build accepted program without inputs")
	}
}
