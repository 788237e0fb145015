//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package program implements a builder for MPC programs. A program
// defines parties, their secret inputs, expressions over the inputs,
// and outputs delivered to parties.
//
//	p := program.New("millionaire_problem")
//	alice := p.Party("Alice")
//	bob := p.Party("Bob")
//	a := p.SecretInteger("alice_wealth", alice)
//	b := p.SecretInteger("bob_wealth", bob)
//	result := a.Gt(b)
//	p.Output(result, "comparison_result", alice)
//	p.Output(result, "comparison_result", bob)
package program

import (
	"fmt"

	"github.com/markkurossi/mpcnet/types"
)

// Program defines an MPC program.
type Program struct {
	Name    string
	parties []*Party
	inputs  []*Input
	outputs []*Output
	err     error
}

// Party defines a program party.
type Party struct {
	Name    string
	Index   int
	program *Program
}

func (p *Party) String() string {
	return p.Name
}

// Input defines a secret program input provided by a party.
type Input struct {
	Name  string
	Party *Party
	Type  types.Info
	Value *Value
}

// Output defines a program output delivered to a party.
type Output struct {
	Name  string
	Party *Party
	Value *Value
}

// New creates a new program.
func New(name string) *Program {
	return &Program{
		Name: name,
	}
}

// Definer defines the parties, inputs, and outputs of a program.
type Definer interface {
	Define(p *Program) error
}

// DefinerFunc implements the Definer interface for functions.
type DefinerFunc func(p *Program) error

// Define calls f(p).
func (f DefinerFunc) Define(p *Program) error {
	return f(p)
}

// Build creates a program with the definer.
func Build(name string, definer Definer) (*Program, error) {
	p := New(name)
	if err := definer.Define(p); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Err returns the first error recorded while building the program.
func (p *Program) Err() error {
	return p.err
}

func (p *Program) errorf(format string, a ...interface{}) *Value {
	if p == nil {
		return invalid
	}
	if p.err == nil {
		p.err = fmt.Errorf("%s: %s", p.Name, fmt.Sprintf(format, a...))
	}
	return &Value{
		program: p,
		Op:      OpInvalid,
		Type:    types.Undefined,
	}
}

// Validate checks that the program is complete: no builder errors
// were recorded and the program has inputs and outputs.
func (p *Program) Validate() error {
	if p.err != nil {
		return p.err
	}
	if len(p.inputs) == 0 {
		return fmt.Errorf("%s: program has no inputs", p.Name)
	}
	if len(p.outputs) == 0 {
		return fmt.Errorf("%s: program has no outputs", p.Name)
	}
	return nil
}

// Parties returns the program parties in their definition order.
func (p *Program) Parties() []*Party {
	return p.parties
}

// Inputs returns the program inputs in their definition order.
func (p *Program) Inputs() []*Input {
	return p.inputs
}

// Outputs returns the program outputs in their definition order.
func (p *Program) Outputs() []*Output {
	return p.outputs
}

// Party defines a new party for the program.
func (p *Program) Party(name string) *Party {
	party := &Party{
		Name:    name,
		Index:   len(p.parties),
		program: p,
	}
	if len(name) == 0 {
		p.errorf("party without name")
		return party
	}
	for _, o := range p.parties {
		if o.Name == name {
			p.errorf("party %s defined multiple times", name)
			return o
		}
	}
	p.parties = append(p.parties, party)
	return party
}

func (p *Program) input(name string, party *Party, t types.Info) *Value {
	if len(name) == 0 {
		return p.errorf("input without name")
	}
	if party == nil || party.program != p {
		return p.errorf("input %s: party %v not defined in program",
			name, party)
	}
	for _, in := range p.inputs {
		if in.Name == name {
			return p.errorf("input %s defined multiple times", name)
		}
	}
	input := &Input{
		Name:  name,
		Party: party,
		Type:  t,
	}
	input.Value = &Value{
		program: p,
		Op:      OpInput,
		Type:    t,
		Input:   input,
	}
	p.inputs = append(p.inputs, input)
	return input.Value
}

// SecretInteger defines a secret signed integer input for the party.
func (p *Program) SecretInteger(name string, party *Party) *Value {
	return p.input(name, party, types.SecretInteger)
}

// SecretUnsignedInteger defines a secret unsigned integer input for
// the party.
func (p *Program) SecretUnsignedInteger(name string, party *Party) *Value {
	return p.input(name, party, types.SecretUnsignedInteger)
}

// SecretBoolean defines a secret boolean input for the party.
func (p *Program) SecretBoolean(name string, party *Party) *Value {
	return p.input(name, party, types.SecretBoolean)
}

// Output delivers the value to the party under the output name. The
// same name may be delivered to several parties but only once to
// each party.
func (p *Program) Output(v *Value, name string, party *Party) {
	if len(name) == 0 {
		p.errorf("output without name")
		return
	}
	if party == nil || party.program != p {
		p.errorf("output %s: party %v not defined in program", name, party)
		return
	}
	if v == nil || v.program != p {
		p.errorf("output %s: value not defined in program", name)
		return
	}
	if v.Op == OpInvalid {
		return
	}
	if !v.Type.Secret() {
		p.errorf("output %s: public value of type %v", name, v.Type)
		return
	}
	for _, o := range p.outputs {
		if o.Name == name && o.Party == party {
			p.errorf("output %s to %s defined multiple times", name, party)
			return
		}
	}
	p.outputs = append(p.outputs, &Output{
		Name:  name,
		Party: party,
		Value: v,
	})
}

// String returns a textual description of the program.
func (p *Program) String() string {
	result := fmt.Sprintf("program %s\n", p.Name)
	for _, party := range p.parties {
		result += fmt.Sprintf("  party %s\n", party)
	}
	for _, in := range p.inputs {
		result += fmt.Sprintf("  input %s@%s %v\n", in.Name, in.Party, in.Type)
	}
	for _, out := range p.outputs {
		result += fmt.Sprintf("  output %s@%s = %v\n",
			out.Name, out.Party, out.Value)
	}
	return result
}
