//
// compiler.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

// Package compiler compiles MPC programs into boolean circuits.
package compiler

import (
	"fmt"
	"time"

	"github.com/markkurossi/mpcnet/circuit"
	"github.com/markkurossi/mpcnet/compiler/circuits"
	"github.com/markkurossi/mpcnet/compiler/utils"
	"github.com/markkurossi/mpcnet/program"
	"github.com/markkurossi/mpcnet/types"
)

// Compiler lowers program values into circuit wires.
type Compiler struct {
	params *utils.Params
	cc     *circuits.Compiler
	inputs map[*program.Input][]*circuits.Wire
	values map[*program.Value][]*circuits.Wire
}

// New creates a new compiler.
func New(params *utils.Params) *Compiler {
	if params == nil {
		params = utils.NewParams()
	}
	return &Compiler{
		params: params,
	}
}

// Compile compiles the program into a circuit.
func Compile(p *program.Program, params *utils.Params) (
	*circuit.Circuit, error) {
	return New(params).Compile(p)
}

// Compile compiles the program into a circuit. The circuit inputs are
// the program inputs in their definition order and the outputs are
// the program outputs, one output argument for each (name, party)
// pair.
func (c *Compiler) Compile(p *program.Program) (*circuit.Circuit, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	var parties []string
	for _, party := range p.Parties() {
		parties = append(parties, party.Name)
	}

	var inputs circuit.IO
	for _, in := range p.Inputs() {
		inputs = append(inputs, circuit.IOArg{
			Name:  in.Name,
			Party: in.Party.Index,
			Type:  in.Type,
		})
	}
	var outputs circuit.IO
	for _, out := range p.Outputs() {
		outputs = append(outputs, circuit.IOArg{
			Name:  out.Name,
			Party: out.Party.Index,
			Type:  out.Value.Type,
		})
	}

	inputWires := circuits.MakeWires(types.Size(inputs.Size()))
	outputWires := circuits.MakeWires(types.Size(outputs.Size()))

	cc, err := circuits.NewCompiler(c.params, inputs, outputs, inputWires,
		outputWires)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", p.Name, err)
	}
	c.cc = cc
	c.inputs = make(map[*program.Input][]*circuits.Wire)
	c.values = make(map[*program.Value][]*circuits.Wire)

	var ofs int
	for _, in := range p.Inputs() {
		bits := int(in.Type.Bits)
		c.inputs[in] = inputWires[ofs : ofs+bits]
		ofs += bits
	}

	ofs = 0
	for _, out := range p.Outputs() {
		wires, err := c.lower(out.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: output %s: %v", p.Name, out.Name, err)
		}
		for i, w := range wires {
			cc.ID(w, outputWires[ofs+i])
		}
		ofs += len(wires)
	}

	if c.params.Verbose {
		fmt.Printf("Compiling program %s: %d gates\n", p.Name, len(cc.Gates))
	}
	cc.ConstPropagate()
	if c.params.OptPruneGates {
		cc.Prune()
	}

	circ, err := cc.Compile()
	if err != nil {
		return nil, fmt.Errorf("%s: %v", p.Name, err)
	}
	circ.Name = p.Name
	circ.Parties = parties

	if err := circ.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %v", p.Name, err)
	}
	if c.params.Verbose {
		fmt.Printf("Compiled program %s in %s: %s\n",
			p.Name, time.Since(start), circ)
	}
	if c.params.CircOut != nil {
		if err := circ.Marshal(c.params.CircOut); err != nil {
			return nil, err
		}
	}
	if c.params.CircDotOut != nil {
		circ.Dot(c.params.CircDotOut)
	}

	return circ, nil
}

func (c *Compiler) lower(v *program.Value) ([]*circuits.Wire, error) {
	if wires, ok := c.values[v]; ok {
		return wires, nil
	}
	wires, err := c.lowerValue(v)
	if err != nil {
		return nil, err
	}
	c.values[v] = wires
	return wires, nil
}

func (c *Compiler) lowerArgs(v *program.Value) ([][]*circuits.Wire, error) {
	var result [][]*circuits.Wire
	for _, arg := range v.Args {
		wires, err := c.lower(arg)
		if err != nil {
			return nil, err
		}
		result = append(result, wires)
	}
	return result, nil
}

func (c *Compiler) lowerValue(v *program.Value) ([]*circuits.Wire, error) {
	switch v.Op {
	case program.OpInput:
		wires, ok := c.inputs[v.Input]
		if !ok {
			return nil, fmt.Errorf("unknown input %s", v.Input.Name)
		}
		return wires, nil

	case program.OpConst:
		data, err := types.Encode(v.Type, v.Const)
		if err != nil {
			return nil, err
		}
		return c.cc.ConstWires(data, int(v.Type.Bits)), nil
	}

	args, err := c.lowerArgs(v)
	if err != nil {
		return nil, err
	}
	r := circuits.MakeWires(v.Type.Bits)

	switch v.Op {
	case program.OpAdd:
		err = circuits.NewAdder(c.cc, args[0], args[1], r)

	case program.OpSub:
		err = circuits.NewSubtractor(c.cc, args[0], args[1], r)

	case program.OpMul:
		err = circuits.NewMultiplier(c.cc, args[0], args[1], r)

	case program.OpGt, program.OpGe, program.OpLt, program.OpLe:
		x, y := args[0], args[1]
		if v.Args[0].Type.Signed() {
			x = c.flipSign(x)
			y = c.flipSign(y)
		}
		switch v.Op {
		case program.OpGt:
			err = circuits.NewGtComparator(c.cc, x, y, r)
		case program.OpGe:
			err = circuits.NewGeComparator(c.cc, x, y, r)
		case program.OpLt:
			err = circuits.NewLtComparator(c.cc, x, y, r)
		default:
			err = circuits.NewLeComparator(c.cc, x, y, r)
		}

	case program.OpEq:
		err = circuits.NewEqComparator(c.cc, args[0], args[1], r)

	case program.OpNeq:
		err = circuits.NewNeqComparator(c.cc, args[0], args[1], r)

	case program.OpAnd:
		err = circuits.NewLogicalAND(c.cc, args[0], args[1], r)

	case program.OpOr:
		err = circuits.NewLogicalOR(c.cc, args[0], args[1], r)

	case program.OpNot:
		err = circuits.NewLogicalNOT(c.cc, args[0], r)

	case program.OpIfElse:
		err = circuits.NewMUX(c.cc, args[0], args[1], args[2], r)

	default:
		return nil, fmt.Errorf("unsupported operation %v", v.Op)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// flipSign inverts the sign bit of the two's complement value so
// that unsigned comparison of the results orders the signed values.
func (c *Compiler) flipSign(x []*circuits.Wire) []*circuits.Wire {
	if len(x) == 0 {
		return x
	}
	result := make([]*circuits.Wire, len(x))
	copy(result, x)
	sign := circuits.NewWire()
	c.cc.INV(x[len(x)-1], sign)
	result[len(x)-1] = sign
	return result
}
