//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package program

import (
	"fmt"
	"math/big"

	"github.com/markkurossi/mpcnet/types"
)

// Operand defines value operations.
type Operand byte

// Value operations.
const (
	OpInvalid Operand = iota
	OpInput
	OpConst
	OpAdd
	OpSub
	OpMul
	OpGt
	OpGe
	OpLt
	OpLe
	OpEq
	OpNeq
	OpAnd
	OpOr
	OpNot
	OpIfElse
)

var operands = map[Operand]string{
	OpInvalid: "invalid",
	OpInput:   "input",
	OpConst:   "const",
	OpAdd:     "+",
	OpSub:     "-",
	OpMul:     "*",
	OpGt:      ">",
	OpGe:      ">=",
	OpLt:      "<",
	OpLe:      "<=",
	OpEq:      "==",
	OpNeq:     "!=",
	OpAnd:     "&&",
	OpOr:      "||",
	OpNot:     "!",
	OpIfElse:  "if",
}

func (op Operand) String() string {
	name, ok := operands[op]
	if ok {
		return name
	}
	return fmt.Sprintf("{Operand %d}", op)
}

// Value is a program expression. Values are created by program
// inputs, literals, and operations on values.
type Value struct {
	program *Program
	Op      Operand
	Type    types.Info
	Args    []*Value
	Input   *Input
	Const   *big.Int
}

func (v *Value) String() string {
	switch v.Op {
	case OpInput:
		return v.Input.Name
	case OpConst:
		if v.Type.Boolean() {
			return fmt.Sprintf("%v", v.Const.Sign() != 0)
		}
		return v.Const.String()
	case OpNot:
		return fmt.Sprintf("!%v", v.Args[0])
	case OpIfElse:
		return fmt.Sprintf("(%v ? %v : %v)", v.Args[0], v.Args[1], v.Args[2])
	case OpInvalid:
		return "<invalid>"
	default:
		return fmt.Sprintf("(%v %v %v)", v.Args[0], v.Op, v.Args[1])
	}
}

// Integer creates a public signed integer literal.
func (p *Program) Integer(v int64) *Value {
	return p.constant(types.Integer, big.NewInt(v))
}

// UnsignedInteger creates a public unsigned integer literal.
func (p *Program) UnsignedInteger(v uint64) *Value {
	return p.constant(types.UnsignedInteger, new(big.Int).SetUint64(v))
}

// Boolean creates a public boolean literal.
func (p *Program) Boolean(v bool) *Value {
	var i int64
	if v {
		i = 1
	}
	return p.constant(types.Boolean, big.NewInt(i))
}

func (p *Program) constant(t types.Info, v *big.Int) *Value {
	return &Value{
		program: p,
		Op:      OpConst,
		Type:    t,
		Const:   v,
	}
}

// Secret tests if the value depends on secret inputs.
func (v *Value) Secret() bool {
	return v.Type.Secret()
}

// Add returns v+o modulo 2^bits.
func (v *Value) Add(o *Value) *Value {
	return v.arithmetic(OpAdd, o)
}

// Sub returns v-o modulo 2^bits.
func (v *Value) Sub(o *Value) *Value {
	return v.arithmetic(OpSub, o)
}

// Mul returns v*o modulo 2^bits.
func (v *Value) Mul(o *Value) *Value {
	return v.arithmetic(OpMul, o)
}

// Gt returns v>o.
func (v *Value) Gt(o *Value) *Value {
	return v.compare(OpGt, o)
}

// Ge returns v>=o.
func (v *Value) Ge(o *Value) *Value {
	return v.compare(OpGe, o)
}

// Lt returns v<o.
func (v *Value) Lt(o *Value) *Value {
	return v.compare(OpLt, o)
}

// Le returns v<=o.
func (v *Value) Le(o *Value) *Value {
	return v.compare(OpLe, o)
}

// Eq returns v==o. The operands can be integers or booleans.
func (v *Value) Eq(o *Value) *Value {
	return v.equal(OpEq, o)
}

// Neq returns v!=o. The operands can be integers or booleans.
func (v *Value) Neq(o *Value) *Value {
	return v.equal(OpNeq, o)
}

// And returns the logical and of the boolean values.
func (v *Value) And(o *Value) *Value {
	return v.logical(OpAnd, o)
}

// Or returns the logical or of the boolean values.
func (v *Value) Or(o *Value) *Value {
	return v.logical(OpOr, o)
}

// Not returns the logical negation of the boolean value.
func (v *Value) Not() *Value {
	if v == nil {
		return invalid
	}
	if v.Op == OpInvalid {
		return v
	}
	if !v.Type.Boolean() {
		return v.program.errorf("invalid operand for !: %v", v.Type)
	}
	return &Value{
		program: v.program,
		Op:      OpNot,
		Type:    v.Type,
		Args:    []*Value{v},
	}
}

// IfElse returns t if v is true and f otherwise. The value v must be
// a boolean.
func (v *Value) IfElse(t, f *Value) *Value {
	if v == nil {
		return invalid
	}
	p := v.program
	if t == nil || f == nil || t.program != p || f.program != p {
		return p.errorf("if: operands from another program")
	}
	if v.Op == OpInvalid || t.Op == OpInvalid || f.Op == OpInvalid {
		return p.errorf("if: invalid operands")
	}
	if !v.Type.Boolean() {
		return p.errorf("if: invalid condition type %v", v.Type)
	}
	t, f, rt, ok := unify(t, f)
	if !ok {
		return p.errorf("if: operand type mismatch: %v and %v",
			t.Type, f.Type)
	}
	if v.Secret() {
		rt = rt.AsSecret()
	}
	return &Value{
		program: p,
		Op:      OpIfElse,
		Type:    rt,
		Args:    []*Value{v, t, f},
	}
}

var invalid = &Value{
	Op:   OpInvalid,
	Type: types.Undefined,
}

func (v *Value) binary(op Operand, o *Value) (*Value, *Value, types.Info,
	*Value) {

	if v == nil {
		return nil, nil, types.Undefined, invalid
	}
	p := v.program
	if o == nil || o.program != p {
		return nil, nil, types.Undefined,
			p.errorf("%v: operand from another program", op)
	}
	if v.Op == OpInvalid || o.Op == OpInvalid {
		return nil, nil, types.Undefined,
			p.errorf("%v: invalid operands", op)
	}
	a, b, t, ok := unify(v, o)
	if !ok {
		return nil, nil, types.Undefined,
			p.errorf("%v: operand type mismatch: %v and %v",
				op, v.Type, o.Type)
	}
	return a, b, t, nil
}

func (v *Value) arithmetic(op Operand, o *Value) *Value {
	a, b, t, err := v.binary(op, o)
	if err != nil {
		return err
	}
	if !t.Integer() {
		return v.program.errorf("invalid operand for %v: %v", op, t)
	}
	return &Value{
		program: v.program,
		Op:      op,
		Type:    t,
		Args:    []*Value{a, b},
	}
}

func (v *Value) compare(op Operand, o *Value) *Value {
	a, b, t, err := v.binary(op, o)
	if err != nil {
		return err
	}
	if !t.Integer() {
		return v.program.errorf("invalid operand for %v: %v", op, t)
	}
	return v.boolean(op, t, a, b)
}

func (v *Value) equal(op Operand, o *Value) *Value {
	a, b, t, err := v.binary(op, o)
	if err != nil {
		return err
	}
	return v.boolean(op, t, a, b)
}

func (v *Value) logical(op Operand, o *Value) *Value {
	a, b, t, err := v.binary(op, o)
	if err != nil {
		return err
	}
	if !t.Boolean() {
		return v.program.errorf("invalid operand for %v: %v", op, t)
	}
	return &Value{
		program: v.program,
		Op:      op,
		Type:    t,
		Args:    []*Value{a, b},
	}
}

func (v *Value) boolean(op Operand, t types.Info, a, b *Value) *Value {
	rt := types.Boolean
	if t.Secret() {
		rt = types.SecretBoolean
	}
	return &Value{
		program: v.program,
		Op:      op,
		Type:    rt,
		Args:    []*Value{a, b},
	}
}

// unify converts integer literals to the type of the other operand
// and returns the operands and their common type.
func unify(a, b *Value) (*Value, *Value, types.Info, bool) {
	if a.Op == OpConst && b.Op != OpConst {
		if c, ok := a.convert(b.Type); ok {
			a = c
		}
	} else if b.Op == OpConst && a.Op != OpConst {
		if c, ok := b.convert(a.Type); ok {
			b = c
		}
	}
	t, ok := a.Type.Compatible(b.Type)
	return a, b, t, ok
}

// convert converts the integer literal to the public counterpart of
// the type t. The literal value must be in the range of t.
func (v *Value) convert(t types.Info) (*Value, bool) {
	if !v.Type.Integer() || !t.Integer() {
		return nil, false
	}
	pt := t.Public()
	min, max := pt.Range()
	if v.Const.Cmp(min) < 0 || v.Const.Cmp(max) > 0 {
		return nil, false
	}
	return v.program.constant(pt, v.Const), true
}
