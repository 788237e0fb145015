//
// types.go
//
// Copyright (c) 2020-2026 Markku Rossi
//
// All rights reserved.
//

// Package types implements the value types of MPC programs.
package types

import (
	"fmt"
	"math/big"
)

// Type specifies a program value type.
type Type int8

// Size specify sizes and bit counts in circuits.
type Size int32

// Program value types.
const (
	TUndefined Type = iota
	TSecretInteger
	TSecretUnsignedInteger
	TSecretBoolean
	TInteger
	TUnsignedInteger
	TBoolean
)

// Types define type names and their types.
var Types = map[string]Type{
	"<Undefined>":           TUndefined,
	"SecretInteger":         TSecretInteger,
	"SecretUnsignedInteger": TSecretUnsignedInteger,
	"SecretBoolean":         TSecretBoolean,
	"Integer":               TInteger,
	"UnsignedInteger":       TUnsignedInteger,
	"Boolean":               TBoolean,
}

var shortTypes = map[Type]string{
	TUndefined:             "?",
	TSecretInteger:         "si",
	TSecretUnsignedInteger: "su",
	TSecretBoolean:         "sb",
	TInteger:               "i",
	TUnsignedInteger:       "u",
	TBoolean:               "b",
}

func (t Type) String() string {
	for k, v := range Types {
		if v == t {
			return k
		}
	}
	return fmt.Sprintf("{Type %d}", t)
}

// ShortString returns a short string name for the type.
func (t Type) ShortString() string {
	name, ok := shortTypes[t]
	if ok {
		return name
	}
	return t.String()
}

// IntegerBits defines the width of integer values in bits.
const IntegerBits Size = 64

// Info specifies information about a type.
type Info struct {
	Type Type
	Bits Size
}

// Undefined defines type info for undefined types.
var Undefined = Info{
	Type: TUndefined,
}

// SecretInteger defines type info for secret signed integers.
var SecretInteger = Info{
	Type: TSecretInteger,
	Bits: IntegerBits,
}

// SecretUnsignedInteger defines type info for secret unsigned
// integers.
var SecretUnsignedInteger = Info{
	Type: TSecretUnsignedInteger,
	Bits: IntegerBits,
}

// SecretBoolean defines type info for secret booleans.
var SecretBoolean = Info{
	Type: TSecretBoolean,
	Bits: 1,
}

// Integer defines type info for public signed integers.
var Integer = Info{
	Type: TInteger,
	Bits: IntegerBits,
}

// UnsignedInteger defines type info for public unsigned integers.
var UnsignedInteger = Info{
	Type: TUnsignedInteger,
	Bits: IntegerBits,
}

// Boolean defines type info for public booleans.
var Boolean = Info{
	Type: TBoolean,
	Bits: 1,
}

// Parse parses the type name and returns its type information.
func Parse(name string) (Info, error) {
	t, ok := Types[name]
	if !ok || t == TUndefined {
		return Undefined, fmt.Errorf("unknown type: %s", name)
	}
	return FromType(t), nil
}

// FromType returns the type information for the type.
func FromType(t Type) Info {
	switch t {
	case TSecretInteger:
		return SecretInteger
	case TSecretUnsignedInteger:
		return SecretUnsignedInteger
	case TSecretBoolean:
		return SecretBoolean
	case TInteger:
		return Integer
	case TUnsignedInteger:
		return UnsignedInteger
	case TBoolean:
		return Boolean
	default:
		return Undefined
	}
}

func (i Info) String() string {
	return i.Type.String()
}

// ShortString returns a short string name for the type info.
func (i Info) ShortString() string {
	return i.Type.ShortString()
}

// Undefined tests if type is undefined.
func (i Info) Undefined() bool {
	return i.Type == TUndefined
}

// Secret tests if the type is a secret type.
func (i Info) Secret() bool {
	switch i.Type {
	case TSecretInteger, TSecretUnsignedInteger, TSecretBoolean:
		return true
	default:
		return false
	}
}

// Signed tests if the type is a signed integer type.
func (i Info) Signed() bool {
	return i.Type == TSecretInteger || i.Type == TInteger
}

// Boolean tests if the type is a boolean type.
func (i Info) Boolean() bool {
	return i.Type == TSecretBoolean || i.Type == TBoolean
}

// Integer tests if the type is an integer type.
func (i Info) Integer() bool {
	switch i.Type {
	case TSecretInteger, TSecretUnsignedInteger, TInteger, TUnsignedInteger:
		return true
	default:
		return false
	}
}

// Public returns the public counterpart of the type.
func (i Info) Public() Info {
	switch i.Type {
	case TSecretInteger:
		return Integer
	case TSecretUnsignedInteger:
		return UnsignedInteger
	case TSecretBoolean:
		return Boolean
	default:
		return i
	}
}

// AsSecret returns the secret counterpart of the type.
func (i Info) AsSecret() Info {
	switch i.Type {
	case TInteger:
		return SecretInteger
	case TUnsignedInteger:
		return SecretUnsignedInteger
	case TBoolean:
		return SecretBoolean
	default:
		return i
	}
}

// Equal tests if the argument type is equal to this type info.
func (i Info) Equal(o Info) bool {
	return i.Type == o.Type && i.Bits == o.Bits
}

// Compatible tests if values of the types can be combined in binary
// operations. The result is the type of the operation, which is
// secret if either of the operands is secret.
func (i Info) Compatible(o Info) (Info, bool) {
	a := i.Public()
	b := o.Public()
	if !a.Equal(b) {
		return Undefined, false
	}
	if i.Secret() || o.Secret() {
		return a.AsSecret(), true
	}
	return a, true
}

// Bytes returns the number of bytes needed to hold the type's bits.
func (i Info) Bytes() int {
	return (int(i.Bits) + 7) / 8
}

var (
	one = big.NewInt(1)
)

// Range returns the minimum and maximum values of the type.
func (i Info) Range() (min, max *big.Int) {
	if i.Boolean() {
		return big.NewInt(0), big.NewInt(1)
	}
	if i.Signed() {
		max = new(big.Int).Lsh(one, uint(i.Bits-1))
		min = new(big.Int).Neg(max)
		max.Sub(max, one)
		return
	}
	max = new(big.Int).Lsh(one, uint(i.Bits))
	max.Sub(max, one)
	return big.NewInt(0), max
}

// Encode encodes the value as a little-endian two's complement bit
// vector of the type's width. The result has Bytes() bytes.
func Encode(i Info, v *big.Int) ([]byte, error) {
	if i.Undefined() || i.Bits == 0 {
		return nil, fmt.Errorf("cannot encode value of type %v", i)
	}
	min, max := i.Range()
	if v.Cmp(min) < 0 || v.Cmp(max) > 0 {
		return nil, fmt.Errorf("value %v out of range for %v", v, i)
	}
	u := new(big.Int).Set(v)
	if u.Sign() < 0 {
		u.Add(u, new(big.Int).Lsh(one, uint(i.Bits)))
	}
	result := make([]byte, i.Bytes())
	for bit := 0; bit < int(i.Bits); bit++ {
		if u.Bit(bit) == 1 {
			result[bit/8] |= 1 << (bit % 8)
		}
	}
	return result, nil
}

// Decode decodes the bit vector into a value of the type. Signed
// values are sign extended.
func Decode(i Info, data []byte) *big.Int {
	result := new(big.Int)
	for bit := 0; bit < int(i.Bits) && bit/8 < len(data); bit++ {
		if data[bit/8]&(1<<(bit%8)) != 0 {
			result.SetBit(result, bit, 1)
		}
	}
	if i.Signed() && result.Bit(int(i.Bits)-1) == 1 {
		result.Sub(result, new(big.Int).Lsh(one, uint(i.Bits)))
	}
	return result
}
