//
// Copyright (c) 2020-2026 Markku Rossi
//
// All rights reserved.
//

package types

import (
	"math/big"
	"testing"
)

func TestUndefined(t *testing.T) {
	undef := Info{}
	if !undef.Undefined() {
		t.Errorf("undef is not undefined")
	}
}

func TestParse(t *testing.T) {
	for name, typ := range Types {
		info, err := Parse(name)
		if typ == TUndefined {
			if err == nil {
				t.Errorf("Parse(%s) succeeded", name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Parse(%s) failed: %v", name, err)
		}
		if info.Type != typ {
			t.Errorf("Parse(%s): got %v, expected %v", name, info.Type, typ)
		}
	}
	if _, err := Parse("float"); err == nil {
		t.Errorf("Parse(float) succeeded")
	}
}

func TestCompatible(t *testing.T) {
	tests := []struct {
		a, b   Info
		result Info
		ok     bool
	}{
		{SecretInteger, SecretInteger, SecretInteger, true},
		{SecretInteger, Integer, SecretInteger, true},
		{Integer, Integer, Integer, true},
		{SecretUnsignedInteger, UnsignedInteger, SecretUnsignedInteger, true},
		{SecretInteger, SecretUnsignedInteger, Undefined, false},
		{SecretBoolean, Boolean, SecretBoolean, true},
		{SecretBoolean, SecretInteger, Undefined, false},
	}
	for idx, test := range tests {
		r, ok := test.a.Compatible(test.b)
		if ok != test.ok {
			t.Errorf("test-%d: ok=%v, expected %v", idx, ok, test.ok)
			continue
		}
		if ok && !r.Equal(test.result) {
			t.Errorf("test-%d: got %v, expected %v", idx, r, test.result)
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	tests := []struct {
		info Info
		v    int64
	}{
		{SecretInteger, 0},
		{SecretInteger, 1000000},
		{SecretInteger, -1},
		{SecretInteger, -800000},
		{SecretUnsignedInteger, 42},
		{SecretBoolean, 1},
		{SecretBoolean, 0},
	}
	for _, test := range tests {
		data, err := Encode(test.info, big.NewInt(test.v))
		if err != nil {
			t.Fatalf("Encode(%v, %v): %v", test.info, test.v, err)
		}
		if len(data) != test.info.Bytes() {
			t.Errorf("Encode(%v): got %d bytes, expected %d",
				test.info, len(data), test.info.Bytes())
		}
		v := Decode(test.info, data)
		if v.Int64() != test.v {
			t.Errorf("Decode(%v): got %v, expected %v", test.info, v, test.v)
		}
	}
}

func TestEncodeRange(t *testing.T) {
	if _, err := Encode(SecretUnsignedInteger, big.NewInt(-1)); err == nil {
		t.Errorf("negative unsigned value accepted")
	}
	if _, err := Encode(SecretBoolean, big.NewInt(2)); err == nil {
		t.Errorf("boolean value 2 accepted")
	}
	over := new(big.Int).Lsh(big.NewInt(1), 63)
	if _, err := Encode(SecretInteger, over); err == nil {
		t.Errorf("signed overflow accepted")
	}
	if _, err := Encode(SecretUnsignedInteger, over); err != nil {
		t.Errorf("unsigned 2^63 rejected: %v", err)
	}
}
