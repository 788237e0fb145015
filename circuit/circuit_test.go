//
// Copyright (c) 2022-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"bytes"
	"math/big"
	"runtime"
	"strings"
	"testing"

	"github.com/markkurossi/mpcnet/types"
)

var u2 = types.Info{
	Type: types.TSecretUnsignedInteger,
	Bits: 2,
}

// testCircuit computes out = {!(a0&b0), (a1^b1)|(a0&b0)}.
func testCircuit() *Circuit {
	c := &Circuit{
		Name:     "test",
		Parties:  []string{"Alice", "Bob"},
		NumWires: 8,
		Inputs: IO{
			{Name: "a", Party: 0, Type: u2},
			{Name: "b", Party: 1, Type: u2},
		},
		Outputs: IO{
			{Name: "out", Party: 0, Type: u2},
		},
		Gates: []Gate{
			{Input0: 0, Input1: 2, Output: 4, Op: AND},
			{Input0: 1, Input1: 3, Output: 5, Op: XOR},
			{Input0: 4, Output: 6, Op: INV},
			{Input0: 5, Input1: 4, Output: 7, Op: OR},
		},
	}
	c.ComputeStats()
	return c
}

var computeTests = []struct {
	a, b, out int64
}{
	{3, 1, 2},
	{0, 0, 1},
	{2, 2, 1},
	{1, 1, 2},
	{2, 0, 3},
}

func TestCompute(t *testing.T) {
	c := testCircuit()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	for _, test := range computeTests {
		result, err := c.Compute([]*big.Int{
			big.NewInt(test.a), big.NewInt(test.b),
		})
		if err != nil {
			t.Fatalf("Compute(%d,%d): %v", test.a, test.b, err)
		}
		if len(result) != 1 || result[0].Int64() != test.out {
			t.Errorf("Compute(%d,%d)=%v, expected %d",
				test.a, test.b, result, test.out)
		}
	}
	_, err := c.Compute([]*big.Int{big.NewInt(1)})
	if err == nil {
		t.Errorf("Compute succeeded with missing input")
	}
	_, err = c.Compute([]*big.Int{big.NewInt(4), big.NewInt(1)})
	if err == nil {
		t.Errorf("Compute succeeded with out-of-range input")
	}
}

func TestStats(t *testing.T) {
	c := testCircuit()
	if c.NumGates != 4 {
		t.Errorf("NumGates=%d, expected 4", c.NumGates)
	}
	if c.NumNonlinear() != 2 {
		t.Errorf("NumNonlinear=%d, expected 2", c.NumNonlinear())
	}
	if c.Stats[INV] != 1 || c.Stats[XOR] != 1 {
		t.Errorf("unexpected stats: %v", c.Stats)
	}
}

func TestSchedule(t *testing.T) {
	c := testCircuit()
	levels := c.Schedule()
	if len(levels) != 3 {
		t.Fatalf("got %d levels, expected 3", len(levels))
	}
	if len(levels[0].Nonlinear) != 0 || len(levels[0].Linear) != 1 {
		t.Errorf("level 0: %v", levels[0])
	}
	if len(levels[1].Nonlinear) != 1 || levels[1].Nonlinear[0] != 0 {
		t.Errorf("level 1: %v", levels[1])
	}
	if len(levels[1].Linear) != 1 || levels[1].Linear[0] != 2 {
		t.Errorf("level 1: %v", levels[1])
	}
	if len(levels[2].Nonlinear) != 1 || levels[2].Nonlinear[0] != 3 {
		t.Errorf("level 2: %v", levels[2])
	}
	if c.Depth() != 2 {
		t.Errorf("Depth=%d, expected 2", c.Depth())
	}
}

func TestMarshal(t *testing.T) {
	c := testCircuit()
	data, err := c.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	parsed, err := ParseBytes(data)
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	if parsed.Name != c.Name || len(parsed.Parties) != 2 ||
		parsed.Parties[1] != "Bob" {
		t.Errorf("header mismatch: %v %v", parsed, parsed.Parties)
	}
	if parsed.Stats != c.Stats || parsed.NumWires != c.NumWires {
		t.Errorf("stats mismatch: %v != %v", parsed, c)
	}
	for idx, g := range c.Gates {
		if parsed.Gates[idx] != g {
			t.Errorf("gate %d: %v != %v", idx, parsed.Gates[idx], g)
		}
	}
	if parsed.Outputs[0].Type != u2 {
		t.Errorf("output type %v, expected %v", parsed.Outputs[0].Type, u2)
	}

	_, err = ParseBytes(data[:len(data)-1])
	if err == nil {
		t.Errorf("truncated circuit parsed")
	}
	_, err = ParseBytes(append(data, 0))
	if err == nil {
		t.Errorf("circuit with trailing data parsed")
	}
	bad := bytes.Clone(data)
	bad[0] ^= 0xff
	_, err = ParseBytes(bad)
	if err == nil {
		t.Errorf("circuit with invalid magic parsed")
	}
}

func TestParseGateCount(t *testing.T) {
	c := &Circuit{
		Name:     "huge",
		Parties:  []string{"Alice"},
		NumGates: maxCount,
		NumWires: 2,
	}
	data, err := c.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err = ParseBytes(data)
	runtime.ReadMemStats(&after)

	if err == nil {
		t.Fatalf("circuit without gates parsed")
	}
	allocated := after.TotalAlloc - before.TotalAlloc
	if allocated > 16*1024*1024 {
		t.Errorf("parsing %d byte header allocated %d bytes",
			len(data), allocated)
	}
}

func TestValidate(t *testing.T) {
	c := testCircuit()
	c.Gates[2].Input0 = 7
	if err := c.Validate(); err == nil {
		t.Errorf("undefined input wire accepted")
	}

	c = testCircuit()
	c.Gates[3].Output = 6
	if err := c.Validate(); err == nil {
		t.Errorf("redefined wire accepted")
	}

	c = testCircuit()
	c.Outputs[0].Party = 2
	if err := c.Validate(); err == nil {
		t.Errorf("invalid output party accepted")
	}

	c = testCircuit()
	c.Inputs[1].Name = "a"
	if err := c.Validate(); err == nil {
		t.Errorf("duplicate input accepted")
	}
}

func TestDot(t *testing.T) {
	var buf bytes.Buffer
	testCircuit().Dot(&buf)
	out := buf.String()
	if !strings.Contains(out, "a@Alice[0]") ||
		!strings.Contains(out, "out@Alice[1]") {
		t.Errorf("unexpected dot output:\n%s", out)
	}
}
