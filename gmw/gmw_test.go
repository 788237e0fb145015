//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package gmw

import (
	"crypto/rand"
	"math/big"
	"net"
	"testing"

	"github.com/markkurossi/mpcnet/circuit"
	"github.com/markkurossi/mpcnet/env"
	"github.com/markkurossi/mpcnet/types"
	"golang.org/x/sync/errgroup"
)

var u3 = types.Info{
	Type: types.TSecretUnsignedInteger,
	Bits: 3,
}

// testCircuit returns a three-party circuit computing
// out[i] = ((a[i] & b[i]) | c[i]) XNOR !a[i] for all bits i.
func testCircuit() *circuit.Circuit {
	c := &circuit.Circuit{
		Name:    "gates",
		Parties: []string{"P0", "P1", "P2"},
		Inputs: circuit.IO{
			{Name: "a", Party: 0, Type: u3},
			{Name: "b", Party: 1, Type: u3},
			{Name: "c", Party: 2, Type: u3},
		},
		Outputs: circuit.IO{
			{Name: "out", Party: 0, Type: u3},
		},
	}
	next := circuit.Wire(9)
	var results []circuit.Wire
	for i := circuit.Wire(0); i < 3; i++ {
		and := next
		or := next + 1
		inv := next + 2
		next += 3
		c.Gates = append(c.Gates,
			circuit.Gate{Input0: i, Input1: i + 3, Output: and, Op: circuit.AND},
			circuit.Gate{Input0: and, Input1: i + 6, Output: or, Op: circuit.OR},
			circuit.Gate{Input0: i, Output: inv, Op: circuit.INV})
		results = append(results, or, inv)
	}
	for i := 0; i < 3; i++ {
		c.Gates = append(c.Gates, circuit.Gate{
			Input0: results[2*i],
			Input1: results[2*i+1],
			Output: next + circuit.Wire(i),
			Op:     circuit.XNOR,
		})
	}
	c.NumWires = int(next) + 3
	c.ComputeStats()
	return c
}

func share(t *testing.T, info types.Info, v int64, n int) [][]byte {
	data, err := types.Encode(info, big.NewInt(v))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	result := make([][]byte, n)
	for i := 1; i < n; i++ {
		result[i] = make([]byte, len(data))
		if _, err := rand.Read(result[i]); err != nil {
			t.Fatal(err)
		}
		xorBytes(data, result[i])
	}
	result[0] = data
	return result
}

func run(t *testing.T, meshes []*Mesh, circ *circuit.Circuit,
	values []int64) []*big.Int {

	n := len(meshes)
	inputs := make([][][]byte, n)
	for i := range inputs {
		inputs[i] = make([][]byte, len(values))
	}
	for idx, v := range values {
		for i, s := range share(t, circ.Inputs[idx].Type, v, n) {
			inputs[i][idx] = s
		}
	}

	outputs := make([][][]byte, n)
	var g errgroup.Group
	for i, mesh := range meshes {
		g.Go(func() error {
			var err error
			outputs[i], err = NewSession(mesh, nil).Run(circ, inputs[i])
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var bits []byte
	for idx, arg := range circ.Outputs {
		value := make([]byte, arg.Type.Bytes())
		for i := 0; i < n; i++ {
			xorBytes(value, outputs[i][idx])
		}
		bits = append(bits, UnpackBits(value, int(arg.Type.Bits))...)
	}
	result, err := circ.OutputValues(bits)
	if err != nil {
		t.Fatalf("OutputValues: %v", err)
	}
	return result
}

func TestPipeMesh(t *testing.T) {
	circ := testCircuit()
	if err := circ.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	meshes := NewPipeMesh(3, nil)
	defer func() {
		for _, m := range meshes {
			m.Close()
		}
	}()

	for a := int64(0); a < 8; a += 3 {
		for b := int64(0); b < 8; b += 2 {
			for c := int64(0); c < 8; c += 5 {
				values := []int64{a, b, c}
				expected, err := circ.Compute([]*big.Int{
					big.NewInt(a), big.NewInt(b), big.NewInt(c),
				})
				if err != nil {
					t.Fatalf("Compute: %v", err)
				}
				result := run(t, meshes, circ, values)
				if result[0].Cmp(expected[0]) != 0 {
					t.Errorf("%v: got %v, expected %v",
						values, result[0], expected[0])
				}
			}
		}
	}
}

func TestTriples(t *testing.T) {
	// Base OT and IKNP extension batches.
	for _, count := range []int{100, 1000} {
		testTriples(t, count)
	}
}

func testTriples(t *testing.T, count int) {
	const n = 3

	meshes := NewPipeMesh(n, nil)
	defer func() {
		for _, m := range meshes {
			m.Close()
		}
	}()

	triples := make([]*Triples, n)
	var g errgroup.Group
	for i, mesh := range meshes {
		g.Go(func() error {
			var err error
			triples[i], err = GenerateTriples(mesh, rand.Reader, count)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("GenerateTriples(%d): %v", count, err)
	}
	for i := 0; i < count; i++ {
		var a, b, c byte
		for _, tr := range triples {
			a ^= tr.A[i]
			b ^= tr.B[i]
			c ^= tr.C[i]
		}
		if c != a&b {
			t.Fatalf("count %d: triple %d: %d&%d != %d", count, i, a, b, c)
		}
	}
}

func TestTCPMesh(t *testing.T) {
	const n = 3

	config := &env.Config{
		Rand: rand.Reader,
	}
	listeners := make([]net.Listener, n)
	for i := range listeners {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("Listen: %v", err)
		}
		listeners[i] = l
	}
	leader := listeners[0].Addr().String()

	meshes := make([]*Mesh, n)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		meshes[0], err = Lead(listeners[0], n, config)
		return err
	})
	for i := 1; i < n; i++ {
		g.Go(func() error {
			var err error
			meshes[i], err = Join(leader, listeners[i], i, n, config)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer func() {
		for _, m := range meshes {
			m.Close()
		}
	}()
	for _, m := range meshes {
		if len(m.Peers()) != n-1 {
			t.Fatalf("%v: got %d peers, expected %d", m, len(m.Peers()), n-1)
		}
	}

	circ := testCircuit()
	values := []int64{5, 3, 6}
	expected, err := circ.Compute([]*big.Int{
		big.NewInt(5), big.NewInt(3), big.NewInt(6),
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	result := run(t, meshes, circ, values)
	if result[0].Cmp(expected[0]) != 0 {
		t.Errorf("got %v, expected %v", result[0], expected[0])
	}
	if meshes[0].Stats().Sum() == 0 {
		t.Errorf("no I/O statistics")
	}
}

func TestBits(t *testing.T) {
	bits := []byte{1, 0, 1, 1, 0, 0, 0, 0, 1, 1}
	packed := PackBits(bits)
	if len(packed) != 2 || packed[0] != 0x0d || packed[1] != 0x03 {
		t.Fatalf("PackBits: %x", packed)
	}
	unpacked := UnpackBits(packed, len(bits))
	for i := range bits {
		if bits[i] != unpacked[i] {
			t.Errorf("bit %d: %d != %d", i, unpacked[i], bits[i])
		}
	}
}
