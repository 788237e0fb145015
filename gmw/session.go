//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package gmw

import (
	"fmt"

	"github.com/markkurossi/mpcnet/circuit"
	"github.com/markkurossi/mpcnet/env"
	"github.com/markkurossi/mpcnet/p2p"
	"golang.org/x/sync/errgroup"
)

// Session evaluates circuits over XOR-shared inputs with the peers of
// a mesh. All peers must run the same circuit in the same session
// order.
type Session struct {
	mesh   *Mesh
	config *env.Config

	// Timing holds the profiling samples of the last Run.
	Timing *circuit.Timing

	// Stats holds the I/O statistics of the last Run.
	Stats p2p.IOStats
}

// NewSession creates a new evaluation session on the mesh.
func NewSession(mesh *Mesh, config *env.Config) *Session {
	return &Session{
		mesh:   mesh,
		config: config,
	}
}

// Run evaluates the circuit. The inputs argument holds this party's
// shares of the circuit inputs, one packed bit vector per input
// argument. The function returns this party's shares of the circuit
// outputs, one packed bit vector per output argument. The shares are
// not opened among the peers.
func (s *Session) Run(circ *circuit.Circuit, inputs [][]byte) (
	[][]byte, error) {

	if len(inputs) != len(circ.Inputs) {
		return nil, fmt.Errorf("invalid input shares: got %d, expected %d",
			len(inputs), len(circ.Inputs))
	}
	before := s.mesh.Stats()
	s.Timing = circuit.NewTiming()

	wires := make([]byte, circ.NumWires)
	var w int
	for idx, arg := range circ.Inputs {
		if len(inputs[idx]) != arg.Type.Bytes() {
			return nil, fmt.Errorf("input %s: invalid share length %d",
				arg.Name, len(inputs[idx]))
		}
		bits := UnpackBits(inputs[idx], int(arg.Type.Bits))
		copy(wires[w:], bits)
		w += len(bits)
	}
	levels := circ.Schedule()
	s.Timing.Sample("Init", []string{fmt.Sprintf("%d levels", len(levels))})

	triples, err := GenerateTriples(s.mesh, s.config.GetRandom(),
		circ.NumNonlinear())
	if err != nil {
		return nil, err
	}
	s.Timing.Sample("Triples",
		[]string{fmt.Sprintf("%d", triples.Len())})

	leader := s.mesh.ID == 0
	var t int
	for _, level := range levels {
		if len(level.Nonlinear) > 0 {
			if err := s.evalNonlinear(circ, level, wires, triples, t); err != nil {
				return nil, err
			}
			t += len(level.Nonlinear)
		}
		for _, idx := range level.Linear {
			g := &circ.Gates[idx]
			switch g.Op {
			case circuit.XOR:
				wires[g.Output] = wires[g.Input0] ^ wires[g.Input1]

			case circuit.XNOR:
				wires[g.Output] = wires[g.Input0] ^ wires[g.Input1]
				if leader {
					wires[g.Output] ^= 1
				}

			case circuit.INV:
				wires[g.Output] = wires[g.Input0]
				if leader {
					wires[g.Output] ^= 1
				}

			default:
				return nil, fmt.Errorf("invalid linear gate %v", g.Op)
			}
		}
	}
	s.Timing.Sample("Eval", nil)

	var result [][]byte
	w = circ.NumWires - circ.Outputs.Size()
	for _, arg := range circ.Outputs {
		bits := int(arg.Type.Bits)
		result = append(result, PackBits(wires[w:w+bits]))
		w += bits
	}

	after := s.mesh.Stats()
	s.Stats = after.Sub(before)

	return result, nil
}

// evalNonlinear evaluates the level's nonlinear gates with the
// triples starting from index t. Each AND is computed by opening
// d=x^a and e=y^b: z = c ^ d*b ^ e*a ^ d*e, where the public term d*e
// is added by party 0. OR is computed as x^y^(x&y).
func (s *Session) evalNonlinear(circ *circuit.Circuit, level circuit.Level,
	wires []byte, triples *Triples, t int) error {

	k := len(level.Nonlinear)
	de := make([]byte, 2*k)
	for i, idx := range level.Nonlinear {
		g := &circ.Gates[idx]
		de[2*i] = wires[g.Input0] ^ triples.A[t+i]
		de[2*i+1] = wires[g.Input1] ^ triples.B[t+i]
	}
	opened, err := s.open(PackBits(de))
	if err != nil {
		return err
	}
	de = UnpackBits(opened, 2*k)

	leader := s.mesh.ID == 0
	for i, idx := range level.Nonlinear {
		g := &circ.Gates[idx]
		d := de[2*i]
		e := de[2*i+1]

		z := triples.C[t+i] ^ (d & triples.B[t+i]) ^ (e & triples.A[t+i])
		if leader {
			z ^= d & e
		}
		switch g.Op {
		case circuit.AND:
		case circuit.OR:
			z ^= wires[g.Input0] ^ wires[g.Input1]
		default:
			return fmt.Errorf("invalid nonlinear gate %v", g.Op)
		}
		wires[g.Output] = z
	}
	return nil
}

// open exchanges the shares with all peers and returns the XOR of
// all parties' shares.
func (s *Session) open(share []byte) ([]byte, error) {
	peers := s.mesh.Peers()
	received := make([][]byte, len(peers))

	var g errgroup.Group
	for i, peer := range peers {
		g.Go(func() error {
			var err error
			if s.mesh.ID < peer.ID {
				if err = sendShare(peer, share); err != nil {
					return err
				}
				received[i], err = peer.Conn.ReceiveData()
			} else {
				received[i], err = peer.Conn.ReceiveData()
				if err != nil {
					return err
				}
				err = sendShare(peer, share)
			}
			if err != nil {
				return fmt.Errorf("open with peer %d: %v", peer.ID, err)
			}
			if len(received[i]) != len(share) {
				return fmt.Errorf("open with peer %d: got %d bytes, expected %d",
					peer.ID, len(received[i]), len(share))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	result := make([]byte, len(share))
	copy(result, share)
	for _, r := range received {
		xorBytes(result, r)
	}
	return result, nil
}

func sendShare(peer *Peer, share []byte) error {
	if err := peer.Conn.SendData(share); err != nil {
		return err
	}
	return peer.Conn.Flush()
}
