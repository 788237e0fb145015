//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package gmw

import (
	"fmt"
	"io"

	"github.com/markkurossi/mpcnet/ot"
	"github.com/markkurossi/mpcnet/otext"
	"golang.org/x/sync/errgroup"
)

// Triples holds this party's XOR shares of Beaver multiplication
// triples: for each index i, the XOR of all parties' C[i] equals the
// AND of the XOR of all parties' A[i] and B[i].
type Triples struct {
	A []byte
	B []byte
	C []byte
}

// Len returns the number of triples.
func (t *Triples) Len() int {
	return len(t.A)
}

func randomBits(rand io.Reader, count int) ([]byte, error) {
	buf := make([]byte, (count+7)/8)
	if _, err := io.ReadFull(rand, buf); err != nil {
		return nil, err
	}
	return UnpackBits(buf, count), nil
}

func toBools(bits []byte) []bool {
	result := make([]bool, len(bits))
	for i, b := range bits {
		result[i] = b != 0
	}
	return result
}

func fromBools(bools []bool) []byte {
	result := make([]byte, len(bools))
	for i, b := range bools {
		if b {
			result[i] = 1
		}
	}
	return result
}

// GenerateTriples generates count Beaver triples with all peers of
// the mesh. The cross terms a_i*b_j of each ordered peer pair (i,j)
// are computed with bit OT: i sends (r, r^a_i) and j selects with
// b_j.
func GenerateTriples(mesh *Mesh, rand io.Reader, count int) (
	*Triples, error) {

	a, err := randomBits(rand, count)
	if err != nil {
		return nil, err
	}
	b, err := randomBits(rand, count)
	if err != nil {
		return nil, err
	}
	c := make([]byte, count)
	for i := 0; i < count; i++ {
		c[i] = a[i] & b[i]
	}
	if count == 0 {
		return &Triples{A: a, B: b, C: c}, nil
	}

	shares := make([][]byte, mesh.N)

	var g errgroup.Group
	for _, peer := range mesh.Peers() {
		g.Go(func() error {
			share, err := crossTerms(mesh.ID, peer, rand, a, b)
			if err != nil {
				return fmt.Errorf("triples with peer %d: %v", peer.ID, err)
			}
			shares[peer.ID] = share
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, share := range shares {
		xorBytes(c, share)
	}
	return &Triples{A: a, B: b, C: c}, nil
}

// newOT creates the bit OT for count transfers. Large batches run
// over the IKNP extension, which amortizes its base OTs.
func newOT(rand io.Reader, count int) ot.OT {
	if count < otext.IKNPK {
		return ot.NewCO(rand)
	}
	return otext.NewIKNP(ot.NewCO(rand), rand)
}

func crossTerms(self int, peer *Peer, rand io.Reader, a, b []byte) (
	[]byte, error) {

	r, err := randomBits(rand, len(a))
	if err != nil {
		return nil, err
	}
	m0 := toBools(r)
	m1 := make([]bool, len(r))
	for i := range r {
		m1[i] = (r[i] ^ a[i]) != 0
	}

	send := func() error {
		sender := newOT(rand, len(a))
		if err := sender.InitSender(peer.Conn); err != nil {
			return err
		}
		return ot.SendBits(sender, m0, m1)
	}
	var received []bool
	receive := func() error {
		receiver := newOT(rand, len(b))
		if err := receiver.InitReceiver(peer.Conn); err != nil {
			return err
		}
		var err error
		received, err = ot.ReceiveBits(receiver, toBools(b))
		return err
	}

	if self < peer.ID {
		if err := send(); err != nil {
			return nil, err
		}
		if err := receive(); err != nil {
			return nil, err
		}
	} else {
		if err := receive(); err != nil {
			return nil, err
		}
		if err := send(); err != nil {
			return nil, err
		}
	}

	result := fromBools(received)
	xorBytes(result, r)
	return result, nil
}
