//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

// Package otext implements the IKNP oblivious transfer extension. A
// fixed number of base OTs is extended into an arbitrary number of
// transfers using only symmetric cryptography.
package otext

import (
	"fmt"
	"io"

	"github.com/markkurossi/mpcnet/ot"
)

const (
	// IKNPK defines the security parameter k of the IKNP
	// protocol. The IKNPK is the number of base-OTs.
	IKNPK = 128
)

var (
	_ ot.OT = &IKNP{}
)

// IKNP implements the ot.OT interface with the IKNP OT extension. The
// extension sender acts as the base OT receiver and vice versa.
type IKNP struct {
	base ot.OT
	rand io.Reader
	io   ot.IO
	hash *tweakHash
	ctr  uint64

	// Sender state.
	choices []bool
	s       ot.LabelData
	seeds   []*prg

	// Receiver state.
	seeds0 []*prg
	seeds1 []*prg
}

// NewIKNP creates a new IKNP extension running its base OTs with the
// argument base OT.
func NewIKNP(base ot.OT, rand io.Reader) *IKNP {
	return &IKNP{
		base: base,
		rand: rand,
		hash: newTweakHash(),
	}
}

// InitSender implements ot.OT.InitSender.
func (iknp *IKNP) InitSender(conn ot.IO) error {
	iknp.io = conn
	if err := iknp.base.InitReceiver(conn); err != nil {
		return err
	}
	var buf [IKNPK / 8]byte
	if _, err := io.ReadFull(iknp.rand, buf[:]); err != nil {
		return err
	}
	iknp.choices = make([]bool, IKNPK)
	for i := 0; i < IKNPK; i++ {
		iknp.choices[i] = (buf[i/8]>>(i%8))&1 == 1
	}
	iknp.s = buf

	labels := make([]ot.Label, IKNPK)
	if err := iknp.base.Receive(iknp.choices, labels); err != nil {
		return err
	}
	iknp.seeds = make([]*prg, IKNPK)
	for i, l := range labels {
		p, err := newPRG(l)
		if err != nil {
			return err
		}
		iknp.seeds[i] = p
	}
	return nil
}

// InitReceiver implements ot.OT.InitReceiver.
func (iknp *IKNP) InitReceiver(conn ot.IO) error {
	iknp.io = conn
	if err := iknp.base.InitSender(conn); err != nil {
		return err
	}
	wires := make([]ot.Wire, IKNPK)
	iknp.seeds0 = make([]*prg, IKNPK)
	iknp.seeds1 = make([]*prg, IKNPK)
	for i := 0; i < IKNPK; i++ {
		l0, err := ot.NewLabel(iknp.rand)
		if err != nil {
			return err
		}
		l1, err := ot.NewLabel(iknp.rand)
		if err != nil {
			return err
		}
		wires[i] = ot.Wire{
			L0: l0,
			L1: l1,
		}
		iknp.seeds0[i], err = newPRG(l0)
		if err != nil {
			return err
		}
		iknp.seeds1[i], err = newPRG(l1)
		if err != nil {
			return err
		}
	}
	return iknp.base.Send(wires)
}

// Send implements ot.OT.Send.
func (iknp *IKNP) Send(wires []ot.Wire) error {
	if iknp.seeds == nil {
		return fmt.Errorf("otext: sender not initialized")
	}
	m := len(wires)
	if m == 0 {
		return nil
	}
	rowBytes := (m + 7) / 8

	u, err := iknp.io.ReceiveData()
	if err != nil {
		return err
	}
	if len(u) != IKNPK*rowBytes {
		return fmt.Errorf("otext: invalid U matrix: got %d bytes, expected %d",
			len(u), IKNPK*rowBytes)
	}

	// q_i = G(k_{s_i}) ^ s_i*u_i = t_i ^ s_i*r
	rows := make([][]byte, IKNPK)
	for i := 0; i < IKNPK; i++ {
		rows[i] = make([]byte, rowBytes)
		iknp.seeds[i].read(rows[i])
		if iknp.choices[i] {
			xorBytes(rows[i], u[i*rowBytes:(i+1)*rowBytes])
		}
	}

	out := make([]byte, m*32)
	var q ot.LabelData
	for j := 0; j < m; j++ {
		column(rows, j, &q)
		y0 := iknp.hash.sum(iknp.ctr+uint64(j), &q)
		xorBytes(q[:], iknp.s[:])
		y1 := iknp.hash.sum(iknp.ctr+uint64(j), &q)

		l0 := wires[j].L0
		l0.Xor(y0)
		l1 := wires[j].L1
		l1.Xor(y1)

		var d ot.LabelData
		l0.GetData(&d)
		copy(out[j*32:], d[:])
		l1.GetData(&d)
		copy(out[j*32+16:], d[:])
	}
	iknp.ctr += uint64(m)

	if err := iknp.io.SendData(out); err != nil {
		return err
	}
	return iknp.io.Flush()
}

// Receive implements ot.OT.Receive.
func (iknp *IKNP) Receive(flags []bool, result []ot.Label) error {
	if iknp.seeds0 == nil {
		return fmt.Errorf("otext: receiver not initialized")
	}
	m := len(flags)
	if len(result) < m {
		return fmt.Errorf("otext: result too short: %d < %d", len(result), m)
	}
	if m == 0 {
		return nil
	}
	rowBytes := (m + 7) / 8

	r := make([]byte, rowBytes)
	for j, f := range flags {
		if f {
			r[j/8] |= 1 << (j % 8)
		}
	}

	// u_i = t_i ^ G(k1_i) ^ r
	rows := make([][]byte, IKNPK)
	u := make([]byte, IKNPK*rowBytes)
	g := make([]byte, rowBytes)
	for i := 0; i < IKNPK; i++ {
		rows[i] = make([]byte, rowBytes)
		iknp.seeds0[i].read(rows[i])
		iknp.seeds1[i].read(g)

		ui := u[i*rowBytes : (i+1)*rowBytes]
		copy(ui, rows[i])
		xorBytes(ui, g)
		xorBytes(ui, r)
	}
	if err := iknp.io.SendData(u); err != nil {
		return err
	}
	if err := iknp.io.Flush(); err != nil {
		return err
	}

	data, err := iknp.io.ReceiveData()
	if err != nil {
		return err
	}
	if len(data) != m*32 {
		return fmt.Errorf("otext: invalid labels: got %d bytes, expected %d",
			len(data), m*32)
	}
	var t ot.LabelData
	for j := 0; j < m; j++ {
		column(rows, j, &t)
		h := iknp.hash.sum(iknp.ctr+uint64(j), &t)

		ofs := j * 32
		if flags[j] {
			ofs += 16
		}
		if err := result[j].SetBytes(data[ofs : ofs+16]); err != nil {
			return err
		}
		result[j].Xor(h)
	}
	iknp.ctr += uint64(m)

	return nil
}

// column extracts the column j of the IKNPK x m bit matrix rows.
func column(rows [][]byte, j int, col *ot.LabelData) {
	*col = ot.LabelData{}
	byteRow := j / 8
	bitPos := j % 8
	for i := 0; i < IKNPK; i++ {
		if (rows[i][byteRow]>>bitPos)&1 == 1 {
			col[i/8] |= 1 << (i % 8)
		}
	}
}

func xorBytes(dst, src []byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}
