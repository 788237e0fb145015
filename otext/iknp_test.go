//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

package otext

import (
	"crypto/rand"
	"testing"

	"github.com/markkurossi/mpcnet/ot"
	"github.com/markkurossi/mpcnet/p2p"
)

func randomWires(t testing.TB, n int) []ot.Wire {
	wires := make([]ot.Wire, n)
	for i := range wires {
		l0, err := ot.NewLabel(rand.Reader)
		if err != nil {
			t.Fatalf("NewLabel: %v", err)
		}
		l1, err := ot.NewLabel(rand.Reader)
		if err != nil {
			t.Fatalf("NewLabel: %v", err)
		}
		wires[i] = ot.Wire{
			L0: l0,
			L1: l1,
		}
	}
	return wires
}

func TestIKNP(t *testing.T) {
	c0, c1 := p2p.Pipe()

	// Two batches check that the PRG streams and hash tweaks advance
	// in sync.
	batches := []int{200, 1}

	var wires [][]ot.Wire
	for _, n := range batches {
		wires = append(wires, randomWires(t, n))
	}

	done := make(chan error)
	go func() {
		sender := NewIKNP(ot.NewCO(rand.Reader), rand.Reader)
		if err := sender.InitSender(c0); err != nil {
			done <- err
			return
		}
		for _, w := range wires {
			if err := sender.Send(w); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	receiver := NewIKNP(ot.NewCO(rand.Reader), rand.Reader)
	if err := receiver.InitReceiver(c1); err != nil {
		t.Fatalf("InitReceiver: %v", err)
	}
	for b, n := range batches {
		flags := make([]bool, n)
		for i := range flags {
			flags[i] = i%3 == 1
		}
		result := make([]ot.Label, n)
		if err := receiver.Receive(flags, result); err != nil {
			t.Fatalf("Receive: %v", err)
		}
		for i, l := range result {
			expected := wires[b][i].L0
			other := wires[b][i].L1
			if flags[i] {
				expected, other = other, expected
			}
			if !l.Equal(expected) {
				t.Fatalf("batch %d label %d: got %v, expected %v",
					b, i, l, expected)
			}
			if l.Equal(other) {
				t.Fatalf("batch %d label %d: received both labels", b, i)
			}
		}
	}
	if err := <-done; err != nil {
		t.Fatalf("Send: %v", err)
	}
}

func TestIKNPBits(t *testing.T) {
	const n = 300

	c0, c1 := p2p.Pipe()

	m0 := make([]bool, n)
	m1 := make([]bool, n)
	choices := make([]bool, n)
	for i := 0; i < n; i++ {
		m0[i] = i%2 == 0
		m1[i] = i%5 == 0
		choices[i] = i%7 < 3
	}

	done := make(chan error)
	go func() {
		sender := NewIKNP(ot.NewCO(rand.Reader), rand.Reader)
		if err := sender.InitSender(c0); err != nil {
			done <- err
			return
		}
		done <- ot.SendBits(sender, m0, m1)
	}()

	receiver := NewIKNP(ot.NewCO(rand.Reader), rand.Reader)
	if err := receiver.InitReceiver(c1); err != nil {
		t.Fatalf("InitReceiver: %v", err)
	}
	bits, err := ot.ReceiveBits(receiver, choices)
	if err != nil {
		t.Fatalf("ReceiveBits: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("SendBits: %v", err)
	}
	for i, bit := range bits {
		expected := m0[i]
		if choices[i] {
			expected = m1[i]
		}
		if bit != expected {
			t.Errorf("bit %d: got %v, expected %v", i, bit, expected)
		}
	}
}

func TestUninitialized(t *testing.T) {
	iknp := NewIKNP(ot.NewCO(rand.Reader), rand.Reader)
	if err := iknp.Send(make([]ot.Wire, 1)); err == nil {
		t.Errorf("Send succeeded without InitSender")
	}
	if err := iknp.Receive(make([]bool, 1), make([]ot.Label, 1)); err == nil {
		t.Errorf("Receive succeeded without InitReceiver")
	}
}

func BenchmarkIKNP(b *testing.B) {
	const n = 10000

	c0, c1 := p2p.Pipe()
	wires := randomWires(b, n)
	flags := make([]bool, n)
	result := make([]ot.Label, n)

	sender := NewIKNP(ot.NewCO(rand.Reader), rand.Reader)
	receiver := NewIKNP(ot.NewCO(rand.Reader), rand.Reader)

	done := make(chan error)
	go func() {
		done <- sender.InitSender(c0)
	}()
	if err := receiver.InitReceiver(c1); err != nil {
		b.Fatal(err)
	}
	if err := <-done; err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		go func() {
			done <- sender.Send(wires)
		}()
		if err := receiver.Receive(flags, result); err != nil {
			b.Fatal(err)
		}
		if err := <-done; err != nil {
			b.Fatal(err)
		}
	}
}
