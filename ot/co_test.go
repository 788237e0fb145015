//
// co_test.go
//
// Copyright (c) 2023-2026 Markku Rossi
//
// All rights reserved.
//

package ot

import (
	"crypto/rand"
	"testing"
)

func TestCO(t *testing.T) {
	const count = 16

	wires := make([]Wire, count)
	flags := make([]bool, count)
	for i := range wires {
		l0, err := NewLabel(rand.Reader)
		if err != nil {
			t.Fatalf("NewLabel: %v", err)
		}
		l1, err := NewLabel(rand.Reader)
		if err != nil {
			t.Fatalf("NewLabel: %v", err)
		}
		wires[i] = Wire{
			L0: l0,
			L1: l1,
		}
		flags[i] = i%3 == 0
	}

	sPipe, rPipe := NewPipe()
	done := make(chan error)

	go func() {
		sender := NewCO(nil)
		if err := sender.InitSender(sPipe); err != nil {
			done <- err
			return
		}
		done <- sender.Send(wires)
	}()

	receiver := NewCO(rand.Reader)
	if err := receiver.InitReceiver(rPipe); err != nil {
		t.Fatalf("InitReceiver: %v", err)
	}
	result := make([]Label, count)
	if err := receiver.Receive(flags, result); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Send: %v", err)
	}

	for i, flag := range flags {
		expected := wires[i].L0
		if flag {
			expected = wires[i].L1
		}
		if !result[i].Equal(expected) {
			t.Errorf("label %d: got %v, expected %v", i, result[i], expected)
		}
	}
}

func TestBits(t *testing.T) {
	m0 := []bool{false, true, false, true, true}
	m1 := []bool{true, true, false, false, true}
	choices := []bool{true, false, true, true, false}

	sPipe, rPipe := NewPipe()
	done := make(chan error)

	go func() {
		sender := NewCO(nil)
		if err := sender.InitSender(sPipe); err != nil {
			done <- err
			return
		}
		done <- SendBits(sender, m0, m1)
	}()

	receiver := NewCO(nil)
	if err := receiver.InitReceiver(rPipe); err != nil {
		t.Fatalf("InitReceiver: %v", err)
	}
	result, err := ReceiveBits(receiver, choices)
	if err != nil {
		t.Fatalf("ReceiveBits: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("SendBits: %v", err)
	}
	for i, c := range choices {
		expected := m0[i]
		if c {
			expected = m1[i]
		}
		if result[i] != expected {
			t.Errorf("bit %d: got %v, expected %v", i, result[i], expected)
		}
	}

	if err := SendBits(NewCO(nil), m0, m1[:2]); err == nil {
		t.Errorf("SendBits accepted mismatched messages")
	}
}
