//
// pipe_test.go
//
// Copyright (c) 2023-2026 Markku Rossi
//
// All rights reserved.

package ot

import (
	"bytes"
	"io"
	"testing"
)

func TestPipe(t *testing.T) {
	a, b := NewPipe()

	if err := a.SendUint32(42); err != nil {
		t.Fatalf("SendUint32: %v", err)
	}
	hello := []byte("Hello, world!")
	if err := a.SendData(hello); err != nil {
		t.Fatalf("SendData: %v", err)
	}
	// The message is a copy of the argument buffer.
	hello[0] = 'J'

	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := a.SendData(hello); err != io.ErrClosedPipe {
		t.Errorf("SendData after Close: got %v, expected %v",
			err, io.ErrClosedPipe)
	}

	val, err := b.ReceiveUint32()
	if err != nil {
		t.Fatalf("ReceiveUint32: %v", err)
	}
	if val != 42 {
		t.Errorf("ReceiveUint32: got %v, expected 42", val)
	}
	data, err := b.ReceiveData()
	if err != nil {
		t.Fatalf("ReceiveData: %v", err)
	}
	if !bytes.Equal(data, []byte("Hello, world!")) {
		t.Errorf("ReceiveData: got %q", data)
	}
	if _, err := b.ReceiveUint32(); err != io.EOF {
		t.Errorf("ReceiveUint32 after Close: got %v, expected EOF", err)
	}
}

func TestPipeFraming(t *testing.T) {
	a, b := NewPipe()

	if err := a.SendData([]byte{1, 2}); err != nil {
		t.Fatal(err)
	}
	if err := a.Flush(); err != nil {
		t.Fatal(err)
	}
	if _, err := b.ReceiveUint32(); err == nil {
		t.Errorf("ReceiveUint32 accepted a 2-byte message")
	}
}
