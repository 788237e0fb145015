//
// pipe.go
//
// Copyright (c) 2023-2026 Markku Rossi
//
// All rights reserved.

package ot

import (
	"encoding/binary"
	"fmt"
	"io"
)

var (
	_ IO = &Pipe{}
)

const pipeQueue = 1024

// Pipe implements the IO interface in memory. Each SendData and
// SendUint32 call becomes one message which is delivered to the peer
// when the pipe is flushed.
type Pipe struct {
	in      <-chan []byte
	out     chan<- []byte
	pending [][]byte
	closed  bool
}

// NewPipe creates a new in-memory pipe pair.
func NewPipe() (*Pipe, *Pipe) {
	a := make(chan []byte, pipeQueue)
	b := make(chan []byte, pipeQueue)

	return &Pipe{in: a, out: b}, &Pipe{in: b, out: a}
}

// SendData implements IO.SendData.
func (p *Pipe) SendData(val []byte) error {
	if p.closed {
		return io.ErrClosedPipe
	}
	msg := make([]byte, len(val))
	copy(msg, val)
	p.pending = append(p.pending, msg)
	return nil
}

// SendUint32 implements IO.SendUint32.
func (p *Pipe) SendUint32(val int) error {
	return p.SendData(binary.BigEndian.AppendUint32(nil, uint32(val)))
}

// Flush implements IO.Flush.
func (p *Pipe) Flush() error {
	if p.closed {
		return io.ErrClosedPipe
	}
	for _, msg := range p.pending {
		p.out <- msg
	}
	p.pending = nil
	return nil
}

// Close flushes pending messages and closes the sending direction.
// The peer receives io.EOF after it has consumed all messages.
func (p *Pipe) Close() error {
	if err := p.Flush(); err != nil {
		return err
	}
	p.closed = true
	close(p.out)
	return nil
}

// ReceiveData implements IO.ReceiveData.
func (p *Pipe) ReceiveData() ([]byte, error) {
	msg, ok := <-p.in
	if !ok {
		return nil, io.EOF
	}
	return msg, nil
}

// ReceiveUint32 implements IO.ReceiveUint32.
func (p *Pipe) ReceiveUint32() (int, error) {
	msg, err := p.ReceiveData()
	if err != nil {
		return 0, err
	}
	if len(msg) != 4 {
		return 0, fmt.Errorf("ot: invalid uint32 message: %d bytes", len(msg))
	}
	return int(binary.BigEndian.Uint32(msg)), nil
}
