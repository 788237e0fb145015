//
// ot.go
//
// Copyright (c) 2023-2026 Markku Rossi
//
// All rights reserved.

// Package ot implements 1-out-of-2 oblivious transfer and bit
// transfers on top of it.
package ot

import (
	"math/big"
)

// IO defines the message transport between the OT peers. Sent data
// is buffered until Flush.
type IO interface {
	SendData(val []byte) error
	SendUint32(val int) error
	Flush() error
	ReceiveData() ([]byte, error)
	ReceiveUint32() (int, error)
}

// OT defines the 1-out-of-2 Oblivious Transfer protocol. The sender
// calls Send with wires holding the zero and one labels and the
// receiver calls Receive with one selection bit per wire. The caller
// must ensure the wire and flag counts match.
type OT interface {
	InitSender(io IO) error
	InitReceiver(io IO) error
	Send(wires []Wire) error
	Receive(flags []bool, result []Label) error
}

func sendString(io IO, str string) error {
	return io.SendData([]byte(str))
}

func receiveString(io IO) (string, error) {
	data, err := io.ReceiveData()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func receiveBigInt(io IO) (*big.Int, error) {
	data, err := io.ReceiveData()
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(data), nil
}
