//
// label.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package ot

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Label is a 128 bit OT message. The bit transfers of SendBits and
// ReceiveBits carry their payload in the least significant bit.
type Label struct {
	D0 uint64
	D1 uint64
}

// LabelData is the big endian byte form of a Label.
type LabelData [16]byte

// Wire holds the two messages of one transfer.
type Wire struct {
	L0 Label
	L1 Label
}

// NewLabel creates a random label.
func NewLabel(rand io.Reader) (Label, error) {
	var data LabelData
	if _, err := io.ReadFull(rand, data[:]); err != nil {
		return Label{}, err
	}
	var l Label
	l.SetData(&data)
	return l, nil
}

func (l Label) String() string {
	return fmt.Sprintf("%016x%016x", l.D0, l.D1)
}

// Equal tests if the labels are equal.
func (l Label) Equal(o Label) bool {
	return l == o
}

// Bit returns the least significant bit.
func (l Label) Bit() bool {
	return l.D1&1 == 1
}

// SetBit sets the least significant bit.
func (l *Label) SetBit(bit bool) {
	l.D1 &^= 1
	if bit {
		l.D1 |= 1
	}
}

// Xor sets l to l^o.
func (l *Label) Xor(o Label) {
	l.D0 ^= o.D0
	l.D1 ^= o.D1
}

// GetData stores the label into data.
func (l Label) GetData(data *LabelData) {
	binary.BigEndian.PutUint64(data[:8], l.D0)
	binary.BigEndian.PutUint64(data[8:], l.D1)
}

// SetData sets the label from data.
func (l *Label) SetData(data *LabelData) {
	l.D0 = binary.BigEndian.Uint64(data[:8])
	l.D1 = binary.BigEndian.Uint64(data[8:])
}

// SetBytes sets the label from the first 16 bytes of data.
func (l *Label) SetBytes(data []byte) error {
	if len(data) < len(LabelData{}) {
		return fmt.Errorf("label data too short: %d", len(data))
	}
	var d LabelData
	copy(d[:], data)
	l.SetData(&d)
	return nil
}
