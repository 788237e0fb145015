//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package ot

import (
	"fmt"
)

// SendBits transfers one of the bits m0[i] and m1[i] for each i. The
// receiver learns the bit selected by its choice bit and the sender
// learns nothing about the choices.
func SendBits(o OT, m0, m1 []bool) error {
	if len(m0) != len(m1) {
		return fmt.Errorf("message length mismatch: %d != %d",
			len(m0), len(m1))
	}
	wires := make([]Wire, len(m0))
	for i := range wires {
		wires[i].L0.SetBit(m0[i])
		wires[i].L1.SetBit(m1[i])
	}
	return o.Send(wires)
}

// ReceiveBits receives the bits selected by choices from the peer
// calling SendBits.
func ReceiveBits(o OT, choices []bool) ([]bool, error) {
	labels := make([]Label, len(choices))
	if err := o.Receive(choices, labels); err != nil {
		return nil, err
	}
	result := make([]bool, len(choices))
	for i, l := range labels {
		result[i] = l.Bit()
	}
	return result, nil
}
