//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.

package otext

import (
	"bytes"
	"testing"

	"github.com/markkurossi/mpcnet/ot"
)

func TestPRGStream(t *testing.T) {
	seed := ot.Label{D0: 1, D1: 2}

	p0, err := newPRG(seed)
	if err != nil {
		t.Fatal(err)
	}
	p1, err := newPRG(seed)
	if err != nil {
		t.Fatal(err)
	}

	whole := make([]byte, 48)
	p0.read(whole)

	first := make([]byte, 16)
	second := make([]byte, 32)
	p1.read(first)
	p1.read(second)

	if !bytes.Equal(whole[:16], first) || !bytes.Equal(whole[16:], second) {
		t.Errorf("split reads differ from a single read")
	}
	if bytes.Equal(first, second[:16]) {
		t.Errorf("stream repeats between reads")
	}
}

func BenchmarkPRG1K(b *testing.B) {
	benchmarkPRG(b, 1000)
}

func BenchmarkPRG100K(b *testing.B) {
	benchmarkPRG(b, 100000)
}

func benchmarkPRG(b *testing.B, n int) {
	p, err := newPRG(ot.Label{})
	if err != nil {
		b.Fatal(err)
	}
	out := make([]byte, n)

	for b.Loop() {
		p.read(out)
	}
}
