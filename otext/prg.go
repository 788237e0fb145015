//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

package otext

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/binary"
	"hash"

	"github.com/markkurossi/mpcnet/ot"
)

// prg expands a base OT label into a pseudo-random stream. The
// stream state is kept between calls so consecutive expansions never
// reuse key stream.
type prg struct {
	stream cipher.Stream
}

func newPRG(seed ot.Label) (*prg, error) {
	var key ot.LabelData
	seed.GetData(&key)

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	var iv [aes.BlockSize]byte
	return &prg{
		stream: cipher.NewCTR(block, iv[:]),
	}, nil
}

// read fills out with the next bytes of the stream.
func (p *prg) read(out []byte) {
	for i := range out {
		out[i] = 0
	}
	p.stream.XORKeyStream(out, out)
}

// tweakHash implements the correlation robust hash H(j, x) breaking
// the correlation between the extended OT columns.
type tweakHash struct {
	h   hash.Hash
	buf [sha256.Size]byte
}

func newTweakHash() *tweakHash {
	return &tweakHash{
		h: sha256.New(),
	}
}

func (t *tweakHash) sum(j uint64, x *ot.LabelData) ot.Label {
	var tweak [8]byte
	binary.BigEndian.PutUint64(tweak[:], j)

	t.h.Reset()
	t.h.Write(tweak[:])
	t.h.Write(x[:])
	digest := t.h.Sum(t.buf[:0])

	var result ot.Label
	result.SetBytes(digest)
	return result
}
