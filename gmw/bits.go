//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package gmw

// PackBits packs the bit values, one bit per byte, into a byte array
// in little-endian bit order.
func PackBits(bits []byte) []byte {
	result := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		result[i/8] |= (bit & 1) << (i % 8)
	}
	return result
}

// UnpackBits unpacks count bits from the packed byte array. The
// result holds one bit per byte.
func UnpackBits(data []byte, count int) []byte {
	result := make([]byte, count)
	for i := 0; i < count && i/8 < len(data); i++ {
		result[i] = (data[i/8] >> (i % 8)) & 1
	}
	return result
}

func xorBytes(dst, src []byte) {
	for i := 0; i < len(dst) && i < len(src); i++ {
		dst[i] ^= src[i]
	}
}
