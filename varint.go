package smc

import (
	"encoding/binary"
	"math"
)

var (
	n1 = uint64(math.Pow(2, 7))
	n2 = uint64(math.Pow(2, 14))
	n3 = uint64(math.Pow(2, 21))
	n4 = uint64(math.Pow(2, 28))
	n5 = uint64(math.Pow(2, 35))
	n6 = uint64(math.Pow(2, 42))
	n7 = uint64(math.Pow(2, 49))
	n8 = uint64(math.Pow(2, 56))
	n9 = uint64(math.Pow(2, 63))
)

// encodingLength returns the number of bytes the varint encoding of i
// occupies on the wire.
func encodingLength(i uint64) int {
	if i < n1 {
		return 1
	} else if i < n2 {
		return 2
	} else if i < n3 {
		return 3
	} else if i < n4 {
		return 4
	} else if i < n5 {
		return 5
	} else if i < n6 {
		return 6
	} else if i < n7 {
		return 7
	} else if i < n8 {
		return 8
	} else if i < n9 {
		return 9
	}
	return 10
}

// uvarint decodes a base-128 little-endian unsigned integer from buf,
// returning the value and the number of bytes consumed. It fails with
// ErrMessageMalformed if buf ends before a byte with its continuation bit
// clear, or if the encoding overflows 64 bits.
func uvarint(buf []byte) (uint64, int, error) {
	x, n := binary.Uvarint(buf)
	if n <= 0 {
		return 0, 0, ErrMessageMalformed
	}
	return x, n, nil
}
