// Package lzhuf implements the LZSS + adaptive Huffman codec used for the
// entry table of DB archives.
//
// A stream is the decoded length as a little-endian uint32 followed by the
// coded bits, most significant bit first, zero padded to a byte boundary.
// Literals and match lengths share one adaptive Huffman alphabet; match
// positions use a fixed prefix code for the upper six bits and six raw bits
// for the rest.
package lzhuf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	ringSize  = 4096 // sliding window
	lookahead = 60   // longest match
	threshold = 2    // matches of this length or shorter are sent as literals

	nChar    = 256 - threshold + lookahead // literals plus match lengths
	tableLen = nChar*2 - 1                 // huffman nodes
	root     = tableLen - 1
	maxFreq  = 0x8000

	nilNode  = ringSize
	lenBytes = 4

	// slackBits is how far the bit reader may run past the input before
	// the stream is declared truncated.
	slackBits = 32
)

var (
	// ErrCorrupt is returned when a stream cannot be decoded.
	ErrCorrupt = errors.New("lzhuf: corrupt stream")

	// ErrTooLarge is returned when input or declared output exceeds a limit.
	ErrTooLarge = errors.New("lzhuf: size exceeds limit")
)

// Position prefix code. Codes are assigned canonically in order of length,
// so the tables below are derived rather than spelled out.
var (
	posLen  [64]uint8  // bits in the prefix for each upper six bits
	posCode [64]uint8  // prefix left aligned in a byte
	decCode [256]uint8 // upper six bits for a leading byte
	decLen  [256]uint8 // prefix length for a leading byte
)

func init() {
	counts := [...]struct{ n, bits int }{
		{1, 3}, {3, 4}, {8, 5}, {12, 6}, {24, 7}, {16, 8},
	}
	i, code := 0, 0
	for _, c := range counts {
		for range c.n {
			posLen[i] = uint8(c.bits)
			posCode[i] = uint8(code)
			span := 1 << (8 - c.bits)
			for b := code; b < code+span; b++ {
				decCode[b] = uint8(i)
				decLen[b] = uint8(c.bits)
			}
			code += span
			i++
		}
	}
}

// DecodedLen returns the length recorded in the stream prefix.
func DecodedLen(src []byte) (int, error) {
	if len(src) < lenBytes {
		return 0, fmt.Errorf("%w: missing length prefix", ErrCorrupt)
	}
	return int(binary.LittleEndian.Uint32(src)), nil
}

// Compress encodes src. Empty input yields only the length prefix.
func Compress(src []byte) ([]byte, error) {
	if uint64(len(src)) > math.MaxUint32 {
		return nil, ErrTooLarge
	}
	out := make([]byte, lenBytes, lenBytes+len(src)/2+16)
	binary.LittleEndian.PutUint32(out, uint32(len(src)))
	if len(src) == 0 {
		return out, nil
	}
	e := newEncoder(out)
	e.encode(src)
	return e.bits.finish(), nil
}

// Decompress decodes src. The declared length must not exceed limit;
// a limit of zero or less disables the check.
func Decompress(src []byte, limit int) ([]byte, error) {
	n, err := DecodedLen(src)
	if err != nil {
		return nil, err
	}
	if limit > 0 && n > limit {
		return nil, fmt.Errorf("%w: declared %d bytes, limit %d", ErrTooLarge, n, limit)
	}
	dst := make([]byte, n)
	if n == 0 {
		return dst, nil
	}
	d := newDecoder(src[lenBytes:])
	if err := d.decode(dst); err != nil {
		return nil, err
	}
	return dst, nil
}
