// Package sizing provides overflow-checked conversions between the 32-bit
// sizes stored in archives and the native integer types used to index them.
package sizing

import "math"

// ToUint32 converts a non-negative int64 to uint32, returning overflowErr if
// it is negative or does not fit.
func ToUint32(n int64, overflowErr error) (uint32, error) {
	if n < 0 || n > math.MaxUint32 {
		return 0, overflowErr
	}
	return uint32(n), nil
}

// ToInt converts a uint32 to int, returning overflowErr if it doesn't fit.
func ToInt(n uint32, overflowErr error) (int, error) {
	if uint64(n) > uint64(math.MaxInt) {
		return 0, overflowErr
	}
	return int(n), nil
}

// AddUint32 adds two uint32 values, returning (result, false) on overflow.
func AddUint32(a, b uint32) (uint32, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}

// Span returns the [start, end) indices of a size-byte region at offset
// inside a buffer of length bufLen. ok is false when the region does not fit.
func Span(offset, size uint32, bufLen int) (start, end int, ok bool) {
	last, ok := AddUint32(offset, size)
	if !ok || uint64(last) > uint64(bufLen) {
		return 0, 0, false
	}
	return int(offset), int(last), true
}
