// Package scrambler implements the reversible keyed byte transform that the
// RU and WW archive variants apply to their compressed entry table.
//
// Each byte is substituted through a permutation table and mixed with a
// key stream drawn from a linear congruential generator. The permutation is
// shared by both variants; the key stream seed selects the variant. There is
// no integrity check: deciphering with the wrong variant silently produces
// garbage.
package scrambler

import "fmt"

// Variant selects one of the two distribution keys.
type Variant uint8

const (
	// VariantRU is the key used by the Russian release.
	VariantRU Variant = iota + 1

	// VariantWW is the key used by the world-wide release.
	VariantWW
)

// String returns the variant's short name.
func (v Variant) String() string {
	switch v {
	case VariantRU:
		return "ru"
	case VariantWW:
		return "ww"
	default:
		return "unknown"
	}
}

const (
	seedMult  = 0x8088405
	tableSeed = 0x5bbc4b
	seedRU    = 0x131a9d3
	seedWW    = 0x16eb2eb

	// tablePasses is the number of swaps per table slot during key setup.
	tablePasses = 4
)

// Scrambler enciphers and deciphers byte slices for one variant.
// It holds no per-call state and is safe for concurrent use.
type Scrambler struct {
	seed uint32
	enc  [256]byte
	dec  [256]byte
}

// New returns a Scrambler keyed for variant.
func New(variant Variant) (*Scrambler, error) {
	s := &Scrambler{}
	switch variant {
	case VariantRU:
		s.seed = seedRU
	case VariantWW:
		s.seed = seedWW
	default:
		return nil, fmt.Errorf("scrambler: unknown variant %d", variant)
	}
	s.initTables()
	return s, nil
}

func next(seed uint32) uint32 {
	return 1 + seed*seedMult
}

func (s *Scrambler) initTables() {
	for i := range s.dec {
		s.dec[i] = byte(i)
	}
	seed := uint32(tableSeed)
	for i := tablePasses * len(s.dec); i > 0; i-- {
		seed = next(seed)
		a := byte(seed >> 24)
		var b byte
		for {
			seed = next(seed)
			b = byte(seed >> 24)
			if a != b {
				break
			}
		}
		s.dec[a], s.dec[b] = s.dec[b], s.dec[a]
	}
	for i, v := range s.dec {
		s.enc[v] = byte(i)
	}
}

// Encrypt writes the enciphered form of src into dst.
// dst must be at least len(src) bytes and may alias src.
func (s *Scrambler) Encrypt(dst, src []byte) {
	seed := s.seed
	for i, c := range src {
		seed = next(seed)
		dst[i] = byte(seed>>24) ^ s.enc[c]
	}
}

// Decrypt writes the deciphered form of src into dst.
// dst must be at least len(src) bytes and may alias src.
func (s *Scrambler) Decrypt(dst, src []byte) {
	seed := s.seed
	for i, c := range src {
		seed = next(seed)
		dst[i] = s.dec[c^byte(seed>>24)]
	}
}
