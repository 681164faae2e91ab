// Package compression bridges archive storage to the codecs it uses: the
// LZHUF table codec for HEADER chunks and the per-entry payload codecs.
package compression

import (
	"fmt"

	"github.com/meigma/xdb/internal/dbtype"
	"github.com/meigma/xdb/internal/lzhuf"
)

// DefaultMaxTableSize bounds the decoded size of an entry table.
const DefaultMaxTableSize = 256 << 20

// CompressTable encodes a raw entry table for storage in a HEADER chunk.
func CompressTable(raw []byte) ([]byte, error) {
	out, err := lzhuf.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dbtype.ErrSizeOverflow, err)
	}
	return out, nil
}

// ExpandTable decodes a stored entry table using DefaultMaxTableSize.
func ExpandTable(stored []byte) ([]byte, error) {
	return Table{}.Expand(stored)
}

// Table expands compressed HEADER chunks. It satisfies chunk.Expander.
type Table struct {
	// MaxSize caps the decoded table. Zero means DefaultMaxTableSize.
	MaxSize int
}

// Expand decodes stored into a new slice.
func (t Table) Expand(stored []byte) ([]byte, error) {
	limit := t.MaxSize
	if limit <= 0 {
		limit = DefaultMaxTableSize
	}
	out, err := lzhuf.Decompress(stored, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: entry table: %w", dbtype.ErrDecompression, err)
	}
	return out, nil
}
