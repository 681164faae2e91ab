package compression

import (
	"bytes"
	"fmt"
	"math"
	"sync"

	lzo "github.com/rasky/go-lzo"

	"github.com/meigma/xdb/internal/dbtype"
	"github.com/meigma/xdb/internal/lzhuf"
	"github.com/meigma/xdb/internal/sizing"
)

// maxPooledCap keeps very large buffers out of the pool.
const maxPooledCap = 8 << 20

// Buffer holds an expanded payload. Callers must call Release when done,
// after which Bytes must not be used.
type Buffer struct {
	data []byte
	pool *Pool
}

// Bytes returns the expanded payload.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data
}

// Len returns the payload length.
func (b *Buffer) Len() int {
	return len(b.Bytes())
}

// Release returns the buffer to its pool. Safe to call more than once.
func (b *Buffer) Release() {
	if b == nil || b.data == nil {
		return
	}
	if b.pool != nil && cap(b.data) <= maxPooledCap {
		buf := b.data[:0]
		b.pool.bufs.Put(&buf)
	}
	b.data = nil
	b.pool = nil
}

// Pool expands entry payloads, reusing copy buffers between entries.
type Pool struct {
	bufs        sync.Pool
	maxFileSize uint64
}

// NewPool creates a Pool. maxFileSize caps stored and expanded sizes;
// zero disables the check.
func NewPool(maxFileSize uint64) *Pool {
	return &Pool{maxFileSize: maxFileSize}
}

func (p *Pool) get(n int) *Buffer {
	if p == nil {
		return &Buffer{data: make([]byte, n)}
	}
	if v, ok := p.bufs.Get().(*[]byte); ok && cap(*v) >= n {
		return &Buffer{data: (*v)[:n], pool: p}
	}
	return &Buffer{data: make([]byte, n), pool: p}
}

// Expand returns the real payload of a file entry read from archive.
//
// Legacy 1114 entries are copied when flagged uncompressed and otherwise
// decoded with LZHUF, which records its own output size. Newer layouts are
// LZO1X compressed when the real and stored sizes differ and copied
// otherwise. CRC verification is left to the caller.
func (p *Pool) Expand(layout dbtype.Layout, entry *dbtype.Entry, archive []byte) (*Buffer, error) {
	var maxFileSize uint64
	if p != nil {
		maxFileSize = p.maxFileSize
	}
	start, end, err := ValidateForRead(entry, len(archive), maxFileSize)
	if err != nil {
		return nil, err
	}
	stored := archive[start:end]

	switch {
	case layout == dbtype.Layout1114 && !entry.Uncompressed:
		limit := 0
		if maxFileSize > 0 && maxFileSize <= math.MaxInt {
			limit = int(maxFileSize)
		}
		out, err := lzhuf.Decompress(stored, limit)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", dbtype.ErrDecompression, entry.Path, err)
		}
		return &Buffer{data: out}, nil

	case layout != dbtype.Layout1114 && entry.SizeReal != entry.SizeCompressed:
		outLen, err := sizing.ToInt(entry.SizeReal, dbtype.ErrSizeOverflow)
		if err != nil {
			return nil, err
		}
		out, err := lzo.Decompress1X(bytes.NewReader(stored), len(stored), outLen)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", dbtype.ErrDecompression, entry.Path, err)
		}
		if len(out) != outLen {
			return nil, fmt.Errorf("%w: %s: expanded to %d bytes, want %d",
				dbtype.ErrDecompression, entry.Path, len(out), entry.SizeReal)
		}
		return &Buffer{data: out}, nil

	default:
		buf := p.get(len(stored))
		copy(buf.data, stored)
		return buf, nil
	}
}
