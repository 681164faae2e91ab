// Package chunk implements the tagged, sized sub-region protocol used by DB
// archives. An archive is a flat sequence of sibling chunks, each laid out as
//
//	id:u32 (bit 31 set when the payload is compressed) | size:u32 | payload
//
// with all integers little-endian.
package chunk

import "errors"

// Chunk identifiers used by DB archives.
const (
	IDData     uint32 = 0
	IDHeader   uint32 = 1
	IDUserData uint32 = 0x29a
)

// FlagCompressed is OR'd into a chunk id when its payload is compressed.
const FlagCompressed uint32 = 0x80000000

// headerSize is the size of the id and size fields preceding a payload.
const headerSize = 8

var (
	// ErrNotFound is returned when the requested chunk is absent.
	ErrNotFound = errors.New("chunk: not found")

	// ErrTruncated is returned when a chunk or field extends past the end of its buffer.
	ErrTruncated = errors.New("chunk: truncated")

	// ErrDuplicate is returned when a chunk id appears more than once.
	ErrDuplicate = errors.New("chunk: duplicate id")

	// ErrNested is returned when a chunk is opened while another is still open.
	ErrNested = errors.New("chunk: nested chunks are not supported")

	// ErrNotOpen is returned when CloseChunk is called with no open chunk.
	ErrNotOpen = errors.New("chunk: no open chunk")

	// ErrSizeOverflow is returned when a chunk size or position exceeds 32 bits.
	ErrSizeOverflow = errors.New("chunk: size overflow")
)
