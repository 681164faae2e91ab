package chunk

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Writer emits sibling chunks to an io.WriteSeeker.
//
// OpenChunk writes the chunk tag and a size placeholder, Write appends raw
// payload bytes and CloseChunk seeks back to patch the size once it is known.
type Writer struct {
	w     io.WriteSeeker
	pos   int64
	start int64 // payload start of the open chunk, -1 when none is open
}

// NewWriter returns a Writer that starts at w's current position.
func NewWriter(w io.WriteSeeker) (*Writer, error) {
	pos, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("chunk: locate writer: %w", err)
	}
	return &Writer{w: w, pos: pos, start: -1}, nil
}

// Tell returns the absolute position of the next byte to be written.
func (w *Writer) Tell() int64 {
	return w.pos
}

// OpenChunk starts a chunk with the given tag (an id, optionally OR'd with
// FlagCompressed). Chunks cannot be nested.
func (w *Writer) OpenChunk(tag uint32) error {
	if w.start >= 0 {
		return ErrNested
	}
	var hdr [headerSize]byte
	binary.LittleEndian.PutUint32(hdr[:], tag)
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	w.start = w.pos
	return nil
}

// Write appends p to the archive, counting the bytes written.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.pos += int64(n)
	if err == nil && w.pos > math.MaxUint32 {
		err = ErrSizeOverflow
	}
	return n, err
}

// CloseChunk patches the size field of the open chunk and restores the
// write position to the end of its payload.
func (w *Writer) CloseChunk() error {
	if w.start < 0 {
		return ErrNotOpen
	}
	size := w.pos - w.start
	if size > math.MaxUint32 {
		return ErrSizeOverflow
	}

	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(size))
	if _, err := w.w.Seek(w.start-4, io.SeekStart); err != nil {
		return fmt.Errorf("chunk: seek to size field: %w", err)
	}
	if _, err := w.w.Write(buf[:]); err != nil {
		return fmt.Errorf("chunk: patch size field: %w", err)
	}
	if _, err := w.w.Seek(w.pos, io.SeekStart); err != nil {
		return fmt.Errorf("chunk: seek to end: %w", err)
	}
	w.start = -1
	return nil
}

// WriteChunk writes a complete chunk holding payload.
func (w *Writer) WriteChunk(tag uint32, payload []byte) error {
	if err := w.OpenChunk(tag); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	return w.CloseChunk()
}
