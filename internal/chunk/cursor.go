package chunk

import (
	"bytes"
	"encoding/binary"
)

// Cursor reads little-endian fields sequentially from a chunk payload.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor returns a cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Bytes returns the full payload regardless of the read position.
func (c *Cursor) Bytes() []byte {
	return c.data
}

// Len returns the payload size.
func (c *Cursor) Len() int {
	return len(c.data)
}

// Pos returns the current read position.
func (c *Cursor) Pos() int {
	return c.pos
}

// EOF reports whether every byte has been consumed.
func (c *Cursor) EOF() bool {
	return c.pos >= len(c.data)
}

// Next returns the next n bytes and advances past them.
// The returned slice aliases the payload.
func (c *Cursor) Next(n int) ([]byte, error) {
	if n < 0 || n > len(c.data)-c.pos {
		return nil, ErrTruncated
	}
	b := c.data[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return b, nil
}

// U16 reads a little-endian uint16.
func (c *Cursor) U16() (uint16, error) {
	b, err := c.Next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// U32 reads a little-endian uint32.
func (c *Cursor) U32() (uint32, error) {
	b, err := c.Next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// CString reads a NUL-terminated string and consumes the terminator.
func (c *Cursor) CString() (string, error) {
	i := bytes.IndexByte(c.data[c.pos:], 0)
	if i < 0 {
		return "", ErrTruncated
	}
	s := string(c.data[c.pos : c.pos+i])
	c.pos += i + 1
	return s, nil
}
