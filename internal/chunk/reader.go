package chunk

import (
	"encoding/binary"
	"fmt"
)

// Cipher deciphers the stored bytes of a chunk.
type Cipher interface {
	Decrypt(dst, src []byte)
}

// Expander decompresses a chunk flagged as compressed.
type Expander interface {
	Expand(src []byte) ([]byte, error)
}

// Info describes a chunk located inside a buffer.
type Info struct {
	// ID is the chunk id with the compressed flag cleared.
	ID uint32

	// Compressed reports whether the stored id carried FlagCompressed.
	Compressed bool

	// Offset is the position of the payload (after the 8-byte chunk header).
	Offset int

	// Data is the stored payload. It aliases the reader's buffer.
	Data []byte
}

// Reader locates chunks inside a flat byte buffer.
type Reader struct {
	data []byte
}

// NewReader returns a Reader over data. The buffer is never modified.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Data returns the underlying buffer.
func (r *Reader) Data() []byte {
	return r.data
}

// Find returns the chunk with the given id.
//
// The whole sibling sequence is scanned so that duplicate ids and declared
// sizes running past the end of the buffer are reported. Fewer than eight
// trailing bytes are ignored.
func (r *Reader) Find(id uint32) (Info, error) {
	var (
		found Info
		ok    bool
	)
	for pos := 0; len(r.data)-pos >= headerSize; {
		tag := binary.LittleEndian.Uint32(r.data[pos:])
		size := binary.LittleEndian.Uint32(r.data[pos+4:])
		start := pos + headerSize
		if uint64(size) > uint64(len(r.data)-start) {
			return Info{}, fmt.Errorf("%w: chunk 0x%x at %d declares %d bytes, %d remain",
				ErrTruncated, tag&^FlagCompressed, pos, size, len(r.data)-start)
		}
		end := start + int(size)
		if tag&^FlagCompressed == id {
			if ok {
				return Info{}, fmt.Errorf("%w: 0x%x", ErrDuplicate, id)
			}
			found = Info{
				ID:         id,
				Compressed: tag&FlagCompressed != 0,
				Offset:     start,
				Data:       r.data[start:end:end],
			}
			ok = true
		}
		pos = end
	}
	if !ok {
		return Info{}, fmt.Errorf("%w: 0x%x", ErrNotFound, id)
	}
	return found, nil
}

// OpenOption configures how a chunk's payload is prepared by Open.
type OpenOption func(*openConfig)

type openConfig struct {
	cipher   Cipher
	expander Expander
}

// WithCipher deciphers the stored bytes before anything else is applied.
func WithCipher(c Cipher) OpenOption {
	return func(cfg *openConfig) {
		cfg.cipher = c
	}
}

// WithExpander decompresses the (deciphered) payload when the chunk is
// flagged as compressed.
func WithExpander(x Expander) OpenOption {
	return func(cfg *openConfig) {
		cfg.expander = x
	}
}

// Open returns a cursor over the payload of the chunk with the given id.
//
// With a cipher, the payload is deciphered into a private copy; the
// reader's buffer is left untouched. Decompression, when configured and
// flagged, runs on the deciphered bytes.
func (r *Reader) Open(id uint32, opts ...OpenOption) (*Cursor, error) {
	cfg := openConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	info, err := r.Find(id)
	if err != nil {
		return nil, err
	}

	data := info.Data
	if cfg.cipher != nil {
		plain := make([]byte, len(data))
		cfg.cipher.Decrypt(plain, data)
		data = plain
	}
	if info.Compressed && cfg.expander != nil {
		data, err = cfg.expander.Expand(data)
		if err != nil {
			return nil, fmt.Errorf("expand chunk 0x%x: %w", id, err)
		}
	}
	return NewCursor(data), nil
}
