package dbtype

import "errors"

// Sentinel errors for archive operations.
var (
	// ErrCRCMismatch is returned when a payload does not match its recorded CRC.
	ErrCRCMismatch = errors.New("xdb: crc verification failed")

	// ErrDecompression is returned when a payload or table fails to decompress.
	ErrDecompression = errors.New("xdb: decompression failed")

	// ErrSizeOverflow is returned when sizes or offsets exceed the format's
	// limits or the bounds of the archive.
	ErrSizeOverflow = errors.New("xdb: size overflow")

	// ErrCorruptTable is returned when the entry table cannot be decoded.
	ErrCorruptTable = errors.New("xdb: corrupt entry table")

	// ErrPathTooLong is returned when a path does not fit a length-prefixed record.
	ErrPathTooLong = errors.New("xdb: path too long")
)
