package xdb

import (
	"errors"

	"github.com/meigma/xdb/internal/chunk"
	"github.com/meigma/xdb/internal/dbtype"
)

var (
	// ErrUnspecifiedVersion is returned when no single format version can
	// be resolved from flags and file extension.
	ErrUnspecifiedVersion = errors.New("xdb: unspecified archive version")

	// ErrUnsupportedVersion is returned when packing is asked for a legacy format.
	ErrUnsupportedVersion = errors.New("xdb: unsupported archive version")

	// ErrSourceNotDir is returned when the pack source is not a directory.
	ErrSourceNotDir = errors.New("xdb: source is not a directory")

	// ErrMissingHeader is returned when an archive has no HEADER chunk.
	ErrMissingHeader = errors.New("xdb: missing header chunk")
)

// Errors re-exported from internal packages.
var (
	// ErrCRCMismatch is returned when a payload does not match its recorded CRC.
	ErrCRCMismatch = dbtype.ErrCRCMismatch

	// ErrDecompression is returned when a payload or the entry table fails to decompress.
	ErrDecompression = dbtype.ErrDecompression

	// ErrSizeOverflow is returned when sizes or offsets exceed the format's
	// 32-bit limits or the bounds of the archive.
	ErrSizeOverflow = dbtype.ErrSizeOverflow

	// ErrCorruptTable is returned when the entry table cannot be decoded.
	ErrCorruptTable = dbtype.ErrCorruptTable

	// ErrPathTooLong is returned when a packed path does not fit a table record.
	ErrPathTooLong = dbtype.ErrPathTooLong

	// ErrTruncated is returned when a chunk runs past the end of the archive.
	ErrTruncated = chunk.ErrTruncated

	// ErrDuplicateChunk is returned when a chunk id appears more than once.
	ErrDuplicateChunk = chunk.ErrDuplicate
)
