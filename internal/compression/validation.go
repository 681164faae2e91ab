package compression

import (
	"fmt"
	"hash/crc32"

	"github.com/meigma/xdb/internal/dbtype"
	"github.com/meigma/xdb/internal/sizing"
)

// ValidateForRead checks that an entry's stored bytes lie inside an archive
// of archiveLen bytes and that its sizes respect maxFileSize (if > 0).
// It returns the stored span.
func ValidateForRead(entry *dbtype.Entry, archiveLen int, maxFileSize uint64) (start, end int, err error) {
	if maxFileSize > 0 {
		if uint64(entry.SizeCompressed) > maxFileSize || uint64(entry.SizeReal) > maxFileSize {
			return 0, 0, fmt.Errorf("%w: %s exceeds %d bytes", dbtype.ErrSizeOverflow, entry.Path, maxFileSize)
		}
	}
	start, end, ok := sizing.Span(entry.Offset, entry.SizeCompressed, archiveLen)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s at %d+%d outside %d-byte archive",
			dbtype.ErrSizeOverflow, entry.Path, entry.Offset, entry.SizeCompressed, archiveLen)
	}
	return start, end, nil
}

// VerifyCRC compares data against the entry's recorded CRC-32.
// Entries without a checksum always pass.
func VerifyCRC(entry *dbtype.Entry, data []byte) error {
	if !entry.HasCRC {
		return nil
	}
	if got := crc32.ChecksumIEEE(data); got != entry.CRC {
		return fmt.Errorf("%w: %s: got %08x, want %08x", dbtype.ErrCRCMismatch, entry.Path, got, entry.CRC)
	}
	return nil
}
