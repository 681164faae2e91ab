package testutil

import (
	"hash/crc32"
	"testing"

	"github.com/meigma/xdb/internal/chunk"
	"github.com/meigma/xdb/internal/dbtype"
	"github.com/meigma/xdb/internal/lzhuf"
	"github.com/meigma/xdb/internal/table"
)

// Encrypter enciphers a HEADER chunk payload.
type Encrypter interface {
	Encrypt(dst, src []byte)
}

// TestFile describes one entry of a fixture archive.
type TestFile struct {
	// Path is written to the table as given, so backslashes survive.
	Path string

	// Data is the real content. Ignored for folders.
	Data []byte

	// Stored overrides the bytes placed in the DATA chunk (e.g. an LZO
	// stream). When nil, 1114 entries without Uncompressed are LZHUF
	// encoded and every other entry stores Data verbatim.
	Stored []byte

	// Folder marks a directory record.
	Folder bool

	// Uncompressed sets the 1114 flag.
	Uncompressed bool

	// BadCRC corrupts the recorded checksum.
	BadCRC bool
}

// TestArchive configures BuildTestArchive.
type TestArchive struct {
	Layout   dbtype.Layout
	Files    []TestFile
	UserData []byte
	Cipher   Encrypter

	// RawHeader stores the table without LZHUF compression or the
	// compressed flag.
	RawHeader bool
}

// BuildTestArchive assembles an archive from cfg and returns it with the
// entries its table records.
func BuildTestArchive(tb testing.TB, cfg TestArchive) ([]byte, []dbtype.Entry) {
	tb.Helper()

	f := &MemFile{}
	w, err := chunk.NewWriter(f)
	if err != nil {
		tb.Fatalf("new writer: %v", err)
	}
	if cfg.UserData != nil {
		if err := w.WriteChunk(chunk.IDUserData, cfg.UserData); err != nil {
			tb.Fatalf("write userdata: %v", err)
		}
	}

	if err := w.OpenChunk(chunk.IDData); err != nil {
		tb.Fatalf("open data: %v", err)
	}
	entries := make([]dbtype.Entry, 0, len(cfg.Files))
	for _, file := range cfg.Files {
		e := dbtype.Entry{Path: file.Path, Folder: file.Folder}
		if file.Folder {
			entries = append(entries, e)
			continue
		}
		stored := file.Stored
		if stored == nil {
			stored = file.Data
			if cfg.Layout == dbtype.Layout1114 && !file.Uncompressed {
				if stored, err = lzhuf.Compress(file.Data); err != nil {
					tb.Fatalf("compress %s: %v", file.Path, err)
				}
			}
		}
		e.Offset = uint32(w.Tell())
		e.SizeCompressed = uint32(len(stored))
		e.SizeReal = uint32(len(file.Data))
		e.Uncompressed = file.Uncompressed
		if cfg.Layout == dbtype.Layout1114 && !file.Uncompressed {
			e.SizeReal = 0
		}
		if cfg.Layout == dbtype.Layout2945 || cfg.Layout == dbtype.Layout2947 {
			e.HasCRC = true
			e.CRC = crc32.ChecksumIEEE(file.Data)
			if file.BadCRC {
				e.CRC++
			}
		}
		if _, err := w.Write(stored); err != nil {
			tb.Fatalf("write %s: %v", file.Path, err)
		}
		entries = append(entries, e)
	}
	if err := w.CloseChunk(); err != nil {
		tb.Fatalf("close data: %v", err)
	}

	header, err := table.Encode(cfg.Layout, entries)
	if err != nil {
		tb.Fatalf("encode table: %v", err)
	}
	tag := chunk.IDHeader
	if !cfg.RawHeader {
		if header, err = lzhuf.Compress(header); err != nil {
			tb.Fatalf("compress table: %v", err)
		}
		tag |= chunk.FlagCompressed
	}
	if cfg.Cipher != nil {
		cfg.Cipher.Encrypt(header, header)
	}
	if err := w.WriteChunk(tag, header); err != nil {
		tb.Fatalf("write header: %v", err)
	}

	for i := range entries {
		entries[i].Path = normalize(entries[i].Path)
	}
	return f.Bytes(), entries
}

func normalize(p string) string {
	out := []byte(p)
	for i, c := range out {
		if c == '\\' {
			out[i] = '/'
		}
	}
	return string(out)
}
