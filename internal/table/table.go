// Package table encodes and decodes the entry table stored in an archive's
// HEADER chunk. Each layout is a flat run of records with no count prefix;
// a table ends where its (decompressed) chunk ends.
package table

import (
	"fmt"
	"strings"

	"github.com/meigma/xdb/internal/chunk"
	"github.com/meigma/xdb/internal/dbtype"
)

// nameOverhead is the number of bytes a 2947 record carries besides the name
// and its length field: size_real, size_compressed, crc and offset.
const nameOverhead = 16

// Decode parses every record in data using layout.
func Decode(layout dbtype.Layout, data []byte) ([]dbtype.Entry, error) {
	var read func(*chunk.Cursor) (dbtype.Entry, error)
	switch layout {
	case dbtype.Layout1114:
		read = read1114
	case dbtype.Layout2215:
		read = read2215
	case dbtype.Layout2945:
		read = read2945
	case dbtype.Layout2947:
		read = read2947
	default:
		return nil, fmt.Errorf("table: unknown layout %d", layout)
	}

	cur := chunk.NewCursor(data)
	var entries []dbtype.Entry
	for !cur.EOF() {
		at := cur.Pos()
		e, err := read(cur)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d at byte %d: %w", dbtype.ErrCorruptTable, len(entries), at, err)
		}
		e.Path = normalize(e.Path)
		if layout.HasFolders() {
			e.Folder = e.Offset == 0
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func normalize(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// u32s reads len(dst) consecutive little-endian uint32 fields.
func u32s(cur *chunk.Cursor, dst ...*uint32) error {
	for _, d := range dst {
		v, err := cur.U32()
		if err != nil {
			return err
		}
		*d = v
	}
	return nil
}

func read1114(cur *chunk.Cursor) (dbtype.Entry, error) {
	var (
		e                  dbtype.Entry
		uncompressed, size uint32
		err                error
	)
	if e.Path, err = cur.CString(); err != nil {
		return e, err
	}
	if err := u32s(cur, &uncompressed, &e.Offset, &size); err != nil {
		return e, err
	}
	e.Uncompressed = uncompressed != 0
	e.SizeCompressed = size
	if e.Uncompressed {
		e.SizeReal = size
	}
	return e, nil
}

func read2215(cur *chunk.Cursor) (dbtype.Entry, error) {
	var (
		e   dbtype.Entry
		err error
	)
	if e.Path, err = cur.CString(); err != nil {
		return e, err
	}
	err = u32s(cur, &e.Offset, &e.SizeReal, &e.SizeCompressed)
	return e, err
}

func read2945(cur *chunk.Cursor) (dbtype.Entry, error) {
	var (
		e   dbtype.Entry
		err error
	)
	if e.Path, err = cur.CString(); err != nil {
		return e, err
	}
	e.HasCRC = true
	err = u32s(cur, &e.CRC, &e.Offset, &e.SizeReal, &e.SizeCompressed)
	return e, err
}

func read2947(cur *chunk.Cursor) (dbtype.Entry, error) {
	e := dbtype.Entry{HasCRC: true}
	n, err := cur.U16()
	if err != nil {
		return e, err
	}
	if n < nameOverhead {
		return e, fmt.Errorf("name length field %d below %d", n, nameOverhead)
	}
	if err := u32s(cur, &e.SizeReal, &e.SizeCompressed, &e.CRC); err != nil {
		return e, err
	}
	name, err := cur.Next(int(n) - nameOverhead)
	if err != nil {
		return e, err
	}
	e.Path = string(name)
	err = u32s(cur, &e.Offset)
	return e, err
}
