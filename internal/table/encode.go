package table

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/meigma/xdb/internal/dbtype"
)

// Encode serializes entries using layout, in the order given.
//
// Paths are written with forward slashes as stored in the entries. Folder
// entries are written with zero offset and sizes; the 1114 layout has no
// folder records, so folders are rejected there.
func Encode(layout dbtype.Layout, entries []dbtype.Entry) ([]byte, error) {
	var write func([]byte, *dbtype.Entry) ([]byte, error)
	switch layout {
	case dbtype.Layout1114:
		write = write1114
	case dbtype.Layout2215:
		write = write2215
	case dbtype.Layout2945:
		write = write2945
	case dbtype.Layout2947:
		write = write2947
	default:
		return nil, fmt.Errorf("table: unknown layout %d", layout)
	}

	var out []byte
	for i := range entries {
		e := entries[i]
		if e.Folder {
			e.Offset, e.SizeReal, e.SizeCompressed, e.CRC = 0, 0, 0, 0
		}
		var err error
		if out, err = write(out, &e); err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.Path, err)
		}
	}
	return out, nil
}

func cstring(out []byte, s string) ([]byte, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return nil, fmt.Errorf("%w: path contains NUL", dbtype.ErrCorruptTable)
	}
	return append(append(out, s...), 0), nil
}

func write1114(out []byte, e *dbtype.Entry) ([]byte, error) {
	if e.Folder {
		return nil, fmt.Errorf("table: layout 1114 has no folder records")
	}
	out, err := cstring(out, e.Path)
	if err != nil {
		return nil, err
	}
	var flag uint32
	if e.Uncompressed {
		flag = 1
	}
	out = binary.LittleEndian.AppendUint32(out, flag)
	out = binary.LittleEndian.AppendUint32(out, e.Offset)
	return binary.LittleEndian.AppendUint32(out, e.SizeCompressed), nil
}

func write2215(out []byte, e *dbtype.Entry) ([]byte, error) {
	out, err := cstring(out, e.Path)
	if err != nil {
		return nil, err
	}
	out = binary.LittleEndian.AppendUint32(out, e.Offset)
	out = binary.LittleEndian.AppendUint32(out, e.SizeReal)
	return binary.LittleEndian.AppendUint32(out, e.SizeCompressed), nil
}

func write2945(out []byte, e *dbtype.Entry) ([]byte, error) {
	out, err := cstring(out, e.Path)
	if err != nil {
		return nil, err
	}
	out = binary.LittleEndian.AppendUint32(out, e.CRC)
	out = binary.LittleEndian.AppendUint32(out, e.Offset)
	out = binary.LittleEndian.AppendUint32(out, e.SizeReal)
	return binary.LittleEndian.AppendUint32(out, e.SizeCompressed), nil
}

func write2947(out []byte, e *dbtype.Entry) ([]byte, error) {
	if len(e.Path) > math.MaxUint16-nameOverhead {
		return nil, fmt.Errorf("%w: %d bytes", dbtype.ErrPathTooLong, len(e.Path))
	}
	out = binary.LittleEndian.AppendUint16(out, uint16(len(e.Path)+nameOverhead))
	out = binary.LittleEndian.AppendUint32(out, e.SizeReal)
	out = binary.LittleEndian.AppendUint32(out, e.SizeCompressed)
	out = binary.LittleEndian.AppendUint32(out, e.CRC)
	out = append(out, e.Path...)
	return binary.LittleEndian.AppendUint32(out, e.Offset), nil
}
