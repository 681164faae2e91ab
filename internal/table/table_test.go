package table

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/xdb/internal/dbtype"
)

func le32(vs ...uint32) []byte {
	var out []byte
	for _, v := range vs {
		out = binary.LittleEndian.AppendUint32(out, v)
	}
	return out
}

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestDecode1114(t *testing.T) {
	t.Parallel()

	data := cat(
		[]byte("levels\\l01_escape\\level.ai\x00"), le32(1, 8, 100),
		[]byte("config\\system.ltx\x00"), le32(0, 108, 40),
	)
	entries, err := Decode(dbtype.Layout1114, data)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, dbtype.Entry{
		Path: "levels/l01_escape/level.ai", Offset: 8,
		SizeReal: 100, SizeCompressed: 100, Uncompressed: true,
	}, entries[0])
	assert.Equal(t, dbtype.Entry{
		Path: "config/system.ltx", Offset: 108, SizeCompressed: 40,
	}, entries[1])
}

func TestDecode1114ZeroOffsetIsFile(t *testing.T) {
	t.Parallel()

	entries, err := Decode(dbtype.Layout1114, cat([]byte("a\x00"), le32(1, 0, 0)))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Folder)
}

func TestDecode2215(t *testing.T) {
	t.Parallel()

	data := cat(
		[]byte("textures\\\x00"), le32(0, 0, 0),
		[]byte("textures\\wood.dds\x00"), le32(8, 30, 20),
	)
	entries, err := Decode(dbtype.Layout2215, data)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "textures/", entries[0].Path)
	assert.True(t, entries[0].Folder)
	assert.Equal(t, dbtype.Entry{
		Path: "textures/wood.dds", Offset: 8, SizeReal: 30, SizeCompressed: 20,
	}, entries[1])
}

func TestDecode2945(t *testing.T) {
	t.Parallel()

	data := cat([]byte("sounds\\a.ogg\x00"), le32(0xdeadbeef, 8, 5, 5))
	entries, err := Decode(dbtype.Layout2945, data)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, dbtype.Entry{
		Path: "sounds/a.ogg", Offset: 8, SizeReal: 5, SizeCompressed: 5,
		CRC: 0xdeadbeef, HasCRC: true,
	}, entries[0])
}

func TestDecode2947(t *testing.T) {
	t.Parallel()

	name := "scripts\\bind_stalker.script"
	var data []byte
	data = binary.LittleEndian.AppendUint16(data, uint16(len(name)+16))
	data = append(data, le32(12, 10, 0x01020304)...)
	data = append(data, name...)
	data = append(data, le32(32)...)

	entries, err := Decode(dbtype.Layout2947, data)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, dbtype.Entry{
		Path: "scripts/bind_stalker.script", Offset: 32, SizeReal: 12, SizeCompressed: 10,
		CRC: 0x01020304, HasCRC: true,
	}, entries[0])
}

func TestDecode2947ShortNameField(t *testing.T) {
	t.Parallel()

	var data []byte
	data = binary.LittleEndian.AppendUint16(data, 15)
	data = append(data, make([]byte, 32)...)

	_, err := Decode(dbtype.Layout2947, data)
	require.ErrorIs(t, err, dbtype.ErrCorruptTable)
}

func TestDecodePartialRecord(t *testing.T) {
	t.Parallel()

	full := cat([]byte("a\x00"), le32(8, 1, 1))
	for _, cut := range []int{1, 3, len(full) - 1} {
		_, err := Decode(dbtype.Layout2215, full[:cut])
		require.ErrorIs(t, err, dbtype.ErrCorruptTable, "cut at %d", cut)
	}
}

func TestDecodeEmpty(t *testing.T) {
	t.Parallel()

	entries, err := Decode(dbtype.Layout2947, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	entries := []dbtype.Entry{
		{Path: "textures", Folder: true},
		{Path: "textures/act", Folder: true},
		{Path: "textures/act/a.dds", Offset: 8, SizeReal: 3, SizeCompressed: 3, CRC: 7},
		{Path: "textures/b.dds", Offset: 11, SizeReal: 9, SizeCompressed: 4, CRC: 9},
	}
	for _, layout := range []dbtype.Layout{dbtype.Layout2215, dbtype.Layout2945, dbtype.Layout2947} {
		t.Run(layout.String(), func(t *testing.T) {
			t.Parallel()

			data, err := Encode(layout, entries)
			require.NoError(t, err)

			got, err := Decode(layout, data)
			require.NoError(t, err)
			require.Len(t, got, len(entries))
			for i, want := range entries {
				assert.Equal(t, want.Path, got[i].Path)
				assert.Equal(t, want.Folder, got[i].Folder)
				assert.Equal(t, want.Offset, got[i].Offset)
				assert.Equal(t, want.SizeReal, got[i].SizeReal)
				assert.Equal(t, want.SizeCompressed, got[i].SizeCompressed)
				if layout != dbtype.Layout2215 {
					assert.Equal(t, want.CRC, got[i].CRC)
				}
			}
		})
	}
}

func TestEncode2947Folder(t *testing.T) {
	t.Parallel()

	data, err := Encode(dbtype.Layout2947, []dbtype.Entry{
		{Path: "ab", Folder: true, Offset: 99, SizeReal: 1, CRC: 5},
	})
	require.NoError(t, err)

	want := binary.LittleEndian.AppendUint16(nil, 18)
	want = append(want, le32(0, 0, 0)...)
	want = append(want, "ab"...)
	want = append(want, le32(0)...)
	assert.Equal(t, want, data)
}

func TestEncode1114(t *testing.T) {
	t.Parallel()

	in := []dbtype.Entry{
		{Path: "raw.bin", Offset: 8, SizeReal: 4, SizeCompressed: 4, Uncompressed: true},
		{Path: "packed.bin", Offset: 12, SizeCompressed: 6},
	}
	data, err := Encode(dbtype.Layout1114, in)
	require.NoError(t, err)

	got, err := Decode(dbtype.Layout1114, data)
	require.NoError(t, err)
	assert.Equal(t, in, got)

	_, err = Encode(dbtype.Layout1114, []dbtype.Entry{{Path: "dir", Folder: true}})
	require.Error(t, err)
}

func TestEncodeRejectsLongName(t *testing.T) {
	t.Parallel()

	long := make([]byte, 1<<16)
	for i := range long {
		long[i] = 'a'
	}
	_, err := Encode(dbtype.Layout2947, []dbtype.Entry{{Path: string(long), Offset: 8}})
	require.ErrorIs(t, err, dbtype.ErrPathTooLong)
}

func TestEncodeRejectsNUL(t *testing.T) {
	t.Parallel()

	_, err := Encode(dbtype.Layout2215, []dbtype.Entry{{Path: "a\x00b", Offset: 8}})
	require.Error(t, err)
}
