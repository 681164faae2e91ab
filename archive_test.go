package xdb

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/xdb/internal/chunk"
	"github.com/meigma/xdb/internal/scrambler"
	"github.com/meigma/xdb/internal/testutil"
)

func newCipher(tb testing.TB, v scrambler.Variant) *scrambler.Scrambler {
	tb.Helper()
	s, err := scrambler.New(v)
	require.NoError(tb, err)
	return s
}

func TestNew2215(t *testing.T) {
	t.Parallel()

	data, entries := testutil.BuildTestArchive(t, testutil.TestArchive{
		Layout: Layout2215,
		Files: []testutil.TestFile{
			{Path: `textures`, Folder: true},
			{Path: `textures\act`, Folder: true},
			{Path: `textures\act\act_a.dds`, Data: []byte("dds payload")},
			{Path: `config\system.ltx`, Data: []byte("[system]")},
		},
	})

	a, err := New(data, Version2215)
	require.NoError(t, err)
	assert.Equal(t, Version2215, a.Version())
	assert.Equal(t, Layout2215, a.Layout())
	assert.Equal(t, 4, a.Len())
	assert.Equal(t, len(data), a.Size())
	assert.Equal(t, entries, slices.Collect(a.Entries()))

	e, ok := a.Entry(`textures\act\act_a.dds`)
	require.True(t, ok)
	assert.Equal(t, "textures/act/act_a.dds", e.Path)
	assert.False(t, e.Folder)
	assert.NotZero(t, e.Offset)

	got, err := a.ReadFile("textures/act/act_a.dds")
	require.NoError(t, err)
	assert.Equal(t, []byte("dds payload"), got)

	var under []string
	for e := range a.EntriesWithPrefix("textures/") {
		under = append(under, e.Path)
	}
	assert.Equal(t, []string{"textures/act", "textures/act/act_a.dds"}, under)

	_, ok = a.UserData()
	assert.False(t, ok)
}

func TestNewScrambled(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		version Version
		variant scrambler.Variant
	}{
		{Version2947RU, scrambler.VariantRU},
		{Version2947WW, scrambler.VariantWW},
	} {
		t.Run(tc.version.String(), func(t *testing.T) {
			t.Parallel()
			data, _ := testutil.BuildTestArchive(t, testutil.TestArchive{
				Layout: Layout2947,
				Cipher: newCipher(t, tc.variant),
				Files: []testutil.TestFile{
					{Path: "levels", Folder: true},
					{Path: "levels/l01_escape/level.geom", Data: bytes.Repeat([]byte("geom"), 64)},
				},
			})

			a, err := New(data, tc.version)
			require.NoError(t, err)
			got, err := a.ReadFile("levels/l01_escape/level.geom")
			require.NoError(t, err)
			assert.Equal(t, bytes.Repeat([]byte("geom"), 64), got)

			e, ok := a.Entry("levels")
			require.True(t, ok)
			assert.True(t, e.Folder)
		})
	}
}

func TestNewXDBUserData(t *testing.T) {
	t.Parallel()

	data, _ := testutil.BuildTestArchive(t, testutil.TestArchive{
		Layout:   Layout2947,
		UserData: []byte("mod metadata"),
		Files:    []testutil.TestFile{{Path: "a.txt", Data: []byte("a")}},
	})

	a, err := New(data, VersionXDB)
	require.NoError(t, err)
	ud, ok := a.UserData()
	require.True(t, ok)
	assert.Equal(t, []byte("mod metadata"), ud)

	e, ok := a.Entry("a.txt")
	require.True(t, ok)
	assert.Greater(t, e.Offset, uint32(8+len("mod metadata")))
}

func TestNewRejectsAmbiguousVersion(t *testing.T) {
	t.Parallel()

	_, err := New(nil, Version2947RU|Version2947WW)
	require.ErrorIs(t, err, ErrUnspecifiedVersion)
	_, err = New(nil, 0)
	require.ErrorIs(t, err, ErrUnspecifiedVersion)
}

func TestNewMissingHeader(t *testing.T) {
	t.Parallel()

	f := &testutil.MemFile{}
	w, err := chunk.NewWriter(f)
	require.NoError(t, err)
	require.NoError(t, w.WriteChunk(chunk.IDData, []byte("payload")))

	_, err = New(f.Bytes(), VersionXDB)
	require.ErrorIs(t, err, ErrMissingHeader)

	_, err = New(nil, VersionXDB)
	require.ErrorIs(t, err, ErrMissingHeader)
}

func TestNewTruncated(t *testing.T) {
	t.Parallel()

	data, _ := testutil.BuildTestArchive(t, testutil.TestArchive{
		Layout: Layout2947,
		Files:  []testutil.TestFile{{Path: "a.txt", Data: []byte("hello")}},
	})
	_, err := New(data[:len(data)-3], VersionXDB)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestNewRawHeader(t *testing.T) {
	t.Parallel()

	data, _ := testutil.BuildTestArchive(t, testutil.TestArchive{
		Layout:    Layout2945,
		RawHeader: true,
		Files:     []testutil.TestFile{{Path: "a.txt", Data: []byte("hello")}},
	})
	a, err := New(data, Version2945)
	require.NoError(t, err)
	got, err := a.ReadFile("a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestReadFileErrors(t *testing.T) {
	t.Parallel()

	data, _ := testutil.BuildTestArchive(t, testutil.TestArchive{
		Layout: Layout2945,
		Files: []testutil.TestFile{
			{Path: "dir", Folder: true},
			{Path: "dir/bad.bin", Data: []byte("corrupted"), BadCRC: true},
		},
	})
	a, err := New(data, Version2945)
	require.NoError(t, err)

	var pathErr *fs.PathError
	_, err = a.ReadFile("missing.txt")
	require.ErrorAs(t, err, &pathErr)
	require.ErrorIs(t, err, fs.ErrNotExist)

	_, err = a.ReadFile("dir")
	require.ErrorIs(t, err, fs.ErrInvalid)

	_, err = a.ReadFile("../dir")
	require.ErrorIs(t, err, fs.ErrInvalid)

	_, err = a.ReadFile("dir/bad.bin")
	require.ErrorIs(t, err, ErrCRCMismatch)

	unchecked, err := New(data, Version2945, WithVerifyCRC(false))
	require.NoError(t, err)
	got, err := unchecked.ReadFile("dir/bad.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte("corrupted"), got)
}

func TestReadFileLZO(t *testing.T) {
	t.Parallel()

	content := []byte("compressed with lzo1x, stored as one literal run")
	data, _ := testutil.BuildTestArchive(t, testutil.TestArchive{
		Layout: Layout2947,
		Files: []testutil.TestFile{
			{Path: "scripts/_g.script", Data: content, Stored: testutil.LZOLiteral(t, content)},
		},
	})
	a, err := New(data, VersionXDB)
	require.NoError(t, err)

	e, ok := a.Entry("scripts/_g.script")
	require.True(t, ok)
	assert.NotEqual(t, e.SizeReal, e.SizeCompressed)

	got, err := a.ReadFile("scripts/_g.script")
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestReadFile1114(t *testing.T) {
	t.Parallel()

	raw := bytes.Repeat([]byte{0xab}, 100)
	packed := bytes.Repeat([]byte("legacy "), 40)
	data, _ := testutil.BuildTestArchive(t, testutil.TestArchive{
		Layout: Layout1114,
		Files: []testutil.TestFile{
			{Path: `sounds\raw.ogg`, Data: raw, Uncompressed: true},
			{Path: `sounds\packed.ltx`, Data: packed},
		},
	})
	a, err := New(data, Version1114)
	require.NoError(t, err)

	e, ok := a.Entry("sounds/raw.ogg")
	require.True(t, ok)
	assert.True(t, e.Uncompressed)
	assert.Equal(t, uint32(100), e.SizeReal)

	got, err := a.ReadFile("sounds/raw.ogg")
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	got, err = a.ReadFile("sounds/packed.ltx")
	require.NoError(t, err)
	assert.Equal(t, packed, got)
}

func TestDuplicateEntryFirstWins(t *testing.T) {
	t.Parallel()

	data, _ := testutil.BuildTestArchive(t, testutil.TestArchive{
		Layout: Layout2215,
		Files: []testutil.TestFile{
			{Path: `a\b.txt`, Data: []byte("first")},
			{Path: "a/b.txt", Data: []byte("second")},
		},
	})
	a, err := New(data, Version2215)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Len())

	got, err := a.ReadFile("a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got)
}

func TestOpenArchive(t *testing.T) {
	t.Parallel()

	data, _ := testutil.BuildTestArchive(t, testutil.TestArchive{
		Layout: Layout2947,
		Files:  []testutil.TestFile{{Path: "a.txt", Data: []byte("on disk")}},
	})
	path := filepath.Join(t.TempDir(), "mod.xdb0")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	af, err := OpenArchive(path, 0)
	require.NoError(t, err)
	assert.Equal(t, path, af.Path())
	assert.Equal(t, VersionXDB, af.Version())

	got, err := af.ReadFile("a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("on disk"), got)

	require.NoError(t, af.Close())
	require.NoError(t, af.Close())

	_, err = OpenArchive(filepath.Join(t.TempDir(), "missing.bin"), 0)
	require.ErrorIs(t, err, ErrUnspecifiedVersion)

	_, err = OpenArchive(filepath.Join(t.TempDir(), "missing.xdb0"), 0)
	require.ErrorIs(t, err, fs.ErrNotExist)
}
