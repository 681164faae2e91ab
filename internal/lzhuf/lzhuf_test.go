package lzhuf

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionTablesAreCanonical(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint8(0x00), posCode[0])
	assert.Equal(t, uint8(0x20), posCode[1])
	assert.Equal(t, uint8(0x50), posCode[4])
	assert.Equal(t, uint8(0xf0), posCode[48])
	assert.Equal(t, uint8(0xff), posCode[63])
	for i := range posCode {
		n := posLen[i]
		assert.Equal(t, uint8(i), decCode[posCode[i]])
		assert.Equal(t, n, decLen[posCode[i]])
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	random := make([]byte, 20000)
	for i := range random {
		random[i] = byte(rng.IntN(256))
	}
	lowEntropy := make([]byte, 50000)
	for i := range lowEntropy {
		lowEntropy[i] = "ab\\c"[rng.IntN(4)]
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"single byte", []byte{0x42}},
		{"short text", []byte("hello")},
		{"spaces", bytes.Repeat([]byte(" "), 100)},
		{"zeros", make([]byte, 9000)},
		{"repeated paths", bytes.Repeat([]byte("gamedata\\textures\\act\\act_stalker.dds\x00"), 400)},
		{"random", random},
		{"low entropy", lowEntropy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			packed, err := Compress(tt.data)
			require.NoError(t, err)

			n, err := DecodedLen(packed)
			require.NoError(t, err)
			assert.Equal(t, len(tt.data), n)

			got, err := Decompress(packed, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.data, got)
		})
	}
}

func TestCompressShrinksRedundantInput(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("gamedata\\meshes\\"), 1000)
	packed, err := Compress(data)
	require.NoError(t, err)
	assert.Less(t, len(packed), len(data)/10)
}

func TestEmptyInput(t *testing.T) {
	t.Parallel()

	packed, err := Compress(nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, packed)

	got, err := Decompress(packed, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecompressMissingPrefix(t *testing.T) {
	t.Parallel()

	_, err := Decompress([]byte{1, 0}, 0)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestDecompressLimit(t *testing.T) {
	t.Parallel()

	packed, err := Compress(bytes.Repeat([]byte("x"), 1000))
	require.NoError(t, err)

	_, err = Decompress(packed, 999)
	require.ErrorIs(t, err, ErrTooLarge)

	_, err = Decompress(packed, 1000)
	require.NoError(t, err)
}

func TestDecompressTruncated(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(3, 4))
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(rng.IntN(256))
	}
	packed, err := Compress(data)
	require.NoError(t, err)

	_, err = Decompress(packed[:len(packed)/2], 0)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestDecompressInflatedLength(t *testing.T) {
	t.Parallel()

	packed, err := Compress([]byte("abc"))
	require.NoError(t, err)
	packed[0] = 0xff
	packed[1] = 0xff

	_, err = Decompress(packed, 0)
	require.ErrorIs(t, err, ErrCorrupt)
}
