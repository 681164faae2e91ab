package scrambler

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablesArePermutations(t *testing.T) {
	t.Parallel()

	for _, v := range []Variant{VariantRU, VariantWW} {
		s, err := New(v)
		require.NoError(t, err)

		var seen [256]bool
		for i := range s.dec {
			seen[s.dec[i]] = true
			assert.Equal(t, byte(i), s.dec[s.enc[i]])
		}
		for i, ok := range seen {
			assert.True(t, ok, "value %d missing from %s table", i, v)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	src := bytes.Repeat([]byte("the quick brown fox \x00\xff"), 50)
	for _, v := range []Variant{VariantRU, VariantWW} {
		t.Run(v.String(), func(t *testing.T) {
			s, err := New(v)
			require.NoError(t, err)

			enc := make([]byte, len(src))
			s.Encrypt(enc, src)
			assert.NotEqual(t, src, enc)

			dec := make([]byte, len(enc))
			s.Decrypt(dec, enc)
			assert.Equal(t, src, dec)
		})
	}
}

func TestInPlace(t *testing.T) {
	t.Parallel()

	s, err := New(VariantRU)
	require.NoError(t, err)

	want := []byte("in place transform")
	buf := append([]byte(nil), want...)
	s.Encrypt(buf, buf)
	s.Decrypt(buf, buf)
	assert.Equal(t, want, buf)
}

func TestWrongVariantYieldsGarbage(t *testing.T) {
	t.Parallel()

	ru, err := New(VariantRU)
	require.NoError(t, err)
	ww, err := New(VariantWW)
	require.NoError(t, err)

	src := []byte("header table bytes")
	enc := make([]byte, len(src))
	ru.Encrypt(enc, src)

	dec := make([]byte, len(enc))
	ww.Decrypt(dec, enc)
	assert.NotEqual(t, src, dec)
}

func TestUnknownVariant(t *testing.T) {
	t.Parallel()

	_, err := New(Variant(0))
	require.Error(t, err)
}

func TestKnownAnswer(t *testing.T) {
	t.Parallel()

	plain := append(make([]byte, 16), "gamedata"...)
	for _, tc := range []struct {
		variant Variant
		want    string
	}{
		{VariantRU, "94b861ebcdd584a70f939bd483cf868eafb866a7ae4eea34"},
		{VariantWW, "16b6b1c1e2a58747e2fd8f389b5b9304942f49d82dc481ff"},
	} {
		s, err := New(tc.variant)
		require.NoError(t, err)
		got := make([]byte, len(plain))
		s.Encrypt(got, plain)
		assert.Equal(t, tc.want, hex.EncodeToString(got), tc.variant.String())
	}

	s, err := New(VariantRU)
	require.NoError(t, err)
	assert.Equal(t, []byte{28, 81, 20, 97, 156, 120, 130, 176}, s.enc[:8])
	assert.Equal(t, []byte{168, 237, 87, 50, 165, 132, 65, 199}, s.dec[:8])
}
