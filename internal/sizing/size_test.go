package sizing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTest = errors.New("overflow")

func TestToUint32(t *testing.T) {
	t.Parallel()

	v, err := ToUint32(math.MaxUint32, errTest)
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), v)

	_, err = ToUint32(math.MaxUint32+1, errTest)
	require.ErrorIs(t, err, errTest)

	_, err = ToUint32(-1, errTest)
	require.ErrorIs(t, err, errTest)
}

func TestAddUint32(t *testing.T) {
	t.Parallel()

	sum, ok := AddUint32(1, 2)
	assert.True(t, ok)
	assert.Equal(t, uint32(3), sum)

	_, ok = AddUint32(math.MaxUint32, 1)
	assert.False(t, ok)
}

func TestSpan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		offset uint32
		size   uint32
		bufLen int
		ok     bool
	}{
		{"inside", 2, 3, 5, true},
		{"empty at end", 5, 0, 5, true},
		{"past end", 4, 2, 5, false},
		{"wraps", math.MaxUint32, 2, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := Span(tt.offset, tt.size, tt.bufLen)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, int(tt.offset), start)
				assert.Equal(t, int(tt.offset+tt.size), end)
			}
		})
	}
}
