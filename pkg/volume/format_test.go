package volume

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTables(t *testing.T) {
	// Every variant must be mapped; a silent default here would corrupt
	// every downstream size computation.
	cases := []struct {
		format Format
		size   int
		signed bool
	}{
		{Uint8, 1, false},
		{Int8, 1, true},
		{Uint16, 2, false},
		{Int16, 2, true},
		{Uint32, 4, false},
		{Int32, 4, true},
		{Float32, 4, true},
	}
	require.Len(t, cases, int(formatCount))

	for _, c := range cases {
		t.Run(c.format.String(), func(t *testing.T) {
			size, err := c.format.ByteSize()
			require.NoError(t, err)
			assert.Equal(t, c.size, size)

			signed, err := c.format.Signed()
			require.NoError(t, err)
			assert.Equal(t, c.signed, signed)
		})
	}
}

func TestFormatUnknownTag(t *testing.T) {
	for _, f := range []Format{-1, formatCount, 42} {
		_, err := f.ByteSize()
		assert.True(t, errors.Is(err, ErrUnknownFormat), "ByteSize(%d)", f)

		_, err = f.Signed()
		assert.True(t, errors.Is(err, ErrUnknownFormat), "Signed(%d)", f)

		assert.Equal(t, "Unknown", f.String())
	}
}

func TestParseFormat(t *testing.T) {
	for f := Format(0); f < formatCount; f++ {
		parsed, err := ParseFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}

	_, err := ParseFormat("Float64")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}
