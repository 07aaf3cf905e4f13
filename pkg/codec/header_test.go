package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/yggdrasil/pkg/block"
)

func TestHeaderRoundTrip(t *testing.T) {
	for _, root := range []int64{0, block.Size, 5 * block.Size, 1 << 40} {
		buf := EncodeHeader(root)
		require.Len(t, buf, block.Size)

		got, err := DecodeHeader(buf)
		require.NoError(t, err)
		assert.Equal(t, root, got)
	}
}

func TestHeaderLayout(t *testing.T) {
	buf := EncodeHeader(block.Size)

	assert.Equal(t, []byte("BTREEIDX"), buf[:8])
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 2, 0}, buf[8:16])
	assert.Equal(t, make([]byte, block.Size-16), buf[16:])
}

func TestDecodeHeaderBadMagic(t *testing.T) {
	buf := EncodeHeader(0)
	copy(buf, "NOTANIDX")

	_, err := DecodeHeader(buf)
	assert.ErrorIs(t, err, ErrNotIndexFile)
}

func TestDecodeHeaderWrongSize(t *testing.T) {
	_, err := DecodeHeader([]byte("BTREEIDX"))
	assert.ErrorIs(t, err, ErrCorrupt)
}
