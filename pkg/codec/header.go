package codec

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/ssargent/yggdrasil/pkg/block"
)

// Magic identifies a Yggdrasil index file. It occupies the first 8 bytes.
var Magic = []byte("BTREEIDX")

// ErrNotIndexFile indicates a header whose magic bytes do not match.
var ErrNotIndexFile = errors.New("codec: bad magic, not an index file")

// EncodeHeader builds the header block for the given root offset. A root of
// 0 marks an empty tree. The reserved region is zero.
func EncodeHeader(root int64) []byte {
	buf := make([]byte, block.Size)
	copy(buf, Magic)
	binary.BigEndian.PutUint64(buf[8:16], uint64(root))
	return buf
}

// DecodeHeader verifies the magic and returns the root offset.
func DecodeHeader(buf []byte) (int64, error) {
	if len(buf) != block.Size {
		return 0, ErrCorrupt
	}
	if !bytes.Equal(buf[:8], Magic) {
		return 0, ErrNotIndexFile
	}
	return int64(binary.BigEndian.Uint64(buf[8:16])), nil
}
