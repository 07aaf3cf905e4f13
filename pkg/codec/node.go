package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ssargent/yggdrasil/pkg/block"
)

const (
	// MinDegree is the B-tree minimum degree t. A node holds between
	// MinDegree-1 and MaxKeys keys; the root may hold fewer.
	MinDegree = 4

	// MaxKeys is the key capacity of a node, 2t-1.
	MaxKeys = 2*MinDegree - 1

	// nodeHeaderSize covers the leaf flag and the key count.
	nodeHeaderSize = 1 + 4
)

var (
	// ErrCorrupt indicates a block whose contents cannot be a valid node.
	ErrCorrupt = errors.New("codec: corrupt block")

	// ErrTooManyKeys indicates an attempt to encode an overfull node.
	ErrTooManyKeys = errors.New("codec: node exceeds maximum key count")
)

// Node is the in-memory materialization of one node block. Instances are
// transient views; the file owns all durable node state.
type Node struct {
	Leaf     bool
	Keys     []uint32
	Values   []uint32
	Children []int64
}

// Full reports whether the node holds its maximum key count.
func (n *Node) Full() bool {
	return len(n.Keys) == MaxKeys
}

// EncodeNode serializes a node into one block. Leaves carry no child
// offsets. Encoding an overfull node or one whose slice lengths disagree is
// a caller bug and is rejected.
func EncodeNode(n *Node) ([]byte, error) {
	if len(n.Keys) > MaxKeys {
		return nil, ErrTooManyKeys
	}
	if len(n.Values) != len(n.Keys) {
		return nil, fmt.Errorf("%w: %d keys but %d values", ErrCorrupt, len(n.Keys), len(n.Values))
	}
	if !n.Leaf && len(n.Children) != len(n.Keys)+1 {
		return nil, fmt.Errorf("%w: %d keys but %d children", ErrCorrupt, len(n.Keys), len(n.Children))
	}

	buf := make([]byte, block.Size)
	if n.Leaf {
		buf[0] = 1
	}
	binary.BigEndian.PutUint32(buf[1:5], uint32(len(n.Keys)))

	pos := nodeHeaderSize
	for _, k := range n.Keys {
		binary.BigEndian.PutUint32(buf[pos:], k)
		pos += 4
	}
	for _, v := range n.Values {
		binary.BigEndian.PutUint32(buf[pos:], v)
		pos += 4
	}
	if !n.Leaf {
		for _, c := range n.Children {
			binary.BigEndian.PutUint64(buf[pos:], uint64(c))
			pos += 8
		}
	}
	return buf, nil
}

// DecodeNode materializes a node from one block. A key count above MaxKeys
// marks the file as corrupt.
func DecodeNode(buf []byte) (*Node, error) {
	if len(buf) != block.Size {
		return nil, ErrCorrupt
	}

	n := &Node{Leaf: buf[0] != 0}
	numKeys := int(binary.BigEndian.Uint32(buf[1:5]))
	if numKeys > MaxKeys {
		return nil, fmt.Errorf("%w: impossible key count %d", ErrCorrupt, numKeys)
	}
	need := nodeHeaderSize + 8*numKeys
	if !n.Leaf {
		need += 8 * (numKeys + 1)
	}
	if need > block.Size {
		return nil, fmt.Errorf("%w: node of %d keys overflows block", ErrCorrupt, numKeys)
	}

	pos := nodeHeaderSize
	if numKeys > 0 {
		n.Keys = make([]uint32, numKeys)
		n.Values = make([]uint32, numKeys)
	}
	for i := range n.Keys {
		n.Keys[i] = binary.BigEndian.Uint32(buf[pos:])
		pos += 4
	}
	for i := range n.Values {
		n.Values[i] = binary.BigEndian.Uint32(buf[pos:])
		pos += 4
	}
	if !n.Leaf {
		n.Children = make([]int64, numKeys+1)
		for i := range n.Children {
			n.Children[i] = int64(binary.BigEndian.Uint64(buf[pos:]))
			pos += 8
		}
	}
	return n, nil
}
