// Package btree implements the on-disk B-tree behind a Yggdrasil index file.
//
// Node identity is the node's block offset; an in-memory node is a transient
// view of one block. Insertion descends from the root splitting any full
// node on the way down, so a promotion never lands in a full parent and no
// parent back-pointers are needed.
package btree

import (
	"fmt"

	"github.com/ssargent/yggdrasil/pkg/block"
	"github.com/ssargent/yggdrasil/pkg/codec"
)

// DuplicateKeyError reports an insert of a key that is already present.
// The tree is unchanged when this is returned.
type DuplicateKeyError struct {
	Key uint32
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %d", e.Key)
}

// Tree drives B-tree operations against one open block file. The zero root
// offset marks an empty tree. Tree persists root changes to the file header
// itself, so the header and the node blocks stay consistent between
// operations.
type Tree struct {
	file *block.File
	root int64
}

// New binds a tree to an open block file. root is the offset read from the
// file header, or 0 for an empty tree.
func New(f *block.File, root int64) *Tree {
	return &Tree{file: f, root: root}
}

// Root returns the current root node offset, 0 when the tree is empty.
func (t *Tree) Root() int64 {
	return t.root
}

// Insert adds a key/value pair. Inserting an existing key fails with
// DuplicateKeyError and leaves the file unchanged.
func (t *Tree) Insert(key, value uint32) error {
	if t.root == 0 {
		off, err := t.file.AppendBlock()
		if err != nil {
			return err
		}
		leaf := &codec.Node{Leaf: true, Keys: []uint32{key}, Values: []uint32{value}}
		if err := t.writeNode(off, leaf); err != nil {
			return err
		}
		return t.setRoot(off)
	}

	// A duplicate insert must leave every file byte untouched, so existence
	// is settled before any preemptive split can run.
	if _, found, err := t.Search(key); err != nil {
		return err
	} else if found {
		return &DuplicateKeyError{Key: key}
	}

	rootOff := t.root
	root, err := t.readNode(rootOff)
	if err != nil {
		return err
	}
	if root.Full() {
		// Preemptive root split: the old root becomes child 0 of a new
		// internal root, which receives the promoted middle key.
		newOff, err := t.file.AppendBlock()
		if err != nil {
			return err
		}
		newRoot := &codec.Node{Children: []int64{rootOff}}
		if err := t.splitChild(newRoot, newOff, 0, root, rootOff); err != nil {
			return err
		}
		if err := t.setRoot(newOff); err != nil {
			return err
		}
		rootOff, root = newOff, newRoot
	}
	return t.insertNonFull(root, rootOff, key, value)
}

// Search looks up key and returns its value. The second result is false
// when the key is absent.
func (t *Tree) Search(key uint32) (uint32, bool, error) {
	off := t.root
	for off != 0 {
		n, err := t.readNode(off)
		if err != nil {
			return 0, false, err
		}
		i := 0
		for i < len(n.Keys) && key > n.Keys[i] {
			i++
		}
		if i < len(n.Keys) && key == n.Keys[i] {
			return n.Values[i], true, nil
		}
		if n.Leaf {
			return 0, false, nil
		}
		off = n.Children[i]
	}
	return 0, false, nil
}

// Traverse visits every key/value pair in ascending key order. Traversal
// stops early if visit returns an error, which is passed through.
func (t *Tree) Traverse(visit func(key, value uint32) error) error {
	if t.root == 0 {
		return nil
	}
	return t.traverse(t.root, visit)
}

func (t *Tree) traverse(off int64, visit func(key, value uint32) error) error {
	n, err := t.readNode(off)
	if err != nil {
		return err
	}
	for i := range n.Keys {
		if !n.Leaf {
			if err := t.traverse(n.Children[i], visit); err != nil {
				return err
			}
		}
		if err := visit(n.Keys[i], n.Values[i]); err != nil {
			return err
		}
	}
	if !n.Leaf {
		return t.traverse(n.Children[len(n.Keys)], visit)
	}
	return nil
}

// Height returns the number of levels in the tree, 0 when empty.
func (t *Tree) Height() (int, error) {
	h := 0
	off := t.root
	for off != 0 {
		n, err := t.readNode(off)
		if err != nil {
			return 0, err
		}
		h++
		if n.Leaf {
			break
		}
		off = n.Children[0]
	}
	return h, nil
}

// Count returns the number of stored key/value pairs.
func (t *Tree) Count() (int, error) {
	count := 0
	err := t.Traverse(func(_, _ uint32) error {
		count++
		return nil
	})
	return count, err
}

// insertNonFull inserts into the subtree rooted at n, which is known not to
// be full. Leaves take the pair in place; internal nodes descend after
// splitting a full child.
func (t *Tree) insertNonFull(n *codec.Node, off int64, key, value uint32) error {
	i := len(n.Keys) - 1
	if n.Leaf {
		n.Keys = append(n.Keys, 0)
		n.Values = append(n.Values, 0)
		for i >= 0 && key < n.Keys[i] {
			n.Keys[i+1] = n.Keys[i]
			n.Values[i+1] = n.Values[i]
			i--
		}
		// The element that stopped the shift is the only candidate equal
		// to key.
		if i >= 0 && key == n.Keys[i] {
			return &DuplicateKeyError{Key: key}
		}
		n.Keys[i+1] = key
		n.Values[i+1] = value
		return t.writeNode(off, n)
	}

	for i >= 0 && key < n.Keys[i] {
		i--
	}
	if i >= 0 && key == n.Keys[i] {
		return &DuplicateKeyError{Key: key}
	}
	i++
	childOff := n.Children[i]
	child, err := t.readNode(childOff)
	if err != nil {
		return err
	}
	if child.Full() {
		if err := t.splitChild(n, off, i, child, childOff); err != nil {
			return err
		}
		if key > n.Keys[i] {
			i++
		} else if key == n.Keys[i] {
			return &DuplicateKeyError{Key: key}
		}
		// The split rewrote this node's children; the materialized child
		// is stale either way and must be reloaded from its offset.
		childOff = n.Children[i]
		child, err = t.readNode(childOff)
		if err != nil {
			return err
		}
	}
	return t.insertNonFull(child, childOff, key, value)
}

// splitChild splits the full child at parent.Children[i] into two t-1 key
// nodes and promotes the middle pair into the parent. The parent is known
// not to be full. Persist order is child, sibling, parent.
func (t *Tree) splitChild(parent *codec.Node, parentOff int64, i int, child *codec.Node, childOff int64) error {
	sibOff, err := t.file.AppendBlock()
	if err != nil {
		return err
	}

	mid := codec.MinDegree - 1
	promotedKey, promotedValue := child.Keys[mid], child.Values[mid]

	sibling := &codec.Node{
		Leaf:   child.Leaf,
		Keys:   append([]uint32(nil), child.Keys[mid+1:]...),
		Values: append([]uint32(nil), child.Values[mid+1:]...),
	}
	if !child.Leaf {
		sibling.Children = append([]int64(nil), child.Children[mid+1:]...)
	}

	child.Keys = child.Keys[:mid]
	child.Values = child.Values[:mid]
	if !child.Leaf {
		child.Children = child.Children[:mid+1]
	}

	parent.Keys = insertUint32(parent.Keys, i, promotedKey)
	parent.Values = insertUint32(parent.Values, i, promotedValue)
	parent.Children = insertInt64(parent.Children, i+1, sibOff)

	if err := t.writeNode(childOff, child); err != nil {
		return err
	}
	if err := t.writeNode(sibOff, sibling); err != nil {
		return err
	}
	return t.writeNode(parentOff, parent)
}

func (t *Tree) readNode(off int64) (*codec.Node, error) {
	if off < block.Size || off%block.Size != 0 {
		return nil, fmt.Errorf("%w: node offset %d", codec.ErrCorrupt, off)
	}
	buf, err := t.file.ReadBlock(off)
	if err != nil {
		return nil, err
	}
	return codec.DecodeNode(buf)
}

func (t *Tree) writeNode(off int64, n *codec.Node) error {
	buf, err := codec.EncodeNode(n)
	if err != nil {
		return err
	}
	return t.file.WriteBlock(off, buf)
}

// setRoot records the new root offset in the file header.
func (t *Tree) setRoot(off int64) error {
	if err := t.file.WriteBlock(0, codec.EncodeHeader(off)); err != nil {
		return err
	}
	t.root = off
	return nil
}

func insertUint32(s []uint32, i int, v uint32) []uint32 {
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func insertInt64(s []int64, i int, v int64) []int64 {
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
