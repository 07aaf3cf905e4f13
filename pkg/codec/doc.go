// Package codec provides serialization and deserialization for the Yggdrasil
// index file format.
//
// An index file is a sequence of 512-byte blocks. Block 0 is the file header;
// every other block holds exactly one B-tree node. All multi-byte integers
// are big-endian.
//
// # Header Format
//
// The header occupies block 0:
//
//	[Magic(8)][RootOffset(8)][Reserved(496)]
//
// Fields:
//   - Magic: the 8 ASCII bytes "BTREEIDX"
//   - RootOffset: 64-bit byte offset of the root node block; 0 means empty
//   - Reserved: zero padding to the block boundary
//
// # Node Format
//
// A node occupies one non-header block:
//
//	[IsLeaf(1)][NumKeys(4)][Keys(4*n)][Values(4*n)][Children(8*(n+1))]
//
// Fields:
//   - IsLeaf: 1 for a leaf node, 0 for an internal node
//   - NumKeys: number of keys n stored in the node
//   - Keys: n 32-bit keys in strictly ascending order
//   - Values: n 32-bit values, positionally paired with the keys
//   - Children: n+1 64-bit child block offsets, present only for internal
//     nodes
//
// The remainder of the block is zero padding with no semantic meaning;
// readers ignore trailing bytes.
//
// # Error Handling
//
// Encoding rejects nodes holding more than the maximum key count (a caller
// bug). Decoding rejects blocks whose declared key count exceeds the maximum
// key count; such blocks indicate file corruption. A header whose magic does not
// match is not an index file.
package codec
