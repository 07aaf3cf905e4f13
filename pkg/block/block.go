// Package block provides fixed-size block access to a single index file.
// Every structure the index persists occupies exactly one block; blocks are
// identified by their byte offset and new blocks are allocated by appending.
package block

import (
	"errors"
	"fmt"
	"os"
)

// Size is the fixed width of every block in bytes.
const Size = 512

var (
	// ErrBlockSize indicates a buffer that is not exactly one block wide.
	ErrBlockSize = errors.New("block: buffer must be exactly one block")

	// ErrPastEOF indicates a write targeting an offset beyond the file end.
	ErrPastEOF = errors.New("block: write past end of file")

	// ErrBadOffset indicates an offset that is not block aligned.
	ErrBadOffset = errors.New("block: offset not aligned to block size")
)

// File wraps an open index file with block-granular reads and writes.
// It keeps a single long-lived handle for the session; callers serialize
// access, matching the single-writer discipline of the index format.
type File struct {
	f *os.File
}

// Create creates (or truncates) the file at path and opens it for block I/O.
func Create(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return &File{f: f}, nil
}

// Open opens an existing file at path for block I/O.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &File{f: f}, nil
}

// Close flushes and closes the underlying file.
func (bf *File) Close() error {
	if err := bf.f.Sync(); err != nil {
		bf.f.Close()
		return err
	}
	return bf.f.Close()
}

// Size returns the current file length in bytes.
func (bf *File) Size() (int64, error) {
	st, err := bf.f.Stat()
	if err != nil {
		return 0, err
	}
	return st.Size(), nil
}

// ReadBlock reads exactly one block at off. Short reads are I/O failures.
func (bf *File) ReadBlock(off int64) ([]byte, error) {
	if off < 0 || off%Size != 0 {
		return nil, ErrBadOffset
	}
	buf := make([]byte, Size)
	n, err := bf.f.ReadAt(buf, off)
	if err != nil {
		return nil, fmt.Errorf("read block at %d: %w", off, err)
	}
	if n != Size {
		return nil, fmt.Errorf("read block at %d: short read of %d bytes", off, n)
	}
	return buf, nil
}

// WriteBlock rewrites one existing block at off. Writes never extend the
// file; use AppendBlock to grow it.
func (bf *File) WriteBlock(off int64, buf []byte) error {
	if len(buf) != Size {
		return ErrBlockSize
	}
	if off < 0 || off%Size != 0 {
		return ErrBadOffset
	}
	size, err := bf.Size()
	if err != nil {
		return err
	}
	if off+Size > size {
		return ErrPastEOF
	}
	n, err := bf.f.WriteAt(buf, off)
	if err != nil {
		return fmt.Errorf("write block at %d: %w", off, err)
	}
	if n != Size {
		return fmt.Errorf("write block at %d: short write of %d bytes", off, n)
	}
	return nil
}

// AppendBlock extends the file by one zero-filled block and returns the new
// block's offset. The caller owns the block until it writes real content.
func (bf *File) AppendBlock() (int64, error) {
	off, err := bf.Size()
	if err != nil {
		return 0, err
	}
	zero := make([]byte, Size)
	n, err := bf.f.WriteAt(zero, off)
	if err != nil {
		return 0, fmt.Errorf("append block at %d: %w", off, err)
	}
	if n != Size {
		return 0, fmt.Errorf("append block at %d: short write of %d bytes", off, n)
	}
	return off, nil
}

// Sync forces buffered writes to disk.
func (bf *File) Sync() error {
	return bf.f.Sync()
}
