// Package index exposes the session layer over one open index file: create,
// open, insert, search, bulk load, and ordered export. A session owns the
// current filename and the root handle; all tree structure lives in the file.
package index

import (
	"fmt"
	"os"
	"sync"

	"github.com/ssargent/yggdrasil/pkg/block"
	"github.com/ssargent/yggdrasil/pkg/btree"
	"github.com/ssargent/yggdrasil/pkg/codec"
)

// Session manages the currently open index file. Operations are serialized
// behind a mutex so the session can back both the interactive shell and the
// REST surface without violating the single-writer file discipline.
type Session struct {
	mu   sync.Mutex
	path string
	file *block.File
	tree *btree.Tree
}

// NewSession returns a session with no index open.
func NewSession() *Session {
	return &Session{}
}

// Create builds a fresh, empty index file at path: a header block with the
// magic and a zero root offset. An existing file is not touched unless
// overwrite is set; confirmation is the caller's concern. Create does not
// open the new file.
func (s *Session) Create(path string, overwrite bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(path); err == nil && !overwrite {
		return ErrIndexExists
	} else if err != nil && !os.IsNotExist(err) {
		return err
	}

	// Overwriting the file that is currently open would leave the session
	// holding a stale root; drop it first.
	if s.file != nil && s.path == path {
		s.file.Close()
		s.path, s.file, s.tree = "", nil, nil
	}

	bf, err := block.Create(path)
	if err != nil {
		return err
	}
	if _, err := bf.AppendBlock(); err != nil {
		bf.Close()
		return err
	}
	if err := bf.WriteBlock(0, codec.EncodeHeader(0)); err != nil {
		bf.Close()
		return err
	}
	return bf.Close()
}

// Open opens an existing index file and reads its root offset from the
// header. Once the new file has opened and its header has been read, any
// previously open index is closed; if opening fails, the current index stays
// open.
func (s *Session) Open(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bf, err := block.Open(path)
	if err != nil {
		return err
	}
	buf, err := bf.ReadBlock(0)
	if err != nil {
		bf.Close()
		return fmt.Errorf("read header: %w", err)
	}
	root, err := codec.DecodeHeader(buf)
	if err != nil {
		bf.Close()
		return err
	}

	if s.file != nil {
		s.file.Close()
	}
	s.path = path
	s.file = bf
	s.tree = btree.New(bf, root)
	return nil
}

// Close closes the open index file, if any.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.path, s.file, s.tree = "", nil, nil
	return err
}

// IsOpen reports whether an index file is currently open.
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file != nil
}

// Path returns the filename of the open index, or "" when none is open.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Insert adds one key/value pair to the open index.
func (s *Session) Insert(key, value uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tree == nil {
		return ErrNoIndexOpen
	}
	return s.tree.Insert(key, value)
}

// Search looks up key in the open index.
func (s *Session) Search(key uint32) (uint32, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tree == nil {
		return 0, false, ErrNoIndexOpen
	}
	return s.tree.Search(key)
}

// Empty reports whether the open index holds no keys.
func (s *Session) Empty() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tree == nil {
		return false, ErrNoIndexOpen
	}
	return s.tree.Root() == 0, nil
}

// Each visits every key/value pair in ascending key order.
func (s *Session) Each(visit func(key, value uint32) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tree == nil {
		return ErrNoIndexOpen
	}
	return s.tree.Traverse(visit)
}

// Stats walks the open index and reports key count, height, and file size.
func (s *Session) Stats() (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tree == nil {
		return nil, ErrNoIndexOpen
	}
	keys, err := s.tree.Count()
	if err != nil {
		return nil, err
	}
	height, err := s.tree.Height()
	if err != nil {
		return nil, err
	}
	size, err := s.file.Size()
	if err != nil {
		return nil, err
	}
	return &Stats{Path: s.path, Keys: keys, Height: height, FileSize: size}, nil
}
