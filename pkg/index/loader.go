package index

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ssargent/yggdrasil/pkg/btree"
)

// Load bulk-inserts records from a text file, one "key,value" per line.
// Blank lines are skipped; malformed lines and duplicate keys are recorded
// in the result and skipped without aborting the load.
func (s *Session) Load(path string) (*LoadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tree == nil {
		return nil, ErrNoIndexOpen
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	result := &LoadResult{}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		key, value, err := parseRecord(line)
		if err != nil {
			result.Malformed = append(result.Malformed, fmt.Sprintf("line %d: %s", lineNo, line))
			continue
		}
		if err := s.tree.Insert(key, value); err != nil {
			var dup *btree.DuplicateKeyError
			if errors.As(err, &dup) {
				result.Duplicates++
				continue
			}
			return result, err
		}
		result.Inserted++
	}
	if err := scanner.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// parseRecord splits a "key,value" record on the first comma and parses both
// sides as decimal unsigned 32-bit integers. Surrounding whitespace on
// either side is tolerated.
func parseRecord(line string) (uint32, uint32, error) {
	rawKey, rawValue, found := strings.Cut(line, ",")
	if !found {
		return 0, 0, fmt.Errorf("missing comma in %q", line)
	}
	key, err := strconv.ParseUint(strings.TrimSpace(rawKey), 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("bad key in %q: %w", line, err)
	}
	value, err := strconv.ParseUint(strings.TrimSpace(rawValue), 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("bad value in %q: %w", line, err)
	}
	return uint32(key), uint32(value), nil
}

// Dump writes every record to w in ascending key order, one "key,value" per
// line, and returns the number of records written.
func (s *Session) Dump(w io.Writer) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tree == nil {
		return 0, ErrNoIndexOpen
	}
	bw := bufio.NewWriter(w)
	count := 0
	err := s.tree.Traverse(func(key, value uint32) error {
		count++
		_, err := fmt.Fprintf(bw, "%d,%d\n", key, value)
		return err
	})
	if err != nil {
		return count, err
	}
	return count, bw.Flush()
}

// Extract dumps all records to a new text file at path in the same
// "key,value" format Load consumes.
func (s *Session) Extract(path string) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	count, err := s.Dump(f)
	if err != nil {
		f.Close()
		return count, err
	}
	return count, f.Close()
}
