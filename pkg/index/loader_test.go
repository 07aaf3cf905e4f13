package index

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSession(t *testing.T) (*Session, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.idx")

	s := NewSession()
	require.NoError(t, s.Create(path, false))
	require.NoError(t, s.Open(path))
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		key     uint32
		value   uint32
		wantErr bool
	}{
		{name: "plain", line: "10,20", key: 10, value: 20},
		{name: "padded", line: "  10 , 20  ", key: 10, value: 20},
		{name: "max uint32", line: "4294967295,4294967295", key: 4294967295, value: 4294967295},
		{name: "splits on first comma", line: "1,2,3", wantErr: true},
		{name: "no comma", line: "10 20", wantErr: true},
		{name: "negative", line: "-1,5", wantErr: true},
		{name: "overflow", line: "4294967296,5", wantErr: true},
		{name: "not a number", line: "ten,20", wantErr: true},
		{name: "empty value", line: "10,", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			key, value, err := parseRecord(tc.line)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.key, key)
			assert.Equal(t, tc.value, value)
		})
	}
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	s, dir := openTestSession(t)

	data := "10,1\n\nbogus line\n20,2\n30,xyz\n   \n40,4\n"
	dataPath := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(dataPath, []byte(data), 0o644))

	result, err := s.Load(dataPath)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Inserted)
	assert.Zero(t, result.Duplicates)
	require.Len(t, result.Malformed, 2)
	assert.Contains(t, result.Malformed[0], "bogus line")
	assert.Contains(t, result.Malformed[1], "30,xyz")

	var keys []uint32
	require.NoError(t, s.Each(func(k, _ uint32) error {
		keys = append(keys, k)
		return nil
	}))
	assert.Equal(t, []uint32{10, 20, 40}, keys)
}

func TestLoadCountsDuplicates(t *testing.T) {
	s, dir := openTestSession(t)

	require.NoError(t, s.Insert(20, 99))

	dataPath := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(dataPath, []byte("10,1\n20,2\n10,3\n"), 0o644))

	result, err := s.Load(dataPath)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 2, result.Duplicates)

	// The first value bound to a key wins; duplicates never overwrite.
	v, found, err := s.Search(20)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint32(99), v)
}

func TestLoadMissingFile(t *testing.T) {
	s, dir := openTestSession(t)

	_, err := s.Load(filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDumpFormat(t *testing.T) {
	s, _ := openTestSession(t)

	for i := uint32(1); i <= 7; i++ {
		require.NoError(t, s.Insert(i*10, i))
	}

	var buf bytes.Buffer
	count, err := s.Dump(&buf)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.Equal(t, "10,1\n20,2\n30,3\n40,4\n50,5\n60,6\n70,7\n", buf.String())
}

func TestLoadExtractRoundTrip(t *testing.T) {
	s, dir := openTestSession(t)
	rng := rand.New(rand.NewSource(11))

	want := map[uint32]uint32{}
	for len(want) < 1000 {
		want[rng.Uint32()] = rng.Uint32()
	}
	var lines []string
	for k, v := range want {
		lines = append(lines, fmt.Sprintf("%d,%d", k, v))
	}
	rng.Shuffle(len(lines), func(i, j int) { lines[i], lines[j] = lines[j], lines[i] })

	dataPath := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(dataPath, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	result, err := s.Load(dataPath)
	require.NoError(t, err)
	assert.Equal(t, 1000, result.Inserted)

	outPath := filepath.Join(dir, "out.txt")
	count, err := s.Extract(outPath)
	require.NoError(t, err)
	assert.Equal(t, 1000, count)

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	outLines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Len(t, outLines, 1000)

	var sorted []uint32
	for k := range want {
		sorted = append(sorted, k)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for i, line := range outLines {
		k, v, err := parseRecord(line)
		require.NoError(t, err)
		assert.Equal(t, sorted[i], k)
		assert.Equal(t, want[k], v)
	}
}
