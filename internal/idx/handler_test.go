package idx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadIDXParsesHexPositionsAndNames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tape.idx")
	require.NoError(t, os.WriteFile(path, []byte("; comment\n0x14 loader\n28 game\n\n"), 0o644))

	entries, err := ReadIDX(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, IDXEntry{Position: 0x14, Name: "loader"}, entries[0])
	assert.Equal(t, IDXEntry{Position: 0x28, Name: "game"}, entries[1])
}

func TestReadIDXRejectsMalformedLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tape.idx")
	require.NoError(t, os.WriteFile(path, []byte("not-a-valid-line\n"), 0o644))

	_, err := ReadIDX(path)
	assert.Error(t, err)
}

func TestLookupFindsClosestEntryWithinTolerance(t *testing.T) {
	entries := []IDXEntry{{Position: 100, Name: "a"}, {Position: 200, Name: "b"}}

	name, ok := Lookup(entries, 205, 32)
	assert.True(t, ok)
	assert.Equal(t, "b", name)

	_, ok = Lookup(entries, 1000, 32)
	assert.False(t, ok)
}
