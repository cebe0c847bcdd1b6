package export

import (
	"os"
	"path/filepath"
	"testing"

	"tapesalvage/internal/block"
	"tapesalvage/internal/idx"
	"tapesalvage/internal/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headerBlock(filename string) block.Block {
	bytes := make([]byte, 21)
	for i := range bytes {
		bytes[i] = 0x20 // screen-code space, padding out the fixed-width filename field
	}
	bytes[0] = 1 // PRG file type, not SEQ_
	for i, r := range filename {
		// Commodore screen codes place 'A'-'Z' at display-code indices 1-26.
		bytes[5+i] = byte(r-'A') + 1
	}
	return block.Block{Kind: block.Header, Bytes: bytes, PassQC: true}
}

func dataBlock(payload []byte) block.Block {
	return block.Block{Kind: block.Data, Bytes: payload, PassQC: true}
}

func TestFilesWritesHeaderThenDataAsOneNamedFile(t *testing.T) {
	dir := t.TempDir()
	merged := []reconcile.MergedBlock{
		{Block: headerBlock("HELLO")},
		{Block: dataBlock([]byte{1, 2, 3, 4})},
	}

	results, err := Files(merged, dir)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Filename, "HELLO")

	data, err := os.ReadFile(filepath.Join(dir, results[0].Filename))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, data)
}

func TestFilesSkipsDuplicateSecondCopy(t *testing.T) {
	dir := t.TempDir()
	first := dataBlock([]byte{9, 9, 9})
	first.Copy = block.CopyFirst
	first.Hash = 42

	second := dataBlock([]byte{9, 9, 9})
	second.Copy = block.CopySecond
	second.Hash = 42

	merged := []reconcile.MergedBlock{{Block: first}, {Block: second}}
	results, err := Files(merged, dir)
	require.NoError(t, err)
	assert.Len(t, results, 1, "the second recorded copy of an identical block should not produce a second file")
}

func TestFilesUntitledDataGetsPlaceholderName(t *testing.T) {
	dir := t.TempDir()
	merged := []reconcile.MergedBlock{{Block: dataBlock([]byte{1})}}
	results, err := Files(merged, dir)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Filename, "untitled")
}

func TestFilesConcatenatesSequentialPayloadsUntilNextHeaderOrData(t *testing.T) {
	dir := t.TempDir()
	// Display-code indices 1-4 decode to the letters 'A'-'D'.
	seqBlockA := block.Block{Kind: block.Sequential, Bytes: append(make([]byte, 5), []byte{1, 2}...), PassQC: true}
	seqBlockB := block.Block{Kind: block.Sequential, Bytes: append(make([]byte, 5), []byte{3, 4}...), PassQC: true}

	merged := []reconcile.MergedBlock{
		{Block: headerBlock("LOG")},
		{Block: seqBlockA},
		{Block: seqBlockB},
	}

	results, err := Files(merged, dir)
	require.NoError(t, err)
	require.Len(t, results, 1)

	data, err := os.ReadFile(filepath.Join(dir, results[0].Filename))
	require.NoError(t, err)
	assert.Equal(t, "ABCD", string(data))
}

func TestFilesUsesIdxNameForUntitledDataNearKnownPosition(t *testing.T) {
	dir := t.TempDir()
	merged := []reconcile.MergedBlock{{Block: dataBlock([]byte{1, 2, 3})}}
	entries := []idx.IDXEntry{{Position: 0, Name: "loader"}}

	results, err := Files(merged, dir, entries...)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Filename, "loader")
}

func TestFilesSkipsCorruptBlocks(t *testing.T) {
	dir := t.TempDir()
	corrupt := block.Block{Kind: block.Corrupt, Bytes: []byte{1, 2, 3}}
	merged := []reconcile.MergedBlock{{Block: corrupt}}

	results, err := Files(merged, dir)
	require.NoError(t, err)
	assert.Empty(t, results)
}
