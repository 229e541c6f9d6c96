package document

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fileOfSize(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statement.pdf")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0}, size), 0o600))
	return path
}

func TestChunker_Plan(t *testing.T) {
	t.Run("small file is a single chunk", func(t *testing.T) {
		c := NewChunker(1024, 50, "", testLogger())
		path := fileOfSize(t, 512)

		ranges, strategy, err := c.Plan(path, 30)
		require.NoError(t, err)
		assert.Equal(t, []ChunkRange{{Start: 1, End: 30}}, ranges)
		assert.Equal(t, 1, strategy.Chunks)
		assert.Equal(t, 30, strategy.PagesPerChunk)
	})

	t.Run("large file splits proportionally", func(t *testing.T) {
		// 4096 bytes over 40 pages with a 1024 byte cap gives 10 pages per chunk.
		c := NewChunker(1024, 50, "", testLogger())
		path := fileOfSize(t, 4096)

		ranges, strategy, err := c.Plan(path, 40)
		require.NoError(t, err)
		assert.Equal(t, []ChunkRange{
			{Start: 1, End: 10},
			{Start: 11, End: 20},
			{Start: 21, End: 30},
			{Start: 31, End: 40},
		}, ranges)
		assert.Equal(t, 10, strategy.PagesPerChunk)
	})

	t.Run("page cap limits chunk size", func(t *testing.T) {
		c := NewChunker(1024, 3, "", testLogger())
		path := fileOfSize(t, 4096)

		ranges, strategy, err := c.Plan(path, 40)
		require.NoError(t, err)
		assert.Equal(t, 3, strategy.PagesPerChunk)
		assert.Len(t, ranges, 14)
	})

	t.Run("tiny ratio still advances one page at a time", func(t *testing.T) {
		c := NewChunker(10, 50, "", testLogger())
		path := fileOfSize(t, 100000)

		ranges, strategy, err := c.Plan(path, 5)
		require.NoError(t, err)
		assert.Equal(t, 1, strategy.PagesPerChunk)
		assert.Len(t, ranges, 5)
	})

	t.Run("ranges partition the page span", func(t *testing.T) {
		c := NewChunker(1024, 7, "", testLogger())
		path := fileOfSize(t, 9000)

		for _, totalPages := range []int{1, 7, 13, 40, 101} {
			ranges, _, err := c.Plan(path, totalPages)
			require.NoError(t, err)

			next := 1
			for _, r := range ranges {
				assert.Equal(t, next, r.Start)
				assert.GreaterOrEqual(t, r.End, r.Start)
				next = r.End + 1
			}
			assert.Equal(t, totalPages+1, next)
		}
	})

	t.Run("zero pages is an error", func(t *testing.T) {
		c := NewChunker(1024, 50, "", testLogger())
		_, _, err := c.Plan(fileOfSize(t, 10), 0)

		var chunkErr *ChunkingError
		assert.ErrorAs(t, err, &chunkErr)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		c := NewChunker(1024, 50, "", testLogger())
		_, _, err := c.Plan(filepath.Join(t.TempDir(), "nope.pdf"), 10)
		assert.Error(t, err)
	})
}

func TestChunker_Materialize(t *testing.T) {
	dir := t.TempDir()
	plain := writeStatementPDF(t, dir)
	encrypted := encryptStatementPDF(t, plain, "secret42")

	c := NewChunker(1024, 50, dir, testLogger())
	d := NewDecryptor("", testLogger())

	t.Run("plain chunk is an independent readable document", func(t *testing.T) {
		sub, err := c.Materialize(plain, "", ChunkRange{Start: 1, End: 1})
		require.NoError(t, err)
		defer sub.Close()

		h, err := d.Open(sub.Path, "")
		require.NoError(t, err)
		defer h.Close()
		assert.Equal(t, 1, h.NumPages())
	})

	t.Run("encrypted chunk reopens with the same password", func(t *testing.T) {
		sub, err := c.Materialize(encrypted, "secret42", ChunkRange{Start: 1, End: 1})
		require.NoError(t, err)
		defer sub.Close()

		h, err := d.Open(sub.Path, "secret42")
		require.NoError(t, err)
		defer h.Close()
		assert.Equal(t, 1, h.NumPages())

		_, err = h.PageText(1)
		assert.NoError(t, err)
	})
}

func TestChunker_Materialize_InvalidRange(t *testing.T) {
	c := NewChunker(1024, 50, t.TempDir(), testLogger())

	for _, r := range []ChunkRange{{Start: 0, End: 3}, {Start: 5, End: 2}} {
		_, err := c.Materialize(fileOfSize(t, 10), "", r)
		var chunkErr *ChunkingError
		assert.ErrorAs(t, err, &chunkErr, "range %s", r.Spec())
	}
}

func TestChunkRange_Spec(t *testing.T) {
	assert.Equal(t, "3-7", ChunkRange{Start: 3, End: 7}.Spec())
	assert.Equal(t, 5, ChunkRange{Start: 3, End: 7}.Pages())
}

func TestSubDocument_Close(t *testing.T) {
	path := fileOfSize(t, 10)
	sub := &SubDocument{Path: path, Range: ChunkRange{Start: 1, End: 2}}

	require.NoError(t, sub.Close())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Close is idempotent.
	assert.NoError(t, sub.Close())
}
