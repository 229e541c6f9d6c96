package document

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ChunkingError reports a failure while planning or materializing chunks.
type ChunkingError struct {
	Path string
	Msg  string
	Err  error
}

func (e *ChunkingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("chunk %s: %s: %v", e.Path, e.Msg, e.Err)
	}
	return fmt.Sprintf("chunk %s: %s", e.Path, e.Msg)
}

func (e *ChunkingError) Unwrap() error { return e.Err }

// ChunkRange is an inclusive 1-based page range.
type ChunkRange struct {
	Start int
	End   int
}

// Spec renders the range in the page selection syntax sub-document
// extraction expects.
func (r ChunkRange) Spec() string { return fmt.Sprintf("%d-%d", r.Start, r.End) }

func (r ChunkRange) Pages() int { return r.End - r.Start + 1 }

// Strategy reports how a document was split, for logs and operator output.
type Strategy struct {
	FileBytes     int64
	TotalPages    int
	PagesPerChunk int
	Chunks        int
}

// SubDocument is a materialized chunk on disk. Close removes the temp file.
type SubDocument struct {
	Path  string
	Range ChunkRange
}

func (s *SubDocument) Close() error {
	if s.Path == "" {
		return nil
	}
	err := os.Remove(s.Path)
	s.Path = ""
	return err
}

// Chunker splits oversized statements into page-range sub-documents small
// enough for per-chunk extraction.
type Chunker struct {
	maxChunkBytes    int64
	maxPagesPerChunk int
	tempDir          string
	logger           *slog.Logger
}

func NewChunker(maxChunkBytes int64, maxPagesPerChunk int, tempDir string, logger *slog.Logger) *Chunker {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Chunker{
		maxChunkBytes:    maxChunkBytes,
		maxPagesPerChunk: maxPagesPerChunk,
		tempDir:          tempDir,
		logger:           logger,
	}
}

// Plan computes the chunk ranges for the document at path. Documents at or
// under the chunk size threshold come back as a single full range. Larger
// documents split into equal page runs sized by the document's average
// bytes per page, capped at the per-chunk page limit. The returned ranges
// partition [1, totalPages] in order with no gaps or overlaps.
func (c *Chunker) Plan(path string, totalPages int) ([]ChunkRange, Strategy, error) {
	if totalPages < 1 {
		return nil, Strategy{}, &ChunkingError{Path: path, Msg: "document has no pages"}
	}

	st, err := os.Stat(path)
	if err != nil {
		return nil, Strategy{}, &ChunkingError{Path: path, Msg: "stat file", Err: err}
	}

	strategy := Strategy{FileBytes: st.Size(), TotalPages: totalPages}

	if st.Size() <= c.maxChunkBytes {
		strategy.PagesPerChunk = totalPages
		strategy.Chunks = 1
		return []ChunkRange{{Start: 1, End: totalPages}}, strategy, nil
	}

	pagesPerChunk := int(int64(totalPages) * c.maxChunkBytes / st.Size())
	if pagesPerChunk < 1 {
		pagesPerChunk = 1
	}
	if pagesPerChunk > c.maxPagesPerChunk {
		pagesPerChunk = c.maxPagesPerChunk
	}

	var ranges []ChunkRange
	for start := 1; start <= totalPages; start += pagesPerChunk {
		end := start + pagesPerChunk - 1
		if end > totalPages {
			end = totalPages
		}
		ranges = append(ranges, ChunkRange{Start: start, End: end})
	}

	strategy.PagesPerChunk = pagesPerChunk
	strategy.Chunks = len(ranges)

	c.logger.Info("planned chunked extraction",
		slog.String("path", path),
		slog.Int64("bytes", st.Size()),
		slog.Int("pages", totalPages),
		slog.Int("pages_per_chunk", pagesPerChunk),
		slog.Int("chunks", len(ranges)))

	return ranges, strategy, nil
}

// Materialize writes the pages in r to a temp sub-document. The password is
// required when the source document is encrypted. Sub-documents keep the
// source encryption, so chunk readers open them with the same password.
func (c *Chunker) Materialize(path, password string, r ChunkRange) (*SubDocument, error) {
	if r.Start < 1 || r.End < r.Start {
		return nil, &ChunkingError{Path: path, Msg: fmt.Sprintf("invalid page range %s", r.Spec())}
	}

	out := filepath.Join(c.tempDir, fmt.Sprintf("chunk_%s_%s.pdf", uuid.NewString(), r.Spec()))

	conf := model.NewDefaultConfiguration()
	if password != "" {
		conf.UserPW = password
		conf.OwnerPW = password
	}

	if err := api.TrimFile(path, out, []string{r.Spec()}, conf); err != nil {
		os.Remove(out)
		return nil, &ChunkingError{
			Path: path,
			Msg:  fmt.Sprintf("materialize pages %s", r.Spec()),
			Err:  err,
		}
	}

	c.logger.Debug("materialized chunk",
		slog.String("source", path),
		slog.String("chunk", out),
		slog.String("pages", r.Spec()))

	return &SubDocument{Path: out, Range: r}, nil
}
