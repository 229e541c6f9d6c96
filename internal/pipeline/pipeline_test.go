package pipeline

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbridge/statement-analyzer/internal/validate"
	"github.com/finbridge/statement-analyzer/pkg/config"
)

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()
	cfg := config.ProcessingConfig{
		MaxFileBytes:     100 << 20,
		MaxChunkBytes:    10 << 20,
		MaxPagesPerChunk: 50,
		ChunkTimeout:     30 * time.Second,
		TempDir:          t.TempDir(),
		Workers:          2,
	}
	reportCfg := config.ReportConfig{OutputDir: t.TempDir()}
	return New(cfg, reportCfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPipeline_ProcessStatement_RejectsBadInput(t *testing.T) {
	p := testPipeline(t)
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		_, err := p.ProcessStatement(ctx, filepath.Join(t.TempDir(), "nope.pdf"), "")
		var vErr *validate.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("not a pdf", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fake.pdf")
		require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o600))

		_, err := p.ProcessStatement(ctx, path, "")
		var vErr *validate.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "file type", vErr.Field)
	})

	t.Run("oversized file", func(t *testing.T) {
		p := testPipeline(t)
		p.cfg.MaxFileBytes = 10

		path := filepath.Join(t.TempDir(), "big.pdf")
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.7 and then some"), 0o600))

		_, err := p.ProcessStatement(ctx, path, "")
		var vErr *validate.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "file size", vErr.Field)
	})

	t.Run("malformed password", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ok.pdf")
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.7 body"), 0o600))

		_, err := p.ProcessStatement(ctx, path, " padded ")
		var vErr *validate.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "password", vErr.Field)
	})
}
