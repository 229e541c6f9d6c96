// Package pipeline sequences the full statement run: validate, open,
// chunk, extract, normalize, summarize, report.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/finbridge/statement-analyzer/internal/domain/document"
	"github.com/finbridge/statement-analyzer/internal/domain/extract"
	"github.com/finbridge/statement-analyzer/internal/domain/report"
	"github.com/finbridge/statement-analyzer/internal/domain/summary"
	"github.com/finbridge/statement-analyzer/internal/health"
	"github.com/finbridge/statement-analyzer/internal/validate"
	"github.com/finbridge/statement-analyzer/pkg/config"
)

// Result is everything one statement run produced.
type Result struct {
	Info         document.Info
	Strategy     document.Strategy
	Transactions []extract.Transaction
	Summary      summary.ComprehensiveSummary
	Comparison   summary.MonthlyComparison
	ReportPaths  []string
	Elapsed      time.Duration
}

// Pipeline processes statement documents end to end.
type Pipeline struct {
	cfg        config.ProcessingConfig
	reportCfg  config.ReportConfig
	decryptor  *document.Decryptor
	chunker    *document.Chunker
	extractor  *extract.Extractor
	summarizer *summary.Summarizer
	excel      *report.ExcelWriter
	csv        *report.CSVWriter
	metrics    *health.Metrics
	logger     *slog.Logger
}

func New(cfg config.ProcessingConfig, reportCfg config.ReportConfig, metrics *health.Metrics, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		reportCfg:  reportCfg,
		decryptor:  document.NewDecryptor(cfg.PasswordFile, logger),
		chunker:    document.NewChunker(cfg.MaxChunkBytes, cfg.MaxPagesPerChunk, cfg.TempDir, logger),
		extractor:  extract.NewExtractor(logger),
		summarizer: summary.NewSummarizer(logger),
		excel:      report.NewExcelWriter(logger),
		csv:        report.NewCSVWriter(logger),
		metrics:    metrics,
		logger:     logger,
	}
}

// ProcessStatement runs the whole pipeline for one document. Chunk-level
// failures degrade the result; document-level failures return a typed error
// from the failing stage.
func (p *Pipeline) ProcessStatement(ctx context.Context, path, password string) (*Result, error) {
	started := time.Now()

	result, err := p.process(ctx, path, password)
	elapsed := time.Since(started)

	if p.metrics != nil {
		outcome := "success"
		transactions := 0
		if err != nil {
			outcome = "failure"
		} else {
			transactions = len(result.Transactions)
		}
		p.metrics.ObserveDocument(outcome, transactions, elapsed)
	}
	if err != nil {
		return nil, err
	}

	result.Elapsed = elapsed
	return result, nil
}

func (p *Pipeline) process(ctx context.Context, path, password string) (*Result, error) {
	if err := validate.PDFFile(path); err != nil {
		return nil, err
	}
	if err := validate.FileSize(path, p.cfg.MaxFileBytes); err != nil {
		return nil, err
	}
	if err := validate.Password(password); err != nil {
		return nil, err
	}

	handle, err := p.decryptor.Open(path, password)
	if err != nil {
		return nil, err
	}
	defer handle.Close()

	info := handle.Info()
	p.logger.Info("opened statement document",
		slog.String("path", path),
		slog.Int("pages", info.Pages),
		slog.Int64("bytes", info.FileBytes),
		slog.Bool("encrypted", info.Encrypted))

	ranges, strategy, err := p.chunker.Plan(path, info.Pages)
	if err != nil {
		return nil, err
	}

	var transactions []extract.Transaction
	if len(ranges) == 1 {
		transactions, err = p.extractor.ExtractAll(ctx, handle, path)
		if err != nil {
			return nil, err
		}
	} else {
		transactions, err = p.extractChunked(ctx, path, handle.Password(), ranges)
		if err != nil {
			return nil, err
		}
	}

	// Chunk results are individually normalized; merging them can
	// reintroduce duplicates at chunk boundaries.
	transactions = extract.Normalize(transactions)

	cs, err := p.summarizer.GenerateComprehensiveSummary(transactions)
	if err != nil {
		return nil, err
	}
	comparison := p.summarizer.GenerateMonthlyComparison(transactions)

	result := &Result{
		Info:         info,
		Strategy:     strategy,
		Transactions: transactions,
		Summary:      cs,
		Comparison:   comparison,
	}

	if err := p.writeReports(path, result); err != nil {
		return nil, err
	}
	return result, nil
}

// extractChunked materializes and extracts every chunk concurrently. A
// chunk that fails or times out loses only its own pages; the run fails
// only when no chunk yields anything.
func (p *Pipeline) extractChunked(ctx context.Context, path, password string, ranges []document.ChunkRange) ([]extract.Transaction, error) {
	results := make([][]extract.Transaction, len(ranges))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)

	for i, r := range ranges {
		i, r := i, r
		g.Go(func() error {
			chunkTx, err := p.extractChunk(gctx, path, password, r)
			if err != nil {
				p.observeChunk("failure")
				p.logger.Warn("chunk extraction failed",
					slog.String("path", path),
					slog.String("pages", r.Spec()),
					slog.Any("error", err))
				return nil
			}
			p.observeChunk("success")
			results[i] = chunkTx
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []extract.Transaction
	for _, chunkTx := range results {
		merged = append(merged, chunkTx...)
	}
	if len(merged) == 0 {
		return nil, &extract.ExtractionError{Path: path, Msg: "no transactions found in any chunk"}
	}
	return merged, nil
}

func (p *Pipeline) extractChunk(ctx context.Context, path, password string, r document.ChunkRange) ([]extract.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.ChunkTimeout)
	defer cancel()

	sub, err := p.chunker.Materialize(path, password, r)
	if err != nil {
		return nil, err
	}
	defer sub.Close()

	handle, err := p.decryptor.Open(sub.Path, password)
	if err != nil {
		return nil, err
	}
	defer handle.Close()

	return p.extractor.ExtractAll(ctx, handle, sub.Path)
}

func (p *Pipeline) writeReports(path string, result *Result) error {
	if !p.reportCfg.WriteExcel && !p.reportCfg.WriteCSV {
		return nil
	}

	if err := validate.DirectoryPath(p.reportCfg.OutputDir, true); err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	now := time.Now()

	if p.reportCfg.WriteExcel {
		out := filepath.Join(p.reportCfg.OutputDir, report.GenerateFilename(base, "analysis", now))
		if err := p.excel.Write(out, result.Transactions, result.Summary); err != nil {
			return fmt.Errorf("excel report: %w", err)
		}
		result.ReportPaths = append(result.ReportPaths, out)
	}
	if p.reportCfg.WriteCSV {
		out := filepath.Join(p.reportCfg.OutputDir,
			fmt.Sprintf("%s_transactions_%s.csv", base, now.Format("20060102_150405")))
		if err := p.csv.Write(out, result.Transactions); err != nil {
			return fmt.Errorf("csv report: %w", err)
		}
		result.ReportPaths = append(result.ReportPaths, out)
	}
	return nil
}

func (p *Pipeline) observeChunk(outcome string) {
	if p.metrics != nil {
		p.metrics.ChunksProcessed.WithLabelValues(outcome).Inc()
	}
}
