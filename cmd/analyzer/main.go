// Command analyzer processes bank statement PDFs into transaction exports
// and monthly analysis reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/finbridge/statement-analyzer/internal/health"
	"github.com/finbridge/statement-analyzer/internal/jobs"
	"github.com/finbridge/statement-analyzer/internal/jobs/inmemory"
	"github.com/finbridge/statement-analyzer/internal/pipeline"
	"github.com/finbridge/statement-analyzer/pkg/config"
	"github.com/finbridge/statement-analyzer/pkg/cron"
	"github.com/finbridge/statement-analyzer/pkg/money"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		password = flag.String("password", "", "password for encrypted statements (falls back to the configured password file)")
		csvOut   = flag.Bool("csv", false, "also write a CSV transaction export")
		check    = flag.Bool("check", false, "run readiness checks and exit")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *csvOut {
		cfg.Report.WriteCSV = true
	}

	logger := newLogger(cfg.Observability.LogLevel)

	checker := health.NewChecker(cfg.Processing.TempDir, cfg.Report.OutputDir, cfg.Processing.PasswordFile)
	if *check {
		return runChecks(checker)
	}

	paths := flag.Args()
	if len(paths) == 0 {
		return fmt.Errorf("usage: analyzer [flags] statement.pdf [statement2.pdf ...]")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var metrics *health.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = health.NewMetrics()
		go serveMetrics(cfg.Observability.MetricsPort, logger)
	}

	sweeper := cron.NewScheduler(cfg.Processing.TempDir, cfg.Cleanup.Schedule, cfg.Cleanup.MaxAge, logger)
	if err := sweeper.Start(); err != nil {
		return fmt.Errorf("start cleanup scheduler: %w", err)
	}
	defer sweeper.Stop()

	p := pipeline.New(cfg.Processing, cfg.Report, metrics, logger)

	store := inmemory.NewStore()
	queue := inmemory.NewQueue(inmemory.QueueConfig{
		BufferSize: cfg.Jobs.QueueSize,
		Workers:    cfg.Processing.Workers,
		MaxRetries: cfg.Jobs.MaxRetries,
		RetryDelay: cfg.Jobs.RetryDelay,
	}, store, logger)
	defer queue.Close()

	var resultsMu sync.Mutex
	results := make(map[string]*pipeline.Result, len(paths))
	handler := func(ctx context.Context, job *jobs.ProcessStatementJob) error {
		result, err := p.ProcessStatement(ctx, job.FilePath, job.Password)
		if err != nil {
			if metrics != nil {
				metrics.JobRetries.Inc()
			}
			return err
		}
		resultsMu.Lock()
		results[job.JobID] = result
		resultsMu.Unlock()
		job.ResultPaths = result.ReportPaths
		return nil
	}
	if err := queue.Start(ctx, handler); err != nil {
		return err
	}

	published := make([]string, 0, len(paths))
	for _, path := range paths {
		job := &jobs.ProcessStatementJob{FilePath: path, Password: *password}
		if err := queue.Publish(ctx, job); err != nil {
			return fmt.Errorf("enqueue %s: %w", path, err)
		}
		published = append(published, job.JobID)
	}

	if err := waitForJobs(ctx, store, published); err != nil {
		return err
	}

	failures := 0
	for _, jobID := range published {
		job, err := store.Get(ctx, jobID)
		if err != nil {
			return err
		}
		if job.Status == jobs.StatusFailed {
			failures++
			fmt.Printf("FAILED  %s: %s\n", job.FilePath, job.Error)
			continue
		}
		printResult(job, results[jobID], cfg.Processing.CurrencyCode)
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d statements failed", failures, len(published))
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func runChecks(checker *health.Checker) error {
	checks, healthy := checker.Run()
	for _, c := range checks {
		status := "ok"
		if !c.OK {
			status = "FAIL (" + c.Error + ")"
		}
		fmt.Printf("%-16s %s\n", c.Name, status)
	}
	if !healthy {
		return fmt.Errorf("readiness checks failed")
	}
	return nil
}

func serveMetrics(port int, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", health.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info("serving metrics", slog.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server stopped", slog.Any("error", err))
	}
}

// waitForJobs polls the store until every published job is terminal.
func waitForJobs(ctx context.Context, store jobs.Store, jobIDs []string) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		done := true
		for _, id := range jobIDs {
			job, err := store.Get(ctx, id)
			if err != nil {
				return err
			}
			if !job.Status.Terminal() {
				done = false
				break
			}
		}
		if done {
			return nil
		}
	}
}

func printResult(job *jobs.ProcessStatementJob, result *pipeline.Result, currency string) {
	if result == nil {
		fmt.Printf("OK      %s\n", job.FilePath)
		return
	}

	fmt.Printf("OK      %s: %d pages, %d transactions in %s\n",
		job.FilePath, result.Info.Pages, len(result.Transactions), result.Elapsed.Round(time.Millisecond))
	fmt.Printf("        credits %s, debits %s, net %s over %d month(s)\n",
		money.Display(result.Summary.OverallTotals.TotalCredits, currency),
		money.Display(result.Summary.OverallTotals.TotalDebits, currency),
		money.Display(result.Summary.OverallTotals.NetAmount, currency),
		len(result.Summary.MonthlySummaries))
	for _, path := range result.ReportPaths {
		fmt.Printf("        wrote %s\n", path)
	}
}
