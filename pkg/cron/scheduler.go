// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// chunkFilePrefix matches the temp sub-documents the chunker materializes.
const chunkFilePrefix = "chunk_"

// Scheduler runs periodic maintenance jobs, currently the orphaned chunk
// sweep. Chunks are normally removed by the pipeline; the sweep catches
// files left behind by crashed or timed-out runs.
type Scheduler struct {
	cron     *cron.Cron
	tempDir  string
	schedule string
	maxAge   time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler sweeping tempDir on the given cron
// schedule, removing chunk files older than maxAge.
func NewScheduler(tempDir, schedule string, maxAge time.Duration, logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:     c,
		tempDir:  tempDir,
		schedule: schedule,
		maxAge:   maxAge,
		logger:   logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.sweepOrphanedChunks)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.String("schedule", s.schedule),
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers the sweep (for testing/admin).
func (s *Scheduler) RunNow() {
	s.sweepOrphanedChunks()
}

func (s *Scheduler) sweepOrphanedChunks() {
	entries, err := os.ReadDir(s.tempDir)
	if err != nil {
		s.logger.Error("failed to read temp dir",
			slog.String("dir", s.tempDir),
			slog.Any("error", err))
		return
	}

	cutoff := time.Now().Add(-s.maxAge)
	removed := 0
	failed := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), chunkFilePrefix) {
			continue
		}
		if !strings.HasSuffix(entry.Name(), ".pdf") {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(s.tempDir, entry.Name())
		if err := os.Remove(path); err != nil {
			s.logger.Warn("failed to remove orphaned chunk",
				slog.String("path", path),
				slog.Any("error", err))
			failed++
			continue
		}
		removed++
	}

	if removed > 0 || failed > 0 {
		s.logger.Info("orphaned chunk sweep completed",
			slog.Int("removed", removed),
			slog.Int("failed", failed))
	}
}
