package janitor

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"mercator-hq/gridexport/pkg/export"
)

// Config holds sweeper settings.
type Config struct {
	// Dir is the directory exports create temporary files in.
	// Empty uses os.TempDir.
	Dir string

	// MaxAge is how old a temporary file must be before it is removed.
	// Default: 1h
	MaxAge time.Duration

	// Schedule is a standard cron expression. Empty disables scheduling.
	Schedule string
}

// DefaultMaxAge is used when Config.MaxAge is not set.
const DefaultMaxAge = time.Hour

// Recorder receives the number of files removed per sweep.
type Recorder interface {
	RecordSweep(removed int)
}

// Sweeper deletes stale export temporary files.
type Sweeper struct {
	config   Config
	recorder Recorder
	now      func() time.Time
	logger   *slog.Logger
}

// NewSweeper creates a Sweeper. recorder may be nil.
func NewSweeper(cfg Config, recorder Recorder) *Sweeper {
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = DefaultMaxAge
	}
	return &Sweeper{
		config:   cfg,
		recorder: recorder,
		now:      time.Now,
		logger:   slog.Default().With("component", "export.janitor"),
	}
}

func (s *Sweeper) dir() string {
	if s.config.Dir == "" {
		return os.TempDir()
	}
	return s.config.Dir
}

// Sweep removes every file matching export.TempFilePattern whose
// modification time is older than the configured max age. It returns the
// number of files removed. Files that vanish concurrently are ignored.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir(), export.TempFilePattern))
	if err != nil {
		return 0, err
	}

	cutoff := s.now().Add(-s.config.MaxAge)
	removed := 0
	var errs []error

	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		info, err := os.Lstat(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, err)
			}
			continue
		}
		if !info.Mode().IsRegular() || !info.ModTime().Before(cutoff) {
			continue
		}

		if err := os.Remove(path); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, err)
			}
			continue
		}
		removed++
		s.logger.Debug("removed stale export file", "path", path, "age", s.now().Sub(info.ModTime()))
	}

	if s.recorder != nil {
		s.recorder.RecordSweep(removed)
	}
	return removed, errors.Join(errs...)
}
