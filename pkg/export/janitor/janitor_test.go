package janitor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type countingRecorder struct {
	sweeps  int
	removed int
}

func (c *countingRecorder) RecordSweep(removed int) {
	c.sweeps++
	c.removed += removed
}

func touch(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	mtime := time.Now().Add(-age)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	return path
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestSweeper_Sweep(t *testing.T) {
	dir := t.TempDir()
	stale := touch(t, dir, "gridexport-111.tmp", 2*time.Hour)
	fresh := touch(t, dir, "gridexport-222.tmp", time.Minute)
	other := touch(t, dir, "report-333.tmp", 5*time.Hour)

	rec := &countingRecorder{}
	sweeper := NewSweeper(Config{Dir: dir, MaxAge: time.Hour}, rec)

	removed, err := sweeper.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep() failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if exists(stale) {
		t.Error("stale export file was not removed")
	}
	if !exists(fresh) || !exists(other) {
		t.Error("unrelated or fresh files were removed")
	}
	if rec.sweeps != 1 || rec.removed != 1 {
		t.Errorf("recorder = %+v", rec)
	}
}

func TestSweeper_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "gridexport-dir.tmp")
	if err := os.Mkdir(sub, 0o700); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-48 * time.Hour)
	os.Chtimes(sub, old, old)

	removed, err := NewSweeper(Config{Dir: dir}, nil).Sweep(context.Background())
	if err != nil || removed != 0 {
		t.Errorf("Sweep() = %d, %v", removed, err)
	}
	if !exists(sub) {
		t.Error("directory was removed")
	}
}

func TestSweeper_DefaultMaxAge(t *testing.T) {
	s := NewSweeper(Config{}, nil)
	if s.config.MaxAge != DefaultMaxAge {
		t.Errorf("MaxAge = %v, want %v", s.config.MaxAge, DefaultMaxAge)
	}
	if s.dir() != os.TempDir() {
		t.Errorf("dir() = %q", s.dir())
	}
}

func TestScheduler_Start(t *testing.T) {
	tests := []struct {
		name        string
		schedule    string
		wantRunning bool
		wantError   bool
	}{
		{"every 15 minutes", "*/15 * * * *", true, false},
		{"hourly", "0 * * * *", true, false},
		{"empty schedule", "", false, false},
		{"invalid schedule", "not a schedule", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheduler := NewScheduler(NewSweeper(Config{Dir: t.TempDir(), Schedule: tt.schedule}, nil))

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			err := scheduler.Start(ctx)
			if (err != nil) != tt.wantError {
				t.Errorf("Start() error = %v, wantError %v", err, tt.wantError)
			}
			if scheduler.IsRunning() != tt.wantRunning {
				t.Errorf("IsRunning() = %v, want %v", scheduler.IsRunning(), tt.wantRunning)
			}
			if tt.wantRunning {
				if next := scheduler.NextRun(); next == nil || !next.After(time.Now()) {
					t.Errorf("NextRun() = %v", next)
				}
			}

			scheduler.Stop()
			if scheduler.IsRunning() {
				t.Error("scheduler still running after Stop()")
			}
		})
	}
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	scheduler := NewScheduler(NewSweeper(Config{Dir: t.TempDir(), Schedule: "@every 1h"}, nil))

	ctx, cancel := context.WithCancel(context.Background())
	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for scheduler.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if scheduler.IsRunning() {
		t.Error("scheduler did not stop after context cancellation")
	}
}
