// Package janitor periodically deletes chart files that were never delivered.
package janitor

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs the sweep every 15 minutes (cron with seconds).
const DefaultSchedule = "0 */15 * * * *"

// Janitor removes *.png files and leftover render temp files older than maxAge from dir.
type Janitor struct {
	cron   *cron.Cron
	dir    string
	maxAge time.Duration
	now    func() time.Time
}

// New creates a Janitor for dir. The schedule uses the six-field cron format.
func New(dir, schedule string, maxAge time.Duration) (*Janitor, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	j := &Janitor{
		cron:   cron.New(cron.WithSeconds()),
		dir:    dir,
		maxAge: maxAge,
		now:    time.Now,
	}
	if _, err := j.cron.AddFunc(schedule, func() { j.Sweep() }); err != nil {
		return nil, fmt.Errorf("register sweep %q: %w", schedule, err)
	}
	return j, nil
}

// Start starts the cron scheduler.
func (j *Janitor) Start() {
	j.cron.Start()
	slog.Info("chart janitor started", "dir", j.dir, "max_age", j.maxAge)
}

// Stop stops the scheduler and waits for a running sweep.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
	slog.Info("chart janitor stopped")
}

// Sweep deletes expired chart files and returns how many were removed.
func (j *Janitor) Sweep() int {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		slog.Warn("failed to list chart dir", "dir", j.dir, "error", err)
		return 0
	}

	cutoff := j.now().Add(-j.maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !isChartFile(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(j.dir, e.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove chart file", "path", path, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		slog.Info("removed stale chart files", "dir", j.dir, "count", removed)
	}
	return removed
}

func isChartFile(name string) bool {
	return strings.HasSuffix(name, ".png") || strings.HasSuffix(name, ".png.tmp")
}
