package render

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// scratchPrefix names the per-conversion scratch directories so the
// janitor can tell them apart from unrelated temp files.
const scratchPrefix = "docxrender-"

// Janitor periodically removes scratch directories left behind by
// conversions that died before their cleanup ran (killed process,
// mid-render crash). Live conversions are protected by the age cutoff.
type Janitor struct {
	workspace string
	maxAge    time.Duration
	cron      *cron.Cron
	logger    *zap.Logger
}

func NewJanitor(workspace string, maxAge time.Duration, logger *zap.Logger) *Janitor {
	if workspace == "" {
		workspace = os.TempDir()
	}
	return &Janitor{
		workspace: workspace,
		maxAge:    maxAge,
		cron:      cron.New(),
		logger:    logger,
	}
}

// Start schedules the sweep. The schedule uses cron syntax, e.g.
// "@every 30m".
func (j *Janitor) Start(schedule string) error {
	if _, err := j.cron.AddFunc(schedule, j.Sweep); err != nil {
		return err
	}
	j.cron.Start()
	return nil
}

func (j *Janitor) Stop() {
	j.cron.Stop()
}

// Sweep removes every scratch directory older than the cutoff.
func (j *Janitor) Sweep() {
	entries, err := os.ReadDir(j.workspace)
	if err != nil {
		j.logger.Warn("janitor sweep failed", zap.String("workspace", j.workspace), zap.Error(err))
		return
	}

	cutoff := time.Now().Add(-j.maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), scratchPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		dir := filepath.Join(j.workspace, entry.Name())
		if err := os.RemoveAll(dir); err != nil {
			j.logger.Warn("failed to remove scratch directory", zap.String("dir", dir), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		j.logger.Info("swept orphaned scratch directories", zap.Int("removed", removed))
	}
}
