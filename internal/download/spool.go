// Package download saves composed strips into a local spool directory
// so the kiosk can hand the file to the attendee even when every
// remote integration is down.
package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/carsonSgit/cusec-photobooth/internal/types"
	"github.com/carsonSgit/cusec-photobooth/shared/logger"
)

type Spool struct {
	dir string
	now func() time.Time
}

func NewSpool(dir string) *Spool {
	return &Spool{dir: dir, now: time.Now}
}

// SaveStrip writes the strip with a timestamped name and returns the
// full path.
func (s *Spool) SaveStrip(strip *types.PhotoStrip) (string, error) {
	if strip == nil {
		return "", fmt.Errorf("no photo strip to save")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create spool directory: %w", err)
	}

	name := fmt.Sprintf("cusec-2026-photobooth-%d.png", s.now().UnixMilli())
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, strip.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write strip to spool: %w", err)
	}
	return path, nil
}

// Sweep deletes spool files older than maxAge. Scheduled daily by the
// serve command.
func (s *Spool) Sweep(ctx context.Context, maxAge time.Duration) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn(ctx, "spool sweep could not read directory", logger.Fields{
				"dir":   s.dir,
				"error": err.Error(),
			})
		}
		return
	}

	cutoff := s.now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".png") {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err == nil {
			removed++
		}
	}

	if removed > 0 {
		logger.Info(ctx, "spool sweep removed expired strips", logger.Fields{
			"removed": removed,
		})
	}
}
