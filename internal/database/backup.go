package database

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"cartbook/internal/config"

	"github.com/rs/zerolog"
)

// BackupService copies the sqlite database file on a fixed interval and
// prunes copies older than the retention window. WAL mode keeps the main
// file consistent enough for a file-level copy between checkpoints.
type BackupService struct {
	dbPath string
	cfg    config.BackupConfig
	logger *zerolog.Logger
}

func NewBackupService(dbPath string, cfg config.BackupConfig, logger *zerolog.Logger) *BackupService {
	return &BackupService{dbPath: dbPath, cfg: cfg, logger: logger}
}

// Start runs the backup loop until the context is cancelled. The first
// backup runs immediately.
func (s *BackupService) Start(ctx context.Context) {
	if !s.cfg.Enabled {
		return
	}

	interval := time.Duration(s.cfg.IntervalHours) * time.Hour
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	s.logger.Info().Dur("interval", interval).Msg("backup loop started")

	if err := s.Run(); err != nil {
		s.logger.Error().Err(err).Msg("initial backup failed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Run(); err != nil {
				s.logger.Error().Err(err).Msg("scheduled backup failed")
			}
			s.prune()
		}
	}
}

// Run writes one timestamped copy of the database file.
func (s *BackupService) Run() error {
	if err := os.MkdirAll(s.cfg.StoragePath, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	name := fmt.Sprintf("cartbook_%s.db", time.Now().Format("20060102_150405"))
	target := filepath.Join(s.cfg.StoragePath, name)

	source, err := os.Open(s.dbPath)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(target)
	if err != nil {
		return err
	}
	defer destination.Close()

	if _, err = io.Copy(destination, source); err != nil {
		return err
	}

	s.logger.Info().Str("path", target).Msg("backup written")
	return nil
}

// prune deletes backup files older than the retention window.
func (s *BackupService) prune() {
	if s.cfg.RetentionDays <= 0 {
		return
	}

	files, err := os.ReadDir(s.cfg.StoragePath)
	if err != nil {
		s.logger.Error().Err(err).Msg("backup cleanup failed")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			s.logger.Info().Str("file", file.Name()).Msg("deleting expired backup")
			os.Remove(filepath.Join(s.cfg.StoragePath, file.Name()))
		}
	}
}
