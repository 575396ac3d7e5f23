package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"maale/internal/config"

	"github.com/rs/zerolog"
)

const defaultBackupInterval = 24 * time.Hour

// BackupService periodically snapshots the sqlite file and prunes old
// snapshots past the retention window.
type BackupService struct {
	dbPath   string
	config   config.BackupConfig
	interval time.Duration
	log      zerolog.Logger
}

func NewBackupService(dbPath string, cfg config.BackupConfig, logger *zerolog.Logger) *BackupService {
	s := &BackupService{
		dbPath:   dbPath,
		config:   cfg,
		interval: defaultBackupInterval,
	}
	if logger != nil {
		s.log = logger.With().Str("component", "backup").Logger()
	}

	if cfg.Schedule != "" {
		d, err := time.ParseDuration(cfg.Schedule)
		if err != nil {
			s.log.Warn().Err(err).Str("schedule", cfg.Schedule).Msg("bad backup schedule, using default")
		} else {
			s.interval = d
		}
	}
	return s
}

// Start runs the backup loop until the context is canceled. The first
// snapshot is taken immediately.
func (s *BackupService) Start(ctx context.Context) {
	if !s.config.Enabled {
		s.log.Info().Msg("backup service disabled")
		return
	}

	s.log.Info().Dur("interval", s.interval).Str("storage", s.config.StoragePath).Msg("backup service started")

	if err := s.PerformBackup(); err != nil {
		s.log.Error().Err(err).Msg("initial backup failed")
	}
	s.CleanupOldBackups()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.PerformBackup(); err != nil {
				s.log.Error().Err(err).Msg("scheduled backup failed")
			}
			s.CleanupOldBackups()
		}
	}
}

// PerformBackup writes one snapshot. VACUUM INTO gives a consistent copy
// of a live database; a plain file copy is the fallback when it fails.
func (s *BackupService) PerformBackup() error {
	if err := os.MkdirAll(s.config.StoragePath, 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := fmt.Sprintf("maale_%s.db", time.Now().Format("20060102_150405"))
	backupPath := filepath.Join(s.config.StoragePath, name)

	db, err := sql.Open("sqlite3", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(fmt.Sprintf("VACUUM INTO '%s'", backupPath)); err != nil {
		s.log.Warn().Err(err).Msg("VACUUM INTO failed, falling back to file copy")
		if err := s.copyDatabaseFile(backupPath); err != nil {
			return err
		}
	}

	s.log.Info().Str("path", backupPath).Msg("backup written")
	return nil
}

// copyDatabaseFile is not atomic for sqlite; a write landing mid-copy can
// corrupt the snapshot. Used only when VACUUM INTO is unavailable.
func (s *BackupService) copyDatabaseFile(backupPath string) error {
	source, err := os.Open(s.dbPath)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(backupPath)
	if err != nil {
		return err
	}
	defer destination.Close()

	_, err = io.Copy(destination, source)
	return err
}

// CleanupOldBackups removes snapshots older than the retention window.
func (s *BackupService) CleanupOldBackups() {
	if s.config.RetentionDays <= 0 {
		return
	}

	files, err := os.ReadDir(s.config.StoragePath)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to read backup directory")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -s.config.RetentionDays)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			s.log.Info().Str("file", file.Name()).Msg("removing expired backup")
			_ = os.Remove(filepath.Join(s.config.StoragePath, file.Name()))
		}
	}
}
