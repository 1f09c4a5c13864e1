package service

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// backupDateFormat is how backup timestamps are presented to the dashboard
const backupDateFormat = "02/01/2006 03:04 PM"

// RunBackup dumps the database to the backup directory, keeps only the new
// dump, and records the run. Returns the formatted backup time.
func (s *service) RunBackup(ctx context.Context) (string, error) {
	if err := os.MkdirAll(s.cfg.Storage.BackupPath, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create backup directory")
	}

	filename := fmt.Sprintf("backup_%s.sql", time.Now().UTC().Format("20060102_150405"))
	target := filepath.Join(s.cfg.Storage.BackupPath, filename)

	db := s.cfg.Database
	cmd := exec.CommandContext(ctx, "pg_dump",
		"--host", db.Host,
		"--port", fmt.Sprintf("%d", db.Port),
		"--username", db.User,
		"--dbname", db.DBName,
		"--file", target,
		"--format", "plain",
		"--no-owner",
	)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+db.Password)

	if output, err := cmd.CombinedOutput(); err != nil {
		return "", errors.Wrapf(err, "pg_dump failed: %s", strings.TrimSpace(string(output)))
	}

	s.pruneBackups(filename)

	if err := s.repo.CreateBackupDate(ctx); err != nil {
		return "", err
	}

	formatted := time.Now().In(s.loc).Format(backupDateFormat)
	s.log.WithField("file", filename).Info("Database backup completed")
	return formatted, nil
}

// pruneBackups removes every dump except the one just written
func (s *service) pruneBackups(keep string) {
	entries, err := os.ReadDir(s.cfg.Storage.BackupPath)
	if err != nil {
		s.log.WithError(err).Warn("Failed to read backup directory")
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == keep || !strings.HasSuffix(name, ".sql") {
			continue
		}
		if err := os.Remove(filepath.Join(s.cfg.Storage.BackupPath, name)); err != nil {
			s.log.WithError(err).WithField("file", name).Warn("Failed to prune old backup")
		}
	}
}

// LatestBackup reports when the database was last backed up
func (s *service) LatestBackup(ctx context.Context) (string, error) {
	record, err := s.repo.LatestBackupDate(ctx)
	if err != nil {
		return "", notFound(err)
	}
	return record.CreatedAt.In(s.loc).Format(backupDateFormat), nil
}
