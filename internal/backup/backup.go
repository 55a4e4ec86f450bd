// Package backup copies the store file to timestamped artifacts and
// restores them over the live store.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"armory/internal/bus"
	armoryerrors "armory/internal/errors"
	"armory/internal/logging"
	"armory/internal/storage"
)

const (
	backupPrefix = "armory-backup-"
	backupSuffix = ".db"
	// timestampLayout yields armory-backup-YYYYMMDD-HHMMSS.db
	timestampLayout = "20060102-150405"
)

// Backup describes one backup artifact on disk
type Backup struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// Compressed reports whether the artifact is gzip-compressed
func (b Backup) Compressed() bool {
	return strings.HasSuffix(b.Name, ".gz")
}

// Service creates, lists, and restores backups of the embedded store.
// Restore owns the close-and-reopen sequence on the shared connection
// handle and publishes the RESTORED event when the swap is complete.
type Service struct {
	db        *storage.DB
	notifier  *bus.Bus
	backupDir string
	logger    *logging.Logger
}

// NewService creates a backup service writing artifacts into backupDir
func NewService(db *storage.DB, notifier *bus.Bus, backupDir string, logger *logging.Logger) *Service {
	return &Service{
		db:        db,
		notifier:  notifier,
		backupDir: backupDir,
		logger:    logger,
	}
}

// Create checkpoints the write-ahead log and copies the store file to a
// timestamped artifact. Returns the artifact path.
func (s *Service) Create(compress bool) (string, error) {
	srcPath := s.db.Path()
	if _, err := os.Stat(srcPath); err != nil {
		return "", armoryerrors.New(armoryerrors.BackupSourceMissing,
			"database file does not exist", err)
	}

	if err := s.db.Checkpoint(); err != nil {
		return "", fmt.Errorf("failed to checkpoint database: %w", err)
	}

	if err := os.MkdirAll(s.backupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := backupPrefix + time.Now().Format(timestampLayout) + backupSuffix
	if compress {
		name += ".gz"
	}
	dstPath := filepath.Join(s.backupDir, name)

	if err := copyFile(srcPath, dstPath, compress); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	s.logger.Info("Backup created", map[string]interface{}{
		"path": dstPath,
	})
	return dstPath, nil
}

// List returns all backup artifacts sorted by modification time descending
func (s *Service) List() ([]Backup, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Backup{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Backup{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, backupPrefix) {
			continue
		}
		if !strings.HasSuffix(name, backupSuffix) && !strings.HasSuffix(name, backupSuffix+".gz") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		backups = append(backups, Backup{
			Name:    name,
			Path:    filepath.Join(s.backupDir, name),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].ModTime.After(backups[j].ModTime)
	})

	return backups, nil
}

// Restore replaces the live store with the named backup artifact and
// publishes the RESTORED event. An empty name restores the most recent
// backup. A missing live database is not fatal; the target is simply
// created fresh.
func (s *Service) Restore(name string) error {
	backups, err := s.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return armoryerrors.New(armoryerrors.NoBackupsFound, "no backups found", nil)
	}

	var selected *Backup
	if name == "" {
		selected = &backups[0]
	} else {
		for i := range backups {
			if backups[i].Name == name {
				selected = &backups[i]
				break
			}
		}
	}
	if selected == nil {
		return armoryerrors.New(armoryerrors.BackupNotFound,
			fmt.Sprintf("backup %q not found", name), nil)
	}

	// The connection must be closed before the file is swapped; some
	// platforms lock open database files.
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database before restore: %w", err)
	}

	dbPath := s.db.Path()
	for _, stale := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(stale); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", stale, err)
		}
	}

	if err := restoreFile(selected.Path, dbPath, selected.Compressed()); err != nil {
		return fmt.Errorf("failed to restore backup: %w", err)
	}

	// The restored file may predate the current column set.
	if err := s.db.Reopen(); err != nil {
		return err
	}

	s.logger.Info("Backup restored", map[string]interface{}{
		"backup": selected.Name,
	})
	s.notifier.Publish(bus.EventRestored)

	return nil
}

// copyFile copies src to dst, gzip-compressing when compress is set
func copyFile(src, dst string, compress bool) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	var w io.Writer = out
	if compress {
		gz := gzip.NewWriter(out)
		defer gz.Close()
		w = gz
	}

	if _, err := io.Copy(w, in); err != nil {
		return err
	}
	if gz, ok := w.(*gzip.Writer); ok {
		return gz.Close()
	}
	return nil
}

// restoreFile copies a backup artifact over the live path, transparently
// decompressing gzip artifacts
func restoreFile(src, dst string, compressed bool) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	var r io.Reader = in
	if compressed {
		gz, err := gzip.NewReader(in)
		if err != nil {
			return err
		}
		defer gz.Close()
		r = gz
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, r)
	return err
}
