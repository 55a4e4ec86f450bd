// Package paths resolves the armory data directory and the files inside it.
package paths

import (
	"os"
	"path/filepath"
)

const (
	// EnvDataDir overrides the default data directory location
	EnvDataDir = "ARMORY_HOME"

	// DatabaseFile is the name of the embedded store inside the data directory
	DatabaseFile = "armory.db"

	// BackupDir is the backups subdirectory inside the data directory
	BackupDir = "backups"
)

// DataDir resolves the data directory.
// Precedence: explicit override > ARMORY_HOME env var > ~/.armory
func DataDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".armory"), nil
}

// DatabasePath returns the path of the embedded store inside dataDir.
func DatabasePath(dataDir string) string {
	return filepath.Join(dataDir, DatabaseFile)
}

// BackupPath returns the backup directory inside dataDir.
func BackupPath(dataDir string) string {
	return filepath.Join(dataDir, BackupDir)
}

// EnsureDataDir creates the data directory (and backups subdirectory) if absent.
func EnsureDataDir(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}
	return os.MkdirAll(BackupPath(dataDir), 0755)
}
