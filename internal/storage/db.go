package storage

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"armory/internal/logging"
	"armory/internal/paths"
)

// DB represents a database connection with transaction helpers.
// The whole process shares one DB; SQLite serializes writers natively,
// so no additional lock manager sits on top.
type DB struct {
	conn   *sql.DB
	logger *logging.Logger
	dbPath string
}

// Open opens or creates the SQLite database inside dataDir.
// Tables are created if absent and pending column migrations are applied
// before Open returns; a schema in an invalid state aborts startup.
func Open(dataDir string, logger *logging.Logger) (*DB, error) {
	if err := paths.EnsureDataDir(dataDir); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := paths.DatabasePath(dataDir)
	dbExists := fileExists(dbPath)

	conn, err := openConn(dbPath)
	if err != nil {
		return nil, err
	}

	db := &DB{
		conn:   conn,
		logger: logger,
		dbPath: dbPath,
	}

	if !dbExists {
		logger.Info("Creating new database", map[string]interface{}{
			"path": dbPath,
		})
	}

	if err := db.createTables(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := db.runMigrations(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// openConn opens the raw connection and applies pragmas
func openConn(dbPath string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set pragmas for reliability and concurrent reads
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}

	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	return conn, nil
}

// Close closes the database connection.
// Must be called before the database file is replaced on disk; some
// platforms lock open files.
func (db *DB) Close() error {
	if db.conn != nil {
		err := db.conn.Close()
		db.conn = nil
		return err
	}
	return nil
}

// Reopen re-establishes the connection after the database file was
// replaced wholesale (restore from backup) and re-runs migrations, since
// the restored file may carry an older column set.
func (db *DB) Reopen() error {
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	conn, err := openConn(db.dbPath)
	if err != nil {
		return err
	}
	db.conn = conn

	if err := db.createTables(); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := db.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.dbPath
}

// Checkpoint flushes the write-ahead log into the main database file so a
// plain file copy captures the complete store.
func (db *DB) Checkpoint() error {
	_, err := db.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return err
}

// BeginTx starts a new transaction
func (db *DB) BeginTx() (*sql.Tx, error) {
	return db.conn.Begin()
}

// WithTx executes a function within a transaction.
// If the function returns an error, the transaction is rolled back
// and the error is re-raised; otherwise the transaction is committed.
// Every compound write (seeding, migrations, upsert-replace-children,
// bulk membership updates) goes through here.
func (db *DB) WithTx(fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p) // Re-throw panic after rollback
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.Error("failed to rollback transaction", map[string]interface{}{
				"error":          err.Error(),
				"rollback_error": rbErr.Error(),
			})
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Exec executes a query without returning rows
func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

// Query executes a query that returns rows
func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.conn.Query(query, args...)
}

// QueryRow executes a query that returns at most one row
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.conn.QueryRow(query, args...)
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
