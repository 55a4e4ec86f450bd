package storage

import (
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"armory/internal/logging"
	"armory/internal/paths"
)

var errSentinel = errors.New("sentinel")

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{
		Format: logging.HumanFormat,
		Level:  logging.ErrorLevel,
		Output: io.Discard,
	})
}

func setupTestDB(t *testing.T) (*DB, string) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "armory-storage-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	db, err := Open(tmpDir, testLogger())
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		t.Fatalf("Failed to open database: %v", err)
	}

	return db, tmpDir
}

func teardownTestDB(t *testing.T, db *DB, tmpDir string) {
	t.Helper()

	if err := db.Close(); err != nil {
		t.Errorf("Failed to close database: %v", err)
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		t.Errorf("Failed to remove temp dir: %v", err)
	}
}

// seedTestReferenceData inserts a small fixture of organizations and
// programs directly, bypassing the bundled reference list
func seedTestReferenceData(t *testing.T, db *DB) {
	t.Helper()

	orgs := []struct{ id, name, short string }{
		{"o1", "Org One", "O1"},
		{"o2", "Org Two", "O2"},
	}
	for _, o := range orgs {
		_, err := db.Exec(
			"INSERT INTO organizations (id, name, short_name, is_member) VALUES (?, ?, ?, 0)",
			o.id, o.name, o.short)
		if err != nil {
			t.Fatalf("Failed to insert organization %s: %v", o.id, err)
		}
	}

	programs := []struct{ id, org, name string }{
		{"p1", "o1", "Program One"},
		{"p2", "o1", "Program Two"},
		{"p3", "o2", "Program Three"},
	}
	for _, p := range programs {
		_, err := db.Exec(
			"INSERT INTO programs (id, organization_id, name, is_reserve_allowed) VALUES (?, ?, ?, 1)",
			p.id, p.org, p.name)
		if err != nil {
			t.Fatalf("Failed to insert program %s: %v", p.id, err)
		}
	}
}

func TestDatabaseInitialization(t *testing.T) {
	db, tmpDir := setupTestDB(t)
	defer teardownTestDB(t, db, tmpDir)

	dbPath := filepath.Join(tmpDir, paths.DatabaseFile)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatalf("Database file was not created at %s", dbPath)
	}

	// All migrated columns must exist on a fresh database
	checks := []struct{ table, column string }{
		{"programs", "is_reserve_allowed"},
		{"weapon_programs", "status"},
		{"weapon_programs", "is_reserve"},
		{"weapons", "ownership_status"},
		{"weapons", "loan_contact_name"},
		{"weapons", "loan_start_date"},
		{"weapons", "loan_end_date"},
	}
	for _, c := range checks {
		exists, err := columnExistsDB(db, c.table, c.column)
		if err != nil {
			t.Fatalf("Failed to introspect %s.%s: %v", c.table, c.column, err)
		}
		if !exists {
			t.Errorf("Expected column %s.%s to exist after migrations", c.table, c.column)
		}
	}
}

func TestMigrationIdempotence(t *testing.T) {
	db, tmpDir := setupTestDB(t)
	defer teardownTestDB(t, db, tmpDir)

	// Open already ran migrations once; running again must be a no-op
	if err := db.runMigrations(); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}
	if err := db.runMigrations(); err != nil {
		t.Fatalf("Third migration run failed: %v", err)
	}

	// No duplicate columns
	count, err := columnCount(db, "weapons", "ownership_status")
	if err != nil {
		t.Fatalf("Failed to count columns: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected exactly one ownership_status column, got %d", count)
	}
}

func TestMigrationBackfill(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "armory-migrate-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Build a pre-migration store by hand: base tables only, one link row
	if err := paths.EnsureDataDir(tmpDir); err != nil {
		t.Fatalf("Failed to prepare data dir: %v", err)
	}
	conn, err := openConn(paths.DatabasePath(tmpDir))
	if err != nil {
		t.Fatalf("Failed to open raw connection: %v", err)
	}
	stmts := []string{
		"CREATE TABLE organizations (id TEXT PRIMARY KEY, name TEXT NOT NULL, short_name TEXT NOT NULL, country TEXT, org_number TEXT, is_member INTEGER NOT NULL DEFAULT 0)",
		"CREATE TABLE programs (id TEXT PRIMARY KEY, organization_id TEXT NOT NULL, name TEXT NOT NULL, weapon_category TEXT)",
		"CREATE TABLE weapons (id TEXT PRIMARY KEY, display_name TEXT NOT NULL, type TEXT NOT NULL, manufacturer TEXT, model TEXT, serial_number TEXT, acquisition_date TEXT, acquisition_price REAL, weapon_card_ref TEXT, operation_mode TEXT, caliber TEXT, notes TEXT)",
		"CREATE TABLE weapon_programs (weapon_id TEXT NOT NULL, program_id TEXT NOT NULL, PRIMARY KEY (weapon_id, program_id))",
		"INSERT INTO organizations (id, name, short_name) VALUES ('o1', 'Org', 'O')",
		"INSERT INTO programs (id, organization_id, name) VALUES ('p1', 'o1', 'P')",
		"INSERT INTO weapons (id, display_name, type) VALUES ('w1', 'Old', 'pistol')",
		"INSERT INTO weapon_programs (weapon_id, program_id) VALUES ('w1', 'p1')",
	}
	for _, stmt := range stmts {
		if _, err := conn.Exec(stmt); err != nil {
			t.Fatalf("Failed to build pre-migration schema: %v", err)
		}
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("Failed to close raw connection: %v", err)
	}

	// Open applies the migrations and backfills existing rows
	db, err := Open(tmpDir, testLogger())
	if err != nil {
		t.Fatalf("Failed to open pre-migration database: %v", err)
	}
	defer db.Close()

	var status string
	var isReserve int
	err = db.QueryRow("SELECT status, is_reserve FROM weapon_programs WHERE weapon_id = 'w1'").
		Scan(&status, &isReserve)
	if err != nil {
		t.Fatalf("Failed to read migrated link: %v", err)
	}
	if status != "approved" {
		t.Errorf("Expected backfilled status 'approved', got %q", status)
	}
	if isReserve != 0 {
		t.Errorf("Expected backfilled is_reserve 0, got %d", isReserve)
	}

	var ownership string
	err = db.QueryRow("SELECT ownership_status FROM weapons WHERE id = 'w1'").Scan(&ownership)
	if err != nil {
		t.Fatalf("Failed to read migrated weapon: %v", err)
	}
	if ownership != "own" {
		t.Errorf("Expected backfilled ownership_status 'own', got %q", ownership)
	}
}

func TestReopen(t *testing.T) {
	db, tmpDir := setupTestDB(t)
	defer os.RemoveAll(tmpDir)

	seedTestReferenceData(t, db)

	if err := db.Reopen(); err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM organizations").Scan(&count); err != nil {
		t.Fatalf("Failed to query after reopen: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 organizations after reopen, got %d", count)
	}

	if err := db.Close(); err != nil {
		t.Errorf("Failed to close database: %v", err)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db, tmpDir := setupTestDB(t)
	defer teardownTestDB(t, db, tmpDir)

	seedTestReferenceData(t, db)

	err := db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("UPDATE organizations SET is_member = 1"); err != nil {
			return err
		}
		return errSentinel
	})
	if err != errSentinel {
		t.Fatalf("Expected sentinel error, got %v", err)
	}

	var members int
	if err := db.QueryRow("SELECT COUNT(*) FROM organizations WHERE is_member = 1").Scan(&members); err != nil {
		t.Fatalf("Failed to count members: %v", err)
	}
	if members != 0 {
		t.Errorf("Expected rollback to undo membership update, got %d members", members)
	}
}

// columnExistsDB runs the introspection helper outside a migration batch
func columnExistsDB(db *DB, table, column string) (bool, error) {
	var exists bool
	err := db.WithTx(func(tx *sql.Tx) error {
		var err error
		exists, err = columnExists(tx, table, column)
		return err
	})
	return exists, err
}

func columnCount(db *DB, table, column string) (int, error) {
	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var (
			cid, notnull, pk int
			name, ctype      string
			dflt             interface{}
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return 0, err
		}
		if name == column {
			count++
		}
	}
	return count, rows.Err()
}
