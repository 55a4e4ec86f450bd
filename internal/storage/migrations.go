package storage

import (
	"database/sql"
	"fmt"
)

// columnMigration is one additive "add column if absent" operation.
// There is no schema version counter; the persisted schema state is
// inferred by introspecting existing columns, so applying the fixed list
// below is idempotent by construction.
type columnMigration struct {
	table    string
	column   string
	addSQL   string
	backfill string // applied exactly once, right after the column is added
}

var columnMigrations = []columnMigration{
	{
		table:    "programs",
		column:   "is_reserve_allowed",
		addSQL:   "ALTER TABLE programs ADD COLUMN is_reserve_allowed INTEGER",
		backfill: "UPDATE programs SET is_reserve_allowed = 0 WHERE is_reserve_allowed IS NULL",
	},
	{
		table:    "weapon_programs",
		column:   "status",
		addSQL:   "ALTER TABLE weapon_programs ADD COLUMN status TEXT",
		backfill: "UPDATE weapon_programs SET status = 'approved' WHERE status IS NULL",
	},
	{
		table:    "weapon_programs",
		column:   "is_reserve",
		addSQL:   "ALTER TABLE weapon_programs ADD COLUMN is_reserve INTEGER",
		backfill: "UPDATE weapon_programs SET is_reserve = 0 WHERE is_reserve IS NULL",
	},
	{
		table:    "weapons",
		column:   "ownership_status",
		addSQL:   "ALTER TABLE weapons ADD COLUMN ownership_status TEXT",
		backfill: "UPDATE weapons SET ownership_status = 'own' WHERE ownership_status IS NULL",
	},
	{
		table:  "weapons",
		column: "loan_contact_name",
		addSQL: "ALTER TABLE weapons ADD COLUMN loan_contact_name TEXT",
	},
	{
		table:  "weapons",
		column: "loan_start_date",
		addSQL: "ALTER TABLE weapons ADD COLUMN loan_start_date TEXT",
	},
	{
		table:  "weapons",
		column: "loan_end_date",
		addSQL: "ALTER TABLE weapons ADD COLUMN loan_end_date TEXT",
	},
}

// runMigrations applies any pending column migrations.
// Runs against an already-migrated schema as a no-op; any failure aborts
// the whole batch so the schema never ends up half-migrated.
func (db *DB) runMigrations() error {
	return db.WithTx(func(tx *sql.Tx) error {
		applied := 0
		for _, m := range columnMigrations {
			exists, err := columnExists(tx, m.table, m.column)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			if _, err := tx.Exec(m.addSQL); err != nil {
				return fmt.Errorf("failed to add column %s.%s: %w", m.table, m.column, err)
			}
			if m.backfill != "" {
				if _, err := tx.Exec(m.backfill); err != nil {
					return fmt.Errorf("failed to backfill column %s.%s: %w", m.table, m.column, err)
				}
			}
			applied++
		}

		if applied > 0 {
			db.logger.Info("Applied schema migrations", map[string]interface{}{
				"columns_added": applied,
			})
		}
		return nil
	})
}

// columnExists introspects the live schema for a column
func columnExists(tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("failed to introspect table %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name       string
			ctype      string
			notnull    int
			dfltValue  sql.NullString
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &primaryKey); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}

	return false, rows.Err()
}
