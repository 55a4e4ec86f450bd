package storage

import (
	"database/sql"
	"fmt"
)

// createTables creates all application tables if absent. The statements
// describe the original column sets; columns added after the first release
// are applied by runMigrations so that stores created by older versions
// converge on the same schema.
func (db *DB) createTables() error {
	return db.WithTx(func(tx *sql.Tx) error {
		if err := createOrganizationsTable(tx); err != nil {
			return err
		}
		if err := createProgramsTable(tx); err != nil {
			return err
		}
		if err := createWeaponsTable(tx); err != nil {
			return err
		}
		if err := createWeaponProgramsTable(tx); err != nil {
			return err
		}
		return nil
	})
}

// createOrganizationsTable creates the organizations reference table.
// is_member is the only user-owned column; the seed synchronizer never
// overwrites it for existing rows.
func createOrganizationsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS organizations (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			short_name TEXT NOT NULL,
			country TEXT,
			org_number TEXT,
			is_member INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create organizations table: %w", err)
	}
	return nil
}

// createProgramsTable creates the programs reference table
func createProgramsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS programs (
			id TEXT PRIMARY KEY,
			organization_id TEXT NOT NULL,
			name TEXT NOT NULL,
			weapon_category TEXT,

			FOREIGN KEY (organization_id) REFERENCES organizations(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create programs table: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_programs_organization_id ON programs(organization_id)",
	}
	for _, indexSQL := range indexes {
		if _, err := tx.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// createWeaponsTable creates the weapons table.
// The ownership extension columns arrived later and are added by migration.
func createWeaponsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS weapons (
			id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL,
			type TEXT NOT NULL,
			manufacturer TEXT,
			model TEXT,
			serial_number TEXT,
			acquisition_date TEXT,
			acquisition_price REAL,
			weapon_card_ref TEXT,
			operation_mode TEXT,
			caliber TEXT,
			notes TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create weapons table: %w", err)
	}
	return nil
}

// createWeaponProgramsTable creates the weapon-program join table.
// status and is_reserve arrived later and are added by migration.
func createWeaponProgramsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS weapon_programs (
			weapon_id TEXT NOT NULL,
			program_id TEXT NOT NULL,

			PRIMARY KEY (weapon_id, program_id),
			FOREIGN KEY (weapon_id) REFERENCES weapons(id) ON DELETE CASCADE,
			FOREIGN KEY (program_id) REFERENCES programs(id) ON DELETE CASCADE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create weapon_programs table: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_weapon_programs_program_id ON weapon_programs(program_id)",
	}
	for _, indexSQL := range indexes {
		if _, err := tx.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
