package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// WeaponRepository provides the filterable weapon aggregate over the
// weapons and weapon_programs tables. Every read returns weapons with
// their link lists aggregated in the same statement, so a result is a
// consistent snapshot and the row count never multiplies per link.
type WeaponRepository struct {
	db *DB
}

// NewWeaponRepository creates a new weapon repository
func NewWeaponRepository(db *DB) *WeaponRepository {
	return &WeaponRepository{db: db}
}

// weaponColumns are the parent columns selected by every aggregate read
const weaponColumns = `
	w.id, w.display_name, w.type, w.manufacturer, w.model, w.serial_number,
	w.acquisition_date, w.acquisition_price, w.weapon_card_ref, w.operation_mode,
	w.caliber, w.notes, w.ownership_status, w.loan_contact_name,
	w.loan_start_date, w.loan_end_date`

// List returns all weapons matching the filter, ordered case-insensitively
// by display name, each with its aggregated program links.
func (r *WeaponRepository) List(filter WeaponFilter) ([]Weapon, error) {
	query, args := buildListQuery(filter)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list weapons: %w", err)
	}
	defer rows.Close()

	weapons := []Weapon{}
	for rows.Next() {
		weapon, err := scanWeapon(rows)
		if err != nil {
			return nil, err
		}
		weapons = append(weapons, *weapon)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list weapons: %w", err)
	}

	return weapons, nil
}

// GetByID returns a single weapon with its aggregated links,
// or nil if no weapon with that id exists.
func (r *WeaponRepository) GetByID(id string) (*Weapon, error) {
	query := `SELECT` + weaponColumns + `,
		` + linkAggregation(nil) + ` AS programs
		FROM weapons w
		WHERE w.id = ?`

	rows, err := r.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get weapon: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get weapon: %w", err)
		}
		return nil, nil
	}

	return scanWeapon(rows)
}

// Upsert inserts the weapon row if its id is new, or overwrites every
// mutable field if it exists, then replaces the full link set: existing
// links are deleted and the normalized submitted set is reinserted, all
// in one transaction. Omitted optional fields become NULL.
func (r *WeaponRepository) Upsert(input WeaponInput) error {
	return r.db.WithTx(func(tx *sql.Tx) error {
		return upsertWeaponTx(tx, input)
	})
}

// upsertWeaponTx runs the upsert-replace-children sequence inside an
// already-open transaction. Shared with the seed synchronizer, which
// batches demonstration weapons into its own transaction.
func upsertWeaponTx(tx *sql.Tx, input WeaponInput) error {
	if input.OwnershipStatus == "" {
		input.OwnershipStatus = OwnershipOwn
	}

	_, err := tx.Exec(`
		INSERT INTO weapons (
			id, display_name, type, manufacturer, model, serial_number,
			acquisition_date, acquisition_price, weapon_card_ref, operation_mode,
			caliber, notes, ownership_status, loan_contact_name,
			loan_start_date, loan_end_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			type = excluded.type,
			manufacturer = excluded.manufacturer,
			model = excluded.model,
			serial_number = excluded.serial_number,
			acquisition_date = excluded.acquisition_date,
			acquisition_price = excluded.acquisition_price,
			weapon_card_ref = excluded.weapon_card_ref,
			operation_mode = excluded.operation_mode,
			caliber = excluded.caliber,
			notes = excluded.notes,
			ownership_status = excluded.ownership_status,
			loan_contact_name = excluded.loan_contact_name,
			loan_start_date = excluded.loan_start_date,
			loan_end_date = excluded.loan_end_date
	`,
		input.ID,
		input.DisplayName,
		input.Type,
		input.Manufacturer,
		input.Model,
		input.SerialNumber,
		input.AcquisitionDate,
		input.AcquisitionPrice,
		input.WeaponCardRef,
		input.OperationMode,
		input.Caliber,
		input.Notes,
		string(input.OwnershipStatus),
		input.LoanContactName,
		input.LoanStartDate,
		input.LoanEndDate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert weapon: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM weapon_programs WHERE weapon_id = ?", input.ID); err != nil {
		return fmt.Errorf("failed to clear weapon links: %w", err)
	}

	for _, sel := range NormalizeSelections(input.Programs) {
		_, err := tx.Exec(`
			INSERT INTO weapon_programs (weapon_id, program_id, status, is_reserve)
			VALUES (?, ?, ?, ?)
		`, input.ID, sel.ProgramID, string(sel.Status), boolToInt(sel.IsReserve))
		if err != nil {
			return fmt.Errorf("failed to insert weapon link %s: %w", sel.ProgramID, err)
		}
	}

	return nil
}

// NormalizeSelections enforces the link invariants on a submitted set:
// at most one link may be approved as the primary (non-reserve)
// registration, and a reserve flag is only valid on an approved link.
// The first submitted primary wins; later ones are demoted to pending.
// A reserve flag on a non-approved link is cleared. An omitted status
// defaults to approved.
func NormalizeSelections(selections []ProgramSelection) []ProgramSelection {
	normalized := make([]ProgramSelection, 0, len(selections))
	primarySeen := false

	for _, sel := range selections {
		if sel.Status == "" {
			sel.Status = StatusApproved
		}
		if sel.IsReserve && sel.Status != StatusApproved {
			sel.IsReserve = false
		}
		if sel.Status == StatusApproved && !sel.IsReserve {
			if primarySeen {
				sel.Status = StatusPending
			}
			primarySeen = true
		}
		normalized = append(normalized, sel)
	}

	return normalized
}

// Delete removes a weapon and all its link rows in one transaction.
// Deleting a nonexistent id is not an error.
func (r *WeaponRepository) Delete(id string) error {
	return r.db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM weapon_programs WHERE weapon_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete weapon links: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM weapons WHERE id = ?", id); err != nil {
			return fmt.Errorf("failed to delete weapon: %w", err)
		}
		return nil
	})
}

// Count returns the total number of weapon rows
func (r *WeaponRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM weapons").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count weapons: %w", err)
	}
	return count, nil
}

// linkAggregation builds the correlated scalar subquery that folds a
// weapon's links into one JSON array, ordered by program name. The empty
// aggregate yields '[]', never NULL, so childless weapons still carry an
// empty list. allowedOrgIDs narrows the visible links; the returned
// fragment consumes one placeholder per id.
func linkAggregation(allowedOrgIDs []string) string {
	restrict := ""
	if allowedOrgIDs != nil {
		restrict = " AND p.organization_id IN (" + placeholders(len(allowedOrgIDs)) + ")"
	}
	return `COALESCE((
		SELECT json_group_array(json_object(
			'programId', wp.program_id,
			'programName', p.name,
			'organizationId', p.organization_id,
			'isReserve', wp.is_reserve,
			'status', wp.status
		) ORDER BY p.name COLLATE NOCASE)
		FROM weapon_programs wp
		JOIN programs p ON p.id = wp.program_id
		WHERE wp.weapon_id = w.id` + restrict + `
	), '[]')`
}

// buildListQuery translates a filter into one parameterized statement plus
// its positional argument list. Filter values are always bound, never
// concatenated into the SQL text.
func buildListQuery(filter WeaponFilter) (string, []interface{}) {
	args := []interface{}{}

	// The aggregation subquery sits in the SELECT list, so its
	// placeholders come first.
	for _, id := range filter.AllowedOrganizationIDs {
		args = append(args, id)
	}

	predicates := []string{}

	if filter.OrganizationID != "" {
		// Existential: a weapon with several links into the same
		// organization must still appear once.
		predicates = append(predicates, `EXISTS (
			SELECT 1 FROM weapon_programs wp
			JOIN programs p ON p.id = wp.program_id
			WHERE wp.weapon_id = w.id AND p.organization_id = ?
		)`)
		args = append(args, filter.OrganizationID)
	}

	if filter.ProgramID != "" {
		predicates = append(predicates, `EXISTS (
			SELECT 1 FROM weapon_programs wp
			WHERE wp.weapon_id = w.id AND wp.program_id = ?
		)`)
		args = append(args, filter.ProgramID)
	}

	switch filter.Reserve {
	case ReserveOnly:
		predicates = append(predicates, `EXISTS (
			SELECT 1 FROM weapon_programs wp
			WHERE wp.weapon_id = w.id AND wp.is_reserve = 1
		)`)
	case NonReserve:
		predicates = append(predicates, `NOT EXISTS (
			SELECT 1 FROM weapon_programs wp
			WHERE wp.weapon_id = w.id AND wp.is_reserve = 1
		)`)
	}

	if filter.Ownership != "" && filter.Ownership != OwnershipAll {
		predicates = append(predicates, "w.ownership_status = ?")
		args = append(args, string(filter.Ownership))
	}

	query := `SELECT` + weaponColumns + `,
		` + linkAggregation(filter.AllowedOrganizationIDs) + ` AS programs
		FROM weapons w`
	if len(predicates) > 0 {
		query += "\n\t\tWHERE " + strings.Join(predicates, "\n\t\tAND ")
	}
	query += "\n\t\tORDER BY w.display_name COLLATE NOCASE ASC"

	return query, args
}

// aggregatedLink mirrors the json_object shape produced by linkAggregation
type aggregatedLink struct {
	ProgramID      string `json:"programId"`
	ProgramName    string `json:"programName"`
	OrganizationID string `json:"organizationId"`
	IsReserve      int    `json:"isReserve"`
	Status         string `json:"status"`
}

// scanWeapon reads one aggregate row
func scanWeapon(rows *sql.Rows) (*Weapon, error) {
	var (
		weapon       Weapon
		manufacturer sql.NullString
		model        sql.NullString
		serialNumber sql.NullString
		acqDate      sql.NullString
		acqPrice     sql.NullFloat64
		cardRef      sql.NullString
		opMode       sql.NullString
		caliber      sql.NullString
		notes        sql.NullString
		ownership    sql.NullString
		loanContact  sql.NullString
		loanStart    sql.NullString
		loanEnd      sql.NullString
		programsJSON string
	)

	err := rows.Scan(
		&weapon.ID,
		&weapon.DisplayName,
		&weapon.Type,
		&manufacturer,
		&model,
		&serialNumber,
		&acqDate,
		&acqPrice,
		&cardRef,
		&opMode,
		&caliber,
		&notes,
		&ownership,
		&loanContact,
		&loanStart,
		&loanEnd,
		&programsJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan weapon: %w", err)
	}

	weapon.Manufacturer = nullableString(manufacturer)
	weapon.Model = nullableString(model)
	weapon.SerialNumber = nullableString(serialNumber)
	weapon.AcquisitionDate = nullableString(acqDate)
	weapon.AcquisitionPrice = nullableFloat(acqPrice)
	weapon.WeaponCardRef = nullableString(cardRef)
	weapon.OperationMode = nullableString(opMode)
	weapon.Caliber = nullableString(caliber)
	weapon.Notes = nullableString(notes)
	weapon.OwnershipStatus = OwnershipOwn
	if ownership.Valid && ownership.String != "" {
		weapon.OwnershipStatus = OwnershipStatus(ownership.String)
	}
	weapon.LoanContactName = nullableString(loanContact)
	weapon.LoanStartDate = nullableString(loanStart)
	weapon.LoanEndDate = nullableString(loanEnd)

	var aggregated []aggregatedLink
	if err := json.Unmarshal([]byte(programsJSON), &aggregated); err != nil {
		return nil, fmt.Errorf("failed to decode aggregated links: %w", err)
	}

	weapon.Programs = make([]ProgramLink, 0, len(aggregated))
	for _, link := range aggregated {
		weapon.Programs = append(weapon.Programs, ProgramLink{
			ProgramID:      link.ProgramID,
			ProgramName:    link.ProgramName,
			OrganizationID: link.OrganizationID,
			IsReserve:      link.IsReserve != 0,
			Status:         LinkStatus(link.Status),
		})
	}

	return &weapon, nil
}

// placeholders returns n comma-separated SQL placeholders
func placeholders(n int) string {
	if n == 0 {
		return "NULL"
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
