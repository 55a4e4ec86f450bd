package storage

import (
	"database/sql"
	"fmt"
	"strings"
)

// ProgramRepository provides reads and usage counts over the programs
// reference table
type ProgramRepository struct {
	db *DB
}

// NewProgramRepository creates a new program repository
func NewProgramRepository(db *DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// List returns programs ordered by name, optionally restricted to one
// organization (empty organizationID lists all).
func (r *ProgramRepository) List(organizationID string) ([]Program, error) {
	query := `
		SELECT id, organization_id, name, weapon_category, is_reserve_allowed
		FROM programs`
	args := []interface{}{}
	if organizationID != "" {
		query += "\n\t\tWHERE organization_id = ?"
		args = append(args, organizationID)
	}
	query += "\n\t\tORDER BY name COLLATE NOCASE ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	defer rows.Close()

	programs := []Program{}
	for rows.Next() {
		var (
			program        Program
			weaponCategory sql.NullString
			reserveAllowed sql.NullInt64
		)
		err := rows.Scan(&program.ID, &program.OrganizationID, &program.Name,
			&weaponCategory, &reserveAllowed)
		if err != nil {
			return nil, fmt.Errorf("failed to scan program: %w", err)
		}
		program.WeaponCategory = nullableString(weaponCategory)
		program.IsReserveAllowed = reserveAllowed.Valid && reserveAllowed.Int64 != 0
		programs = append(programs, program)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}

	return programs, nil
}

// Usage reports, per program, how many weapons hold an approved link and
// how many of those are reserve registrations. This counts approvals, not
// raw link rows: a pending or proposed link contributes to neither count.
func (r *ProgramRepository) Usage(filter UsageFilter) ([]ProgramUsage, error) {
	predicates := []string{}
	args := []interface{}{}

	if filter.OrganizationID != "" {
		predicates = append(predicates, "p.organization_id = ?")
		args = append(args, filter.OrganizationID)
	}
	if filter.AllowedOrganizationIDs != nil {
		predicates = append(predicates,
			"p.organization_id IN ("+placeholders(len(filter.AllowedOrganizationIDs))+")")
		for _, id := range filter.AllowedOrganizationIDs {
			args = append(args, id)
		}
	}

	query := `
		SELECT p.id, p.name, p.organization_id,
		       COUNT(CASE WHEN wp.status = 'approved' THEN 1 END) AS weapon_count,
		       COUNT(CASE WHEN wp.status = 'approved' AND wp.is_reserve = 1 THEN 1 END) AS reserve_count
		FROM programs p
		LEFT JOIN weapon_programs wp ON wp.program_id = p.id`
	if len(predicates) > 0 {
		query += "\n\t\tWHERE " + strings.Join(predicates, "\n\t\tAND ")
	}
	query += `
		GROUP BY p.id, p.name, p.organization_id
		ORDER BY p.name COLLATE NOCASE ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to compute program usage: %w", err)
	}
	defer rows.Close()

	usage := []ProgramUsage{}
	for rows.Next() {
		var u ProgramUsage
		if err := rows.Scan(&u.ProgramID, &u.ProgramName, &u.OrganizationID,
			&u.WeaponCount, &u.ReserveCount); err != nil {
			return nil, fmt.Errorf("failed to scan program usage: %w", err)
		}
		usage = append(usage, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to compute program usage: %w", err)
	}

	return usage, nil
}
