package storage

import (
	"database/sql"
	"fmt"
)

// OrganizationRepository provides reads and membership toggles over the
// organizations reference table
type OrganizationRepository struct {
	db *DB
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

const organizationColumns = "id, name, short_name, country, org_number, is_member"

// List returns all organizations ordered by short name
func (r *OrganizationRepository) List() ([]Organization, error) {
	rows, err := r.db.Query(`
		SELECT ` + organizationColumns + `
		FROM organizations
		ORDER BY short_name COLLATE NOCASE ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	orgs := []Organization{}
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, *org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}

	return orgs, nil
}

// GetByID returns a single organization, or nil if absent
func (r *OrganizationRepository) GetByID(id string) (*Organization, error) {
	rows, err := r.db.Query(`
		SELECT `+organizationColumns+`
		FROM organizations
		WHERE id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get organization: %w", err)
		}
		return nil, nil
	}

	return scanOrganization(rows)
}

// MemberIDs returns the ids of all organizations the user is a member of
func (r *OrganizationRepository) MemberIDs() ([]string, error) {
	rows, err := r.db.Query("SELECT id FROM organizations WHERE is_member = 1")
	if err != nil {
		return nil, fmt.Errorf("failed to list member organizations: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list member organizations: %w", err)
	}

	return ids, nil
}

// SetMembership sets the user-owned membership flag on one organization.
// An unknown id affects zero rows and is not an error.
func (r *OrganizationRepository) SetMembership(id string, isMember bool) error {
	_, err := r.db.Exec(
		"UPDATE organizations SET is_member = ? WHERE id = ?",
		boolToInt(isMember), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set membership: %w", err)
	}
	return nil
}

// SetAllMemberships sets the membership flag on every organization
func (r *OrganizationRepository) SetAllMemberships(isMember bool) error {
	_, err := r.db.Exec("UPDATE organizations SET is_member = ?", boolToInt(isMember))
	if err != nil {
		return fmt.Errorf("failed to set memberships: %w", err)
	}
	return nil
}

func scanOrganization(rows *sql.Rows) (*Organization, error) {
	var (
		org       Organization
		country   sql.NullString
		orgNumber sql.NullString
		isMember  int
	)

	err := rows.Scan(&org.ID, &org.Name, &org.ShortName, &country, &orgNumber, &isMember)
	if err != nil {
		return nil, fmt.Errorf("failed to scan organization: %w", err)
	}

	org.Country = nullableString(country)
	org.OrgNumber = nullableString(orgNumber)
	org.IsMember = isMember != 0

	return &org, nil
}
