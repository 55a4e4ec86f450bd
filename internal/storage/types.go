package storage

// OwnershipStatus classifies how a weapon relates to its owner
type OwnershipStatus string

const (
	// OwnershipOwn marks a weapon owned by the user
	OwnershipOwn OwnershipStatus = "own"
	// OwnershipLoanIn marks a weapon borrowed from someone else
	OwnershipLoanIn OwnershipStatus = "loanIn"
	// OwnershipLoanOut marks a weapon lent to someone else
	OwnershipLoanOut OwnershipStatus = "loanOut"
)

// LinkStatus is the approval state of a weapon-program link
type LinkStatus string

const (
	// StatusApproved marks a link the authorities have approved
	StatusApproved LinkStatus = "approved"
	// StatusPending marks a link awaiting approval
	StatusPending LinkStatus = "pending"
	// StatusProposed marks a link the user intends to apply for
	StatusProposed LinkStatus = "proposed"
)

// ReserveFilter narrows a weapon listing by reserve registration
type ReserveFilter string

const (
	// ReserveAny does not filter on reserve flags
	ReserveAny ReserveFilter = "any"
	// ReserveOnly keeps weapons with at least one reserve link
	ReserveOnly ReserveFilter = "reserveOnly"
	// NonReserve keeps weapons with no reserve link at all
	NonReserve ReserveFilter = "nonReserve"
)

// OwnershipFilter narrows a weapon listing by ownership status
type OwnershipFilter string

const (
	// OwnershipAll does not filter on ownership
	OwnershipAll OwnershipFilter = "all"
)

// Organization represents a shooting-sport governing body.
// Reference data except for IsMember, which the user owns.
type Organization struct {
	ID        string
	Name      string
	ShortName string
	Country   *string
	OrgNumber *string
	IsMember  bool
}

// Program represents a discipline offered by an organization
type Program struct {
	ID               string
	OrganizationID   string
	Name             string
	WeaponCategory   *string
	IsReserveAllowed bool
}

// ProgramLink is an aggregated weapon-program relationship as returned by queries
type ProgramLink struct {
	ProgramID      string     `json:"programId"`
	ProgramName    string     `json:"programName"`
	OrganizationID string     `json:"organizationId"`
	IsReserve      bool       `json:"isReserve"`
	Status         LinkStatus `json:"status"`
}

// Weapon is a firearm record with its aggregated program links.
// Programs is always non-nil; a weapon without links carries an empty slice.
type Weapon struct {
	ID               string
	DisplayName      string
	Type             string
	Manufacturer     *string
	Model            *string
	SerialNumber     *string
	AcquisitionDate  *string
	AcquisitionPrice *float64
	WeaponCardRef    *string
	OperationMode    *string
	Caliber          *string
	Notes            *string
	OwnershipStatus  OwnershipStatus
	LoanContactName  *string
	LoanStartDate    *string
	LoanEndDate      *string
	Programs         []ProgramLink
}

// ProgramSelection is a submitted weapon-program link on upsert
type ProgramSelection struct {
	ProgramID string
	Status    LinkStatus // empty defaults to approved
	IsReserve bool
}

// WeaponInput is the full weapon record submitted to Upsert.
// The upsert replaces every mutable field: omitted optional fields are
// persisted as NULL, not left unchanged.
type WeaponInput struct {
	ID               string
	DisplayName      string
	Type             string
	Manufacturer     *string
	Model            *string
	SerialNumber     *string
	AcquisitionDate  *string
	AcquisitionPrice *float64
	WeaponCardRef    *string
	OperationMode    *string
	Caliber          *string
	Notes            *string
	OwnershipStatus  OwnershipStatus // empty defaults to own
	LoanContactName  *string
	LoanStartDate    *string
	LoanEndDate      *string
	Programs         []ProgramSelection
}

// WeaponFilter narrows a weapon listing. Zero values mean "no restriction".
type WeaponFilter struct {
	// OrganizationID keeps weapons with at least one link into the organization
	OrganizationID string
	// ProgramID keeps weapons linked to that exact program
	ProgramID string
	// Reserve filters on reserve registrations (default ReserveAny)
	Reserve ReserveFilter
	// Ownership keeps weapons with exactly this ownership status
	// (default OwnershipAll)
	Ownership OwnershipFilter
	// AllowedOrganizationIDs, when non-nil, restricts the aggregated link
	// lists to programs of these organizations
	AllowedOrganizationIDs []string
}

// UsageFilter narrows a program usage report
type UsageFilter struct {
	OrganizationID         string
	AllowedOrganizationIDs []string
}

// ProgramUsage reports how many weapons hold an approved link to a program
type ProgramUsage struct {
	ProgramID      string
	ProgramName    string
	OrganizationID string
	WeaponCount    int
	ReserveCount   int
}
