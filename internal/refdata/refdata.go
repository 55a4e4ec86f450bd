// Package refdata carries the bundled reference list the seed synchronizer
// asserts into the store on every start.
package refdata

import (
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed organizations.toml
var organizationsTOML []byte

//go:embed demo_weapons.yaml
var demoWeaponsYAML []byte

// Organization is a reference-list entry for a shooting-sport governing body
type Organization struct {
	ID        string    `toml:"id"`
	Name      string    `toml:"name"`
	ShortName string    `toml:"short_name"`
	Country   string    `toml:"country"`
	OrgNumber string    `toml:"org_number"`
	Programs  []Program `toml:"programs"`
}

// Program is a reference-list entry for a discipline offered by an organization
type Program struct {
	ID             string `toml:"id"`
	Name           string `toml:"name"`
	WeaponCategory string `toml:"weapon_category"`
	ReserveAllowed bool   `toml:"reserve_allowed"`
}

type referenceList struct {
	Organizations []Organization `toml:"organizations"`
}

// Organizations decodes the bundled reference list
func Organizations() ([]Organization, error) {
	var list referenceList
	if err := toml.Unmarshal(organizationsTOML, &list); err != nil {
		return nil, fmt.Errorf("failed to decode bundled reference list: %w", err)
	}
	return list.Organizations, nil
}

// DemoWeapon is a demonstration weapon for first-launch seeding
type DemoWeapon struct {
	ID              string            `yaml:"id"`
	DisplayName     string            `yaml:"displayName"`
	Type            string            `yaml:"type"`
	Manufacturer    string            `yaml:"manufacturer"`
	Model           string            `yaml:"model"`
	SerialNumber    string            `yaml:"serialNumber"`
	Caliber         string            `yaml:"caliber"`
	OperationMode   string            `yaml:"operationMode"`
	OwnershipStatus string            `yaml:"ownershipStatus"`
	Programs        []DemoProgramLink `yaml:"programs"`
}

// DemoProgramLink is a weapon-program selection on a demonstration weapon
type DemoProgramLink struct {
	ProgramID string `yaml:"programId"`
	Status    string `yaml:"status"`
	IsReserve bool   `yaml:"isReserve"`
}

type demoList struct {
	Weapons []DemoWeapon `yaml:"weapons"`
}

// DemoWeapons decodes the bundled demonstration weapon payload
func DemoWeapons() ([]DemoWeapon, error) {
	var list demoList
	if err := yaml.Unmarshal(demoWeaponsYAML, &list); err != nil {
		return nil, fmt.Errorf("failed to decode demo weapon payload: %w", err)
	}
	return list.Weapons, nil
}
