// Package export writes the flattened CSV projection of the weapon
// aggregate, the interchange format the sharing UI hands to other apps.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"armory/internal/storage"
)

// csvHeader is the fixed column set of the projection
var csvHeader = []string{
	"id", "displayName", "type", "manufacturer", "model", "serialNumber",
	"acquisitionDate", "acquisitionPrice", "weaponCardRef", "operationMode",
	"caliber", "notes", "programs", "reserve",
}

// WriteCSV writes one row per weapon. The programs column joins the names
// of approved links with semicolons; the reserve column holds a literal X
// when any approved link is a reserve registration. Quoting follows
// standard CSV rules.
func WriteCSV(w io.Writer, weapons []storage.Weapon) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, weapon := range weapons {
		if err := writer.Write(weaponRow(weapon)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func weaponRow(weapon storage.Weapon) []string {
	approved := []string{}
	reserve := ""
	for _, link := range weapon.Programs {
		if link.Status != storage.StatusApproved {
			continue
		}
		approved = append(approved, link.ProgramName)
		if link.IsReserve {
			reserve = "X"
		}
	}

	return []string{
		weapon.ID,
		weapon.DisplayName,
		weapon.Type,
		deref(weapon.Manufacturer),
		deref(weapon.Model),
		deref(weapon.SerialNumber),
		deref(weapon.AcquisitionDate),
		formatPrice(weapon.AcquisitionPrice),
		deref(weapon.WeaponCardRef),
		deref(weapon.OperationMode),
		deref(weapon.Caliber),
		deref(weapon.Notes),
		strings.Join(approved, ";"),
		reserve,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatPrice(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
