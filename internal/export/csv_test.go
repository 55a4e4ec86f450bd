package export

import (
	"encoding/csv"
	"strings"
	"testing"

	"armory/internal/storage"
)

func strp(s string) *string { return &s }

func TestWriteCSV(t *testing.T) {
	price := 8500.5
	weapons := []storage.Weapon{
		{
			ID:               "w1",
			DisplayName:      "Glock 17",
			Type:             "pistol",
			Manufacturer:     strp("Glock"),
			SerialNumber:     strp("ABC123"),
			AcquisitionPrice: &price,
			Caliber:          strp("9mm Luger"),
			Notes:            strp("has a \"quote\", and a comma"),
			Programs: []storage.ProgramLink{
				{ProgramName: "Felt", Status: storage.StatusApproved},
				{ProgramName: "Bane", Status: storage.StatusApproved, IsReserve: true},
				{ProgramName: "Hidden", Status: storage.StatusPending},
			},
		},
		{
			ID:          "w2",
			DisplayName: "Bare",
			Type:        "rifle",
			Programs:    []storage.ProgramLink{},
		},
	}

	var buf strings.Builder
	if err := WriteCSV(&buf, weapons); err != nil {
		t.Fatalf("Failed to write CSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d records", len(records))
	}

	header := records[0]
	if len(header) != 14 || header[0] != "id" || header[12] != "programs" || header[13] != "reserve" {
		t.Errorf("Unexpected header: %v", header)
	}

	row := records[1]
	if row[0] != "w1" || row[1] != "Glock 17" {
		t.Errorf("Unexpected identity columns: %v", row[:2])
	}
	if row[7] != "8500.5" {
		t.Errorf("Expected price 8500.5, got %q", row[7])
	}
	if row[11] != "has a \"quote\", and a comma" {
		t.Errorf("Quoted field did not round-trip: %q", row[11])
	}
	// Only approved links appear, joined by semicolons
	if row[12] != "Felt;Bane" {
		t.Errorf("Expected programs 'Felt;Bane', got %q", row[12])
	}
	if row[13] != "X" {
		t.Errorf("Expected reserve marker X, got %q", row[13])
	}

	empty := records[2]
	if empty[3] != "" || empty[7] != "" || empty[12] != "" || empty[13] != "" {
		t.Errorf("Expected empty optional columns, got %v", empty)
	}
}

func TestWriteCSVNoWeapons(t *testing.T) {
	var buf strings.Builder
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("Failed to write CSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 1 {
		t.Errorf("Expected header only, got %d lines", len(lines))
	}
}

func TestReserveMarkerIgnoresUnapprovedLinks(t *testing.T) {
	weapons := []storage.Weapon{
		{
			ID: "w1", DisplayName: "W", Type: "pistol",
			Programs: []storage.ProgramLink{
				{ProgramName: "P", Status: storage.StatusPending, IsReserve: true},
			},
		},
	}

	var buf strings.Builder
	if err := WriteCSV(&buf, weapons); err != nil {
		t.Fatalf("Failed to write CSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if records[1][12] != "" || records[1][13] != "" {
		t.Errorf("Expected pending link excluded, got programs=%q reserve=%q",
			records[1][12], records[1][13])
	}
}
