package refdata

import "testing"

func TestOrganizationsDecode(t *testing.T) {
	orgs, err := Organizations()
	if err != nil {
		t.Fatalf("Failed to decode bundled reference list: %v", err)
	}
	if len(orgs) == 0 {
		t.Fatal("Expected bundled organizations")
	}

	seenOrgIDs := map[string]bool{}
	for _, org := range orgs {
		if org.ID == "" || org.Name == "" || org.ShortName == "" {
			t.Errorf("Organization missing required fields: %+v", org)
		}
		if seenOrgIDs[org.ID] {
			t.Errorf("Duplicate organization id %q", org.ID)
		}
		seenOrgIDs[org.ID] = true
		if len(org.Programs) == 0 {
			t.Errorf("Organization %s has no programs", org.ID)
		}
	}
}

func TestProgramIDsUnique(t *testing.T) {
	orgs, err := Organizations()
	if err != nil {
		t.Fatalf("Failed to decode bundled reference list: %v", err)
	}

	seen := map[string]bool{}
	for _, org := range orgs {
		for _, program := range org.Programs {
			if program.ID == "" || program.Name == "" {
				t.Errorf("Program missing required fields: %+v", program)
			}
			if seen[program.ID] {
				t.Errorf("Duplicate program id %q", program.ID)
			}
			seen[program.ID] = true
		}
	}
}

func TestDemoWeaponsReferenceBundledPrograms(t *testing.T) {
	orgs, err := Organizations()
	if err != nil {
		t.Fatalf("Failed to decode bundled reference list: %v", err)
	}
	programIDs := map[string]bool{}
	for _, org := range orgs {
		for _, program := range org.Programs {
			programIDs[program.ID] = true
		}
	}

	weapons, err := DemoWeapons()
	if err != nil {
		t.Fatalf("Failed to decode demo weapon payload: %v", err)
	}
	if len(weapons) == 0 {
		t.Fatal("Expected bundled demo weapons")
	}

	for _, weapon := range weapons {
		if weapon.ID == "" || weapon.DisplayName == "" || weapon.Type == "" {
			t.Errorf("Demo weapon missing required fields: %+v", weapon)
		}
		for _, link := range weapon.Programs {
			if !programIDs[link.ProgramID] {
				t.Errorf("Demo weapon %s links unknown program %q", weapon.ID, link.ProgramID)
			}
		}
	}
}
