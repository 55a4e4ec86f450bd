package storage

import (
	"database/sql"
	"fmt"
	"sync"

	"armory/internal/logging"
	"armory/internal/refdata"
)

// seedState tracks the single-flight initialization guard
type seedState int

const (
	seedNotStarted seedState = iota
	seedInFlight
	seedCompleted
)

// Seeder synchronizes the bundled reference list into the store.
// Ensure is safe to call concurrently from any number of callers during
// startup: the first call runs the synchronization, every other call
// awaits that same run and returns its result.
type Seeder struct {
	db          *DB
	logger      *logging.Logger
	demoWeapons bool

	mu    sync.Mutex
	state seedState
	done  chan struct{}
	err   error
}

// NewSeeder creates a seed synchronizer. When demoWeapons is true,
// demonstration weapons are inserted into a completely empty store.
func NewSeeder(db *DB, demoWeapons bool, logger *logging.Logger) *Seeder {
	return &Seeder{
		db:          db,
		logger:      logger,
		demoWeapons: demoWeapons,
	}
}

// Ensure runs the reference-data synchronization exactly once per Seeder.
// Concurrent callers collapse onto the in-flight run; later callers get
// the memoized result.
func (s *Seeder) Ensure() error {
	s.mu.Lock()
	switch s.state {
	case seedCompleted:
		err := s.err
		s.mu.Unlock()
		return err
	case seedInFlight:
		done := s.done
		s.mu.Unlock()
		<-done
		s.mu.Lock()
		err := s.err
		s.mu.Unlock()
		return err
	}
	s.state = seedInFlight
	s.done = make(chan struct{})
	s.mu.Unlock()

	err := s.run()

	s.mu.Lock()
	s.err = err
	s.state = seedCompleted
	close(s.done)
	s.mu.Unlock()

	return err
}

// Reset discards the memoized run so the next Ensure synchronizes again.
// Used after a restore replaced the store contents.
func (s *Seeder) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == seedCompleted {
		s.state = seedNotStarted
		s.err = nil
		s.done = nil
	}
}

func (s *Seeder) run() error {
	orgs, err := refdata.Organizations()
	if err != nil {
		return err
	}

	if err := s.syncReferenceData(orgs); err != nil {
		return err
	}

	if s.demoWeapons {
		if err := s.seedDemoWeapons(); err != nil {
			return err
		}
	}

	return nil
}

// syncReferenceData upserts the immutable reference fields of every
// bundled organization and program. The user-owned is_member flag is only
// written for brand-new organization rows (as false); existing rows keep
// whatever the user set.
func (s *Seeder) syncReferenceData(orgs []refdata.Organization) error {
	return s.db.WithTx(func(tx *sql.Tx) error {
		for _, org := range orgs {
			_, err := tx.Exec(`
				INSERT INTO organizations (id, name, short_name, country, org_number, is_member)
				VALUES (?, ?, ?, ?, ?, 0)
				ON CONFLICT(id) DO UPDATE SET
					name = excluded.name,
					short_name = excluded.short_name,
					country = excluded.country,
					org_number = excluded.org_number
			`, org.ID, org.Name, org.ShortName, emptyToNull(org.Country), emptyToNull(org.OrgNumber))
			if err != nil {
				return fmt.Errorf("failed to sync organization %s: %w", org.ID, err)
			}

			for _, program := range org.Programs {
				_, err := tx.Exec(`
					INSERT INTO programs (id, organization_id, name, weapon_category, is_reserve_allowed)
					VALUES (?, ?, ?, ?, ?)
					ON CONFLICT(id) DO UPDATE SET
						organization_id = excluded.organization_id,
						name = excluded.name,
						weapon_category = excluded.weapon_category,
						is_reserve_allowed = excluded.is_reserve_allowed
				`, program.ID, org.ID, program.Name, emptyToNull(program.WeaponCategory),
					boolToInt(program.ReserveAllowed))
				if err != nil {
					return fmt.Errorf("failed to sync program %s: %w", program.ID, err)
				}
			}
		}

		s.logger.Debug("Reference data synchronized", map[string]interface{}{
			"organizations": len(orgs),
		})
		return nil
	})
}

// seedDemoWeapons inserts the bundled demonstration weapons, but only when
// the weapons table is completely empty. The emptiness check and inserts
// share one transaction.
func (s *Seeder) seedDemoWeapons() error {
	weapons, err := refdata.DemoWeapons()
	if err != nil {
		return err
	}

	return s.db.WithTx(func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRow("SELECT COUNT(*) FROM weapons").Scan(&count); err != nil {
			return fmt.Errorf("failed to count weapons: %w", err)
		}
		if count > 0 {
			return nil
		}

		for _, demo := range weapons {
			input := demoWeaponInput(demo)
			if err := upsertWeaponTx(tx, input); err != nil {
				return err
			}
		}

		s.logger.Info("Seeded demonstration weapons", map[string]interface{}{
			"count": len(weapons),
		})
		return nil
	})
}

// demoWeaponInput maps a bundled demo record onto an upsert input
func demoWeaponInput(demo refdata.DemoWeapon) WeaponInput {
	selections := make([]ProgramSelection, 0, len(demo.Programs))
	for _, link := range demo.Programs {
		selections = append(selections, ProgramSelection{
			ProgramID: link.ProgramID,
			Status:    LinkStatus(link.Status),
			IsReserve: link.IsReserve,
		})
	}

	ownership := OwnershipStatus(demo.OwnershipStatus)
	if ownership == "" {
		ownership = OwnershipOwn
	}

	return WeaponInput{
		ID:              demo.ID,
		DisplayName:     demo.DisplayName,
		Type:            demo.Type,
		Manufacturer:    emptyToNil(demo.Manufacturer),
		Model:           emptyToNil(demo.Model),
		SerialNumber:    emptyToNil(demo.SerialNumber),
		Caliber:         emptyToNil(demo.Caliber),
		OperationMode:   emptyToNil(demo.OperationMode),
		OwnershipStatus: ownership,
		Programs:        selections,
	}
}

// emptyToNull maps an empty reference-data string to a SQL NULL
func emptyToNull(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// emptyToNil maps an empty string to a nil pointer
func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
