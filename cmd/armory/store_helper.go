package main

import (
	"fmt"
	"os"
	"sync"

	"armory/internal/backup"
	"armory/internal/bus"
	"armory/internal/config"
	"armory/internal/logging"
	"armory/internal/paths"
	"armory/internal/storage"
)

// appStore bundles the shared connection handle and the repositories
// built on it. One instance serves the whole process.
type appStore struct {
	cfg      *config.Config
	logger   *logging.Logger
	db       *storage.DB
	notifier *bus.Bus
	seeder   *storage.Seeder
	weapons  *storage.WeaponRepository
	orgs     *storage.OrganizationRepository
	programs *storage.ProgramRepository
	backups  *backup.Service
}

var (
	storeOnce   sync.Once
	sharedStore *appStore
	storeErr    error
)

// getStore returns the shared store, lazily initialized on first use.
// Initialization runs the seed synchronizer, so every command starts from
// a migrated, reference-complete schema.
func getStore() (*appStore, error) {
	storeOnce.Do(func() {
		dataDir, err := paths.DataDir(dataDirFlag)
		if err != nil {
			storeErr = fmt.Errorf("failed to resolve data directory: %w", err)
			return
		}

		cfg, err := config.LoadConfig(dataDir)
		if err != nil {
			storeErr = fmt.Errorf("failed to load config: %w", err)
			return
		}
		if err := cfg.Validate(); err != nil {
			storeErr = err
			return
		}

		logger := logging.NewLogger(logging.Config{
			Format: logging.Format(cfg.Logging.Format),
			Level:  logging.ParseLevel(cfg.Logging.Level),
		})

		db, err := storage.Open(dataDir, logger)
		if err != nil {
			storeErr = fmt.Errorf("failed to open database: %w", err)
			return
		}

		seeder := storage.NewSeeder(db, cfg.Seed.DemoWeapons, logger)
		if err := seeder.Ensure(); err != nil {
			db.Close()
			storeErr = fmt.Errorf("failed to synchronize reference data: %w", err)
			return
		}

		backupDir := cfg.Backup.Dir
		if backupDir == "" {
			backupDir = paths.BackupPath(dataDir)
		}

		notifier := bus.New()
		sharedStore = &appStore{
			cfg:      cfg,
			logger:   logger,
			db:       db,
			notifier: notifier,
			seeder:   seeder,
			weapons:  storage.NewWeaponRepository(db),
			orgs:     storage.NewOrganizationRepository(db),
			programs: storage.NewProgramRepository(db),
			backups:  backup.NewService(db, notifier, backupDir, logger),
		}
	})

	return sharedStore, storeErr
}

// mustGetStore returns the shared store or exits on error
func mustGetStore() *appStore {
	store, err := getStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return store
}
