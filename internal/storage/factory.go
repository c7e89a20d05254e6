package storage

import (
	"github.com/SysAdminDoc/PillSleepTracker/internal"
	"github.com/SysAdminDoc/PillSleepTracker/internal/config"
)

// NewStore builds the DataStore selected by STORAGE_BACKEND.
func NewStore(cfg *config.Config, logger internal.Logger) (DataStore, error) {
	if cfg.StorageBackend == "postgres" {
		return NewPostgresStore(cfg.PostgresDSN, logger)
	}
	return NewFileStore(cfg.DataFile, cfg.SettingsFile, logger)
}
