package badger

import (
	"github.com/bobmcallan/hedge-portal/internal/common"
	"github.com/bobmcallan/hedge-portal/internal/config"
	"github.com/bobmcallan/hedge-portal/internal/interfaces"
)

// Manager implements interfaces.StorageManager for Badger.
type Manager struct {
	db *BadgerDB
	kv interfaces.KeyValueStorage
}

// NewManager opens the Badger database and wraps it as a StorageManager.
func NewManager(logger *common.Logger, cfg *config.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, cfg)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("backend", "badger").Str("path", cfg.Path).Msg("Storage initialized")

	return &Manager{db: db, kv: NewKVStorage(db, logger)}, nil
}

// KeyValueStorage returns the key-value store.
func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.kv
}

// Close closes the database connection.
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
