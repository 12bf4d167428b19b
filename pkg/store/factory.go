package store

import (
	"fmt"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/observability/logging"
)

// NewStore creates an advice store from the configuration. An empty
// backend defaults to memory.
func NewStore(config Config) (Store, error) {
	switch config.Backend {
	case MemoryBackend, "":
		logging.Infof("Creating memory advice store")
		return NewMemoryStore(), nil

	case SQLiteBackend:
		logging.Infof("Creating SQLite advice store at %s", config.SQLite.Path)
		return NewSQLiteStore(config.SQLite)

	case RedisBackend:
		logging.Infof("Creating Redis advice store at %s", config.Redis.Address)
		return NewRedisStore(config.Redis)

	default:
		return nil, fmt.Errorf("unknown store backend: %s (supported: memory, sqlite, redis)", config.Backend)
	}
}

// ValidateConfig validates the store configuration without opening any
// connections.
func ValidateConfig(config Config) error {
	switch config.Backend {
	case MemoryBackend, "":
		return nil

	case SQLiteBackend:
		if config.SQLite.Path == "" {
			return fmt.Errorf("sqlite path is required for sqlite backend")
		}
		return nil

	case RedisBackend:
		if config.Redis.Address == "" {
			return fmt.Errorf("redis address is required for redis backend")
		}
		return nil

	default:
		return fmt.Errorf("unknown store backend: %s", config.Backend)
	}
}
