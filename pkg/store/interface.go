// Package store provides the persistent advice store with pluggable
// backends: memory for tests and development, SQLite for single-node
// deployments, Redis for shared deployments.
package store

import (
	"context"
	"time"
)

// AdviceEntry is one processed piece of advice. Subcategories travel as a
// list in memory and as a single comma-joined string at the storage
// boundary (see taxonomy.FormatSubcategories).
type AdviceEntry struct {
	ID                 int64     `json:"id"`
	Category           string    `json:"category"`
	Subcategories      []string  `json:"subcategories"`
	Information        string    `json:"information"`
	OriginalText       string    `json:"original_text"`
	ConfidenceScore    float64   `json:"confidence_score"`
	ProcessingMetadata string    `json:"processing_metadata,omitempty"`
	AdminConfirmed     bool      `json:"admin_confirmed"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// EntryPatch carries the fields an Update may change. Nil pointers leave
// the stored value untouched; a non-nil Subcategories replaces the whole
// list.
type EntryPatch struct {
	Category           *string
	Subcategories      []string
	Information        *string
	ConfidenceScore    *float64
	ProcessingMetadata *string
	AdminConfirmed     *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p EntryPatch) IsEmpty() bool {
	return p.Category == nil && p.Subcategories == nil && p.Information == nil &&
		p.ConfidenceScore == nil && p.ProcessingMetadata == nil && p.AdminConfirmed == nil
}

// Store is the persistence contract. Implementations must be safe for
// concurrent use. Lookups for missing IDs return ErrNotFound; callers
// translate errors into user-facing success/message pairs.
type Store interface {
	// TestConnection verifies the backend is reachable.
	TestConnection(ctx context.Context) error

	// Insert stores a new entry and returns its assigned ID.
	Insert(ctx context.Context, entry *AdviceEntry) (int64, error)

	// GetByID retrieves one entry.
	GetByID(ctx context.Context, id int64) (*AdviceEntry, error)

	// List returns entries newest-first with pagination and filtering.
	List(ctx context.Context, opts ListOptions) (*ListResult, error)

	// Search returns entries whose text or category contains the term,
	// case-insensitive, newest-first.
	Search(ctx context.Context, term string) ([]*AdviceEntry, error)

	// Update applies a partial update and refreshes UpdatedAt.
	Update(ctx context.Context, id int64, patch EntryPatch) error

	// Delete removes an entry.
	Delete(ctx context.Context, id int64) error

	// Statistics returns entry counts overall and per category.
	Statistics(ctx context.Context) (*Statistics, error)

	// Close releases backend resources.
	Close() error
}

// ListOptions contains pagination and filtering options.
type ListOptions struct {
	// Limit is the maximum number of entries to return.
	Limit int

	// Offset skips that many entries from the newest end.
	Offset int

	// Category filters to one category when non-empty.
	Category string

	// ConfirmedOnly restricts results to admin-confirmed entries.
	ConfirmedOnly bool
}

// ListResult is one page of entries.
type ListResult struct {
	Entries []*AdviceEntry

	// HasMore indicates entries exist beyond this page.
	HasMore bool

	// Total is the number of entries matching the filters, ignoring
	// pagination.
	Total int64
}

// Statistics summarizes the store contents.
type Statistics struct {
	Total       int64            `json:"total"`
	Confirmed   int64            `json:"confirmed"`
	PerCategory map[string]int64 `json:"per_category"`
}

// Default pagination bounds.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// clampLimit applies the pagination bounds to a requested limit.
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// BackendType selects a store implementation.
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	SQLiteBackend BackendType = "sqlite"
	RedisBackend  BackendType = "redis"
)

// Config selects and configures a backend.
type Config struct {
	Backend BackendType       `yaml:"backend"`
	SQLite  SQLiteStoreConfig `yaml:"sqlite"`
	Redis   RedisStoreConfig  `yaml:"redis"`
}

// SQLiteStoreConfig configures the SQLite backend.
type SQLiteStoreConfig struct {
	// Path is the database file path (e.g. "advice.db").
	Path string `yaml:"path"`
}

// RedisStoreConfig configures the Redis backend.
type RedisStoreConfig struct {
	// Address is the Redis server address (e.g. "localhost:6379").
	Address string `yaml:"address"`

	// Database is the Redis database number.
	Database int `yaml:"database"`

	// Password is the Redis password.
	Password string `yaml:"password"`

	// KeyPrefix is the prefix for all keys (default: "advice:").
	KeyPrefix string `yaml:"key_prefix"`
}
