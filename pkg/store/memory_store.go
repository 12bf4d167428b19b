package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/observability/metrics"
)

// MemoryStore is the in-memory Store implementation. Entries live for
// the process lifetime; intended for tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[int64]*AdviceEntry
	nextID  int64
}

// NewMemoryStore creates an empty in-memory advice store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[int64]*AdviceEntry),
		nextID:  1,
	}
}

// TestConnection always succeeds while the store is open.
func (m *MemoryStore) TestConnection(_ context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.entries == nil {
		return ErrConnectionFailed
	}
	return nil
}

// Close releases the entry map. Further operations fail.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}

// Insert stores a new entry, assigning the next ID and both timestamps.
func (m *MemoryStore) Insert(_ context.Context, entry *AdviceEntry) (int64, error) {
	if entry == nil || entry.Category == "" || entry.Information == "" {
		metrics.StoreOperations.WithLabelValues("insert", "error").Inc()
		return 0, ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		return 0, ErrConnectionFailed
	}

	now := time.Now().UTC()
	stored := *entry
	stored.ID = m.nextID
	stored.Subcategories = append([]string(nil), entry.Subcategories...)
	stored.CreatedAt = now
	stored.UpdatedAt = now

	m.entries[stored.ID] = &stored
	m.nextID++

	metrics.StoreOperations.WithLabelValues("insert", "ok").Inc()
	return stored.ID, nil
}

// GetByID retrieves a copy of one entry.
func (m *MemoryStore) GetByID(_ context.Context, id int64) (*AdviceEntry, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.entries == nil {
		return nil, ErrConnectionFailed
	}

	entry, exists := m.entries[id]
	if !exists {
		return nil, ErrNotFound
	}
	result := *entry
	result.Subcategories = append([]string(nil), entry.Subcategories...)
	return &result, nil
}

// List returns entries newest-first with offset/limit pagination.
func (m *MemoryStore) List(_ context.Context, opts ListOptions) (*ListResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.entries == nil {
		return nil, ErrConnectionFailed
	}

	var matched []*AdviceEntry
	for _, entry := range m.entries {
		if opts.Category != "" && entry.Category != opts.Category {
			continue
		}
		if opts.ConfirmedOnly && !entry.AdminConfirmed {
			continue
		}
		result := *entry
		result.Subcategories = append([]string(nil), entry.Subcategories...)
		matched = append(matched, &result)
	}
	sortNewestFirst(matched)

	total := int64(len(matched))
	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[opts.Offset:]
		}
	}

	limit := clampLimit(opts.Limit)
	hasMore := len(matched) > limit
	if hasMore {
		matched = matched[:limit]
	}

	return &ListResult{Entries: matched, HasMore: hasMore, Total: total}, nil
}

// Search matches the term case-insensitively against the cleaned text,
// the original text and the category name.
func (m *MemoryStore) Search(_ context.Context, term string) ([]*AdviceEntry, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrInvalidInput
	}
	needle := strings.ToLower(term)

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.entries == nil {
		return nil, ErrConnectionFailed
	}

	var matched []*AdviceEntry
	for _, entry := range m.entries {
		if entryMatchesTerm(entry, needle) {
			result := *entry
			result.Subcategories = append([]string(nil), entry.Subcategories...)
			matched = append(matched, &result)
		}
	}
	sortNewestFirst(matched)
	return matched, nil
}

// Update applies a partial update in place and bumps UpdatedAt.
func (m *MemoryStore) Update(_ context.Context, id int64, patch EntryPatch) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if patch.IsEmpty() {
		return ErrEmptyPatch
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		return ErrConnectionFailed
	}

	entry, exists := m.entries[id]
	if !exists {
		metrics.StoreOperations.WithLabelValues("update", "error").Inc()
		return ErrNotFound
	}

	if patch.Category != nil {
		entry.Category = *patch.Category
	}
	if patch.Subcategories != nil {
		entry.Subcategories = append([]string(nil), patch.Subcategories...)
	}
	if patch.Information != nil {
		entry.Information = *patch.Information
	}
	if patch.ConfidenceScore != nil {
		entry.ConfidenceScore = *patch.ConfidenceScore
	}
	if patch.ProcessingMetadata != nil {
		entry.ProcessingMetadata = *patch.ProcessingMetadata
	}
	if patch.AdminConfirmed != nil {
		entry.AdminConfirmed = *patch.AdminConfirmed
	}
	entry.UpdatedAt = time.Now().UTC()

	metrics.StoreOperations.WithLabelValues("update", "ok").Inc()
	return nil
}

// Delete removes an entry.
func (m *MemoryStore) Delete(_ context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		return ErrConnectionFailed
	}

	if _, exists := m.entries[id]; !exists {
		metrics.StoreOperations.WithLabelValues("delete", "error").Inc()
		return ErrNotFound
	}
	delete(m.entries, id)

	metrics.StoreOperations.WithLabelValues("delete", "ok").Inc()
	return nil
}

// Statistics tallies the store contents.
func (m *MemoryStore) Statistics(_ context.Context) (*Statistics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.entries == nil {
		return nil, ErrConnectionFailed
	}

	stats := &Statistics{PerCategory: make(map[string]int64)}
	for _, entry := range m.entries {
		stats.Total++
		if entry.AdminConfirmed {
			stats.Confirmed++
		}
		stats.PerCategory[entry.Category]++
	}
	return stats, nil
}

// EntryCount returns the current number of entries (for testing).
func (m *MemoryStore) EntryCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func entryMatchesTerm(entry *AdviceEntry, needle string) bool {
	return strings.Contains(strings.ToLower(entry.Information), needle) ||
		strings.Contains(strings.ToLower(entry.OriginalText), needle) ||
		strings.Contains(strings.ToLower(entry.Category), needle)
}

// sortNewestFirst orders by creation time descending, ties broken by ID
// descending so insertion order stays stable under equal timestamps.
func sortNewestFirst(entries []*AdviceEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].ID > entries[j].ID
	})
}
