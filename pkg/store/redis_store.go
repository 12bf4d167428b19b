package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/observability/logging"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/observability/metrics"
)

// RedisStore implements Store over Redis. Entries are stored as JSON with
// sorted-set and set indexes for listing and filtering.
//
// Key patterns:
//   - {prefix}id                      -> ID counter (INCR)
//   - {prefix}entry:{id}              -> JSON entry data
//   - {prefix}index:time              -> Sorted set by creation time (score = unix nano)
//   - {prefix}index:category:{name}   -> Set of entry IDs for a category
//   - {prefix}index:confirmed         -> Set of admin-confirmed entry IDs
//   - {prefix}index:categories        -> Set of category names seen
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore creates a Redis-backed advice store and verifies the
// connection before returning.
func NewRedisStore(config RedisStoreConfig) (*RedisStore, error) {
	if config.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	keyPrefix := config.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "advice:"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Password: config.Password,
		DB:       config.Database,
	})

	store := &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.TestConnection(ctx); err != nil {
		client.Close()
		return nil, err
	}

	logging.Infof("RedisStore connected to %s with prefix %s", config.Address, keyPrefix)
	return store, nil
}

func (r *RedisStore) TestConnection(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Key generation helpers

func (r *RedisStore) counterKey() string {
	return r.keyPrefix + "id"
}

func (r *RedisStore) entryKey(id int64) string {
	return r.keyPrefix + "entry:" + strconv.FormatInt(id, 10)
}

func (r *RedisStore) timeIndexKey() string {
	return r.keyPrefix + "index:time"
}

func (r *RedisStore) categoryIndexKey(category string) string {
	return r.keyPrefix + "index:category:" + category
}

func (r *RedisStore) confirmedIndexKey() string {
	return r.keyPrefix + "index:confirmed"
}

func (r *RedisStore) categoriesKey() string {
	return r.keyPrefix + "index:categories"
}

func (r *RedisStore) Insert(ctx context.Context, entry *AdviceEntry) (int64, error) {
	if entry == nil || entry.Category == "" || entry.Information == "" {
		metrics.StoreOperations.WithLabelValues("insert", "error").Inc()
		return 0, ErrInvalidInput
	}

	id, err := r.client.Incr(ctx, r.counterKey()).Result()
	if err != nil {
		metrics.StoreOperations.WithLabelValues("insert", "error").Inc()
		return 0, fmt.Errorf("failed to allocate entry ID: %w", err)
	}

	now := time.Now().UTC()
	stored := *entry
	stored.ID = id
	stored.CreatedAt = now
	stored.UpdatedAt = now

	data, err := json.Marshal(&stored)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal entry: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.entryKey(id), data, 0)
	pipe.ZAdd(ctx, r.timeIndexKey(), redis.Z{
		Score:  float64(now.UnixNano()),
		Member: id,
	})
	pipe.SAdd(ctx, r.categoryIndexKey(stored.Category), id)
	pipe.SAdd(ctx, r.categoriesKey(), stored.Category)
	if stored.AdminConfirmed {
		pipe.SAdd(ctx, r.confirmedIndexKey(), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		metrics.StoreOperations.WithLabelValues("insert", "error").Inc()
		return 0, fmt.Errorf("failed to store entry: %w", err)
	}

	metrics.StoreOperations.WithLabelValues("insert", "ok").Inc()
	return id, nil
}

func (r *RedisStore) GetByID(ctx context.Context, id int64) (*AdviceEntry, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	data, err := r.client.Get(ctx, r.entryKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	var entry AdviceEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entry: %w", err)
	}
	return &entry, nil
}

func (r *RedisStore) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	ids, err := r.client.ZRevRange(ctx, r.timeIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list entry IDs: %w", err)
	}

	var matched []*AdviceEntry
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		entry, err := r.GetByID(ctx, id)
		if err != nil {
			// Skip index entries whose record is gone.
			continue
		}
		if opts.Category != "" && entry.Category != opts.Category {
			continue
		}
		if opts.ConfirmedOnly && !entry.AdminConfirmed {
			continue
		}
		matched = append(matched, entry)
	}

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

func (r *RedisStore) Search(ctx context.Context, term string) ([]*AdviceEntry, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrInvalidInput
	}
	needle := strings.ToLower(term)

	ids, err := r.client.ZRevRange(ctx, r.timeIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list entry IDs: %w", err)
	}

	var matched []*AdviceEntry
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		entry, err := r.GetByID(ctx, id)
		if err != nil {
			continue
		}
		if entryMatchesTerm(entry, needle) {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

func (r *RedisStore) Update(ctx context.Context, id int64, patch EntryPatch) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if patch.IsEmpty() {
		return ErrEmptyPatch
	}

	entry, err := r.GetByID(ctx, id)
	if err != nil {
		metrics.StoreOperations.WithLabelValues("update", "error").Inc()
		return err
	}

	oldCategory := entry.Category
	oldConfirmed := entry.AdminConfirmed

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

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.entryKey(id), data, 0)
	if entry.Category != oldCategory {
		pipe.SRem(ctx, r.categoryIndexKey(oldCategory), id)
		pipe.SAdd(ctx, r.categoryIndexKey(entry.Category), id)
		pipe.SAdd(ctx, r.categoriesKey(), entry.Category)
	}
	if entry.AdminConfirmed != oldConfirmed {
		if entry.AdminConfirmed {
			pipe.SAdd(ctx, r.confirmedIndexKey(), id)
		} else {
			pipe.SRem(ctx, r.confirmedIndexKey(), id)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		metrics.StoreOperations.WithLabelValues("update", "error").Inc()
		return fmt.Errorf("failed to update entry: %w", err)
	}

	metrics.StoreOperations.WithLabelValues("update", "ok").Inc()
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}

	entry, err := r.GetByID(ctx, id)
	if err != nil {
		metrics.StoreOperations.WithLabelValues("delete", "error").Inc()
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.entryKey(id))
	pipe.ZRem(ctx, r.timeIndexKey(), id)
	pipe.SRem(ctx, r.categoryIndexKey(entry.Category), id)
	pipe.SRem(ctx, r.confirmedIndexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		metrics.StoreOperations.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	metrics.StoreOperations.WithLabelValues("delete", "ok").Inc()
	return nil
}

func (r *RedisStore) Statistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{PerCategory: make(map[string]int64)}

	total, err := r.client.ZCard(ctx, r.timeIndexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}
	stats.Total = total

	confirmed, err := r.client.SCard(ctx, r.confirmedIndexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to count confirmed entries: %w", err)
	}
	stats.Confirmed = confirmed

	categories, err := r.client.SMembers(ctx, r.categoriesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	for _, category := range categories {
		count, err := r.client.SCard(ctx, r.categoryIndexKey(category)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to count category %q: %w", category, err)
		}
		if count > 0 {
			stats.PerCategory[category] = count
		}
	}
	return stats, nil
}
