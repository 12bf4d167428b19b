package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/observability/logging"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/observability/metrics"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/taxonomy"
)

const adviceTable = "advice_dataset"

var sqliteSchema = fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	category TEXT NOT NULL,
	subcategories TEXT NOT NULL DEFAULT '',
	information TEXT NOT NULL,
	original_text TEXT NOT NULL DEFAULT '',
	confidence_score REAL NOT NULL DEFAULT 0,
	processing_metadata TEXT NOT NULL DEFAULT '{}',
	admin_confirmed INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_advice_category ON %[1]s (category);
CREATE INDEX IF NOT EXISTS idx_advice_confirmed ON %[1]s (admin_confirmed);
CREATE INDEX IF NOT EXISTS idx_advice_created_at ON %[1]s (created_at);
`, adviceTable)

// SQLiteStore implements Store over a local SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if necessary initializes) the database at the
// configured path.
func NewSQLiteStore(config SQLiteStoreConfig) (*SQLiteStore, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	db, err := sql.Open("sqlite3", config.Path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize sqlite schema: %w", err)
	}

	logging.Infof("SQLiteStore opened %s", config.Path)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) TestConnection(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Insert(ctx context.Context, entry *AdviceEntry) (int64, error) {
	if entry == nil || entry.Category == "" || entry.Information == "" {
		metrics.StoreOperations.WithLabelValues("insert", "error").Inc()
		return 0, ErrInvalidInput
	}

	now := time.Now().UTC()
	metadata := entry.ProcessingMetadata
	if metadata == "" {
		metadata = "{}"
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO `+adviceTable+`
		 (category, subcategories, information, original_text, confidence_score, processing_metadata, admin_confirmed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Category,
		taxonomy.FormatSubcategories(entry.Subcategories),
		entry.Information,
		entry.OriginalText,
		entry.ConfidenceScore,
		metadata,
		entry.AdminConfirmed,
		now,
		now,
	)
	if err != nil {
		metrics.StoreOperations.WithLabelValues("insert", "error").Inc()
		return 0, fmt.Errorf("failed to insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted ID: %w", err)
	}
	metrics.StoreOperations.WithLabelValues("insert", "ok").Inc()
	return id, nil
}

const sqliteEntryColumns = `id, category, subcategories, information, original_text, confidence_score, processing_metadata, admin_confirmed, created_at, updated_at`

func scanEntry(row interface{ Scan(...any) error }) (*AdviceEntry, error) {
	var entry AdviceEntry
	var subcategories string
	err := row.Scan(
		&entry.ID,
		&entry.Category,
		&subcategories,
		&entry.Information,
		&entry.OriginalText,
		&entry.ConfidenceScore,
		&entry.ProcessingMetadata,
		&entry.AdminConfirmed,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	entry.Subcategories = taxonomy.ParseSubcategories(subcategories)
	return &entry, nil
}

func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (*AdviceEntry, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteEntryColumns+` FROM `+adviceTable+` WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return entry, nil
}

func (s *SQLiteStore) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	var where []string
	var args []any
	if opts.Category != "" {
		where = append(where, "category = ?")
		args = append(args, opts.Category)
	}
	if opts.ConfirmedOnly {
		where = append(where, "admin_confirmed = 1")
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+adviceTable+clause, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}

	limit := clampLimit(opts.Limit)
	// Fetch one extra row to detect a further page.
	queryArgs := append(append([]any{}, args...), limit+1, opts.Offset)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteEntryColumns+` FROM `+adviceTable+clause+
			` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []*AdviceEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}

	hasMore := len(entries) > limit
	if hasMore {
		entries = entries[:limit]
	}
	return &ListResult{Entries: entries, HasMore: hasMore, Total: total}, nil
}

func (s *SQLiteStore) Search(ctx context.Context, term string) ([]*AdviceEntry, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrInvalidInput
	}

	pattern := "%" + escapeLike(term) + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteEntryColumns+` FROM `+adviceTable+`
		 WHERE information LIKE ? ESCAPE '\'
		    OR original_text LIKE ? ESCAPE '\'
		    OR category LIKE ? ESCAPE '\'
		 ORDER BY created_at DESC, id DESC`,
		pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search entries: %w", err)
	}
	defer rows.Close()

	var entries []*AdviceEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Update(ctx context.Context, id int64, patch EntryPatch) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if patch.IsEmpty() {
		return ErrEmptyPatch
	}

	var sets []string
	var args []any
	if patch.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *patch.Category)
	}
	if patch.Subcategories != nil {
		sets = append(sets, "subcategories = ?")
		args = append(args, taxonomy.FormatSubcategories(patch.Subcategories))
	}
	if patch.Information != nil {
		sets = append(sets, "information = ?")
		args = append(args, *patch.Information)
	}
	if patch.ConfidenceScore != nil {
		sets = append(sets, "confidence_score = ?")
		args = append(args, *patch.ConfidenceScore)
	}
	if patch.ProcessingMetadata != nil {
		sets = append(sets, "processing_metadata = ?")
		args = append(args, *patch.ProcessingMetadata)
	}
	if patch.AdminConfirmed != nil {
		sets = append(sets, "admin_confirmed = ?")
		args = append(args, *patch.AdminConfirmed)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	res, err := s.db.ExecContext(ctx,
		`UPDATE `+adviceTable+` SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		metrics.StoreOperations.WithLabelValues("update", "error").Inc()
		return fmt.Errorf("failed to update entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		metrics.StoreOperations.WithLabelValues("update", "error").Inc()
		return ErrNotFound
	}
	metrics.StoreOperations.WithLabelValues("update", "ok").Inc()
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM `+adviceTable+` WHERE id = ?`, id)
	if err != nil {
		metrics.StoreOperations.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		metrics.StoreOperations.WithLabelValues("delete", "error").Inc()
		return ErrNotFound
	}
	metrics.StoreOperations.WithLabelValues("delete", "ok").Inc()
	return nil
}

func (s *SQLiteStore) Statistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{PerCategory: make(map[string]int64)}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(admin_confirmed), 0) FROM `+adviceTable).
		Scan(&stats.Total, &stats.Confirmed); err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM `+adviceTable+` GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to tally categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var count int64
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		stats.PerCategory[category] = count
	}
	return stats, rows.Err()
}

// escapeLike escapes LIKE wildcards in a user-supplied search term.
func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}
