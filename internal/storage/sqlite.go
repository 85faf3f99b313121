package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"skin_tracker/internal/model"
	"skin_tracker/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// CreateSubscription inserts a new subscription and populates its ID and
// CreatedAt. A second subscription with the same (user_id, skin_name)
// returns ErrDuplicate; the existing row is never overwritten.
func (s *SQLite) CreateSubscription(ctx context.Context, sub *model.Subscription) error {
	now := time.Now().UTC().Format(timeLayout)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO subscriptions (user_id, skin_name, charm_required, created_at)
		 VALUES (?, ?, ?, ?)`,
		sub.UserID, sub.SkinName, boolToInt(sub.CharmRequired), now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("subscription (%d, %q): %w", sub.UserID, sub.SkinName, ErrDuplicate)
		}
		return fmt.Errorf("insert subscription: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	sub.ID = id
	sub.CreatedAt, _ = time.Parse(timeLayout, now)
	return nil
}

// ListSubscriptions returns all subscriptions belonging to the given user.
func (s *SQLite) ListSubscriptions(ctx context.Context, userID int64) ([]model.Subscription, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, skin_name, charm_required, created_at
		 FROM subscriptions WHERE user_id = ? ORDER BY id`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanSubscriptions(rows)
}

// ListAllSubscriptions returns every subscription across all users. The scan
// cycle calls this once per cycle; the result is a consistent snapshot.
func (s *SQLite) ListAllSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, skin_name, charm_required, created_at
		 FROM subscriptions ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query all subscriptions: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanSubscriptions(rows)
}

// DeleteSubscription removes a subscription by its ID.
func (s *SQLite) DeleteSubscription(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("subscription %d: %w", id, ErrNotFound)
	}
	return nil
}

// MarkProcessed records a listing as already evaluated-and-matched.
// Duplicate marks for the same item id are ignored, so concurrent or
// repeated calls never fail and never create a second row.
func (s *SQLite) MarkProcessed(ctx context.Context, item *model.ProcessedItem) error {
	now := time.Now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO processed_items
		 (id, market_hash_name, price, float_value, keychain_count, inspect_link, checked_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(item.ID), item.Name, item.Price, item.Float, item.KeychainCount, item.InspectLink, now,
	)
	if err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	item.CheckedAt, _ = time.Parse(timeLayout, now)
	return nil
}

// HasProcessed checks whether a listing has already been processed.
func (s *SQLite) HasProcessed(ctx context.Context, id model.ItemID) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM processed_items WHERE id = ?`, string(id),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check processed: %w", err)
	}
	return count > 0, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func scanSubscriptions(rows *sql.Rows) ([]model.Subscription, error) {
	var subs []model.Subscription
	for rows.Next() {
		var sub model.Subscription
		var charm int
		var created sql.NullString
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.SkinName, &charm, &created); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		sub.CharmRequired = charm == 1
		if created.Valid {
			sub.CreatedAt, _ = time.Parse(timeLayout, created.String)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
