package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// KeyDecimalNoticeShown records that the decimal rounding disclaimer was
// shown once.
const KeyDecimalNoticeShown = "notice.decimals_shown"

// SettingsRepo is a small key/value table for flags that outlive a session.
type SettingsRepo struct {
	db *sql.DB
}

// Get returns the value for key and whether it was set.
func (r *SettingsRepo) Get(ctx context.Context, key string) (string, bool, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select("value").
		From(b.Table(settingsTable)).
		Where(entsql.EQ("name", key)).
		Query()

	var v string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&v)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("get setting %q: %w", key, err)
	}
	return v, true, nil
}

// Set upserts key.
func (r *SettingsRepo) Set(ctx context.Context, key, value string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(settingsTable).
		Columns("name", "value", "updated_ms").
		Values(key, value, time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("name"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *SettingsRepo) Delete(ctx context.Context, key string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(settingsTable).
		Where(entsql.EQ("name", key)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete setting %q: %w", key, err)
	}
	return nil
}

func (r *SettingsRepo) DecimalNoticeShown(ctx context.Context) (bool, error) {
	v, ok, err := r.Get(ctx, KeyDecimalNoticeShown)
	if err != nil || !ok {
		return false, err
	}
	return v == "true", nil
}

func (r *SettingsRepo) MarkDecimalNoticeShown(ctx context.Context) error {
	return r.Set(ctx, KeyDecimalNoticeShown, "true")
}

// ResetDecimalNotice makes the disclaimer show again on the next eligible
// problem.
func (r *SettingsRepo) ResetDecimalNotice(ctx context.Context) error {
	return r.Delete(ctx, KeyDecimalNoticeShown)
}
