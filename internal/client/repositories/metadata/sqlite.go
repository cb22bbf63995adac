package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/merrycards/merry/internal/dbx"
)

// SQLiteRepository works on any DBTX, so it can be bound to a transaction.
type SQLiteRepository struct {
	db dbx.DBTX
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, name string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, name).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("get %q: %w", name, err)
	}
	return value, nil
}

// Set inserts or replaces the value and bumps updated_at.
func (r *SQLiteRepository) Set(ctx context.Context, name string, value []byte) error {
	const q = `
		INSERT INTO metadata (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	if _, err := r.db.ExecContext(ctx, q, name, value); err != nil {
		return fmt.Errorf("set %q: %w", name, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}

	args := make([]any, len(names))
	for i, n := range names {
		args[i] = n
	}
	q := `DELETE FROM metadata WHERE key IN (?` + strings.Repeat(`, ?`, len(names)-1) + `)`

	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("delete %s: %w", strings.Join(names, ", "), err)
	}
	return nil
}
