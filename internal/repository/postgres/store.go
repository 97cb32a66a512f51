// internal/repository/postgres/store.go
package postgres

import (
	"context"
	"database/sql"
	"errors"

	apperrors "acc-notifications/internal/common/errors"
	"acc-notifications/internal/common/logger"
	"acc-notifications/internal/notification"
	"acc-notifications/internal/repository"
)

var (
	_ notification.Store             = (*Store)(nil)
	_ notification.Store             = (*CachedStore)(nil)
	_ notification.PermissionChecker = (*Store)(nil)
)

// Store implements the engine's query interface over the site database.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func New(db *sql.DB, log logger.Logger) *Store {
	return &Store{db: db, logger: log}
}

// one scans a single row. No match yields repository.ErrNotFound.
func (s *Store) one(ctx context.Context, name, query string, args []interface{}, dest ...interface{}) error {
	err := s.db.QueryRowContext(ctx, query, args...).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return apperrors.NewQueryExecutionFailedError(name, err)
	}
	return nil
}

// ids collects a single integer column.
func (s *Store) ids(ctx context.Context, name, query string, args ...interface{}) ([]int64, error) {
	return queryIDs(ctx, s.db, name, query, args...)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func queryIDs(ctx context.Context, q queryer, name, query string, args ...interface{}) ([]int64, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError(name, err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError(name, err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError(name, err)
	}
	return out, nil
}

func int64s(in []int) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = int64(v)
	}
	return out
}
