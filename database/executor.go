package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// run applies the builder timeout and the given retry policy around an
// operation. Inside a transaction nothing is retried.
func (q *QueryBuilder[T]) run(ctx context.Context, policy RetryConfig, fn func(ctx context.Context) error) error {
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	if !q.retry {
		return fn(ctx)
	}
	return RetryWithBackoff(ctx, policy, func() error { return fn(ctx) })
}

// All executes the query and returns all matching records with automatic retry
func (q *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	start := time.Now()
	var data []T

	err := q.run(ctx, ReadRetryConfig(), func(ctx context.Context) error {
		data = nil // Reset on retry
		return q.buildSelect(&data).Scan(ctx)
	})

	if err != nil {
		return nil, fmt.Errorf("failed to execute select query: %w (took %v)", err, time.Since(start))
	}

	return data, nil
}

// First executes the query and returns the first matching record with automatic retry
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	start := time.Now()
	data := new(T)

	err := q.run(ctx, ReadRetryConfig(), func(ctx context.Context) error {
		return q.buildSelect(data).Limit(1).Scan(ctx)
	})

	if err != nil {
		// Return nil for no rows instead of error
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to execute first query: %w (took %v)", err, time.Since(start))
	}

	return data, nil
}

// Count executes the query and returns the count of matching records with automatic retry
func (q *QueryBuilder[T]) Count(ctx context.Context) (int, error) {
	start := time.Now()
	var count int

	err := q.run(ctx, ReadRetryConfig(), func(ctx context.Context) error {
		var err error
		count, err = q.buildSelect((*T)(nil)).Count(ctx)
		return err
	})

	if err != nil {
		return 0, fmt.Errorf("failed to execute count query: %w (took %v)", err, time.Since(start))
	}

	return count, nil
}

// Exists checks if any records match the query
func (q *QueryBuilder[T]) Exists(ctx context.Context) (bool, error) {
	count, err := q.Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Insert inserts a new record and returns it with database defaults filled in.
// It is resent only when the first attempt provably did not reach the table.
func (q *QueryBuilder[T]) Insert(ctx context.Context, data *T) (*T, error) {
	start := time.Now()

	err := q.run(ctx, InsertRetryConfig(), func(ctx context.Context) error {
		_, err := q.db.NewInsert().Model(data).Returning("*").Exec(ctx)
		return err
	})

	if err != nil {
		return nil, fmt.Errorf("failed to execute insert query: %w (took %v)", err, time.Since(start))
	}

	return data, nil
}

// InsertMany inserts multiple records under the same policy as Insert
func (q *QueryBuilder[T]) InsertMany(ctx context.Context, data []T) ([]T, error) {
	start := time.Now()

	if len(data) == 0 {
		return data, nil
	}

	err := q.run(ctx, InsertRetryConfig(), func(ctx context.Context) error {
		_, err := q.db.NewInsert().Model(&data).Returning("*").Exec(ctx)
		return err
	})

	if err != nil {
		return nil, fmt.Errorf("failed to execute bulk insert query: %w (took %v)", err, time.Since(start))
	}

	return data, nil
}

// Update updates records matching the query with automatic retry. data is either a
// column map or a *T; a *T without conditions is matched by primary key and only
// the columns named with Select are written when any are given.
func (q *QueryBuilder[T]) Update(ctx context.Context, data any) (int, error) {
	start := time.Now()
	var rowsAffected int64

	err := q.run(ctx, ReadRetryConfig(), func(ctx context.Context) error {
		var query *bun.UpdateQuery

		switch v := data.(type) {
		case map[string]any:
			if len(v) == 0 {
				return errors.New("no columns to update")
			}
			if len(q.conditions()) == 0 {
				return errors.New("refusing to update without conditions")
			}
			query = q.buildUpdate()
			for key, value := range v {
				query = query.Set("? = ?", bun.Ident(key), value)
			}
		case *T:
			query = q.db.NewUpdate().Model(v)
			if len(q.selectCols) > 0 {
				query = query.Column(q.selectCols...)
			}
			conds := q.conditions()
			if len(conds) == 0 {
				query = query.WherePK()
			}
			for _, c := range conds {
				query = query.Where(c.sql, c.args...)
			}
		default:
			return fmt.Errorf("unsupported data type for update: %T", data)
		}

		res, err := query.Exec(ctx)
		if err != nil {
			return err
		}
		rowsAffected, _ = res.RowsAffected()
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to execute update query: %w (took %v)", err, time.Since(start))
	}

	return int(rowsAffected), nil
}

// Delete deletes records matching the query with automatic retry. A query without
// conditions is rejected; use WhereRaw("TRUE") to clear a table on purpose.
func (q *QueryBuilder[T]) Delete(ctx context.Context) (int, error) {
	start := time.Now()
	var rowsAffected int64

	if len(q.conditions()) == 0 {
		return 0, errors.New("refusing to delete without conditions")
	}

	err := q.run(ctx, ReadRetryConfig(), func(ctx context.Context) error {
		res, err := q.buildDelete().Exec(ctx)
		if err != nil {
			return err
		}
		rowsAffected, _ = res.RowsAffected()
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to execute delete query: %w (took %v)", err, time.Since(start))
	}

	return int(rowsAffected), nil
}
