package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// RawQueryOne executes a raw SQL statement and returns a single result. It is
// not retried, so it is safe for UPDATE ... RETURNING.
func RawQueryOne[T any](ctx context.Context, db bun.IDB, query string, args ...any) (*T, error) {
	start := time.Now()
	data := new(T)

	err := db.NewRaw(query, args...).Scan(ctx, data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to execute raw query: %w (took %v)", err, time.Since(start))
	}

	return data, nil
}

// RawExec executes a raw SQL command without returning data
func RawExec(ctx context.Context, db bun.IDB, query string, args ...any) (int, error) {
	start := time.Now()

	res, err := db.NewRaw(query, args...).Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to execute raw command: %w (took %v)", err, time.Since(start))
	}

	n, _ := res.RowsAffected()
	return int(n), nil
}

// Transaction executes a function within a database transaction. The transaction
// rolls back when fn returns an error or panics.
func Transaction(ctx context.Context, db *DB, fn func(ctx context.Context, tx bun.Tx) error) error {
	if db == nil {
		return fmt.Errorf("database instance not initialized")
	}

	return db.RunInTx(ctx, nil, fn)
}

// TransactionWithResult executes a function within a transaction and returns a result
func TransactionWithResult[T any](ctx context.Context, db *DB, fn func(ctx context.Context, tx bun.Tx) (T, error)) (T, error) {
	var result T

	err := Transaction(ctx, db, func(ctx context.Context, tx bun.Tx) error {
		var err error
		result, err = fn(ctx, tx)
		return err
	})

	return result, err
}

// FindByID is a helper to find a record by ID
func FindByID[T any](ctx context.Context, db bun.IDB, id any) (*T, error) {
	return Query[T](db).Where("id", id).First(ctx)
}

// DeleteByID is a helper to delete a record by ID
func DeleteByID[T any](ctx context.Context, db bun.IDB, id any) (int, error) {
	return Query[T](db).Where("id", id).Delete(ctx)
}

// ExistsByID checks whether a record with the given ID exists
func ExistsByID[T any](ctx context.Context, db bun.IDB, id any) (bool, error) {
	return Query[T](db).Where("id", id).Exists(ctx)
}
