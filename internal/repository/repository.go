package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"vwds/internal/domain"
)

const (
	queryTimeout = 3 * time.Second
	listTimeout  = 5 * time.Second
)

// DBTX is satisfied by *sql.DB and *sql.Tx so repositories can run
// inside a caller's transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// InTx runs fn in a transaction, committing if it returns nil.
func InTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// translate maps driver constraint errors onto domain kinds. dupMessage
// is the client-facing text for unique violations.
func translate(err error, dupMessage string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return domain.Newf(domain.ErrDuplicateKey, "%s", dupMessage)
		case "foreign_key_violation":
			return domain.Newf(domain.ErrNotFound, "Referenced record not found")
		}
		return err
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return domain.Newf(domain.ErrDuplicateKey, "%s", dupMessage)
		case sqlite3.ErrConstraintForeignKey:
			return domain.Newf(domain.ErrNotFound, "Referenced record not found")
		}
	}
	return err
}

func rowsAffected(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound(entity)
	}
	return nil
}

func notFoundOr(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound(entity)
	}
	return err
}

func count(ctx context.Context, db DBTX, table string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var n int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n)
	return n, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern lowercases q and wraps it for a substring match against
// LOWER(column) LIKE ... ESCAPE '\'.
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}
