package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hpungsan/pelvilog/internal/errors"
	"github.com/hpungsan/pelvilog/internal/record"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.PelviError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const insertQuery = `
	INSERT INTO records (id, type, occurred_at, date, time, details_json, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
`

const selectColumns = `id, type, occurred_at, date, time, details_json`

// Insert stores a new record.
func Insert(ctx context.Context, db *sql.DB, r *record.Record) error {
	return insert(ctx, db, r, time.Now().Unix())
}

// InsertBatch stores all records in one transaction. Either every record is
// stored or none is.
func InsertBatch(ctx context.Context, db *sql.DB, records []record.Record) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().Unix()
	for i := range records {
		if err := ctx.Err(); err != nil {
			return errors.NewCancelled("insert batch")
		}
		if err := insert(ctx, tx, &records[i], now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

func insert(ctx context.Context, ex execer, r *record.Record, createdAt int64) error {
	if r.Details == nil {
		return errors.NewInvalidRequest("record details are required")
	}
	detailsJSON, err := json.Marshal(r.Details)
	if err != nil {
		return errors.NewInternal(err)
	}

	_, err = ex.ExecContext(ctx, insertQuery,
		r.ID, string(r.Type()), r.Timestamp.UnixMilli(), r.Date, r.Time,
		string(detailsJSON), createdAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}
	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetByID retrieves a record by its ULID.
func GetByID(ctx context.Context, db *sql.DB, id string) (*record.Record, error) {
	query := `SELECT ` + selectColumns + ` FROM records WHERE id = ?`

	r, err := scanRecord(db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return r, nil
}

// Delete permanently removes a record.
func Delete(ctx context.Context, db *sql.DB, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}
	return nil
}

// ListFilter narrows List and Count. Zero values mean no constraint.
type ListFilter struct {
	// From is the inclusive lower bound on the record timestamp
	From time.Time

	// To is the exclusive upper bound on the record timestamp
	To time.Time

	// Date matches the DD/MM/YYYY label exactly
	Date string

	Limit  int
	Offset int
}

func (f ListFilter) where() (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if !f.From.IsZero() {
		clauses = append(clauses, "occurred_at >= ?")
		args = append(args, f.From.UnixMilli())
	}
	if !f.To.IsZero() {
		clauses = append(clauses, "occurred_at < ?")
		args = append(args, f.To.UnixMilli())
	}
	if f.Date != "" {
		clauses = append(clauses, "date = ?")
		args = append(args, f.Date)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// List returns records newest first. A zero Limit returns every match.
func List(ctx context.Context, db *sql.DB, f ListFilter) ([]record.Record, error) {
	where, args := f.where()
	query := `SELECT ` + selectColumns + ` FROM records` + where +
		` ORDER BY occurred_at DESC, id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	records := []record.Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		records = append(records, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return records, nil
}

// Count returns the number of records matching f. Limit and Offset are ignored.
func Count(ctx context.Context, db *sql.DB, f ListFilter) (int, error) {
	where, args := f.where()

	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`+where, args...).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanRecord scans a single row into a Record.
func scanRecord(row scanner) (*record.Record, error) {
	var (
		r           record.Record
		typ         string
		occurredAt  int64
		detailsJSON string
	)

	if err := row.Scan(&r.ID, &typ, &occurredAt, &r.Date, &r.Time, &detailsJSON); err != nil {
		return nil, err
	}

	d, err := record.DecodeDetails(record.Type(typ), []byte(detailsJSON))
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", r.ID, err)
	}
	r.Details = d
	r.Timestamp = time.UnixMilli(occurredAt).UTC()

	return &r, nil
}
