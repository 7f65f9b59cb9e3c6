package calls

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PostgresRepo persists calls via database/sql (pgx stdlib driver).
//
// NOTE: The calls table intentionally has no ON DELETE CASCADE on its
// customer reference; removing a customer's calls is orchestrated by the
// customer delete use case, not by the schema.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Save(ctx context.Context, call Call) error {
	const q = `
INSERT INTO calls (call_id, customer_id, status, requested_at, started_at, ended_at, duration_sec, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
ON CONFLICT (call_id) DO UPDATE SET
	status = EXCLUDED.status,
	started_at = EXCLUDED.started_at,
	ended_at = EXCLUDED.ended_at,
	duration_sec = EXCLUDED.duration_sec,
	updated_at = now()
`
	_, err := r.db.ExecContext(ctx, q,
		call.CallID,
		call.CustomerID,
		string(call.Status),
		call.RequestedAt.UTC(),
		nullTime(call.StartedAt),
		nullTime(call.EndedAt),
		nullInt(call.DurationSec),
	)
	if err != nil {
		return fmt.Errorf("save call: %w", err)
	}
	return nil
}

func (r *PostgresRepo) FindByID(ctx context.Context, callID string) (Call, bool, error) {
	const q = `
SELECT call_id, customer_id, status, requested_at, started_at, ended_at, duration_sec
FROM calls
WHERE call_id = $1
`
	c, err := scanCall(r.db.QueryRowContext(ctx, q, callID))
	if errors.Is(err, sql.ErrNoRows) {
		return Call{}, false, nil
	}
	if err != nil {
		return Call{}, false, fmt.Errorf("find call: %w", err)
	}
	return c, true, nil
}

func (r *PostgresRepo) FindAll(ctx context.Context) ([]Call, error) {
	const q = `
SELECT call_id, customer_id, status, requested_at, started_at, ended_at, duration_sec
FROM calls
`
	return r.queryCalls(ctx, q)
}

func (r *PostgresRepo) FindAllByCustomerID(ctx context.Context, customerID string) ([]Call, error) {
	const q = `
SELECT call_id, customer_id, status, requested_at, started_at, ended_at, duration_sec
FROM calls
WHERE customer_id = $1
`
	return r.queryCalls(ctx, q, customerID)
}

func (r *PostgresRepo) Delete(ctx context.Context, callID string) error {
	// Deleting an absent id is a no-op, matching the repository contract.
	const q = `DELETE FROM calls WHERE call_id = $1`
	if _, err := r.db.ExecContext(ctx, q, callID); err != nil {
		return fmt.Errorf("delete call: %w", err)
	}
	return nil
}

func (r *PostgresRepo) queryCalls(ctx context.Context, q string, args ...any) ([]Call, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query calls: %w", err)
	}
	defer rows.Close()

	out := make([]Call, 0)
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, fmt.Errorf("scan call: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calls: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCall(row rowScanner) (Call, error) {
	var (
		c           Call
		status      string
		startedAt   sql.NullTime
		endedAt     sql.NullTime
		durationSec sql.NullInt64
	)
	if err := row.Scan(
		&c.CallID,
		&c.CustomerID,
		&status,
		&c.RequestedAt,
		&startedAt,
		&endedAt,
		&durationSec,
	); err != nil {
		return Call{}, err
	}

	st, err := ParseStatus(status)
	if err != nil {
		return Call{}, err
	}
	c.Status = st

	if startedAt.Valid {
		t := startedAt.Time
		c.StartedAt = &t
	}
	if endedAt.Valid {
		t := endedAt.Time
		c.EndedAt = &t
	}
	if durationSec.Valid {
		d := int(durationSec.Int64)
		c.DurationSec = &d
	}
	return c, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
