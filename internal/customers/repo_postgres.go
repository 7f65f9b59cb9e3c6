package customers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"calldesk-platform/pkg/utils"
)

// PostgresRepo persists customers via database/sql (pgx stdlib driver).
//
// Save runs inside a transaction: the customer row upsert and the wholesale
// variable replacement commit together or not at all. Variable rows are
// removed automatically when the customer row is deleted
// (ON DELETE CASCADE, see migrations/0001_init.sql).
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Save(ctx context.Context, customer Customer) error {
	return utils.WithTx(ctx, r.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		const upsert = `
INSERT INTO customers (customer_id, name, phone_number, created_at, updated_at)
VALUES ($1, $2, $3, now(), now())
ON CONFLICT (customer_id) DO UPDATE SET
	name = EXCLUDED.name,
	phone_number = EXCLUDED.phone_number,
	updated_at = now()
`
		if _, err := tx.ExecContext(ctx, upsert,
			customer.CustomerID,
			customer.Name,
			nullString(customer.PhoneNumber),
		); err != nil {
			return fmt.Errorf("upsert customer: %w", err)
		}

		// Wholesale replace: drop the previous variable set, then insert the
		// current one. The store never merges incrementally.
		const clear = `DELETE FROM customer_variables WHERE customer_id = $1`
		if _, err := tx.ExecContext(ctx, clear, customer.CustomerID); err != nil {
			return fmt.Errorf("clear variables: %w", err)
		}

		const insert = `
INSERT INTO customer_variables (id, customer_id, key, value, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
`
		for _, v := range customer.Variables() {
			if _, err := tx.ExecContext(ctx, insert, v.ID, v.CustomerID, v.Key, v.Value); err != nil {
				return fmt.Errorf("insert variable %q: %w", v.Key, err)
			}
		}
		return nil
	})
}

func (r *PostgresRepo) FindByID(ctx context.Context, customerID string) (Customer, bool, error) {
	const q = `
SELECT customer_id, name, phone_number
FROM customers
WHERE customer_id = $1
`
	var (
		id, name string
		phone    sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, customerID).Scan(&id, &name, &phone)
	if errors.Is(err, sql.ErrNoRows) {
		return Customer{}, false, nil
	}
	if err != nil {
		return Customer{}, false, fmt.Errorf("find customer: %w", err)
	}

	vars, err := r.variablesFor(ctx, id)
	if err != nil {
		return Customer{}, false, err
	}
	return Restore(id, name, phone.String, vars), true, nil
}

func (r *PostgresRepo) FindAll(ctx context.Context) ([]Customer, error) {
	const q = `SELECT customer_id, name, phone_number FROM customers`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	type row struct {
		id, name string
		phone    sql.NullString
	}
	var customerRows []row
	for rows.Next() {
		var c row
		if err := rows.Scan(&c.id, &c.name, &c.phone); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customerRows = append(customerRows, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}

	byCustomer, err := r.allVariables(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Customer, 0, len(customerRows))
	for _, c := range customerRows {
		out = append(out, Restore(c.id, c.name, c.phone.String, byCustomer[c.id]))
	}
	return out, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, customerID string) error {
	// Variables go with the row via ON DELETE CASCADE. Deleting an absent id
	// is a no-op per the repository contract.
	const q = `DELETE FROM customers WHERE customer_id = $1`
	if _, err := r.db.ExecContext(ctx, q, customerID); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

func (r *PostgresRepo) variablesFor(ctx context.Context, customerID string) ([]Variable, error) {
	const q = `
SELECT id, customer_id, key, value
FROM customer_variables
WHERE customer_id = $1
`
	rows, err := r.db.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, fmt.Errorf("query variables: %w", err)
	}
	defer rows.Close()
	return scanVariables(rows)
}

func (r *PostgresRepo) allVariables(ctx context.Context) (map[string][]Variable, error) {
	const q = `SELECT id, customer_id, key, value FROM customer_variables`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query variables: %w", err)
	}
	defer rows.Close()

	vars, err := scanVariables(rows)
	if err != nil {
		return nil, err
	}
	out := map[string][]Variable{}
	for _, v := range vars {
		out[v.CustomerID] = append(out[v.CustomerID], v)
	}
	return out, nil
}

func scanVariables(rows *sql.Rows) ([]Variable, error) {
	var out []Variable
	for rows.Next() {
		var (
			v     Variable
			value sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.CustomerID, &v.Key, &value); err != nil {
			return nil, fmt.Errorf("scan variable: %w", err)
		}
		v.Value = value.String
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variables: %w", err)
	}
	return out, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
