package order

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const orderColumns = `
	id, order_number, session_id, customer_name, customer_phone, table_number,
	items, subtotal, tax, total, status, notes, created_at, updated_at
`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.SessionID, &o.CustomerName, &o.CustomerPhone, &o.TableNumber,
		&o.Items, &o.Subtotal, &o.Tax, &o.Total, &o.Status, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// --------------------------------------------------
// CHECKOUT (order insert + cart line delete, one transaction)
// --------------------------------------------------
func (r *PostgresRepository) Checkout(ctx context.Context, o *Order, lineIDs []int64) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (
			order_number, session_id, customer_name, customer_phone, table_number,
			items, subtotal, tax, total, status, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`,
		o.OrderNumber, o.SessionID, o.CustomerName, o.CustomerPhone, o.TableNumber,
		items, o.Subtotal, o.Tax, o.Total, o.Status, o.Notes,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateNumber
		}
		return err
	}

	// only the lines the order was priced from
	if _, err := tx.Exec(ctx, `
		DELETE FROM carts WHERE session_id = $1 AND id = ANY($2)
	`, o.SessionID, lineIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepository) GetByNumber(ctx context.Context, number string) (*Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE order_number = $1
	`, number))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}

func (r *PostgresRepository) ListBySession(ctx context.Context, sessionID string) ([]Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE session_id = $1
		ORDER BY created_at DESC, id DESC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, number string, status Status) (*Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `
		UPDATE orders
		SET status = $1, updated_at = now()
		WHERE order_number = $2
		RETURNING `+orderColumns,
		status, number,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}
