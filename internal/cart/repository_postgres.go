package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const lineSelect = `
	SELECT c.id, c.session_id, c.menu_id, c.quantity, c.notes,
		m.name, m.category, COALESCE(m.image_url, ''), m.price,
		c.created_at, c.updated_at
	FROM carts c
	JOIN menus m ON m.id = c.menu_id
`

func scanLine(row pgx.Row) (*Line, error) {
	var l Line
	err := row.Scan(
		&l.ID, &l.SessionID, &l.MenuID, &l.Quantity, &l.Notes,
		&l.MenuName, &l.MenuCategory, &l.MenuImageURL, &l.UnitPrice,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// --------------------------------------------------
// ADD (upsert on session + menu)
// --------------------------------------------------
func (r *PostgresRepository) Add(
	ctx context.Context,
	sessionID string,
	menuID int64,
	quantity int,
	notes *string,
) (*Line, error) {

	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO carts (session_id, menu_id, quantity, notes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id, menu_id)
		DO UPDATE SET
			quantity = carts.quantity + EXCLUDED.quantity,
			notes = COALESCE(EXCLUDED.notes, carts.notes),
			updated_at = now()
		RETURNING id
	`, sessionID, menuID, quantity, notes).Scan(&id)
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, sessionID, id)
}

func (r *PostgresRepository) List(ctx context.Context, sessionID string) ([]Line, error) {
	rows, err := r.db.Query(ctx, lineSelect+`
		WHERE c.session_id = $1
		ORDER BY c.created_at ASC, c.id ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []Line{}
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *l)
	}
	return lines, rows.Err()
}

func (r *PostgresRepository) Get(ctx context.Context, sessionID string, id int64) (*Line, error) {
	l, err := scanLine(r.db.QueryRow(ctx, lineSelect+`
		WHERE c.session_id = $1 AND c.id = $2
	`, sessionID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return l, err
}

func (r *PostgresRepository) Update(ctx context.Context, sessionID string, id int64, upd Update) (*Line, error) {
	cmd, err := r.db.Exec(ctx, `
		UPDATE carts
		SET quantity = COALESCE($3, quantity),
			notes = CASE WHEN $4::boolean THEN $5 ELSE notes END,
			updated_at = now()
		WHERE session_id = $1 AND id = $2
	`, sessionID, id, upd.Quantity, upd.Notes != nil, upd.Notes)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, sessionID, id)
}

func (r *PostgresRepository) Remove(ctx context.Context, sessionID string, id int64) error {
	cmd, err := r.db.Exec(ctx, `
		DELETE FROM carts WHERE session_id = $1 AND id = $2
	`, sessionID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) RemoveByMenuIDs(ctx context.Context, sessionID string, menuIDs []int64) (int, error) {
	if len(menuIDs) == 0 {
		return 0, nil
	}

	cmd, err := r.db.Exec(ctx, `
		DELETE FROM carts WHERE session_id = $1 AND menu_id = ANY($2)
	`, sessionID, menuIDs)
	if err != nil {
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}

func (r *PostgresRepository) RemoveLines(ctx context.Context, sessionID string, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	cmd, err := r.db.Exec(ctx, `
		DELETE FROM carts WHERE session_id = $1 AND id = ANY($2)
	`, sessionID, ids)
	if err != nil {
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}

func (r *PostgresRepository) Clear(ctx context.Context, sessionID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM carts WHERE session_id = $1`, sessionID)
	return err
}
