package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const itemColumns = `
	id, name, category, calories, price,
	COALESCE(ingredients, '[]'::jsonb),
	COALESCE(description, ''),
	COALESCE(image_url, ''),
	is_available, preparation_time, spicy_level,
	COALESCE(allergens, '[]'::jsonb),
	nutritional_info,
	created_at, updated_at
`

func scanItem(row pgx.Row, item *Item, extra ...any) error {
	dest := []any{
		&item.ID, &item.Name, &item.Category, &item.Calories, &item.Price,
		&item.Ingredients, &item.Description, &item.ImageURL,
		&item.IsAvailable, &item.PreparationTime, &item.SpicyLevel,
		&item.Allergens, &item.NutritionalInfo,
		&item.CreatedAt, &item.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

func collectItems(rows pgx.Rows) ([]Item, error) {
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var item Item
		if err := scanItem(rows, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// jsonColumn encodes v for a nullable jsonb column. Empty values are NULL.
func jsonColumn[T any](v []T) ([]byte, error) {
	if len(v) == 0 {
		return nil, nil
	}
	return json.Marshal(v)
}

func nutritionColumn(n *Nutrition) ([]byte, error) {
	if n.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(n)
}

func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// --------------------------------------------------
// LIST (filters + pagination)
// --------------------------------------------------

func (r *PostgresRepository) List(ctx context.Context, f Filter) (*Page, error) {
	f.Normalize()

	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q := strings.TrimSpace(f.Query); q != "" {
		p := arg("%" + strings.ToLower(q) + "%")
		where = append(where, fmt.Sprintf(
			"(LOWER(name) LIKE %[1]s OR LOWER(COALESCE(description, '')) LIKE %[1]s OR LOWER(COALESCE(ingredients::text, '')) LIKE %[1]s)", p))
	}
	if f.Category != "" {
		where = append(where, "category = "+arg(f.Category))
	}
	if f.MinPrice != nil {
		where = append(where, "price >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		where = append(where, "price <= "+arg(*f.MaxPrice))
	}
	if f.MaxCalories != nil {
		where = append(where, "calories <= "+arg(*f.MaxCalories))
	}

	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM menus "+clause, args...).Scan(&total); err != nil {
		return nil, err
	}

	// SortField and SortOrder are whitelisted by Normalize.
	query := fmt.Sprintf(
		"SELECT %s FROM menus %s ORDER BY %s %s, id ASC LIMIT %s OFFSET %s",
		itemColumns, clause, f.SortField, strings.ToUpper(f.SortOrder),
		arg(f.PerPage), arg((f.Page-1)*f.PerPage),
	)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	items, err := collectItems(rows)
	if err != nil {
		return nil, err
	}

	return newPage(items, total, f), nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]Item, error) {
	rows, err := r.db.Query(ctx, "SELECT "+itemColumns+" FROM menus ORDER BY category ASC, id ASC")
	if err != nil {
		return nil, err
	}
	return collectItems(rows)
}

// --------------------------------------------------
// CRUD
// --------------------------------------------------

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Item, error) {
	var item Item
	err := scanItem(r.db.QueryRow(ctx, "SELECT "+itemColumns+" FROM menus WHERE id = $1", id), &item)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) Create(ctx context.Context, item *Item) error {
	ingredients, allergens, nutrition, err := encodeJSONColumns(item)
	if err != nil {
		return err
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO menus (
			name, category, calories, price, ingredients, description, image_url,
			is_available, preparation_time, spicy_level, allergens, nutritional_info
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`,
		item.Name, item.Category, item.Calories, item.Price, ingredients,
		nullableText(item.Description), nullableText(item.ImageURL),
		item.IsAvailable, item.PreparationTime, item.SpicyLevel, allergens, nutrition,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *PostgresRepository) Update(ctx context.Context, item *Item) error {
	ingredients, allergens, nutrition, err := encodeJSONColumns(item)
	if err != nil {
		return err
	}

	err = r.db.QueryRow(ctx, `
		UPDATE menus
		SET name = $1, category = $2, calories = $3, price = $4, ingredients = $5,
			description = $6, image_url = $7, is_available = $8, preparation_time = $9,
			spicy_level = $10, allergens = $11, nutritional_info = $12, updated_at = now()
		WHERE id = $13
		RETURNING updated_at
	`,
		item.Name, item.Category, item.Calories, item.Price, ingredients,
		nullableText(item.Description), nullableText(item.ImageURL),
		item.IsAvailable, item.PreparationTime, item.SpicyLevel, allergens, nutrition,
		item.ID,
	).Scan(&item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, "DELETE FROM menus WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) SetImageURL(ctx context.Context, id int64, url string) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE menus SET image_url = $1, updated_at = now() WHERE id = $2
	`, url, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func encodeJSONColumns(item *Item) (ingredients, allergens, nutrition []byte, err error) {
	if ingredients, err = jsonColumn(item.Ingredients); err != nil {
		return
	}
	if allergens, err = jsonColumn(item.Allergens); err != nil {
		return
	}
	nutrition, err = nutritionColumn(item.NutritionalInfo)
	return
}

// --------------------------------------------------
// EMBEDDINGS (pgvector)
// --------------------------------------------------

func (r *PostgresRepository) SetEmbedding(ctx context.Context, id int64, embedding []float32) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE menus SET embedding = $1::vector WHERE id = $2
	`, pgvector.NewVector(embedding), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ListForEmbedding(ctx context.Context, force bool, id int64) ([]Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+itemColumns+`
		FROM menus
		WHERE ($1::boolean OR embedding IS NULL)
		  AND ($2::bigint = 0 OR id = $2::bigint)
		ORDER BY id ASC
	`, force, id)
	if err != nil {
		return nil, err
	}
	return collectItems(rows)
}

func (r *PostgresRepository) SemanticSearch(
	ctx context.Context,
	embedding []float32,
	limit int,
	floor float64,
) ([]Item, error) {

	rows, err := r.db.Query(ctx, `
		SELECT `+itemColumns+`, 1 - (embedding <=> $1::vector) AS similarity
		FROM menus
		WHERE embedding IS NOT NULL
		  AND 1 - (embedding <=> $1::vector) >= $2
		ORDER BY embedding <=> $1::vector ASC
		LIMIT $3
	`, pgvector.NewVector(embedding), floor, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var (
			item       Item
			similarity float64
		)
		if err := scanItem(rows, &item, &similarity); err != nil {
			return nil, err
		}
		item.Similarity = &similarity
		items = append(items, item)
	}
	return items, rows.Err()
}
