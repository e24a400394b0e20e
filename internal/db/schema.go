package db

// EmbeddingDimensions is the vector width of the menu embedding column.
const EmbeddingDimensions = 768

var schema = []string{
	// -------------------------------
	// EXTENSIONS
	// -------------------------------
	`CREATE EXTENSION IF NOT EXISTS vector`,

	// -------------------------------
	// MENUS
	// -------------------------------
	`
	CREATE TABLE IF NOT EXISTS menus (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		category VARCHAR(255) NOT NULL,
		calories INTEGER NULL,
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		ingredients JSONB NULL,
		description TEXT NULL,
		image_url VARCHAR(500) NULL,
		is_available BOOLEAN NOT NULL DEFAULT TRUE,
		preparation_time INTEGER NULL,
		spicy_level VARCHAR(20) NOT NULL DEFAULT 'none',
		allergens JSONB NULL,
		nutritional_info JSONB NULL,
		embedding vector(768) NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS menus_category_idx ON menus (category)`,
	`CREATE INDEX IF NOT EXISTS menus_is_available_idx ON menus (is_available)`,

	// -------------------------------
	// CARTS
	// -------------------------------
	`
	CREATE TABLE IF NOT EXISTS carts (
		id BIGSERIAL PRIMARY KEY,
		session_id VARCHAR(255) NOT NULL,
		menu_id BIGINT NOT NULL REFERENCES menus(id) ON DELETE CASCADE,
		quantity INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 1),
		notes TEXT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (session_id, menu_id)
	)`,
	`CREATE INDEX IF NOT EXISTS carts_session_idx ON carts (session_id)`,

	// -------------------------------
	// ORDERS
	// -------------------------------
	`
	CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		order_number VARCHAR(32) UNIQUE NOT NULL,
		session_id VARCHAR(255) NOT NULL,
		customer_name VARCHAR(255) NULL,
		customer_phone VARCHAR(20) NULL,
		table_number VARCHAR(10) NULL,
		items JSONB NOT NULL,
		subtotal NUMERIC(12,2) NOT NULL,
		tax NUMERIC(12,2) NOT NULL,
		total NUMERIC(12,2) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		notes TEXT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS orders_session_idx ON orders (session_id)`,
	`CREATE INDEX IF NOT EXISTS orders_status_idx ON orders (status)`,

	// -------------------------------
	// STAFF USERS
	// -------------------------------
	`
	CREATE TABLE IF NOT EXISTS staff_users (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		role VARCHAR(50) NOT NULL DEFAULT 'STAFF',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}
