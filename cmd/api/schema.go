package main

import (
	"database/sql"

	"go.uber.org/zap"
)

// schemaStatements create the tables on first run. All statements are
// idempotent so restarting against an existing database is safe.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'client',
		address TEXT,
		city TEXT,
		country TEXT,
		postal_code TEXT,
		created_at TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		image TEXT,
		created_at TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS brands (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		slug TEXT NOT NULL DEFAULT '',
		description TEXT,
		logo TEXT,
		is_featured BOOLEAN NOT NULL DEFAULT FALSE,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC NOT NULL DEFAULT 0 CHECK (price >= 0),
		stock INT NOT NULL DEFAULT 0 CHECK (stock >= 0),
		category_id INT NOT NULL REFERENCES categories(id),
		brand_id INT REFERENCES brands(id),
		image TEXT,
		featured BOOLEAN NOT NULL DEFAULT FALSE,
		coming_soon BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id),
		total NUMERIC NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'pending',
		shipping_address TEXT NOT NULL DEFAULT '',
		payment_method TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id SERIAL PRIMARY KEY,
		order_id INT NOT NULL REFERENCES orders(id),
		product_id INT NOT NULL REFERENCES products(id),
		quantity INT NOT NULL CHECK (quantity > 0),
		price NUMERIC NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id SERIAL PRIMARY KEY,
		order_id INT REFERENCES orders(id),
		user_id INT REFERENCES users(id),
		payment_method TEXT NOT NULL,
		payment_details TEXT,
		amount NUMERIC NOT NULL DEFAULT 0,
		transaction_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		is_default BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS saved_items (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id),
		product_id INT NOT NULL REFERENCES products(id),
		created_at TEXT NOT NULL DEFAULT '',
		UNIQUE (user_id, product_id)
	)`,
}

func ensureSchema(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// seedCatalog inserts a few reference rows when the catalog is empty so a
// fresh install has something to browse.
func seedCatalog(db *sql.DB, log *zap.Logger) {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&count); err != nil || count > 0 {
		return
	}

	seed := []string{
		`INSERT INTO categories (name, description) VALUES
			('Smartphones', 'Phones and accessories'),
			('Laptops', 'Portable computers'),
			('Audio', 'Headphones and speakers')`,
		`INSERT INTO brands (name, slug, is_featured, status) VALUES
			('Samsung', 'samsung', TRUE, 'active'),
			('Apple', 'apple', TRUE, 'active'),
			('Sony', 'sony', FALSE, 'active')`,
	}
	for _, stmt := range seed {
		if _, err := db.Exec(stmt); err != nil {
			log.Warn("catalog seeding failed", zap.Error(err))
			return
		}
	}
	log.Info("seeded empty catalog")
}
