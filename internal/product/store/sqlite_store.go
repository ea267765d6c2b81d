package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	perrors "github.com/abgdnv/productcatalog/internal/product/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteStore implements ProductStore on a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens the database at path, creates the schema when missing and
// seeds it with the given products when the table is empty.
func OpenSQLite(ctx context.Context, path string, seed []Product) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}
	// a single writer avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(ctx, seed); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate(ctx context.Context, seed []Product) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS products (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price REAL NOT NULL,
		category TEXT NOT NULL,
		in_stock INTEGER NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("migrate: create products table: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return fmt.Errorf("migrate: count products: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, p := range seed {
		if _, err := s.Create(ctx, p); err != nil {
			return fmt.Errorf("migrate: seed: %w", err)
		}
	}
	return nil
}

// FindByID retrieves a product by its ID.
func (s *SQLiteStore) FindByID(ctx context.Context, id string) (*Product, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find by id: %w", err)
	}
	return product, nil
}

// FindAll retrieves all products in insertion order.
func (s *SQLiteStore) FindAll(ctx context.Context) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+productColumns+" FROM products ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("find all: %w", err)
	}
	defer func() { _ = rows.Close() }()

	products := make([]Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("find all: scan: %w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find all: rows error: %w", err)
	}
	return products, nil
}

// Create inserts a product and returns it.
func (s *SQLiteStore) Create(ctx context.Context, product Product) (*Product, error) {
	row := s.db.QueryRowContext(ctx,
		"INSERT INTO products ("+productColumns+") VALUES (?, ?, ?, ?, ?, ?) RETURNING "+productColumns,
		product.ID, product.Name, product.Description, product.Price, product.Category, product.InStock)
	created, err := scanProduct(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create %s: %w", product.ID, perrors.ErrDuplicateProductID)
		}
		return nil, fmt.Errorf("create: %w", err)
	}
	return created, nil
}

// Update applies the patch in one statement.
func (s *SQLiteStore) Update(ctx context.Context, id string, patch ProductPatch) (*Product, error) {
	row := s.db.QueryRowContext(ctx, `UPDATE products SET
		name = COALESCE(?, name),
		description = COALESCE(?, description),
		price = COALESCE(?, price),
		category = COALESCE(?, category),
		in_stock = COALESCE(?, in_stock)
		WHERE id = ?
		RETURNING `+productColumns,
		patch.Name, patch.Description, patch.Price, patch.Category, patch.InStock, id)
	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("update: %w", err)
	}
	return updated, nil
}

// DeleteByID removes a product and returns it.
func (s *SQLiteStore) DeleteByID(ctx context.Context, id string) (*Product, error) {
	row := s.db.QueryRowContext(ctx, "DELETE FROM products WHERE id = ? RETURNING "+productColumns, id)
	deleted, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("delete: %w", err)
	}
	return deleted, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
