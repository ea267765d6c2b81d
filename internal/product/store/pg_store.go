package store

import (
	"context"
	"embed"
	"errors"
	"fmt"

	perrors "github.com/abgdnv/productcatalog/internal/product/errors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/postgres/*.sql
var pgMigrations embed.FS

const uniqueViolation = "23505"

const productColumns = "id, name, description, price, category, in_stock"

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{
		db: dbp,
	}
}

// MigratePostgres applies the embedded schema and seed migrations to the database at url.
func MigratePostgres(url string) error {
	source, err := iofs.New(pgMigrations, "migrations/postgres")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, url)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id string) (*Product, error) {
	row := p.db.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return product, nil
}

// FindAll retrieves all products in insertion order.
// It returns a slice of products, which may be empty if no products exist.
func (p *PgStore) FindAll(ctx context.Context) ([]Product, error) {
	rows, err := p.db.Query(ctx, "SELECT "+productColumns+" FROM products ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Product, error) {
		product, err := scanProduct(row)
		if err != nil {
			return Product{}, err
		}
		return *product, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}
	return products, nil
}

// Create adds a new product to the system.
// Returns an error if the product cannot be created.
func (p *PgStore) Create(ctx context.Context, product Product) (*Product, error) {
	row := p.db.QueryRow(ctx,
		"INSERT INTO products ("+productColumns+") VALUES ($1, $2, $3, $4, $5, $6) RETURNING "+productColumns,
		product.ID, product.Name, product.Description, product.Price, product.Category, product.InStock)
	created, err := scanProduct(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("failed to create product %s: %w", product.ID, perrors.ErrDuplicateProductID)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return created, nil
}

// Update applies the patch in a single statement so lookup and write are atomic.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) Update(ctx context.Context, id string, patch ProductPatch) (*Product, error) {
	row := p.db.QueryRow(ctx, `UPDATE products SET
		name = COALESCE($2, name),
		description = COALESCE($3, description),
		price = COALESCE($4, price),
		category = COALESCE($5, category),
		in_stock = COALESCE($6, in_stock)
		WHERE id = $1
		RETURNING `+productColumns,
		id, patch.Name, patch.Description, patch.Price, patch.Category, patch.InStock)
	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return updated, nil
}

// DeleteByID removes a product by its ID and returns it.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) DeleteByID(ctx context.Context, id string) (*Product, error) {
	row := p.db.QueryRow(ctx, "DELETE FROM products WHERE id = $1 RETURNING "+productColumns, id)
	deleted, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}
	return deleted, nil
}

// rowScanner is satisfied by pgx.Row, pgx.CollectableRow and *sql.Row.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var product Product
	if err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Category,
		&product.InStock,
	); err != nil {
		return nil, err
	}
	return &product, nil
}
