package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/entremotivator/catalog/internal/core/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// =============================================================================
// SQLiteStore
// =============================================================================

// SQLiteStore implements Store using SQLite, for catalogs that have outgrown
// a flat CSV file. Semantics match the CSV store: reads always hit the
// database, and SaveAll replaces the whole table transactionally instead of
// snapshotting a file.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore creates a new SQLite store and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite3", dsn+"?_foreign_keys=on")
	if err != nil {
		return nil, NewStoreError("NewSQLiteStore", "", "failed to open database", ErrConnectionFailed)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "failed to ping database", ErrConnectionFailed)
	}

	if err := runMigrations(db.DB); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", err.Error(), ErrMigrationFailed)
	}

	return &SQLiteStore{db: db}, nil
}

// runMigrations runs database migrations using embedded SQL files.
func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// Row Mapping
// =============================================================================

// productRow represents a product row in the database.
type productRow struct {
	Position    int64   `db:"position"`
	RecordID    string  `db:"record_id"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Images      string  `db:"images"`
	Slug        string  `db:"url_slug"`
	Extra       *string `db:"extra"`
}

func (r productRow) toDomain() (domain.Product, error) {
	p := domain.Product{
		RecordID:    r.RecordID,
		Name:        r.Name,
		Description: r.Description,
		Images:      r.Images,
		Slug:        r.Slug,
	}
	if r.Extra != nil && *r.Extra != "" {
		if err := json.Unmarshal([]byte(*r.Extra), &p.Extra); err != nil {
			return domain.Product{}, fmt.Errorf("failed to decode extra columns: %w", err)
		}
	}
	return p, nil
}

func rowFromDomain(p domain.Product) (productRow, error) {
	row := productRow{
		RecordID:    p.RecordID,
		Name:        p.Name,
		Description: p.Description,
		Images:      p.Images,
		Slug:        p.Slug,
	}
	if len(p.Extra) > 0 {
		data, err := json.Marshal(p.Extra)
		if err != nil {
			return productRow{}, fmt.Errorf("failed to encode extra columns: %w", err)
		}
		s := string(data)
		row.Extra = &s
	}
	return row, nil
}

// =============================================================================
// Store Implementation
// =============================================================================

func (s *SQLiteStore) LoadAll(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT position, record_id, name, description, images, url_slug, extra
		 FROM products ORDER BY position`)
	if err != nil {
		return nil, NewStoreError("LoadAll", "", err.Error(), ErrLoadFailed)
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, NewStoreError("LoadAll", row.RecordID, err.Error(), ErrLoadFailed)
		}
		products = append(products, p)
	}
	return products, nil
}

func (s *SQLiteStore) SaveAll(ctx context.Context, products []domain.Product) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return NewStoreError("SaveAll", "", err.Error(), ErrSaveFailed)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return NewStoreError("SaveAll", "", err.Error(), ErrSaveFailed)
	}

	for _, p := range products {
		row, err := rowFromDomain(p)
		if err != nil {
			return NewStoreError("SaveAll", p.RecordID, err.Error(), ErrSaveFailed)
		}
		_, err = tx.NamedExecContext(ctx,
			`INSERT INTO products (record_id, name, description, images, url_slug, extra)
			 VALUES (:record_id, :name, :description, :images, :url_slug, :extra)`, row)
		if err != nil {
			return NewStoreError("SaveAll", p.RecordID, err.Error(), ErrSaveFailed)
		}
	}

	if err := tx.Commit(); err != nil {
		return NewStoreError("SaveAll", "", err.Error(), ErrSaveFailed)
	}
	return nil
}

func (s *SQLiteStore) GetProduct(ctx context.Context, recordID string) (*domain.Product, error) {
	var row productRow
	err := s.db.GetContext(ctx, &row,
		`SELECT position, record_id, name, description, images, url_slug, extra
		 FROM products WHERE record_id = ?`, recordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewStoreError("GetProduct", recordID, "no such record", ErrNotFound)
	}
	if err != nil {
		return nil, NewStoreError("GetProduct", recordID, err.Error(), ErrLoadFailed)
	}

	p, err := row.toDomain()
	if err != nil {
		return nil, NewStoreError("GetProduct", recordID, err.Error(), ErrLoadFailed)
	}
	return &p, nil
}

func (s *SQLiteStore) UpdateProductSlug(ctx context.Context, recordID, slug string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET url_slug = ? WHERE record_id = ?`, slug, recordID)
	if err != nil {
		return NewStoreError("UpdateProductSlug", recordID, err.Error(), ErrSaveFailed)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return NewStoreError("UpdateProductSlug", recordID, err.Error(), ErrSaveFailed)
	}
	if affected == 0 {
		return NewStoreError("UpdateProductSlug", recordID, "no such record", ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) SearchProducts(ctx context.Context, term string) ([]domain.Product, error) {
	// LIKE with escaped wildcards keeps the same contains semantics as the
	// CSV store's in-memory scan. SQLite LIKE is case-insensitive for ASCII.
	pattern := "%" + escapeLike(term) + "%"
	var rows []productRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT position, record_id, name, description, images, url_slug, extra
		 FROM products
		 WHERE name LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\'
		 ORDER BY position`, pattern, pattern)
	if err != nil {
		return nil, NewStoreError("SearchProducts", "", err.Error(), ErrLoadFailed)
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, NewStoreError("SearchProducts", row.RecordID, err.Error(), ErrLoadFailed)
		}
		products = append(products, p)
	}
	return products, nil
}

func escapeLike(term string) string {
	term = strings.ReplaceAll(term, `\`, `\\`)
	term = strings.ReplaceAll(term, `%`, `\%`)
	term = strings.ReplaceAll(term, `_`, `\_`)
	return term
}

func (s *SQLiteStore) Summary(ctx context.Context) (domain.Summary, error) {
	var summary domain.Summary
	err := s.db.GetContext(ctx, &summary.TotalProducts, `SELECT COUNT(*) FROM products`)
	if err != nil {
		return domain.Summary{}, NewStoreError("Summary", "", err.Error(), ErrLoadFailed)
	}

	counts := []struct {
		dest  *int
		query string
	}{
		{&summary.ProductsWithNames, `SELECT COUNT(*) FROM products WHERE name != ''`},
		{&summary.ProductsWithDescriptions, `SELECT COUNT(*) FROM products WHERE description != ''`},
		{&summary.ProductsWithImages, `SELECT COUNT(*) FROM products WHERE images != ''`},
		{&summary.ProductsWithSlugs, `SELECT COUNT(*) FROM products WHERE url_slug != ''`},
	}
	for _, c := range counts {
		if err := s.db.GetContext(ctx, c.dest, c.query); err != nil {
			return domain.Summary{}, NewStoreError("Summary", "", err.Error(), ErrLoadFailed)
		}
	}
	return summary, nil
}
