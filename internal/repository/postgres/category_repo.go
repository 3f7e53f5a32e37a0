package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/tesouraria/tesouraria-backend/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, collection, name, kind, icon, total, hints, created_at, updated_at`

// Create inserts a new category and returns it with its assigned ID.
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	total, err := decimalToPgNumeric(category.Total)
	if err != nil {
		return nil, fmt.Errorf("invalid total: %w", err)
	}

	hints := category.SubcategoryHints
	if hints == nil {
		hints = []string{}
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (collection, name, kind, icon, total, hints)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+categoryColumns,
		string(category.Collection), category.Name, string(category.Kind),
		textFromPtr(category.Icon), total, hints,
	)
	return scanCategory(row)
}

// GetByID retrieves a category by ID within a collection
func (r *CategoryRepository) GetByID(ctx context.Context, collection domain.Collection, id uuid.UUID) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE collection = $1 AND id = $2`,
		string(collection), id,
	)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// ListByCollection retrieves all categories of a collection ordered by name
func (r *CategoryRepository) ListByCollection(ctx context.Context, collection domain.Collection) ([]*domain.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE collection = $1
		ORDER BY name`,
		string(collection),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// AddToTotal applies delta to the denormalized total in a single statement,
// so concurrent writers cannot lose each other's updates.
func (r *CategoryRepository) AddToTotal(ctx context.Context, collection domain.Collection, id uuid.UUID, delta decimal.Decimal) error {
	d, err := decimalToPgNumeric(delta)
	if err != nil {
		return fmt.Errorf("invalid delta: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE categories
		SET total = total + $1, updated_at = now()
		WHERE collection = $2 AND id = $3`,
		d, string(collection), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var (
		c          domain.Category
		collection string
		kind       string
		icon       pgtype.Text
		total      pgtype.Numeric
	)
	err := row.Scan(&c.ID, &collection, &c.Name, &kind, &icon, &total, &c.SubcategoryHints, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Collection = domain.Collection(collection)
	c.Kind = domain.CategoryKind(kind)
	c.Icon = textOrNil(icon)
	c.Total = pgNumericToDecimal(total)
	return &c, nil
}
