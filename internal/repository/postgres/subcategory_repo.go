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

// SubcategoryRepository implements domain.SubcategoryRepository using PostgreSQL
type SubcategoryRepository struct {
	pool *pgxpool.Pool
}

// NewSubcategoryRepository creates a new SubcategoryRepository
func NewSubcategoryRepository(pool *pgxpool.Pool) *SubcategoryRepository {
	return &SubcategoryRepository{pool: pool}
}

const subcategoryColumns = `id, collection, category_id, name, icon, goal_amount, saved_amount, total, created_at, updated_at`

// Create inserts a new subcategory
func (r *SubcategoryRepository) Create(ctx context.Context, subcategory *domain.Subcategory) (*domain.Subcategory, error) {
	goal, err := decimalToPgNumeric(subcategory.GoalAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid goal amount: %w", err)
	}
	saved, err := decimalToPgNumeric(subcategory.SavedAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid saved amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO subcategories (collection, category_id, name, icon, goal_amount, saved_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+subcategoryColumns,
		string(subcategory.Collection), subcategory.CategoryID, subcategory.Name,
		subcategory.Icon, goal, saved,
	)
	return scanSubcategory(row)
}

// GetByID retrieves a subcategory by its full path
func (r *SubcategoryRepository) GetByID(ctx context.Context, collection domain.Collection, categoryID, id uuid.UUID) (*domain.Subcategory, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+subcategoryColumns+`
		FROM subcategories
		WHERE collection = $1 AND category_id = $2 AND id = $3`,
		string(collection), categoryID, id,
	)
	subcategory, err := scanSubcategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubcategoryNotFound
		}
		return nil, err
	}
	return subcategory, nil
}

// ListByCategory retrieves all subcategories of a category ordered by name
func (r *SubcategoryRepository) ListByCategory(ctx context.Context, collection domain.Collection, categoryID uuid.UUID) ([]*domain.Subcategory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+subcategoryColumns+`
		FROM subcategories
		WHERE collection = $1 AND category_id = $2
		ORDER BY name`,
		string(collection), categoryID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subcategories []*domain.Subcategory
	for rows.Next() {
		subcategory, err := scanSubcategory(rows)
		if err != nil {
			return nil, err
		}
		subcategories = append(subcategories, subcategory)
	}
	return subcategories, rows.Err()
}

// AddToTotal applies delta to the denormalized total atomically
func (r *SubcategoryRepository) AddToTotal(ctx context.Context, collection domain.Collection, categoryID, id uuid.UUID, delta decimal.Decimal) error {
	d, err := decimalToPgNumeric(delta)
	if err != nil {
		return fmt.Errorf("invalid delta: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE subcategories
		SET total = total + $1, updated_at = now()
		WHERE collection = $2 AND category_id = $3 AND id = $4`,
		d, string(collection), categoryID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSubcategoryNotFound
	}
	return nil
}

func scanSubcategory(row pgx.Row) (*domain.Subcategory, error) {
	var (
		s          domain.Subcategory
		collection string
		goal       pgtype.Numeric
		saved      pgtype.Numeric
		total      pgtype.Numeric
	)
	err := row.Scan(&s.ID, &collection, &s.CategoryID, &s.Name, &s.Icon, &goal, &saved, &total, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Collection = domain.Collection(collection)
	s.GoalAmount = pgNumericToDecimal(goal)
	s.SavedAmount = pgNumericToDecimal(saved)
	s.Total = pgNumericToDecimal(total)
	return &s, nil
}
