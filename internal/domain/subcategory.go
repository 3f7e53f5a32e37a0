package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Subcategory is a named grouping inside a category, carrying a goal amount
// and the amount saved toward it. Total mirrors Category.Total: a cache of
// the contained transactions, reconcilable at any time.
type Subcategory struct {
	ID          uuid.UUID       `json:"id"`
	Collection  Collection      `json:"colecao"`
	CategoryID  uuid.UUID       `json:"categoriaId"`
	Name        string          `json:"nome"`
	Icon        string          `json:"icone"`
	GoalAmount  decimal.Decimal `json:"valorMeta"`
	SavedAmount decimal.Decimal `json:"economizado"`
	Total       decimal.Decimal `json:"total"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// SubcategoryDetails is the display projection of a subcategory. Missing
// fields come back as zero values, never as nulls.
type SubcategoryDetails struct {
	Name        string          `json:"nome"`
	Icon        string          `json:"icone"`
	GoalAmount  decimal.Decimal `json:"valorMeta"`
	SavedAmount decimal.Decimal `json:"economizado"`
}

type SubcategoryRepository interface {
	Create(ctx context.Context, subcategory *Subcategory) (*Subcategory, error)
	GetByID(ctx context.Context, collection Collection, categoryID, id uuid.UUID) (*Subcategory, error)
	ListByCategory(ctx context.Context, collection Collection, categoryID uuid.UUID) ([]*Subcategory, error)
	AddToTotal(ctx context.Context, collection Collection, categoryID, id uuid.UUID, delta decimal.Decimal) error
}
