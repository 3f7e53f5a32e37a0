package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryKind distinguishes user-created categories from the seeded ones.
type CategoryKind string

const (
	CategoryKindPersonalizada CategoryKind = "personalizada"
	CategoryKindBuiltin       CategoryKind = "padrao"
)

// Category is a named grouping inside a collection. Total is a denormalized
// cache of the sum of contained transactions; it can always be rebuilt from
// the ledger and is never the sole source of truth.
type Category struct {
	ID         uuid.UUID       `json:"id"`
	Collection Collection      `json:"colecao"`
	Name       string          `json:"nome"`
	Kind       CategoryKind    `json:"tipo"`
	Icon       *string         `json:"icone,omitempty"`
	Total      decimal.Decimal `json:"total"`
	// SubcategoryHints is only consulted at creation time to seed
	// subcategories; it is not authoritative afterwards.
	SubcategoryHints []string  `json:"subcategorias,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type CategoryRepository interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	GetByID(ctx context.Context, collection Collection, id uuid.UUID) (*Category, error)
	ListByCollection(ctx context.Context, collection Collection) ([]*Category, error)
	// AddToTotal atomically applies delta to the denormalized total. A missing
	// row is an error; a zero total is the default for new categories.
	AddToTotal(ctx context.Context, collection Collection, id uuid.UUID, delta decimal.Decimal) error
}
