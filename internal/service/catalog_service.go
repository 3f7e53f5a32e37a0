package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/tesouraria/tesouraria-backend/internal/domain"
	"github.com/tesouraria/tesouraria-backend/internal/websocket"
)

// CatalogService manages the category and subcategory hierarchy inside each
// collection.
type CatalogService struct {
	categoryRepo    domain.CategoryRepository
	subcategoryRepo domain.SubcategoryRepository
	eventPublisher  websocket.EventPublisher
	timeout         time.Duration
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	categoryRepo domain.CategoryRepository,
	subcategoryRepo domain.SubcategoryRepository,
	timeout time.Duration,
) *CatalogService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CatalogService{
		categoryRepo:    categoryRepo,
		subcategoryRepo: subcategoryRepo,
		timeout:         timeout,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *CatalogService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateCategoryInput holds the input for creating a category
type CreateCategoryInput struct {
	Name string
	Icon *string
	// Subcategories is the raw comma-separated list of subcategory names
	// entered alongside the category. Each non-empty name seeds one
	// subcategory under the new category.
	Subcategories string
}

// CreateCategory creates a user-defined category with a zero starting total
// and seeds one subcategory per name listed in the input. Seeding failures
// do not roll back the category itself.
func (s *CatalogService) CreateCategory(ctx context.Context, collection domain.Collection, input CreateCategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	hints := splitNames(input.Subcategories)

	category := &domain.Category{
		Collection:       collection,
		Name:             name,
		Kind:             domain.CategoryKindPersonalizada,
		Icon:             input.Icon,
		Total:            decimal.Zero,
		SubcategoryHints: hints,
	}

	createCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	created, err := s.categoryRepo.Create(createCtx, category)
	if err != nil {
		return nil, err
	}

	for _, hint := range hints {
		sub := &domain.Subcategory{
			Collection:  collection,
			CategoryID:  created.ID,
			Name:        hint,
			GoalAmount:  decimal.Zero,
			SavedAmount: decimal.Zero,
			Total:       decimal.Zero,
		}
		seedCtx, cancelSeed := context.WithTimeout(ctx, s.timeout)
		if _, err := s.subcategoryRepo.Create(seedCtx, sub); err != nil {
			log.Warn().
				Err(err).
				Str("collection", collection.String()).
				Str("category_id", created.ID.String()).
				Str("subcategory", hint).
				Msg("Failed to seed subcategory")
		}
		cancelSeed()
	}

	s.publish(websocket.EventTypeCreated, websocket.EntityTypeCategory, websocket.ScopeCollection(collection), created)

	return created, nil
}

// CreateSubcategoryInput holds the input for creating a subcategory
type CreateSubcategoryInput struct {
	Name        string
	Icon        string
	GoalAmount  decimal.Decimal
	SavedAmount decimal.Decimal
}

// CreateSubcategory creates a subcategory under an existing category. The
// parent must exist; totals start at zero.
func (s *CatalogService) CreateSubcategory(ctx context.Context, collection domain.Collection, categoryID uuid.UUID, input CreateSubcategoryInput) (*domain.Subcategory, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if input.GoalAmount.IsNegative() || input.SavedAmount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.categoryRepo.GetByID(checkCtx, collection, categoryID); err != nil {
		return nil, err
	}

	sub := &domain.Subcategory{
		Collection:  collection,
		CategoryID:  categoryID,
		Name:        name,
		Icon:        strings.TrimSpace(input.Icon),
		GoalAmount:  input.GoalAmount,
		SavedAmount: input.SavedAmount,
		Total:       decimal.Zero,
	}

	createCtx, cancelCreate := context.WithTimeout(ctx, s.timeout)
	defer cancelCreate()
	created, err := s.subcategoryRepo.Create(createCtx, sub)
	if err != nil {
		return nil, err
	}

	s.publish(websocket.EventTypeCreated, websocket.EntityTypeSubcategory, websocket.ScopeCategory(collection, categoryID), created)

	return created, nil
}

// Categories lists the categories of a collection
func (s *CatalogService) Categories(ctx context.Context, collection domain.Collection) ([]*domain.Category, error) {
	listCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.categoryRepo.ListByCollection(listCtx, collection)
}

// Category fetches one category by ID
func (s *CatalogService) Category(ctx context.Context, collection domain.Collection, id uuid.UUID) (*domain.Category, error) {
	getCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.categoryRepo.GetByID(getCtx, collection, id)
}

// Subcategories lists the subcategories of a category
func (s *CatalogService) Subcategories(ctx context.Context, collection domain.Collection, categoryID uuid.UUID) ([]*domain.Subcategory, error) {
	listCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.subcategoryRepo.ListByCategory(listCtx, collection, categoryID)
}

// Subcategory fetches one subcategory by its full path
func (s *CatalogService) Subcategory(ctx context.Context, collection domain.Collection, categoryID, id uuid.UUID) (*domain.Subcategory, error) {
	getCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.subcategoryRepo.GetByID(getCtx, collection, categoryID, id)
}

// SubcategoryDetails returns the display projection of a subcategory. Fields
// missing on the stored row come back as zero values, never as nulls, so the
// response shape is always the same.
func (s *CatalogService) SubcategoryDetails(ctx context.Context, collection domain.Collection, categoryID, id uuid.UUID) (*domain.SubcategoryDetails, error) {
	sub, err := s.Subcategory(ctx, collection, categoryID, id)
	if err != nil {
		return nil, err
	}
	return &domain.SubcategoryDetails{
		Name:        sub.Name,
		Icon:        sub.Icon,
		GoalAmount:  sub.GoalAmount,
		SavedAmount: sub.SavedAmount,
	}, nil
}

func (s *CatalogService) publish(eventType websocket.EventType, entity websocket.EntityType, scope string, payload interface{}) {
	if s.eventPublisher == nil {
		return
	}
	s.eventPublisher.Publish(scope, websocket.NewEvent(eventType, entity, payload))
}

// splitNames parses a comma-separated list into trimmed, non-empty names.
func splitNames(raw string) []string {
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}
