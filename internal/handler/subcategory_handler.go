package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/tesouraria/tesouraria-backend/internal/service"
)

// SubcategoryHandler handles subcategory-related HTTP requests
type SubcategoryHandler struct {
	catalogService *service.CatalogService
}

// NewSubcategoryHandler creates a new SubcategoryHandler
func NewSubcategoryHandler(catalogService *service.CatalogService) *SubcategoryHandler {
	return &SubcategoryHandler{catalogService: catalogService}
}

// CreateSubcategoryRequest represents the create subcategory request body.
// Amounts arrive as strings to avoid float rounding on the wire.
type CreateSubcategoryRequest struct {
	Name        string `json:"nome"`
	Icon        string `json:"icone,omitempty"`
	GoalAmount  string `json:"valorMeta,omitempty"`
	SavedAmount string `json:"economizado,omitempty"`
}

// CreateSubcategory handles POST /collections/:collection/categories/:categoryId/subcategories
func (h *SubcategoryHandler) CreateSubcategory(c echo.Context) error {
	collection, err := collectionParam(c)
	if err != nil {
		return MapDomainError(c, err)
	}
	categoryID, err := uuidParam(c, "categoryId")
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	var req CreateSubcategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	goal, err := parseOptionalAmount(req.GoalAmount)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "valorMeta", Message: "Invalid amount format"},
		})
	}
	saved, err := parseOptionalAmount(req.SavedAmount)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "economizado", Message: "Invalid amount format"},
		})
	}

	subcategory, err := h.catalogService.CreateSubcategory(c.Request().Context(), collection, categoryID, service.CreateSubcategoryInput{
		Name:        req.Name,
		Icon:        req.Icon,
		GoalAmount:  goal,
		SavedAmount: saved,
	})
	if err != nil {
		return MapDomainError(c, err)
	}

	return c.JSON(http.StatusCreated, subcategory)
}

// GetSubcategories handles GET /collections/:collection/categories/:categoryId/subcategories
func (h *SubcategoryHandler) GetSubcategories(c echo.Context) error {
	collection, err := collectionParam(c)
	if err != nil {
		return MapDomainError(c, err)
	}
	categoryID, err := uuidParam(c, "categoryId")
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	subcategories, err := h.catalogService.Subcategories(c.Request().Context(), collection, categoryID)
	if err != nil {
		return MapDomainError(c, err)
	}

	return c.JSON(http.StatusOK, subcategories)
}

// GetSubcategory handles GET /collections/:collection/categories/:categoryId/subcategories/:subcategoryId
func (h *SubcategoryHandler) GetSubcategory(c echo.Context) error {
	collection, err := collectionParam(c)
	if err != nil {
		return MapDomainError(c, err)
	}
	categoryID, err := uuidParam(c, "categoryId")
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}
	subcategoryID, err := uuidParam(c, "subcategoryId")
	if err != nil {
		return NewValidationError(c, "Invalid subcategory ID", nil)
	}

	subcategory, err := h.catalogService.Subcategory(c.Request().Context(), collection, categoryID, subcategoryID)
	if err != nil {
		return MapDomainError(c, err)
	}

	return c.JSON(http.StatusOK, subcategory)
}

// GetSubcategoryDetails handles GET /collections/:collection/categories/:categoryId/subcategories/:subcategoryId/details
func (h *SubcategoryHandler) GetSubcategoryDetails(c echo.Context) error {
	collection, err := collectionParam(c)
	if err != nil {
		return MapDomainError(c, err)
	}
	categoryID, err := uuidParam(c, "categoryId")
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}
	subcategoryID, err := uuidParam(c, "subcategoryId")
	if err != nil {
		return NewValidationError(c, "Invalid subcategory ID", nil)
	}

	details, err := h.catalogService.SubcategoryDetails(c.Request().Context(), collection, categoryID, subcategoryID)
	if err != nil {
		return MapDomainError(c, err)
	}

	return c.JSON(http.StatusOK, details)
}

// parseOptionalAmount parses a decimal string, treating empty as zero
func parseOptionalAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
