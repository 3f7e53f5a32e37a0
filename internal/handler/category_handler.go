package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tesouraria/tesouraria-backend/internal/service"
)

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	catalogService *service.CatalogService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(catalogService *service.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalogService: catalogService}
}

// CreateCategoryRequest represents the create category request body
type CreateCategoryRequest struct {
	Name string  `json:"nome"`
	Icon *string `json:"icone,omitempty"`
	// Subcategories is a comma-separated list of subcategory names to seed
	// under the new category.
	Subcategories string `json:"subcategorias,omitempty"`
}

// CreateCategory handles POST /collections/:collection/categories
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	collection, err := collectionParam(c)
	if err != nil {
		return MapDomainError(c, err)
	}

	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.catalogService.CreateCategory(c.Request().Context(), collection, service.CreateCategoryInput{
		Name:          req.Name,
		Icon:          req.Icon,
		Subcategories: req.Subcategories,
	})
	if err != nil {
		return MapDomainError(c, err)
	}

	return c.JSON(http.StatusCreated, category)
}

// GetCategories handles GET /collections/:collection/categories
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	collection, err := collectionParam(c)
	if err != nil {
		return MapDomainError(c, err)
	}

	categories, err := h.catalogService.Categories(c.Request().Context(), collection)
	if err != nil {
		return MapDomainError(c, err)
	}

	return c.JSON(http.StatusOK, categories)
}

// GetCategory handles GET /collections/:collection/categories/:categoryId
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	collection, err := collectionParam(c)
	if err != nil {
		return MapDomainError(c, err)
	}
	categoryID, err := uuidParam(c, "categoryId")
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	category, err := h.catalogService.Category(c.Request().Context(), collection, categoryID)
	if err != nil {
		return MapDomainError(c, err)
	}

	return c.JSON(http.StatusOK, category)
}
