package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tesouraria/tesouraria-backend/internal/service"
)

// BalanceHandler handles balance recomputation HTTP requests. All responses
// come from the aggregation engine reading the ledger, never from the cached
// totals on category or subcategory rows.
type BalanceHandler struct {
	calculationService *service.CalculationService
}

// NewBalanceHandler creates a new BalanceHandler
func NewBalanceHandler(calculationService *service.CalculationService) *BalanceHandler {
	return &BalanceHandler{calculationService: calculationService}
}

// GetOverallBalance handles GET /balance
func (h *BalanceHandler) GetOverallBalance(c echo.Context) error {
	summary := h.calculationService.OverallBalance(c.Request().Context())
	return c.JSON(http.StatusOK, summary)
}

// GetCollectionBalance handles GET /collections/:collection/balance
func (h *BalanceHandler) GetCollectionBalance(c echo.Context) error {
	collection, err := collectionParam(c)
	if err != nil {
		return MapDomainError(c, err)
	}

	balance := h.calculationService.CollectionBalance(c.Request().Context(), collection)
	return c.JSON(http.StatusOK, balance)
}

// GetCategoryBalance handles GET /collections/:collection/categories/:categoryId/balance
func (h *BalanceHandler) GetCategoryBalance(c echo.Context) error {
	collection, err := collectionParam(c)
	if err != nil {
		return MapDomainError(c, err)
	}
	categoryID, err := uuidParam(c, "categoryId")
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	balance := h.calculationService.CategoryBalance(c.Request().Context(), collection, categoryID)
	return c.JSON(http.StatusOK, balance)
}

// GetSubcategoryBalance handles GET /collections/:collection/categories/:categoryId/subcategories/:subcategoryId/balance
func (h *BalanceHandler) GetSubcategoryBalance(c echo.Context) error {
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

	balance := h.calculationService.SubcategoryBalance(c.Request().Context(), collection, categoryID, subcategoryID)
	return c.JSON(http.StatusOK, balance)
}
