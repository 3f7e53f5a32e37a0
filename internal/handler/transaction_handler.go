package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/tesouraria/tesouraria-backend/internal/service"
)

// TransactionHandler handles ledger-related HTTP requests
type TransactionHandler struct {
	ledgerService *service.LedgerService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(ledgerService *service.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledgerService: ledgerService}
}

// RecordTransactionRequest represents the record transaction request body.
// The amount is a string to avoid float rounding on the wire; it must be a
// positive magnitude, direction goes in tipo.
type RecordTransactionRequest struct {
	Type     string  `json:"tipo"`
	Amount   string  `json:"quantia"`
	Date     *string `json:"data,omitempty"`
	Title    string  `json:"titulo"`
	Category string  `json:"categoria,omitempty"`
	Message  *string `json:"mensagem,omitempty"`
}

// RecordTransaction handles POST /collections/:collection/categories/:categoryId/subcategories/:subcategoryId/transactions
func (h *TransactionHandler) RecordTransaction(c echo.Context) error {
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

	var req RecordTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "quantia", Message: "Invalid amount format"},
		})
	}

	var date *time.Time
	if req.Date != nil {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "data", Message: "Date must be in YYYY-MM-DD format"},
			})
		}
		date = &parsed
	}

	result, err := h.ledgerService.RecordTransaction(c.Request().Context(), collection, categoryID, subcategoryID, service.RecordTransactionInput{
		Type:          req.Type,
		Amount:        amount,
		Date:          date,
		Title:         req.Title,
		CategoryLabel: req.Category,
		Message:       req.Message,
	})
	if err != nil {
		return MapDomainError(c, err)
	}

	return c.JSON(http.StatusCreated, result)
}

// GetTransactions handles GET /collections/:collection/categories/:categoryId/subcategories/:subcategoryId/transactions
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
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

	txns, err := h.ledgerService.Transactions(c.Request().Context(), collection, categoryID, subcategoryID)
	if err != nil {
		return MapDomainError(c, err)
	}

	return c.JSON(http.StatusOK, txns)
}

// GetCategoryTransactions handles GET /collections/:collection/categories/:categoryId/transactions
func (h *TransactionHandler) GetCategoryTransactions(c echo.Context) error {
	collection, err := collectionParam(c)
	if err != nil {
		return MapDomainError(c, err)
	}
	categoryID, err := uuidParam(c, "categoryId")
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	txns, err := h.ledgerService.CategoryTransactions(c.Request().Context(), collection, categoryID)
	if err != nil {
		return MapDomainError(c, err)
	}

	return c.JSON(http.StatusOK, txns)
}
