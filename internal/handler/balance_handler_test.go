package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/tesouraria/tesouraria-backend/internal/domain"
	"github.com/tesouraria/tesouraria-backend/internal/service"
	"github.com/tesouraria/tesouraria-backend/internal/testutil"
)

func newBalanceHandlerFixture() (*BalanceHandler, *testutil.MockCategoryRepository, *testutil.MockTransactionRepository) {
	categoryRepo := testutil.NewMockCategoryRepository()
	subcategoryRepo := testutil.NewMockSubcategoryRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	calculationService := service.NewCalculationService(categoryRepo, subcategoryRepo, transactionRepo, time.Second)
	return NewBalanceHandler(calculationService), categoryRepo, transactionRepo
}

func TestGetCollectionBalance(t *testing.T) {
	e := echo.New()
	handler, categoryRepo, transactionRepo := newBalanceHandlerFixture()

	category := &domain.Category{Collection: domain.CollectionReceitas, Name: "Dízimos"}
	categoryRepo.AddCategory(category)
	transactionRepo.AddTransaction(&domain.Transaction{
		Collection: domain.CollectionReceitas,
		CategoryID: category.ID,
		Type:       domain.TransactionTypeEntrada,
		Amount:     decimal.NewFromFloat(250.00),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		Collection: domain.CollectionReceitas,
		CategoryID: category.ID,
		Type:       domain.TransactionTypeSaida,
		Amount:     decimal.NewFromFloat(100.00),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/collections/receitas/balance", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("collection")
	c.SetParamValues("receitas")

	if err := handler.GetCollectionBalance(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var balance domain.Balance
	if err := json.Unmarshal(rec.Body.Bytes(), &balance); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !balance.Entradas.Equal(decimal.NewFromFloat(250.00)) {
		t.Errorf("Expected entradas 250.00, got %s", balance.Entradas)
	}
	if !balance.Total.Equal(decimal.NewFromFloat(150.00)) {
		t.Errorf("Expected total 150.00, got %s", balance.Total)
	}
}

func TestGetCollectionBalance_UnknownCollection(t *testing.T) {
	e := echo.New()
	handler, _, _ := newBalanceHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/collections/outros/balance", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("collection")
	c.SetParamValues("outros")

	if err := handler.GetCollectionBalance(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetOverallBalance_EmptyLedger(t *testing.T) {
	e := echo.New()
	handler, _, _ := newBalanceHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/balance", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.GetOverallBalance(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var summary struct {
		Balance       domain.Balance            `json:"saldo"`
		PerCollection map[string]domain.Balance `json:"porColecao"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(summary.PerCollection) != 4 {
		t.Errorf("Expected all 4 collections in breakdown, got %d", len(summary.PerCollection))
	}
	if !summary.Balance.Total.IsZero() {
		t.Errorf("Expected zero overall total, got %s", summary.Balance.Total)
	}
}
