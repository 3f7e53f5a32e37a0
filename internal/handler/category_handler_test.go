package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tesouraria/tesouraria-backend/internal/domain"
	"github.com/tesouraria/tesouraria-backend/internal/service"
	"github.com/tesouraria/tesouraria-backend/internal/testutil"
)

func newCatalogHandlerFixture() (*CategoryHandler, *SubcategoryHandler, *testutil.MockCategoryRepository, *testutil.MockSubcategoryRepository) {
	categoryRepo := testutil.NewMockCategoryRepository()
	subcategoryRepo := testutil.NewMockSubcategoryRepository()
	catalogService := service.NewCatalogService(categoryRepo, subcategoryRepo, time.Second)
	return NewCategoryHandler(catalogService), NewSubcategoryHandler(catalogService), categoryRepo, subcategoryRepo
}

func TestCreateCategory_Success(t *testing.T) {
	e := echo.New()
	categoryHandler, _, _, subcategoryRepo := newCatalogHandlerFixture()

	body := `{"nome":"Missões","subcategorias":"Local, Exterior"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/collections/campanhas/categories", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("collection")
	c.SetParamValues("campanhas")

	if err := categoryHandler.CreateCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var category domain.Category
	if err := json.Unmarshal(rec.Body.Bytes(), &category); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if category.Name != "Missões" {
		t.Errorf("Expected name Missões, got %s", category.Name)
	}
	if category.Kind != domain.CategoryKindPersonalizada {
		t.Errorf("Expected kind personalizada, got %s", category.Kind)
	}
	if !category.Total.IsZero() {
		t.Errorf("Expected zero total, got %s", category.Total)
	}

	subs, _ := subcategoryRepo.ListByCategory(c.Request().Context(), domain.CollectionCampanhas, category.ID)
	if len(subs) != 2 {
		t.Errorf("Expected 2 seeded subcategories, got %d", len(subs))
	}
}

func TestCreateCategory_BlankName(t *testing.T) {
	e := echo.New()
	categoryHandler, _, _, _ := newCatalogHandlerFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/collections/receitas/categories", strings.NewReader(`{"nome":"  "}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("collection")
	c.SetParamValues("receitas")

	if err := categoryHandler.CreateCategory(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreateCategory_UnknownCollection(t *testing.T) {
	e := echo.New()
	categoryHandler, _, _, _ := newCatalogHandlerFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/collections/investimentos/categories", strings.NewReader(`{"nome":"Ações"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("collection")
	c.SetParamValues("investimentos")

	if err := categoryHandler.CreateCategory(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unknown collection, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal problem: %v", err)
	}
	if problem.Type != ErrorTypeValidation {
		t.Errorf("Expected validation problem type, got %s", problem.Type)
	}
}

func TestGetCategories(t *testing.T) {
	e := echo.New()
	categoryHandler, _, categoryRepo, _ := newCatalogHandlerFixture()

	categoryRepo.AddCategory(&domain.Category{Collection: domain.CollectionReceitas, Name: "Dízimos"})
	categoryRepo.AddCategory(&domain.Category{Collection: domain.CollectionDespesas, Name: "Manutenção"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/collections/receitas/categories", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("collection")
	c.SetParamValues("receitas")

	if err := categoryHandler.GetCategories(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var categories []domain.Category
	if err := json.Unmarshal(rec.Body.Bytes(), &categories); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "Dízimos" {
		t.Errorf("Expected only the receitas category, got %v", categories)
	}
}

func TestGetSubcategoryDetails_Defaults(t *testing.T) {
	e := echo.New()
	_, subcategoryHandler, categoryRepo, subcategoryRepo := newCatalogHandlerFixture()

	category := &domain.Category{Collection: domain.CollectionDepartamentos, Name: "Jovens"}
	categoryRepo.AddCategory(category)
	sub := &domain.Subcategory{Collection: domain.CollectionDepartamentos, CategoryID: category.ID, Name: "Eventos"}
	subcategoryRepo.AddSubcategory(sub)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("collection", "categoryId", "subcategoryId")
	c.SetParamValues("departamentos", category.ID.String(), sub.ID.String())

	if err := subcategoryHandler.GetSubcategoryDetails(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	// Every display field is present with a zero value, never null
	for _, key := range []string{"nome", "icone", "valorMeta", "economizado"} {
		value, ok := payload[key]
		if !ok {
			t.Errorf("Expected key %s in response", key)
			continue
		}
		if value == nil {
			t.Errorf("Expected non-null value for %s", key)
		}
	}
}
