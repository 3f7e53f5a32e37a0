package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tesouraria/tesouraria-backend/internal/domain"
	"github.com/tesouraria/tesouraria-backend/internal/testutil"
)

func newLedgerFixture() (*LedgerService, *testutil.MockTransactionRepository, *testutil.MockSubcategoryRepository, *testutil.MockCategoryRepository, *domain.Category, *domain.Subcategory) {
	transactionRepo := testutil.NewMockTransactionRepository()
	subcategoryRepo := testutil.NewMockSubcategoryRepository()
	categoryRepo := testutil.NewMockCategoryRepository()

	category := &domain.Category{Collection: domain.CollectionReceitas, Name: "Dízimos", Total: decimal.Zero}
	categoryRepo.AddCategory(category)
	sub := &domain.Subcategory{
		Collection: domain.CollectionReceitas,
		CategoryID: category.ID,
		Name:       "Ofertas",
		Total:      decimal.Zero,
	}
	subcategoryRepo.AddSubcategory(sub)

	svc := NewLedgerService(transactionRepo, subcategoryRepo, categoryRepo, time.Second)
	return svc, transactionRepo, subcategoryRepo, categoryRepo, category, sub
}

func TestRecordTransaction_Committed(t *testing.T) {
	svc, transactionRepo, subcategoryRepo, categoryRepo, category, sub := newLedgerFixture()

	result, err := svc.RecordTransaction(context.Background(), domain.CollectionReceitas, category.ID, sub.ID, RecordTransactionInput{
		Type:          "entrada",
		Amount:        decimal.NewFromFloat(100.50),
		Title:         "Oferta",
		CategoryLabel: "Dízimos",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.State != domain.RecordStateCommitted {
		t.Errorf("Expected state committed, got %s", result.State)
	}
	if result.TotalsStale {
		t.Error("Expected totals not stale")
	}
	if len(transactionRepo.Transactions) != 1 {
		t.Fatalf("Expected 1 ledger entry, got %d", len(transactionRepo.Transactions))
	}

	// Both cached totals moved by the signed amount
	if !subcategoryRepo.Subcategories[sub.ID].Total.Equal(decimal.NewFromFloat(100.50)) {
		t.Errorf("Expected subcategory total 100.50, got %s", subcategoryRepo.Subcategories[sub.ID].Total)
	}
	if !categoryRepo.Categories[category.ID].Total.Equal(decimal.NewFromFloat(100.50)) {
		t.Errorf("Expected category total 100.50, got %s", categoryRepo.Categories[category.ID].Total)
	}
}

func TestRecordTransaction_SaidaDecrementsTotals(t *testing.T) {
	svc, _, subcategoryRepo, _, category, sub := newLedgerFixture()

	_, err := svc.RecordTransaction(context.Background(), domain.CollectionReceitas, category.ID, sub.ID, RecordTransactionInput{
		Type:   "saida",
		Amount: decimal.NewFromFloat(40.00),
		Title:  "Compra de material",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !subcategoryRepo.Subcategories[sub.ID].Total.Equal(decimal.NewFromFloat(-40.00)) {
		t.Errorf("Expected subcategory total -40.00, got %s", subcategoryRepo.Subcategories[sub.ID].Total)
	}
}

func TestRecordTransaction_AppendFailureIsFatal(t *testing.T) {
	svc, transactionRepo, subcategoryRepo, _, category, sub := newLedgerFixture()
	transactionRepo.AppendErr = errors.New("disk full")

	_, err := svc.RecordTransaction(context.Background(), domain.CollectionReceitas, category.ID, sub.ID, RecordTransactionInput{
		Type:   "entrada",
		Amount: decimal.NewFromFloat(10.00),
		Title:  "Oferta",
	})
	if !errors.Is(err, domain.ErrAppendFailed) {
		t.Fatalf("Expected ErrAppendFailed, got %v", err)
	}

	// Nothing recorded, no total moved
	if len(transactionRepo.Transactions) != 0 {
		t.Errorf("Expected no ledger entries, got %d", len(transactionRepo.Transactions))
	}
	if !subcategoryRepo.Subcategories[sub.ID].Total.IsZero() {
		t.Errorf("Expected subcategory total unchanged, got %s", subcategoryRepo.Subcategories[sub.ID].Total)
	}
}

func TestRecordTransaction_StaleTotalsOnCacheFailure(t *testing.T) {
	svc, transactionRepo, _, categoryRepo, category, sub := newLedgerFixture()
	categoryRepo.AddToTotalErr = errors.New("timeout")

	result, err := svc.RecordTransaction(context.Background(), domain.CollectionReceitas, category.ID, sub.ID, RecordTransactionInput{
		Type:   "entrada",
		Amount: decimal.NewFromFloat(25.00),
		Title:  "Oferta especial",
	})
	if err != nil {
		t.Fatalf("Expected no error when only the cache update fails, got %v", err)
	}

	// The ledger entry survived; recomputation remains correct even though
	// the cached category total is stale.
	if !result.TotalsStale {
		t.Error("Expected TotalsStale to be set")
	}
	if result.State == domain.RecordStateCommitted {
		t.Error("Expected state short of committed")
	}
	if len(transactionRepo.Transactions) != 1 {
		t.Fatalf("Expected 1 ledger entry, got %d", len(transactionRepo.Transactions))
	}

	calc := NewCalculationService(categoryRepo, testutil.NewMockSubcategoryRepository(), transactionRepo, time.Second)
	balance := calc.SubcategoryBalance(context.Background(), domain.CollectionReceitas, category.ID, sub.ID)
	if !balance.Total.Equal(decimal.NewFromFloat(25.00)) {
		t.Errorf("Expected recomputed total 25.00, got %s", balance.Total)
	}
}

func TestRecordTransaction_Validation(t *testing.T) {
	svc, _, _, _, category, sub := newLedgerFixture()

	tests := []struct {
		name    string
		input   RecordTransactionInput
		wantErr error
	}{
		{
			name:    "unknown type",
			input:   RecordTransactionInput{Type: "transferencia", Amount: decimal.NewFromFloat(10), Title: "x"},
			wantErr: domain.ErrInvalidTransactionType,
		},
		{
			name:    "zero amount",
			input:   RecordTransactionInput{Type: "entrada", Amount: decimal.Zero, Title: "x"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			input:   RecordTransactionInput{Type: "saida", Amount: decimal.NewFromFloat(-5), Title: "x"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "blank title",
			input:   RecordTransactionInput{Type: "entrada", Amount: decimal.NewFromFloat(10), Title: "   "},
			wantErr: domain.ErrTitleRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordTransaction(context.Background(), domain.CollectionReceitas, category.ID, sub.ID, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRecordTransaction_UnknownSubcategory(t *testing.T) {
	svc, _, _, _, category, _ := newLedgerFixture()

	_, err := svc.RecordTransaction(context.Background(), domain.CollectionReceitas, category.ID, uuid.New(), RecordTransactionInput{
		Type:   "entrada",
		Amount: decimal.NewFromFloat(10.00),
		Title:  "Oferta",
	})
	if !errors.Is(err, domain.ErrSubcategoryNotFound) {
		t.Errorf("Expected ErrSubcategoryNotFound, got %v", err)
	}
}

func TestRecordTransaction_PublishesToAllScopes(t *testing.T) {
	svc, _, _, _, category, sub := newLedgerFixture()
	publisher := testutil.NewMockEventPublisher()
	svc.SetEventPublisher(publisher)

	_, err := svc.RecordTransaction(context.Background(), domain.CollectionReceitas, category.ID, sub.ID, RecordTransactionInput{
		Type:   "entrada",
		Amount: decimal.NewFromFloat(10.00),
		Title:  "Oferta",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	scopes := publisher.PublishedScopes()
	if len(scopes) != 3 {
		t.Fatalf("Expected events on 3 scopes, got %d: %v", len(scopes), scopes)
	}
	// Subcategory, category, then collection scope
	if scopes[2] != "receitas" {
		t.Errorf("Expected collection scope last, got %s", scopes[2])
	}
}
