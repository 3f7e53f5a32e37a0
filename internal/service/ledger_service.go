package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/tesouraria/tesouraria-backend/internal/domain"
	"github.com/tesouraria/tesouraria-backend/internal/websocket"
	"golang.org/x/sync/errgroup"
)

// LedgerService records transactions and maintains the denormalized totals
// behind them. The ledger append is the source of truth; the total updates
// on the subcategory and category documents are a cache refresh that may
// fail independently without losing the recorded value.
type LedgerService struct {
	transactionRepo domain.TransactionRepository
	subcategoryRepo domain.SubcategoryRepository
	categoryRepo    domain.CategoryRepository
	eventPublisher  websocket.EventPublisher
	timeout         time.Duration
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	transactionRepo domain.TransactionRepository,
	subcategoryRepo domain.SubcategoryRepository,
	categoryRepo domain.CategoryRepository,
	timeout time.Duration,
) *LedgerService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &LedgerService{
		transactionRepo: transactionRepo,
		subcategoryRepo: subcategoryRepo,
		categoryRepo:    categoryRepo,
		timeout:         timeout,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *LedgerService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// RecordTransactionInput holds the input for recording a transaction
type RecordTransactionInput struct {
	Type          string
	Amount        decimal.Decimal
	Date          *time.Time
	Title         string
	CategoryLabel string
	Message       *string
}

// RecordTransaction appends an immutable ledger entry, then refreshes the
// denormalized totals on the subcategory and its parent category. The two
// total updates are issued concurrently and may complete in any order. If
// the append fails the whole operation fails and nothing was recorded; if
// only a total update fails the result carries TotalsStale=true and the
// caches catch up on the next full recomputation.
func (s *LedgerService) RecordTransaction(ctx context.Context, collection domain.Collection, categoryID, subcategoryID uuid.UUID, input RecordTransactionInput) (*domain.RecordResult, error) {
	txnType, err := domain.ParseTransactionType(input.Type)
	if err != nil {
		return nil, err
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}
	if len(title) > domain.MaxTitleLength {
		return nil, domain.ErrNameTooLong
	}

	// Validate the full path before touching the ledger.
	checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.subcategoryRepo.GetByID(checkCtx, collection, categoryID, subcategoryID); err != nil {
		return nil, err
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if input.Date != nil {
		date = *input.Date
	}

	var message *string
	if input.Message != nil {
		trimmed := strings.TrimSpace(*input.Message)
		if trimmed != "" {
			if len(trimmed) > domain.MaxMessageLength {
				return nil, domain.ErrNameTooLong
			}
			message = &trimmed
		}
	}

	txn := &domain.Transaction{
		Collection:    collection,
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
		Type:          txnType,
		Amount:        input.Amount,
		Date:          date,
		Title:         title,
		CategoryLabel: strings.TrimSpace(input.CategoryLabel),
		Message:       message,
	}

	result := &domain.RecordResult{State: domain.RecordStatePending}

	// Step 1: durable append. Failure here is fatal to the user action.
	appendCtx, cancelAppend := context.WithTimeout(ctx, s.timeout)
	defer cancelAppend()
	appended, err := s.transactionRepo.Append(appendCtx, txn)
	if err != nil {
		result.State = domain.RecordStateFailed
		return nil, fmt.Errorf("%w: %v", domain.ErrAppendFailed, err)
	}
	result.Transaction = appended
	result.State = domain.RecordStateTransactionAppended

	// Steps 2 and 3: refresh both cached totals. Independent operations
	// with no enforced ordering; a timeout counts as a failure.
	delta := appended.SignedAmount()
	var subErr, catErr error

	g, gctx := errgroup.WithContext(context.WithoutCancel(ctx))
	g.Go(func() error {
		callCtx, cancel := context.WithTimeout(gctx, s.timeout)
		defer cancel()
		subErr = s.subcategoryRepo.AddToTotal(callCtx, collection, categoryID, subcategoryID, delta)
		return nil
	})
	g.Go(func() error {
		callCtx, cancel := context.WithTimeout(gctx, s.timeout)
		defer cancel()
		catErr = s.categoryRepo.AddToTotal(callCtx, collection, categoryID, delta)
		return nil
	})
	_ = g.Wait()

	if subErr == nil {
		result.State = domain.RecordStateSubcategoryTotalUpdated
	}
	if catErr == nil {
		result.State = domain.RecordStateCategoryTotalUpdated
	}
	if subErr == nil && catErr == nil {
		result.State = domain.RecordStateCommitted
	} else {
		result.TotalsStale = true
		log.Warn().
			AnErr("subcategory_total", subErr).
			AnErr("category_total", catErr).
			Str("transaction_id", appended.ID.String()).
			Str("collection", collection.String()).
			Msg("Ledger entry recorded but cached totals are stale")
	}

	s.publishRecorded(collection, categoryID, subcategoryID, result)

	return result, nil
}

// Transactions lists one subcategory's ledger entries
func (s *LedgerService) Transactions(ctx context.Context, collection domain.Collection, categoryID, subcategoryID uuid.UUID) ([]*domain.Transaction, error) {
	listCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.transactionRepo.ListBySubcategory(listCtx, collection, categoryID, subcategoryID)
}

// CategoryTransactions lists the ledger entries of every subcategory under a
// category
func (s *LedgerService) CategoryTransactions(ctx context.Context, collection domain.Collection, categoryID uuid.UUID) ([]*domain.Transaction, error) {
	listCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.transactionRepo.ListByCategory(listCtx, collection, categoryID)
}

func (s *LedgerService) publishRecorded(collection domain.Collection, categoryID, subcategoryID uuid.UUID, result *domain.RecordResult) {
	if s.eventPublisher == nil {
		return
	}
	event := websocket.NewEvent(websocket.EventTypeRecorded, websocket.EntityTypeTransaction, result)
	// Clients watching the subcategory, the category or the whole
	// collection all learn about the new entry.
	s.eventPublisher.Publish(websocket.ScopeSubcategory(collection, categoryID, subcategoryID), event)
	s.eventPublisher.Publish(websocket.ScopeCategory(collection, categoryID), event)
	s.eventPublisher.Publish(websocket.ScopeCollection(collection), event)
}
