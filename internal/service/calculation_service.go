package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/tesouraria/tesouraria-backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// CalculationService is the single source of truth for balance aggregation.
// Every read path (dashboard, category summaries, subcategory views) goes
// through it; nothing else in the codebase sums transactions.
type CalculationService struct {
	categoryRepo    domain.CategoryRepository
	subcategoryRepo domain.SubcategoryRepository
	transactionRepo domain.TransactionRepository
	timeout         time.Duration
}

// NewCalculationService creates a new CalculationService. timeout bounds each
// individual remote call issued during fan-out.
func NewCalculationService(
	categoryRepo domain.CategoryRepository,
	subcategoryRepo domain.SubcategoryRepository,
	transactionRepo domain.TransactionRepository,
	timeout time.Duration,
) *CalculationService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CalculationService{
		categoryRepo:    categoryRepo,
		subcategoryRepo: subcategoryRepo,
		transactionRepo: transactionRepo,
		timeout:         timeout,
	}
}

// Aggregate reduces a transaction list to its balance. Entries with a
// non-positive amount or an unknown type are data-quality errors: they are
// skipped, never summed and never fatal.
func Aggregate(txns []*domain.Transaction) domain.Balance {
	entradas := decimal.Zero
	saidas := decimal.Zero
	for _, txn := range txns {
		if txn == nil || txn.Amount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		switch txn.Type {
		case domain.TransactionTypeEntrada:
			entradas = entradas.Add(txn.Amount)
		case domain.TransactionTypeSaida:
			saidas = saidas.Add(txn.Amount)
		}
	}
	return domain.Balance{
		Entradas: entradas,
		Saidas:   saidas,
		Total:    entradas.Sub(saidas),
	}
}

// AggregateAcrossScopes merges per-scope transaction lists into one balance.
// The result equals Aggregate over the flattened union; summation is
// associative, so scopes can be partitioned arbitrarily.
func AggregateAcrossScopes(scopes [][]*domain.Transaction) domain.Balance {
	balance := domain.ZeroBalance()
	for _, scope := range scopes {
		balance = balance.Add(Aggregate(scope))
	}
	return balance
}

// AllSubcategories fans out across every collection and category and returns
// the union of their subcategories. Fetches at the same level run
// concurrently; a failed branch degrades to an empty list and one logged
// error without affecting the other branches.
func (s *CalculationService) AllSubcategories(ctx context.Context) []*domain.Subcategory {
	var (
		mu  sync.Mutex
		all []*domain.Subcategory
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, collection := range domain.Collections() {
		collection := collection
		g.Go(func() error {
			subs := s.collectionSubcategories(gctx, collection)
			mu.Lock()
			all = append(all, subs...)
			mu.Unlock()
			return nil
		})
	}
	// Workers only return nil; partial failure is handled per branch.
	_ = g.Wait()

	return all
}

func (s *CalculationService) collectionSubcategories(ctx context.Context, collection domain.Collection) []*domain.Subcategory {
	categories := s.listCategories(ctx, collection)

	var (
		mu  sync.Mutex
		all []*domain.Subcategory
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, category := range categories {
		category := category
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, s.timeout)
			defer cancel()

			subs, err := s.subcategoryRepo.ListByCategory(callCtx, collection, category.ID)
			if err != nil {
				log.Error().Err(err).
					Str("collection", collection.String()).
					Str("category_id", category.ID.String()).
					Msg("Failed to load subcategories, degrading to empty")
				return nil
			}
			mu.Lock()
			all = append(all, subs...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return all
}

// TransactionsFor fetches the ledgers of the given subcategories
// concurrently and returns them grouped per subcategory, in input order.
// A failed fetch degrades that scope to empty.
func (s *CalculationService) TransactionsFor(ctx context.Context, subcategories []*domain.Subcategory) [][]*domain.Transaction {
	scopes := make([][]*domain.Transaction, len(subcategories))

	g, gctx := errgroup.WithContext(ctx)
	for i, sub := range subcategories {
		i, sub := i, sub
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, s.timeout)
			defer cancel()

			txns, err := s.transactionRepo.ListBySubcategory(callCtx, sub.Collection, sub.CategoryID, sub.ID)
			if err != nil {
				log.Error().Err(err).
					Str("collection", sub.Collection.String()).
					Str("subcategory_id", sub.ID.String()).
					Msg("Failed to load transactions, degrading to empty")
				return nil
			}
			scopes[i] = txns
			return nil
		})
	}
	_ = g.Wait()

	return scopes
}

// SubcategoryBalance recomputes one subcategory's balance from its ledger.
func (s *CalculationService) SubcategoryBalance(ctx context.Context, collection domain.Collection, categoryID, subcategoryID uuid.UUID) domain.Balance {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	txns, err := s.transactionRepo.ListBySubcategory(callCtx, collection, categoryID, subcategoryID)
	if err != nil {
		log.Error().Err(err).
			Str("collection", collection.String()).
			Str("subcategory_id", subcategoryID.String()).
			Msg("Failed to load ledger, returning zero balance")
		return domain.ZeroBalance()
	}
	return Aggregate(txns)
}

// CategoryBalance recomputes one category's balance from the ledgers of all
// its subcategories.
func (s *CalculationService) CategoryBalance(ctx context.Context, collection domain.Collection, categoryID uuid.UUID) domain.Balance {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	txns, err := s.transactionRepo.ListByCategory(callCtx, collection, categoryID)
	if err != nil {
		log.Error().Err(err).
			Str("collection", collection.String()).
			Str("category_id", categoryID.String()).
			Msg("Failed to load ledger, returning zero balance")
		return domain.ZeroBalance()
	}
	return Aggregate(txns)
}

// CollectionBalance recomputes one collection's balance across all its
// categories concurrently.
func (s *CalculationService) CollectionBalance(ctx context.Context, collection domain.Collection) domain.Balance {
	categories := s.listCategories(ctx, collection)

	balances := make([]domain.Balance, len(categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, category := range categories {
		i, category := i, category
		g.Go(func() error {
			balances[i] = s.CategoryBalance(gctx, collection, category.ID)
			return nil
		})
	}
	_ = g.Wait()

	balance := domain.ZeroBalance()
	for _, b := range balances {
		balance = balance.Add(b)
	}
	return balance
}

// OverallSummary holds the dashboard totals: the global balance and the
// per-collection breakdown.
type OverallSummary struct {
	Balance       domain.Balance                       `json:"saldo"`
	PerCollection map[domain.Collection]domain.Balance `json:"porColecao"`
}

// OverallBalance recomputes the global balance for the dashboard: the union
// of every subcategory across the four collections, each ledger fetched
// concurrently, folded into one total and a per-collection breakdown.
func (s *CalculationService) OverallBalance(ctx context.Context) OverallSummary {
	subcategories := s.AllSubcategories(ctx)
	scopes := s.TransactionsFor(ctx, subcategories)

	summary := OverallSummary{
		PerCollection: make(map[domain.Collection]domain.Balance, len(domain.Collections())),
	}
	for _, collection := range domain.Collections() {
		summary.PerCollection[collection] = domain.ZeroBalance()
	}
	for i, sub := range subcategories {
		balance := Aggregate(scopes[i])
		summary.PerCollection[sub.Collection] = summary.PerCollection[sub.Collection].Add(balance)
	}
	summary.Balance = AggregateAcrossScopes(scopes)
	return summary
}

func (s *CalculationService) listCategories(ctx context.Context, collection domain.Collection) []*domain.Category {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	categories, err := s.categoryRepo.ListByCollection(callCtx, collection)
	if err != nil {
		log.Error().Err(err).
			Str("collection", collection.String()).
			Msg("Failed to load categories, degrading to empty")
		return nil
	}
	return categories
}
