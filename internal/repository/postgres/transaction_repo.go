package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tesouraria/tesouraria-backend/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository using
// PostgreSQL. The table is append-only: there is deliberately no UPDATE or
// DELETE here.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, collection, category_id, subcategory_id, type, amount, date, title, category_label, message, created_at`

// Append inserts an immutable ledger entry and returns it with its ID.
func (r *TransactionRepository) Append(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(txn.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var date pgtype.Date
	date.Time = txn.Date
	date.Valid = true

	row := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (collection, category_id, subcategory_id, type, amount, date, title, category_label, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+transactionColumns,
		string(txn.Collection), txn.CategoryID, txn.SubcategoryID, string(txn.Type),
		amount, date, txn.Title, txn.CategoryLabel, textFromPtr(txn.Message),
	)
	return scanTransaction(row)
}

// ListBySubcategory retrieves the ledger of one subcategory, oldest first
func (r *TransactionRepository) ListBySubcategory(ctx context.Context, collection domain.Collection, categoryID, subcategoryID uuid.UUID) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE collection = $1 AND category_id = $2 AND subcategory_id = $3
		ORDER BY date, created_at`,
		string(collection), categoryID, subcategoryID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListByCategory retrieves the ledger of all subcategories under a category
func (r *TransactionRepository) ListByCategory(ctx context.Context, collection domain.Collection, categoryID uuid.UUID) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE collection = $1 AND category_id = $2
		ORDER BY date, created_at`,
		string(collection), categoryID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t          domain.Transaction
		collection string
		txnType    string
		amount     pgtype.Numeric
		date       pgtype.Date
		message    pgtype.Text
	)
	err := row.Scan(&t.ID, &collection, &t.CategoryID, &t.SubcategoryID, &txnType,
		&amount, &date, &t.Title, &t.CategoryLabel, &message, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Collection = domain.Collection(collection)
	t.Type = domain.TransactionType(txnType)
	t.Amount = pgNumericToDecimal(amount)
	t.Date = date.Time
	t.Message = textOrNil(message)
	return &t, nil
}
