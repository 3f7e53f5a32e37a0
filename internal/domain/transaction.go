package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeEntrada TransactionType = "entrada"
	TransactionTypeSaida   TransactionType = "saida"
)

// ParseTransactionType validates a transaction type at the store boundary.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TransactionTypeEntrada, TransactionTypeSaida:
		return TransactionType(s), nil
	}
	return "", ErrInvalidTransactionType
}

// Transaction is one immutable ledger entry under a subcategory. The amount
// is always a positive magnitude; direction is carried by Type, never by sign.
// Transactions have no update or delete path.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	Collection    Collection      `json:"colecao"`
	CategoryID    uuid.UUID       `json:"categoriaId"`
	SubcategoryID uuid.UUID       `json:"subcategoriaId"`
	Type          TransactionType `json:"tipo"`
	Amount        decimal.Decimal `json:"quantia"`
	Date          time.Time       `json:"data"`
	Title         string          `json:"titulo"`
	CategoryLabel string          `json:"categoria"` // free-text label, distinct from the Category entity
	Message       *string         `json:"mensagem,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Validate checks the closed shape of a transaction before it reaches the store.
func (t *Transaction) Validate() error {
	if _, err := ParseTransactionType(string(t.Type)); err != nil {
		return err
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrTitleRequired
	}
	if len(t.Title) > MaxTitleLength {
		return ErrNameTooLong
	}
	if t.Message != nil && len(*t.Message) > MaxMessageLength {
		return ErrNameTooLong
	}
	return nil
}

// SignedAmount is +Amount for entradas and -Amount for saidas. This is the
// delta applied to denormalized totals.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeSaida {
		return t.Amount.Neg()
	}
	return t.Amount
}

// TransactionRepository is the append-only ledger store. Append is the only
// write; a successful append is the durability guarantee for a recorded value.
type TransactionRepository interface {
	Append(ctx context.Context, txn *Transaction) (*Transaction, error)
	ListBySubcategory(ctx context.Context, collection Collection, categoryID, subcategoryID uuid.UUID) ([]*Transaction, error)
	ListByCategory(ctx context.Context, collection Collection, categoryID uuid.UUID) ([]*Transaction, error)
}
