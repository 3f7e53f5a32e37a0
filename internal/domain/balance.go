package domain

import "github.com/shopspring/decimal"

// Balance holds the inflow/outflow sums for a scope. Total is always
// Entradas minus Saidas.
type Balance struct {
	Entradas decimal.Decimal `json:"entradas"`
	Saidas   decimal.Decimal `json:"saidas"`
	Total    decimal.Decimal `json:"total"`
}

// ZeroBalance returns a balance with explicit zero decimals so JSON renders
// "0" rather than the decimal zero value's internals.
func ZeroBalance() Balance {
	return Balance{Entradas: decimal.Zero, Saidas: decimal.Zero, Total: decimal.Zero}
}

// Add merges another balance into this one and recomputes the total.
func (b Balance) Add(other Balance) Balance {
	entradas := b.Entradas.Add(other.Entradas)
	saidas := b.Saidas.Add(other.Saidas)
	return Balance{
		Entradas: entradas,
		Saidas:   saidas,
		Total:    entradas.Sub(saidas),
	}
}
