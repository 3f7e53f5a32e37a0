package domain

// RecordState tracks how far a ledger write progressed. The append is the
// durability point; the two total updates behind it only refresh the
// denormalized cache.
type RecordState string

const (
	RecordStatePending                 RecordState = "pending"
	RecordStateTransactionAppended     RecordState = "transaction_appended"
	RecordStateSubcategoryTotalUpdated RecordState = "subcategory_total_updated"
	RecordStateCategoryTotalUpdated    RecordState = "category_total_updated"
	RecordStateCommitted               RecordState = "committed"
	RecordStateFailed                  RecordState = "failed"
)

// RecordResult is the outcome of recording a transaction. TotalsStale is set
// when the ledger append succeeded but one of the cached totals could not be
// updated; the caches are recoverable by full recomputation, so callers treat
// this as a warning rather than a failure.
type RecordResult struct {
	Transaction *Transaction `json:"transaction"`
	State       RecordState  `json:"state"`
	TotalsStale bool         `json:"totalsStale"`
}
