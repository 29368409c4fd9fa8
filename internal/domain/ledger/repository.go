package ledger

import (
	"context"
)

// Repository defines the interface for ledger data operations. Mutating
// methods persist a transaction, its journal entries, the affected account
// balances and the business/category counters as one atomic unit; a partial
// write is a correctness violation.
type Repository interface {
	// Get a transaction with its journal entries
	GetTransaction(ctx context.Context, businessID string, transactionID string) (*Transaction, error)

	// Get transactions by criteria, ordered by date
	GetTransactions(ctx context.Context, businessID string, filter *TransactionFilter) ([]*Transaction, error)

	// Reserve a contiguous block of entry numbers for the business and return
	// the first. The counter is a serialization point: concurrent postings
	// never receive the same number.
	NextEntryNumbers(ctx context.Context, businessID string, count int) (int64, error)

	// Persist a posted transaction. quotaLimit guards the business's
	// transaction count inside the same write (-1 means unlimited).
	PostTransaction(ctx context.Context, tx *Transaction, deltas []BalanceDelta, quotaLimit int64) error

	// Remove a transaction and its entries, applying the inverse balance deltas
	ReverseTransaction(ctx context.Context, tx *Transaction, deltas []BalanceDelta) error

	// Replace a transaction's entries with new ones, applying the combined
	// balance deltas of the reversal and the re-posting
	ReplaceTransaction(ctx context.Context, oldTx *Transaction, newTx *Transaction, deltas []BalanceDelta) error

	// Toggle the reconciled flag; metadata only, no balance impact
	SetReconciled(ctx context.Context, businessID string, transactionID string, reconciled bool) error

	// Get journal entries for one account within a date range (inclusive,
	// empty bounds ignored), ordered by (date, entryNumber) ascending
	GetEntriesByAccount(ctx context.Context, businessID string, accountID string, startDate, endDate string) ([]JournalEntry, error)
}
