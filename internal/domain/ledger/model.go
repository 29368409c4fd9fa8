package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/accountech/financeos/backend/internal/domain/account"
)

// TransactionType represents the kind of business event a transaction records
type TransactionType string

const (
	// Income records money coming into the business
	Income TransactionType = "INCOME"
	// Expense records money leaving the business
	Expense TransactionType = "EXPENSE"
	// Transfer records a movement between two ledger accounts
	Transfer TransactionType = "TRANSFER"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense, Transfer:
		return true
	}
	return false
}

// JournalEntry is one debit or credit posting against a single ledger account.
// Exactly one of Debit and Credit is non-zero. Entries are immutable once
// posted; they disappear only when their transaction is reversed.
type JournalEntry struct {
	EntryID       string          `json:"entryId"`
	TransactionID string          `json:"transactionId"`
	BusinessID    string          `json:"businessId"`
	AccountID     string          `json:"accountId"`
	EntryNumber   int64           `json:"entryNumber"` // monotonic per business
	Date          string          `json:"date"`        // YYYY-MM-DD
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Side returns which side of the ledger the entry posts to.
func (e *JournalEntry) Side() account.BalanceSide {
	if e.Debit.IsPositive() {
		return account.Debit
	}
	return account.Credit
}

// Amount returns the entry's magnitude regardless of side.
func (e *JournalEntry) Amount() decimal.Decimal {
	if e.Debit.IsPositive() {
		return e.Debit
	}
	return e.Credit
}

// SignedDelta returns the balance change the entry causes on an account with
// the given normal balance side: positive when the entry side matches the
// normal side, negative otherwise.
func (e *JournalEntry) SignedDelta(normal account.BalanceSide) decimal.Decimal {
	if e.Side() == normal {
		return e.Amount()
	}
	return e.Amount().Neg()
}

// Transaction is a business event together with the balanced journal entries
// that record it. The sum of debit amounts across Entries always equals the
// sum of credit amounts.
type Transaction struct {
	BusinessID    string          `json:"businessId"`
	TransactionID string          `json:"transactionId"`
	Date          string          `json:"date"` // YYYY-MM-DD
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Type          TransactionType `json:"type"`
	CategoryID    string          `json:"categoryId"`
	AccountID     string          `json:"accountId"`
	Reconciled    bool            `json:"reconciled"`
	Entries       []JournalEntry  `json:"entries,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// SplitLeg assigns part of a transaction's amount to a specific counter
// account, producing an n-ary (more than two entries) posting.
type SplitLeg struct {
	AccountID string          `json:"accountId"`
	Amount    decimal.Decimal `json:"amount"`
}

// PostTransactionRequest represents the data needed to post a transaction
type PostTransactionRequest struct {
	Date        string          `json:"date"` // YYYY-MM-DD
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	CategoryID  string          `json:"categoryId"`
	AccountID   string          `json:"accountId"`
	// CounterAccountID is the other side of the double entry. When empty it is
	// resolved from the default chart by transaction type; transfers must name
	// it explicitly.
	CounterAccountID string `json:"counterAccountId,omitempty"`
	// Splits divides the amount over several counter accounts instead of a
	// single CounterAccountID. Split amounts must sum to Amount.
	Splits []SplitLeg `json:"splits,omitempty"`
}

// UpdateTransactionRequest adjusts a posted transaction's amount or accounts.
// The old journal entries are reversed and new balanced entries are posted in
// the same atomic unit.
type UpdateTransactionRequest struct {
	Date             string          `json:"date,omitempty"`
	Description      string          `json:"description,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	CategoryID       string          `json:"categoryId,omitempty"`
	AccountID        string          `json:"accountId,omitempty"`
	CounterAccountID string          `json:"counterAccountId,omitempty"`
}

// TransactionFilter represents filtering criteria for transaction queries
type TransactionFilter struct {
	StartDate     string // YYYY-MM-DD, inclusive
	EndDate       string // YYYY-MM-DD, inclusive
	Type          TransactionType
	CategoryID    string
	SortAscending bool
	Limit         int
}

// BalanceDelta is a pending change to one ledger account's stored balance,
// applied atomically together with the journal entries that explain it.
type BalanceDelta struct {
	AccountID string
	Delta     decimal.Decimal
}
