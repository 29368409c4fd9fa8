package account

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType represents the type of a ledger account
type AccountType string

const (
	// Asset represents an asset account
	Asset AccountType = "ASSET"
	// Liability represents a liability account
	Liability AccountType = "LIABILITY"
	// Equity represents an equity account
	Equity AccountType = "EQUITY"
	// Revenue represents a revenue account
	Revenue AccountType = "REVENUE"
	// Expense represents an expense account
	Expense AccountType = "EXPENSE"
)

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// BalanceSide represents the side on which an account's balance normally grows
type BalanceSide string

const (
	// Debit means the balance increases with debit entries
	Debit BalanceSide = "DEBIT"
	// Credit means the balance increases with credit entries
	Credit BalanceSide = "CREDIT"
)

// NormalBalance returns the side on which accounts of this type grow. Assets
// and expenses are debit-normal; liabilities, equity and revenue are
// credit-normal.
func (t AccountType) NormalBalance() BalanceSide {
	switch t {
	case Asset, Expense:
		return Debit
	default:
		return Credit
	}
}

// LedgerAccount represents an account in the double-entry ledger. Its Balance
// is maintained exclusively by the ledger engine and always equals the signed
// sum of the account's journal entries on its normal balance side.
type LedgerAccount struct {
	BusinessID    string          `json:"businessId"`
	AccountID     string          `json:"accountId"`
	Code          string          `json:"code"` // unique per business
	Name          string          `json:"name"`
	AccountType   AccountType     `json:"accountType"`
	NormalBalance BalanceSide     `json:"normalBalance"`
	Balance       decimal.Decimal `json:"balance"`
	Active        bool            `json:"active"`
	ParentCode    string          `json:"parentCode,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// CreateAccountRequest represents the request to create a new ledger account
type CreateAccountRequest struct {
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	ParentCode  string      `json:"parentCode,omitempty"`
}

// GetAccountsRequest represents the request to list ledger accounts
type GetAccountsRequest struct {
	AccountType   AccountType `json:"accountType,omitempty"`
	IncludeClosed bool        `json:"includeClosed,omitempty"`
}

// AccountListResponse represents the response for listing accounts
type AccountListResponse struct {
	Accounts   []*LedgerAccount `json:"accounts"`
	TotalCount int              `json:"totalCount"`
}
