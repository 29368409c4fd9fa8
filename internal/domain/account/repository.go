package account

import (
	"context"
)

// Repository defines the interface for ledger account data operations
type Repository interface {
	// Create a new account
	CreateAccount(ctx context.Context, acc *LedgerAccount) (*LedgerAccount, error)

	// Get an account by ID
	GetAccount(ctx context.Context, businessID string, accountID string) (*LedgerAccount, error)

	// Get an account by its code
	GetAccountByCode(ctx context.Context, businessID string, code string) (*LedgerAccount, error)

	// Get accounts by criteria
	GetAccounts(ctx context.Context, businessID string, filter *GetAccountsRequest) ([]*LedgerAccount, error)

	// Deactivate an account (soft delete)
	DeactivateAccount(ctx context.Context, businessID string, accountID string) error

	// Check whether any journal entries reference the account
	HasEntries(ctx context.Context, businessID string, accountID string) (bool, error)
}
