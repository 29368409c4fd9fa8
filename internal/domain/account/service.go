package account

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/accountech/financeos/backend/internal/domain/errors"
)

var codePattern = regexp.MustCompile(`^[0-9]{3,6}$`)

// Service provides ledger-account business logic
type Service struct {
	repo Repository
}

// NewService creates a new account service
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// CreateAccount creates a new ledger account with a zero opening balance.
func (s *Service) CreateAccount(ctx context.Context, businessID string, req *CreateAccountRequest) (*LedgerAccount, error) {
	if !codePattern.MatchString(req.Code) {
		return nil, errors.NewValidationError("account code must be 3-6 digits")
	}
	if req.Name == "" {
		return nil, errors.NewValidationError("account name is required")
	}
	if !req.AccountType.Valid() {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid account type %q", req.AccountType))
	}

	// Parent must exist and share the account type so subtree aggregation in
	// reports stays meaningful.
	if req.ParentCode != "" {
		parent, err := s.repo.GetAccountByCode(ctx, businessID, req.ParentCode)
		if err != nil {
			return nil, errors.NewValidationError("parent account does not exist")
		}
		if parent.AccountType != req.AccountType {
			return nil, errors.NewValidationError("parent account must have the same account type")
		}
	}

	now := time.Now().UTC()
	acc := &LedgerAccount{
		BusinessID:    businessID,
		AccountID:     uuid.New().String(),
		Code:          req.Code,
		Name:          req.Name,
		AccountType:   req.AccountType,
		NormalBalance: req.AccountType.NormalBalance(),
		Balance:       decimal.Zero,
		Active:        true,
		ParentCode:    req.ParentCode,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	return s.repo.CreateAccount(ctx, acc)
}

// SeedDefaultChart creates the default chart of accounts for a business.
// Accounts whose code already exists are skipped, so seeding is idempotent.
func (s *Service) SeedDefaultChart(ctx context.Context, businessID string) ([]*LedgerAccount, error) {
	created := make([]*LedgerAccount, 0, len(defaultChart))
	for _, req := range DefaultChart() {
		if existing, err := s.repo.GetAccountByCode(ctx, businessID, req.Code); err == nil && existing != nil {
			continue
		}
		acc, err := s.CreateAccount(ctx, businessID, &req)
		if err != nil {
			if errors.NewConflictError("").Is(err) {
				continue
			}
			return created, err
		}
		created = append(created, acc)
	}
	return created, nil
}

// GetAccount retrieves an account by ID
func (s *Service) GetAccount(ctx context.Context, businessID string, accountID string) (*LedgerAccount, error) {
	return s.repo.GetAccount(ctx, businessID, accountID)
}

// GetAccounts retrieves accounts based on criteria
func (s *Service) GetAccounts(ctx context.Context, businessID string, req *GetAccountsRequest) (*AccountListResponse, error) {
	accounts, err := s.repo.GetAccounts(ctx, businessID, req)
	if err != nil {
		return nil, err
	}
	return &AccountListResponse{
		Accounts:   accounts,
		TotalCount: len(accounts),
	}, nil
}

// DeactivateAccount soft-disables an account. Accounts are never hard-deleted:
// once journal entries reference them the history must remain replayable.
func (s *Service) DeactivateAccount(ctx context.Context, businessID string, accountID string) error {
	acc, err := s.repo.GetAccount(ctx, businessID, accountID)
	if err != nil {
		return err
	}
	if !acc.Balance.IsZero() {
		return errors.NewValidationError("cannot deactivate an account with a non-zero balance")
	}
	return s.repo.DeactivateAccount(ctx, businessID, accountID)
}
