package account

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accountech/financeos/backend/internal/domain/errors"
)

type fakeRepo struct {
	accounts map[string]*LedgerAccount // by ID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{accounts: make(map[string]*LedgerAccount)}
}

func (f *fakeRepo) CreateAccount(ctx context.Context, acc *LedgerAccount) (*LedgerAccount, error) {
	for _, existing := range f.accounts {
		if existing.Code == acc.Code {
			return nil, errors.NewConflictError("account code already in use")
		}
	}
	f.accounts[acc.AccountID] = acc
	return acc, nil
}

func (f *fakeRepo) GetAccount(ctx context.Context, businessID, accountID string) (*LedgerAccount, error) {
	if acc, ok := f.accounts[accountID]; ok {
		return acc, nil
	}
	return nil, errors.NewNotFoundError("account not found")
}

func (f *fakeRepo) GetAccountByCode(ctx context.Context, businessID, code string) (*LedgerAccount, error) {
	for _, acc := range f.accounts {
		if acc.Code == code {
			return acc, nil
		}
	}
	return nil, errors.NewNotFoundError("account not found")
}

func (f *fakeRepo) GetAccounts(ctx context.Context, businessID string, filter *GetAccountsRequest) ([]*LedgerAccount, error) {
	var out []*LedgerAccount
	for _, acc := range f.accounts {
		if filter != nil && filter.AccountType != "" && acc.AccountType != filter.AccountType {
			continue
		}
		if (filter == nil || !filter.IncludeClosed) && !acc.Active {
			continue
		}
		out = append(out, acc)
	}
	return out, nil
}

func (f *fakeRepo) DeactivateAccount(ctx context.Context, businessID, accountID string) error {
	acc, ok := f.accounts[accountID]
	if !ok {
		return errors.NewNotFoundError("account not found")
	}
	acc.Active = false
	return nil
}

func (f *fakeRepo) HasEntries(ctx context.Context, businessID, accountID string) (bool, error) {
	return false, nil
}

func TestCreateAccount(t *testing.T) {
	t.Run("successful creation derives the normal balance", func(t *testing.T) {
		service := NewService(newFakeRepo())

		acc, err := service.CreateAccount(context.Background(), "biz1", &CreateAccountRequest{
			Code:        "1020",
			Name:        "Bank Account",
			AccountType: Asset,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, acc.AccountID)
		assert.Equal(t, Debit, acc.NormalBalance)
		assert.True(t, acc.Balance.IsZero())
		assert.True(t, acc.Active)
	})

	t.Run("credit-normal types", func(t *testing.T) {
		service := NewService(newFakeRepo())

		for i, accountType := range []AccountType{Liability, Equity, Revenue} {
			acc, err := service.CreateAccount(context.Background(), "biz1", &CreateAccountRequest{
				Code:        string(rune('2'+i)) + "000",
				Name:        string(accountType),
				AccountType: accountType,
			})
			require.NoError(t, err)
			assert.Equal(t, Credit, acc.NormalBalance)
		}
	})

	t.Run("code must be numeric", func(t *testing.T) {
		service := NewService(newFakeRepo())

		for _, code := range []string{"", "12", "12345678", "10a0"} {
			_, err := service.CreateAccount(context.Background(), "biz1", &CreateAccountRequest{
				Code:        code,
				Name:        "Broken",
				AccountType: Asset,
			})
			require.Error(t, err)
			assert.True(t, errors.NewValidationError("").Is(err))
		}
	})

	t.Run("parent must exist and share the type", func(t *testing.T) {
		repo := newFakeRepo()
		service := NewService(repo)
		ctx := context.Background()

		_, err := service.CreateAccount(ctx, "biz1", &CreateAccountRequest{
			Code: "1000", Name: "Assets", AccountType: Asset,
		})
		require.NoError(t, err)

		_, err = service.CreateAccount(ctx, "biz1", &CreateAccountRequest{
			Code: "1010", Name: "Cash", AccountType: Asset, ParentCode: "1000",
		})
		require.NoError(t, err)

		_, err = service.CreateAccount(ctx, "biz1", &CreateAccountRequest{
			Code: "4100", Name: "Sales", AccountType: Revenue, ParentCode: "1000",
		})
		require.Error(t, err)
		assert.True(t, errors.NewValidationError("").Is(err))

		_, err = service.CreateAccount(ctx, "biz1", &CreateAccountRequest{
			Code: "1100", Name: "Receivable", AccountType: Asset, ParentCode: "9999",
		})
		require.Error(t, err)
	})

	t.Run("duplicate code conflicts", func(t *testing.T) {
		service := NewService(newFakeRepo())
		ctx := context.Background()

		_, err := service.CreateAccount(ctx, "biz1", &CreateAccountRequest{Code: "1000", Name: "Assets", AccountType: Asset})
		require.NoError(t, err)
		_, err = service.CreateAccount(ctx, "biz1", &CreateAccountRequest{Code: "1000", Name: "Assets Again", AccountType: Asset})
		require.Error(t, err)
		assert.True(t, errors.NewConflictError("").Is(err))
	})
}

func TestSeedDefaultChart(t *testing.T) {
	t.Run("creates the full chart", func(t *testing.T) {
		repo := newFakeRepo()
		service := NewService(repo)

		created, err := service.SeedDefaultChart(context.Background(), "biz1")
		require.NoError(t, err)
		assert.Len(t, created, len(DefaultChart()))

		sales, err := repo.GetAccountByCode(context.Background(), "biz1", "4100")
		require.NoError(t, err)
		assert.Equal(t, Revenue, sales.AccountType)
	})

	t.Run("seeding twice is idempotent", func(t *testing.T) {
		repo := newFakeRepo()
		service := NewService(repo)

		_, err := service.SeedDefaultChart(context.Background(), "biz1")
		require.NoError(t, err)

		created, err := service.SeedDefaultChart(context.Background(), "biz1")
		require.NoError(t, err)
		assert.Empty(t, created)
		assert.Len(t, repo.accounts, len(DefaultChart()))
	})
}

func TestDeactivateAccount(t *testing.T) {
	t.Run("zero-balance account deactivates", func(t *testing.T) {
		repo := newFakeRepo()
		service := NewService(repo)
		ctx := context.Background()

		acc, err := service.CreateAccount(ctx, "biz1", &CreateAccountRequest{Code: "1000", Name: "Assets", AccountType: Asset})
		require.NoError(t, err)

		require.NoError(t, service.DeactivateAccount(ctx, "biz1", acc.AccountID))
		assert.False(t, repo.accounts[acc.AccountID].Active)
	})

	t.Run("non-zero balance blocks deactivation", func(t *testing.T) {
		repo := newFakeRepo()
		service := NewService(repo)
		ctx := context.Background()

		acc, err := service.CreateAccount(ctx, "biz1", &CreateAccountRequest{Code: "1000", Name: "Assets", AccountType: Asset})
		require.NoError(t, err)
		repo.accounts[acc.AccountID].Balance = decimal.NewFromInt(100)

		err = service.DeactivateAccount(ctx, "biz1", acc.AccountID)
		require.Error(t, err)
		assert.True(t, errors.NewValidationError("").Is(err))
		assert.True(t, repo.accounts[acc.AccountID].Active)
	})
}
