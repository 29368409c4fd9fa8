package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accountech/financeos/backend/internal/domain/account"
	commonErrors "github.com/accountech/financeos/backend/internal/domain/errors"
)

func testAccount(businessID, accountID, code string, accountType account.AccountType) *account.LedgerAccount {
	now := time.Now().UTC()
	return &account.LedgerAccount{
		BusinessID:    businessID,
		AccountID:     accountID,
		Code:          code,
		Name:          "Account " + code,
		AccountType:   accountType,
		NormalBalance: accountType.NormalBalance(),
		Balance:       decimal.Zero,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestCreateAccount(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		client := NewTestClient()
		repo := NewDynamoDBAccountRepository(client, "test-table")

		_, err := repo.CreateAccount(context.Background(), testAccount("biz1", "acc1", "1000", account.Asset))
		require.NoError(t, err)

		got, err := repo.GetAccount(context.Background(), "biz1", "acc1")
		require.NoError(t, err)
		assert.Equal(t, "1000", got.Code)
		assert.Equal(t, account.Asset, got.AccountType)
		assert.Equal(t, account.Debit, got.NormalBalance)
		assert.True(t, got.Balance.IsZero())
	})

	t.Run("duplicate code conflicts", func(t *testing.T) {
		client := NewTestClient()
		repo := NewDynamoDBAccountRepository(client, "test-table")

		_, err := repo.CreateAccount(context.Background(), testAccount("biz1", "acc1", "1000", account.Asset))
		require.NoError(t, err)

		_, err = repo.CreateAccount(context.Background(), testAccount("biz1", "acc2", "1000", account.Asset))
		require.Error(t, err)
		assert.True(t, commonErrors.NewConflictError("").Is(err))
	})

	t.Run("same code in another business is fine", func(t *testing.T) {
		client := NewTestClient()
		repo := NewDynamoDBAccountRepository(client, "test-table")

		_, err := repo.CreateAccount(context.Background(), testAccount("biz1", "acc1", "1000", account.Asset))
		require.NoError(t, err)
		_, err = repo.CreateAccount(context.Background(), testAccount("biz2", "acc2", "1000", account.Asset))
		require.NoError(t, err)
	})
}

func TestGetAccountByCode(t *testing.T) {
	t.Run("resolves the marker to the account", func(t *testing.T) {
		client := NewTestClient()
		repo := NewDynamoDBAccountRepository(client, "test-table")

		_, err := repo.CreateAccount(context.Background(), testAccount("biz1", "acc1", "4100", account.Revenue))
		require.NoError(t, err)

		got, err := repo.GetAccountByCode(context.Background(), "biz1", "4100")
		require.NoError(t, err)
		assert.Equal(t, "acc1", got.AccountID)
	})

	t.Run("unknown code is not found", func(t *testing.T) {
		repo := NewDynamoDBAccountRepository(NewTestClient(), "test-table")

		_, err := repo.GetAccountByCode(context.Background(), "biz1", "9999")
		require.Error(t, err)
		assert.True(t, commonErrors.NewNotFoundError("").Is(err))
	})
}

func TestGetAccounts(t *testing.T) {
	seed := func(t *testing.T) (*DynamoDBAccountRepository, context.Context) {
		t.Helper()
		client := NewTestClient()
		repo := NewDynamoDBAccountRepository(client, "test-table")
		ctx := context.Background()

		_, err := repo.CreateAccount(ctx, testAccount("biz1", "acc1", "1000", account.Asset))
		require.NoError(t, err)
		_, err = repo.CreateAccount(ctx, testAccount("biz1", "acc2", "4100", account.Revenue))
		require.NoError(t, err)

		closed := testAccount("biz1", "acc3", "5100", account.Expense)
		closed.Active = false
		_, err = repo.CreateAccount(ctx, closed)
		require.NoError(t, err)

		return repo, ctx
	}

	t.Run("active accounts only by default", func(t *testing.T) {
		repo, ctx := seed(t)

		accounts, err := repo.GetAccounts(ctx, "biz1", &account.GetAccountsRequest{})
		require.NoError(t, err)
		assert.Len(t, accounts, 2)
	})

	t.Run("includes closed accounts on request", func(t *testing.T) {
		repo, ctx := seed(t)

		accounts, err := repo.GetAccounts(ctx, "biz1", &account.GetAccountsRequest{IncludeClosed: true})
		require.NoError(t, err)
		assert.Len(t, accounts, 3)
	})

	t.Run("filters by account type", func(t *testing.T) {
		repo, ctx := seed(t)

		accounts, err := repo.GetAccounts(ctx, "biz1", &account.GetAccountsRequest{AccountType: account.Revenue})
		require.NoError(t, err)
		require.Len(t, accounts, 1)
		assert.Equal(t, "4100", accounts[0].Code)
	})
}

func TestDeactivateAccount(t *testing.T) {
	t.Run("account becomes inactive", func(t *testing.T) {
		client := NewTestClient()
		repo := NewDynamoDBAccountRepository(client, "test-table")
		ctx := context.Background()

		_, err := repo.CreateAccount(ctx, testAccount("biz1", "acc1", "1000", account.Asset))
		require.NoError(t, err)

		require.NoError(t, repo.DeactivateAccount(ctx, "biz1", "acc1"))

		got, err := repo.GetAccount(ctx, "biz1", "acc1")
		require.NoError(t, err)
		assert.False(t, got.Active)
	})

	t.Run("unknown account is not found", func(t *testing.T) {
		repo := NewDynamoDBAccountRepository(NewTestClient(), "test-table")

		err := repo.DeactivateAccount(context.Background(), "biz1", "missing")
		require.Error(t, err)
		assert.True(t, commonErrors.NewNotFoundError("").Is(err))
	})
}
