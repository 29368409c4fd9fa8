package report

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accountech/financeos/backend/internal/domain/account"
	"github.com/accountech/financeos/backend/internal/domain/errors"
	"github.com/accountech/financeos/backend/internal/domain/ledger"
)

type fakeAccountRepo struct {
	accounts []*account.LedgerAccount
}

func (f *fakeAccountRepo) CreateAccount(ctx context.Context, acc *account.LedgerAccount) (*account.LedgerAccount, error) {
	f.accounts = append(f.accounts, acc)
	return acc, nil
}

func (f *fakeAccountRepo) GetAccount(ctx context.Context, businessID, accountID string) (*account.LedgerAccount, error) {
	for _, acc := range f.accounts {
		if acc.AccountID == accountID {
			return acc, nil
		}
	}
	return nil, errors.NewNotFoundError("account not found")
}

func (f *fakeAccountRepo) GetAccountByCode(ctx context.Context, businessID, code string) (*account.LedgerAccount, error) {
	for _, acc := range f.accounts {
		if acc.Code == code {
			return acc, nil
		}
	}
	return nil, errors.NewNotFoundError("account not found")
}

func (f *fakeAccountRepo) GetAccounts(ctx context.Context, businessID string, filter *account.GetAccountsRequest) ([]*account.LedgerAccount, error) {
	return f.accounts, nil
}

func (f *fakeAccountRepo) DeactivateAccount(ctx context.Context, businessID, accountID string) error {
	return nil
}

func (f *fakeAccountRepo) HasEntries(ctx context.Context, businessID, accountID string) (bool, error) {
	return false, nil
}

type fakeLedgerRepo struct {
	ledger.Repository
	entries map[string][]ledger.JournalEntry // by account ID
}

func (f *fakeLedgerRepo) GetEntriesByAccount(ctx context.Context, businessID, accountID, startDate, endDate string) ([]ledger.JournalEntry, error) {
	var out []ledger.JournalEntry
	for _, entry := range f.entries[accountID] {
		if startDate != "" && entry.Date < startDate {
			continue
		}
		if endDate != "" && entry.Date > endDate {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

type reportFixture struct {
	service     *Service
	ledgerRepo  *fakeLedgerRepo
	accountRepo *fakeAccountRepo
	ctx         context.Context
}

// newReportFixture seeds three accounts with two balanced transactions:
// $500 income on 2026-01-10 and a $200 rent payment on 2026-02-05.
func newReportFixture() *reportFixture {
	accountRepo := &fakeAccountRepo{accounts: []*account.LedgerAccount{
		{AccountID: "checking", Code: "1000", Name: "Checking", AccountType: account.Asset, NormalBalance: account.Debit, Active: true},
		{AccountID: "sales", Code: "4100", Name: "Sales Revenue", AccountType: account.Revenue, NormalBalance: account.Credit, Active: true},
		{AccountID: "rent", Code: "5200", Name: "Rent", AccountType: account.Expense, NormalBalance: account.Debit, Active: true},
	}}
	amount := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
	ledgerRepo := &fakeLedgerRepo{entries: map[string][]ledger.JournalEntry{
		"checking": {
			{EntryID: "e4", TransactionID: "tx2", AccountID: "checking", EntryNumber: 4, Date: "2026-02-05", Credit: amount(200)},
			{EntryID: "e1", TransactionID: "tx1", AccountID: "checking", EntryNumber: 1, Date: "2026-01-10", Debit: amount(500)},
		},
		"sales": {
			{EntryID: "e2", TransactionID: "tx1", AccountID: "sales", EntryNumber: 2, Date: "2026-01-10", Credit: amount(500)},
		},
		"rent": {
			{EntryID: "e3", TransactionID: "tx2", AccountID: "rent", EntryNumber: 3, Date: "2026-02-05", Debit: amount(200)},
		},
	}}
	return &reportFixture{
		service:     NewService(ledgerRepo, accountRepo),
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		ctx:         context.Background(),
	}
}

func TestTrialBalance(t *testing.T) {
	t.Run("debits equal credits", func(t *testing.T) {
		f := newReportFixture()

		report, err := f.service.TrialBalance(f.ctx, "biz1", "2026-12-31")
		require.NoError(t, err)
		assert.True(t, report.IsBalanced)
		assert.True(t, report.TotalDebits.Equal(decimal.NewFromInt(500)))
		assert.True(t, report.TotalCredits.Equal(decimal.NewFromInt(500)))

		require.Len(t, report.Rows, 3)
		// sorted by code, net on each account's normal side
		assert.Equal(t, "1000", report.Rows[0].Code)
		assert.True(t, report.Rows[0].Debit.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, "4100", report.Rows[1].Code)
		assert.True(t, report.Rows[1].Credit.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, "5200", report.Rows[2].Code)
		assert.True(t, report.Rows[2].Debit.Equal(decimal.NewFromInt(200)))
	})

	t.Run("as-of date excludes later entries", func(t *testing.T) {
		f := newReportFixture()

		report, err := f.service.TrialBalance(f.ctx, "biz1", "2026-01-31")
		require.NoError(t, err)
		assert.True(t, report.IsBalanced)
		assert.True(t, report.TotalDebits.Equal(decimal.NewFromInt(500)))

		// the February rent entries are not visible yet
		assert.True(t, report.Rows[0].Debit.Equal(decimal.NewFromInt(500)))
		assert.True(t, report.Rows[2].Debit.IsZero())
		assert.True(t, report.Rows[2].Credit.IsZero())
	})

	t.Run("contra balance flips to the opposite column", func(t *testing.T) {
		f := newReportFixture()
		// refunds exceeding revenue leave sales with a net debit balance
		f.ledgerRepo.entries["sales"] = append(f.ledgerRepo.entries["sales"], ledger.JournalEntry{
			EntryID: "e5", TransactionID: "tx3", AccountID: "sales",
			EntryNumber: 5, Date: "2026-02-10", Debit: decimal.NewFromInt(600),
		})

		report, err := f.service.TrialBalance(f.ctx, "biz1", "2026-12-31")
		require.NoError(t, err)
		assert.True(t, report.Rows[1].Debit.Equal(decimal.NewFromInt(100)))
		assert.True(t, report.Rows[1].Credit.IsZero())
	})
}

func TestGeneralLedger(t *testing.T) {
	t.Run("running balance in (date, entryNumber) order", func(t *testing.T) {
		f := newReportFixture()

		report, err := f.service.GeneralLedger(f.ctx, "biz1", "checking", "", "")
		require.NoError(t, err)
		require.Len(t, report.Lines, 2)

		// entries were stored out of order; the report must sort them
		assert.Equal(t, "e1", report.Lines[0].EntryID)
		assert.True(t, report.Lines[0].RunningBalance.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, "e4", report.Lines[1].EntryID)
		assert.True(t, report.Lines[1].RunningBalance.Equal(decimal.NewFromInt(300)))
		assert.True(t, report.EndBalance.Equal(decimal.NewFromInt(300)))
		assert.True(t, report.TotalDebits.Equal(decimal.NewFromInt(500)))
		assert.True(t, report.TotalCredits.Equal(decimal.NewFromInt(200)))
	})

	t.Run("credit-normal account folds on the credit side", func(t *testing.T) {
		f := newReportFixture()

		report, err := f.service.GeneralLedger(f.ctx, "biz1", "sales", "", "")
		require.NoError(t, err)
		require.Len(t, report.Lines, 1)
		assert.True(t, report.EndBalance.Equal(decimal.NewFromInt(500)))
	})

	t.Run("unknown account is not found", func(t *testing.T) {
		f := newReportFixture()

		_, err := f.service.GeneralLedger(f.ctx, "biz1", "missing", "", "")
		require.Error(t, err)
		assert.True(t, errors.NewNotFoundError("").Is(err))
	})
}

func TestBalanceSheet(t *testing.T) {
	f := newReportFixture()

	report, err := f.service.BalanceSheet(f.ctx, "biz1", "2026-12-31")
	require.NoError(t, err)
	require.Len(t, report.Assets, 1)
	assert.True(t, report.TotalAssets.Equal(decimal.NewFromInt(300)))
	assert.Empty(t, report.Liabilities)
	assert.Empty(t, report.Equity)
}

func TestProfitAndLoss(t *testing.T) {
	t.Run("net profit over the period", func(t *testing.T) {
		f := newReportFixture()

		report, err := f.service.ProfitAndLoss(f.ctx, "biz1", "2026-01-01", "2026-12-31")
		require.NoError(t, err)
		assert.True(t, report.TotalRevenue.Equal(decimal.NewFromInt(500)))
		assert.True(t, report.TotalExpenses.Equal(decimal.NewFromInt(200)))
		assert.True(t, report.NetProfit.Equal(decimal.NewFromInt(300)))
		require.Len(t, report.Revenue, 1)
		require.Len(t, report.Expenses, 1)
	})

	t.Run("period bounds the activity", func(t *testing.T) {
		f := newReportFixture()

		report, err := f.service.ProfitAndLoss(f.ctx, "biz1", "2026-02-01", "2026-02-28")
		require.NoError(t, err)
		assert.True(t, report.TotalRevenue.IsZero())
		assert.True(t, report.TotalExpenses.Equal(decimal.NewFromInt(200)))
		assert.True(t, report.NetProfit.Equal(decimal.NewFromInt(-200)))
	})
}

func TestCashFlow(t *testing.T) {
	f := newReportFixture()

	report, err := f.service.CashFlow(f.ctx, "biz1", "2026-01-01", "2026-12-31")
	require.NoError(t, err)
	assert.True(t, report.Inflows.Equal(decimal.NewFromInt(500)))
	assert.True(t, report.Outflows.Equal(decimal.NewFromInt(200)))
	assert.True(t, report.NetChange.Equal(decimal.NewFromInt(300)))
}
