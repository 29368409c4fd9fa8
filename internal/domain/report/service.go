package report

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/accountech/financeos/backend/internal/domain/account"
	"github.com/accountech/financeos/backend/internal/domain/ledger"
	"github.com/accountech/financeos/backend/internal/domain/money"
)

// Service derives financial statements by replaying journal-entry history.
// Reports never read the cached account balances, so they are reproducible
// and auditable against the raw entries.
type Service struct {
	ledgerRepo  ledger.Repository
	accountRepo account.Repository
}

// NewService creates a new report service
func NewService(ledgerRepo ledger.Repository, accountRepo account.Repository) *Service {
	return &Service{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
	}
}

// TrialBalance sums every active account's entries dated on or before asOfDate
// and places the net balance on the account's normal side. Total debits and
// total credits must agree within a cent; anything else is a posting bug.
func (s *Service) TrialBalance(ctx context.Context, businessID string, asOfDate string) (*TrialBalanceReport, error) {
	accounts, err := s.accountRepo.GetAccounts(ctx, businessID, &account.GetAccountsRequest{})
	if err != nil {
		return nil, err
	}

	report := &TrialBalanceReport{
		AsOfDate: asOfDate,
		Rows:     make([]TrialBalanceRow, 0, len(accounts)),
	}

	for _, acc := range accounts {
		debits, credits, err := s.sumEntries(ctx, businessID, acc.AccountID, "", asOfDate)
		if err != nil {
			return nil, err
		}

		row := TrialBalanceRow{
			AccountID:   acc.AccountID,
			Code:        acc.Code,
			Name:        acc.Name,
			AccountType: acc.AccountType,
		}

		// Net balance goes on the account's normal side; a contra balance
		// flips to the opposite column.
		net := debits.Sub(credits)
		if acc.NormalBalance == account.Credit {
			net = net.Neg()
		}
		switch {
		case net.IsZero():
			// zero-balance accounts still appear with empty columns
		case acc.NormalBalance == account.Debit && net.IsPositive(),
			acc.NormalBalance == account.Credit && net.IsNegative():
			row.Debit = net.Abs()
		default:
			row.Credit = net.Abs()
		}

		report.TotalDebits = report.TotalDebits.Add(row.Debit)
		report.TotalCredits = report.TotalCredits.Add(row.Credit)
		report.Rows = append(report.Rows, row)
	}

	sort.Slice(report.Rows, func(i, j int) bool { return report.Rows[i].Code < report.Rows[j].Code })
	report.IsBalanced = money.Equal(report.TotalDebits, report.TotalCredits)
	return report, nil
}

// GeneralLedger returns one account's entries ordered by (date, entryNumber)
// ascending with a running balance folded from zero. Ties are always broken by
// entry number, never by storage order.
func (s *Service) GeneralLedger(ctx context.Context, businessID string, accountID string, startDate, endDate string) (*GeneralLedgerReport, error) {
	acc, err := s.accountRepo.GetAccount(ctx, businessID, accountID)
	if err != nil {
		return nil, err
	}

	entries, err := s.ledgerRepo.GetEntriesByAccount(ctx, businessID, accountID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return entries[i].EntryNumber < entries[j].EntryNumber
	})

	report := &GeneralLedgerReport{
		AccountID: acc.AccountID,
		Code:      acc.Code,
		Name:      acc.Name,
		StartDate: startDate,
		EndDate:   endDate,
		Lines:     make([]GeneralLedgerLine, 0, len(entries)),
	}

	running := decimal.Zero
	for i := range entries {
		entry := &entries[i]
		running = running.Add(entry.SignedDelta(acc.NormalBalance))
		report.Lines = append(report.Lines, GeneralLedgerLine{
			EntryID:        entry.EntryID,
			TransactionID:  entry.TransactionID,
			EntryNumber:    entry.EntryNumber,
			Date:           entry.Date,
			Debit:          entry.Debit,
			Credit:         entry.Credit,
			RunningBalance: running,
		})
		report.TotalDebits = report.TotalDebits.Add(entry.Debit)
		report.TotalCredits = report.TotalCredits.Add(entry.Credit)
	}
	report.EndBalance = running

	return report, nil
}

// BalanceSheet aggregates asset, liability and equity balances as of a date
func (s *Service) BalanceSheet(ctx context.Context, businessID string, asOfDate string) (*BalanceSheetReport, error) {
	accounts, err := s.accountRepo.GetAccounts(ctx, businessID, &account.GetAccountsRequest{})
	if err != nil {
		return nil, err
	}

	report := &BalanceSheetReport{AsOfDate: asOfDate}
	for _, acc := range accounts {
		net, err := s.netOnNormalSide(ctx, businessID, acc, "", asOfDate)
		if err != nil {
			return nil, err
		}
		amount := AccountAmount{AccountID: acc.AccountID, Code: acc.Code, Name: acc.Name, NetAmount: net}
		switch acc.AccountType {
		case account.Asset:
			report.Assets = append(report.Assets, amount)
			report.TotalAssets = report.TotalAssets.Add(net)
		case account.Liability:
			report.Liabilities = append(report.Liabilities, amount)
			report.TotalLiabilities = report.TotalLiabilities.Add(net)
		case account.Equity:
			report.Equity = append(report.Equity, amount)
			report.TotalEquity = report.TotalEquity.Add(net)
		}
	}
	return report, nil
}

// ProfitAndLoss nets revenue against expense activity over a period
func (s *Service) ProfitAndLoss(ctx context.Context, businessID string, startDate, endDate string) (*ProfitAndLossReport, error) {
	accounts, err := s.accountRepo.GetAccounts(ctx, businessID, &account.GetAccountsRequest{})
	if err != nil {
		return nil, err
	}

	report := &ProfitAndLossReport{StartDate: startDate, EndDate: endDate}
	for _, acc := range accounts {
		if acc.AccountType != account.Revenue && acc.AccountType != account.Expense {
			continue
		}
		net, err := s.netOnNormalSide(ctx, businessID, acc, startDate, endDate)
		if err != nil {
			return nil, err
		}
		amount := AccountAmount{AccountID: acc.AccountID, Code: acc.Code, Name: acc.Name, NetAmount: net}
		if acc.AccountType == account.Revenue {
			report.Revenue = append(report.Revenue, amount)
			report.TotalRevenue = report.TotalRevenue.Add(net)
		} else {
			report.Expenses = append(report.Expenses, amount)
			report.TotalExpenses = report.TotalExpenses.Add(net)
		}
	}
	report.NetProfit = report.TotalRevenue.Sub(report.TotalExpenses)
	return report, nil
}

// CashFlow tracks money moving in and out of asset accounts over a period
func (s *Service) CashFlow(ctx context.Context, businessID string, startDate, endDate string) (*CashFlowReport, error) {
	accounts, err := s.accountRepo.GetAccounts(ctx, businessID, &account.GetAccountsRequest{})
	if err != nil {
		return nil, err
	}

	report := &CashFlowReport{StartDate: startDate, EndDate: endDate}
	for _, acc := range accounts {
		if acc.AccountType != account.Asset {
			continue
		}
		debits, credits, err := s.sumEntries(ctx, businessID, acc.AccountID, startDate, endDate)
		if err != nil {
			return nil, err
		}
		report.Inflows = report.Inflows.Add(debits)
		report.Outflows = report.Outflows.Add(credits)
	}
	report.NetChange = report.Inflows.Sub(report.Outflows)
	return report, nil
}

func (s *Service) sumEntries(ctx context.Context, businessID, accountID, startDate, endDate string) (debits, credits decimal.Decimal, err error) {
	entries, err := s.ledgerRepo.GetEntriesByAccount(ctx, businessID, accountID, startDate, endDate)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	for i := range entries {
		debits = debits.Add(entries[i].Debit)
		credits = credits.Add(entries[i].Credit)
	}
	return debits, credits, nil
}

func (s *Service) netOnNormalSide(ctx context.Context, businessID string, acc *account.LedgerAccount, startDate, endDate string) (decimal.Decimal, error) {
	debits, credits, err := s.sumEntries(ctx, businessID, acc.AccountID, startDate, endDate)
	if err != nil {
		return decimal.Zero, err
	}
	if acc.NormalBalance == account.Debit {
		return debits.Sub(credits), nil
	}
	return credits.Sub(debits), nil
}
