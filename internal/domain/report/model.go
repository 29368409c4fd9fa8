package report

import (
	"github.com/shopspring/decimal"

	"github.com/accountech/financeos/backend/internal/domain/account"
)

// TrialBalanceRow is one account's balance placed on its normal side
type TrialBalanceRow struct {
	AccountID   string              `json:"accountId"`
	Code        string              `json:"code"`
	Name        string              `json:"name"`
	AccountType account.AccountType `json:"accountType"`
	Debit       decimal.Decimal     `json:"debit"`
	Credit      decimal.Decimal     `json:"credit"`
}

// TrialBalanceReport proves total debits equal total credits as of a date.
// IsBalanced false indicates a posting bug, not a display concern.
type TrialBalanceReport struct {
	AsOfDate     string            `json:"asOfDate"`
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebits  decimal.Decimal   `json:"totalDebits"`
	TotalCredits decimal.Decimal   `json:"totalCredits"`
	IsBalanced   bool              `json:"isBalanced"`
}

// GeneralLedgerLine is one journal entry with the running balance after it
type GeneralLedgerLine struct {
	EntryID        string          `json:"entryId"`
	TransactionID  string          `json:"transactionId"`
	EntryNumber    int64           `json:"entryNumber"`
	Date           string          `json:"date"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// GeneralLedgerReport lists one account's entries in (date, entryNumber)
// order with a running balance folded from zero
type GeneralLedgerReport struct {
	AccountID    string              `json:"accountId"`
	Code         string              `json:"code"`
	Name         string              `json:"name"`
	StartDate    string              `json:"startDate,omitempty"`
	EndDate      string              `json:"endDate,omitempty"`
	Lines        []GeneralLedgerLine `json:"lines"`
	TotalDebits  decimal.Decimal     `json:"totalDebits"`
	TotalCredits decimal.Decimal     `json:"totalCredits"`
	EndBalance   decimal.Decimal     `json:"endBalance"`
}

// AccountAmount is an account with its net amount for statement reports
type AccountAmount struct {
	AccountID string          `json:"accountId"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// BalanceSheetReport aggregates account balances by type as of a date
type BalanceSheetReport struct {
	AsOfDate         string          `json:"asOfDate"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
}

// ProfitAndLossReport nets revenue against expenses over a period
type ProfitAndLossReport struct {
	StartDate     string          `json:"startDate"`
	EndDate       string          `json:"endDate"`
	Revenue       []AccountAmount `json:"revenue"`
	Expenses      []AccountAmount `json:"expenses"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetProfit     decimal.Decimal `json:"netProfit"`
}

// CashFlowReport tracks money moving through asset accounts over a period
type CashFlowReport struct {
	StartDate string          `json:"startDate"`
	EndDate   string          `json:"endDate"`
	Inflows   decimal.Decimal `json:"inflows"`
	Outflows  decimal.Decimal `json:"outflows"`
	NetChange decimal.Decimal `json:"netChange"`
}
