package account

// defaultChart is the chart of accounts seeded for a new business. Codes follow
// the usual 1xxx assets / 2xxx liabilities / 3xxx equity / 4xxx revenue /
// 5xxx-6xxx expenses convention.
var defaultChart = []CreateAccountRequest{
	{Code: "1000", Name: "Assets", AccountType: Asset},
	{Code: "1010", Name: "Cash", AccountType: Asset, ParentCode: "1000"},
	{Code: "1020", Name: "Bank Account", AccountType: Asset, ParentCode: "1000"},
	{Code: "1100", Name: "Accounts Receivable", AccountType: Asset, ParentCode: "1000"},
	{Code: "2000", Name: "Liabilities", AccountType: Liability},
	{Code: "2100", Name: "Accounts Payable", AccountType: Liability, ParentCode: "2000"},
	{Code: "2200", Name: "Taxes Payable", AccountType: Liability, ParentCode: "2000"},
	{Code: "3000", Name: "Equity", AccountType: Equity},
	{Code: "3100", Name: "Owner's Equity", AccountType: Equity, ParentCode: "3000"},
	{Code: "3200", Name: "Retained Earnings", AccountType: Equity, ParentCode: "3000"},
	{Code: "4000", Name: "Revenue", AccountType: Revenue},
	{Code: "4100", Name: "Sales Revenue", AccountType: Revenue, ParentCode: "4000"},
	{Code: "4200", Name: "Service Revenue", AccountType: Revenue, ParentCode: "4000"},
	{Code: "5000", Name: "Expenses", AccountType: Expense},
	{Code: "5100", Name: "Payroll", AccountType: Expense, ParentCode: "5000"},
	{Code: "5200", Name: "Rent", AccountType: Expense, ParentCode: "5000"},
	{Code: "5300", Name: "Software & Subscriptions", AccountType: Expense, ParentCode: "5000"},
	{Code: "5400", Name: "Marketing", AccountType: Expense, ParentCode: "5000"},
	{Code: "5900", Name: "Other Expenses", AccountType: Expense, ParentCode: "5000"},
}

// DefaultChart returns a copy of the default chart-of-accounts definitions.
func DefaultChart() []CreateAccountRequest {
	chart := make([]CreateAccountRequest, len(defaultChart))
	copy(chart, defaultChart)
	return chart
}
