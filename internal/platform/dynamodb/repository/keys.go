package repository

import "fmt"

// Single-table key layout. Every item of a business shares the same partition
// key so one partition holds the whole tenant; sort-key prefixes separate the
// item kinds and GSI1 provides the date-ordered views.
const (
	metaSK         = "META"
	entryCounterSK = "COUNTER#ENTRY"

	itemTypeBusiness    = "Business"
	itemTypeAccount     = "Account"
	itemTypeAccountCode = "AccountCode"
	itemTypeCategory    = "Category"
	itemTypeTransaction = "Transaction"
	itemTypeEntry       = "Entry"
)

func businessPK(businessID string) string {
	return "BUSINESS#" + businessID
}

func accountSK(accountID string) string {
	return "ACCOUNT#" + accountID
}

func accountCodeSK(code string) string {
	return "ACCOUNTCODE#" + code
}

func categorySK(categoryID string) string {
	return "CATEGORY#" + categoryID
}

func transactionSK(transactionID string) string {
	return "TX#" + transactionID
}

func entrySK(transactionID, entryID string) string {
	return fmt.Sprintf("ENTRY#%s#%s", transactionID, entryID)
}

func entrySKPrefix(transactionID string) string {
	return "ENTRY#" + transactionID + "#"
}

// transactionsGSI1PK keys the date-ordered view of a business's transactions
func transactionsGSI1PK(businessID string) string {
	return fmt.Sprintf("BUSINESS#%s#TX", businessID)
}

func transactionGSI1SK(date, transactionID string) string {
	return fmt.Sprintf("DATE#%s#TX#%s", date, transactionID)
}

// accountEntriesGSI1PK keys the date-ordered view of one account's entries
func accountEntriesGSI1PK(businessID, accountID string) string {
	return fmt.Sprintf("BUSINESS#%s#ACCOUNT#%s", businessID, accountID)
}

// entryGSI1SK zero-pads the entry number so lexicographic order within a date
// matches numeric posting order
func entryGSI1SK(date string, entryNumber int64) string {
	return fmt.Sprintf("DATE#%s#ENTRY#%012d", date, entryNumber)
}
