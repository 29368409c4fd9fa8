package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/accountech/financeos/backend/internal/common/utils"
	"github.com/accountech/financeos/backend/internal/domain/account"
	"github.com/accountech/financeos/backend/internal/domain/business"
	"github.com/accountech/financeos/backend/internal/domain/category"
	"github.com/accountech/financeos/backend/internal/domain/errors"
	"github.com/accountech/financeos/backend/internal/domain/money"
)

// Default counter accounts from the seeded chart, used when a posting does not
// name the other side of the double entry explicitly.
const (
	defaultRevenueCode = "4100"
	defaultExpenseCode = "5900"
)

// leg is one side of a double entry while it is being constructed
type leg struct {
	accountID string
	side      account.BalanceSide
	amount    decimal.Decimal
}

// Service is the ledger engine. It enforces double-entry correctness on every
// mutation of financial state: all account balance changes go through posting
// or reversal, never direct writes.
type Service struct {
	repo         Repository
	accountRepo  account.Repository
	categoryRepo category.Repository
	businessRepo business.Repository
}

// NewService creates a new ledger service
func NewService(repo Repository, accountRepo account.Repository, categoryRepo category.Repository, businessRepo business.Repository) *Service {
	return &Service{
		repo:         repo,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		businessRepo: businessRepo,
	}
}

// PostTransaction validates the request, constructs balanced journal entries,
// assigns entry numbers and persists everything as one atomic unit.
func (s *Service) PostTransaction(ctx context.Context, businessID string, req *PostTransactionRequest) (*Transaction, error) {
	if err := validatePostRequest(req); err != nil {
		return nil, err
	}

	// Quota check precedes every mutation. The repository re-checks the count
	// inside the transact write, so two concurrent postings cannot both slip
	// under the limit.
	biz, err := s.businessRepo.GetBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if biz.QuotaExhausted() {
		return nil, errors.NewLimitExceededError(
			fmt.Sprintf("transaction quota of %d reached for tier %s", biz.Tier.TransactionLimit(), biz.Tier))
	}

	acc, err := s.activeAccount(ctx, businessID, req.AccountID)
	if err != nil {
		return nil, err
	}

	cat, err := s.categoryRepo.GetCategory(ctx, businessID, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if !cat.Active {
		return nil, errors.NewValidationError("category is inactive")
	}

	legs, err := s.buildLegs(ctx, businessID, acc, req)
	if err != nil {
		return nil, err
	}

	// Bug guard: the legs were constructed to balance, so an imbalance here is
	// a defect in the engine, never a user error.
	if err := checkBalanced(legs); err != nil {
		return nil, err
	}

	first, err := s.repo.NextEntryNumbers(ctx, businessID, len(legs))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tx := &Transaction{
		BusinessID:    businessID,
		TransactionID: uuid.New().String(),
		Date:          req.Date,
		Description:   req.Description,
		Amount:        money.Round(req.Amount),
		Type:          req.Type,
		CategoryID:    req.CategoryID,
		AccountID:     req.AccountID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	tx.Entries = buildEntries(tx, legs, first, now)

	deltas, err := s.balanceDeltas(ctx, businessID, tx.Entries, false)
	if err != nil {
		return nil, err
	}

	if err := s.repo.PostTransaction(ctx, tx, deltas, biz.Tier.TransactionLimit()); err != nil {
		return nil, err
	}

	return tx, nil
}

// ReverseTransaction undoes a posted transaction: every affected account
// balance is restored to its pre-posting value, then the journal entries and
// the transaction row are removed, all atomically.
func (s *Service) ReverseTransaction(ctx context.Context, businessID string, transactionID string) error {
	tx, err := s.repo.GetTransaction(ctx, businessID, transactionID)
	if err != nil {
		return err
	}

	deltas, err := s.balanceDeltas(ctx, businessID, tx.Entries, true)
	if err != nil {
		return err
	}

	return s.repo.ReverseTransaction(ctx, tx, deltas)
}

// UpdateTransaction adjusts a transaction's amount, accounts or category by
// reversing the old journal entries and posting fresh balanced ones in the
// same atomic unit.
func (s *Service) UpdateTransaction(ctx context.Context, businessID string, transactionID string, req *UpdateTransactionRequest) (*Transaction, error) {
	oldTx, err := s.repo.GetTransaction(ctx, businessID, transactionID)
	if err != nil {
		return nil, err
	}

	post := &PostTransactionRequest{
		Date:             oldTx.Date,
		Description:      oldTx.Description,
		Amount:           oldTx.Amount,
		Type:             oldTx.Type,
		CategoryID:       oldTx.CategoryID,
		AccountID:        oldTx.AccountID,
		CounterAccountID: req.CounterAccountID,
	}
	if req.Date != "" {
		post.Date = req.Date
	}
	if req.Description != "" {
		post.Description = req.Description
	}
	if !req.Amount.IsZero() {
		post.Amount = req.Amount
	}
	if req.CategoryID != "" {
		post.CategoryID = req.CategoryID
	}
	if req.AccountID != "" {
		post.AccountID = req.AccountID
	}
	if err := validatePostRequest(post); err != nil {
		return nil, err
	}

	acc, err := s.activeAccount(ctx, businessID, post.AccountID)
	if err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetCategory(ctx, businessID, post.CategoryID); err != nil {
		return nil, err
	}

	legs, err := s.buildLegs(ctx, businessID, acc, post)
	if err != nil {
		return nil, err
	}
	if err := checkBalanced(legs); err != nil {
		return nil, err
	}

	first, err := s.repo.NextEntryNumbers(ctx, businessID, len(legs))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	newTx := &Transaction{
		BusinessID:    businessID,
		TransactionID: oldTx.TransactionID,
		Date:          post.Date,
		Description:   post.Description,
		Amount:        money.Round(post.Amount),
		Type:          post.Type,
		CategoryID:    post.CategoryID,
		AccountID:     post.AccountID,
		Reconciled:    false, // an adjusted transaction needs re-verification
		CreatedAt:     oldTx.CreatedAt,
		UpdatedAt:     now,
	}
	newTx.Entries = buildEntries(newTx, legs, first, now)

	reverseDeltas, err := s.balanceDeltas(ctx, businessID, oldTx.Entries, true)
	if err != nil {
		return nil, err
	}
	postDeltas, err := s.balanceDeltas(ctx, businessID, newTx.Entries, false)
	if err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceTransaction(ctx, oldTx, newTx, mergeDeltas(reverseDeltas, postDeltas)); err != nil {
		return nil, err
	}

	return newTx, nil
}

// ReconcileTransaction toggles the transaction's reconciled flag. Pure
// metadata change, no balance impact.
func (s *Service) ReconcileTransaction(ctx context.Context, businessID string, transactionID string) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, businessID, transactionID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetReconciled(ctx, businessID, transactionID, !tx.Reconciled); err != nil {
		return nil, err
	}

	tx.Reconciled = !tx.Reconciled
	return tx, nil
}

// GetTransaction retrieves a transaction with its journal entries
func (s *Service) GetTransaction(ctx context.Context, businessID string, transactionID string) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, businessID, transactionID)
}

// GetTransactions retrieves transactions by criteria
func (s *Service) GetTransactions(ctx context.Context, businessID string, filter *TransactionFilter) ([]*Transaction, error) {
	return s.repo.GetTransactions(ctx, businessID, filter)
}

func (s *Service) activeAccount(ctx context.Context, businessID, accountID string) (*account.LedgerAccount, error) {
	acc, err := s.accountRepo.GetAccount(ctx, businessID, accountID)
	if err != nil {
		return nil, err
	}
	if !acc.Active {
		return nil, errors.NewValidationError(fmt.Sprintf("account %s is inactive", acc.Code))
	}
	return acc, nil
}

// buildLegs constructs the debit and credit sides of the double entry. The
// transaction's own account always carries the full amount on one side; the
// counter side is either a single account or the request's splits.
func (s *Service) buildLegs(ctx context.Context, businessID string, acc *account.LedgerAccount, req *PostTransactionRequest) ([]leg, error) {
	amount := money.Round(req.Amount)

	var ownSide, counterSide account.BalanceSide
	switch req.Type {
	case Income:
		// Money in: debit the receiving asset account, credit revenue.
		ownSide, counterSide = account.Debit, account.Credit
	case Expense:
		// Money out: credit the paying asset account, debit the expense.
		ownSide, counterSide = account.Credit, account.Debit
	case Transfer:
		// Credit the source, debit the destination.
		ownSide, counterSide = account.Credit, account.Debit
	}

	legs := []leg{{accountID: acc.AccountID, side: ownSide, amount: amount}}

	if len(req.Splits) > 0 {
		total := decimal.Zero
		for _, split := range req.Splits {
			splitAmount := money.Round(split.Amount)
			if !splitAmount.IsPositive() {
				return nil, errors.NewValidationError("split amounts must be positive")
			}
			if _, err := s.activeAccount(ctx, businessID, split.AccountID); err != nil {
				return nil, err
			}
			legs = append(legs, leg{accountID: split.AccountID, side: counterSide, amount: splitAmount})
			total = total.Add(splitAmount)
		}
		if !money.Equal(total, amount) {
			return nil, errors.NewValidationError(
				fmt.Sprintf("split amounts sum to %s, expected %s", total.StringFixed(2), amount.StringFixed(2)))
		}
		return legs, nil
	}

	counter, err := s.resolveCounterAccount(ctx, businessID, req)
	if err != nil {
		return nil, err
	}
	legs = append(legs, leg{accountID: counter.AccountID, side: counterSide, amount: amount})
	return legs, nil
}

func (s *Service) resolveCounterAccount(ctx context.Context, businessID string, req *PostTransactionRequest) (*account.LedgerAccount, error) {
	if req.CounterAccountID != "" {
		return s.activeAccount(ctx, businessID, req.CounterAccountID)
	}

	var code string
	switch req.Type {
	case Income:
		code = defaultRevenueCode
	case Expense:
		code = defaultExpenseCode
	case Transfer:
		return nil, errors.NewValidationError("transfers require an explicit counter account")
	}

	counter, err := s.accountRepo.GetAccountByCode(ctx, businessID, code)
	if err != nil {
		return nil, errors.NewValidationError(
			fmt.Sprintf("no counter account given and default account %s does not exist", code))
	}
	if !counter.Active {
		return nil, errors.NewValidationError(fmt.Sprintf("default counter account %s is inactive", code))
	}
	return counter, nil
}

// balanceDeltas aggregates each entry's signed balance change per account.
// With invert set, the deltas restore the balances a reversal must undo.
func (s *Service) balanceDeltas(ctx context.Context, businessID string, entries []JournalEntry, invert bool) ([]BalanceDelta, error) {
	byAccount := make(map[string]decimal.Decimal)
	order := make([]string, 0, len(entries))

	for i := range entries {
		entry := &entries[i]
		acc, err := s.accountRepo.GetAccount(ctx, businessID, entry.AccountID)
		if err != nil {
			return nil, err
		}
		delta := entry.SignedDelta(acc.NormalBalance)
		if invert {
			delta = delta.Neg()
		}
		if _, seen := byAccount[entry.AccountID]; !seen {
			order = append(order, entry.AccountID)
		}
		byAccount[entry.AccountID] = byAccount[entry.AccountID].Add(delta)
	}

	deltas := make([]BalanceDelta, 0, len(order))
	for _, accountID := range order {
		deltas = append(deltas, BalanceDelta{AccountID: accountID, Delta: byAccount[accountID]})
	}
	return deltas, nil
}

func buildEntries(tx *Transaction, legs []leg, firstNumber int64, now time.Time) []JournalEntry {
	entries := make([]JournalEntry, 0, len(legs))
	for i, l := range legs {
		entry := JournalEntry{
			EntryID:       ulid.Make().String(),
			TransactionID: tx.TransactionID,
			BusinessID:    tx.BusinessID,
			AccountID:     l.accountID,
			EntryNumber:   firstNumber + int64(i),
			Date:          tx.Date,
			CreatedAt:     now,
		}
		if l.side == account.Debit {
			entry.Debit = l.amount
		} else {
			entry.Credit = l.amount
		}
		entries = append(entries, entry)
	}
	return entries
}

func mergeDeltas(a, b []BalanceDelta) []BalanceDelta {
	byAccount := make(map[string]decimal.Decimal)
	order := make([]string, 0, len(a)+len(b))
	for _, d := range append(append([]BalanceDelta{}, a...), b...) {
		if _, seen := byAccount[d.AccountID]; !seen {
			order = append(order, d.AccountID)
		}
		byAccount[d.AccountID] = byAccount[d.AccountID].Add(d.Delta)
	}
	merged := make([]BalanceDelta, 0, len(order))
	for _, accountID := range order {
		if byAccount[accountID].IsZero() {
			continue
		}
		merged = append(merged, BalanceDelta{AccountID: accountID, Delta: byAccount[accountID]})
	}
	return merged
}

func checkBalanced(legs []leg) error {
	debits, credits := decimal.Zero, decimal.Zero
	for _, l := range legs {
		if l.side == account.Debit {
			debits = debits.Add(l.amount)
		} else {
			credits = credits.Add(l.amount)
		}
	}
	if !money.Equal(debits, credits) {
		return errors.NewInvariantViolationError(
			fmt.Sprintf("journal entries do not balance: debits %s, credits %s", debits.StringFixed(2), credits.StringFixed(2)))
	}
	return nil
}

func validatePostRequest(req *PostTransactionRequest) error {
	if !req.Amount.IsPositive() {
		return errors.NewValidationError("amount must be greater than zero")
	}
	if !req.Type.Valid() {
		return errors.NewValidationError(fmt.Sprintf("invalid transaction type %q", req.Type))
	}
	if err := utils.ValidateISODate(req.Date); err != nil {
		return err
	}
	if req.AccountID == "" {
		return errors.NewValidationError("account id is required")
	}
	if req.CategoryID == "" {
		return errors.NewValidationError("category id is required")
	}
	return nil
}
