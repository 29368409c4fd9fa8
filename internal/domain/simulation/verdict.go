package simulation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/accountech/financeos/backend/internal/domain/money"
)

// CompareTimelines nets the simulation against reality. It is a pure
// function of its inputs: total revenue and expense deltas over the window,
// the final-month balance difference, and an outcome classification.
func CompareTimelines(reality, simulation []TimelinePoint) *Verdict {
	v := &Verdict{}
	n := len(reality)
	if len(simulation) < n {
		n = len(simulation)
	}
	for i := 0; i < n; i++ {
		v.RevenueDelta = v.RevenueDelta.Add(simulation[i].Revenue.Sub(reality[i].Revenue))
		v.ExpenseDelta = v.ExpenseDelta.Add(simulation[i].Expenses.Sub(reality[i].Expenses))
	}
	if n > 0 {
		v.BalanceDelta = simulation[n-1].Balance.Sub(reality[n-1].Balance)
	}

	switch {
	case money.Equal(v.BalanceDelta, decimal.Zero):
		v.Outcome = "neutral"
		v.Summary = "The scenario leaves your projected balance essentially unchanged"
	case v.BalanceDelta.IsPositive():
		v.Outcome = "positive"
		v.Summary = fmt.Sprintf("The scenario ends %s ahead of your current trajectory", fmtMoney(v.BalanceDelta))
	default:
		v.Outcome = "negative"
		v.Summary = fmt.Sprintf("The scenario ends %s behind your current trajectory", fmtMoney(v.BalanceDelta.Abs()))
	}
	return v
}
