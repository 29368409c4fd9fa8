package simulation

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimelinePoint is one month of a financial timeline. Balance always equals
// the previous point's balance plus this month's revenue minus its expenses,
// folded from a zero baseline.
type TimelinePoint struct {
	Month         string          `json:"month"` // YYYY-MM
	Revenue       decimal.Decimal `json:"revenue"`
	Expenses      decimal.Decimal `json:"expenses"`
	Balance       decimal.Decimal `json:"balance"`
	Events        []string        `json:"events,omitempty"`
	RevenueGrowth float64         `json:"revenueGrowth,omitempty"` // percent vs. reality
	KeyDrivers    []string        `json:"keyDrivers,omitempty"`
}

// Clone returns a deep copy of the point, including its slices.
func (p TimelinePoint) Clone() TimelinePoint {
	c := p
	c.Events = append([]string(nil), p.Events...)
	c.KeyDrivers = append([]string(nil), p.KeyDrivers...)
	return c
}

// CloneTimeline deep-copies a timeline so adjustments never mutate the
// reality baseline.
func CloneTimeline(points []TimelinePoint) []TimelinePoint {
	out := make([]TimelinePoint, len(points))
	for i := range points {
		out[i] = points[i].Clone()
	}
	return out
}

// RefoldBalances recomputes every point's balance from a zero baseline:
// balance[i] = balance[i-1] + revenue[i] - expenses[i].
func RefoldBalances(points []TimelinePoint) {
	prev := decimal.Zero
	for i := range points {
		points[i].Balance = prev.Add(points[i].Revenue).Sub(points[i].Expenses)
		prev = points[i].Balance
	}
}

// ScenarioType tags the structured hypothesis extracted from a what-if query
type ScenarioType string

const (
	ScenarioHire          ScenarioType = "hire"
	ScenarioFire          ScenarioType = "fire"
	ScenarioPriceIncrease ScenarioType = "price_increase"
	ScenarioPriceDecrease ScenarioType = "price_decrease"
	ScenarioNewClient     ScenarioType = "new_client"
	ScenarioLoseClient    ScenarioType = "lose_client"
	ScenarioInvestment    ScenarioType = "investment"
	ScenarioExpense       ScenarioType = "expense"
)

// Valid reports whether t is one of the fixed scenario types.
func (t ScenarioType) Valid() bool {
	switch t {
	case ScenarioHire, ScenarioFire, ScenarioPriceIncrease, ScenarioPriceDecrease,
		ScenarioNewClient, ScenarioLoseClient, ScenarioInvestment, ScenarioExpense:
		return true
	}
	return false
}

// Scenario is a validated what-if hypothesis. StartMonthsAgo positions the
// effect's first month counted back from the latest timeline month; monetary
// fields are monthly recurring deltas except OneTimeCost, which applies only
// in the effect's first month (negative values are costs).
type Scenario struct {
	Type           ScenarioType    `json:"type"`
	StartMonthsAgo int             `json:"startMonthsAgo"`
	MonthlyCost    decimal.Decimal `json:"monthlyCost"`
	MonthlyRevenue decimal.Decimal `json:"monthlyRevenue"`
	OneTimeCost    decimal.Decimal `json:"oneTimeCost"`
	GrowthFactor   float64         `json:"growthFactor"`
	Probability    float64         `json:"probability"`
	Description    string          `json:"description,omitempty"`
}

// StageError is a recoverable failure in one pipeline stage. The pipeline
// accumulates these and keeps going, so a late failure still surfaces
// everything computed before it.
type StageError struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Pipeline stage names as they appear in StageError.Stage.
const (
	StageInterpret = "interpret"
	StageReality   = "reality"
	StageAdjust    = "adjust"
	StageVerdict   = "verdict"
	StageStore     = "store"
)

// Verdict is the net financial delta between the reality and simulation
// timelines over the whole window.
type Verdict struct {
	RevenueDelta decimal.Decimal `json:"revenueDelta"`
	ExpenseDelta decimal.Decimal `json:"expenseDelta"`
	BalanceDelta decimal.Decimal `json:"balanceDelta"` // final-month balance difference
	Outcome      string          `json:"outcome"`      // positive, negative or neutral
	Summary      string          `json:"summary"`
}

// SimulationResult is the full output of one what-if run. Errors holds the
// stage failures of a degraded run; a result with a nil Verdict and non-empty
// Errors is still stored and returned.
type SimulationResult struct {
	SimulationID string          `json:"simulationId"`
	BusinessID   string          `json:"businessId"`
	Query        string          `json:"query"`
	Scenario     *Scenario       `json:"scenario,omitempty"`
	Reality      []TimelinePoint `json:"reality,omitempty"`
	Simulation   []TimelinePoint `json:"simulation,omitempty"`
	Verdict      *Verdict        `json:"verdict,omitempty"`
	Errors       []StageError    `json:"errors,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}
