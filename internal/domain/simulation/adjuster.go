package simulation

import (
	"fmt"

	"github.com/shopspring/decimal"

	apperrors "github.com/accountech/financeos/backend/internal/domain/errors"
)

// Assumptions are the behavioral constants the adjuster applies. They are
// plain inputs, not policy baked into the formulas, so callers can tune them
// without touching the math.
type Assumptions struct {
	// RampMonths is how long a new revenue effect takes to reach full strength
	RampMonths int
	// CostSavingRate offsets lost-client revenue with reduced delivery cost
	CostSavingRate float64
	// ChurnCap bounds cumulative churn after a price increase
	ChurnCap float64
	// ChurnRatePerMonth is how fast price-increase churn accumulates
	ChurnRatePerMonth float64
	// AcquisitionCap bounds cumulative acquisition after a price decrease
	AcquisitionCap float64
	// AcquisitionPerMonth is how fast price-decrease acquisition accumulates
	AcquisitionPerMonth float64
}

// DefaultAssumptions returns the standard adjustment constants
func DefaultAssumptions() Assumptions {
	return Assumptions{
		RampMonths:          6,
		CostSavingRate:      0.30,
		ChurnCap:            0.10,
		ChurnRatePerMonth:   0.03,
		AcquisitionCap:      0.20,
		AcquisitionPerMonth: 0.05,
	}
}

// Adjuster overlays a scenario's effects onto a reality timeline. It is a
// pure transformation: the input timeline is never mutated and the same
// inputs always produce the same output.
type Adjuster struct {
	assumptions Assumptions
}

// NewAdjuster creates an adjuster with the given assumptions
func NewAdjuster(assumptions Assumptions) *Adjuster {
	if assumptions.RampMonths <= 0 {
		assumptions.RampMonths = DefaultAssumptions().RampMonths
	}
	return &Adjuster{assumptions: assumptions}
}

// Apply returns a copy of reality with the scenario's effects overlaid from
// its start month onward. Months before the start are untouched; balances are
// refolded over the whole window afterwards so the balance law holds.
func (a *Adjuster) Apply(reality []TimelinePoint, sc *Scenario) ([]TimelinePoint, error) {
	if len(reality) == 0 {
		return nil, apperrors.NewScenarioError(StageAdjust, "reality timeline is empty")
	}
	if err := ValidateScenario(sc); err != nil {
		return nil, err
	}

	sim := CloneTimeline(reality)

	startIndex := len(sim) - 1 - sc.StartMonthsAgo
	if startIndex < 0 {
		// effect predates the window, treat it as active for the whole window
		startIndex = 0
	}

	for i := startIndex; i < len(sim); i++ {
		monthsActive := i - startIndex
		if err := a.applyMonth(&sim[i], &reality[i], sc, monthsActive); err != nil {
			return nil, err
		}
	}

	RefoldBalances(sim)
	for i := range sim {
		if reality[i].Revenue.IsPositive() {
			growth, _ := sim[i].Revenue.Sub(reality[i].Revenue).
				Div(reality[i].Revenue).Mul(decimal.NewFromInt(100)).Round(2).Float64()
			sim[i].RevenueGrowth = growth
		}
	}
	return sim, nil
}

func (a *Adjuster) applyMonth(p *TimelinePoint, base *TimelinePoint, sc *Scenario, monthsActive int) error {
	switch sc.Type {
	case ScenarioNewClient:
		a.applyNewClient(p, sc, monthsActive)
	case ScenarioLoseClient:
		a.applyLoseClient(p, sc, monthsActive)
	case ScenarioHire:
		a.applyHire(p, base, sc, monthsActive)
	case ScenarioFire:
		a.applyFire(p, base, sc, monthsActive)
	case ScenarioPriceIncrease:
		a.applyPriceIncrease(p, base, sc, monthsActive)
	case ScenarioPriceDecrease:
		a.applyPriceDecrease(p, base, sc, monthsActive)
	case ScenarioInvestment:
		a.applyInvestment(p, base, sc, monthsActive)
	case ScenarioExpense:
		a.applyExpense(p, sc, monthsActive)
	default:
		return apperrors.NewScenarioError(StageAdjust, fmt.Sprintf("unhandled scenario type %q", sc.Type))
	}
	return nil
}

// applyNewClient adds the client's base revenue plus an expansion component
// that ramps in over RampMonths, weighted by the scenario's probability.
func (a *Adjuster) applyNewClient(p *TimelinePoint, sc *Scenario, monthsActive int) {
	expansion := mulFactor(sc.MonthlyRevenue, sc.GrowthFactor*a.ramp(monthsActive)*sc.Probability)
	p.Revenue = p.Revenue.Add(sc.MonthlyRevenue).Add(expansion)
	p.KeyDrivers = append(p.KeyDrivers, "new client revenue")
	if monthsActive == 0 {
		p.Events = append(p.Events, fmt.Sprintf("New client adds %s/month in revenue", fmtMoney(sc.MonthlyRevenue)))
		a.applyOneTime(p, sc, "One-time onboarding cost of %s")
	}
}

// applyLoseClient removes the client's revenue, floored at zero, with a
// partial cost saving since servicing the client stops too.
func (a *Adjuster) applyLoseClient(p *TimelinePoint, sc *Scenario, monthsActive int) {
	p.Revenue = floorZero(p.Revenue.Sub(sc.MonthlyRevenue))
	saving := mulFactor(sc.MonthlyRevenue, a.assumptions.CostSavingRate)
	p.Expenses = floorZero(p.Expenses.Sub(saving))
	p.KeyDrivers = append(p.KeyDrivers, "lost client revenue")
	if monthsActive == 0 {
		p.Events = append(p.Events, fmt.Sprintf("Lost client removes %s/month in revenue", fmtMoney(sc.MonthlyRevenue)))
	}
}

// applyHire adds the salary cost and a productivity uplift on existing
// revenue that ramps in as the hire gets up to speed.
func (a *Adjuster) applyHire(p *TimelinePoint, base *TimelinePoint, sc *Scenario, monthsActive int) {
	p.Expenses = p.Expenses.Add(sc.MonthlyCost)
	uplift := mulFactor(base.Revenue, sc.GrowthFactor*a.ramp(monthsActive)*sc.Probability)
	p.Revenue = p.Revenue.Add(uplift)
	p.KeyDrivers = append(p.KeyDrivers, "new hire cost")
	if monthsActive == 0 {
		p.Events = append(p.Events, fmt.Sprintf("New hire adds %s/month in salary", fmtMoney(sc.MonthlyCost)))
		a.applyOneTime(p, sc, "One-time recruiting cost of %s")
	}
}

// applyFire removes the salary cost and a capacity loss on existing revenue
// that grows as the gap is felt.
func (a *Adjuster) applyFire(p *TimelinePoint, base *TimelinePoint, sc *Scenario, monthsActive int) {
	p.Expenses = floorZero(p.Expenses.Sub(sc.MonthlyCost))
	loss := mulFactor(base.Revenue, sc.GrowthFactor*a.ramp(monthsActive)*sc.Probability)
	p.Revenue = floorZero(p.Revenue.Sub(loss))
	p.KeyDrivers = append(p.KeyDrivers, "salary savings")
	if monthsActive == 0 {
		p.Events = append(p.Events, fmt.Sprintf("Role cut saves %s/month in salary", fmtMoney(sc.MonthlyCost)))
		a.applyOneTime(p, sc, "One-time severance cost of %s")
	}
}

// applyPriceIncrease lifts revenue by the price change weighted by
// probability, then applies churn that accumulates monthly up to a cap.
func (a *Adjuster) applyPriceIncrease(p *TimelinePoint, base *TimelinePoint, sc *Scenario, monthsActive int) {
	uplift := mulFactor(base.Revenue, sc.GrowthFactor*sc.Probability)
	churn := capped(a.assumptions.ChurnRatePerMonth*float64(monthsActive), a.assumptions.ChurnCap)
	p.Revenue = mulFactor(p.Revenue.Add(uplift), 1-churn)
	p.KeyDrivers = append(p.KeyDrivers, "price increase")
	if monthsActive == 0 {
		p.Events = append(p.Events, fmt.Sprintf("Price increase of %.0f%% takes effect", sc.GrowthFactor*100))
	}
}

// applyPriceDecrease is the mirror: revenue drops by the price cut but
// acquisition accumulates monthly up to a cap.
func (a *Adjuster) applyPriceDecrease(p *TimelinePoint, base *TimelinePoint, sc *Scenario, monthsActive int) {
	cut := mulFactor(base.Revenue, sc.GrowthFactor*sc.Probability)
	acquisition := capped(a.assumptions.AcquisitionPerMonth*float64(monthsActive), a.assumptions.AcquisitionCap)
	p.Revenue = floorZero(mulFactor(p.Revenue.Sub(cut), 1+acquisition))
	p.KeyDrivers = append(p.KeyDrivers, "price decrease")
	if monthsActive == 0 {
		p.Events = append(p.Events, fmt.Sprintf("Price decrease of %.0f%% takes effect", sc.GrowthFactor*100))
	}
}

// applyInvestment books the outlay up front and a return on existing revenue
// that ramps in over RampMonths.
func (a *Adjuster) applyInvestment(p *TimelinePoint, base *TimelinePoint, sc *Scenario, monthsActive int) {
	p.Expenses = p.Expenses.Add(sc.MonthlyCost)
	uplift := mulFactor(base.Revenue, sc.GrowthFactor*a.ramp(monthsActive)*sc.Probability)
	p.Revenue = p.Revenue.Add(uplift)
	p.KeyDrivers = append(p.KeyDrivers, "investment return")
	if monthsActive == 0 {
		a.applyOneTime(p, sc, "Investment outlay of %s")
	}
}

// applyExpense adds a recurring cost with an optional one-time setup cost
func (a *Adjuster) applyExpense(p *TimelinePoint, sc *Scenario, monthsActive int) {
	p.Expenses = p.Expenses.Add(sc.MonthlyCost)
	p.KeyDrivers = append(p.KeyDrivers, "new recurring expense")
	if monthsActive == 0 {
		p.Events = append(p.Events, fmt.Sprintf("New expense adds %s/month", fmtMoney(sc.MonthlyCost)))
		a.applyOneTime(p, sc, "One-time setup cost of %s")
	}
}

// applyOneTime books |OneTimeCost| as a first-month expense and records the
// event. Scenarios encode costs as negative amounts, so the sign is dropped.
func (a *Adjuster) applyOneTime(p *TimelinePoint, sc *Scenario, eventFormat string) {
	if sc.OneTimeCost.IsZero() {
		return
	}
	cost := sc.OneTimeCost.Abs()
	p.Expenses = p.Expenses.Add(cost)
	p.Events = append(p.Events, fmt.Sprintf(eventFormat, fmtMoney(cost)))
}

// ramp returns how much of a gradual effect is active after monthsActive
// months, from 0 at the start to 1 at RampMonths.
func (a *Adjuster) ramp(monthsActive int) float64 {
	return capped(float64(monthsActive)/float64(a.assumptions.RampMonths), 1)
}

func capped(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}

func mulFactor(d decimal.Decimal, factor float64) decimal.Decimal {
	return d.Mul(decimal.NewFromFloat(factor))
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func fmtMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
