package simulation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steadyReality is six months at $10,000 revenue and $6,000 expenses.
func steadyReality() []TimelinePoint {
	months := []string{"2026-03", "2026-04", "2026-05", "2026-06", "2026-07", "2026-08"}
	points := make([]TimelinePoint, len(months))
	for i, m := range months {
		points[i] = TimelinePoint{
			Month:    m,
			Revenue:  decimal.NewFromInt(10000),
			Expenses: decimal.NewFromInt(6000),
		}
	}
	RefoldBalances(points)
	return points
}

func TestApplyNewClient(t *testing.T) {
	adjuster := NewAdjuster(DefaultAssumptions())
	reality := steadyReality()

	sim, err := adjuster.Apply(reality, &Scenario{
		Type:           ScenarioNewClient,
		StartMonthsAgo: 3,
		MonthlyRevenue: decimal.NewFromInt(5000),
		OneTimeCost:    decimal.NewFromInt(-1200),
		GrowthFactor:   0.1,
		Probability:    0.85,
	})
	require.NoError(t, err)
	require.Len(t, sim, 6)

	// months before the start are untouched
	assert.True(t, sim[0].Revenue.Equal(decimal.NewFromInt(10000)))
	assert.True(t, sim[1].Expenses.Equal(decimal.NewFromInt(6000)))
	assert.Empty(t, sim[1].Events)

	// first affected month: base revenue plus the one-time cost, no ramp yet
	first := sim[2]
	assert.True(t, first.Revenue.Equal(decimal.NewFromInt(15000)))
	assert.True(t, first.Expenses.Equal(decimal.NewFromInt(7200)))
	assert.Len(t, first.Events, 2)
	assert.InDelta(t, 50.0, first.RevenueGrowth, 0.01)

	// expansion ramps in after the first month
	assert.True(t, sim[3].Revenue.GreaterThan(first.Revenue))
	assert.True(t, sim[3].Expenses.Equal(decimal.NewFromInt(6000)))

	// balances hold the fold law across the whole window
	prev := decimal.Zero
	for i := range sim {
		expected := prev.Add(sim[i].Revenue).Sub(sim[i].Expenses)
		assert.True(t, sim[i].Balance.Equal(expected), "month %s", sim[i].Month)
		prev = sim[i].Balance
	}

	// reality is never mutated
	assert.True(t, reality[2].Revenue.Equal(decimal.NewFromInt(10000)))
	assert.Empty(t, reality[2].Events)
}

func TestApplyStartBeforeWindow(t *testing.T) {
	adjuster := NewAdjuster(DefaultAssumptions())

	sim, err := adjuster.Apply(steadyReality(), &Scenario{
		Type:           ScenarioExpense,
		StartMonthsAgo: 12,
		MonthlyCost:    decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	// an effect predating the window is active for the whole window
	for i := range sim {
		assert.True(t, sim[i].Expenses.Equal(decimal.NewFromInt(6500)), "month %s", sim[i].Month)
	}
}

func TestApplyPriceIncreaseChurnCap(t *testing.T) {
	adjuster := NewAdjuster(DefaultAssumptions())

	sim, err := adjuster.Apply(steadyReality(), &Scenario{
		Type:           ScenarioPriceIncrease,
		StartMonthsAgo: 5,
		GrowthFactor:   0.2,
		Probability:    1,
	})
	require.NoError(t, err)

	// churn accumulates 3% per month up to the 10% cap
	assert.True(t, sim[0].Revenue.Equal(decimal.NewFromInt(12000)))
	assert.True(t, sim[3].Revenue.Equal(decimal.NewFromInt(10920)))
	assert.True(t, sim[4].Revenue.Equal(decimal.NewFromInt(10800)))
	assert.True(t, sim[5].Revenue.Equal(sim[4].Revenue))
}

func TestApplyLoseClientFloorsAtZero(t *testing.T) {
	adjuster := NewAdjuster(DefaultAssumptions())

	sim, err := adjuster.Apply(steadyReality(), &Scenario{
		Type:           ScenarioLoseClient,
		StartMonthsAgo: 0,
		MonthlyRevenue: decimal.NewFromInt(50000),
	})
	require.NoError(t, err)

	last := sim[len(sim)-1]
	assert.True(t, last.Revenue.IsZero())
	assert.True(t, last.Expenses.IsZero())
}

func TestApplyHire(t *testing.T) {
	adjuster := NewAdjuster(DefaultAssumptions())

	sim, err := adjuster.Apply(steadyReality(), &Scenario{
		Type:           ScenarioHire,
		StartMonthsAgo: 2,
		MonthlyCost:    decimal.NewFromInt(4000),
		GrowthFactor:   0.15,
		Probability:    0.8,
	})
	require.NoError(t, err)

	first := sim[3]
	assert.True(t, first.Expenses.Equal(decimal.NewFromInt(10000)))
	assert.True(t, first.Revenue.Equal(decimal.NewFromInt(10000))) // no uplift until the ramp starts
	assert.True(t, sim[4].Revenue.GreaterThan(first.Revenue))
	assert.Contains(t, first.KeyDrivers, "new hire cost")
}

func TestApplyRejectsBadInput(t *testing.T) {
	adjuster := NewAdjuster(DefaultAssumptions())

	_, err := adjuster.Apply(nil, &Scenario{Type: ScenarioExpense})
	require.Error(t, err)

	_, err = adjuster.Apply(steadyReality(), &Scenario{Type: "merger"})
	require.Error(t, err)

	_, err = adjuster.Apply(steadyReality(), &Scenario{Type: ScenarioExpense, Probability: 1.5})
	require.Error(t, err)
}
