package simulation

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/accountech/financeos/backend/internal/domain/errors"
	"github.com/accountech/financeos/backend/internal/domain/ledger"
	"github.com/accountech/financeos/backend/internal/platform/cache"
)

type stubInterpreter struct {
	scenario *Scenario
	err      error
}

func (s *stubInterpreter) InterpretScenario(ctx context.Context, query string) (*Scenario, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.scenario, nil
}

func newSimulationService(interpreter Interpreter) *Service {
	repo := &fakeLedgerRepo{transactions: []*ledger.Transaction{
		transactionOn("2026-07-10", ledger.Income, 8000),
		transactionOn("2026-07-15", ledger.Expense, 3000),
	}}
	builder := NewTimelineBuilder(repo, cache.NewMemoryCache(), time.Hour)
	builder.now = fixedClock("2026-08-29")
	return NewService(interpreter, builder, NewAdjuster(DefaultAssumptions()), cache.NewMemoryCache(), time.Hour)
}

func TestRunSimulation(t *testing.T) {
	query := "what if we sign a new client worth $5,000 a month?"

	t.Run("full pipeline", func(t *testing.T) {
		service := newSimulationService(&stubInterpreter{scenario: &Scenario{
			Type:           ScenarioNewClient,
			StartMonthsAgo: 2,
			MonthlyRevenue: decimal.NewFromInt(5000),
			Probability:    0.9,
		}})

		result, err := service.RunSimulation(context.Background(), "biz1", query)
		require.NoError(t, err)
		assert.Empty(t, result.Errors)
		assert.NotEmpty(t, result.SimulationID)
		require.Len(t, result.Reality, RealityWindowMonths)
		require.Len(t, result.Simulation, RealityWindowMonths)
		require.NotNil(t, result.Verdict)
		assert.Equal(t, "positive", result.Verdict.Outcome)
	})

	t.Run("query length is a hard error", func(t *testing.T) {
		service := newSimulationService(&stubInterpreter{})

		_, err := service.RunSimulation(context.Background(), "biz1", "too short")
		require.Error(t, err)
		assert.True(t, apperrors.NewValidationError("").Is(err))

		_, err = service.RunSimulation(context.Background(), "biz1", strings.Repeat("x", MaxQueryLength+1))
		require.Error(t, err)
		assert.True(t, apperrors.NewValidationError("").Is(err))
	})

	t.Run("interpreter failure degrades instead of failing", func(t *testing.T) {
		service := newSimulationService(&stubInterpreter{
			err: apperrors.NewScenarioError(StageInterpret, "could not extract a scenario"),
		})

		result, err := service.RunSimulation(context.Background(), "biz1", query)
		require.NoError(t, err)

		// reality is still built and the run is still retrievable
		require.Len(t, result.Reality, RealityWindowMonths)
		assert.Nil(t, result.Scenario)
		assert.Nil(t, result.Verdict)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, StageInterpret, result.Errors[0].Stage)
		assert.Equal(t, "could not extract a scenario", result.Errors[0].Message)

		stored, err := service.GetSimulation(context.Background(), "biz1", result.SimulationID)
		require.NoError(t, err)
		assert.Len(t, stored.Errors, 1)
	})
}

func TestGetSimulation(t *testing.T) {
	service := newSimulationService(&stubInterpreter{scenario: &Scenario{
		Type:        ScenarioExpense,
		MonthlyCost: decimal.NewFromInt(500),
	}})
	ctx := context.Background()

	result, err := service.RunSimulation(ctx, "biz1", "what if we add a $500 software subscription?")
	require.NoError(t, err)

	t.Run("stored run round-trips", func(t *testing.T) {
		stored, err := service.GetSimulation(ctx, "biz1", result.SimulationID)
		require.NoError(t, err)
		assert.Equal(t, result.Query, stored.Query)
		assert.Equal(t, result.Verdict.Outcome, stored.Verdict.Outcome)
		assert.True(t, stored.Verdict.ExpenseDelta.Equal(result.Verdict.ExpenseDelta))
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := service.GetSimulation(ctx, "biz1", "missing")
		require.Error(t, err)
		assert.True(t, apperrors.NewNotFoundError("").Is(err))
	})

	t.Run("missing ids are rejected", func(t *testing.T) {
		_, err := service.GetSimulation(ctx, "", result.SimulationID)
		require.Error(t, err)
		assert.True(t, apperrors.NewValidationError("").Is(err))
	})
}

func TestGetHistory(t *testing.T) {
	service := newSimulationService(&stubInterpreter{scenario: &Scenario{
		Type:        ScenarioExpense,
		MonthlyCost: decimal.NewFromInt(500),
	}})
	ctx := context.Background()

	first, err := service.RunSimulation(ctx, "biz1", "what if we add a $500 software subscription?")
	require.NoError(t, err)
	second, err := service.RunSimulation(ctx, "biz1", "what if we add another $500 subscription?")
	require.NoError(t, err)

	ids, err := service.GetHistory(ctx, "biz1")
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, second.SimulationID, ids[0])
	assert.Equal(t, first.SimulationID, ids[1])

	other, err := service.GetHistory(ctx, "biz2")
	require.NoError(t, err)
	assert.Empty(t, other)
}
