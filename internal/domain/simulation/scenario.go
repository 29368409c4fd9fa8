package simulation

import (
	"bytes"
	"encoding/json"
	"fmt"

	apperrors "github.com/accountech/financeos/backend/internal/domain/errors"
)

// ParseScenario decodes raw JSON into a Scenario and validates every field.
// Unknown fields and malformed shapes are rejected outright rather than
// coerced; a scenario that passes here is safe to hand to the adjuster.
func ParseScenario(raw []byte) (*Scenario, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, apperrors.NewScenarioError(StageInterpret, fmt.Sprintf("malformed scenario payload: %v", err))
	}
	if dec.More() {
		return nil, apperrors.NewScenarioError(StageInterpret, "scenario payload contains trailing data")
	}

	if err := ValidateScenario(&sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// ValidateScenario checks a scenario's fields against the ranges the
// adjuster assumes.
func ValidateScenario(sc *Scenario) error {
	if sc == nil {
		return apperrors.NewScenarioError(StageInterpret, "scenario is required")
	}
	if !sc.Type.Valid() {
		return apperrors.NewScenarioError(StageInterpret, fmt.Sprintf("unknown scenario type %q", sc.Type))
	}
	if sc.StartMonthsAgo < 0 {
		return apperrors.NewScenarioError(StageInterpret, "startMonthsAgo must not be negative")
	}
	if sc.Probability < 0 || sc.Probability > 1 {
		return apperrors.NewScenarioError(StageInterpret, "probability must be between 0 and 1")
	}
	if sc.GrowthFactor < 0 {
		return apperrors.NewScenarioError(StageInterpret, "growthFactor must not be negative")
	}
	if sc.MonthlyCost.IsNegative() {
		return apperrors.NewScenarioError(StageInterpret, "monthlyCost must not be negative")
	}
	if sc.MonthlyRevenue.IsNegative() {
		return apperrors.NewScenarioError(StageInterpret, "monthlyRevenue must not be negative")
	}
	return nil
}
