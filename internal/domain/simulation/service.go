package simulation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	apperrors "github.com/accountech/financeos/backend/internal/domain/errors"
)

// Query and retention bounds for simulation runs.
const (
	MinQueryLength = 10
	MaxQueryLength = 500

	// HistoryLimit is how many recent run ids are kept per business
	HistoryLimit = 20

	// DefaultResultTTL is how long a stored result stays retrievable
	DefaultResultTTL = 7 * 24 * time.Hour
)

// Interpreter turns a natural-language what-if query into a validated
// Scenario. Implementations live in the platform layer.
type Interpreter interface {
	InterpretScenario(ctx context.Context, query string) (*Scenario, error)
}

// Service runs the what-if pipeline: interpret the query, build the reality
// timeline, overlay the scenario, compare, store. Every stage after input
// validation fails soft; a degraded run returns whatever was computed with
// the failures listed in the result.
type Service struct {
	interpreter Interpreter
	builder     *TimelineBuilder
	adjuster    *Adjuster
	cache       Cache
	resultTTL   time.Duration
}

// NewService creates a new simulation service
func NewService(interpreter Interpreter, builder *TimelineBuilder, adjuster *Adjuster, cache Cache, resultTTL time.Duration) *Service {
	if resultTTL <= 0 {
		resultTTL = DefaultResultTTL
	}
	return &Service{
		interpreter: interpreter,
		builder:     builder,
		adjuster:    adjuster,
		cache:       cache,
		resultTTL:   resultTTL,
	}
}

// RunSimulation executes one what-if run for a business. Only query
// validation returns a hard error; every pipeline stage failure is recorded
// on the result instead so a late failure never discards earlier work.
func (s *Service) RunSimulation(ctx context.Context, businessID string, query string) (*SimulationResult, error) {
	if businessID == "" {
		return nil, apperrors.NewValidationError("business ID is required")
	}
	query = strings.TrimSpace(query)
	if len(query) < MinQueryLength || len(query) > MaxQueryLength {
		return nil, apperrors.NewValidationError("query must be between 10 and 500 characters")
	}

	result := &SimulationResult{
		SimulationID: ulid.Make().String(),
		BusinessID:   businessID,
		Query:        query,
		CreatedAt:    time.Now().UTC(),
	}

	reality, err := s.builder.BuildReality(ctx, businessID)
	if err != nil {
		result.Errors = append(result.Errors, StageError{Stage: StageReality, Message: stageMessage(err)})
	} else {
		result.Reality = reality
	}

	scenario, err := s.interpreter.InterpretScenario(ctx, query)
	if err != nil {
		result.Errors = append(result.Errors, StageError{Stage: StageInterpret, Message: stageMessage(err)})
	} else {
		result.Scenario = scenario
	}

	if result.Scenario != nil && len(result.Reality) > 0 {
		simulated, err := s.adjuster.Apply(result.Reality, result.Scenario)
		if err != nil {
			result.Errors = append(result.Errors, StageError{Stage: StageAdjust, Message: stageMessage(err)})
		} else {
			result.Simulation = simulated
		}
	}

	if len(result.Simulation) > 0 {
		result.Verdict = CompareTimelines(result.Reality, result.Simulation)
	}

	if err := s.store(ctx, result); err != nil {
		result.Errors = append(result.Errors, StageError{Stage: StageStore, Message: stageMessage(err)})
	}

	return result, nil
}

// GetSimulation returns a stored run. Expired or unknown ids are not found.
func (s *Service) GetSimulation(ctx context.Context, businessID string, simulationID string) (*SimulationResult, error) {
	if businessID == "" || simulationID == "" {
		return nil, apperrors.NewValidationError("business ID and simulation ID are required")
	}

	raw, ok, err := s.cache.Get(ctx, resultKey(businessID, simulationID))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load simulation", err)
	}
	if !ok {
		return nil, apperrors.NewNotFoundError("simulation not found")
	}

	var result SimulationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, apperrors.NewInternalError("failed to decode stored simulation", err)
	}
	return &result, nil
}

// GetHistory returns the business's recent run ids, newest first
func (s *Service) GetHistory(ctx context.Context, businessID string) ([]string, error) {
	if businessID == "" {
		return nil, apperrors.NewValidationError("business ID is required")
	}
	ids, err := s.cache.List(ctx, historyKey(businessID))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load simulation history", err)
	}
	return ids, nil
}

func (s *Service) store(ctx context.Context, result *SimulationResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	if err := s.cache.SetWithTTL(ctx, resultKey(result.BusinessID, result.SimulationID), raw, s.resultTTL); err != nil {
		return err
	}
	return s.cache.PushTrim(ctx, historyKey(result.BusinessID), result.SimulationID, HistoryLimit)
}

// stageMessage extracts a user-facing message for the result's error list,
// preferring the AppError message over the wrapped chain.
func stageMessage(err error) string {
	var appErr apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func resultKey(businessID, simulationID string) string {
	return "sim:result:" + businessID + ":" + simulationID
}

func historyKey(businessID string) string {
	return "sim:history:" + businessID
}
