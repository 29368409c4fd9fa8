package handlers

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/accountech/financeos/backend/internal/api/middleware"
	"github.com/accountech/financeos/backend/internal/api/response"
	"github.com/accountech/financeos/backend/internal/domain/simulation"
)

// SimulationHandler handles what-if simulation endpoints
type SimulationHandler struct {
	service *simulation.Service
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(service *simulation.Service) *SimulationHandler {
	return &SimulationHandler{
		service: service,
	}
}

// RunSimulationRequest represents the body of a simulation run request
type RunSimulationRequest struct {
	Query string `json:"query"`
}

// Run handles POST /simulations. Stage failures inside the pipeline do not
// fail the request; they come back in the result's errors list.
func (h *SimulationHandler) Run(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req RunSimulationRequest
	if err := parseBody(request, &req); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	result, err := h.service.RunSimulation(ctx, middleware.GetBusinessID(ctx), req.Query)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(result, request.RequestContext.RequestID), nil
}

// Get handles GET /simulations/{simulationId}
func (h *SimulationHandler) Get(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	result, err := h.service.GetSimulation(ctx, middleware.GetBusinessID(ctx), pathParam(request, 1))
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(result, request.RequestContext.RequestID), nil
}

// History handles GET /simulations and returns the most recent simulation IDs
func (h *SimulationHandler) History(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ids, err := h.service.GetHistory(ctx, middleware.GetBusinessID(ctx))
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(map[string]interface{}{"simulationIds": ids}, request.RequestContext.RequestID), nil
}
