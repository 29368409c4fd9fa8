package handlers

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/accountech/financeos/backend/internal/api/middleware"
	"github.com/accountech/financeos/backend/internal/api/response"
	"github.com/accountech/financeos/backend/internal/domain/account"
	"github.com/accountech/financeos/backend/internal/domain/business"
)

// BusinessHandler handles business registration and tier management
type BusinessHandler struct {
	service        *business.Service
	accountService *account.Service
}

// NewBusinessHandler creates a new business handler
func NewBusinessHandler(service *business.Service, accountService *account.Service) *BusinessHandler {
	return &BusinessHandler{
		service:        service,
		accountService: accountService,
	}
}

// Create handles POST /businesses. The new business gets the default chart of
// accounts so it can post transactions immediately.
func (h *BusinessHandler) Create(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req business.CreateBusinessRequest
	if err := parseBody(request, &req); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	biz, err := h.service.CreateBusiness(ctx, &req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	if _, err := h.accountService.SeedDefaultChart(ctx, biz.BusinessID); err != nil {
		logger.Error("failed to seed default chart", "businessId", biz.BusinessID, "error", err)
		return events.APIGatewayProxyResponse{}, err
	}

	return response.Created(biz, request.RequestContext.RequestID), nil
}

// Get handles GET /businesses and returns the calling business
func (h *BusinessHandler) Get(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	biz, err := h.service.GetBusiness(ctx, middleware.GetBusinessID(ctx))
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(biz, request.RequestContext.RequestID), nil
}

// UpdateTierRequest represents the body of a tier change request
type UpdateTierRequest struct {
	Tier business.Tier `json:"tier"`
}

// UpdateTier handles PUT /businesses/tier
func (h *BusinessHandler) UpdateTier(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req UpdateTierRequest
	if err := parseBody(request, &req); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	biz, err := h.service.UpdateTier(ctx, middleware.GetBusinessID(ctx), req.Tier)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(biz, request.RequestContext.RequestID), nil
}
