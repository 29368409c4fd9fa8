package handlers

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/accountech/financeos/backend/internal/api/middleware"
	"github.com/accountech/financeos/backend/internal/api/response"
	"github.com/accountech/financeos/backend/internal/domain/category"
)

// CategoryHandler handles transaction-category endpoints
type CategoryHandler struct {
	service *category.Service
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(service *category.Service) *CategoryHandler {
	return &CategoryHandler{
		service: service,
	}
}

// Create handles POST /categories
func (h *CategoryHandler) Create(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req category.CreateCategoryRequest
	if err := parseBody(request, &req); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	cat, err := h.service.CreateCategory(ctx, middleware.GetBusinessID(ctx), &req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.Created(cat, request.RequestContext.RequestID), nil
}

// List handles GET /categories
func (h *CategoryHandler) List(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	cats, err := h.service.GetCategories(ctx, middleware.GetBusinessID(ctx))
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.SuccessWithPagination(cats, &response.Pagination{Total: len(cats)}, 200, request.RequestContext.RequestID), nil
}

// Get handles GET /categories/{categoryId}
func (h *CategoryHandler) Get(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	cat, err := h.service.GetCategory(ctx, middleware.GetBusinessID(ctx), pathParam(request, 1))
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(cat, request.RequestContext.RequestID), nil
}

// Delete handles DELETE /categories/{categoryId}. Categories still referenced
// by transactions or children cannot be deleted; they are deactivated via
// POST /categories/{categoryId}/deactivate instead.
func (h *CategoryHandler) Delete(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if err := h.service.DeleteCategory(ctx, middleware.GetBusinessID(ctx), pathParam(request, 1)); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.NoContent(), nil
}

// Deactivate handles POST /categories/{categoryId}/deactivate
func (h *CategoryHandler) Deactivate(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if err := h.service.DeactivateCategory(ctx, middleware.GetBusinessID(ctx), pathParam(request, 1)); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.NoContent(), nil
}
