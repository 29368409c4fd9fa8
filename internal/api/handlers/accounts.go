package handlers

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/accountech/financeos/backend/internal/api/middleware"
	"github.com/accountech/financeos/backend/internal/api/response"
	"github.com/accountech/financeos/backend/internal/domain/account"
)

// AccountHandler handles chart-of-accounts endpoints
type AccountHandler struct {
	service *account.Service
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(service *account.Service) *AccountHandler {
	return &AccountHandler{
		service: service,
	}
}

// Create handles POST /accounts
func (h *AccountHandler) Create(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req account.CreateAccountRequest
	if err := parseBody(request, &req); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	acc, err := h.service.CreateAccount(ctx, middleware.GetBusinessID(ctx), &req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.Created(acc, request.RequestContext.RequestID), nil
}

// List handles GET /accounts
func (h *AccountHandler) List(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	req := &account.GetAccountsRequest{
		AccountType:   account.AccountType(request.QueryStringParameters["accountType"]),
		IncludeClosed: request.QueryStringParameters["includeClosed"] == "true",
	}

	list, err := h.service.GetAccounts(ctx, middleware.GetBusinessID(ctx), req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.SuccessWithPagination(list.Accounts, &response.Pagination{Total: list.TotalCount}, 200, request.RequestContext.RequestID), nil
}

// Get handles GET /accounts/{accountId}
func (h *AccountHandler) Get(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	acc, err := h.service.GetAccount(ctx, middleware.GetBusinessID(ctx), pathParam(request, 1))
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(acc, request.RequestContext.RequestID), nil
}

// Deactivate handles DELETE /accounts/{accountId}. Accounts are never hard
// deleted, only disabled for new postings.
func (h *AccountHandler) Deactivate(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if err := h.service.DeactivateAccount(ctx, middleware.GetBusinessID(ctx), pathParam(request, 1)); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.NoContent(), nil
}
