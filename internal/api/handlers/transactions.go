package handlers

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/aws/aws-lambda-go/events"

	"github.com/accountech/financeos/backend/internal/api/middleware"
	"github.com/accountech/financeos/backend/internal/api/response"
	"github.com/accountech/financeos/backend/internal/domain/ledger"
)

// TransactionHandler handles ledger transaction endpoints
type TransactionHandler struct {
	service *ledger.Service
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(service *ledger.Service) *TransactionHandler {
	return &TransactionHandler{
		service: service,
	}
}

// Post handles POST /transactions
func (h *TransactionHandler) Post(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req ledger.PostTransactionRequest
	if err := parseBody(request, &req); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	tx, err := h.service.PostTransaction(ctx, middleware.GetBusinessID(ctx), &req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.Created(tx, request.RequestContext.RequestID), nil
}

// List handles GET /transactions
func (h *TransactionHandler) List(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	query := request.QueryStringParameters
	filter := &ledger.TransactionFilter{
		StartDate:     query["startDate"],
		EndDate:       query["endDate"],
		Type:          ledger.TransactionType(query["type"]),
		CategoryID:    query["categoryId"],
		SortAscending: query["order"] == "asc",
	}
	if raw := query["limit"]; raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return response.ValidationError("limit must be a positive integer", request.RequestContext.RequestID), nil
		}
		filter.Limit = limit
	}

	txs, err := h.service.GetTransactions(ctx, middleware.GetBusinessID(ctx), filter)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.SuccessWithPagination(txs, &response.Pagination{Total: len(txs)}, 200, request.RequestContext.RequestID), nil
}

// Get handles GET /transactions/{transactionId} and includes the journal
// entries behind the transaction
func (h *TransactionHandler) Get(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tx, err := h.service.GetTransaction(ctx, middleware.GetBusinessID(ctx), pathParam(request, 1))
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(tx, request.RequestContext.RequestID), nil
}

// Update handles PUT /transactions/{transactionId}
func (h *TransactionHandler) Update(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req ledger.UpdateTransactionRequest
	if err := parseBody(request, &req); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	tx, err := h.service.UpdateTransaction(ctx, middleware.GetBusinessID(ctx), pathParam(request, 1), &req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(tx, request.RequestContext.RequestID), nil
}

// Reverse handles DELETE /transactions/{transactionId}. The transaction and
// its journal entries are removed and every account balance is restored in
// the same atomic write.
func (h *TransactionHandler) Reverse(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if err := h.service.ReverseTransaction(ctx, middleware.GetBusinessID(ctx), pathParam(request, 1)); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.NoContent(), nil
}

// Reconcile handles POST /transactions/{transactionId}/reconcile
func (h *TransactionHandler) Reconcile(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tx, err := h.service.ReconcileTransaction(ctx, middleware.GetBusinessID(ctx), pathParam(request, 1))
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(tx, request.RequestContext.RequestID), nil
}
