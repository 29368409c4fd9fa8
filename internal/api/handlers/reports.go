package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/accountech/financeos/backend/internal/api/middleware"
	"github.com/accountech/financeos/backend/internal/api/response"
	"github.com/accountech/financeos/backend/internal/domain/errors"
	"github.com/accountech/financeos/backend/internal/domain/report"
)

// ReportHandler handles financial report endpoints
type ReportHandler struct {
	service *report.Service
}

// NewReportHandler creates a new report handler
func NewReportHandler(service *report.Service) *ReportHandler {
	return &ReportHandler{
		service: service,
	}
}

// TrialBalance handles GET /reports/trial-balance
func (h *ReportHandler) TrialBalance(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	asOfDate := request.QueryStringParameters["asOfDate"]
	if asOfDate == "" {
		asOfDate = time.Now().UTC().Format("2006-01-02")
	}

	rep, err := h.service.TrialBalance(ctx, middleware.GetBusinessID(ctx), asOfDate)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(rep, request.RequestContext.RequestID), nil
}

// GeneralLedger handles GET /reports/general-ledger
func (h *ReportHandler) GeneralLedger(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	query := request.QueryStringParameters
	accountID := query["accountId"]
	if accountID == "" {
		return response.ValidationError("accountId query parameter is required", request.RequestContext.RequestID), nil
	}
	startDate, endDate, err := dateRange(query)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	rep, err := h.service.GeneralLedger(ctx, middleware.GetBusinessID(ctx), accountID, startDate, endDate)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(rep, request.RequestContext.RequestID), nil
}

// BalanceSheet handles GET /reports/balance-sheet
func (h *ReportHandler) BalanceSheet(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	asOfDate := request.QueryStringParameters["asOfDate"]
	if asOfDate == "" {
		asOfDate = time.Now().UTC().Format("2006-01-02")
	}

	rep, err := h.service.BalanceSheet(ctx, middleware.GetBusinessID(ctx), asOfDate)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(rep, request.RequestContext.RequestID), nil
}

// ProfitAndLoss handles GET /reports/profit-and-loss
func (h *ReportHandler) ProfitAndLoss(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	startDate, endDate, err := dateRange(request.QueryStringParameters)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	rep, err := h.service.ProfitAndLoss(ctx, middleware.GetBusinessID(ctx), startDate, endDate)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(rep, request.RequestContext.RequestID), nil
}

// CashFlow handles GET /reports/cash-flow
func (h *ReportHandler) CashFlow(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	startDate, endDate, err := dateRange(request.QueryStringParameters)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	rep, err := h.service.CashFlow(ctx, middleware.GetBusinessID(ctx), startDate, endDate)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(rep, request.RequestContext.RequestID), nil
}

// dateRange reads the startDate/endDate query parameters, defaulting to the
// current calendar month
func dateRange(query map[string]string) (string, string, error) {
	startDate := query["startDate"]
	endDate := query["endDate"]
	if startDate == "" && endDate == "" {
		now := time.Now().UTC()
		firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return firstOfMonth.Format("2006-01-02"), now.Format("2006-01-02"), nil
	}
	if startDate == "" || endDate == "" {
		return "", "", errors.NewValidationError("startDate and endDate must be provided together")
	}
	return startDate, endDate, nil
}
