package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/accountech/financeos/backend/internal/api/handlers"
	"github.com/accountech/financeos/backend/internal/api/middleware"
	"github.com/accountech/financeos/backend/internal/api/response"
)

// Router dispatches API Gateway requests to the endpoint handlers. Every
// route except business registration is scoped to the business named in the
// X-Business-Id header.
type Router struct {
	logger *slog.Logger

	businesses   *handlers.BusinessHandler
	accounts     *handlers.AccountHandler
	categories   *handlers.CategoryHandler
	transactions *handlers.TransactionHandler
	reports      *handlers.ReportHandler
	simulations  *handlers.SimulationHandler
}

// NewRouter creates a new router
func NewRouter(
	logger *slog.Logger,
	businesses *handlers.BusinessHandler,
	accounts *handlers.AccountHandler,
	categories *handlers.CategoryHandler,
	transactions *handlers.TransactionHandler,
	reports *handlers.ReportHandler,
	simulations *handlers.SimulationHandler,
) *Router {
	return &Router{
		logger:       logger,
		businesses:   businesses,
		accounts:     accounts,
		categories:   categories,
		transactions: transactions,
		reports:      reports,
		simulations:  simulations,
	}
}

// HandleRequest is the Lambda entry point
func (r *Router) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.HTTPMethod == http.MethodOptions {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers:    response.DefaultHeaders(),
		}, nil
	}

	handler, scoped := r.route(request)
	if handler == nil {
		return response.NotFound("Endpoint not found"), nil
	}

	middlewares := []middleware.Middleware{
		middleware.NewRecoveryMiddleware(),
		middleware.NewLoggingMiddleware(),
	}
	if scoped {
		middlewares = append(middlewares, middleware.NewBusinessMiddleware())
	}

	return middleware.Chain(handler, middlewares...)(ctx, r.logger, request)
}

// route resolves a handler for the request and reports whether the route is
// business-scoped
func (r *Router) route(request events.APIGatewayProxyRequest) (middleware.APIGatewayHandler, bool) {
	segments := strings.Split(strings.Trim(request.Path, "/"), "/")
	method := request.HTTPMethod

	switch segments[0] {
	case "businesses":
		switch {
		case method == http.MethodPost && len(segments) == 1:
			return r.businesses.Create, false
		case method == http.MethodGet && len(segments) == 1:
			return r.businesses.Get, true
		case method == http.MethodPut && len(segments) == 2 && segments[1] == "tier":
			return r.businesses.UpdateTier, true
		}

	case "accounts":
		switch {
		case method == http.MethodPost && len(segments) == 1:
			return r.accounts.Create, true
		case method == http.MethodGet && len(segments) == 1:
			return r.accounts.List, true
		case method == http.MethodGet && len(segments) == 2:
			return r.accounts.Get, true
		case method == http.MethodDelete && len(segments) == 2:
			return r.accounts.Deactivate, true
		}

	case "categories":
		switch {
		case method == http.MethodPost && len(segments) == 1:
			return r.categories.Create, true
		case method == http.MethodGet && len(segments) == 1:
			return r.categories.List, true
		case method == http.MethodGet && len(segments) == 2:
			return r.categories.Get, true
		case method == http.MethodDelete && len(segments) == 2:
			return r.categories.Delete, true
		case method == http.MethodPost && len(segments) == 3 && segments[2] == "deactivate":
			return r.categories.Deactivate, true
		}

	case "transactions":
		switch {
		case method == http.MethodPost && len(segments) == 1:
			return r.transactions.Post, true
		case method == http.MethodGet && len(segments) == 1:
			return r.transactions.List, true
		case method == http.MethodGet && len(segments) == 2:
			return r.transactions.Get, true
		case method == http.MethodPut && len(segments) == 2:
			return r.transactions.Update, true
		case method == http.MethodDelete && len(segments) == 2:
			return r.transactions.Reverse, true
		case method == http.MethodPost && len(segments) == 3 && segments[2] == "reconcile":
			return r.transactions.Reconcile, true
		}

	case "reports":
		if method != http.MethodGet || len(segments) != 2 {
			return nil, false
		}
		switch segments[1] {
		case "trial-balance":
			return r.reports.TrialBalance, true
		case "general-ledger":
			return r.reports.GeneralLedger, true
		case "balance-sheet":
			return r.reports.BalanceSheet, true
		case "profit-and-loss":
			return r.reports.ProfitAndLoss, true
		case "cash-flow":
			return r.reports.CashFlow, true
		}

	case "simulations":
		switch {
		case method == http.MethodPost && len(segments) == 1:
			return r.simulations.Run, true
		case method == http.MethodGet && len(segments) == 1:
			return r.simulations.History, true
		case method == http.MethodGet && len(segments) == 2:
			return r.simulations.Get, true
		}
	}

	return nil, false
}
