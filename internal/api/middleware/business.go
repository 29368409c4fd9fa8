package middleware

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/accountech/financeos/backend/internal/api/response"
)

// BusinessContextKey is the key type for business scoping in the request context
type BusinessContextKey string

// BusinessContextKeyValue is the context key for the calling business's ID
const BusinessContextKeyValue BusinessContextKey = "business"

// businessIDHeader carries the tenant selection on every request
const businessIDHeader = "X-Business-Id"

// BusinessMiddleware extracts the business ID every request must be scoped
// to. Requests without one are rejected before any handler runs.
type BusinessMiddleware struct{}

// NewBusinessMiddleware creates a new business middleware
func NewBusinessMiddleware() *BusinessMiddleware {
	return &BusinessMiddleware{}
}

// Handle handles the business middleware
func (m *BusinessMiddleware) Handle(next APIGatewayHandler) APIGatewayHandler {
	return func(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		businessID := request.Headers[businessIDHeader]
		if businessID == "" {
			// API Gateway lower-cases headers in some configurations
			businessID = request.Headers["x-business-id"]
		}
		if businessID == "" {
			return response.ValidationError("X-Business-Id header is required", request.RequestContext.RequestID), nil
		}

		ctx = context.WithValue(ctx, BusinessContextKeyValue, businessID)
		logger = logger.With("businessId", businessID)

		return next(ctx, logger, request)
	}
}

// GetBusinessID gets the business ID from the request context
func GetBusinessID(ctx context.Context) string {
	businessID, ok := ctx.Value(BusinessContextKeyValue).(string)
	if !ok {
		return ""
	}
	return businessID
}
