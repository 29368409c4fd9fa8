package handlers

import (
	"encoding/json"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/accountech/financeos/backend/internal/domain/errors"
)

// parseBody decodes a JSON request body into v
func parseBody(request events.APIGatewayProxyRequest, v interface{}) error {
	if strings.TrimSpace(request.Body) == "" {
		return errors.NewValidationError("request body is required")
	}
	if err := json.Unmarshal([]byte(request.Body), v); err != nil {
		return errors.NewValidationError("invalid JSON body")
	}
	return nil
}

// pathParam returns the i-th segment of the request path, or "" when the path
// is shorter
func pathParam(request events.APIGatewayProxyRequest, i int) string {
	segments := strings.Split(strings.Trim(request.Path, "/"), "/")
	if i < 0 || i >= len(segments) {
		return ""
	}
	return segments[i]
}
