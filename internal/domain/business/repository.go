package business

import (
	"context"
)

// Repository defines the interface for business data operations
type Repository interface {
	// Create a new business
	CreateBusiness(ctx context.Context, biz *Business) (*Business, error)

	// Get a business by ID
	GetBusiness(ctx context.Context, businessID string) (*Business, error)

	// Update the subscription tier
	UpdateTier(ctx context.Context, businessID string, tier Tier) error
}
