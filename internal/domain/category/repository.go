package category

import (
	"context"
)

// Repository defines the interface for category data operations
type Repository interface {
	// Create a new category
	CreateCategory(ctx context.Context, cat *Category) (*Category, error)

	// Get a category by ID
	GetCategory(ctx context.Context, businessID string, categoryID string) (*Category, error)

	// Get all categories for a business
	GetCategories(ctx context.Context, businessID string) ([]*Category, error)

	// Deactivate a category (soft delete)
	DeactivateCategory(ctx context.Context, businessID string, categoryID string) error

	// Delete a category permanently
	DeleteCategory(ctx context.Context, businessID string, categoryID string) error

	// Check whether the category has child categories
	HasChildren(ctx context.Context, businessID string, categoryID string) (bool, error)
}
