package category

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/accountech/financeos/backend/internal/domain/errors"
)

// Service provides category business logic
type Service struct {
	repo Repository
}

// NewService creates a new category service
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// CreateCategory creates a new category
func (s *Service) CreateCategory(ctx context.Context, businessID string, req *CreateCategoryRequest) (*Category, error) {
	if req.Name == "" {
		return nil, errors.NewValidationError("category name is required")
	}
	if !req.Type.Valid() {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid category type %q", req.Type))
	}

	if req.ParentID != "" {
		parent, err := s.repo.GetCategory(ctx, businessID, req.ParentID)
		if err != nil {
			return nil, errors.NewValidationError("parent category does not exist")
		}
		if parent.Type != req.Type {
			return nil, errors.NewValidationError("parent category must have the same type")
		}
	}

	now := time.Now().UTC()
	cat := &Category{
		BusinessID: businessID,
		CategoryID: uuid.New().String(),
		Name:       req.Name,
		Type:       req.Type,
		ParentID:   req.ParentID,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	return s.repo.CreateCategory(ctx, cat)
}

// GetCategory retrieves a category by ID
func (s *Service) GetCategory(ctx context.Context, businessID string, categoryID string) (*Category, error) {
	return s.repo.GetCategory(ctx, businessID, categoryID)
}

// GetCategories retrieves all categories for a business
func (s *Service) GetCategories(ctx context.Context, businessID string) ([]*Category, error) {
	return s.repo.GetCategories(ctx, businessID)
}

// DeleteCategory removes a category. A category that is referenced by any
// transaction, or that has child categories, cannot be deleted; deactivate it
// instead.
func (s *Service) DeleteCategory(ctx context.Context, businessID string, categoryID string) error {
	cat, err := s.repo.GetCategory(ctx, businessID, categoryID)
	if err != nil {
		return err
	}

	if cat.TransactionCount > 0 {
		return errors.NewValidationError(
			fmt.Sprintf("category is referenced by %d transactions; deactivate it instead", cat.TransactionCount))
	}

	hasChildren, err := s.repo.HasChildren(ctx, businessID, categoryID)
	if err != nil {
		return err
	}
	if hasChildren {
		return errors.NewValidationError("category has child categories; deactivate it instead")
	}

	return s.repo.DeleteCategory(ctx, businessID, categoryID)
}

// DeactivateCategory soft-disables a category
func (s *Service) DeactivateCategory(ctx context.Context, businessID string, categoryID string) error {
	if _, err := s.repo.GetCategory(ctx, businessID, categoryID); err != nil {
		return err
	}
	return s.repo.DeactivateCategory(ctx, businessID, categoryID)
}
