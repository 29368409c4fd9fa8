package business

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/accountech/financeos/backend/internal/common/utils"
	"github.com/accountech/financeos/backend/internal/domain/errors"
)

// Service provides business (tenant) management logic
type Service struct {
	repo Repository
}

// NewService creates a new business service
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// CreateBusiness registers a new tenant on the FREE tier unless another tier
// is requested.
func (s *Service) CreateBusiness(ctx context.Context, req *CreateBusinessRequest) (*Business, error) {
	if err := utils.ValidateRequiredString(req.Name, "business name"); err != nil {
		return nil, err
	}

	tier := req.Tier
	if tier == "" {
		tier = TierFree
	}
	if !tier.Valid() {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid tier %q", req.Tier))
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	if err := utils.ValidateCurrency(currency); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	biz := &Business{
		BusinessID: uuid.New().String(),
		Name:       req.Name,
		Tier:       tier,
		Currency:   currency,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	return s.repo.CreateBusiness(ctx, biz)
}

// GetBusiness retrieves a business by ID
func (s *Service) GetBusiness(ctx context.Context, businessID string) (*Business, error) {
	return s.repo.GetBusiness(ctx, businessID)
}

// UpdateTier changes the subscription tier. Downgrades are allowed even when
// the business already exceeds the lower tier's quota; further postings are
// rejected until the count drops below the new limit.
func (s *Service) UpdateTier(ctx context.Context, businessID string, tier Tier) (*Business, error) {
	if !tier.Valid() {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid tier %q", tier))
	}
	if err := s.repo.UpdateTier(ctx, businessID, tier); err != nil {
		return nil, err
	}
	return s.repo.GetBusiness(ctx, businessID)
}
