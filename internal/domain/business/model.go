package business

import (
	"time"
)

// Tier represents the subscription tier of a business
type Tier string

const (
	// TierFree is the default tier for new businesses
	TierFree Tier = "FREE"
	// TierStarter is the entry-level paid tier
	TierStarter Tier = "STARTER"
	// TierPro removes the transaction quota
	TierPro Tier = "PRO"
)

// Valid reports whether t is a known subscription tier.
func (t Tier) Valid() bool {
	switch t {
	case TierFree, TierStarter, TierPro:
		return true
	}
	return false
}

// TransactionLimit returns the maximum number of transactions the tier allows,
// or -1 for unlimited.
func (t Tier) TransactionLimit() int64 {
	switch t {
	case TierFree:
		return 50
	case TierStarter:
		return 1000
	case TierPro:
		return -1
	default:
		return 50
	}
}

// Business represents a tenant of the accounting system. Every ledger account,
// category, transaction and simulation belongs to exactly one business.
type Business struct {
	BusinessID       string    `json:"businessId"`
	Name             string    `json:"name"`
	Tier             Tier      `json:"tier"`
	Currency         string    `json:"currency"`
	TransactionCount int64     `json:"transactionCount"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// QuotaExhausted reports whether the business has used up its tier's
// transaction quota.
func (b *Business) QuotaExhausted() bool {
	limit := b.Tier.TransactionLimit()
	return limit >= 0 && b.TransactionCount >= limit
}

// CreateBusinessRequest represents the data needed to register a business
type CreateBusinessRequest struct {
	Name     string `json:"name"`
	Tier     Tier   `json:"tier,omitempty"`
	Currency string `json:"currency,omitempty"`
}
