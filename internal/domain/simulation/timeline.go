package simulation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/accountech/financeos/backend/internal/domain/ledger"
)

// RealityWindowMonths is how far back the reality timeline looks.
const RealityWindowMonths = 6

// DefaultRealityTTL bounds how stale a cached reality timeline may be.
const DefaultRealityTTL = time.Hour

// TimelineBuilder aggregates a business's posted transactions into a monthly
// reality timeline. Built timelines are cached per business so repeated
// simulations against the same books skip the ledger scan.
type TimelineBuilder struct {
	ledgerRepo ledger.Repository
	cache      Cache
	ttl        time.Duration
	now        func() time.Time
}

// NewTimelineBuilder creates a new timeline builder
func NewTimelineBuilder(ledgerRepo ledger.Repository, cache Cache, ttl time.Duration) *TimelineBuilder {
	if ttl <= 0 {
		ttl = DefaultRealityTTL
	}
	return &TimelineBuilder{
		ledgerRepo: ledgerRepo,
		cache:      cache,
		ttl:        ttl,
		now:        time.Now,
	}
}

// BuildReality returns the last RealityWindowMonths months of revenue and
// expenses, oldest first, with balances folded from zero. Months with no
// activity still appear as zero points so the window length is stable.
// Transfers move money between own accounts and are excluded.
func (b *TimelineBuilder) BuildReality(ctx context.Context, businessID string) ([]TimelinePoint, error) {
	key := realityKey(businessID)
	if b.cache != nil {
		if raw, ok, err := b.cache.Get(ctx, key); err == nil && ok {
			var points []TimelinePoint
			if err := json.Unmarshal(raw, &points); err == nil && len(points) == RealityWindowMonths {
				return points, nil
			}
			// stale or unreadable entry, rebuild below
		}
	}

	now := b.now().UTC()
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	points := make([]TimelinePoint, RealityWindowMonths)
	index := make(map[string]int, RealityWindowMonths)
	for i := 0; i < RealityWindowMonths; i++ {
		month := anchor.AddDate(0, i-(RealityWindowMonths-1), 0).Format("2006-01")
		points[i] = TimelinePoint{Month: month}
		index[month] = i
	}

	filter := &ledger.TransactionFilter{
		StartDate:     points[0].Month + "-01",
		EndDate:       now.Format("2006-01-02"),
		SortAscending: true,
	}
	transactions, err := b.ledgerRepo.GetTransactions(ctx, businessID, filter)
	if err != nil {
		return nil, err
	}

	for _, tx := range transactions {
		if len(tx.Date) < 7 {
			continue
		}
		i, ok := index[tx.Date[:7]]
		if !ok {
			continue
		}
		switch tx.Type {
		case ledger.Income:
			points[i].Revenue = points[i].Revenue.Add(tx.Amount)
		case ledger.Expense:
			points[i].Expenses = points[i].Expenses.Add(tx.Amount)
		}
	}

	RefoldBalances(points)

	if b.cache != nil {
		if raw, err := json.Marshal(points); err == nil {
			// best effort: a failed cache write never fails the build
			_ = b.cache.SetWithTTL(ctx, key, raw, b.ttl)
		}
	}
	return points, nil
}

func realityKey(businessID string) string {
	return "sim:reality:" + businessID
}
