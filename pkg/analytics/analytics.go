package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/agrimandi/dealflow/pkg/models"
	"github.com/agrimandi/dealflow/pkg/storage"
)

// Summary aggregates a user's deal history for their dashboard.
type Summary struct {
	Total             int                       `json:"total"`
	ByStatus          map[models.DealStatus]int `json:"by_status"`
	CompletionRate    float64                   `json:"completion_rate"`
	AvgCompletionTime time.Duration             `json:"avg_completion_time"`
	CompletedValue    float64                   `json:"completed_value"`
}

// Reporter computes deal statistics straight from the store. Reports are
// read-only and never block the deal lifecycle.
type Reporter struct {
	deals  storage.DealReader
	logger *slog.Logger
}

// NewReporter creates a Reporter. Logger may be nil.
func NewReporter(deals storage.DealReader, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{deals: deals, logger: logger}
}

// DealDuration returns how long a deal took from creation to completion.
// The second return value is false for deals not yet completed.
func DealDuration(deal *models.Deal) (time.Duration, bool) {
	if deal.Status != models.StatusCompleted || deal.CompletedAt == nil {
		return 0, false
	}
	return deal.CompletedAt.Sub(deal.CreatedAt), true
}

// UserDealSummary aggregates every deal the user participates in.
func (r *Reporter) UserDealSummary(ctx context.Context, userID string) (*Summary, error) {
	asBuyer, err := r.deals.ListDealsByBuyerID(ctx, userID)
	if err != nil {
		return nil, err
	}
	asSeller, err := r.deals.ListDealsBySellerID(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(asBuyer)+len(asSeller))
	summary := &Summary{ByStatus: make(map[models.DealStatus]int)}

	var totalCompletionTime time.Duration
	completed := 0
	closed := 0

	for _, deal := range append(asBuyer, asSeller...) {
		if _, dup := seen[deal.Id]; dup {
			continue
		}
		seen[deal.Id] = struct{}{}

		summary.Total++
		summary.ByStatus[deal.Status]++

		if deal.Status.IsTerminal() {
			closed++
		}
		if duration, ok := DealDuration(&deal); ok {
			completed++
			totalCompletionTime += duration
			summary.CompletedValue += deal.TotalValue()
		} else if deal.Status == models.StatusCompleted {
			// Completed without a timestamp, from a pre-migration record.
			completed++
			summary.CompletedValue += deal.TotalValue()
		}
	}

	if closed > 0 {
		summary.CompletionRate = float64(summary.ByStatus[models.StatusCompleted]) / float64(closed)
	}
	if completed > 0 {
		summary.AvgCompletionTime = totalCompletionTime / time.Duration(completed)
	}

	return summary, nil
}
