package deals

import (
	"context"
	"encoding/json"
	"time"

	"github.com/agrimandi/dealflow/pkg/cache"
	"github.com/agrimandi/dealflow/pkg/models"
)

// TrackDelivery returns the delivery status of a paid or delivered deal.
// Once past the status precondition it never fails: tracker outages fall
// back to a status synthesized from the deal itself, and offline reads
// serve the cache regardless of age.
func (s *Service) TrackDelivery(ctx context.Context, dealID string) (*models.DeliveryStatus, error) {
	deal, err := s.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if deal.Status != models.StatusPaid && deal.Status != models.StatusDelivered {
		return nil, statusError("Cannot track delivery for deal with status", deal.Status)
	}

	key := cache.DeliveryKey(dealID)
	now := time.Now()

	if entry := s.cacheEntry(ctx, key); entry != nil {
		fresh := entry.Age(now) < deliveryFreshness
		if fresh || !s.online(ctx) {
			var status models.DeliveryStatus
			if err := json.Unmarshal(entry.Value, &status); err == nil {
				return &status, nil
			}
		}
	}

	if !s.online(ctx) {
		status := synthesizeDeliveryStatus(deal, now)
		s.cachePut(ctx, key, status, deliveryCacheTTL)
		return status, nil
	}

	status, trackErr := s.tracker.Track(ctx, dealID)
	if trackErr != nil || status == nil {
		if trackErr != nil {
			s.logger.WarnContext(ctx, "delivery tracker unavailable, synthesizing status",
				"deal_id", dealID, "error", trackErr)
		}
		status = synthesizeDeliveryStatus(deal, now)
	}

	s.cachePut(ctx, key, status, deliveryCacheTTL)
	return status, nil
}

// synthesizeDeliveryStatus derives a coarse delivery state from the deal
// when no tracking data is available.
func synthesizeDeliveryStatus(deal *models.Deal, now time.Time) *models.DeliveryStatus {
	var state models.DeliveryState
	switch {
	case deal.Status == models.StatusDelivered:
		state = models.DeliveryDelivered
	case now.After(deal.Delivery.ExpectedDate):
		state = models.DeliveryDelayed
	case deal.Status == models.StatusPaid:
		state = models.DeliveryInTransit
	default:
		state = models.DeliveryPending
	}

	expected := deal.Delivery.ExpectedDate
	return &models.DeliveryStatus{
		DealId:            deal.Id,
		Status:            state,
		EstimatedDelivery: &expected,
		Updates: []models.DeliveryUpdate{
			{Status: state, Timestamp: now},
		},
	}
}
