package deals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agrimandi/dealflow/pkg/cache"
	"github.com/agrimandi/dealflow/pkg/events"
	"github.com/agrimandi/dealflow/pkg/models"
	"github.com/agrimandi/dealflow/pkg/queue"
	"github.com/agrimandi/dealflow/pkg/storage"
)

// StatusError reports an operation attempted against a deal whose current
// status does not allow it.
type StatusError struct {
	Op     string
	Status models.DealStatus
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Status)
}

func statusError(op string, status models.DealStatus) error {
	return &StatusError{Op: op, Status: status}
}

// UpdateDealStatus drives a deal to the next status. Transitions are
// validated against the lifecycle table and serialized per deal, so two
// concurrent updates cannot both observe the same current status.
func (s *Service) UpdateDealStatus(ctx context.Context, dealID string, next models.DealStatus) (*models.Deal, error) {
	unlock := s.locks.lock(dealID)
	defer unlock()

	deal, err := s.GetDeal(ctx, dealID)
	if err != nil {
		if errors.Is(err, storage.ErrDealNotFound) {
			return nil, storage.ErrDealNotFound
		}
		return nil, err
	}

	if err := models.ValidateTransition(deal.Status, next); err != nil {
		return nil, err
	}

	now := time.Now()
	previous := deal.Status

	if s.online(ctx) {
		if err := s.deals.UpdateDealStatus(ctx, dealID, previous, next, now); err != nil {
			return nil, err
		}
	} else {
		s.enqueue(ctx, queue.ActionUpdateStatus, dealID, string(next), statusChange{
			DealID:   dealID,
			Expected: previous,
			Next:     next,
			At:       now,
		})
	}

	deal.Status = next
	deal.UpdatedAt = now
	if ts := deal.StatusTimestamp(next); ts != nil {
		at := now
		*ts = &at
	}

	s.cachePut(ctx, cache.DealKey(dealID), deal, dealCacheTTL)
	s.subs.notify(deal)
	s.emit(ctx, events.Event{
		Type:   events.TypeStatusChanged,
		DealID: dealID,
		Payload: map[string]any{
			"previous": string(previous),
			"status":   string(next),
		},
	})

	return deal, nil
}

// statusChange is the replay payload of a deferred status transition.
type statusChange struct {
	DealID   string            `json:"deal_id"`
	Expected models.DealStatus `json:"expected"`
	Next     models.DealStatus `json:"next"`
	At       time.Time         `json:"at"`
}
