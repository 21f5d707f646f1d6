package deals

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agrimandi/dealflow/pkg/cache"
	"github.com/agrimandi/dealflow/pkg/events"
	"github.com/agrimandi/dealflow/pkg/models"
	"github.com/agrimandi/dealflow/pkg/queue"
)

// RaiseDisputeInput carries the grievance a participant files against a
// deal.
type RaiseDisputeInput struct {
	Reason      string
	Description string
}

// disputableStatuses are the statuses a dispute may be raised from.
var disputableStatuses = map[models.DealStatus]struct{}{
	models.StatusAgreed:    {},
	models.StatusPaid:      {},
	models.StatusDelivered: {},
}

// RaiseDispute files a dispute on behalf of a deal participant and drives
// the deal to disputed. Offline, both the dispute record and the status
// change are queued for replay.
func (s *Service) RaiseDispute(ctx context.Context, dealID string, in RaiseDisputeInput, actor Actor) (*models.Dispute, error) {
	if in.Reason == "" {
		return nil, ErrDisputeReasonRequired
	}

	deal, err := s.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if !deal.IsParticipant(actor.UserID) {
		return nil, ErrNotParticipant
	}
	if _, ok := disputableStatuses[deal.Status]; !ok {
		return nil, statusError("Cannot raise dispute for deal with status", deal.Status)
	}

	dispute := &models.Dispute{
		Id:          uuid.New().String(),
		DealId:      dealID,
		RaisedBy:    actor.UserID,
		Reason:      in.Reason,
		Description: in.Description,
		Status:      models.DisputeOpen,
		CreatedAt:   time.Now(),
	}

	if s.online(ctx) {
		if err := s.disputes.CreateDispute(ctx, dispute); err != nil {
			return nil, err
		}
	} else {
		s.enqueue(ctx, queue.ActionRaiseDispute, dealID, actor.UserID, dispute)
	}

	s.cachePut(ctx, cache.DisputeKey(dispute.Id), dispute, dealCacheTTL)

	if _, err := s.UpdateDealStatus(ctx, dealID, models.StatusDisputed); err != nil {
		// The dispute record exists either way; the transition is retried
		// by reconciliation.
		s.logger.ErrorContext(ctx, "dispute filed but deal failed to transition",
			"deal_id", dealID, "dispute_id", dispute.Id, "error", err)
	}

	s.emit(ctx, events.Event{
		Type:   events.TypeDisputeOpened,
		DealID: dealID,
		Payload: map[string]any{
			"dispute_id": dispute.Id,
			"raised_by":  dispute.RaisedBy,
			"reason":     dispute.Reason,
		},
	})

	return dispute, nil
}

// ListDisputes returns the disputes filed against a deal, newest first.
func (s *Service) ListDisputes(ctx context.Context, dealID string) ([]models.Dispute, error) {
	return s.disputes.ListDisputesByDealID(ctx, dealID)
}
