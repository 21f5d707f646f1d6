package deals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/agrimandi/dealflow/pkg/gateway"
	"github.com/agrimandi/dealflow/pkg/models"
	"github.com/agrimandi/dealflow/pkg/queue"
	"github.com/agrimandi/dealflow/pkg/storage"
)

const appliedMarkerTTL = 7 * 24 * time.Hour

// ApplyAction replays a queued deal action after connectivity returns.
// Replay is at-least-once: the idempotency marker plus conditional store
// writes keep a redelivered action from double-applying.
func (s *Service) ApplyAction(ctx context.Context, action queue.Action) error {
	markerKey := "action:" + action.IdempotencyKey
	var applied bool
	if s.cacheGet(ctx, markerKey, &applied) && applied {
		s.logger.InfoContext(ctx, "skipping already applied action",
			"type", string(action.Type), "deal_id", action.DealID)
		return nil
	}

	switch action.Type {
	case queue.ActionCreateDeal:
		var deal models.Deal
		if err := json.Unmarshal(action.Payload, &deal); err != nil {
			return fmt.Errorf("failed to unmarshal queued deal: %w", err)
		}
		if err := s.deals.CreateDeal(ctx, &deal); err != nil && !errors.Is(err, storage.ErrDealExists) {
			return err
		}

	case queue.ActionUpdateStatus:
		var change statusChange
		if err := json.Unmarshal(action.Payload, &change); err != nil {
			return fmt.Errorf("failed to unmarshal queued status change: %w", err)
		}
		err := s.deals.UpdateDealStatus(ctx, change.DealID, change.Expected, change.Next, change.At)
		// A lost conditional write means the transition already landed.
		if err != nil && !errors.Is(err, storage.ErrStaleDeal) {
			return err
		}

	case queue.ActionPayment:
		var req gateway.PaymentRequest
		if err := json.Unmarshal(action.Payload, &req); err != nil {
			return fmt.Errorf("failed to unmarshal queued payment: %w", err)
		}
		result, err := s.InitializePayment(ctx, req.DealID, req.Method)
		if err != nil {
			return err
		}
		if !result.Success {
			s.logger.WarnContext(ctx, "replayed payment did not succeed",
				"deal_id", req.DealID, "error", result.Error)
		}

	case queue.ActionRaiseDispute:
		var dispute models.Dispute
		if err := json.Unmarshal(action.Payload, &dispute); err != nil {
			return fmt.Errorf("failed to unmarshal queued dispute: %w", err)
		}
		if err := s.disputes.CreateDispute(ctx, &dispute); err != nil {
			return err
		}

	default:
		s.logger.WarnContext(ctx, "unknown queued action type, skipping",
			"type", string(action.Type), "deal_id", action.DealID)
		return nil
	}

	s.cachePut(ctx, markerKey, true, appliedMarkerTTL)
	return nil
}
