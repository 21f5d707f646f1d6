package completion

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agrimandi/dealflow/pkg/models"
	"github.com/agrimandi/dealflow/pkg/queue"
)

// ApplyAction replays a queued rating or prompt action. Ratings already on
// record are skipped so redelivery cannot double-rate a deal.
func (m *Manager) ApplyAction(ctx context.Context, action queue.Action) error {
	switch action.Type {
	case queue.ActionSubmitRating:
		var feedback models.Feedback
		if err := json.Unmarshal(action.Payload, &feedback); err != nil {
			return fmt.Errorf("failed to unmarshal queued rating: %w", err)
		}
		existing, err := m.feedback.GetFeedbackByDealAndRater(ctx, feedback.DealId, feedback.FromUserId)
		if err != nil {
			return err
		}
		if existing != nil {
			m.logger.InfoContext(ctx, "skipping already recorded rating",
				"deal_id", feedback.DealId, "from_user_id", feedback.FromUserId)
			return nil
		}
		return m.feedback.CreateFeedback(ctx, &feedback)

	case queue.ActionCreatePrompt:
		var prompt models.Prompt
		if err := json.Unmarshal(action.Payload, &prompt); err != nil {
			return fmt.Errorf("failed to unmarshal queued prompt: %w", err)
		}
		return m.prompts.CreatePrompt(ctx, &prompt)

	default:
		m.logger.WarnContext(ctx, "unknown queued action type, skipping",
			"type", string(action.Type), "deal_id", action.DealID)
		return nil
	}
}
