package completion

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/agrimandi/dealflow/pkg/queue"
)

func newAction(actionType queue.ActionType, dealID, target string, payload any) (queue.Action, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return queue.Action{}, err
	}
	return queue.Action{
		ID:             uuid.New().String(),
		Type:           actionType,
		DealID:         dealID,
		IdempotencyKey: queue.IdempotencyKey(dealID, actionType, target),
		Payload:        body,
		Timestamp:      time.Now(),
	}, nil
}
