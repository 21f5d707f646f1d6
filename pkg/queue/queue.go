package queue

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ActionType identifies a deferred mutating operation.
type ActionType string

const (
	ActionCreateDeal   ActionType = "create_deal"
	ActionUpdateStatus ActionType = "update_status"
	ActionPayment      ActionType = "payment"
	ActionRaiseDispute ActionType = "raise_dispute"
	ActionSubmitRating ActionType = "submit_rating"
	ActionCreatePrompt ActionType = "create_prompt"
)

// Action is a mutating operation recorded while disconnected, replayed with
// at-least-once semantics once connectivity returns. The idempotency key
// lets the replayer skip actions that already applied.
type Action struct {
	ID             string     `json:"id"`
	Type           ActionType `json:"type"`
	DealID         string     `json:"deal_id"`
	IdempotencyKey string     `json:"idempotency_key"`
	Payload        []byte     `json:"payload"`
	Timestamp      time.Time  `json:"timestamp"`
	RetryCount     int        `json:"retry_count"`
}

// IdempotencyKey derives a deterministic key from the deal, the action type
// and the intended target, so replay after reconnection cannot double-apply
// a transition.
func IdempotencyKey(dealID string, actionType ActionType, target string) string {
	sum := sha256.Sum256([]byte(dealID + "|" + string(actionType) + "|" + target))
	return hex.EncodeToString(sum[:])
}

// ActionQueue defines the interface for the offline action queue.
type ActionQueue interface {
	// Enqueue records an action for asynchronous replay.
	Enqueue(ctx context.Context, action Action) error
}
