package events

import (
	"context"
)

// Type identifies a domain event emitted by the deal engine.
type Type string

const (
	TypeStatusChanged    Type = "deal.status_changed"
	TypeDisputeOpened    Type = "dispute.opened"
	TypeDealCompleted    Type = "deal.completed"
	TypeRatingSubmitted  Type = "rating.submitted"
	TypeTrustScoreUpdate Type = "trust_score.update"
	TypeDealStats        Type = "deal.stats_update"
)

// Event is a fire-and-forget notification about a primary state change.
// Emission failures must never roll back the write that produced the event.
type Event struct {
	Type    Type           `json:"type"`
	DealID  string         `json:"deal_id"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Emitter defines the interface for publishing domain events to the
// notification, trust-score and statistics collaborators.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}
