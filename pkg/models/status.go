package models

import (
	"fmt"
	"time"
)

// DealStatus defines the lifecycle states of a deal.
type DealStatus string

const (
	StatusDraft       DealStatus = "draft"
	StatusActive      DealStatus = "active"
	StatusNegotiating DealStatus = "negotiating"
	StatusAgreed      DealStatus = "agreed"
	StatusPaid        DealStatus = "paid"
	StatusDelivered   DealStatus = "delivered"
	StatusCompleted   DealStatus = "completed"
	StatusDisputed    DealStatus = "disputed"
	StatusCancelled   DealStatus = "cancelled"
)

// dealTransitions is the full transition table. Completed and cancelled are
// terminal. Deals are created directly in agreed; the draft and active paths
// exist for deals imported from pre-negotiation flows.
var dealTransitions = map[DealStatus][]DealStatus{
	StatusDraft:       {StatusActive, StatusCancelled},
	StatusActive:      {StatusNegotiating, StatusAgreed, StatusCancelled},
	StatusNegotiating: {StatusAgreed, StatusCancelled},
	StatusAgreed:      {StatusPaid, StatusDisputed, StatusCancelled},
	StatusPaid:        {StatusDelivered, StatusDisputed},
	StatusDelivered:   {StatusCompleted, StatusDisputed},
	StatusDisputed:    {StatusCompleted, StatusCancelled},
	StatusCompleted:   {},
	StatusCancelled:   {},
}

// InvalidTransitionError reports a transition not present in the table.
type InvalidTransitionError struct {
	From DealStatus
	To   DealStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("Invalid status transition from %s to %s", e.From, e.To)
}

// CanTransition reports whether the transition from -> to is legal.
func CanTransition(from, to DealStatus) bool {
	for _, next := range dealTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns an InvalidTransitionError when from -> to is
// not in the transition table.
func ValidateTransition(from, to DealStatus) error {
	if !CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// IsTerminal reports whether status has no outgoing transitions.
func (s DealStatus) IsTerminal() bool {
	return len(dealTransitions[s]) == 0
}

// StatusTimestamp returns a pointer to the deal field that records when the
// given status was reached, or nil when the status carries no timestamp.
func (d *Deal) StatusTimestamp(status DealStatus) **time.Time {
	switch status {
	case StatusPaid:
		return &d.PaymentCompletedAt
	case StatusDelivered:
		return &d.DeliveredAt
	case StatusCompleted:
		return &d.CompletedAt
	case StatusCancelled:
		return &d.CancelledAt
	case StatusDisputed:
		return &d.DisputedAt
	}
	return nil
}
