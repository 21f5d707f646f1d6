package tracking

import (
	"context"

	"github.com/agrimandi/dealflow/pkg/models"
)

// DeliveryTracker defines the interface to the external delivery tracking
// collaborator. Failures are absorbed by the caller, which synthesizes a
// fallback status from the deal itself.
type DeliveryTracker interface {
	// Track returns the current delivery status of a deal.
	Track(ctx context.Context, dealID string) (*models.DeliveryStatus, error)
}
