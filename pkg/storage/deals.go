package storage

import (
	"context"
	"time"

	"github.com/agrimandi/dealflow/pkg/models"
)

// DealReader defines the interface for reading deal data.
type DealReader interface {
	// GetDeal retrieves a deal by its ID.
	GetDeal(ctx context.Context, dealID string) (*models.Deal, error)

	// ListDealsByBuyerID retrieves all deals where the user is the buyer.
	ListDealsByBuyerID(ctx context.Context, userID string) ([]models.Deal, error)

	// ListDealsBySellerID retrieves all deals where the user is the seller.
	ListDealsBySellerID(ctx context.Context, userID string) ([]models.Deal, error)

	// GetStuckDeals retrieves deals sitting in the given status for longer
	// than maxAge. Used by the reconciliation sweep.
	GetStuckDeals(ctx context.Context, status models.DealStatus, maxAge time.Duration) ([]models.Deal, error)
}

// DealWriter defines the interface for creating and mutating deals.
// UpdateDealStatus is the only write path for Deal.Status.
type DealWriter interface {
	// CreateDeal persists a new deal.
	CreateDeal(ctx context.Context, deal *models.Deal) error

	// UpdateDealStatus persists a status change together with its
	// status-specific timestamp. The write is conditional on the stored
	// status still being expectedCurrent.
	UpdateDealStatus(ctx context.Context, dealID string, expectedCurrent, next models.DealStatus, at time.Time) error

	// UpdateDealConfirmation persists confirmation metadata without
	// touching the status.
	UpdateDealConfirmation(ctx context.Context, dealID string, confirmation *models.DealConfirmation) error

	// UpdateDealCompletion persists completion metadata.
	UpdateDealCompletion(ctx context.Context, dealID string, completion *models.CompletionData) error
}

// DealStore combines the reader and writer interfaces.
type DealStore interface {
	DealReader
	DealWriter
}
