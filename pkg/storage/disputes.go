package storage

import (
	"context"

	"github.com/agrimandi/dealflow/pkg/models"
)

// DisputeStore defines the interface for persisting disputes.
type DisputeStore interface {
	// CreateDispute persists a new dispute against a deal.
	CreateDispute(ctx context.Context, dispute *models.Dispute) error

	// ListDisputesByDealID retrieves the disputes raised against a deal,
	// most recent first.
	ListDisputesByDealID(ctx context.Context, dealID string) ([]models.Dispute, error)
}

// ResolutionStore defines the interface for persisting generated dispute
// resolution workflows.
type ResolutionStore interface {
	// CreateResolution persists a generated resolution workflow.
	CreateResolution(ctx context.Context, workflow *models.ResolutionWorkflow) error
}
