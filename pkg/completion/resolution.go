package completion

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agrimandi/dealflow/pkg/models"
)

// resolutionTemplates maps each dispute category to its fixed three-step
// workflow. Unknown categories fall back to the "other" template.
var resolutionTemplates = map[models.DisputeType]struct {
	steps     []models.ResolutionStep
	estimated string
}{
	models.DisputeTypeQuality: {
		steps: []models.ResolutionStep{
			{Step: 1, Description: "Buyer submits photo and sample evidence of the quality issue", Timeframe: "24 hours", Responsible: "buyer"},
			{Step: 2, Description: "Seller responds to the evidence with acceptance or counter-evidence", Timeframe: "48 hours", Responsible: "seller"},
			{Step: 3, Description: "Admin mediates and decides on price adjustment or return", Timeframe: "72 hours", Responsible: "admin"},
		},
		estimated: "5-7 business days",
	},
	models.DisputeTypeDelivery: {
		steps: []models.ResolutionStep{
			{Step: 1, Description: "Admin verifies delivery status with the logistics provider", Timeframe: "12 hours", Responsible: "admin"},
			{Step: 2, Description: "Seller contacts the logistics provider to locate the shipment", Timeframe: "24 hours", Responsible: "seller"},
			{Step: 3, Description: "Admin arranges redelivery or refund", Timeframe: "48 hours", Responsible: "admin"},
		},
		estimated: "3-5 business days",
	},
	models.DisputeTypePayment: {
		steps: []models.ResolutionStep{
			{Step: 1, Description: "Admin verifies payment records against the transaction log", Timeframe: "24 hours", Responsible: "admin"},
			{Step: 2, Description: "Payment processor investigates the disputed transaction", Timeframe: "48 hours", Responsible: "admin"},
			{Step: 3, Description: "Admin issues refund or payment correction", Timeframe: "72 hours", Responsible: "admin"},
		},
		estimated: "7-10 business days",
	},
	models.DisputeTypeOther: {
		steps: []models.ResolutionStep{
			{Step: 1, Description: "Buyer provides a detailed explanation of the issue", Timeframe: "48 hours", Responsible: "buyer"},
			{Step: 2, Description: "Admin reviews the deal history and both parties' accounts", Timeframe: "72 hours", Responsible: "admin"},
			{Step: 3, Description: "Admin issues a binding decision", Timeframe: "96 hours", Responsible: "admin"},
		},
		estimated: "7-14 business days",
	},
}

// CreateDisputeResolutionMechanism generates and persists the resolution
// workflow for a dispute category. The workflow is a template: tracking
// step completion is up to the admin tooling.
func (m *Manager) CreateDisputeResolutionMechanism(ctx context.Context, dealID string, disputeType models.DisputeType) (*models.ResolutionWorkflow, error) {
	template, ok := resolutionTemplates[disputeType]
	if !ok {
		disputeType = models.DisputeTypeOther
		template = resolutionTemplates[models.DisputeTypeOther]
	}

	steps := make([]models.ResolutionStep, len(template.steps))
	copy(steps, template.steps)

	workflow := &models.ResolutionWorkflow{
		ResolutionId:            uuid.New().String(),
		DealId:                  dealID,
		DisputeType:             disputeType,
		Steps:                   steps,
		EstimatedResolutionTime: template.estimated,
		CreatedAt:               time.Now(),
	}

	if err := m.resolutions.CreateResolution(ctx, workflow); err != nil {
		return nil, err
	}

	return workflow, nil
}
