package gateway

import (
	"context"

	"github.com/agrimandi/dealflow/pkg/models"
)

// PaymentRequest carries everything the remote gateway needs to move money
// for a deal.
type PaymentRequest struct {
	DealID   string               `json:"deal_id"`
	Amount   float64              `json:"amount"`
	Method   models.PaymentMethod `json:"method"`
	BuyerID  string               `json:"buyer_id"`
	SellerID string               `json:"seller_id"`
	Metadata map[string]string    `json:"metadata,omitempty"`
}

// PaymentGateway defines the interface to the remote payment processor.
// Callers bound the call with a context deadline; the gateway may return an
// error (treated as a soft failure) or a result with Success=false.
type PaymentGateway interface {
	// ProcessPayment attempts to move money for a deal.
	ProcessPayment(ctx context.Context, req PaymentRequest) (*models.PaymentResult, error)
}
