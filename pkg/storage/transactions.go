package storage

import (
	"context"

	"github.com/agrimandi/dealflow/pkg/models"
)

// PaymentLogStore defines the interface for the append-only payment
// transaction log. Failures land in the same log, discriminated by the
// record's Success field.
type PaymentLogStore interface {
	// RecordPayment appends a payment attempt record.
	RecordPayment(ctx context.Context, record *models.PaymentRecord) error

	// ListPaymentsByDealID retrieves the payment attempts for a deal,
	// ordered by timestamp descending.
	ListPaymentsByDealID(ctx context.Context, dealID string) ([]models.PaymentRecord, error)
}
