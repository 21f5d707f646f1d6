package payments

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/agrimandi/dealflow/pkg/models"
)

const maxRetryAttempts = 3

// DealPayments is the slice of the deal service the processor drives:
// single payment attempts and the attempt log.
type DealPayments interface {
	// InitializePayment attempts a single payment for a deal.
	InitializePayment(ctx context.Context, dealID string, method models.PaymentMethod) (*models.PaymentResult, error)

	// PaymentHistory returns the logged attempts for a deal, newest first.
	PaymentHistory(ctx context.Context, dealID string) []models.PaymentRecord
}

// Processor layers fallback chains and bounded retries over single payment
// attempts. Retry counts are per deal and live with the processor instance.
type Processor struct {
	deals  DealPayments
	logger *slog.Logger

	mu      sync.Mutex
	retries map[string]int
}

// NewProcessor creates a Processor. Logger may be nil.
func NewProcessor(deals DealPayments, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		deals:   deals,
		logger:  logger,
		retries: make(map[string]int),
	}
}

// ProcessMultiplePaymentMethods tries each method in order and returns the
// first success. When every method fails the aggregate failure reports the
// primary method and the last error seen. A queued result short-circuits
// the chain: the process is offline and further attempts would queue too.
func (p *Processor) ProcessMultiplePaymentMethods(ctx context.Context, dealID string, methods []models.PaymentMethod) (*models.PaymentResult, error) {
	if len(methods) == 0 {
		return &models.PaymentResult{
			Success:   false,
			Timestamp: time.Now(),
			Error:     "No payment methods provided",
		}, nil
	}

	lastErr := ""
	for _, method := range methods {
		result, err := p.deals.InitializePayment(ctx, dealID, method)
		if err != nil {
			// An errored attempt counts as a failed method, not a
			// failed chain. Fall through to the next method.
			result = &models.PaymentResult{
				Success:   false,
				Method:    method,
				Timestamp: time.Now(),
				Error:     err.Error(),
			}
		}
		if result.Success || result.Queued {
			return result, nil
		}
		lastErr = result.Error
		p.logger.InfoContext(ctx, "payment method failed, falling back",
			"deal_id", dealID, "method", string(method), "error", result.Error)
	}

	return &models.PaymentResult{
		Success:   false,
		Method:    methods[0],
		Timestamp: time.Now(),
		Error:     fmt.Sprintf("All payment methods failed. Last error: %s", lastErr),
	}, nil
}

// RetryFailedPayment re-attempts a payment for a deal, allowing at most
// three retries per deal. A successful attempt resets the counter.
func (p *Processor) RetryFailedPayment(ctx context.Context, dealID string, method models.PaymentMethod) (*models.PaymentResult, error) {
	p.mu.Lock()
	attempts := p.retries[dealID]
	if attempts >= maxRetryAttempts {
		p.mu.Unlock()
		return &models.PaymentResult{
			Success:   false,
			Method:    method,
			Timestamp: time.Now(),
			Error:     "Maximum retry attempts exceeded",
		}, nil
	}
	p.retries[dealID] = attempts + 1
	p.mu.Unlock()

	result, err := p.deals.InitializePayment(ctx, dealID, method)
	if err != nil {
		return nil, err
	}
	if result.Success {
		p.mu.Lock()
		delete(p.retries, dealID)
		p.mu.Unlock()
	}
	return result, nil
}

// GetPaymentHistory returns the attempt log for a deal, newest first. It
// never fails; an unreachable log reads as empty.
func (p *Processor) GetPaymentHistory(ctx context.Context, dealID string) []models.PaymentRecord {
	return p.deals.PaymentHistory(ctx, dealID)
}
