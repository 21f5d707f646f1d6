package deals

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agrimandi/dealflow/pkg/cache"
	"github.com/agrimandi/dealflow/pkg/gateway"
	"github.com/agrimandi/dealflow/pkg/models"
	"github.com/agrimandi/dealflow/pkg/queue"
)

// paymentAmount computes what is due right now for the deal: the advance
// for partial schedules, otherwise the full value plus the delivery cost
// when the buyer bears it.
func paymentAmount(deal *models.Deal) float64 {
	if deal.Payment.Schedule == models.SchedulePartial && deal.Payment.AdvanceAmount != nil {
		return *deal.Payment.AdvanceAmount
	}
	amount := deal.TotalValue()
	if deal.Delivery.Responsibility == models.ResponsibilityBuyer {
		amount += deal.Delivery.Cost
	}
	return amount
}

// InitializePayment attempts the payment for an agreed deal. It never
// returns a domain error for a failed charge: outcomes, including offline
// queueing, are reported through the result. Only a missing deal surfaces
// as an error.
func (s *Service) InitializePayment(ctx context.Context, dealID string, method models.PaymentMethod) (*models.PaymentResult, error) {
	deal, err := s.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	amount := paymentAmount(deal)

	if _, ok := models.ValidPaymentMethods[method]; !ok {
		return &models.PaymentResult{
			Success:   false,
			Amount:    amount,
			Method:    method,
			Timestamp: now,
			Error:     fmt.Sprintf("Unsupported payment method: %s", method),
		}, nil
	}

	if deal.Status != models.StatusAgreed {
		return &models.PaymentResult{
			Success:   false,
			Amount:    amount,
			Method:    method,
			Timestamp: now,
			Error:     fmt.Sprintf("Cannot process payment for deal with status: %s", deal.Status),
		}, nil
	}

	if !s.online(ctx) {
		s.enqueue(ctx, queue.ActionPayment, dealID, string(method), gateway.PaymentRequest{
			DealID:   dealID,
			Amount:   amount,
			Method:   method,
			BuyerID:  deal.BuyerId,
			SellerID: deal.SellerId,
		})
		return &models.PaymentResult{
			Success:   false,
			Amount:    amount,
			Method:    method,
			Timestamp: now,
			Error:     "Payment queued for processing when online",
			Queued:    true,
		}, nil
	}

	gatewayCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	result, gatewayErr := s.gateway.ProcessPayment(gatewayCtx, gateway.PaymentRequest{
		DealID:   dealID,
		Amount:   amount,
		Method:   method,
		BuyerID:  deal.BuyerId,
		SellerID: deal.SellerId,
	})
	if gatewayErr != nil {
		result = &models.PaymentResult{
			Success:   false,
			Amount:    amount,
			Method:    method,
			Timestamp: time.Now(),
			Error:     gatewayErr.Error(),
		}
	}
	if result.Timestamp.IsZero() {
		result.Timestamp = time.Now()
	}

	s.recordPayment(ctx, dealID, result)

	if result.Success {
		if _, err := s.UpdateDealStatus(ctx, dealID, models.StatusPaid); err != nil {
			// Money moved but the transition lost. Surface the paid
			// result; reconciliation picks the deal up later.
			s.logger.ErrorContext(ctx, "paid deal failed to transition",
				"deal_id", dealID, "transaction_id", result.TransactionId, "error", err)
		}
	}

	return result, nil
}

// recordPayment appends the attempt to the transaction log and refreshes
// the cached history. Log failures never fail the payment.
func (s *Service) recordPayment(ctx context.Context, dealID string, result *models.PaymentResult) {
	record := &models.PaymentRecord{
		Id:            uuid.New().String(),
		DealId:        dealID,
		Success:       result.Success,
		Amount:        result.Amount,
		Method:        result.Method,
		TransactionId: result.TransactionId,
		Error:         result.Error,
		Timestamp:     result.Timestamp,
	}
	if err := s.payments.RecordPayment(ctx, record); err != nil {
		s.logger.ErrorContext(ctx, "failed to record payment attempt",
			"deal_id", dealID, "transaction_id", result.TransactionId, "error", err)
		return
	}
	if history, err := s.payments.ListPaymentsByDealID(ctx, dealID); err == nil {
		s.cachePut(ctx, cache.PaymentHistoryKey(dealID), history, dealCacheTTL)
	}
}

// PaymentHistory returns the attempts logged for a deal, newest first. It
// is cache-first and degrades to an empty history rather than failing.
func (s *Service) PaymentHistory(ctx context.Context, dealID string) []models.PaymentRecord {
	key := cache.PaymentHistoryKey(dealID)

	var cached []models.PaymentRecord
	if s.cacheGet(ctx, key, &cached) {
		return cached
	}
	if !s.online(ctx) {
		return cached
	}

	history, err := s.payments.ListPaymentsByDealID(ctx, dealID)
	if err != nil {
		s.logger.WarnContext(ctx, "payment history unavailable", "deal_id", dealID, "error", err)
		return []models.PaymentRecord{}
	}
	s.cachePut(ctx, key, history, dealCacheTTL)
	return history
}
