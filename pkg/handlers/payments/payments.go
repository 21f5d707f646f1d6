package payments

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agrimandi/dealflow/pkg/models"
	"github.com/agrimandi/dealflow/pkg/payments"
	"github.com/agrimandi/dealflow/pkg/storage"
)

// PaymentsHandler holds the dependencies for payment handlers.
type PaymentsHandler struct {
	Processor *payments.Processor
}

// NewPaymentsHandler creates a new PaymentsHandler.
func NewPaymentsHandler(processor *payments.Processor) *PaymentsHandler {
	return &PaymentsHandler{Processor: processor}
}

// PaymentRequest is the payload for initiating a payment. Methods are tried
// in order; a single-method payment lists one.
type PaymentRequest struct {
	Methods []models.PaymentMethod `json:"methods"`
}

// ProcessPayment handles a payment attempt with ordered fallback methods.
func (h *PaymentsHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.Processor.ProcessMultiplePaymentMethods(r.Context(), chi.URLParam(r, "dealID"), req.Methods)
	if err != nil {
		if errors.Is(err, storage.ErrDealNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to process payment: %v", err), http.StatusInternalServerError)
		}
		return
	}

	// Failed attempts are results, not errors; the caller reads Success.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// RetryRequest is the payload for retrying a failed payment.
type RetryRequest struct {
	Method models.PaymentMethod `json:"method"`
}

// RetryPayment handles a bounded retry of a failed payment.
func (h *PaymentsHandler) RetryPayment(w http.ResponseWriter, r *http.Request) {
	var req RetryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.Processor.RetryFailedPayment(r.Context(), chi.URLParam(r, "dealID"), req.Method)
	if err != nil {
		if errors.Is(err, storage.ErrDealNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retry payment: %v", err), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetPaymentHistory handles listing the payment attempts of a deal.
func (h *PaymentsHandler) GetPaymentHistory(w http.ResponseWriter, r *http.Request) {
	history := h.Processor.GetPaymentHistory(r.Context(), chi.URLParam(r, "dealID"))
	if history == nil {
		history = []models.PaymentRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(history); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
