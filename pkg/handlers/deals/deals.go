package deals

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agrimandi/dealflow/pkg/deals"
	"github.com/agrimandi/dealflow/pkg/models"
	"github.com/agrimandi/dealflow/pkg/storage"
)

// DealsHandler holds the dependencies for deal lifecycle handlers.
type DealsHandler struct {
	Service *deals.Service
}

// NewDealsHandler creates a new DealsHandler.
func NewDealsHandler(service *deals.Service) *DealsHandler {
	return &DealsHandler{Service: service}
}

// actorFromRequest reads the already-authenticated identity injected by the
// gateway in front of this service.
func actorFromRequest(r *http.Request) deals.Actor {
	return deals.Actor{
		UserID: r.Header.Get("X-User-ID"),
		Role:   models.Role(r.Header.Get("X-User-Role")),
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// writeDomainError maps domain errors onto HTTP status codes. Unknown
// errors become a 500 with the wrapped message.
func writeDomainError(w http.ResponseWriter, err error) {
	var invalidTransition *models.InvalidTransitionError
	var statusErr *deals.StatusError
	switch {
	case errors.Is(err, storage.ErrDealNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, deals.ErrNotParticipant):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.As(err, &invalidTransition), errors.As(err, &statusErr):
		http.Error(w, err.Error(), http.StatusConflict)
	case isValidationError(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, fmt.Sprintf("Internal error: %v", err), http.StatusInternalServerError)
	}
}

func isValidationError(err error) bool {
	for _, candidate := range []error{
		deals.ErrCommodityRequired,
		deals.ErrQuantityNotPositive,
		deals.ErrUnitRequired,
		deals.ErrPriceNotPositive,
		deals.ErrInvalidQuality,
		deals.ErrDeliveryLocationRequired,
		deals.ErrDeliveryDateNotFuture,
		deals.ErrInvalidPaymentSchedule,
		deals.ErrInvalidPaymentMethod,
		deals.ErrDisputeReasonRequired,
		deals.ErrConfirmationIncomplete,
	} {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}

// NewDealRequest is the payload for creating a deal.
type NewDealRequest struct {
	Commodity      string                `json:"commodity"`
	Quantity       float64               `json:"quantity"`
	Unit           string                `json:"unit"`
	AgreedPrice    float64               `json:"agreed_price"`
	Quality        models.Quality        `json:"quality"`
	Delivery       models.DeliveryTerms  `json:"delivery"`
	Payment        models.PaymentTerms   `json:"payment"`
	CounterpartyID string                `json:"counterparty_id,omitempty"`
}

// CreateDeal handles the creation of a new deal from negotiated terms.
func (h *DealsHandler) CreateDeal(w http.ResponseWriter, r *http.Request) {
	var req NewDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	deal, err := h.Service.CreateDeal(r.Context(), deals.CreateDealInput{
		Commodity:      req.Commodity,
		Quantity:       req.Quantity,
		Unit:           req.Unit,
		AgreedPrice:    req.AgreedPrice,
		Quality:        req.Quality,
		Delivery:       req.Delivery,
		Payment:        req.Payment,
		CounterpartyID: req.CounterpartyID,
	}, actorFromRequest(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, deal)
}

// GetDeal handles retrieving a single deal.
func (h *DealsHandler) GetDeal(w http.ResponseWriter, r *http.Request) {
	deal, err := h.Service.GetDeal(r.Context(), chi.URLParam(r, "dealID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, deal)
}

// StatusUpdateRequest is the payload for a status transition.
type StatusUpdateRequest struct {
	Status models.DealStatus `json:"status"`
}

// UpdateDealStatus handles a lifecycle transition.
func (h *DealsHandler) UpdateDealStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	deal, err := h.Service.UpdateDealStatus(r.Context(), chi.URLParam(r, "dealID"), req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, deal)
}

// ConfirmationRequest is the payload for confirming an agreed deal.
type ConfirmationRequest struct {
	PriceValidated    bool `json:"price_validated"`
	TermsAccepted     bool `json:"terms_accepted"`
	DeliveryConfirmed bool `json:"delivery_confirmed"`
}

// ConfirmDeal handles the buyer-side confirmation of an agreed deal.
func (h *DealsHandler) ConfirmDeal(w http.ResponseWriter, r *http.Request) {
	var req ConfirmationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	err := h.Service.ConfirmDeal(r.Context(), chi.URLParam(r, "dealID"), deals.Confirmation{
		PriceValidated:    req.PriceValidated,
		TermsAccepted:     req.TermsAccepted,
		DeliveryConfirmed: req.DeliveryConfirmed,
	}, actorFromRequest(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TrackDelivery handles delivery tracking for a paid or delivered deal.
func (h *DealsHandler) TrackDelivery(w http.ResponseWriter, r *http.Request) {
	status, err := h.Service.TrackDelivery(r.Context(), chi.URLParam(r, "dealID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// DisputeRequest is the payload for raising a dispute.
type DisputeRequest struct {
	Reason      string `json:"reason"`
	Description string `json:"description,omitempty"`
}

// RaiseDispute handles filing a dispute against a deal.
func (h *DealsHandler) RaiseDispute(w http.ResponseWriter, r *http.Request) {
	var req DisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	dispute, err := h.Service.RaiseDispute(r.Context(), chi.URLParam(r, "dealID"), deals.RaiseDisputeInput{
		Reason:      req.Reason,
		Description: req.Description,
	}, actorFromRequest(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dispute)
}

// ListDisputes handles listing the disputes raised against a deal.
func (h *DealsHandler) ListDisputes(w http.ResponseWriter, r *http.Request) {
	disputes, err := h.Service.ListDisputes(r.Context(), chi.URLParam(r, "dealID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if disputes == nil {
		disputes = []models.Dispute{}
	}
	respondJSON(w, http.StatusOK, disputes)
}

// ListUserDeals handles listing every deal a user participates in.
func (h *DealsHandler) ListUserDeals(w http.ResponseWriter, r *http.Request) {
	userDeals, err := h.Service.ListUserDeals(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if userDeals == nil {
		userDeals = []models.Deal{}
	}
	respondJSON(w, http.StatusOK, userDeals)
}
