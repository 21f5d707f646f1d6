package completion

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agrimandi/dealflow/pkg/completion"
	"github.com/agrimandi/dealflow/pkg/models"
	"github.com/agrimandi/dealflow/pkg/storage"
)

// CompletionHandler holds the dependencies for deal closeout handlers.
type CompletionHandler struct {
	Manager *completion.Manager
}

// NewCompletionHandler creates a new CompletionHandler.
func NewCompletionHandler(manager *completion.Manager) *CompletionHandler {
	return &CompletionHandler{Manager: manager}
}

func writeCompletionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrDealNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, completion.ErrCriteriaNotMet):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, completion.ErrDuplicateRating):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, completion.ErrRaterNotParticipant),
		errors.Is(err, completion.ErrPromptedNotParticipant):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	}
}

// CompletionRequest is the payload for closing out a delivered deal.
type CompletionRequest struct {
	DeliveryConfirmed bool   `json:"delivery_confirmed"`
	QualityAccepted   bool   `json:"quality_accepted"`
	PaymentReceived   bool   `json:"payment_received"`
	Notes             string `json:"notes,omitempty"`
}

// CompleteDeal handles closing out a delivered deal.
func (h *CompletionHandler) CompleteDeal(w http.ResponseWriter, r *http.Request) {
	var req CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	deal, err := h.Manager.CompleteDeal(r.Context(), chi.URLParam(r, "dealID"), models.CompletionData{
		DeliveryConfirmed: req.DeliveryConfirmed,
		QualityAccepted:   req.QualityAccepted,
		PaymentReceived:   req.PaymentReceived,
		Notes:             req.Notes,
	})
	if err != nil {
		writeCompletionError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// PromptResponse reports which prompts were created for the user.
type PromptResponse struct {
	Rating bool `json:"rating"`
	Review bool `json:"review"`
}

// PromptForRatingAndReview handles creating post-completion prompts.
func (h *CompletionHandler) PromptForRatingAndReview(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	rating, review, err := h.Manager.PromptForRatingAndReview(r.Context(), chi.URLParam(r, "dealID"), userID)
	if err != nil {
		writeCompletionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, PromptResponse{Rating: rating, Review: review})
}

// RatingRequest is the payload for submitting a rating.
type RatingRequest struct {
	Overall    int                    `json:"overall"`
	Comment    string                 `json:"comment,omitempty"`
	Categories models.CategoryRatings `json:"categories"`
}

// SubmitRating handles recording a post-completion rating.
func (h *CompletionHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	var req RatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	feedback, err := h.Manager.SubmitRating(r.Context(), chi.URLParam(r, "dealID"), completion.RatingInput{
		Overall:    req.Overall,
		Comment:    req.Comment,
		Categories: req.Categories,
	}, r.Header.Get("X-User-ID"))
	if err != nil {
		writeCompletionError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, feedback)
}

// ResolutionRequest is the payload for generating a dispute resolution
// workflow.
type ResolutionRequest struct {
	DisputeType models.DisputeType `json:"dispute_type"`
}

// CreateResolution handles generating a resolution workflow for a dispute
// category.
func (h *CompletionHandler) CreateResolution(w http.ResponseWriter, r *http.Request) {
	var req ResolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	workflow, err := h.Manager.CreateDisputeResolutionMechanism(r.Context(), chi.URLParam(r, "dealID"), req.DisputeType)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to create resolution workflow: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, workflow)
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
