package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/agrimandi/dealflow/pkg/analytics"
	"github.com/agrimandi/dealflow/pkg/completion"
	"github.com/agrimandi/dealflow/pkg/deals"
	completionhandler "github.com/agrimandi/dealflow/pkg/handlers/completion"
	dealshandler "github.com/agrimandi/dealflow/pkg/handlers/deals"
	paymentshandler "github.com/agrimandi/dealflow/pkg/handlers/payments"
	"github.com/agrimandi/dealflow/pkg/middleware"
	"github.com/agrimandi/dealflow/pkg/payments"
)

// Deps holds the services the HTTP API exposes.
type Deps struct {
	Deals      *deals.Service
	Payments   *payments.Processor
	Completion *completion.Manager
	Analytics  *analytics.Reporter
	Logger     *slog.Logger
}

// NewRouter assembles the full HTTP API.
func NewRouter(deps Deps) chi.Router {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	dealsH := dealshandler.NewDealsHandler(deps.Deals)
	paymentsH := paymentshandler.NewPaymentsHandler(deps.Payments)
	completionH := completionhandler.NewCompletionHandler(deps.Completion)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewStructuredLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)

	r.Route("/deals", func(r chi.Router) {
		r.Post("/", dealsH.CreateDeal)
		r.Get("/{dealID}", dealsH.GetDeal)
		r.Put("/{dealID}/status", dealsH.UpdateDealStatus)
		r.Post("/{dealID}/confirm", dealsH.ConfirmDeal)
		r.Get("/{dealID}/delivery", dealsH.TrackDelivery)
		r.Post("/{dealID}/disputes", dealsH.RaiseDispute)
		r.Get("/{dealID}/disputes", dealsH.ListDisputes)

		r.Post("/{dealID}/payments", paymentsH.ProcessPayment)
		r.Post("/{dealID}/payments/retry", paymentsH.RetryPayment)
		r.Get("/{dealID}/payments", paymentsH.GetPaymentHistory)

		r.Post("/{dealID}/complete", completionH.CompleteDeal)
		r.Post("/{dealID}/prompts", completionH.PromptForRatingAndReview)
		r.Post("/{dealID}/ratings", completionH.SubmitRating)
		r.Post("/{dealID}/resolutions", completionH.CreateResolution)
	})

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/deals", dealsH.ListUserDeals)
		r.Get("/summary", userSummaryHandler(deps.Analytics))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}

func userSummaryHandler(reporter *analytics.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := reporter.UserDealSummary(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to compute deal summary: %v", err), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(summary); err != nil {
			http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
		}
	}
}
