package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/agrimandi/dealflow/pkg/analytics"
	"github.com/agrimandi/dealflow/pkg/cache"
	"github.com/agrimandi/dealflow/pkg/completion"
	"github.com/agrimandi/dealflow/pkg/deals"
	gatewaymocks "github.com/agrimandi/dealflow/pkg/gateway/mocks"
	"github.com/agrimandi/dealflow/pkg/models"
	"github.com/agrimandi/dealflow/pkg/payments"
	"github.com/agrimandi/dealflow/pkg/queue"
	"github.com/agrimandi/dealflow/pkg/storage"
	"github.com/agrimandi/dealflow/pkg/storage/mocks"
	trackingmocks "github.com/agrimandi/dealflow/pkg/tracking/mocks"
)

type apiFixture struct {
	store    *mocks.DealStore
	disputes *mocks.DisputeStore
	payments *mocks.PaymentLogStore
	feedback *mocks.FeedbackStore
	router   http.Handler
}

func newAPIFixture() *apiFixture {
	f := &apiFixture{
		store:    new(mocks.DealStore),
		disputes: new(mocks.DisputeStore),
		payments: new(mocks.PaymentLogStore),
		feedback: new(mocks.FeedbackStore),
	}

	memCache := cache.NewMemory()
	dealService := deals.New(deals.Deps{
		Deals:    f.store,
		Disputes: f.disputes,
		Payments: f.payments,
		Cache:    memCache,
		Queue:    queue.NewMemoryQueue(),
		Gateway:  new(gatewaymocks.PaymentGateway),
		Tracker:  new(trackingmocks.DeliveryTracker),
	})
	manager := completion.NewManager(completion.Deps{
		Lifecycle:   dealService,
		Deals:       f.store,
		Feedback:    f.feedback,
		Prompts:     new(mocks.PromptStore),
		Resolutions: new(mocks.ResolutionStore),
		Cache:       memCache,
	})

	f.router = NewRouter(Deps{
		Deals:      dealService,
		Payments:   payments.NewProcessor(dealService, nil),
		Completion: manager,
		Analytics:  analytics.NewReporter(f.store, nil),
	})
	return f
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-User-ID", "buyer1")
	req.Header.Set("X-User-Role", "buyer")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateDealEndpoint(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		f := newAPIFixture()
		f.store.On("CreateDeal", mock.Anything, mock.Anything).Once().Return(nil)

		rec := doRequest(t, f.router, http.MethodPost, "/deals", map[string]any{
			"commodity":    "wheat",
			"quantity":     50,
			"unit":         "quintal",
			"agreed_price": 2150,
			"quality":      "premium",
			"delivery": map[string]any{
				"location":      "Indore Mandi",
				"expected_date": time.Now().Add(72 * time.Hour).Format(time.RFC3339),
			},
			"payment": map[string]any{
				"method":   "upi",
				"schedule": "on_delivery",
			},
			"counterparty_id": "seller1",
		})

		assert.Equal(t, http.StatusCreated, rec.Code)

		var deal models.Deal
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deal))
		assert.Equal(t, models.StatusAgreed, deal.Status)
		assert.Equal(t, "buyer1", deal.BuyerId)
	})

	t.Run("Validation Error Is 400", func(t *testing.T) {
		f := newAPIFixture()

		rec := doRequest(t, f.router, http.MethodPost, "/deals", map[string]any{
			"quantity": 50,
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Commodity is required")
	})

	t.Run("Malformed Body Is 400", func(t *testing.T) {
		f := newAPIFixture()

		req := httptest.NewRequest(http.MethodPost, "/deals", bytes.NewBufferString("{not json"))
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetDealEndpoint(t *testing.T) {
	t.Run("Not Found Is 404", func(t *testing.T) {
		f := newAPIFixture()
		f.store.On("GetDeal", mock.Anything, "missing").Return(nil, storage.ErrDealNotFound)

		rec := doRequest(t, f.router, http.MethodGet, "/deals/missing", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Deal not found")
	})
}

func TestUpdateStatusEndpoint(t *testing.T) {
	t.Run("Invalid Transition Is 409", func(t *testing.T) {
		f := newAPIFixture()
		f.store.On("GetDeal", mock.Anything, "deal1").Return(&models.Deal{
			Id: "deal1", BuyerId: "buyer1", SellerId: "seller1", Status: models.StatusCompleted,
		}, nil)

		rec := doRequest(t, f.router, http.MethodPut, "/deals/deal1/status", map[string]any{"status": "paid"})

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid status transition from completed to paid")
	})
}

func TestRaiseDisputeEndpoint(t *testing.T) {
	t.Run("Non Participant Is 403", func(t *testing.T) {
		f := newAPIFixture()
		f.store.On("GetDeal", mock.Anything, "deal1").Return(&models.Deal{
			Id: "deal1", BuyerId: "other", SellerId: "seller1", Status: models.StatusPaid,
		}, nil)

		rec := doRequest(t, f.router, http.MethodPost, "/deals/deal1/disputes", map[string]any{"reason": "late"})

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestSubmitRatingEndpoint(t *testing.T) {
	t.Run("Duplicate Is 409", func(t *testing.T) {
		f := newAPIFixture()
		f.store.On("GetDeal", mock.Anything, "deal1").Return(&models.Deal{
			Id: "deal1", BuyerId: "buyer1", SellerId: "seller1", Status: models.StatusCompleted,
		}, nil)
		f.feedback.On("GetFeedbackByDealAndRater", mock.Anything, "deal1", "buyer1").Return(&models.Feedback{Id: "fb1"}, nil)

		rec := doRequest(t, f.router, http.MethodPost, "/deals/deal1/ratings", map[string]any{
			"overall": 4,
			"categories": map[string]int{
				"communication": 4, "reliability": 4, "quality": 4, "timeliness": 4,
			},
		})

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestUserSummaryEndpoint(t *testing.T) {
	f := newAPIFixture()
	f.store.On("ListDealsByBuyerID", mock.Anything, "buyer1").Return([]models.Deal{}, nil)
	f.store.On("ListDealsBySellerID", mock.Anything, "buyer1").Return([]models.Deal{}, nil)

	rec := doRequest(t, f.router, http.MethodGet, "/users/buyer1/summary", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var summary analytics.Summary
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Zero(t, summary.Total)
}
