package completion

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agrimandi/dealflow/pkg/cache"
	"github.com/agrimandi/dealflow/pkg/deals"
	"github.com/agrimandi/dealflow/pkg/gateway"
	"github.com/agrimandi/dealflow/pkg/models"
	"github.com/agrimandi/dealflow/pkg/queue"
	"github.com/agrimandi/dealflow/pkg/storage"
)

// lifecycleStore is a stateful in-memory store backing the end-to-end
// lifecycle test.
type lifecycleStore struct {
	mu       sync.Mutex
	deals    map[string]models.Deal
	payments []models.PaymentRecord
	disputes []models.Dispute
	feedback []models.Feedback
	prompts  []models.Prompt
}

func newLifecycleStore() *lifecycleStore {
	return &lifecycleStore{deals: make(map[string]models.Deal)}
}

func (s *lifecycleStore) CreateDeal(ctx context.Context, deal *models.Deal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.deals[deal.Id]; ok {
		return storage.ErrDealExists
	}
	s.deals[deal.Id] = *deal
	return nil
}

func (s *lifecycleStore) GetDeal(ctx context.Context, dealID string) (*models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deal, ok := s.deals[dealID]
	if !ok {
		return nil, storage.ErrDealNotFound
	}
	return &deal, nil
}

func (s *lifecycleStore) UpdateDealStatus(ctx context.Context, dealID string, expectedCurrent, next models.DealStatus, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	deal, ok := s.deals[dealID]
	if !ok {
		return storage.ErrDealNotFound
	}
	if deal.Status != expectedCurrent {
		return storage.ErrStaleDeal
	}
	deal.Status = next
	deal.UpdatedAt = at
	s.deals[dealID] = deal
	return nil
}

func (s *lifecycleStore) UpdateDealConfirmation(ctx context.Context, dealID string, confirmation *models.DealConfirmation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	deal := s.deals[dealID]
	deal.Confirmation = confirmation
	s.deals[dealID] = deal
	return nil
}

func (s *lifecycleStore) UpdateDealCompletion(ctx context.Context, dealID string, completion *models.CompletionData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	deal := s.deals[dealID]
	deal.Completion = completion
	s.deals[dealID] = deal
	return nil
}

func (s *lifecycleStore) ListDealsByBuyerID(ctx context.Context, userID string) ([]models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Deal
	for _, deal := range s.deals {
		if deal.BuyerId == userID {
			out = append(out, deal)
		}
	}
	return out, nil
}

func (s *lifecycleStore) ListDealsBySellerID(ctx context.Context, userID string) ([]models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Deal
	for _, deal := range s.deals {
		if deal.SellerId == userID {
			out = append(out, deal)
		}
	}
	return out, nil
}

func (s *lifecycleStore) GetStuckDeals(ctx context.Context, status models.DealStatus, maxAge time.Duration) ([]models.Deal, error) {
	return nil, nil
}

func (s *lifecycleStore) RecordPayment(ctx context.Context, record *models.PaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = append(s.payments, *record)
	return nil
}

func (s *lifecycleStore) ListPaymentsByDealID(ctx context.Context, dealID string) ([]models.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.PaymentRecord
	for _, record := range s.payments {
		if record.DealId == dealID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *lifecycleStore) CreateDispute(ctx context.Context, dispute *models.Dispute) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disputes = append(s.disputes, *dispute)
	return nil
}

func (s *lifecycleStore) ListDisputesByDealID(ctx context.Context, dealID string) ([]models.Dispute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Dispute
	for _, dispute := range s.disputes {
		if dispute.DealId == dealID {
			out = append(out, dispute)
		}
	}
	return out, nil
}

func (s *lifecycleStore) CreateFeedback(ctx context.Context, feedback *models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = append(s.feedback, *feedback)
	return nil
}

func (s *lifecycleStore) GetFeedbackByDealAndRater(ctx context.Context, dealID, fromUserID string) (*models.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fb := range s.feedback {
		if fb.DealId == dealID && fb.FromUserId == fromUserID {
			found := fb
			return &found, nil
		}
	}
	return nil, nil
}

func (s *lifecycleStore) CreatePrompt(ctx context.Context, prompt *models.Prompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, *prompt)
	return nil
}

// successGateway approves every payment.
type successGateway struct{}

func (successGateway) ProcessPayment(ctx context.Context, req gateway.PaymentRequest) (*models.PaymentResult, error) {
	return &models.PaymentResult{
		Success:       true,
		Amount:        req.Amount,
		Method:        req.Method,
		TransactionId: "txn-lifecycle",
		Timestamp:     time.Now(),
	}, nil
}

func TestDealLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newLifecycleStore()
	memCache := cache.NewMemory()

	dealService := deals.New(deals.Deps{
		Deals:    store,
		Disputes: store,
		Payments: store,
		Cache:    memCache,
		Queue:    queue.NewMemoryQueue(),
		Gateway:  successGateway{},
	})
	mgr := NewManager(Deps{
		Lifecycle: dealService,
		Deals:     store,
		Feedback:  store,
		Prompts:   store,
		Cache:     memCache,
	})

	buyer := deals.Actor{UserID: "buyer1", Role: models.RoleBuyer}
	deal, err := dealService.CreateDeal(ctx, deals.CreateDealInput{
		Commodity:   "Rice",
		Quantity:    100,
		Unit:        "kg",
		AgreedPrice: 50,
		Quality:     models.QualityStandard,
		Delivery: models.DeliveryTerms{
			Location:     "Karnal Mandi",
			ExpectedDate: time.Now().Add(7 * 24 * time.Hour),
		},
		Payment: models.PaymentTerms{
			Method:   models.MethodUPI,
			Schedule: models.ScheduleOnDelivery,
		},
		CounterpartyID: "seller1",
	}, buyer)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusAgreed, deal.Status)
	assert.Equal(t, float64(5000), deal.TotalValue())

	result, err := dealService.InitializePayment(ctx, deal.Id, models.MethodUPI)
	assert.NoError(t, err)
	assert.True(t, result.Success)

	paid, err := dealService.GetDeal(ctx, deal.Id)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPaid, paid.Status)

	_, err = dealService.UpdateDealStatus(ctx, deal.Id, models.StatusDelivered)
	assert.NoError(t, err)

	completed, err := mgr.CompleteDeal(ctx, deal.Id, models.CompletionData{
		DeliveryConfirmed: true,
		QualityAccepted:   true,
		PaymentReceived:   true,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)

	rating, review, err := mgr.PromptForRatingAndReview(ctx, deal.Id, "buyer1")
	assert.NoError(t, err)
	assert.True(t, rating)
	assert.True(t, review)

	// Completion already prompted both parties; the explicit call adds two
	// more for the buyer.
	assert.Len(t, store.prompts, 6)
	for _, prompt := range store.prompts {
		if prompt.UserId == "buyer1" {
			assert.Equal(t, "seller1", prompt.CounterpartyId)
		} else {
			assert.Equal(t, "buyer1", prompt.CounterpartyId)
		}
	}
}
