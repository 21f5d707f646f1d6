package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agrimandi/dealflow/pkg/models"
)

// scriptedDeals returns canned results or errors per method and counts
// attempts.
type scriptedDeals struct {
	results  map[models.PaymentMethod]*models.PaymentResult
	errs     map[models.PaymentMethod]error
	history  []models.PaymentRecord
	attempts []models.PaymentMethod
}

func (s *scriptedDeals) InitializePayment(ctx context.Context, dealID string, method models.PaymentMethod) (*models.PaymentResult, error) {
	s.attempts = append(s.attempts, method)
	if err, ok := s.errs[method]; ok {
		return nil, err
	}
	if result, ok := s.results[method]; ok {
		return result, nil
	}
	return &models.PaymentResult{Success: false, Method: method, Timestamp: time.Now(), Error: "declined"}, nil
}

func (s *scriptedDeals) PaymentHistory(ctx context.Context, dealID string) []models.PaymentRecord {
	return s.history
}

func TestProcessMultiplePaymentMethods(t *testing.T) {
	t.Run("First Success Wins", func(t *testing.T) {
		deals := &scriptedDeals{results: map[models.PaymentMethod]*models.PaymentResult{
			models.MethodUPI: {Success: true, Method: models.MethodUPI, TransactionId: "txn-1"},
		}}
		p := NewProcessor(deals, nil)

		result, err := p.ProcessMultiplePaymentMethods(context.Background(), "deal1",
			[]models.PaymentMethod{models.MethodUPI, models.MethodCash})

		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, []models.PaymentMethod{models.MethodUPI}, deals.attempts)
	})

	t.Run("Falls Back In Order", func(t *testing.T) {
		deals := &scriptedDeals{results: map[models.PaymentMethod]*models.PaymentResult{
			models.MethodCash: {Success: true, Method: models.MethodCash},
		}}
		p := NewProcessor(deals, nil)

		result, err := p.ProcessMultiplePaymentMethods(context.Background(), "deal1",
			[]models.PaymentMethod{models.MethodUPI, models.MethodBankTransfer, models.MethodCash})

		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, models.MethodCash, result.Method)
		assert.Len(t, deals.attempts, 3)
	})

	t.Run("Aggregate Failure Reports Primary Method And Last Error", func(t *testing.T) {
		deals := &scriptedDeals{results: map[models.PaymentMethod]*models.PaymentResult{
			models.MethodUPI:  {Success: false, Method: models.MethodUPI, Error: "upi down"},
			models.MethodCash: {Success: false, Method: models.MethodCash, Error: "no agent nearby"},
		}}
		p := NewProcessor(deals, nil)

		result, err := p.ProcessMultiplePaymentMethods(context.Background(), "deal1",
			[]models.PaymentMethod{models.MethodUPI, models.MethodCash})

		assert.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, models.MethodUPI, result.Method)
		assert.Equal(t, "All payment methods failed. Last error: no agent nearby", result.Error)
	})

	t.Run("Errored Attempt Falls Back", func(t *testing.T) {
		deals := &scriptedDeals{
			errs: map[models.PaymentMethod]error{
				models.MethodUPI: errors.New("gateway unreachable"),
			},
			results: map[models.PaymentMethod]*models.PaymentResult{
				models.MethodCash: {Success: true, Method: models.MethodCash},
			},
		}
		p := NewProcessor(deals, nil)

		result, err := p.ProcessMultiplePaymentMethods(context.Background(), "deal1",
			[]models.PaymentMethod{models.MethodUPI, models.MethodCash})

		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, models.MethodCash, result.Method)
		assert.Equal(t, []models.PaymentMethod{models.MethodUPI, models.MethodCash}, deals.attempts)
	})

	t.Run("Errored Attempt Feeds The Aggregate Failure", func(t *testing.T) {
		deals := &scriptedDeals{
			errs: map[models.PaymentMethod]error{
				models.MethodUPI:  errors.New("gateway unreachable"),
				models.MethodCash: errors.New("agent service down"),
			},
		}
		p := NewProcessor(deals, nil)

		result, err := p.ProcessMultiplePaymentMethods(context.Background(), "deal1",
			[]models.PaymentMethod{models.MethodUPI, models.MethodCash})

		assert.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, models.MethodUPI, result.Method)
		assert.Equal(t, "All payment methods failed. Last error: agent service down", result.Error)
	})

	t.Run("Queued Result Stops The Chain", func(t *testing.T) {
		deals := &scriptedDeals{results: map[models.PaymentMethod]*models.PaymentResult{
			models.MethodUPI: {Success: false, Queued: true, Method: models.MethodUPI, Error: "Payment queued for processing when online"},
		}}
		p := NewProcessor(deals, nil)

		result, err := p.ProcessMultiplePaymentMethods(context.Background(), "deal1",
			[]models.PaymentMethod{models.MethodUPI, models.MethodCash})

		assert.NoError(t, err)
		assert.True(t, result.Queued)
		assert.Equal(t, []models.PaymentMethod{models.MethodUPI}, deals.attempts)
	})

	t.Run("No Methods", func(t *testing.T) {
		p := NewProcessor(&scriptedDeals{}, nil)

		result, err := p.ProcessMultiplePaymentMethods(context.Background(), "deal1", nil)

		assert.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "No payment methods provided", result.Error)
	})
}

func TestRetryFailedPayment(t *testing.T) {
	t.Run("Fourth Retry Is Rejected Without An Attempt", func(t *testing.T) {
		deals := &scriptedDeals{}
		p := NewProcessor(deals, nil)

		for i := 0; i < 3; i++ {
			result, err := p.RetryFailedPayment(context.Background(), "deal1", models.MethodUPI)
			assert.NoError(t, err)
			assert.False(t, result.Success)
		}
		assert.Len(t, deals.attempts, 3)

		result, err := p.RetryFailedPayment(context.Background(), "deal1", models.MethodUPI)

		assert.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "Maximum retry attempts exceeded", result.Error)
		assert.Len(t, deals.attempts, 3)
	})

	t.Run("Success Resets The Counter", func(t *testing.T) {
		deals := &scriptedDeals{}
		p := NewProcessor(deals, nil)

		_, err := p.RetryFailedPayment(context.Background(), "deal1", models.MethodUPI)
		assert.NoError(t, err)

		deals.results = map[models.PaymentMethod]*models.PaymentResult{
			models.MethodUPI: {Success: true, Method: models.MethodUPI},
		}
		result, err := p.RetryFailedPayment(context.Background(), "deal1", models.MethodUPI)
		assert.NoError(t, err)
		assert.True(t, result.Success)

		p.mu.Lock()
		_, tracked := p.retries["deal1"]
		p.mu.Unlock()
		assert.False(t, tracked)
	})

	t.Run("Counters Are Per Deal", func(t *testing.T) {
		deals := &scriptedDeals{}
		p := NewProcessor(deals, nil)

		for i := 0; i < 3; i++ {
			_, err := p.RetryFailedPayment(context.Background(), "deal1", models.MethodUPI)
			assert.NoError(t, err)
		}

		result, err := p.RetryFailedPayment(context.Background(), "deal2", models.MethodUPI)

		assert.NoError(t, err)
		assert.NotEqual(t, "Maximum retry attempts exceeded", result.Error)
	})
}

func TestGetPaymentHistory(t *testing.T) {
	deals := &scriptedDeals{history: []models.PaymentRecord{{Id: "p1", DealId: "deal1"}}}
	p := NewProcessor(deals, nil)

	history := p.GetPaymentHistory(context.Background(), "deal1")

	assert.Len(t, history, 1)
	assert.Equal(t, "p1", history[0].Id)
}
