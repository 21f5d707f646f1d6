package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agrimandi/dealflow/pkg/cache"
	"github.com/agrimandi/dealflow/pkg/events"
	"github.com/agrimandi/dealflow/pkg/models"
	"github.com/agrimandi/dealflow/pkg/queue"
	"github.com/agrimandi/dealflow/pkg/storage"
)

// ErrCriteriaNotMet is returned when any completion criterion is left
// unchecked.
var ErrCriteriaNotMet = errors.New("All completion criteria must be met")

// ErrPromptedNotParticipant is returned when a prompt is requested for a
// user who is neither the buyer nor the seller of the deal.
var ErrPromptedNotParticipant = errors.New("Only deal participants can be prompted")

const promptValidity = 7 * 24 * time.Hour

// Lifecycle is the slice of the deal service the manager drives.
type Lifecycle interface {
	// GetDeal retrieves a deal by its ID.
	GetDeal(ctx context.Context, dealID string) (*models.Deal, error)

	// UpdateDealStatus drives a deal to the next status.
	UpdateDealStatus(ctx context.Context, dealID string, next models.DealStatus) (*models.Deal, error)
}

// CompletionCallback runs after a deal completes. Callbacks run
// synchronously and must not block.
type CompletionCallback func(deal *models.Deal)

// Deps carries the collaborators of the completion manager.
type Deps struct {
	Lifecycle   Lifecycle
	Deals       storage.DealWriter
	Feedback    storage.FeedbackStore
	Prompts     storage.PromptStore
	Resolutions storage.ResolutionStore
	Cache       cache.Cache
	Queue       queue.ActionQueue
	Events      events.Emitter
	Logger      *slog.Logger
}

// Manager closes out delivered deals: completion criteria, rating prompts,
// rating submission and dispute resolution workflows.
type Manager struct {
	lifecycle   Lifecycle
	deals       storage.DealWriter
	feedback    storage.FeedbackStore
	prompts     storage.PromptStore
	resolutions storage.ResolutionStore
	cache       cache.Cache
	queue       queue.ActionQueue
	events      events.Emitter
	logger      *slog.Logger

	mu        sync.Mutex
	callbacks map[string]map[int]CompletionCallback
	nextID    int
}

// NewManager creates a completion manager. Events and Logger may be nil.
func NewManager(deps Deps) *Manager {
	if deps.Events == nil {
		deps.Events = &events.NoOpEmitter{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Manager{
		lifecycle:   deps.Lifecycle,
		deals:       deps.Deals,
		feedback:    deps.Feedback,
		prompts:     deps.Prompts,
		resolutions: deps.Resolutions,
		cache:       deps.Cache,
		queue:       deps.Queue,
		events:      deps.Events,
		logger:      deps.Logger,
		callbacks:   make(map[string]map[int]CompletionCallback),
	}
}

// OnDealCompletion registers a one-shot callback invoked when the deal
// completes. A deal may hold several registrations at once; the returned
// function removes just this one.
func (m *Manager) OnDealCompletion(dealID string, fn CompletionCallback) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	if m.callbacks[dealID] == nil {
		m.callbacks[dealID] = make(map[int]CompletionCallback)
	}
	m.callbacks[dealID][id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		if regs := m.callbacks[dealID]; regs != nil {
			delete(regs, id)
			if len(regs) == 0 {
				delete(m.callbacks, dealID)
			}
		}
		m.mu.Unlock()
	}
}

// CompleteDeal closes a delivered deal. All three criteria must be checked
// and the deal must currently be delivered. Notification, trust-score and
// statistics side effects are best-effort.
func (m *Manager) CompleteDeal(ctx context.Context, dealID string, data models.CompletionData) (*models.Deal, error) {
	if !data.DeliveryConfirmed || !data.QualityAccepted || !data.PaymentReceived {
		return nil, ErrCriteriaNotMet
	}

	deal, err := m.lifecycle.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if deal.Status != models.StatusDelivered {
		return nil, fmt.Errorf("Cannot complete deal with status: %s", deal.Status)
	}

	if err := m.deals.UpdateDealCompletion(ctx, dealID, &data); err != nil {
		return nil, err
	}
	deal, err = m.lifecycle.UpdateDealStatus(ctx, dealID, models.StatusCompleted)
	if err != nil {
		return nil, err
	}
	deal.Completion = &data

	m.emit(ctx, events.Event{
		Type:   events.TypeDealCompleted,
		DealID: dealID,
		Payload: map[string]any{
			"buyer_id":    deal.BuyerId,
			"seller_id":   deal.SellerId,
			"total_value": deal.TotalValue(),
		},
	})
	m.emit(ctx, events.Event{
		Type:    events.TypeTrustScoreUpdate,
		DealID:  dealID,
		Payload: map[string]any{"user_ids": []string{deal.BuyerId, deal.SellerId}},
	})
	m.emit(ctx, events.Event{
		Type:    events.TypeDealStats,
		DealID:  dealID,
		Payload: map[string]any{"commodity": deal.Commodity, "quantity": deal.Quantity},
	})

	for _, userID := range []string{deal.BuyerId, deal.SellerId} {
		if err := m.createPrompts(ctx, deal, userID); err != nil {
			m.logger.WarnContext(ctx, "failed to create rating prompts",
				"deal_id", dealID, "user_id", userID, "error", err)
		}
	}

	// Registered callbacks fire once; completion consumes them.
	m.mu.Lock()
	regs := m.callbacks[dealID]
	delete(m.callbacks, dealID)
	callbacks := make([]CompletionCallback, 0, len(regs))
	for _, fn := range regs {
		callbacks = append(callbacks, fn)
	}
	m.mu.Unlock()
	for _, fn := range callbacks {
		fn(deal)
	}

	return deal, nil
}

// PromptForRatingAndReview creates rating and review prompts for a
// completed deal's participant. Non-completed deals prompt for nothing.
func (m *Manager) PromptForRatingAndReview(ctx context.Context, dealID, userID string) (rating bool, review bool, err error) {
	deal, err := m.lifecycle.GetDeal(ctx, dealID)
	if err != nil {
		return false, false, err
	}
	if deal.Status != models.StatusCompleted {
		return false, false, nil
	}

	if err := m.createPrompts(ctx, deal, userID); err != nil {
		return false, false, err
	}
	return true, true, nil
}

// createPrompts persists a rating and a review prompt for one participant,
// queueing them when offline. The counterparty is the user the prompt asks
// to be rated.
func (m *Manager) createPrompts(ctx context.Context, deal *models.Deal, userID string) error {
	counterparty, ok := deal.Counterparty(userID)
	if !ok {
		return ErrPromptedNotParticipant
	}

	now := time.Now()
	for _, kind := range []models.PromptKind{models.PromptRating, models.PromptReview} {
		prompt := &models.Prompt{
			Id:             uuid.New().String(),
			DealId:         deal.Id,
			UserId:         userID,
			CounterpartyId: counterparty,
			Kind:           kind,
			CreatedAt:      now,
			ExpiresAt:      now.Add(promptValidity),
		}
		if m.online(ctx) {
			if err := m.prompts.CreatePrompt(ctx, prompt); err != nil {
				return err
			}
		} else {
			m.enqueuePrompt(ctx, prompt)
		}
	}
	return nil
}

func (m *Manager) online(ctx context.Context) bool {
	if m.cache == nil {
		return true
	}
	return m.cache.Online(ctx)
}

func (m *Manager) enqueuePrompt(ctx context.Context, prompt *models.Prompt) {
	if m.queue == nil {
		return
	}
	action, err := newAction(queue.ActionCreatePrompt, prompt.DealId, prompt.UserId+":"+string(prompt.Kind), prompt)
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to build prompt action", "deal_id", prompt.DealId, "error", err)
		return
	}
	if err := m.queue.Enqueue(ctx, action); err != nil {
		m.logger.ErrorContext(ctx, "failed to enqueue prompt", "deal_id", prompt.DealId, "error", err)
	}
}

func (m *Manager) emit(ctx context.Context, event events.Event) {
	if err := m.events.Emit(ctx, event); err != nil {
		m.logger.WarnContext(ctx, "event emission failed",
			"type", string(event.Type), "deal_id", event.DealID, "error", err)
	}
}
