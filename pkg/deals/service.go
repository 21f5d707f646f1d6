package deals

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/agrimandi/dealflow/pkg/cache"
	"github.com/agrimandi/dealflow/pkg/events"
	"github.com/agrimandi/dealflow/pkg/gateway"
	"github.com/agrimandi/dealflow/pkg/models"
	"github.com/agrimandi/dealflow/pkg/queue"
	"github.com/agrimandi/dealflow/pkg/storage"
	"github.com/agrimandi/dealflow/pkg/tracking"
)

const (
	// counterpartyPending marks a deal created before the counterparty was
	// resolved from the negotiation context.
	counterpartyPending = "counterparty:pending"

	// Cache TTLs run well past the freshness windows so stale entries stay
	// retrievable for offline reads and store-failure degrades.
	dealCacheTTL     = 24 * time.Hour
	deliveryCacheTTL = 24 * time.Hour

	// dealFreshness bounds how old a cached deal may be before an online
	// read goes back to the store.
	dealFreshness = 5 * time.Minute

	// deliveryFreshness bounds how old a cached delivery status may be
	// before an online read goes back to the tracker.
	deliveryFreshness = 2 * time.Hour

	defaultGatewayTimeout = 30 * time.Second
)

// Actor is the already-resolved identity of the user performing a mutating
// call. The engine never authenticates; it only consumes this.
type Actor struct {
	UserID string
	Role   models.Role
}

// Deps carries the collaborators of the deal service.
type Deps struct {
	Deals    storage.DealStore
	Disputes storage.DisputeStore
	Payments storage.PaymentLogStore
	Cache    cache.Cache
	Queue    queue.ActionQueue
	Gateway  gateway.PaymentGateway
	Tracker  tracking.DeliveryTracker
	Events   events.Emitter
	Logger   *slog.Logger
}

// Service owns the deal lifecycle: creation, status transitions, payment
// initialization, delivery tracking and dispute creation. It is the only
// writer of Deal.Status.
type Service struct {
	deals    storage.DealStore
	disputes storage.DisputeStore
	payments storage.PaymentLogStore
	cache    cache.Cache
	queue    queue.ActionQueue
	gateway  gateway.PaymentGateway
	tracker  tracking.DeliveryTracker
	events   events.Emitter
	logger   *slog.Logger

	gatewayTimeout time.Duration

	// reads dedupes concurrent read-throughs per key.
	reads singleflight.Group

	// locks serializes status transitions per deal.
	locks keyedMutex

	subs subscriptions
}

// New creates a deal service. Events and Logger may be nil; Queue may be
// nil when offline replay is not wired.
func New(deps Deps) *Service {
	if deps.Events == nil {
		deps.Events = &events.NoOpEmitter{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{
		deals:          deps.Deals,
		disputes:       deps.Disputes,
		payments:       deps.Payments,
		cache:          deps.Cache,
		queue:          deps.Queue,
		gateway:        deps.Gateway,
		tracker:        deps.Tracker,
		events:         deps.Events,
		logger:         deps.Logger,
		gatewayTimeout: defaultGatewayTimeout,
	}
}

// CreateDealInput describes the negotiated terms of a new deal.
type CreateDealInput struct {
	Commodity   string
	Quantity    float64
	Unit        string
	AgreedPrice float64
	Quality     models.Quality
	Delivery    models.DeliveryTerms
	Payment     models.PaymentTerms

	// CounterpartyID is the other party when already known from the
	// negotiation context; left empty it is recorded as pending.
	CounterpartyID string
}

func validateCreateDeal(in CreateDealInput, now time.Time) error {
	if in.Commodity == "" {
		return ErrCommodityRequired
	}
	if in.Quantity <= 0 {
		return ErrQuantityNotPositive
	}
	if in.Unit == "" {
		return ErrUnitRequired
	}
	if in.AgreedPrice <= 0 {
		return ErrPriceNotPositive
	}
	if _, ok := models.ValidQualities[in.Quality]; !ok {
		return ErrInvalidQuality
	}
	if in.Delivery.Location == "" {
		return ErrDeliveryLocationRequired
	}
	if !in.Delivery.ExpectedDate.After(now) {
		return ErrDeliveryDateNotFuture
	}
	if _, ok := models.ValidPaymentSchedules[in.Payment.Schedule]; !ok {
		return ErrInvalidPaymentSchedule
	}
	if _, ok := models.ValidPaymentMethods[in.Payment.Method]; !ok {
		return ErrInvalidPaymentMethod
	}
	return nil
}

// CreateDeal validates the terms, resolves the parties from the actor's
// role and persists a new deal in status agreed. Offline, the creation is
// queued for replay instead of written to the store.
func (s *Service) CreateDeal(ctx context.Context, in CreateDealInput, actor Actor) (*models.Deal, error) {
	now := time.Now()
	if err := validateCreateDeal(in, now); err != nil {
		return nil, err
	}

	counterparty := in.CounterpartyID
	if counterparty == "" {
		counterparty = counterpartyPending
	}

	deal := &models.Deal{
		Id:          uuid.New().String(),
		Commodity:   in.Commodity,
		Quantity:    in.Quantity,
		Unit:        in.Unit,
		AgreedPrice: in.AgreedPrice,
		Quality:     in.Quality,
		Delivery:    in.Delivery,
		Payment:     in.Payment,
		Status:      models.StatusAgreed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if actor.Role == models.RoleBuyer {
		deal.BuyerId = actor.UserID
		deal.SellerId = counterparty
	} else {
		deal.SellerId = actor.UserID
		deal.BuyerId = counterparty
	}

	if s.online(ctx) {
		if err := s.deals.CreateDeal(ctx, deal); err != nil {
			return nil, err
		}
	} else {
		s.enqueue(ctx, queue.ActionCreateDeal, deal.Id, string(models.StatusAgreed), deal)
	}

	s.cachePut(ctx, cache.DealKey(deal.Id), deal, dealCacheTTL)

	return deal, nil
}

// GetDeal returns a deal, serving a fresh cache hit without a store round
// trip. Offline reads serve the cache regardless of age, and a failing
// store read degrades to the stale cached copy when one exists. Concurrent
// read-throughs for the same deal are deduplicated.
func (s *Service) GetDeal(ctx context.Context, dealID string) (*models.Deal, error) {
	key := cache.DealKey(dealID)

	var stale *models.Deal
	if entry := s.cacheEntry(ctx, key); entry != nil {
		var cached models.Deal
		if err := json.Unmarshal(entry.Value, &cached); err == nil {
			if entry.Age(time.Now()) < dealFreshness || !s.online(ctx) {
				return &cached, nil
			}
			stale = &cached
		}
	}

	v, err, _ := s.reads.Do(key, func() (any, error) {
		deal, err := s.deals.GetDeal(ctx, dealID)
		if err != nil {
			return nil, err
		}
		s.cachePut(ctx, key, deal, dealCacheTTL)
		return deal, nil
	})
	if err != nil {
		if stale != nil {
			s.logger.WarnContext(ctx, "deal read degraded to cache",
				"deal_id", dealID, "error", err)
			return stale, nil
		}
		return nil, err
	}
	return v.(*models.Deal), nil
}

// ListUserDeals returns every deal the user participates in, buyer or
// seller side, de-duplicated and sorted by most recent update. Store
// failures degrade to whatever the cache holds.
func (s *Service) ListUserDeals(ctx context.Context, userID string) ([]models.Deal, error) {
	key := cache.UserDealsKey(userID)

	var cached []models.Deal
	if entry := s.cacheEntry(ctx, key); entry != nil {
		if err := json.Unmarshal(entry.Value, &cached); err == nil {
			if entry.Age(time.Now()) < dealFreshness && s.online(ctx) {
				return cached, nil
			}
		}
	}
	if !s.online(ctx) {
		// Serve the cache unconditionally when disconnected.
		return cached, nil
	}

	asBuyer, buyerErr := s.deals.ListDealsByBuyerID(ctx, userID)
	asSeller, sellerErr := s.deals.ListDealsBySellerID(ctx, userID)
	if buyerErr != nil || sellerErr != nil {
		s.logger.WarnContext(ctx, "user deals query degraded to cache",
			"user_id", userID, "buyer_err", buyerErr, "seller_err", sellerErr)
		return cached, nil
	}

	seen := make(map[string]struct{}, len(asBuyer)+len(asSeller))
	merged := make([]models.Deal, 0, len(asBuyer)+len(asSeller))
	for _, deal := range append(asBuyer, asSeller...) {
		if _, dup := seen[deal.Id]; dup {
			continue
		}
		seen[deal.Id] = struct{}{}
		merged = append(merged, deal)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].UpdatedAt.After(merged[j].UpdatedAt)
	})

	s.cachePut(ctx, key, merged, dealCacheTTL)

	return merged, nil
}

// Confirmation carries the three aspects a buyer confirms on an agreed
// deal.
type Confirmation struct {
	PriceValidated    bool
	TermsAccepted     bool
	DeliveryConfirmed bool
}

// ConfirmDeal records that all aspects of an agreed deal were confirmed.
// It does not change the deal status.
func (s *Service) ConfirmDeal(ctx context.Context, dealID string, confirmation Confirmation, actor Actor) error {
	if !confirmation.PriceValidated || !confirmation.TermsAccepted || !confirmation.DeliveryConfirmed {
		return ErrConfirmationIncomplete
	}

	deal, err := s.GetDeal(ctx, dealID)
	if err != nil {
		return err
	}
	if deal.Status != models.StatusAgreed {
		return statusError("Cannot confirm deal with status", deal.Status)
	}

	record := &models.DealConfirmation{
		PriceValidated:    confirmation.PriceValidated,
		TermsAccepted:     confirmation.TermsAccepted,
		DeliveryConfirmed: confirmation.DeliveryConfirmed,
		ConfirmedBy:       actor.UserID,
		ConfirmedAt:       time.Now(),
	}
	if err := s.deals.UpdateDealConfirmation(ctx, dealID, record); err != nil {
		return err
	}

	deal.Confirmation = record
	deal.UpdatedAt = record.ConfirmedAt
	s.cachePut(ctx, cache.DealKey(dealID), deal, dealCacheTTL)
	s.subs.notify(deal)

	return nil
}

// online is nil-safe: without a cache collaborator the engine assumes
// connectivity.
func (s *Service) online(ctx context.Context) bool {
	if s.cache == nil {
		return true
	}
	return s.cache.Online(ctx)
}

// cacheGet is nil-safe and treats a cache read failure as a miss.
func (s *Service) cacheGet(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	return err == nil && hit
}

// cacheEntry is nil-safe and treats a cache read failure as a miss.
func (s *Service) cacheEntry(ctx context.Context, key string) *cache.Entry {
	if s.cache == nil {
		return nil
	}
	entry, err := s.cache.GetEntry(ctx, key)
	if err != nil {
		return nil
	}
	return entry
}

// cachePut is best-effort; cache write failures are logged, never
// propagated.
func (s *Service) cachePut(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, key, value, ttl); err != nil {
		s.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
}

// enqueue records an offline action for later replay. Queue failures are
// logged: the at-least-once contract is bounded by queue availability.
func (s *Service) enqueue(ctx context.Context, actionType queue.ActionType, dealID, target string, payload any) {
	if s.queue == nil {
		return
	}
	action, err := newAction(actionType, dealID, target, payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to build offline action",
			"type", string(actionType), "deal_id", dealID, "error", err)
		return
	}
	if err := s.queue.Enqueue(ctx, action); err != nil {
		s.logger.ErrorContext(ctx, "failed to enqueue offline action",
			"type", string(actionType), "deal_id", dealID, "error", err)
	}
}

// emit publishes a domain event. Emission failures never propagate.
func (s *Service) emit(ctx context.Context, event events.Event) {
	if err := s.events.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "event emission failed",
			"type", string(event.Type), "deal_id", event.DealID, "error", err)
	}
}
