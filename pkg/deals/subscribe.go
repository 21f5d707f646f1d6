package deals

import (
	"sync"

	"github.com/agrimandi/dealflow/pkg/models"
)

// DealListener receives the updated deal after a state change. Callbacks
// run synchronously on the mutating goroutine and must return quickly.
type DealListener func(deal *models.Deal)

// subscriptions holds at most one listener per deal. Subscribing twice for
// the same deal replaces the earlier listener.
type subscriptions struct {
	mu        sync.Mutex
	listeners map[string]DealListener
}

func (s *subscriptions) set(dealID string, fn DealListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listeners == nil {
		s.listeners = make(map[string]DealListener)
	}
	s.listeners[dealID] = fn
}

func (s *subscriptions) remove(dealID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listeners, dealID)
}

func (s *subscriptions) notify(deal *models.Deal) {
	s.mu.Lock()
	fn := s.listeners[deal.Id]
	s.mu.Unlock()
	if fn != nil {
		fn(deal)
	}
}

// SubscribeToDealUpdates registers fn to be invoked whenever the deal
// changes. A later subscription for the same deal replaces fn. The
// returned function removes the subscription and is safe to call more
// than once.
func (s *Service) SubscribeToDealUpdates(dealID string, fn DealListener) (unsubscribe func()) {
	s.subs.set(dealID, fn)
	return func() {
		s.subs.remove(dealID)
	}
}

// UnsubscribeFromDealUpdates removes the listener for dealID. It is a no-op
// when none is registered.
func (s *Service) UnsubscribeFromDealUpdates(dealID string) {
	s.subs.remove(dealID)
}
