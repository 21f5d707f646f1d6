package queue

import (
	"context"
	"sync"
)

// MemoryQueue buffers actions in memory. Used in tests and as a local
// fallback when no SQS queue is configured.
type MemoryQueue struct {
	mu      sync.Mutex
	actions []Action
}

// NewMemoryQueue creates an empty MemoryQueue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

// Make sure we conform to the interface
var _ ActionQueue = (*MemoryQueue)(nil)

// Enqueue appends the action to the buffer.
func (q *MemoryQueue) Enqueue(ctx context.Context, action Action) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.actions = append(q.actions, action)
	return nil
}

// Drain returns the buffered actions and empties the buffer.
func (q *MemoryQueue) Drain() []Action {
	q.mu.Lock()
	defer q.mu.Unlock()
	drained := q.actions
	q.actions = nil
	return drained
}

// Len returns the number of buffered actions.
func (q *MemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.actions)
}
