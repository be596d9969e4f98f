// Package queue persists review submissions made while offline and replays
// them once connectivity returns.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"dinemap/internal/logging"
	"dinemap/internal/model"
	"dinemap/internal/store"

	"github.com/google/uuid"
)

// StorageKey is the kv key holding the durable pending-review list as a
// JSON array.
const StorageKey = "offlineReviewsStorage"

// Submitter is the slice of the remote gateway the queue needs.
type Submitter interface {
	SubmitReview(ctx context.Context, review model.PendingReview) (model.Review, error)
}

// Queue is the durable offline write queue. Entries transition
// Created -> Queued -> Replayed; the online submission path bypasses the
// queue entirely.
type Queue struct {
	store *store.LocalStore
	gw    Submitter

	// Serializes the read-modify-write of the durable list within this
	// process. Concurrent processes can still race and lose updates, which
	// is acceptable for the single-form submission flow.
	mu sync.Mutex
}

// New creates a Queue over the given store and gateway.
func New(st *store.LocalStore, gw Submitter) *Queue {
	return &Queue{store: st, gw: gw}
}

// Enqueue appends a review to the durable list. Each entry gets a local
// reference id so replay attempts can be traced in the logs.
func (q *Queue) Enqueue(ctx context.Context, review model.PendingReview) error {
	if err := review.Validate(); err != nil {
		return err
	}
	if review.LocalRef == "" {
		review.LocalRef = uuid.NewString()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = model.Now()
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	pending, err := q.load(ctx)
	if err != nil {
		return err
	}
	pending = append(pending, review)
	if err := q.save(ctx, pending); err != nil {
		return err
	}
	logging.Queue("Queued review %s for restaurant %d (%d pending)", review.LocalRef, review.RestaurantID, len(pending))
	return nil
}

// Pending returns the queued reviews in submission order.
func (q *Queue) Pending(ctx context.Context) ([]model.PendingReview, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.load(ctx)
}

// ReplayResult summarizes one replay pass.
type ReplayResult struct {
	Attempted int
	Submitted int
	Requeued  int
}

// Replay attempts every queued review in order. Submissions are
// independent: one failure does not stop the rest. Entries that fail stay
// queued for the next pass rather than being dropped; successful ones are
// upserted into the local store under their server-assigned id.
func (q *Queue) Replay(ctx context.Context) (ReplayResult, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending, err := q.load(ctx)
	if err != nil {
		return ReplayResult{}, err
	}
	if len(pending) == 0 {
		return ReplayResult{}, nil
	}

	logging.Queue("Replaying %d queued reviews", len(pending))
	result := ReplayResult{Attempted: len(pending)}
	var failed []model.PendingReview
	for _, review := range pending {
		created, err := q.gw.SubmitReview(ctx, review)
		if err != nil {
			logging.Get(logging.CategoryQueue).Warn("Replay of review %s failed, keeping it queued: %v", review.LocalRef, err)
			failed = append(failed, review)
			continue
		}
		q.store.UpsertReview(ctx, created)
		result.Submitted++
		logging.Queue("Replayed review %s as server id %d", review.LocalRef, created.ID)
	}

	result.Requeued = len(failed)
	if err := q.save(ctx, failed); err != nil {
		return result, fmt.Errorf("failed to persist queue after replay: %w", err)
	}
	return result, nil
}

// load reads the durable list. Callers hold q.mu.
func (q *Queue) load(ctx context.Context) ([]model.PendingReview, error) {
	raw, ok, err := q.store.GetValue(ctx, StorageKey)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var pending []model.PendingReview
	if err := json.Unmarshal([]byte(raw), &pending); err != nil {
		return nil, fmt.Errorf("corrupt pending-review list: %w", err)
	}
	return pending, nil
}

// save writes the durable list back. An empty list removes the key.
// Callers hold q.mu.
func (q *Queue) save(ctx context.Context, pending []model.PendingReview) error {
	if len(pending) == 0 {
		return q.store.DeleteValue(ctx, StorageKey)
	}
	raw, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("failed to encode pending-review list: %w", err)
	}
	return q.store.PutValue(ctx, StorageKey, string(raw))
}
