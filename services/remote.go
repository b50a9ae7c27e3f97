package services

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"food-share-system/models"
	"food-share-system/storage"
)

// RemoteConfig tunes the simulated remote. Latencies default to what the
// mobile client was calibrated against; FailureRate applies to status updates.
type RemoteConfig struct {
	FetchLatency  time.Duration
	CreateLatency time.Duration
	UpdateLatency time.Duration
	FailureRate   float64
	Rand          func() float64
}

// DefaultRemoteConfig matches the production simulation: 600/800/500 ms and a
// 5% injected failure chance on status updates.
func DefaultRemoteConfig() RemoteConfig {
	return RemoteConfig{
		FetchLatency:  600 * time.Millisecond,
		CreateLatency: 800 * time.Millisecond,
		UpdateLatency: 500 * time.Millisecond,
		FailureRate:   0.05,
		Rand:          rand.Float64,
	}
}

// MockRemote is the simulated backend. There is no real network: every call
// sleeps for the configured latency and then reads or writes the posts record
// in local storage. Status updates can fail at random to exercise rollback.
type MockRemote struct {
	store *storage.LocalStore
	cfg   RemoteConfig
}

func NewMockRemote(store *storage.LocalStore, cfg RemoteConfig) *MockRemote {
	if cfg.Rand == nil {
		cfg.Rand = rand.Float64
	}
	return &MockRemote{store: store, cfg: cfg}
}

// FetchPosts returns the full persisted collection.
func (r *MockRemote) FetchPosts(ctx context.Context) ([]models.Post, error) {
	if err := r.sleep(ctx, r.cfg.FetchLatency); err != nil {
		return nil, err
	}
	return r.loadPosts()
}

// CreatePost appends a new post at the front of the persisted collection,
// matching the newest-first ordering the client renders.
func (r *MockRemote) CreatePost(ctx context.Context, post models.Post) error {
	if err := r.sleep(ctx, r.cfg.CreateLatency); err != nil {
		return err
	}

	posts, err := r.loadPosts()
	if err != nil {
		return err
	}
	posts = append([]models.Post{post.Clone()}, posts...)
	return r.savePosts(posts)
}

// UpdatePostStatus applies a status change to the persisted post and returns
// the updated record. Transitions to taken stamp TakenAt. A configurable
// fraction of calls fails after the latency, as an unstable network would.
func (r *MockRemote) UpdatePostStatus(ctx context.Context, postID, status string) (models.Post, error) {
	if err := r.sleep(ctx, r.cfg.UpdateLatency); err != nil {
		return models.Post{}, err
	}

	if r.cfg.Rand() < r.cfg.FailureRate {
		return models.Post{}, &models.PersistenceError{
			Op:     "update status",
			Reason: "network connection unstable, please retry",
		}
	}

	posts, err := r.loadPosts()
	if err != nil {
		return models.Post{}, err
	}

	for i := range posts {
		if posts[i].ID != postID {
			continue
		}
		posts[i].Status = status
		if status == models.StatusTaken && posts[i].TakenAt == nil {
			now := time.Now()
			posts[i].TakenAt = &now
		}
		updated := posts[i].Clone()
		if err := r.savePosts(posts); err != nil {
			return models.Post{}, err
		}
		return updated, nil
	}
	return models.Post{}, &models.NotFoundError{PostID: postID}
}

// RemovePosts drops the given ids from the persisted collection. Used by the
// expiry sweep; removing an already-absent id is a no-op, which keeps the
// sweep idempotent.
func (r *MockRemote) RemovePosts(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.sleep(ctx, r.cfg.UpdateLatency); err != nil {
		return err
	}

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	posts, err := r.loadPosts()
	if err != nil {
		return err
	}

	kept := posts[:0]
	for _, p := range posts {
		if !drop[p.ID] {
			kept = append(kept, p)
		}
	}
	return r.savePosts(kept)
}

func (r *MockRemote) loadPosts() ([]models.Post, error) {
	data, ok, err := r.store.Get(storage.KeyPosts)
	if err != nil {
		return nil, &models.PersistenceError{Op: "load posts", Reason: "storage read failed", Err: err}
	}
	if !ok {
		return []models.Post{}, nil
	}

	var posts []models.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, &models.PersistenceError{Op: "load posts", Reason: "corrupt posts record", Err: err}
	}
	return posts, nil
}

func (r *MockRemote) savePosts(posts []models.Post) error {
	data, err := json.Marshal(posts)
	if err != nil {
		return &models.PersistenceError{Op: "save posts", Reason: "encode failed", Err: err}
	}
	if err := r.store.Put(storage.KeyPosts, data); err != nil {
		return &models.PersistenceError{Op: "save posts", Reason: "storage write failed", Err: err}
	}
	return nil
}

func (r *MockRemote) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
