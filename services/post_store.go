package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"food-share-system/models"
	"food-share-system/utils"

	"github.com/google/uuid"
)

// ErrStoreClosed is returned once the store is torn down. In-flight remote
// results are never committed after teardown.
var ErrStoreClosed = errors.New("post store closed")

// PostStoreConfig tunes the background lifecycle tasks.
type PostStoreConfig struct {
	SweepInterval time.Duration // expiry sweep period
	PollInterval  time.Duration // refresh poll period
	PollJitter    time.Duration // random extra delay before each poll
	Retention     time.Duration // how long taken posts stay visible
	Now           func() time.Time
}

// DefaultPostStoreConfig: sweep every 60s, poll every 30s, retain taken
// posts for 10 minutes.
func DefaultPostStoreConfig() PostStoreConfig {
	return PostStoreConfig{
		SweepInterval: 60 * time.Second,
		PollInterval:  30 * time.Second,
		PollJitter:    5 * time.Second,
		Retention:     10 * time.Minute,
		Now:           time.Now,
	}
}

// PostStore owns the posts collection. Mutations are applied optimistically
// to the in-memory working copy before the simulated remote confirms, and
// rolled back to the exact pre-image when it fails.
//
// Serialization rules:
//   - mutations on the same post id are serialized via a per-post lock, so a
//     second transition always computes from the latest known state;
//   - the expiry sweep skips any post with a mutation in flight;
//   - the refresh poll (and FetchAll reconciliation) is suppressed while any
//     mutation is outstanding, so a stale remote read never clobbers an
//     unresolved optimistic update.
type PostStore struct {
	remote    *MockRemote
	locations map[string]models.Location
	cfg       PostStoreConfig

	mu       sync.Mutex
	posts    []models.Post
	inflight map[string]int // post id → outstanding mutations
	pending  int            // total outstanding mutations, suppresses polls
	closed   bool

	lockMu    sync.Mutex
	postLocks map[string]*sync.Mutex
}

func NewPostStore(remote *MockRemote, locations []models.Location, cfg PostStoreConfig) *PostStore {
	def := DefaultPostStoreConfig()
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = def.SweepInterval
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.Retention <= 0 {
		cfg.Retention = def.Retention
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	locIndex := make(map[string]models.Location, len(locations))
	for _, loc := range locations {
		locIndex[loc.ID] = loc
	}

	return &PostStore{
		remote:    remote,
		locations: locIndex,
		cfg:       cfg,
		posts:     []models.Post{},
		inflight:  make(map[string]int),
		postLocks: make(map[string]*sync.Mutex),
	}
}

// Config returns the effective lifecycle configuration.
func (s *PostStore) Config() PostStoreConfig { return s.cfg }

// Load warms the working copy from the simulated remote. Called once at startup.
func (s *PostStore) Load(ctx context.Context) error {
	return s.Refresh(ctx)
}

// Snapshot returns a deep copy of the current working collection without
// touching the remote. Callers can never corrupt store state through it.
func (s *PostStore) Snapshot() []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.ClonePosts(s.posts)
}

// FetchAll re-fetches the collection from the simulated remote, reconciles it
// into the working copy (unless a mutation is outstanding), and returns a
// snapshot.
func (s *PostStore) FetchAll(ctx context.Context) ([]models.Post, error) {
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s.Snapshot(), nil
}

// Refresh pulls the remote collection and replaces the working copy. The
// replace is skipped while any mutation is in flight; the next scheduled poll
// will reconcile instead.
func (s *PostStore) Refresh(ctx context.Context) error {
	posts, err := s.remote.FetchPosts(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	if s.pending > 0 {
		return nil
	}
	s.posts = posts
	return nil
}

// CreatePost validates the draft, assigns identity, and commits it to the
// simulated remote. The working copy is only updated after the remote accepts,
// so a failed create leaves no trace.
func (s *PostStore) CreatePost(ctx context.Context, draft models.PostDraft) (models.Post, error) {
	now := s.cfg.Now()
	if err := validateDraft(draft, now, s.locations); err != nil {
		return models.Post{}, err
	}

	post := models.Post{
		ID:             uuid.NewString(),
		FoodType:       draft.FoodType,
		Quantity:       draft.Quantity,
		Unit:           draft.Unit,
		Tags:           utils.NormalizeTags(draft.Tags),
		LocationID:     draft.LocationID,
		LocationDetail: draft.LocationDetail,
		ImageURL:       draft.ImageURL,
		Status:         models.StatusAvailable,
		PickupTime:     draft.PickupTime,
		ExpireTime:     draft.ExpireTime,
		Timestamp:      now,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return models.Post{}, ErrStoreClosed
	}
	s.pending++
	s.mu.Unlock()

	err := s.remote.CreatePost(ctx, post)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--
	if s.closed {
		return models.Post{}, ErrStoreClosed
	}
	if err != nil {
		return models.Post{}, err
	}
	s.posts = append([]models.Post{post.Clone()}, s.posts...)
	return post.Clone(), nil
}

// UpdateStatus transitions a post to reserved or taken. The new status is
// visible to readers immediately; if the remote write fails the pre-update
// value is restored exactly and a PersistenceError is returned.
func (s *PostStore) UpdateStatus(ctx context.Context, postID, newStatus string) (models.Post, error) {
	if newStatus != models.StatusReserved && newStatus != models.StatusTaken {
		return models.Post{}, &models.ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("target status must be %s or %s", models.StatusReserved, models.StatusTaken),
		}
	}

	// Serializes transitions per post: a second caller blocks here and then
	// computes from the committed (or rolled-back) state, never a stale one.
	lock := s.postLock(postID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return models.Post{}, ErrStoreClosed
	}
	idx := s.indexOf(postID)
	if idx < 0 {
		s.mu.Unlock()
		return models.Post{}, &models.NotFoundError{PostID: postID}
	}
	prev := s.posts[idx].Clone()
	if err := checkTransition(prev.Status, newStatus); err != nil {
		s.mu.Unlock()
		return models.Post{}, err
	}
	s.posts[idx].Status = newStatus // optimistic
	s.inflight[postID]++
	s.pending++
	s.mu.Unlock()

	updated, err := s.remote.UpdatePostStatus(ctx, postID, newStatus)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight[postID]--
	if s.inflight[postID] == 0 {
		delete(s.inflight, postID)
	}
	s.pending--

	if s.closed {
		return models.Post{}, ErrStoreClosed
	}

	idx = s.indexOf(postID)
	if err != nil {
		if idx >= 0 {
			s.posts[idx] = prev
		}
		return models.Post{}, err
	}
	if idx >= 0 {
		s.posts[idx] = updated.Clone()
	}
	return updated, nil
}

// SweepExpired removes taken posts older than the retention window from the
// working copy and the simulated remote. Posts with a mutation in flight are
// left alone. Returns how many posts were removed.
func (s *PostStore) SweepExpired(ctx context.Context) (int, error) {
	now := s.cfg.Now()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, ErrStoreClosed
	}
	var removed []string
	kept := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if p.Status == models.StatusTaken && p.TakenAt != nil &&
			now.Sub(*p.TakenAt) >= s.cfg.Retention && s.inflight[p.ID] == 0 {
			removed = append(removed, p.ID)
			continue
		}
		kept = append(kept, p)
	}
	s.posts = kept
	s.mu.Unlock()

	if len(removed) == 0 {
		return 0, nil
	}
	// If the durable removal fails the next poll resurrects the posts and a
	// later sweep retries; the sweep never blocks user mutations on it.
	if err := s.remote.RemovePosts(ctx, removed); err != nil {
		return len(removed), err
	}
	return len(removed), nil
}

// Close tears the store down. Results of remote calls still in flight are
// discarded rather than committed.
func (s *PostStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *PostStore) indexOf(postID string) int {
	for i := range s.posts {
		if s.posts[i].ID == postID {
			return i
		}
	}
	return -1
}

func (s *PostStore) postLock(postID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	lock, ok := s.postLocks[postID]
	if !ok {
		lock = &sync.Mutex{}
		s.postLocks[postID] = lock
	}
	return lock
}

func checkTransition(current, target string) error {
	switch current {
	case models.StatusAvailable:
		return nil
	case models.StatusReserved:
		if target == models.StatusTaken {
			return nil
		}
		return &models.ValidationError{Field: "status", Message: "post is already reserved"}
	case models.StatusTaken:
		return &models.ValidationError{Field: "status", Message: "post has already been taken"}
	default:
		return &models.ValidationError{Field: "status", Message: fmt.Sprintf("post is in unknown state %q", current)}
	}
}

func validateDraft(draft models.PostDraft, now time.Time, locations map[string]models.Location) error {
	if draft.Quantity <= 0 {
		return &models.ValidationError{Field: "quantity", Message: "quantity must be greater than 0"}
	}
	if draft.ImageURL == "" {
		return &models.ValidationError{Field: "image_url", Message: "a photo is required"}
	}
	if draft.LocationDetail == "" {
		return &models.ValidationError{Field: "location_detail", Message: "pickup details are required"}
	}
	if _, ok := locations[draft.LocationID]; !ok {
		return &models.ValidationError{Field: "location_id", Message: fmt.Sprintf("unknown location %q", draft.LocationID)}
	}
	if !draft.PickupTime.Before(draft.ExpireTime) {
		return &models.ValidationError{Field: "pickup_time", Message: "pickup time must be before the expiry time"}
	}
	if draft.ExpireTime.Before(now) {
		return &models.ValidationError{Field: "expire_time", Message: "expiry time has already passed"}
	}
	return nil
}
