package workers

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"food-share-system/services"
)

// PollPosts periodically re-fetches the post collection from the simulated
// remote to reconcile out-of-band changes (other sessions, sweep removals
// that failed to land). The store itself refuses to apply a poll result while
// a local mutation is in flight, so stale reads never clobber optimistic
// state. Jitter spreads polls so they don't align with the sweep schedule.
func PollPosts(ctx context.Context, store *services.PostStore, pollInterval, jitter time.Duration) {
	log.Println("Starting post refresh polling...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Post refresh polling stopped.")
			return
		case <-ticker.C:
			if jitter > 0 {
				time.Sleep(time.Duration(rand.Int63n(int64(jitter))))
			}
			if err := store.Refresh(ctx); err != nil {
				if errors.Is(err, services.ErrStoreClosed) || errors.Is(err, context.Canceled) {
					log.Println("Post refresh polling stopped.")
					return
				}
				log.Printf("❌ Error refreshing posts: %v", err)
			}
		}
	}
}
