package selection

import (
	"context"
	"sync"

	"github.com/habedi/showcase/catalog"
	"github.com/rs/zerolog/log"
)

// Persister stores a catalogue snapshot.
type Persister interface {
	Persist(ctx context.Context, c catalog.Catalog) error
}

// persistQueue writes catalogue snapshots one at a time in the background.
// When several snapshots arrive while a write is running only the newest is
// written next, so the store always converges on the latest catalogue.
type persistQueue struct {
	store Persister

	mu      sync.Mutex
	idle    *sync.Cond
	pending catalog.Catalog
	queued  bool
	running bool
}

func newPersistQueue(store Persister) *persistQueue {
	q := &persistQueue{store: store}
	q.idle = sync.NewCond(&q.mu)
	return q
}

func (q *persistQueue) enqueue(c catalog.Catalog) {
	if q.store == nil {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = c
	q.queued = true
	if !q.running {
		q.running = true
		go q.run()
	}
}

func (q *persistQueue) run() {
	for {
		q.mu.Lock()
		if !q.queued {
			q.running = false
			q.idle.Broadcast()
			q.mu.Unlock()
			return
		}
		snapshot := q.pending
		q.pending = nil
		q.queued = false
		q.mu.Unlock()

		if err := q.store.Persist(context.Background(), snapshot); err != nil {
			log.Warn().Err(err).Int("entries", len(snapshot)).Msg("Failed to persist catalogue")
			continue
		}
		log.Debug().Int("entries", len(snapshot)).Msg("Catalogue persisted")
	}
}

func (q *persistQueue) wait() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.running {
		q.idle.Wait()
	}
}
