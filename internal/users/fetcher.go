package users

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"backend/internal/models"
	"backend/internal/store"
)

// UserGetter is the single read the fetcher needs from the document store.
type UserGetter interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

const fetchTimeout = 5 * time.Second

// Fetcher is a read-through cache in front of the user collection. Each id
// carries a generation token: Invalidate bumps the generation, and a fetch
// that resolves under a stale generation is discarded instead of overwriting
// newer state. Concurrent gets for the same id share one in-flight fetch.
type Fetcher struct {
	store UserGetter

	mu      sync.Mutex
	gens    map[string]uint64
	entries map[string]*entry
}

type entry struct {
	gen   uint64
	ready chan struct{}
	user  *models.User
	err   error
}

func NewFetcher(userStore UserGetter) *Fetcher {
	return &Fetcher{
		store:   userStore,
		gens:    make(map[string]uint64),
		entries: make(map[string]*entry),
	}
}

// Get resolves exactly one user record. A blank id fails with
// store.ErrInvalidID before any remote call. A missing document reports
// store.ErrNoSuchUser; transport failures pass through as-is. Neither error
// kind is cached, so the next Get retries.
func (f *Fetcher) Get(ctx context.Context, id string) (*models.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, store.ErrInvalidID
	}

	f.mu.Lock()
	e, ok := f.entries[id]
	if !ok {
		gen := f.gens[id] + 1
		f.gens[id] = gen
		e = &entry{gen: gen, ready: make(chan struct{})}
		f.entries[id] = e
		go f.fetch(id, e)
	}
	f.mu.Unlock()

	select {
	case <-e.ready:
		return e.user, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *Fetcher) fetch(id string, e *entry) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	e.user, e.err = f.store.GetUser(ctx, id)
	close(e.ready)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.gens[id] != e.gen {
		// Stale resolution: the id was invalidated while this fetch ran.
		if f.entries[id] == e {
			delete(f.entries, id)
		}
		return
	}
	if e.err != nil {
		delete(f.entries, id)
	}
}

// Invalidate drops the cached record and marks any in-flight fetch for the id
// as stale. Callers invoke it after writing to the record.
func (f *Fetcher) Invalidate(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.gens[id]++
	if _, ok := f.entries[id]; ok {
		log.Println("[USERS] [INFO] cache invalidated for:", id)
		delete(f.entries, id)
	}
}
