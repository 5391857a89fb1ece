package lookup

import (
	"context"
	"sync"

	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/repository"
)

// Resolver resolves receipt classification ids to names with a
// process-local read-through cache. The enumerations are effectively
// static reference data, so entries are cached forever; Invalidate is the
// explicit hook for the rare case the tables change underneath a running
// process. The resolver owns its cache and is passed by reference to
// consumers; there is no package-level shared state.
type Resolver struct {
	repo repository.LookupRepository

	mu    sync.RWMutex
	cache map[string]map[int64]string // kind → id → name ("" caches a miss)
}

// NewResolver builds a resolver over the lookup repository.
func NewResolver(repo repository.LookupRepository) *Resolver {
	return &Resolver{
		repo:  repo,
		cache: make(map[string]map[int64]string),
	}
}

// Name returns the display name for an enumeration id, reading through the
// cache. Unknown ids resolve to "" and the miss is cached too.
func (r *Resolver) Name(ctx context.Context, kind string, id int64) (string, error) {
	r.mu.RLock()
	if byID, ok := r.cache[kind]; ok {
		if name, ok := byID[id]; ok {
			r.mu.RUnlock()
			return name, nil
		}
	}
	r.mu.RUnlock()

	name, err := r.repo.GetName(ctx, kind, id)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	byID, ok := r.cache[kind]
	if !ok {
		byID = make(map[int64]string)
		r.cache[kind] = byID
	}
	byID[id] = name
	r.mu.Unlock()
	return name, nil
}

// CategoryName is a convenience for the kind used by the recorder.
func (r *Resolver) CategoryName(ctx context.Context, id int64) (string, error) {
	return r.Name(ctx, entity.LookupCategory, id)
}

// Invalidate drops every cached entry, including cached misses.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	r.cache = make(map[string]map[int64]string)
	r.mu.Unlock()
}

// All lists the four enumerations, bypassing the cache (reference data
// endpoints want the authoritative rows).
func (r *Resolver) All(ctx context.Context) (map[string][]entity.LookupEntry, error) {
	out := make(map[string][]entity.LookupEntry, 4)
	for _, kind := range []string{entity.LookupCategory, entity.LookupKind, entity.LookupType, entity.LookupName} {
		entries, err := r.repo.List(ctx, kind)
		if err != nil {
			return nil, err
		}
		out[kind] = entries
	}
	return out, nil
}
