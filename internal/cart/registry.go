package cart

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type entry struct {
	store    *Store
	lastSeen time.Time
}

// Registry owns one Store per client cart id. Carts are kept in memory only
// and are dropped after idleTTL without access.
type Registry struct {
	mu      sync.RWMutex
	carts   map[string]*entry
	idleTTL time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(idleTTL time.Duration, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		carts:   make(map[string]*entry),
		idleTTL: idleTTL,
		logger:  logger,
		now:     time.Now,
	}
}

// Open creates a new empty cart and returns its id.
func (r *Registry) Open() (string, *Store) {
	id := uuid.NewString()
	store := NewStore(r.logger.With(zap.String("cart_id", id)))
	r.mu.Lock()
	r.carts[id] = &entry{store: store, lastSeen: r.now()}
	r.mu.Unlock()
	return id, store
}

// Get returns the cart for id and refreshes its idle timer. Expired carts
// are removed and reported as missing.
func (r *Registry) Get(id string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.carts[id]
	if !ok {
		return nil, false
	}
	now := r.now()
	if r.idleTTL > 0 && now.Sub(e.lastSeen) > r.idleTTL {
		delete(r.carts, id)
		r.logger.Debug("cart: expired idle cart", zap.String("cart_id", id))
		return nil, false
	}
	e.lastSeen = now
	return e.store, true
}

// Drop forgets the cart for id.
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	delete(r.carts, id)
	r.mu.Unlock()
}

// Sweep removes every idle cart and returns how many were dropped.
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	dropped := 0
	for id, e := range r.carts {
		if now.Sub(e.lastSeen) > r.idleTTL {
			delete(r.carts, id)
			dropped++
		}
	}
	return dropped
}

// Len reports how many carts are held.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.carts)
}
