// Package session keeps the per-client storefront state: the cart, the
// identified user, and the order history, hydrated lazily from the durable
// store and mirrored back on every mutation.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/hamadpass/khodarji-backend/internal/orders"
	"github.com/hamadpass/khodarji-backend/internal/users"
	"github.com/hamadpass/khodarji-backend/pkg/logger"
)

type collectionStore interface {
	Read(ctx context.Context, key string, dest any) error
	Write(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// Manager owns the live sessions, creating and hydrating them on demand.
type Manager struct {
	store   collectionStore
	users   users.Service
	orders  orders.Service
	pricing *orders.Pricing
	logg    *logger.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager wires the session registry over its backing services.
func NewManager(store collectionStore, usersSvc users.Service, ordersSvc orders.Service, pricing *orders.Pricing, logg *logger.Logger) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("storage required")
	}
	if usersSvc == nil {
		return nil, fmt.Errorf("users service required")
	}
	if ordersSvc == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if pricing == nil {
		return nil, fmt.Errorf("pricing required")
	}
	return &Manager{
		store:    store,
		users:    usersSvc,
		orders:   ordersSvc,
		pricing:  pricing,
		logg:     logg,
		sessions: make(map[string]*Session),
	}, nil
}

// Session returns the live session for id, hydrating it from the durable
// store on first access. Cart and user restore independently: a failure in
// one never blocks the other.
func (m *Manager) Session(ctx context.Context, id string) *Session {
	m.mu.Lock()
	if existing, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		return existing
	}
	sess := newSession(id, m)
	m.sessions[id] = sess
	m.mu.Unlock()

	sess.hydrate(ctx)
	return sess
}

func (m *Manager) warn(ctx context.Context, msg string, err error) {
	if m.logg == nil {
		return
	}
	logCtx := m.logg.WithField(ctx, "error", err.Error())
	m.logg.Warn(logCtx, msg)
}
