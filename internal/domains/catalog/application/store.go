package application

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Apurer/go-gin-pos-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/catalog/ports"
	apierrors "github.com/Apurer/go-gin-pos-server/internal/shared/errors"
)

// Store holds the catalog snapshot the order engine prices against.
type Store struct {
	repo ports.Repository
	now  func() time.Time

	mu          sync.RWMutex
	snapshot    *domain.Snapshot
	applied     uint64
	subscribers []func(*domain.Snapshot)

	tokens atomic.Uint64
}

// NewStore creates a store holding the empty snapshot until the first refresh.
func NewStore(repo ports.Repository) *Store {
	return &Store{
		repo:     repo,
		now:      time.Now,
		snapshot: domain.EmptySnapshot(),
	}
}

// WithClock overrides the time source for deterministic testing.
func (s *Store) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Subscribe registers fn to run after every applied refresh, in registration order.
func (s *Store) Subscribe(fn func(*domain.Snapshot)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Snapshot returns the current catalog view.
func (s *Store) Snapshot() *domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Refresh loads items and tables concurrently and swaps the snapshot only when
// both reads succeed. A refresh that finishes after a newer one has already
// been applied is discarded and the newer snapshot is returned.
func (s *Store) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	token := s.tokens.Add(1)

	var (
		items  []domain.MenuItem
		tables []domain.Table
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.repo.ListItems(gctx)
		if err != nil {
			return apierrors.NewPersistenceError("list items", err)
		}
		items = list
		return nil
	})
	g.Go(func() error {
		list, err := s.repo.ListTables(gctx)
		if err != nil {
			return apierrors.NewPersistenceError("list tables", err)
		}
		tables = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if token <= s.applied {
		current := s.snapshot
		s.mu.Unlock()
		return current, nil
	}
	next := domain.NewSnapshot(items, tables, s.snapshot.Generation+1, s.now())
	s.snapshot = next
	s.applied = token
	subscribers := append([]func(*domain.Snapshot){}, s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(next)
	}
	return next, nil
}
