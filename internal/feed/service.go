package feed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Store persists the feed between runs.
type Store interface {
	Load() ([]Item, error)
	Save([]Item) error
	Close() error
}

// Service owns the in-memory feed and fetches pages from the generator.
// The refresh container's actions call into it from a detached goroutine,
// so all item access goes through the mutex.
type Service struct {
	gen    *Generator
	store  Store
	logger *slog.Logger

	pageSize    int
	failureRate float64
	fetchDelay  time.Duration
	failRng     *rand.Rand

	mu    sync.RWMutex
	items []Item
}

// NewService creates a feed service backed by the given store.
func NewService(gen *Generator, store Store, logger *slog.Logger, pageSize int, failureRate float64, seed int64) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Service{
		gen:         gen,
		store:       store,
		logger:      logger,
		pageSize:    pageSize,
		failureRate: failureRate,
		fetchDelay:  350 * time.Millisecond,
		failRng:     rand.New(rand.NewSource(seed)),
	}
}

// Restore loads the cached feed, falling back to a fresh first page.
func (s *Service) Restore(ctx context.Context) error {
	cached, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("loading cached feed: %w", err)
	}
	if len(cached) > 0 {
		s.mu.Lock()
		s.items = cached
		s.mu.Unlock()
		s.logger.Info("feed restored from cache", "items", len(cached))
		return nil
	}

	_, err = s.RefreshNewest(ctx)
	return err
}

// Items returns a snapshot of the feed, most recent first.
func (s *Service) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// RefreshNewest fetches a page of items newer than the current head and
// prepends it. Injected failures simulate an unreachable feed.
func (s *Service) RefreshNewest(ctx context.Context) (int, error) {
	if err := s.maybeFail(ctx, "refresh"); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var head time.Time
	if len(s.items) > 0 {
		head = s.items[0].Published
	}
	page := s.gen.Newer(head, s.pageSize)
	s.items = append(page, s.items...)
	s.sortLocked()

	if err := s.store.Save(s.items); err != nil {
		s.logger.Warn("failed to persist feed", "error", err)
	}
	s.logger.Info("feed refreshed", "fetched", len(page), "total", len(s.items))
	return len(page), nil
}

// LoadOlder fetches a page of items older than the current tail and
// appends it.
func (s *Service) LoadOlder(ctx context.Context) (int, error) {
	if err := s.maybeFail(ctx, "load older"); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tail := time.Now()
	if len(s.items) > 0 {
		tail = s.items[len(s.items)-1].Published
	}
	page := s.gen.Older(tail, s.pageSize)
	s.items = append(s.items, page...)
	s.sortLocked()

	if err := s.store.Save(s.items); err != nil {
		s.logger.Warn("failed to persist feed", "error", err)
	}
	s.logger.Info("older page loaded", "fetched", len(page), "total", len(s.items))
	return len(page), nil
}

// Search ranks feed items against the query, best match first.
func (s *Service) Search(query string) []Item {
	s.mu.RLock()
	items := make([]Item, len(s.items))
	copy(items, s.items)
	s.mu.RUnlock()

	if strings.TrimSpace(query) == "" {
		return items
	}

	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}

	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Sort(ranks)

	out := make([]Item, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, items[r.OriginalIndex])
	}
	return out
}

// maybeFail injects a deterministic fetch failure so the failed state is
// reachable in the demo without a real network.
func (s *Service) maybeFail(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Simulated fetch latency so the loading state is visible.
	if s.fetchDelay > 0 {
		select {
		case <-time.After(s.fetchDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	roll := s.failRng.Float64()
	s.mu.Unlock()
	if roll < s.failureRate {
		s.logger.Warn("injected feed failure", "op", op)
		return fmt.Errorf("%s: feed unavailable", op)
	}
	return nil
}

func (s *Service) sortLocked() {
	sort.SliceStable(s.items, func(i, j int) bool {
		return s.items[i].Published.After(s.items[j].Published)
	})
}
