package client

import (
	"context"
	"sync"
	"time"
)

const defaultDebounce = 300 * time.Millisecond

// SearchFunc performs the actual search. The Client's SearchProducts,
// adapted, is the usual implementation.
type SearchFunc func(ctx context.Context, query string) ([]Product, error)

// Searcher debounces search-as-you-type input: a query is executed only after
// the debounce interval passes with no further keystrokes, and a completion
// from a superseded query is discarded.
type Searcher struct {
	mu       sync.Mutex
	search   SearchFunc
	onResult func(query string, products []Product, err error)
	debounce time.Duration
	timer    *time.Timer
	epoch    uint64
}

func NewSearcher(search SearchFunc, onResult func(query string, products []Product, err error)) *Searcher {
	return &Searcher{
		search:   search,
		onResult: onResult,
		debounce: defaultDebounce,
	}
}

// SetDebounce overrides the interval. Useful in tests.
func (s *Searcher) SetDebounce(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debounce = d
}

// Query schedules query after the debounce interval, replacing any pending
// one. An empty query cancels the pending search without running anything.
func (s *Searcher) Query(ctx context.Context, query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if query == "" {
		return
	}

	epoch := s.epoch
	s.timer = time.AfterFunc(s.debounce, func() {
		products, err := s.search(ctx, query)

		s.mu.Lock()
		stale := s.epoch != epoch
		s.mu.Unlock()
		if stale {
			return
		}
		s.onResult(query, products, err)
	})
}

// Cancel drops any pending query and invalidates in-flight completions.
func (s *Searcher) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
