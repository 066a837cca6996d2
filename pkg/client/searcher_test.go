package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchRecorder struct {
	mu      sync.Mutex
	queries []string
	results []string
}

func (r *searchRecorder) search(ctx context.Context, query string) ([]Product, error) {
	r.mu.Lock()
	r.queries = append(r.queries, query)
	r.mu.Unlock()
	return []Product{{ID: query}}, nil
}

func (r *searchRecorder) onResult(query string, products []Product, err error) {
	r.mu.Lock()
	r.results = append(r.results, query)
	r.mu.Unlock()
}

func (r *searchRecorder) snapshot() ([]string, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...), append([]string(nil), r.results...)
}

func TestSearcher_DebouncesRapidTyping(t *testing.T) {
	rec := &searchRecorder{}
	s := NewSearcher(rec.search, rec.onResult)
	s.SetDebounce(20 * time.Millisecond)

	ctx := context.Background()
	s.Query(ctx, "b")
	s.Query(ctx, "bi")
	s.Query(ctx, "bik")
	s.Query(ctx, "bike")

	require.Eventually(t, func() bool {
		_, results := rec.snapshot()
		return len(results) == 1
	}, time.Second, 5*time.Millisecond)

	queries, results := rec.snapshot()
	// Only the final keystroke survives the debounce window.
	assert.Equal(t, []string{"bike"}, queries)
	assert.Equal(t, []string{"bike"}, results)
}

func TestSearcher_EmptyQueryCancelsPending(t *testing.T) {
	rec := &searchRecorder{}
	s := NewSearcher(rec.search, rec.onResult)
	s.SetDebounce(20 * time.Millisecond)

	ctx := context.Background()
	s.Query(ctx, "bike")
	s.Query(ctx, "")

	time.Sleep(60 * time.Millisecond)
	queries, results := rec.snapshot()
	assert.Empty(t, queries)
	assert.Empty(t, results)
}

func TestSearcher_CancelDropsPending(t *testing.T) {
	rec := &searchRecorder{}
	s := NewSearcher(rec.search, rec.onResult)
	s.SetDebounce(20 * time.Millisecond)

	s.Query(context.Background(), "bike")
	s.Cancel()

	time.Sleep(60 * time.Millisecond)
	_, results := rec.snapshot()
	assert.Empty(t, results)
}
