package client

import (
	"context"
	"sync"
)

type FeedState int

const (
	FeedIdle FeedState = iota
	FeedLoading
	FeedExhausted
)

// PageFetcher loads one page of products. The Client's ProductsByCategory,
// adapted, is the usual implementation.
type PageFetcher func(ctx context.Context, category string, filter Filter, page, limit int) (*ProductPage, error)

// Feed accumulates the infinite-scroll result set for one category+filter
// combination. Changing either resets the feed. Every load carries the epoch
// it was started under; a completion whose epoch no longer matches is
// discarded, so a slow response from before a reset can never overwrite the
// fresher state.
type Feed struct {
	mu    sync.Mutex
	fetch PageFetcher

	category string
	filter   Filter
	page     int
	limit    int
	products []Product
	state    FeedState
	epoch    uint64
}

func NewFeed(fetch PageFetcher, category string, limit int) *Feed {
	if limit < 1 {
		limit = 10
	}
	return &Feed{
		fetch:    fetch,
		category: category,
		page:     1,
		limit:    limit,
	}
}

// SetCategory resets the feed to page one of a new category.
func (f *Feed) SetCategory(category string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if category == f.category {
		return
	}
	f.category = category
	f.resetLocked()
}

// SetFilter resets the feed under the new filter.
func (f *Feed) SetFilter(filter Filter) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter = filter
	f.resetLocked()
}

func (f *Feed) resetLocked() {
	f.page = 1
	f.products = nil
	f.state = FeedIdle
	f.epoch++
}

func (f *Feed) State() FeedState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Products returns a copy of everything loaded so far.
func (f *Feed) Products() []Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Product, len(f.products))
	copy(out, f.products)
	return out
}

// LoadMore fetches the next page and appends it. Calls are suppressed while
// a load is in flight or the feed is exhausted; suppressed calls return nil.
// An empty page or a not-found category marks the feed exhausted.
func (f *Feed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if f.state != FeedIdle {
		f.mu.Unlock()
		return nil
	}
	f.state = FeedLoading
	epoch := f.epoch
	category, filter, page, limit := f.category, f.filter, f.page, f.limit
	f.mu.Unlock()

	result, err := f.fetch(ctx, category, filter, page, limit)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.epoch != epoch {
		// The feed was reset while this request was in flight.
		return nil
	}

	if err != nil {
		if IsNotFound(err) {
			f.state = FeedExhausted
			return nil
		}
		f.state = FeedIdle
		return err
	}

	if len(result.Products) == 0 {
		f.state = FeedExhausted
		return nil
	}

	f.products = append(f.products, result.Products...)
	f.page = page + 1
	if page >= result.TotalPages {
		f.state = FeedExhausted
	} else {
		f.state = FeedIdle
	}
	return nil
}
