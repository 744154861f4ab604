package datashare

import (
	"context"
	"errors"
	"sync"

	"github.com/navikt/gds-console/pkg/service"
)

// ErrStaleResponse is returned by ListFetcher.Fetch when a newer fetch was
// issued before the response arrived. The response is not applied.
var ErrStaleResponse = errors.New("stale list response discarded")

type PageFunc[T any] func(ctx context.Context, q service.ListQuery) (*service.Page[T], error)

// ListFetcher loads pages of a list belonging to one datashare and keeps the
// displayed page. Only the most recently issued fetch may update it.
type ListFetcher[T any] struct {
	fetch       PageFunc[T]
	dataShareID int64
	pageSize    int
	onStale     func()

	mu     sync.Mutex
	latest uint64
	state  service.ListState[T]
}

func NewListFetcher[T any](dataShareID int64, pageSize int, fetch PageFunc[T], onStale func()) *ListFetcher[T] {
	if pageSize <= 0 {
		pageSize = ItemsPerPage
	}

	return &ListFetcher[T]{
		fetch:       fetch,
		dataShareID: dataShareID,
		pageSize:    pageSize,
		onStale:     onStale,
		state: service.ListState[T]{
			Items:     []T{},
			PageSize:  pageSize,
			Filter:    map[string]string{},
			LoadState: service.LoadStateIdle,
		},
	}
}

// Fetch requests one page of the list, or the complete list when all is set.
// Complete-list fetches return the items without touching the displayed
// page.
func (f *ListFetcher[T]) Fetch(ctx context.Context, filter map[string]string, page int, all bool) ([]T, error) {
	if all {
		res, err := f.fetch(ctx, f.query(filter, 0, CompleteListPageSize))
		if err != nil {
			return nil, err
		}

		if res == nil {
			return []T{}, nil
		}

		return nonNil(res.List), nil
	}

	f.mu.Lock()
	f.latest++
	id := f.latest
	f.state.LoadState = service.LoadStateLoading
	f.mu.Unlock()

	res, err := f.fetch(ctx, f.query(filter, page, f.pageSize))

	f.mu.Lock()
	defer f.mu.Unlock()

	if id != f.latest {
		if f.onStale != nil {
			f.onStale()
		}

		return nil, ErrStaleResponse
	}

	if err != nil {
		f.state.LoadState = service.LoadStateFailed

		return nil, err
	}

	if res == nil {
		res = &service.Page[T]{}
	}

	items := nonNil(res.List)

	f.state.Items = items
	f.state.Page = page
	f.state.TotalCount = res.TotalCount
	f.state.PageCount = PageCount(res.TotalCount, f.pageSize)
	f.state.Filter = copyFilter(filter)
	f.state.LoadState = service.LoadStateLoaded

	return items, nil
}

// Refresh fetches the displayed page again with the displayed filter.
func (f *ListFetcher[T]) Refresh(ctx context.Context) ([]T, error) {
	f.mu.Lock()
	filter, page := copyFilter(f.state.Filter), f.state.Page
	f.mu.Unlock()

	return f.Fetch(ctx, filter, page, false)
}

// State returns a copy of the displayed page.
func (f *ListFetcher[T]) State() service.ListState[T] {
	f.mu.Lock()
	defer f.mu.Unlock()

	st := f.state
	st.Items = append([]T{}, f.state.Items...)
	st.Filter = copyFilter(f.state.Filter)

	return st
}

// Filter returns the filter of the displayed page.
func (f *ListFetcher[T]) Filter() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return copyFilter(f.state.Filter)
}

// Find returns the first displayed item matching fn.
func (f *ListFetcher[T]) Find(fn func(T) bool) (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, item := range f.state.Items {
		if fn(item) {
			return item, true
		}
	}

	var zero T

	return zero, false
}

func (f *ListFetcher[T]) query(filter map[string]string, page, pageSize int) service.ListQuery {
	return service.ListQuery{
		DataShareID: f.dataShareID,
		Page:        page,
		PageSize:    pageSize,
		StartIndex:  StartIndex(page, pageSize),
		Filter:      copyFilter(filter),
	}
}

func copyFilter(filter map[string]string) map[string]string {
	out := make(map[string]string, len(filter))
	for k, v := range filter {
		out[k] = v
	}

	return out
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}

	return items
}
