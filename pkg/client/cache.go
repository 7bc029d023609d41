package client

import "sync"

// Endpoint names double as page cache keys.
const (
	EndpointGallery = "getGallery"
	EndpointSearch  = "getSearch"
	EndpointArtists = "getArtists"
)

type pageEntry[T any] struct {
	args       string
	items      []T
	hasMore    bool
	totalCount int64
}

// pageCache keeps one accumulated list per endpoint name.
type pageCache[T any] struct {
	mu      sync.Mutex
	entries map[string]*pageEntry[T]
}

func newPageCache[T any]() *pageCache[T] {
	return &pageCache[T]{entries: make(map[string]*pageEntry[T])}
}

// merge folds a fetched page into the entry for endpoint and returns a copy
// of the result. Page zero, or a page fetched with different arguments,
// replaces the entry. Later pages append and take hasMore from the newest
// page.
func (c *pageCache[T]) merge(endpoint, args string, page int, items []T, hasMore bool, totalCount int64) ([]T, bool, int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[endpoint]
	if !ok || page == 0 || entry.args != args {
		entry = &pageEntry[T]{args: args}
		c.entries[endpoint] = entry
		entry.items = append([]T{}, items...)
	} else {
		entry.items = append(entry.items, items...)
	}
	entry.hasMore = hasMore
	entry.totalCount = totalCount

	return append([]T{}, entry.items...), entry.hasMore, entry.totalCount
}

// get returns a copy of the entry for endpoint.
func (c *pageCache[T]) get(endpoint string) ([]T, bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[endpoint]
	if !ok {
		return nil, false, false
	}
	return append([]T{}, entry.items...), entry.hasMore, true
}

func (c *pageCache[T]) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}
