package host

import (
	"context"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedLoader memoizes airport catalogs by identifier. Catalogs are
// read-only, so cached values are shared between callers.
type CachedLoader struct {
	next  FacilityLoader
	cache *lru.Cache[ICAO, *Airport]
}

// NewCachedLoader wraps next with an LRU cache of the given size.
func NewCachedLoader(next FacilityLoader, size int) (*CachedLoader, error) {
	if size <= 0 {
		size = 32
	}
	c, err := lru.New[ICAO, *Airport](size)
	if err != nil {
		return nil, err
	}
	return &CachedLoader{next: next, cache: c}, nil
}

func (l *CachedLoader) Airport(ctx context.Context, id ICAO) (*Airport, error) {
	if ap, ok := l.cache.Get(id); ok {
		return ap, nil
	}
	ap, err := l.next.Airport(ctx, id)
	if err != nil {
		return nil, err
	}
	slog.Debug("airport catalog loaded", "airport", id.Ident(), "runways", len(ap.Runways))
	l.cache.Add(id, ap)
	return ap, nil
}

// Purge drops every cached catalog.
func (l *CachedLoader) Purge() {
	l.cache.Purge()
}

// Len returns the number of cached catalogs.
func (l *CachedLoader) Len() int {
	return l.cache.Len()
}
