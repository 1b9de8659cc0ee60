package solar

import (
	"time"

	lru "github.com/hashicorp/golang-lru"

	"sunviewgo/pkg/geo"
)

// DefaultCacheSize holds roughly a day of per-minute sun positions.
const DefaultCacheSize = 1440

// Ephemeris serves sub-solar points with minute granularity, caching results
// in an LRU. The seat scorer queries the same instants for every candidate
// flight plan, so hits dominate after the first pass.
type Ephemeris struct {
	cache *lru.Cache
}

// NewEphemeris creates an Ephemeris with the given cache size.
// size < 1 selects DefaultCacheSize.
func NewEphemeris(size int) (*Ephemeris, error) {
	if size < 1 {
		size = DefaultCacheSize
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Ephemeris{cache: c}, nil
}

// SubsolarAt returns the sub-solar point at t, truncated to the minute.
func (e *Ephemeris) SubsolarAt(t time.Time) (geo.Point, error) {
	key := t.UTC().Truncate(time.Minute)
	if v, ok := e.cache.Get(key); ok {
		return v.(geo.Point), nil
	}
	p := SubsolarPoint(key)
	e.cache.Add(key, p)
	return p, nil
}
