package cache

import (
	"sync"
	"time"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/storage"
)

// Entry is one cached lookup result.
type Entry struct {
	Shipment storage.Shipment
	Log      []storage.StatusLogEntry
}

type item struct {
	entry   Entry
	expires time.Time
}

// ShipmentCache holds recent lookups by tracking number for ttl. Every
// Invalidate bumps a generation counter, and Set refuses entries read under
// an older generation, so a lookup racing an append cannot put the
// pre-append state back.
type ShipmentCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	cache   map[string]*item
	byID    map[string]string
	gen     uint64
	timeNow func() time.Time
}

// NewShipmentCache returns a cache that keeps entries for ttl. A ttl of zero
// turns caching off.
func NewShipmentCache(ttl time.Duration) *ShipmentCache {
	return &ShipmentCache{
		ttl:     ttl,
		cache:   make(map[string]*item),
		byID:    make(map[string]string),
		timeNow: time.Now,
	}
}

func (c *ShipmentCache) Get(trackingNumber string) (*Entry, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	it, found := c.cache[trackingNumber]
	if !found || !c.timeNow().Before(it.expires) {
		return nil, false
	}
	entry := Entry{
		Shipment: it.entry.Shipment,
		Log:      append([]storage.StatusLogEntry(nil), it.entry.Log...),
	}
	return &entry, true
}

// Generation must be read before the store lookup whose result is passed
// to Set.
func (c *ShipmentCache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// Set stores e unless an invalidation happened after gen was read.
func (c *ShipmentCache) Set(gen uint64, e Entry) bool {
	if c.ttl <= 0 {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.cache[e.Shipment.TrackingNumber] = &item{
		entry: Entry{
			Shipment: e.Shipment,
			Log:      append([]storage.StatusLogEntry(nil), e.Log...),
		},
		expires: c.timeNow().Add(c.ttl),
	}
	c.byID[e.Shipment.ID] = e.Shipment.TrackingNumber
	metrics.ViewCacheItems.Set(float64(len(c.cache)))
	return true
}

func (c *ShipmentCache) Invalidate(shipmentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if trackingNumber, found := c.byID[shipmentID]; found {
		delete(c.cache, trackingNumber)
		delete(c.byID, shipmentID)
		metrics.ViewCacheItems.Set(float64(len(c.cache)))
	}
}

// Purge drops expired entries and returns how many were removed.
func (c *ShipmentCache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.timeNow()
	removed := 0
	for trackingNumber, it := range c.cache {
		if !now.Before(it.expires) {
			delete(c.cache, trackingNumber)
			delete(c.byID, it.entry.Shipment.ID)
			removed++
		}
	}
	metrics.ViewCacheItems.Set(float64(len(c.cache)))
	return removed
}

func (c *ShipmentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
