package service

import (
	"sync"

	"github.com/grandstay/booking-console/internal/core/domain"
)

// bookingCache holds the optimistic status of bookings whose transition is
// still waiting for the server. Reads overlay these entries on server data.
// Versions come from one counter, so a stale rollback or settle never removes
// a newer entry.
type bookingCache struct {
	mu       sync.Mutex
	seq      uint64
	inflight map[int64]optimisticEntry
}

type optimisticEntry struct {
	booking domain.Booking
	version uint64
}

func newBookingCache() *bookingCache {
	return &bookingCache{inflight: make(map[int64]optimisticEntry)}
}

// get returns the optimistic view of a booking while a transition is in flight.
func (c *bookingCache) get(id int64) (domain.Booking, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.inflight[id]
	return e.booking, ok
}

// applyOptimistic records current with its status set to target and returns
// the version the caller owns.
func (c *bookingCache) applyOptimistic(current domain.Booking, target domain.BookingStatus) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	current.Status = target
	c.inflight[current.ID] = optimisticEntry{booking: current, version: c.seq}
	return c.seq
}

// rollback drops the optimistic entry so reads fall back to server state.
// It reports false when a newer transition owns the entry.
func (c *bookingCache) rollback(id int64, version uint64) bool {
	return c.release(id, version)
}

// settle drops the optimistic entry once the server has answered.
func (c *bookingCache) settle(id int64, version uint64) {
	c.release(id, version)
}

func (c *bookingCache) release(id int64, version uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.inflight[id]
	if !ok || e.version != version {
		return false
	}
	delete(c.inflight, id)
	return true
}

// overlay returns bs with in-flight optimistic statuses applied.
func (c *bookingCache) overlay(bs []domain.Booking) []domain.Booking {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.inflight) == 0 {
		return bs
	}
	out := make([]domain.Booking, len(bs))
	for i, b := range bs {
		if e, ok := c.inflight[b.ID]; ok {
			b.Status = e.booking.Status
		}
		out[i] = b
	}
	return out
}

func (c *bookingCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inflight)
}
