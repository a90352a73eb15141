package booking

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"carebook/models"
)

// MemoryHoldStore is an in-process HoldStore with the same contract as the
// Redis-backed one. It serves tests and single-node local development.
type MemoryHoldStore struct {
	mu      sync.Mutex
	entries map[string]memoryHoldEntry

	// Now is a clock seam for tests; nil means time.Now.
	Now func() time.Time
}

type memoryHoldEntry struct {
	hold      models.BookingHold
	expiresAt time.Time
}

// NewMemoryHoldStore returns an empty in-memory hold store.
func NewMemoryHoldStore() *MemoryHoldStore {
	return &MemoryHoldStore{entries: make(map[string]memoryHoldEntry)}
}

func (s *MemoryHoldStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *MemoryHoldStore) Create(_ context.Context, serviceID string, slot time.Time, ttl time.Duration, details models.BookingHold) (*models.BookingHold, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("hold ttl must be positive, got %s", ttl)
	}
	now := s.now()
	hold := details
	hold.ServiceID = serviceID
	hold.Slot = slot.UTC()
	hold.CreatedAt = now.UTC()
	hold.TTLSeconds = int(ttl.Seconds())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[holdKey(serviceID, slot)] = memoryHoldEntry{hold: hold, expiresAt: now.Add(ttl)}
	return &hold, nil
}

func (s *MemoryHoldStore) Get(_ context.Context, serviceID string, slot time.Time) (*models.BookingHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := holdKey(serviceID, slot)
	entry, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	remaining := entry.expiresAt.Sub(s.now())
	if remaining <= 0 {
		delete(s.entries, key)
		return nil, nil
	}
	hold := entry.hold
	hold.TTLSeconds = int(math.Ceil(remaining.Seconds()))
	return &hold, nil
}

func (s *MemoryHoldStore) Release(_ context.Context, serviceID string, slot time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := holdKey(serviceID, slot)
	entry, ok := s.entries[key]
	if !ok {
		return false, nil
	}
	delete(s.entries, key)
	// An expired entry still in the map counts as already gone.
	return entry.expiresAt.After(s.now()), nil
}

func (s *MemoryHoldStore) Extend(_ context.Context, serviceID string, slot time.Time, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, fmt.Errorf("hold ttl must be positive, got %s", ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := holdKey(serviceID, slot)
	entry, ok := s.entries[key]
	if !ok || !entry.expiresAt.After(s.now()) {
		delete(s.entries, key)
		return false, nil
	}
	entry.expiresAt = s.now().Add(ttl)
	s.entries[key] = entry
	return true, nil
}

func (s *MemoryHoldStore) Exists(_ context.Context, serviceID string, slot time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := holdKey(serviceID, slot)
	entry, ok := s.entries[key]
	if !ok {
		return false, nil
	}
	if !entry.expiresAt.After(s.now()) {
		delete(s.entries, key)
		return false, nil
	}
	return true, nil
}
