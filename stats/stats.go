package stats

import (
	"sync"
	"time"
)

const (
	dayWindow  = 24 * time.Hour
	weekWindow = 7 * 24 * time.Hour
)

// Store tracks per-user activity timestamps and a running request counter.
// It replaces the old global activity map: one Store is created at startup
// and passed into the handlers that need it.
type Store struct {
	mu       sync.Mutex
	activity map[int64][]time.Time
	requests int
	now      func() time.Time
}

// Counts is a snapshot of distinct-user counts over the rolling windows.
type Counts struct {
	Daily  int
	Weekly int
	Total  int
}

// NewStore creates an empty activity store.
func NewStore() *Store {
	return &Store{
		activity: make(map[int64][]time.Time),
		now:      time.Now,
	}
}

// RecordActivity marks a user as active now and drops timestamps older than
// the weekly window so the map cannot grow without bound.
func (s *Store) RecordActivity(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	kept := s.activity[userID][:0]
	for _, t := range s.activity[userID] {
		if now.Sub(t) <= weekWindow {
			kept = append(kept, t)
		}
	}
	s.activity[userID] = append(kept, now)
}

// RecordRequest increments the processed-request counter.
func (s *Store) RecordRequest() {
	s.mu.Lock()
	s.requests++
	s.mu.Unlock()
}

// Requests returns the number of requests processed since startup.
func (s *Store) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// UserCounts returns distinct user counts for the last 24 hours, the last
// 7 days, and since startup.
func (s *Store) UserCounts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var counts Counts
	for _, timestamps := range s.activity {
		counts.Total++
		daily, weekly := false, false
		for _, t := range timestamps {
			age := now.Sub(t)
			if age <= dayWindow {
				daily = true
			}
			if age <= weekWindow {
				weekly = true
			}
		}
		if daily {
			counts.Daily++
		}
		if weekly {
			counts.Weekly++
		}
	}
	return counts
}
