// Package store holds the per-user volatile state: profiles (premium
// flag, mood log) and bounded conversation history. Both stores are
// in-process only; a restart loses everything, which is the accepted
// durability model.
package store

import (
	"sync"
	"time"
)

type MoodEntry struct {
	Score      int       `json:"score"`
	ObservedAt time.Time `json:"observedAt"`
}

type profile struct {
	premium      bool
	moodLog      []MoodEntry
	lastActivity time.Time
}

// ProfileStore is safe for concurrent use. Reads for unknown ids behave
// as default-profile reads and never fail.
type ProfileStore struct {
	mu    sync.RWMutex
	users map[string]*profile
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{users: map[string]*profile{}}
}

func (s *ProfileStore) getOrCreateLocked(id string) *profile {
	p, ok := s.users[id]
	if !ok {
		p = &profile{}
		s.users[id] = p
	}
	return p
}

// Touch records inbound activity for id, creating the profile lazily.
func (s *ProfileStore) Touch(id string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreateLocked(id).lastActivity = now
}

func (s *ProfileStore) SetPremium(id string, premium bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreateLocked(id).premium = premium
}

func (s *ProfileStore) IsPremium(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.users[id]
	return ok && p.premium
}

// AppendMood appends to the mood log. The log is append-only and
// unbounded: entries are tiny and /mood averages want the full series.
func (s *ProfileStore) AppendMood(id string, score int, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.getOrCreateLocked(id)
	p.moodLog = append(p.moodLog, MoodEntry{Score: score, ObservedAt: now})
}

// MoodLog returns the chronological mood log (a copy; empty if unknown).
func (s *ProfileStore) MoodLog(id string) []MoodEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.users[id]
	if !ok || len(p.moodLog) == 0 {
		return nil
	}
	return append([]MoodEntry(nil), p.moodLog...)
}

func (s *ProfileStore) LastActivity(id string) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.users[id]
	if !ok {
		return time.Time{}
	}
	return p.lastActivity
}

// UserIDs returns every id that has a profile, in no particular order.
func (s *ProfileStore) UserIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.users))
	for id := range s.users {
		out = append(out, id)
	}
	return out
}
