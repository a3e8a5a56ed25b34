package store

import "sync"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	FreeCapacity    = 10
	PremiumCapacity = 50
)

// TierSource reports the current premium flag for an id. The history
// store re-reads it on every save so an upgrade takes effect on the
// very next append, not when the history was created.
type TierSource interface {
	IsPremium(id string) bool
}

func CapacityFor(premium bool) int {
	if premium {
		return PremiumCapacity
	}
	return FreeCapacity
}

// HistoryStore keeps per-user conversation turns bounded to
// 2*capacity, evicting the oldest non-system turns first. Safe for
// concurrent use.
type HistoryStore struct {
	mu    sync.RWMutex
	tier  TierSource
	turns map[string][]Turn
}

func NewHistoryStore(tier TierSource) *HistoryStore {
	return &HistoryStore{tier: tier, turns: map[string][]Turn{}}
}

// Append pushes a user turn then an assistant turn, then trims to the
// current capacity for id.
func (s *HistoryStore) Append(id, userText, assistantText string) {
	capacity := FreeCapacity
	if s.tier != nil {
		capacity = CapacityFor(s.tier.IsPremium(id))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	turns := append(s.turns[id],
		Turn{Role: RoleUser, Content: userText},
		Turn{Role: RoleAssistant, Content: assistantText},
	)
	s.turns[id] = trimTurns(turns, capacity)
}

// Get returns the chronological history for id (a copy; empty if none).
func (s *HistoryStore) Get(id string) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := s.turns[id]
	if len(turns) == 0 {
		return nil
	}
	return append([]Turn(nil), turns...)
}

// Clear removes all history for id, system turn included.
func (s *HistoryStore) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.turns, id)
}

// trimTurns keeps an optional leading system turn plus the most recent
// 2*capacity entries.
func trimTurns(turns []Turn, capacity int) []Turn {
	maxTurns := 2 * capacity
	var system []Turn
	rest := turns
	if len(rest) > 0 && rest[0].Role == RoleSystem {
		system = rest[:1]
		rest = rest[1:]
	}
	if len(rest) > maxTurns {
		rest = rest[len(rest)-maxTurns:]
	}
	if len(system) == 0 {
		return rest
	}
	return append(append([]Turn(nil), system...), rest...)
}
