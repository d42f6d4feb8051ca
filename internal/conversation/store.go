// Package conversation keeps the recent question/answer turns of each user.
package conversation

import (
	"sync"
	"time"

	"childcare-assistant/internal/models"

	"github.com/google/uuid"
)

// DefaultLimit is the number of turns kept per user.
const DefaultLimit = 10

// Store is an in-memory, per-user bounded history. Nothing is persisted.
type Store struct {
	mu    sync.RWMutex
	turns map[string][]models.Turn
	limit int
	now   func() time.Time
}

func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{
		turns: make(map[string][]models.Turn),
		limit: limit,
		now:   time.Now,
	}
}

// Append records a turn for userID, dropping the oldest turns beyond the
// limit. ID and CreatedAt are filled in when empty.
func (s *Store) Append(userID string, turn models.Turn) models.Turn {
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.turns[userID], turn)
	if over := len(history) - s.limit; over > 0 {
		// Copy so the dropped prefix is not pinned by the backing array.
		history = append([]models.Turn(nil), history[over:]...)
	}
	s.turns[userID] = history
	return turn
}

// History returns a copy of userID's turns, oldest first.
func (s *Store) History(userID string) []models.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.turns[userID]
	out := make([]models.Turn, len(history))
	copy(out, history)
	return out
}

// Recent returns at most n of the newest turns, oldest first.
func (s *Store) Recent(userID string, n int) []models.Turn {
	history := s.History(userID)
	if n >= 0 && len(history) > n {
		return history[len(history)-n:]
	}
	return history
}

func (s *Store) Clear(userID string) {
	s.mu.Lock()
	delete(s.turns, userID)
	s.mu.Unlock()
}

func (s *Store) Limit() int { return s.limit }
