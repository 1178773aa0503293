package store

import (
	"sync"

	"github.com/apasimboraymond02/Tournament-app/internal/bracket"
	"github.com/google/uuid"
)

// BracketStore is the in-memory registry of live brackets, keyed by
// tournament id. It exclusively owns every Bracket instance from generation
// until the tournament archives.
type BracketStore struct {
	mu       sync.RWMutex
	brackets map[uuid.UUID]*bracket.Bracket
}

func NewBracketStore() *BracketStore {
	return &BracketStore{brackets: make(map[uuid.UUID]*bracket.Bracket)}
}

// Put registers a freshly built bracket. Registering a second bracket for the
// same tournament fails with ErrBracketExists; the check and insert are
// atomic, so two racing generation calls cannot both succeed.
func (s *BracketStore) Put(b *bracket.Bracket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.brackets[b.TournamentID]; ok {
		return bracket.ErrBracketExists
	}
	s.brackets[b.TournamentID] = b
	return nil
}

// Get returns the live bracket for a tournament.
func (s *BracketStore) Get(tournamentID uuid.UUID) (*bracket.Bracket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.brackets[tournamentID]
	if !ok {
		return nil, bracket.ErrBracketNotFound
	}
	return b, nil
}

// Remove tears down a bracket at the end of its lifecycle.
func (s *BracketStore) Remove(tournamentID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.brackets, tournamentID)
}

// Len returns the number of live brackets.
func (s *BracketStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.brackets)
}
