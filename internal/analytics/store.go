package analytics

import (
	"errors"
	"sync"

	"github.com/user/decision-duel/internal/interfaces"
	"github.com/user/decision-duel/internal/types"
)

var (
	// ErrAnalysisExists is returned when an id is stored twice
	ErrAnalysisExists = errors.New("analysis already exists")

	// ErrMissingGameID is returned for analyses without an id
	ErrMissingGameID = errors.New("analysis has no game id")
)

// Store keeps analyses in memory. Entries are never replaced or removed.
type Store struct {
	analyses  map[string]types.GameAnalysis
	stateLock sync.RWMutex
}

// Ensure Store satisfies the interfaces.AnalysisStore interface
var _ interfaces.AnalysisStore = (*Store)(nil)

// NewStore creates an empty analysis store
func NewStore() *Store {
	return &Store{
		analyses: make(map[string]types.GameAnalysis),
	}
}

// Put inserts an analysis under its game id
func (s *Store) Put(analysis types.GameAnalysis) error {
	if analysis.GameID == "" {
		return ErrMissingGameID
	}

	s.stateLock.Lock()
	defer s.stateLock.Unlock()

	if _, exists := s.analyses[analysis.GameID]; exists {
		return ErrAnalysisExists
	}
	s.analyses[analysis.GameID] = analysis.Clone()
	return nil
}

// Get looks up an analysis by game id. The caller owns the returned copy.
func (s *Store) Get(gameID string) (types.GameAnalysis, bool) {
	s.stateLock.RLock()
	defer s.stateLock.RUnlock()

	analysis, ok := s.analyses[gameID]
	if !ok {
		return types.GameAnalysis{}, false
	}
	return analysis.Clone(), true
}

// Len reports how many analyses are stored
func (s *Store) Len() int {
	s.stateLock.RLock()
	defer s.stateLock.RUnlock()

	return len(s.analyses)
}
