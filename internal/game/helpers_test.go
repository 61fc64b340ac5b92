package game

import (
	"sync"
	"time"

	"github.com/user/decision-duel/config"
)

// scriptedSource replays a fixed sequence of draws
type scriptedSource struct {
	mu    sync.Mutex
	draws []float64
	next  int
}

func newScriptedSource(draws ...float64) *scriptedSource {
	return &scriptedSource{draws: draws}
}

func (s *scriptedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.draws) {
		s.next++
		return 0
	}
	d := s.draws[s.next]
	s.next++
	return d
}

// consumed reports how many draws were taken, including any past the script
func (s *scriptedSource) consumed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// instantConfig removes every delay so rounds resolve synchronously
func instantConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Game.ThinkDelayBaseMs = 0
	cfg.Game.ThinkDelayJitterMs = 0
	cfg.Game.InterRoundPauseMs = 0
	cfg.Game.SelectionCooldownMs = 0
	return cfg
}
