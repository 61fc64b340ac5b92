package game

import (
	"math/rand"
	"time"

	"github.com/user/decision-duel/internal/interfaces"
	"github.com/user/decision-duel/internal/types"
)

// DiceRoller handles random draws for the game.
// Production games seed it from the wall clock, so games are not reproducible.
type DiceRoller struct {
	rng *rand.Rand
}

// NewDiceRoller creates a new dice roller with a seeded random number generator
func NewDiceRoller() *DiceRoller {
	return NewSeededDiceRoller(time.Now().UnixNano())
}

// NewSeededDiceRoller creates a dice roller with a fixed seed
func NewSeededDiceRoller(seed int64) *DiceRoller {
	return &DiceRoller{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Float64 returns a uniform draw in [0, 1)
func (dr *DiceRoller) Float64() float64 {
	return dr.rng.Float64()
}

// pick maps a uniform draw onto an index in [0, n)
func pick(rng interfaces.RandomSource, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// pickStrategy chooses uniformly among the given ids
func pickStrategy(rng interfaces.RandomSource, ids []types.StrategyID) types.StrategyID {
	return ids[pick(rng, len(ids))]
}

// rollRange returns floor(base + draw*span)
func rollRange(rng interfaces.RandomSource, base, span int) int {
	return base + int(rng.Float64()*float64(span))
}

// RandomInitialStats draws the shared starting vector:
// capital in [80,140), the other attributes in [60,100)
func RandomInitialStats(rng interfaces.RandomSource) types.Stats {
	return types.Stats{
		Capital:    rollRange(rng, 80, 60),
		Reputation: rollRange(rng, 60, 40),
		Innovation: rollRange(rng, 60, 40),
		Morale:     rollRange(rng, 60, 40),
	}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock
func SystemClock() interfaces.Clock {
	return systemClock{}
}
