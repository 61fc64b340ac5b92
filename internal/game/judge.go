package game

import (
	"fmt"
	"math"

	"github.com/user/decision-duel/internal/types"
)

const (
	// EarlyWinRound is the first round on which the game may end early
	EarlyWinRound = 4

	// ExcellentThreshold is the attribute value that counts as excellent
	ExcellentThreshold = 180

	// EarlyWinGap is the ability lead, in tenths, that ends the game early
	EarlyWinGap = 600

	// FinalMargin is the ability lead, in tenths, required to win on the final round
	FinalMargin = 100
)

// Rule names the condition that produced a verdict
type Rule string

const (
	RuleNone       Rule = ""
	RuleExcellent  Rule = "excellent_attribute"
	RuleAbilityGap Rule = "ability_gap"
	RuleMargin     Rule = "final_margin"
)

// Verdict is the outcome of evaluating a round
type Verdict struct {
	Winner types.Winner
	Reason string
	Rule   Rule
}

func hasExcellent(s types.Stats) bool {
	for _, attr := range types.Attributes {
		if s.Get(attr) >= ExcellentThreshold {
			return true
		}
	}
	return false
}

// excellentWinner applies the asymmetric rule: only one side may be excellent
func excellentWinner(player, ai types.Stats) types.Winner {
	p, a := hasExcellent(player), hasExcellent(ai)
	switch {
	case p && !a:
		return types.WinnerPlayer
	case a && !p:
		return types.WinnerAI
	}
	return types.WinnerNone
}

func rounded(v float64) int {
	return int(math.Round(v))
}

// abilityTenths is Ability scaled by ten so comparisons stay exact
func abilityTenths(s types.Stats) int {
	return 4*s.Capital + 3*s.Reputation + 2*s.Innovation + s.Morale
}

// Judge evaluates win/loss/draw after a round. It is a pure function.
func Judge(player, ai types.Stats, round, maxRounds int) Verdict {
	playerAbility := Ability(player)
	aiAbility := Ability(ai)
	diff := abilityTenths(player) - abilityTenths(ai)

	if round >= EarlyWinRound {
		switch excellentWinner(player, ai) {
		case types.WinnerPlayer:
			return Verdict{
				Winner: types.WinnerPlayer,
				Reason: fmt.Sprintf("One of your attributes reached the excellent level (>=%d): early victory!", ExcellentThreshold),
				Rule:   RuleExcellent,
			}
		case types.WinnerAI:
			return Verdict{
				Winner: types.WinnerAI,
				Reason: fmt.Sprintf("One of the AI's attributes reached the excellent level (>=%d): you lost.", ExcellentThreshold),
				Rule:   RuleExcellent,
			}
		}

		if diff >= EarlyWinGap {
			return Verdict{
				Winner: types.WinnerPlayer,
				Reason: fmt.Sprintf("Your overall ability (%d) is far ahead of the AI (%d): early victory!", rounded(playerAbility), rounded(aiAbility)),
				Rule:   RuleAbilityGap,
			}
		}
		if diff <= -EarlyWinGap {
			return Verdict{
				Winner: types.WinnerAI,
				Reason: fmt.Sprintf("The AI's overall ability (%d) is far ahead of yours (%d): you lost.", rounded(aiAbility), rounded(playerAbility)),
				Rule:   RuleAbilityGap,
			}
		}
	}

	if round >= maxRounds {
		switch excellentWinner(player, ai) {
		case types.WinnerPlayer:
			return Verdict{
				Winner: types.WinnerPlayer,
				Reason: fmt.Sprintf("Round %d complete! One of your attributes reached the excellent level (>=%d): you win!", maxRounds, ExcellentThreshold),
				Rule:   RuleExcellent,
			}
		case types.WinnerAI:
			return Verdict{
				Winner: types.WinnerAI,
				Reason: fmt.Sprintf("Round %d complete! One of the AI's attributes reached the excellent level (>=%d): you lost.", maxRounds, ExcellentThreshold),
				Rule:   RuleExcellent,
			}
		}

		switch {
		case diff > FinalMargin:
			return Verdict{
				Winner: types.WinnerPlayer,
				Reason: fmt.Sprintf("Round %d complete! Your overall ability (%d) > AI (%d): you win!", maxRounds, rounded(playerAbility), rounded(aiAbility)),
				Rule:   RuleMargin,
			}
		case diff < -FinalMargin:
			return Verdict{
				Winner: types.WinnerAI,
				Reason: fmt.Sprintf("Round %d complete! The AI's overall ability (%d) > yours (%d): you lost.", maxRounds, rounded(aiAbility), rounded(playerAbility)),
				Rule:   RuleMargin,
			}
		default:
			return Verdict{
				Winner: types.WinnerDraw,
				Reason: fmt.Sprintf("Round %d complete! Both sides are evenly matched (%d vs %d): draw!", maxRounds, rounded(playerAbility), rounded(aiAbility)),
				Rule:   RuleMargin,
			}
		}
	}

	return Verdict{Winner: types.WinnerNone}
}
