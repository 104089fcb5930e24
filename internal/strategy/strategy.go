// Package strategy implements the decision functions colonies use to pick a
// move each round.
//
// Strategies keep no memory of their own. Everything they know comes from the
// Player view handed to Choose, which exposes the owning colony's histories in
// the current battle and, through Opponent, the other side's.
package strategy

import (
	"math/rand"

	"colonies/internal/model"
)

// Kind enumerates the closed set of built-in strategy variants.
type Kind uint8

const (
	KindRandom Kind = iota + 1
	KindAlwaysCooperate
	KindAlwaysDefect
	KindStatistical
	KindAlternator
	KindMirrorOpponent
	KindIntrospective
)

func (k Kind) String() string {
	switch k {
	case KindRandom:
		return "random"
	case KindAlwaysCooperate:
		return "always_cooperate"
	case KindAlwaysDefect:
		return "always_defect"
	case KindStatistical:
		return "statistical"
	case KindAlternator:
		return "alternator"
	case KindMirrorOpponent:
		return "mirror_opponent"
	case KindIntrospective:
		return "introspective"
	default:
		return "unknown"
	}
}

// Player is the read-only view of a colony that a strategy decides for.
type Player interface {
	// Choices returns the moves made so far in the current battle.
	Choices() []model.Choice
	// Results returns the points earned per round so far in the current battle.
	Results() []int
	// Opponent resolves the colony currently being fought.
	Opponent() (Player, bool)
	Strategy() Strategy
}

// Strategy picks the next move. Choose must not append to any history; the
// battle records the returned choice.
type Strategy interface {
	Kind() Kind
	Name() string
	Choose(p Player, rng *rand.Rand) model.Choice
}

func coinFlip(rng *rand.Rand) model.Choice {
	return model.Choice(rng.Intn(2))
}
