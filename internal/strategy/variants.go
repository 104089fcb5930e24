package strategy

import (
	"math/rand"

	"colonies/internal/model"
)

// MaxIntrospectionDepth bounds how many times Introspective strategies may
// hand the decision to each other within a single choice.
const MaxIntrospectionDepth = 1

// Random picks uniformly between cooperate and defect.
type Random struct{}

func (Random) Kind() Kind   { return KindRandom }
func (Random) Name() string { return "Random" }

func (Random) Choose(_ Player, rng *rand.Rand) model.Choice {
	return coinFlip(rng)
}

type AlwaysCooperate struct{}

func (AlwaysCooperate) Kind() Kind   { return KindAlwaysCooperate }
func (AlwaysCooperate) Name() string { return "Always Cooperate" }

func (AlwaysCooperate) Choose(Player, *rand.Rand) model.Choice {
	return model.Cooperate
}

type AlwaysDefect struct{}

func (AlwaysDefect) Kind() Kind   { return KindAlwaysDefect }
func (AlwaysDefect) Name() string { return "Always Defect" }

func (AlwaysDefect) Choose(Player, *rand.Rand) model.Choice {
	return model.Defect
}

// Alternator negates its own previous move. The opening move is random.
type Alternator struct{}

func (Alternator) Kind() Kind   { return KindAlternator }
func (Alternator) Name() string { return "Alternator" }

func (Alternator) Choose(p Player, rng *rand.Rand) model.Choice {
	choices := p.Choices()
	if len(choices) == 0 {
		return coinFlip(rng)
	}
	return choices[len(choices)-1].Flip()
}

// MirrorOpponent repeats the opponent's latest move and opens with defect.
//
// When this colony moves second in a round, the opponent's latest move is
// the one it just made in the same round.
type MirrorOpponent struct{}

func (MirrorOpponent) Kind() Kind   { return KindMirrorOpponent }
func (MirrorOpponent) Name() string { return "Mirror Opponent" }

func (MirrorOpponent) Choose(p Player, _ *rand.Rand) model.Choice {
	opponent, ok := p.Opponent()
	if !ok {
		return model.Defect
	}
	choices := opponent.Choices()
	if len(choices) == 0 {
		return model.Defect
	}
	return choices[len(choices)-1]
}

// Statistical replays whichever move historically preceded the better
// payoff in the current battle.
//
// For every own move at index i the result of round i-1 is credited to
// that move; index 0 takes the latest result. The two sums are averaged
// over how often each move was made. Fewer than two moves of history opens
// with cooperate. Equal means, or a move never made, fall back to a coin
// flip.
type Statistical struct{}

func (Statistical) Kind() Kind   { return KindStatistical }
func (Statistical) Name() string { return "Statistical" }

func (Statistical) Choose(p Player, rng *rand.Rand) model.Choice {
	choices := p.Choices()
	if len(choices) < 2 {
		return model.Cooperate
	}
	results := p.Results()

	var sums, counts [2]int
	for _, c := range choices {
		counts[c]++
	}
	n := len(results)
	if n > len(choices) {
		n = len(choices)
	}
	for i := 0; i < n; i++ {
		prev := i - 1
		if prev < 0 {
			prev = len(results) - 1
		}
		sums[choices[i]] += results[prev]
	}

	if counts[model.Cooperate] == 0 || counts[model.Defect] == 0 {
		return coinFlip(rng)
	}

	// Compare sums[0]/counts[0] with sums[1]/counts[1] without division.
	cooperate := sums[model.Cooperate] * counts[model.Defect]
	defect := sums[model.Defect] * counts[model.Cooperate]
	switch {
	case cooperate > defect:
		return model.Cooperate
	case cooperate < defect:
		return model.Defect
	default:
		return coinFlip(rng)
	}
}

// Introspective copies the decision of an opposing Introspective strategy and
// defects against everything else.
//
// Two Introspective colonies would otherwise consult each other forever. The
// hand-off is followed at most MaxIntrospectionDepth times; past that the
// consulted strategy answers with its own fallback, defect.
type Introspective struct{}

func (Introspective) Kind() Kind   { return KindIntrospective }
func (Introspective) Name() string { return "Introspective" }

func (Introspective) Choose(p Player, _ *rand.Rand) model.Choice {
	return introspect(p, 0)
}

func introspect(p Player, depth int) model.Choice {
	opponent, ok := p.Opponent()
	if !ok || opponent.Strategy() == nil {
		return model.Defect
	}
	if opponent.Strategy().Kind() != KindIntrospective || depth >= MaxIntrospectionDepth {
		return model.Defect
	}
	return introspect(opponent, depth+1)
}
