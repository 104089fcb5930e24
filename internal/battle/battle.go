// Package battle runs a fixed number of rounds between two colonies.
package battle

import (
	"errors"
	"fmt"
	"math/rand"

	"colonies/internal/colony"
	"colonies/internal/model"
	"colonies/internal/payoff"
)

const DefaultRounds = 10

var ErrInvalidBattle = errors.New("invalid battle")

type Option func(*Battle)

func WithRounds(rounds int) Option {
	return func(b *Battle) { b.rounds = rounds }
}

func WithMatrix(m payoff.Matrix) Option {
	return func(b *Battle) { b.matrix = m }
}

func WithRNG(rng *rand.Rand) Option {
	return func(b *Battle) { b.rng = rng }
}

// Battle borrows two colonies for its duration. It is used once.
type Battle struct {
	a, b   *colony.Colony
	rounds int
	matrix payoff.Matrix
	rng    *rand.Rand
	course []model.Round
}

// New prepares a battle between a and b. Without WithRNG the battle draws
// from a source seeded with 1, so omitting it never makes runs irreproducible.
func New(a, b *colony.Colony, opts ...Option) (*Battle, error) {
	bt := &Battle{
		a:      a,
		b:      b,
		rounds: DefaultRounds,
		matrix: payoff.Default(),
	}
	for _, opt := range opts {
		opt(bt)
	}
	if a == nil || b == nil {
		return nil, fmt.Errorf("%w: both colonies are required", ErrInvalidBattle)
	}
	if a == b {
		return nil, fmt.Errorf("%w: colony cannot battle itself", ErrInvalidBattle)
	}
	if bt.rounds <= 0 {
		return nil, fmt.Errorf("%w: rounds must be positive, got %d", ErrInvalidBattle, bt.rounds)
	}
	if err := bt.matrix.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBattle, err)
	}
	if bt.rng == nil {
		bt.rng = rand.New(rand.NewSource(1))
	}
	return bt, nil
}

// Outcome is the result of a finished battle. Winner is nil on a tie.
type Outcome struct {
	A, B   *colony.Colony
	Winner *colony.Colony
	ScoreA int
	ScoreB int
	Rounds []model.Round
}

func (o Outcome) Tie() bool {
	return o.Winner == nil
}

// Loser is nil on a tie.
func (o Outcome) Loser() *colony.Colony {
	switch o.Winner {
	case nil:
		return nil
	case o.A:
		return o.B
	default:
		return o.A
	}
}

// Run plays every round and returns the outcome. Within a round colony A
// decides first; colony B decides with A's move for that round already in
// A's history. Scores are booked on both colonies as a side effect.
func (bt *Battle) Run() (Outcome, error) {
	if bt.course != nil {
		return Outcome{}, fmt.Errorf("%w: battle already ran", ErrInvalidBattle)
	}
	if err := bt.a.BeginBattle(bt.b); err != nil {
		return Outcome{}, fmt.Errorf("begin battle: %w", err)
	}
	if err := bt.b.BeginBattle(bt.a); err != nil {
		bt.a.EndBattle()
		return Outcome{}, fmt.Errorf("begin battle: %w", err)
	}
	defer bt.a.EndBattle()
	defer bt.b.EndBattle()

	bt.course = make([]model.Round, 0, bt.rounds)
	for i := 0; i < bt.rounds; i++ {
		choiceA := bt.a.Decide(bt.rng)
		if !choiceA.Valid() {
			return Outcome{}, fmt.Errorf("%w: strategy %s returned %s", ErrInvalidBattle, bt.a.Strategy().Name(), choiceA)
		}
		choiceB := bt.b.Decide(bt.rng)
		if !choiceB.Valid() {
			return Outcome{}, fmt.Errorf("%w: strategy %s returned %s", ErrInvalidBattle, bt.b.Strategy().Name(), choiceB)
		}
		scoreA, scoreB := bt.matrix.Score(choiceB, choiceA)

		bt.a.Submit(scoreA)
		bt.b.Submit(scoreB)
		bt.course = append(bt.course, model.Round{
			ChoiceA: choiceA,
			ChoiceB: choiceB,
			ScoreA:  scoreA,
			ScoreB:  scoreB,
		})
	}

	out := Outcome{
		A:      bt.a,
		B:      bt.b,
		ScoreA: bt.a.BattleScore(),
		ScoreB: bt.b.BattleScore(),
		Rounds: bt.course,
	}
	switch {
	case out.ScoreA > out.ScoreB:
		out.Winner = bt.a
	case out.ScoreB > out.ScoreA:
		out.Winner = bt.b
	}
	return out, nil
}
