// Package colony holds the simulated participants and the arena that owns
// them.
//
// A colony never points at its opponent directly. The link is an index into
// the owning Arena and is resolved on every read, so a colony is only ever
// reachable from the arena and from whoever holds it.
package colony

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"colonies/internal/model"
	"colonies/internal/strategy"
)

const noOpponent = -1

var (
	ErrNilStrategy   = errors.New("colony strategy is required")
	ErrForeignColony = errors.New("colony belongs to a different arena")
	ErrSelfBattle    = errors.New("colony cannot battle itself")
)

// Colony is one participant. Its per-battle histories are rebuilt in place
// for every battle; lifetime totals only grow.
type Colony struct {
	ID    uuid.UUID
	Label string

	arena    *Arena
	index    int
	strategy strategy.Strategy

	choices  []model.Choice
	results  []int
	opponent int

	battleScore      int
	totalBattleScore int
	tournamentScore  int
}

var _ strategy.Player = (*Colony)(nil)

func (c *Colony) Strategy() strategy.Strategy { return c.strategy }
func (c *Colony) Choices() []model.Choice     { return c.choices }
func (c *Colony) Results() []int              { return c.results }

// Arena is the arena that owns the colony.
func (c *Colony) Arena() *Arena { return c.arena }

// Index is the colony's position in its arena, in creation order.
func (c *Colony) Index() int { return c.index }

func (c *Colony) BattleScore() int      { return c.battleScore }
func (c *Colony) TotalBattleScore() int { return c.totalBattleScore }
func (c *Colony) TournamentScore() int  { return c.tournamentScore }

// Opponent resolves the colony currently being fought. It reports false
// outside of a battle.
func (c *Colony) Opponent() (strategy.Player, bool) {
	opponent, ok := c.OpponentColony()
	if !ok {
		return nil, false
	}
	return opponent, true
}

func (c *Colony) OpponentColony() (*Colony, bool) {
	if c.opponent == noOpponent || c.arena == nil {
		return nil, false
	}
	return c.arena.Get(c.opponent)
}

// BeginBattle clears the per-battle state and links the opponent.
func (c *Colony) BeginBattle(opponent *Colony) error {
	if opponent == nil || opponent.arena != c.arena {
		return ErrForeignColony
	}
	if opponent == c {
		return ErrSelfBattle
	}
	c.choices = c.choices[:0]
	c.results = c.results[:0]
	c.battleScore = 0
	c.opponent = opponent.index
	return nil
}

// Decide asks the strategy for the next move and records it immediately, so
// a colony deciding later in the same round already sees it.
func (c *Colony) Decide(rng *rand.Rand) model.Choice {
	choice := c.strategy.Choose(c, rng)
	c.choices = append(c.choices, choice)
	return choice
}

// Submit books the points earned in the latest round.
func (c *Colony) Submit(result int) {
	c.battleScore += result
	c.totalBattleScore += result
	c.results = append(c.results, result)
}

// EndBattle drops the opponent link. Histories stay readable until the next
// BeginBattle.
func (c *Colony) EndBattle() {
	c.opponent = noOpponent
}

func (c *Colony) ResetTournamentScore() {
	c.tournamentScore = 0
}

func (c *Colony) AwardTournamentPoints(points int) {
	c.tournamentScore += points
}

func (c *Colony) String() string {
	if c.Label != "" {
		return fmt.Sprintf("Colony(%s, %s Strategy)", c.Label, c.strategy.Name())
	}
	return fmt.Sprintf("Colony(%s Strategy)", c.strategy.Name())
}
