// Package payoff holds the score matrix used to resolve a round.
package payoff

import (
	"errors"
	"fmt"

	"colonies/internal/model"
)

var ErrInvalidMatrix = errors.New("invalid payoff matrix")

// Matrix maps (choice of player B, choice of player A) to (score A, score B).
//
// The opponent's choice is the outer index. Swapping the indices silently
// attributes payoffs to the wrong player.
//
//	             A: cooperate   A: defect
//	B: cooperate ((sA, sB),     (sA, sB))
//	B: defect    ((sA, sB),     (sA, sB))
type Matrix [2][2][2]int

// Default is the classic non-zero-sum table used by the simulation:
// mutual cooperation pays nothing, mutual defection pays one each and a
// lone defector takes two.
func Default() Matrix {
	return Matrix{
		{{0, 0}, {2, 0}},
		{{0, 2}, {1, 1}},
	}
}

// New builds a symmetric matrix from the four classic payoff values:
// reward for mutual cooperation, sucker's payoff, temptation to defect and
// punishment for mutual defection.
func New(reward, sucker, temptation, punishment int) Matrix {
	return Matrix{
		{{reward, reward}, {temptation, sucker}},
		{{sucker, temptation}, {punishment, punishment}},
	}
}

// Score returns (score for A, score for B). The first argument is B's choice.
func (m Matrix) Score(choiceB, choiceA model.Choice) (int, int) {
	cell := m[choiceB][choiceA]
	return cell[0], cell[1]
}

func (m Matrix) Validate() error {
	for b := range m {
		for a := range m[b] {
			for p, v := range m[b][a] {
				if v < 0 {
					return fmt.Errorf("%w: negative payoff %d at [%d][%d][%d]", ErrInvalidMatrix, v, b, a, p)
				}
			}
		}
	}
	return nil
}
