package tournament

import (
	"colonies/internal/colony"
)

// SingleElimination plays brackets until one colony is left.
//
// Each bracket shuffles the alive colonies and pairs the first half against
// the second half, i against i+n/2. An odd colony out gets a bye. A tied
// battle promotes one side at random and the other is eliminated as if
// beaten. The ranking is the reverse of elimination order, so the champion
// comes first and the earliest loser last.
type SingleElimination struct {
	base
	brackets int
}

func NewSingleElimination(population []*colony.Colony, cfg Config) (*SingleElimination, error) {
	b, err := newBase("single_elimination", population, cfg)
	if err != nil {
		return nil, err
	}
	return &SingleElimination{base: b}, nil
}

func (t *SingleElimination) Name() string { return "single_elimination" }

func (t *SingleElimination) Start() ([]*colony.Colony, error) {
	return t.once(t.play)
}

func (t *SingleElimination) Result() ([]*colony.Colony, error) {
	return t.Start()
}

// Winner is never nil once the tournament ran; ties are settled in play.
func (t *SingleElimination) Winner() (*colony.Colony, error) {
	ranking, err := t.Start()
	if err != nil {
		return nil, err
	}
	return ranking[0], nil
}

// Brackets is the number of elimination rounds played.
func (t *SingleElimination) Brackets() int {
	return t.brackets
}

func (t *SingleElimination) play() ([]*colony.Colony, error) {
	rng := t.cfg.RNG
	eliminated := make([]*colony.Colony, 0, len(t.alive))

	for len(t.alive) > 1 {
		t.brackets++
		rng.Shuffle(len(t.alive), func(i, j int) {
			t.alive[i], t.alive[j] = t.alive[j], t.alive[i]
		})

		half := len(t.alive) / 2
		survivors := make([]*colony.Colony, 0, len(t.alive)-half)
		for i := 0; i < half; i++ {
			x, y := t.alive[i], t.alive[i+half]
			out, err := t.fight(x, y, rng)
			if err != nil {
				return nil, err
			}
			t.battles++
			t.logOutcome(out)

			winner := out.Winner
			if winner == nil {
				winner = x
				if rng.Intn(2) == 1 {
					winner = y
				}
				t.log.Debug("tie settled by coin flip", "promoted", describe(winner))
			}
			loser := x
			if winner == x {
				loser = y
			}
			eliminated = append(eliminated, loser)
			survivors = append(survivors, winner)
			t.log.Debug("colony eliminated", "bracket", t.brackets, "colony", describe(loser))
		}
		if len(t.alive)%2 == 1 {
			bye := t.alive[len(t.alive)-1]
			survivors = append(survivors, bye)
			t.log.Debug("colony advanced on bye", "bracket", t.brackets, "colony", describe(bye))
		}
		t.alive = survivors
	}

	ranking := make([]*colony.Colony, 0, len(t.population))
	ranking = append(ranking, t.alive...)
	for i := len(eliminated) - 1; i >= 0; i-- {
		ranking = append(ranking, eliminated[i])
	}
	return ranking, nil
}
