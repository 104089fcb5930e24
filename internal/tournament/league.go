package tournament

import (
	"math/rand"
	"sort"

	"golang.org/x/sync/errgroup"

	"colonies/internal/battle"
	"colonies/internal/colony"
)

// League is a round robin: every unordered pair of colonies battles once
// and earns league points. The ranking is by tournament score, highest
// first, with equal scores kept in population order.
//
// Battles are grouped into rounds in which no colony appears twice, and a
// round may run on up to Config.Workers goroutines. Each battle's random
// source is seeded from the tournament source in schedule order before the
// round starts, so the outcome does not depend on the worker count. Points
// are booked only after the whole round finished.
type League struct {
	base
	points Points
}

func NewLeague(population []*colony.Colony, cfg Config) (*League, error) {
	b, err := newBase("league", population, cfg)
	if err != nil {
		return nil, err
	}
	return &League{base: b, points: *b.cfg.Points}, nil
}

func (t *League) Name() string { return "league" }

func (t *League) Start() ([]*colony.Colony, error) {
	return t.once(t.play)
}

func (t *League) Result() ([]*colony.Colony, error) {
	return t.Start()
}

func (t *League) Winner() (*colony.Colony, error) {
	ranking, err := t.Start()
	if err != nil {
		return nil, err
	}
	if headTied(ranking, (*colony.Colony).TournamentScore) {
		return nil, nil
	}
	return ranking[0], nil
}

func (t *League) play() ([]*colony.Colony, error) {
	for _, c := range t.alive {
		c.ResetTournamentScore()
	}

	for r, pairs := range roundRobinSchedule(len(t.alive)) {
		seeds := make([]int64, len(pairs))
		for i := range seeds {
			seeds[i] = t.cfg.RNG.Int63()
		}

		outcomes := make([]battle.Outcome, len(pairs))
		var g errgroup.Group
		g.SetLimit(t.cfg.Workers)
		for i, p := range pairs {
			g.Go(func() error {
				out, err := t.fight(t.alive[p[0]], t.alive[p[1]], rand.New(rand.NewSource(seeds[i])))
				if err != nil {
					return err
				}
				outcomes[i] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for _, out := range outcomes {
			t.award(out)
			t.battles++
			t.logOutcome(out)
		}
		t.log.Debug("league round finished", "round", r+1, "battles", len(pairs))
	}

	ranking := make([]*colony.Colony, len(t.alive))
	copy(ranking, t.alive)
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].TournamentScore() > ranking[j].TournamentScore()
	})
	return ranking, nil
}

func (t *League) award(out battle.Outcome) {
	if out.Tie() {
		out.A.AwardTournamentPoints(t.points.Tie)
		out.B.AwardTournamentPoints(t.points.Tie)
		return
	}
	out.Winner.AwardTournamentPoints(t.points.Win)
	out.Loser().AwardTournamentPoints(t.points.Loss)
}
