package tournament

import (
	"sort"

	"colonies/internal/colony"
	"colonies/internal/model"
)

// Evictor removes colonies from a PopulationGrowth run. It is called after
// every sampling round with the colonies still alive and returns the ones to
// drop. Colonies it returns that are not alive are ignored.
type Evictor interface {
	Evict(round int, alive []*colony.Colony) []*colony.Colony
}

type EvictorFunc func(round int, alive []*colony.Colony) []*colony.Colony

func (f EvictorFunc) Evict(round int, alive []*colony.Colony) []*colony.Colony {
	return f(round, alive)
}

// PopulationGrowth repeatedly samples two distinct colonies, weighted by
// their lifetime score, and lets them battle. Strong colonies are drawn more
// often and so grow faster.
//
// The run stops after Config.SamplingRounds rounds or once fewer than two
// colonies are alive. Nothing is eliminated unless Config.Evictor says so.
// The ranking is by lifetime score, highest first, ties in population
// order; evicted colonies follow the survivors, last evicted first.
type PopulationGrowth struct {
	base
	rounds     int
	played     int
	evicted    []*colony.Colony
	trajectory map[*colony.Colony][]int
}

func NewPopulationGrowth(population []*colony.Colony, cfg Config) (*PopulationGrowth, error) {
	b, err := newBase("population_growth", population, cfg)
	if err != nil {
		return nil, err
	}
	return &PopulationGrowth{
		base:       b,
		rounds:     b.cfg.SamplingRounds,
		trajectory: make(map[*colony.Colony][]int, len(b.population)),
	}, nil
}

func (t *PopulationGrowth) Name() string { return "population_growth" }

func (t *PopulationGrowth) Start() ([]*colony.Colony, error) {
	return t.once(t.play)
}

func (t *PopulationGrowth) Result() ([]*colony.Colony, error) {
	return t.Start()
}

func (t *PopulationGrowth) Winner() (*colony.Colony, error) {
	ranking, err := t.Start()
	if err != nil {
		return nil, err
	}
	if len(t.alive) == 1 {
		return t.alive[0], nil
	}
	if len(t.alive) == 0 || headTied(ranking, (*colony.Colony).TotalBattleScore) {
		return nil, nil
	}
	return ranking[0], nil
}

// RoundsPlayed is how many sampling rounds actually ran.
func (t *PopulationGrowth) RoundsPlayed() int {
	return t.played
}

// Trajectory returns c's lifetime score after each played round.
func (t *PopulationGrowth) Trajectory(c *colony.Colony) []int {
	series := t.trajectory[c]
	out := make([]int, len(series))
	copy(out, series)
	return out
}

// TrajectoryPoints flattens every colony's trajectory, round by round in
// population order.
func (t *PopulationGrowth) TrajectoryPoints() []model.TrajectoryPoint {
	points := make([]model.TrajectoryPoint, 0, t.played*len(t.population))
	for round := 0; round < t.played; round++ {
		for _, c := range t.population {
			points = append(points, model.TrajectoryPoint{
				Round:            round + 1,
				ColonyID:         c.ID.String(),
				TotalBattleScore: t.trajectory[c][round],
			})
		}
	}
	return points
}

func (t *PopulationGrowth) play() ([]*colony.Colony, error) {
	rng := t.cfg.RNG

	for t.played < t.rounds {
		i, j, ok := samplePair(rng, t.alive)
		if !ok {
			t.log.Info("sampling stopped early", "round", t.played, "alive", len(t.alive))
			break
		}
		out, err := t.fight(t.alive[i], t.alive[j], rng)
		if err != nil {
			return nil, err
		}
		t.played++
		t.battles++
		t.logOutcome(out)

		for _, c := range t.population {
			t.trajectory[c] = append(t.trajectory[c], c.TotalBattleScore())
		}
		if t.cfg.Evictor != nil {
			t.evict(t.cfg.Evictor.Evict(t.played, t.Alive()))
		}
	}

	ranking := make([]*colony.Colony, 0, len(t.population))
	ranking = append(ranking, t.alive...)
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].TotalBattleScore() > ranking[j].TotalBattleScore()
	})
	for i := len(t.evicted) - 1; i >= 0; i-- {
		ranking = append(ranking, t.evicted[i])
	}
	return ranking, nil
}

func (t *PopulationGrowth) evict(victims []*colony.Colony) {
	if len(victims) == 0 {
		return
	}
	drop := make(map[*colony.Colony]struct{}, len(victims))
	for _, v := range victims {
		drop[v] = struct{}{}
	}
	kept := t.alive[:0]
	for _, c := range t.alive {
		if _, ok := drop[c]; ok {
			t.evicted = append(t.evicted, c)
			t.log.Debug("colony evicted", "round", t.played, "colony", describe(c))
			continue
		}
		kept = append(kept, c)
	}
	t.alive = kept
}
