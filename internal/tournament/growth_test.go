package tournament

import (
	"math/rand"
	"testing"

	"colonies/internal/colony"
	"colonies/internal/strategy"
)

func TestPopulationGrowthTrajectories(t *testing.T) {
	population := mixedPopulation(t, 7)
	cfg := seeded(11)
	cfg.SamplingRounds = 200
	tour, err := NewPopulationGrowth(population, cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ranking, err := tour.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	assertPermutation(t, population, ranking)

	if tour.RoundsPlayed() != 200 || tour.Battles() != 200 {
		t.Fatalf("expected 200 rounds, got rounds=%d battles=%d", tour.RoundsPlayed(), tour.Battles())
	}
	if len(tour.Alive()) != len(population) {
		t.Fatalf("nothing should be evicted by default, %d alive", len(tour.Alive()))
	}
	for _, c := range population {
		series := tour.Trajectory(c)
		if len(series) != 200 {
			t.Fatalf("%s: expected 200 trajectory points, got %d", c, len(series))
		}
		for i := 1; i < len(series); i++ {
			if series[i] < series[i-1] {
				t.Fatalf("%s: trajectory decreased at round %d: %d -> %d", c, i+1, series[i-1], series[i])
			}
		}
		if series[len(series)-1] != c.TotalBattleScore() {
			t.Fatalf("%s: last trajectory point %d, total %d", c, series[len(series)-1], c.TotalBattleScore())
		}
	}
	for i := 1; i < len(ranking); i++ {
		if ranking[i-1].TotalBattleScore() < ranking[i].TotalBattleScore() {
			t.Fatalf("ranking not sorted by lifetime score at %d", i)
		}
	}
	if points := tour.TrajectoryPoints(); len(points) != 200*len(population) {
		t.Fatalf("expected %d trajectory points, got %d", 200*len(population), len(points))
	}
}

func TestPopulationGrowthDefaultsAndMemoization(t *testing.T) {
	population := newPopulation(t, strategy.AlwaysDefect{}, strategy.AlwaysCooperate{}, strategy.Random{})
	tour, err := NewPopulationGrowth(population, seeded(5))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	first, err := tour.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if tour.RoundsPlayed() != DefaultSamplingRounds {
		t.Fatalf("expected %d rounds, got %d", DefaultSamplingRounds, tour.RoundsPlayed())
	}
	second, _ := tour.Start()
	if tour.RoundsPlayed() != DefaultSamplingRounds {
		t.Fatal("repeated calls re-simulated")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("ranking changed at %d", i)
		}
	}
	winner, err := tour.Winner()
	if err != nil {
		t.Fatalf("winner: %v", err)
	}
	if winner != population[0] {
		t.Fatalf("expected the defector to grow the most, got %s", winner)
	}
}

func TestPopulationGrowthEviction(t *testing.T) {
	population := mixedPopulation(t, 5)
	cfg := seeded(3)
	cfg.SamplingRounds = 50
	cfg.Evictor = EvictorFunc(func(round int, alive []*colony.Colony) []*colony.Colony {
		if round < 4 {
			return nil
		}
		// Drop the first alive colony each round from round 4 on.
		return alive[:1]
	})
	tour, err := NewPopulationGrowth(population, cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ranking, err := tour.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	assertPermutation(t, population, ranking)

	// Rounds 4..7 evict one colony each, leaving one alive after round 7.
	if tour.RoundsPlayed() != 7 {
		t.Fatalf("expected the run to stop after 7 rounds, got %d", tour.RoundsPlayed())
	}
	alive := tour.Alive()
	if len(alive) != 1 || ranking[0] != alive[0] {
		t.Fatalf("expected the survivor first, alive=%v ranking=%v", alive, ranking)
	}
	if ranking[1] != population[3] || ranking[len(ranking)-1] != population[0] {
		t.Fatalf("evicted colonies should follow in reverse eviction order: %v", ranking)
	}
	winner, err := tour.Winner()
	if err != nil {
		t.Fatalf("winner: %v", err)
	}
	if winner != alive[0] {
		t.Fatalf("expected survivor to win, got %s", winner)
	}
}

func TestPopulationGrowthTieHasNoWinner(t *testing.T) {
	population := newPopulation(t, strategy.AlwaysCooperate{}, strategy.AlwaysCooperate{})
	cfg := seeded(1)
	cfg.SamplingRounds = 10
	tour, err := NewPopulationGrowth(population, cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	winner, err := tour.Winner()
	if err != nil {
		t.Fatalf("winner: %v", err)
	}
	if winner != nil {
		t.Fatalf("expected no winner, got %s", winner)
	}
}

func TestSamplePair(t *testing.T) {
	rng := rand.New(rand.NewSource(17))

	if _, _, ok := samplePair(rng, newPopulation(t, strategy.Random{})); ok {
		t.Fatal("expected no pair from a single colony")
	}
	if _, _, ok := samplePair(rng, nil); ok {
		t.Fatal("expected no pair from an empty population")
	}

	population := newPopulation(t, strategy.AlwaysDefect{}, strategy.AlwaysCooperate{}, strategy.AlwaysCooperate{})
	// Give colony 0 a lifetime score of 20; the others stay at zero and keep
	// the minimum weight of 1.
	lt, err := NewLeague(population[:2], seeded(1))
	if err != nil {
		t.Fatalf("new league: %v", err)
	}
	if _, err := lt.Start(); err != nil {
		t.Fatalf("league: %v", err)
	}
	if population[0].TotalBattleScore() != 20 {
		t.Fatalf("setup: expected score 20, got %d", population[0].TotalBattleScore())
	}

	picks := make([]int, len(population))
	for i := 0; i < 2000; i++ {
		a, b, ok := samplePair(rng, population)
		if !ok {
			t.Fatal("expected a pair")
		}
		if a == b {
			t.Fatalf("sampled the same colony twice: %d", a)
		}
		picks[a]++
		picks[b]++
	}
	if picks[0] <= picks[1] || picks[0] <= picks[2] {
		t.Fatalf("expected the high-score colony to be drawn most, got %v", picks)
	}
	if picks[1] == 0 || picks[2] == 0 {
		t.Fatalf("zero-score colonies must still be drawn, got %v", picks)
	}
}
