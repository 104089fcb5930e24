package tournament

import (
	"math/rand"
	"testing"

	"colonies/internal/colony"
	"colonies/internal/strategy"
)

func TestLeagueScoring(t *testing.T) {
	population := newPopulation(t,
		strategy.AlwaysDefect{},
		strategy.AlwaysCooperate{},
		strategy.AlwaysCooperate{},
		strategy.MirrorOpponent{},
	)
	tour, err := NewLeague(population, seeded(1))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ranking, err := tour.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	// Defector: two wins and a tie with the mirror. Mirror ties everyone.
	// The cooperators lose to the defector and tie the rest.
	want := []struct {
		colony *colony.Colony
		score  int
	}{
		{population[0], 5},
		{population[3], 3},
		{population[1], 2},
		{population[2], 2},
	}
	for i, w := range want {
		if ranking[i] != w.colony {
			t.Fatalf("rank %d: expected %s, got %s", i+1, w.colony, ranking[i])
		}
		if ranking[i].TournamentScore() != w.score {
			t.Fatalf("rank %d: expected %d points, got %d", i+1, w.score, ranking[i].TournamentScore())
		}
	}

	winner, err := tour.Winner()
	if err != nil {
		t.Fatalf("winner: %v", err)
	}
	if winner != population[0] {
		t.Fatalf("expected defector to win, got %s", winner)
	}
}

func TestLeaguePointsTotalTwicePerBattle(t *testing.T) {
	for n := 2; n <= 10; n++ {
		population := mixedPopulation(t, n)
		tour, err := NewLeague(population, seeded(int64(n)*7))
		if err != nil {
			t.Fatalf("n=%d: new: %v", n, err)
		}
		ranking, err := tour.Start()
		if err != nil {
			t.Fatalf("n=%d: start: %v", n, err)
		}
		assertPermutation(t, population, ranking)

		if want := n * (n - 1) / 2; tour.Battles() != want {
			t.Fatalf("n=%d: expected %d battles, got %d", n, want, tour.Battles())
		}
		sum := 0
		for i, c := range ranking {
			sum += c.TournamentScore()
			if i > 0 && ranking[i-1].TournamentScore() < c.TournamentScore() {
				t.Fatalf("n=%d: ranking not sorted at %d", n, i)
			}
		}
		if sum != 2*tour.Battles() {
			t.Fatalf("n=%d: points sum %d, expected %d", n, sum, 2*tour.Battles())
		}
	}
}

func TestLeagueFullTieHasNoWinner(t *testing.T) {
	population := newPopulation(t, strategy.AlwaysCooperate{}, strategy.AlwaysCooperate{}, strategy.AlwaysCooperate{})
	tour, err := NewLeague(population, seeded(1))
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
	ranking, _ := tour.Result()
	for i, c := range ranking {
		if c != population[i] {
			t.Fatalf("tied colonies should keep population order, rank %d is %s", i+1, c)
		}
	}
}

func TestLeagueCustomPoints(t *testing.T) {
	population := newPopulation(t, strategy.AlwaysDefect{}, strategy.AlwaysCooperate{}, strategy.AlwaysDefect{})
	cfg := seeded(1)
	cfg.Points = &Points{Win: 3, Tie: 1, Loss: 1}
	tour, err := NewLeague(population, cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := tour.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	// Each defector beats the cooperator and ties the other defector.
	for _, i := range []int{0, 2} {
		if got := population[i].TournamentScore(); got != 4 {
			t.Fatalf("defector %d: expected 4 points, got %d", i, got)
		}
	}
	if got := population[1].TournamentScore(); got != 2 {
		t.Fatalf("cooperator: expected 2 points, got %d", got)
	}
}

func TestLeagueResetsTournamentScore(t *testing.T) {
	population := newPopulation(t, strategy.AlwaysDefect{}, strategy.AlwaysCooperate{})
	for run := 0; run < 2; run++ {
		tour, err := NewLeague(population, seeded(int64(run)))
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		if _, err := tour.Start(); err != nil {
			t.Fatalf("start: %v", err)
		}
		if got := population[0].TournamentScore(); got != 2 {
			t.Fatalf("run %d: expected 2 points, got %d", run, got)
		}
	}
	if got := population[0].TotalBattleScore(); got != 40 {
		t.Fatalf("lifetime score should keep accumulating, got %d", got)
	}
}

func TestLeagueResultIndependentOfWorkers(t *testing.T) {
	run := func(workers int) ([]int, []int) {
		population := mixedPopulation(t, 9)
		tour, err := NewLeague(population, Config{RNG: rand.New(rand.NewSource(2024)), Workers: workers})
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		ranking, err := tour.Start()
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		order := make([]int, len(ranking))
		for i, c := range ranking {
			order[i] = c.Index()
		}
		totals := make([]int, len(population))
		for i, c := range population {
			totals[i] = c.TotalBattleScore()
		}
		return order, totals
	}

	seqOrder, seqTotals := run(1)
	parOrder, parTotals := run(4)
	for i := range seqOrder {
		if seqOrder[i] != parOrder[i] {
			t.Fatalf("ranking differs with workers: %v vs %v", seqOrder, parOrder)
		}
		if seqTotals[i] != parTotals[i] {
			t.Fatalf("lifetime scores differ with workers: %v vs %v", seqTotals, parTotals)
		}
	}
}
