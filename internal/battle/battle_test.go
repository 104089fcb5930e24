package battle

import (
	"errors"
	"math/rand"
	"testing"

	"colonies/internal/colony"
	"colonies/internal/model"
	"colonies/internal/payoff"
	"colonies/internal/strategy"
)

func newPair(t *testing.T, a, b strategy.Strategy) (*colony.Colony, *colony.Colony) {
	t.Helper()
	arena := colony.NewArena()
	ca, err := arena.Add("a", a)
	if err != nil {
		t.Fatalf("add a: %v", err)
	}
	cb, err := arena.Add("b", b)
	if err != nil {
		t.Fatalf("add b: %v", err)
	}
	return ca, cb
}

func run(t *testing.T, a, b *colony.Colony, opts ...Option) Outcome {
	t.Helper()
	bt, err := New(a, b, opts...)
	if err != nil {
		t.Fatalf("new battle: %v", err)
	}
	out, err := bt.Run()
	if err != nil {
		t.Fatalf("run battle: %v", err)
	}
	return out
}

func TestKnownMatchups(t *testing.T) {
	tests := []struct {
		name           string
		a, b           strategy.Strategy
		scoreA, scoreB int
		winner         string
	}{
		{"cooperators tie at zero", strategy.AlwaysCooperate{}, strategy.AlwaysCooperate{}, 0, 0, ""},
		{"defector beats cooperator", strategy.AlwaysDefect{}, strategy.AlwaysCooperate{}, 20, 0, "a"},
		{"cooperator loses to defector", strategy.AlwaysCooperate{}, strategy.AlwaysDefect{}, 0, 20, "b"},
		{"defectors tie at ten", strategy.AlwaysDefect{}, strategy.AlwaysDefect{}, 10, 10, ""},
		{"mirror ties defector", strategy.MirrorOpponent{}, strategy.AlwaysDefect{}, 10, 10, ""},
		{"mirror second copies same-round move", strategy.AlwaysDefect{}, strategy.MirrorOpponent{}, 10, 10, ""},
		{"introspective pair defects", strategy.Introspective{}, strategy.Introspective{}, 10, 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := newPair(t, tt.a, tt.b)
			out := run(t, a, b, WithRNG(rand.New(rand.NewSource(1))))

			if out.ScoreA != tt.scoreA || out.ScoreB != tt.scoreB {
				t.Fatalf("expected (%d,%d), got (%d,%d)", tt.scoreA, tt.scoreB, out.ScoreA, out.ScoreB)
			}
			switch tt.winner {
			case "":
				if !out.Tie() || out.Loser() != nil {
					t.Fatalf("expected tie, winner=%v", out.Winner)
				}
			case "a":
				if out.Winner != a || out.Loser() != b {
					t.Fatalf("expected a to win, got %v", out.Winner)
				}
			case "b":
				if out.Winner != b || out.Loser() != a {
					t.Fatalf("expected b to win, got %v", out.Winner)
				}
			}
		})
	}
}

func TestMirrorOpensWithDefect(t *testing.T) {
	a, b := newPair(t, strategy.MirrorOpponent{}, strategy.AlwaysCooperate{})
	out := run(t, a, b)

	if out.Rounds[0].ChoiceA != model.Defect {
		t.Fatalf("expected opening defect, got %s", out.Rounds[0].ChoiceA)
	}
	for i, r := range out.Rounds[1:] {
		if r.ChoiceA != model.Cooperate {
			t.Fatalf("round %d: expected mirrored cooperate, got %s", i+2, r.ChoiceA)
		}
	}
	if out.ScoreA != 2 || out.ScoreB != 0 {
		t.Fatalf("expected (2,0), got (%d,%d)", out.ScoreA, out.ScoreB)
	}
}

func TestMirrorMovingSecondSeesSameRoundChoice(t *testing.T) {
	a, b := newPair(t, strategy.Alternator{}, strategy.MirrorOpponent{})
	out := run(t, a, b, WithRounds(12), WithRNG(rand.New(rand.NewSource(9))))

	for i, r := range out.Rounds {
		if r.ChoiceB != r.ChoiceA {
			t.Fatalf("round %d: mirror moving second should copy %s, got %s", i+1, r.ChoiceA, r.ChoiceB)
		}
	}
}

func TestHistoriesMatchScores(t *testing.T) {
	strategies := []strategy.Strategy{
		strategy.Random{}, strategy.Statistical{}, strategy.Alternator{},
		strategy.MirrorOpponent{}, strategy.Introspective{}, strategy.AlwaysDefect{},
	}
	rng := rand.New(rand.NewSource(42))

	for _, sa := range strategies {
		for _, sb := range strategies {
			a, b := newPair(t, sa, sb)
			out := run(t, a, b, WithRounds(25), WithRNG(rng))

			for _, c := range []*colony.Colony{a, b} {
				if len(c.Choices()) != 25 || len(c.Results()) != 25 {
					t.Fatalf("%s vs %s: expected 25 rounds of history, got %d/%d", sa.Name(), sb.Name(), len(c.Choices()), len(c.Results()))
				}
				sum := 0
				for _, r := range c.Results() {
					sum += r
				}
				if sum != c.BattleScore() {
					t.Fatalf("%s vs %s: result history sums to %d, battle score %d", sa.Name(), sb.Name(), sum, c.BattleScore())
				}
				if _, ok := c.Opponent(); ok {
					t.Fatal("expected opponent link cleared after battle")
				}
			}
			for _, r := range out.Rounds {
				if r.ScoreA < 0 || r.ScoreB < 0 || r.ScoreA+r.ScoreB > 2 {
					t.Fatalf("round payoff out of range: %+v", r)
				}
			}
		}
	}
}

func TestLifetimeScoreAccumulates(t *testing.T) {
	a, b := newPair(t, strategy.AlwaysDefect{}, strategy.AlwaysCooperate{})
	run(t, a, b)
	run(t, a, b)

	if a.BattleScore() != 20 {
		t.Fatalf("battle score should reset per battle, got %d", a.BattleScore())
	}
	if a.TotalBattleScore() != 40 {
		t.Fatalf("expected lifetime score 40, got %d", a.TotalBattleScore())
	}
}

func TestCustomMatrixAndRounds(t *testing.T) {
	a, b := newPair(t, strategy.AlwaysCooperate{}, strategy.AlwaysCooperate{})
	out := run(t, a, b, WithRounds(4), WithMatrix(payoff.New(3, 0, 5, 1)))
	if out.ScoreA != 12 || out.ScoreB != 12 || len(out.Rounds) != 4 {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestNewValidation(t *testing.T) {
	a, b := newPair(t, strategy.Random{}, strategy.Random{})

	cases := []struct {
		name string
		a, b *colony.Colony
		opts []Option
	}{
		{"nil colony", a, nil, nil},
		{"self battle", a, a, nil},
		{"zero rounds", a, b, []Option{WithRounds(0)}},
		{"negative rounds", a, b, []Option{WithRounds(-3)}},
		{"negative payoff", a, b, []Option{WithMatrix(payoff.New(-1, 0, 2, 1))}},
	}
	for _, tc := range cases {
		if _, err := New(tc.a, tc.b, tc.opts...); !errors.Is(err, ErrInvalidBattle) {
			t.Fatalf("%s: expected ErrInvalidBattle, got %v", tc.name, err)
		}
	}
}

func TestRunOnce(t *testing.T) {
	a, b := newPair(t, strategy.Random{}, strategy.Random{})
	bt, err := New(a, b)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := bt.Run(); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := bt.Run(); !errors.Is(err, ErrInvalidBattle) {
		t.Fatalf("expected ErrInvalidBattle on rerun, got %v", err)
	}
}

// outOfRange answers with a move that is neither cooperate nor defect.
type outOfRange struct{}

func (outOfRange) Kind() strategy.Kind { return 0 }
func (outOfRange) Name() string        { return "Out Of Range" }

func (outOfRange) Choose(strategy.Player, *rand.Rand) model.Choice {
	return model.Choice(2)
}

func TestRunRejectsInvalidChoice(t *testing.T) {
	if err := strategy.Register("out_of_range", func() strategy.Strategy { return outOfRange{} }); err != nil && !errors.Is(err, strategy.ErrStrategyExists) {
		t.Fatalf("register: %v", err)
	}
	bad, err := strategy.Resolve("out_of_range")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	for _, order := range []string{"first", "second"} {
		t.Run(order, func(t *testing.T) {
			a, b := newPair(t, bad, strategy.AlwaysCooperate{})
			if order == "second" {
				a, b = newPair(t, strategy.AlwaysCooperate{}, bad)
			}
			bt, err := New(a, b)
			if err != nil {
				t.Fatalf("new battle: %v", err)
			}
			if _, err := bt.Run(); !errors.Is(err, ErrInvalidBattle) {
				t.Fatalf("expected ErrInvalidBattle, got %v", err)
			}
			if a.TotalBattleScore() != 0 || b.TotalBattleScore() != 0 {
				t.Fatalf("no round should be scored, got %d and %d", a.TotalBattleScore(), b.TotalBattleScore())
			}
			if _, ok := a.OpponentColony(); ok {
				t.Fatal("opponent link should be dropped after a failed battle")
			}
		})
	}
}
