// Package tournament orchestrates many battles over a population of colonies
// and ranks them.
//
// Three formats are provided: SingleElimination, League and
// PopulationGrowth. Every format runs at most once; Start, Result and Winner
// all return the memoized ranking after the first call.
package tournament

import (
	"errors"
	"fmt"
	"math/rand"

	"colonies/internal/battle"
	"colonies/internal/colony"
	"colonies/internal/logging"
	"colonies/internal/payoff"
)

var (
	ErrDegenerateInput = errors.New("degenerate tournament input")
	ErrInvalidConfig   = errors.New("invalid tournament config")
)

// Tournament is implemented by every format.
type Tournament interface {
	Name() string
	// Start runs the tournament on first call and returns the ranking, best
	// first. Later calls return the same ranking without simulating again.
	Start() ([]*colony.Colony, error)
	Result() ([]*colony.Colony, error)
	// Winner returns nil when the top of the ranking is tied.
	Winner() (*colony.Colony, error)
	Battles() int
}

// Points awarded per league battle.
type Points struct {
	Win  int
	Tie  int
	Loss int
}

func DefaultPoints() Points {
	return Points{Win: 2, Tie: 1, Loss: 0}
}

func (p Points) Validate() error {
	if p.Win <= 0 || p.Tie <= 0 || p.Loss < 0 {
		return fmt.Errorf("%w: points win=%d tie=%d loss=%d", ErrInvalidConfig, p.Win, p.Tie, p.Loss)
	}
	return nil
}

const DefaultSamplingRounds = 1000

// Config carries the knobs shared by all formats. Zero values select the
// defaults; negative values are rejected.
type Config struct {
	RNG          *rand.Rand
	Logger       *logging.Logger
	BattleRounds int
	Matrix       *payoff.Matrix

	// League only.
	Points  *Points
	Workers int

	// PopulationGrowth only.
	SamplingRounds int
	Evictor        Evictor
}

func (c Config) withDefaults() (Config, error) {
	if c.RNG == nil {
		return Config{}, fmt.Errorf("%w: random source is required", ErrInvalidConfig)
	}
	if c.Logger == nil {
		c.Logger = logging.NopLogger()
	}
	if c.BattleRounds < 0 {
		return Config{}, fmt.Errorf("%w: battle rounds must be positive, got %d", ErrInvalidConfig, c.BattleRounds)
	}
	if c.BattleRounds == 0 {
		c.BattleRounds = battle.DefaultRounds
	}
	if c.Matrix == nil {
		m := payoff.Default()
		c.Matrix = &m
	}
	if err := c.Matrix.Validate(); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Points == nil {
		p := DefaultPoints()
		c.Points = &p
	}
	if err := c.Points.Validate(); err != nil {
		return Config{}, err
	}
	if c.Workers < 0 {
		return Config{}, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
	if c.SamplingRounds < 0 {
		return Config{}, fmt.Errorf("%w: sampling rounds must be positive, got %d", ErrInvalidConfig, c.SamplingRounds)
	}
	if c.SamplingRounds == 0 {
		c.SamplingRounds = DefaultSamplingRounds
	}
	return c, nil
}

// base holds the population and the memoized result shared by every format.
type base struct {
	cfg        Config
	log        *logging.Logger
	population []*colony.Colony
	alive      []*colony.Colony

	started bool
	ranking []*colony.Colony
	err     error
	battles int
}

func newBase(name string, population []*colony.Colony, cfg Config) (base, error) {
	if len(population) < 2 {
		return base{}, fmt.Errorf("%w: need at least 2 colonies, got %d", ErrDegenerateInput, len(population))
	}
	seen := make(map[*colony.Colony]struct{}, len(population))
	for i, c := range population {
		if c == nil {
			return base{}, fmt.Errorf("%w: colony %d is nil", ErrDegenerateInput, i)
		}
		if c.Strategy() == nil {
			return base{}, fmt.Errorf("%w: colony %d has no strategy", ErrDegenerateInput, i)
		}
		if c.Arena() != population[0].Arena() {
			return base{}, fmt.Errorf("%w: colony %s belongs to a different arena", ErrDegenerateInput, c)
		}
		if _, dup := seen[c]; dup {
			return base{}, fmt.Errorf("%w: colony %s listed twice", ErrDegenerateInput, c)
		}
		seen[c] = struct{}{}
	}

	cfg, err := cfg.withDefaults()
	if err != nil {
		return base{}, err
	}

	pop := make([]*colony.Colony, len(population))
	copy(pop, population)
	alive := make([]*colony.Colony, len(population))
	copy(alive, population)

	return base{
		cfg:        cfg,
		log:        cfg.Logger.WithTournament(name),
		population: pop,
		alive:      alive,
	}, nil
}

// once runs play on the first call and replays its result afterwards.
func (b *base) once(play func() ([]*colony.Colony, error)) ([]*colony.Colony, error) {
	if !b.started {
		b.started = true
		b.log.Info("tournament started", "colonies", len(b.population))
		b.ranking, b.err = play()
		if b.err != nil {
			b.log.Error("tournament failed", "error", b.err)
		} else {
			b.log.Info("tournament finished", "battles", b.battles, "winner", describe(b.ranking[0]))
		}
	}
	if b.err != nil {
		return nil, b.err
	}
	out := make([]*colony.Colony, len(b.ranking))
	copy(out, b.ranking)
	return out, nil
}

// Battles is the number of battles played so far.
func (b *base) Battles() int {
	return b.battles
}

// Alive returns the colonies still in contention.
func (b *base) Alive() []*colony.Colony {
	out := make([]*colony.Colony, len(b.alive))
	copy(out, b.alive)
	return out
}

func (b *base) fight(x, y *colony.Colony, rng *rand.Rand) (battle.Outcome, error) {
	bt, err := battle.New(x, y,
		battle.WithRounds(b.cfg.BattleRounds),
		battle.WithMatrix(*b.cfg.Matrix),
		battle.WithRNG(rng),
	)
	if err != nil {
		return battle.Outcome{}, err
	}
	return bt.Run()
}

func (b *base) logOutcome(out battle.Outcome) {
	b.log.Debug("battle finished",
		"a", describe(out.A),
		"b", describe(out.B),
		"score_a", out.ScoreA,
		"score_b", out.ScoreB,
		"winner", describe(out.Winner),
	)
}

// headTied reports whether the first two ranked colonies share key.
func headTied(ranking []*colony.Colony, key func(*colony.Colony) int) bool {
	return len(ranking) > 1 && key(ranking[0]) == key(ranking[1])
}

func describe(c *colony.Colony) string {
	if c == nil {
		return "none"
	}
	return c.String()
}
