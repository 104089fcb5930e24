// Package colonies is the public entry point for running iterated
// Prisoner's-Dilemma tournaments between strategy-driven colonies.
package colonies

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"colonies/internal/colony"
	"colonies/internal/config"
	"colonies/internal/logging"
	"colonies/internal/model"
	"colonies/internal/stats"
	"colonies/internal/storage"
	"colonies/internal/strategy"
	"colonies/internal/tournament"
)

const (
	FormatSingleElimination = "single_elimination"
	FormatLeague            = "league"
	FormatPopulationGrowth  = "population_growth"
)

var (
	ErrDegenerateInput = tournament.ErrDegenerateInput
	ErrInvalidConfig   = tournament.ErrInvalidConfig
	ErrUnknownFormat   = errors.New("unknown tournament format")
	ErrRunNotFound     = errors.New("run not found")
)

type Options struct {
	StoreKind string
	DBPath    string
	// Config overrides the defaults from config.Default. It is validated by New.
	Config    *config.Config
	LogWriter io.Writer
}

type Client struct {
	store storage.Store
	cfg   config.Config
	log   *logging.Logger

	mu          sync.Mutex
	initialized bool
}

type RunRequest struct {
	Format string
	// Strategies lists one registered strategy name per colony.
	Strategies []string
	// Seed zero picks a fresh seed unless the config pins one.
	Seed           int64
	Rounds         int
	SamplingRounds int
	Workers        int
}

type Standing struct {
	Rank             int
	ColonyID         string
	Label            string
	Strategy         string
	TournamentScore  int
	TotalBattleScore int
}

type RunSummary struct {
	RunID   string
	Format  string
	Seed    int64
	Battles int
	// Winner is nil when the top of the ranking is tied.
	Winner     *Standing
	Standings  []Standing
	Trajectory []model.TrajectoryPoint
}

type RunItem struct {
	RunID        string
	CreatedAtUTC string
	Format       string
	Seed         int64
	Colonies     int
	Battles      int
	WinnerID     string
}

func New(opts Options) (*Client, error) {
	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = cfg.Store
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = cfg.DBPath
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	log := logging.NopLogger()
	if opts.LogWriter != nil {
		log = logging.NewLogger(opts.LogWriter, cfg.LogLevel)
	}

	return &Client{store: store, cfg: cfg, log: log}, nil
}

// NewFromEnv builds a client configured from COLONIES_* variables.
func NewFromEnv(logWriter io.Writer) (*Client, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	return New(Options{Config: &cfg, LogWriter: logWriter})
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	c.initialized = true
	return nil
}

// Strategies lists the registered strategy names.
func (c *Client) Strategies() []string {
	return strategy.List()
}

// Run builds a fresh population from req.Strategies, plays the requested
// tournament to completion and archives the result.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if err := c.Init(ctx); err != nil {
		return RunSummary{}, err
	}
	if req.Format == "" {
		req.Format = FormatLeague
	}
	if req.Rounds == 0 {
		req.Rounds = c.cfg.Rounds
	}
	if req.SamplingRounds == 0 {
		req.SamplingRounds = c.cfg.SamplingRounds
	}
	if req.Workers == 0 {
		req.Workers = c.cfg.Workers
	}
	if req.Rounds < 0 || req.SamplingRounds < 0 || req.Workers < 0 {
		return RunSummary{}, fmt.Errorf("%w: rounds, sampling rounds and workers must be positive", ErrInvalidConfig)
	}
	if req.Seed == 0 {
		req.Seed = c.cfg.Seed
	}
	if req.Seed == 0 {
		seed, err := newSeed()
		if err != nil {
			return RunSummary{}, err
		}
		req.Seed = seed
	}
	if len(req.Strategies) < 2 {
		return RunSummary{}, fmt.Errorf("%w: need at least 2 strategies, got %d", ErrDegenerateInput, len(req.Strategies))
	}

	arena := colony.NewArena()
	population, err := arena.Spawn(req.Strategies...)
	if err != nil {
		return RunSummary{}, fmt.Errorf("%w: %w", ErrDegenerateInput, err)
	}

	runID := uuid.NewString()
	log := c.log.WithRun(runID)
	matrix := c.cfg.Matrix()
	points := c.cfg.Points()
	tcfg := tournament.Config{
		RNG:            rand.New(rand.NewSource(req.Seed)),
		Logger:         log,
		BattleRounds:   req.Rounds,
		Matrix:         &matrix,
		Points:         &points,
		Workers:        req.Workers,
		SamplingRounds: req.SamplingRounds,
	}

	tour, err := newTournament(req.Format, population, tcfg)
	if err != nil {
		return RunSummary{}, err
	}
	if err := ctx.Err(); err != nil {
		return RunSummary{}, err
	}
	ranking, err := tour.Start()
	if err != nil {
		return RunSummary{}, fmt.Errorf("run %s: %w", req.Format, err)
	}
	winner, err := tour.Winner()
	if err != nil {
		return RunSummary{}, err
	}

	summary := RunSummary{
		RunID:     runID,
		Format:    tour.Name(),
		Seed:      req.Seed,
		Battles:   tour.Battles(),
		Standings: standings(ranking),
	}
	if winner != nil {
		summary.Winner = &summary.Standings[0]
	}
	if growth, ok := tour.(*tournament.PopulationGrowth); ok {
		summary.Trajectory = growth.TrajectoryPoints()
	}

	record, err := c.archive(ctx, summary)
	if err != nil {
		return RunSummary{}, err
	}
	log.Info("run archived", "battles", summary.Battles, "colonies", len(population))

	if c.cfg.ArtifactsDir != "" {
		runDir, err := stats.WriteRunArtifacts(c.cfg.ArtifactsDir, stats.RunArtifacts{Tournament: record, Trajectory: summary.Trajectory})
		if err != nil {
			return RunSummary{}, fmt.Errorf("write artifacts %s: %w", runID, err)
		}
		log.Debug("run artifacts written", "dir", runDir)
	}
	return summary, nil
}

// Export writes the archived run to outDir as JSON and CSV artifacts and
// returns the run directory.
func (c *Client) Export(ctx context.Context, runID, outDir string) (string, error) {
	if err := c.Init(ctx); err != nil {
		return "", err
	}
	record, ok, err := c.store.GetTournament(ctx, runID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	points, _, err := c.store.GetTrajectory(ctx, runID)
	if err != nil {
		return "", err
	}
	return stats.WriteRunArtifacts(outDir, stats.RunArtifacts{Tournament: record, Trajectory: points})
}

// Runs lists archived runs, newest first. A non-positive limit returns all.
func (c *Client) Runs(ctx context.Context, limit int) ([]RunItem, error) {
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	records, err := c.store.ListTournaments(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	out := make([]RunItem, 0, len(records))
	for _, r := range records {
		out = append(out, RunItem{
			RunID:        r.RunID,
			CreatedAtUTC: r.CreatedAtUTC,
			Format:       r.Format,
			Seed:         r.Seed,
			Colonies:     len(r.Standings),
			Battles:      r.Battles,
			WinnerID:     r.WinnerID,
		})
	}
	return out, nil
}

// Standings returns the archived ranking of a run.
func (c *Client) Standings(ctx context.Context, runID string) ([]Standing, error) {
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	record, ok, err := c.store.GetTournament(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	out := make([]Standing, 0, len(record.Standings))
	for _, s := range record.Standings {
		out = append(out, Standing(s))
	}
	return out, nil
}

// Trajectory returns the archived score trajectory of a population growth
// run. Other formats record none.
func (c *Client) Trajectory(ctx context.Context, runID string) ([]model.TrajectoryPoint, error) {
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	points, ok, err := c.store.GetTrajectory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: no trajectory for %s", ErrRunNotFound, runID)
	}
	return points, nil
}

func (c *Client) archive(ctx context.Context, summary RunSummary) (model.TournamentRecord, error) {
	record := model.TournamentRecord{
		VersionedRecord: storage.CurrentVersion(),
		RunID:           summary.RunID,
		Format:          summary.Format,
		Seed:            summary.Seed,
		CreatedAtUTC:    time.Now().UTC().Format(time.RFC3339Nano),
		Battles:         summary.Battles,
		Standings:       make([]model.StandingRecord, 0, len(summary.Standings)),
	}
	if summary.Winner != nil {
		record.WinnerID = summary.Winner.ColonyID
	}
	for _, s := range summary.Standings {
		record.Standings = append(record.Standings, model.StandingRecord(s))
	}
	if err := c.store.SaveTournament(ctx, record); err != nil {
		return model.TournamentRecord{}, fmt.Errorf("save tournament %s: %w", summary.RunID, err)
	}
	if summary.Trajectory != nil {
		if err := c.store.SaveTrajectory(ctx, summary.RunID, summary.Trajectory); err != nil {
			return model.TournamentRecord{}, fmt.Errorf("save trajectory %s: %w", summary.RunID, err)
		}
	}
	return record, nil
}

func newTournament(format string, population []*colony.Colony, cfg tournament.Config) (tournament.Tournament, error) {
	switch format {
	case FormatSingleElimination:
		return tournament.NewSingleElimination(population, cfg)
	case FormatLeague:
		return tournament.NewLeague(population, cfg)
	case FormatPopulationGrowth:
		return tournament.NewPopulationGrowth(population, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func standings(ranking []*colony.Colony) []Standing {
	out := make([]Standing, 0, len(ranking))
	for i, c := range ranking {
		out = append(out, Standing{
			Rank:             i + 1,
			ColonyID:         c.ID.String(),
			Label:            c.Label,
			Strategy:         c.Strategy().Name(),
			TournamentScore:  c.TournamentScore(),
			TotalBattleScore: c.TotalBattleScore(),
		})
	}
	return out
}

// newSeed draws a seed from crypto/rand.
func newSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
