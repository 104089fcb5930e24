package stats

import (
	"math"
	"sort"

	"colonies/internal/model"
)

// StrategySummary aggregates the colonies of one strategy in a ranking.
type StrategySummary struct {
	Strategy         string  `json:"strategy"`
	Colonies         int     `json:"colonies"`
	BestRank         int     `json:"best_rank"`
	TournamentPoints int     `json:"tournament_points"`
	MeanScore        float64 `json:"mean_total_battle_score"`
	StdScore         float64 `json:"std_total_battle_score"`
	MaxScore         int     `json:"max_total_battle_score"`
	MinScore         int     `json:"min_total_battle_score"`
}

// SeriesPoint is the mean lifetime score of one strategy after a round.
type SeriesPoint struct {
	Round     int     `json:"round"`
	Strategy  string  `json:"strategy"`
	MeanScore float64 `json:"mean_total_battle_score"`
}

// SummarizeStrategies groups standings by strategy, ordered by the best rank
// any colony of that strategy reached.
func SummarizeStrategies(standings []model.StandingRecord) []StrategySummary {
	byName := map[string]*StrategySummary{}
	scores := map[string][]float64{}
	order := make([]string, 0)
	for _, s := range standings {
		sum, ok := byName[s.Strategy]
		if !ok {
			sum = &StrategySummary{Strategy: s.Strategy, BestRank: s.Rank, MaxScore: s.TotalBattleScore, MinScore: s.TotalBattleScore}
			byName[s.Strategy] = sum
			order = append(order, s.Strategy)
		}
		sum.Colonies++
		sum.TournamentPoints += s.TournamentScore
		if s.Rank < sum.BestRank {
			sum.BestRank = s.Rank
		}
		if s.TotalBattleScore > sum.MaxScore {
			sum.MaxScore = s.TotalBattleScore
		}
		if s.TotalBattleScore < sum.MinScore {
			sum.MinScore = s.TotalBattleScore
		}
		scores[s.Strategy] = append(scores[s.Strategy], float64(s.TotalBattleScore))
	}

	out := make([]StrategySummary, 0, len(order))
	for _, name := range order {
		sum := byName[name]
		sum.MeanScore, sum.StdScore = avgStd(scores[name])
		out = append(out, *sum)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].BestRank < out[j].BestRank })
	return out
}

// StrategySeries averages trajectory points per strategy and round. Colonies
// missing from standings are skipped.
func StrategySeries(standings []model.StandingRecord, points []model.TrajectoryPoint) []SeriesPoint {
	strategyOf := make(map[string]string, len(standings))
	names := make([]string, 0)
	seen := map[string]bool{}
	for _, s := range standings {
		strategyOf[s.ColonyID] = s.Strategy
		if !seen[s.Strategy] {
			seen[s.Strategy] = true
			names = append(names, s.Strategy)
		}
	}
	sort.Strings(names)

	type key struct {
		round    int
		strategy string
	}
	values := map[key][]float64{}
	maxRound := 0
	for _, p := range points {
		name, ok := strategyOf[p.ColonyID]
		if !ok {
			continue
		}
		k := key{p.Round, name}
		values[k] = append(values[k], float64(p.TotalBattleScore))
		if p.Round > maxRound {
			maxRound = p.Round
		}
	}

	out := make([]SeriesPoint, 0, maxRound*len(names))
	for round := 1; round <= maxRound; round++ {
		for _, name := range names {
			vs, ok := values[key{round, name}]
			if !ok {
				continue
			}
			mean, _ := avgStd(vs)
			out = append(out, SeriesPoint{Round: round, Strategy: name, MeanScore: mean})
		}
	}
	return out
}

// avgStd returns the mean and population standard deviation.
func avgStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		sq += (v - avg) * (v - avg)
	}
	return avg, math.Sqrt(sq / float64(len(values)))
}
