package tournament

import (
	"math/rand"

	"colonies/internal/colony"
)

// samplingWeight keeps colonies without points in the draw.
func samplingWeight(c *colony.Colony) int64 {
	if s := int64(c.TotalBattleScore()); s > 1 {
		return s
	}
	return 1
}

// pickWeighted draws an index with probability proportional to weights,
// skipping skip. total must be the sum of the weights that are not skipped.
func pickWeighted(rng *rand.Rand, weights []int64, total int64, skip int) int {
	r := rng.Int63n(total)
	last := -1
	for i, w := range weights {
		if i == skip {
			continue
		}
		if r < w {
			return i
		}
		r -= w
		last = i
	}
	return last
}

// samplePair draws two distinct colonies, each with probability
// proportional to its sampling weight. The second draw leaves the first
// colony out, which is the same distribution as redrawing until the picks
// differ but always terminates. It reports false with fewer than two
// colonies.
func samplePair(rng *rand.Rand, alive []*colony.Colony) (int, int, bool) {
	if len(alive) < 2 {
		return 0, 0, false
	}
	weights := make([]int64, len(alive))
	var total int64
	for i, c := range alive {
		weights[i] = samplingWeight(c)
		total += weights[i]
	}

	first := pickWeighted(rng, weights, total, -1)
	second := pickWeighted(rng, weights, total-weights[first], first)
	return first, second, true
}
