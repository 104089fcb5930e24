package tournament

// roundRobinSchedule splits every unordered pair of n indices into rounds in
// which no index appears twice, using the circle method. Each pair is
// ordered low index first. An odd n gives one index a bye per round.
func roundRobinSchedule(n int) [][][2]int {
	if n < 2 {
		return nil
	}
	m := n
	if m%2 == 1 {
		m++
	}
	ring := make([]int, m)
	for i := range ring {
		ring[i] = i
	}
	if m > n {
		ring[m-1] = -1
	}

	rounds := make([][][2]int, 0, m-1)
	for r := 0; r < m-1; r++ {
		pairs := make([][2]int, 0, m/2)
		for i := 0; i < m/2; i++ {
			x, y := ring[i], ring[m-1-i]
			if x < 0 || y < 0 {
				continue
			}
			if x > y {
				x, y = y, x
			}
			pairs = append(pairs, [2]int{x, y})
		}
		rounds = append(rounds, pairs)

		// Keep ring[0] fixed and rotate the rest one step.
		last := ring[m-1]
		copy(ring[2:], ring[1:m-1])
		ring[1] = last
	}
	return rounds
}
