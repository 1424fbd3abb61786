package bracket

import "fmt"

// TotalRounds returns ceil(log2(teamCount)). A single team needs no rounds.
func TotalRounds(teamCount int) (int, error) {
	if teamCount < 1 {
		return 0, fmt.Errorf("%w: team count must be at least 1, got %d", ErrInvalidInput, teamCount)
	}

	rounds := 0
	for size := 1; size < teamCount; size <<= 1 {
		rounds++
	}
	return rounds, nil
}

// ByeCount returns how many teams skip round 1 so that round 2 starts with a
// power of two. Always in [0, teamCount-1].
func ByeCount(teamCount int) (int, error) {
	rounds, err := TotalRounds(teamCount)
	if err != nil {
		return 0, err
	}
	return (1 << rounds) - teamCount, nil
}
