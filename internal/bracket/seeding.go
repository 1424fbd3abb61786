package bracket

import (
	"fmt"
	"math/rand/v2"
)

// AssignByes splits teams into those advancing straight to round 2 and those
// playing round 1. Previous standings are served first, in ByePriority order,
// taking the first remaining team of each tier. Any byes left over are drawn
// from the rest using rng (the global source when rng is nil).
func AssignByes(teams []Team, byes int, rng *rand.Rand) (withBye []Team, round1 []Team, err error) {
	if byes < 0 || byes > len(teams) {
		return nil, nil, fmt.Errorf("%w: cannot assign %d byes among %d teams", ErrInvalidInput, byes, len(teams))
	}

	remaining := make([]Team, len(teams))
	copy(remaining, teams)
	withBye = make([]Team, 0, byes)

	for _, standing := range ByePriority {
		if len(withBye) >= byes {
			break
		}
		for i, t := range remaining {
			if t.PreviousStanding == standing {
				withBye = append(withBye, t)
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
	}

	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}
	for len(withBye) < byes {
		i := intN(len(remaining))
		withBye = append(withBye, remaining[i])
		remaining = append(remaining[:i], remaining[i+1:]...)
	}

	return withBye, remaining, nil
}
