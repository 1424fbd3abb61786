package bracket

import (
	"fmt"

	"github.com/google/uuid"
)

// NewRoundOneMatches pairs teams in order: (0,1), (2,3), ...
func NewRoundOneMatches(tournamentID uuid.UUID, teams []Team) ([]Match, error) {
	if len(teams)%2 != 0 {
		return nil, fmt.Errorf("%w: round 1 needs an even number of teams, got %d", ErrStructural, len(teams))
	}

	matches := make([]Match, 0, len(teams)/2)
	for i := 0; i+1 < len(teams); i += 2 {
		team1, team2 := teams[i].ID, teams[i+1].ID
		matches = append(matches, Match{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			Round:        1,
			MatchNumber:  i/2 + 1,
			Team1ID:      &team1,
			Team2ID:      &team2,
			Status:       MatchPending,
		})
	}
	return matches, nil
}

// NewShells creates empty pending matches for a round that has yet to be filled.
func NewShells(tournamentID uuid.UUID, round, count int) []Match {
	shells := make([]Match, count)
	for i := range shells {
		shells[i] = Match{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			Round:        round,
			MatchNumber:  i + 1,
			Status:       MatchPending,
		}
	}
	return shells
}

// destination maps the i-th match of a round onto its successor.
func destination(i int) (nextIndex int, slot Slot) {
	if i%2 == 0 {
		return i / 2, SlotTeam1
	}
	return i / 2, SlotTeam2
}

// LinkRounds points every match of current at the match and slot its winner
// advances to in next. next is left untouched.
func LinkRounds(current, next []Match) error {
	if need := (len(current) + 1) / 2; len(next) < need {
		return fmt.Errorf("%w: %d matches cannot feed %d successors (need %d)", ErrStructural, len(current), len(next), need)
	}

	for i := range current {
		nextIndex, slot := destination(i)
		nextID := next[nextIndex].ID
		current[i].NextMatchID = &nextID
		current[i].NextMatchSlot = &slot
	}
	return nil
}
