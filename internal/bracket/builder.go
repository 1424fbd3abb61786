package bracket

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Build is a fully linked match tree ready to be persisted in one batch.
type Build struct {
	TournamentID  uuid.UUID
	TotalRounds   int
	TotalByes     int
	TeamsWithBye  []Team
	TeamsInRound1 []Team

	// Rounds[r-1] holds the matches of round r ordered by match number
	Rounds [][]Match
}

// Matches flattens the tree in round order.
func (b *Build) Matches() []Match {
	var matches []Match
	for _, round := range b.Rounds {
		matches = append(matches, round...)
	}
	return matches
}

func (b *Build) Index() RoundIndex {
	return NewRoundIndex(len(b.Rounds), b.Matches())
}

func (b *Build) ByeTeamIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(b.TeamsWithBye))
	for i, t := range b.TeamsWithBye {
		ids[i] = t.ID
	}
	return ids
}

// NewBuild lays out a single-elimination bracket for teams. Every round's
// shells are created before the previous round is linked to them, so each
// NextMatchID refers to a match that already exists in the tree.
func NewBuild(tournamentID uuid.UUID, teams []Team, rng *rand.Rand) (*Build, error) {
	if len(teams) == 0 {
		return nil, ErrNoTeams
	}
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: a bracket needs at least 2 teams, got %d", ErrInvalidInput, len(teams))
	}

	totalRounds, err := TotalRounds(len(teams))
	if err != nil {
		return nil, err
	}
	totalByes, err := ByeCount(len(teams))
	if err != nil {
		return nil, err
	}

	withBye, round1Teams, err := AssignByes(teams, totalByes, rng)
	if err != nil {
		return nil, err
	}

	round1, err := NewRoundOneMatches(tournamentID, round1Teams)
	if err != nil {
		return nil, err
	}

	b := &Build{
		TournamentID:  tournamentID,
		TotalRounds:   totalRounds,
		TotalByes:     totalByes,
		TeamsWithBye:  withBye,
		TeamsInRound1: round1Teams,
		Rounds:        [][]Match{round1},
	}

	if totalRounds >= 2 {
		// Round 1 winners plus bye teams, two per match
		entrants := len(round1Teams)/2 + len(withBye)
		round2 := NewShells(tournamentID, 2, (entrants+1)/2)
		if err := LinkRounds(round1, round2); err != nil {
			return nil, fmt.Errorf("linking round 1: %w", err)
		}
		b.Rounds = append(b.Rounds, round2)

		for r := 3; r <= totalRounds; r++ {
			prev := b.Rounds[r-2]
			shells := NewShells(tournamentID, r, (len(prev)+1)/2)
			if err := LinkRounds(prev, shells); err != nil {
				return nil, fmt.Errorf("linking round %d: %w", r-1, err)
			}
			b.Rounds = append(b.Rounds, shells)
		}

		if err := placeByes(len(round1), b.Rounds[1], withBye); err != nil {
			return nil, err
		}
	}

	if final := b.Rounds[len(b.Rounds)-1]; len(final) != 1 {
		return nil, fmt.Errorf("%w: final round has %d matches", ErrStructural, len(final))
	}

	return b, nil
}

// placeByes seats bye teams in round 2, skipping every slot a round 1 winner
// will later be written into.
func placeByes(round1Count int, round2 []Match, byes []Team) error {
	reserved := make(map[int]map[Slot]bool)
	for i := 0; i < round1Count; i++ {
		nextIndex, slot := destination(i)
		if reserved[nextIndex] == nil {
			reserved[nextIndex] = make(map[Slot]bool)
		}
		reserved[nextIndex][slot] = true
	}

	next := 0
	for i := range round2 {
		for _, slot := range []Slot{SlotTeam1, SlotTeam2} {
			if next >= len(byes) {
				return nil
			}
			if reserved[i][slot] {
				continue
			}
			round2[i].setTeam(slot, byes[next].ID)
			next++
		}
	}

	if next < len(byes) {
		return fmt.Errorf("%w: %d bye teams left without a round 2 slot", ErrStructural, len(byes)-next)
	}
	return nil
}
