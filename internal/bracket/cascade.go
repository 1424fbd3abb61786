package bracket

import (
	"fmt"

	"github.com/google/uuid"
)

// DeclareWinner records the result of a pending match.
func (m *Match) DeclareWinner(teamID uuid.UUID) error {
	if m.Status == MatchCompleted {
		return &MatchError{Op: "mark winner", MatchID: m.ID, TeamID: teamID, Err: ErrAlreadyCompleted}
	}
	if err := m.settle(teamID); err != nil {
		return &MatchError{Op: "mark winner", MatchID: m.ID, TeamID: teamID, Err: err}
	}
	return nil
}

// CorrectWinner replaces the result of a decided match.
func (m *Match) CorrectWinner(teamID uuid.UUID) error {
	if m.Status != MatchCompleted {
		return &MatchError{Op: "edit winner", MatchID: m.ID, TeamID: teamID, Err: ErrMatchPending}
	}
	if err := m.settle(teamID); err != nil {
		return &MatchError{Op: "edit winner", MatchID: m.ID, TeamID: teamID, Err: err}
	}
	return nil
}

func (m *Match) settle(winnerID uuid.UUID) error {
	if m.Team1ID == nil || m.Team2ID == nil || !m.HasTeam(winnerID) {
		return ErrInvalidWinner
	}

	loserID := *m.Team1ID
	if loserID == winnerID {
		loserID = *m.Team2ID
	}

	m.WinnerID = &winnerID
	m.LoserID = &loserID
	m.Status = MatchCompleted
	return nil
}

// Advance writes the winner into the slot of next that this match feeds.
// Whatever occupied the slot is overwritten.
func (m *Match) Advance(next *Match) error {
	if m.WinnerID == nil {
		return &MatchError{Op: "advance", MatchID: m.ID, Err: fmt.Errorf("%w: no winner to advance", ErrStructural)}
	}
	if m.NextMatchID == nil || m.NextMatchSlot == nil || next.ID != *m.NextMatchID {
		return &MatchError{Op: "advance", MatchID: m.ID, TeamID: *m.WinnerID, Err: fmt.Errorf("%w: match %s is not the successor", ErrStructural, next.ID)}
	}

	next.setTeam(*m.NextMatchSlot, *m.WinnerID)
	return nil
}

// RoundComplete reports whether every match of a round has a result.
func RoundComplete(round []Match) bool {
	if len(round) == 0 {
		return false
	}
	for _, m := range round {
		if m.Status != MatchCompleted {
			return false
		}
	}
	return true
}
