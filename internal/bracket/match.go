package bracket

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchPending   MatchStatus = "pending"
	MatchCompleted MatchStatus = "completed"
)

// Slot is one of the two team positions of a match.
type Slot string

const (
	SlotTeam1 Slot = "team1"
	SlotTeam2 Slot = "team2"
)

type Match struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournamentId"`

	Round       int `db:"round" json:"round"`
	MatchNumber int `db:"match_number" json:"matchNumber"`

	Team1ID *uuid.UUID `db:"team_1_id" json:"team1"`
	Team2ID *uuid.UUID `db:"team_2_id" json:"team2"`

	WinnerID *uuid.UUID  `db:"winner_id" json:"winner"`
	LoserID  *uuid.UUID  `db:"loser_id" json:"loser"`
	Status   MatchStatus `db:"status" json:"status"`

	// Where the winner goes next, nil for the final
	NextMatchID   *uuid.UUID `db:"next_match_id" json:"nextMatchId"`
	NextMatchSlot *Slot      `db:"next_match_slot" json:"nextMatchSlot"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

func (m *Match) IsFinal() bool {
	return m.NextMatchID == nil
}

// Team returns the team occupying the slot, or nil when it is still empty.
func (m *Match) Team(slot Slot) *uuid.UUID {
	if slot == SlotTeam1 {
		return m.Team1ID
	}
	return m.Team2ID
}

func (m *Match) setTeam(slot Slot, teamID uuid.UUID) {
	if slot == SlotTeam1 {
		m.Team1ID = &teamID
	} else {
		m.Team2ID = &teamID
	}
}

// HasTeam reports whether the team sits in either slot.
func (m *Match) HasTeam(teamID uuid.UUID) bool {
	return (m.Team1ID != nil && *m.Team1ID == teamID) ||
		(m.Team2ID != nil && *m.Team2ID == teamID)
}

// Opponent returns the team facing teamID, nil when teamID does not play in
// the match or the other slot is still empty.
func (m *Match) Opponent(teamID uuid.UUID) *uuid.UUID {
	switch {
	case m.Team1ID != nil && *m.Team1ID == teamID:
		return m.Team(SlotTeam2)
	case m.Team2ID != nil && *m.Team2ID == teamID:
		return m.Team(SlotTeam1)
	}
	return nil
}

func (m *Match) IsWinner(teamID uuid.UUID) bool {
	return m.Status == MatchCompleted && m.WinnerID != nil && *m.WinnerID == teamID
}

func (m *Match) IsLoser(teamID uuid.UUID) bool {
	return m.Status == MatchCompleted && m.LoserID != nil && *m.LoserID == teamID
}
