package bracket

import (
	"time"

	"github.com/google/uuid"
)

type TournamentStatus string

const (
	TournamentUpcoming  TournamentStatus = "upcoming"
	TournamentOngoing   TournamentStatus = "ongoing"
	TournamentCompleted TournamentStatus = "completed"
)

func (s TournamentStatus) Valid() bool {
	switch s {
	case TournamentUpcoming, TournamentOngoing, TournamentCompleted:
		return true
	}
	return false
}

type Tournament struct {
	ID           uuid.UUID        `db:"id" json:"id"`
	Name         string           `db:"name" json:"name"`
	Description  *string          `db:"description" json:"description,omitempty"`
	Status       TournamentStatus `db:"status" json:"status"`
	CurrentRound int              `db:"current_round" json:"currentRound"`
	TotalRounds  int              `db:"total_rounds" json:"totalRounds"`
	TotalTeams   int              `db:"total_teams" json:"totalTeams"`
	TotalByes    int              `db:"total_byes" json:"totalByes"`
	ChampionID   *uuid.UUID       `db:"champion_id" json:"champion"`
	CreatedAt    time.Time        `db:"created_at" json:"createdAt"`

	// Loaded from the teams table, ordered by bye position
	TeamsWithBye []uuid.UUID `db:"-" json:"teamsWithBye"`
}

func (t *Tournament) IsFinalRound(round int) bool {
	return round == t.TotalRounds
}
