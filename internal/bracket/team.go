package bracket

import (
	"time"

	"github.com/google/uuid"
)

// Standing is a team's result in the previous edition, used to hand out byes.
type Standing string

const (
	StandingWinner        Standing = "winner"
	StandingRunnerUp      Standing = "runnerUp"
	StandingSemiFinalist1 Standing = "semiFinalist1"
	StandingSemiFinalist2 Standing = "semiFinalist2"
	StandingNone          Standing = "none"
)

// ByePriority is the order in which standings are offered a bye.
var ByePriority = []Standing{
	StandingWinner,
	StandingRunnerUp,
	StandingSemiFinalist1,
	StandingSemiFinalist2,
}

func (s Standing) Valid() bool {
	switch s {
	case StandingWinner, StandingRunnerUp, StandingSemiFinalist1, StandingSemiFinalist2, StandingNone:
		return true
	}
	return false
}

type Team struct {
	ID               uuid.UUID `db:"id" json:"id"`
	TournamentID     uuid.UUID `db:"tournament_id" json:"tournamentId"`
	Name             string    `db:"name" json:"name"`
	Logo             *string   `db:"logo" json:"logo,omitempty"`
	Description      *string   `db:"description" json:"description,omitempty"`
	PreviousStanding Standing  `db:"previous_standing" json:"previousStanding"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
}
