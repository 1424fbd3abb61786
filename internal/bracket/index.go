package bracket

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RoundIndex lists the match ids of every round in play order.
// Round r lives at index r-1.
type RoundIndex [][]uuid.UUID

// Round returns the match ids of a 1-based round, nil when out of range.
func (ri RoundIndex) Round(round int) []uuid.UUID {
	if round < 1 || round > len(ri) {
		return nil
	}
	return ri[round-1]
}

func (ri RoundIndex) Value() (driver.Value, error) {
	if ri == nil {
		ri = RoundIndex{}
	}
	b, err := json.Marshal([][]uuid.UUID(ri))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (ri *RoundIndex) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*ri = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into RoundIndex", src)
	}

	var rounds [][]uuid.UUID
	if err := json.Unmarshal(raw, &rounds); err != nil {
		return err
	}
	*ri = rounds
	return nil
}

// NewRoundIndex groups matches by round, keeping their order inside a round.
func NewRoundIndex(totalRounds int, matches []Match) RoundIndex {
	index := make(RoundIndex, totalRounds)
	for i := range index {
		index[i] = []uuid.UUID{}
	}
	for _, m := range matches {
		if m.Round < 1 || m.Round > totalRounds {
			continue
		}
		index[m.Round-1] = append(index[m.Round-1], m.ID)
	}
	return index
}

// Bracket is the rendering view of a tournament's match tree.
type Bracket struct {
	TournamentID uuid.UUID  `db:"tournament_id" json:"tournamentId"`
	Structure    RoundIndex `db:"structure" json:"structure"`
	ActiveRound  int        `db:"active_round" json:"activeRound"`
	ChampionID   *uuid.UUID `db:"champion_id" json:"champion"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}
