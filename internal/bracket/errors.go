package bracket

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrInvalidWinner    = errors.New("winner must be one of the competing teams")
	ErrAlreadyCompleted = errors.New("match is already completed")
	ErrStructural       = errors.New("bracket structure error")
	ErrPersistence      = errors.New("persistence failure")
	ErrBracketExists    = errors.New("bracket already generated for tournament")

	ErrNoTeams      = fmt.Errorf("%w: cannot generate bracket without teams", ErrInvalidInput)
	ErrMatchPending = fmt.Errorf("%w: match has no result to correct", ErrInvalidInput)
)

// MatchError ties a failure to the match and team it was raised for.
type MatchError struct {
	Op      string
	MatchID uuid.UUID
	TeamID  uuid.UUID
	Err     error
}

func (e *MatchError) Error() string {
	if e.TeamID == uuid.Nil {
		return fmt.Sprintf("%s match %s: %v", e.Op, e.MatchID, e.Err)
	}
	return fmt.Sprintf("%s match %s with team %s: %v", e.Op, e.MatchID, e.TeamID, e.Err)
}

func (e *MatchError) Unwrap() error {
	return e.Err
}
