package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/AdamBeresnev/knockout/internal/bracket"
	"github.com/google/uuid"
)

// storeErr translates a storage failure into the bracket error taxonomy.
func storeErr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", msg, bracket.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", msg, bracket.ErrPersistence, err)
}

func matchErr(op string, matchID, teamID uuid.UUID, err error, msg string) error {
	return &bracket.MatchError{Op: op, MatchID: matchID, TeamID: teamID, Err: storeErr(err, msg)}
}
