package store

import (
	"context"

	"github.com/AdamBeresnev/knockout/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	matchColumns = `id, tournament_id, round, match_number, team_1_id, team_2_id, winner_id, loser_id, status, next_match_id, next_match_slot, created_at`

	createMatchesQuery = `
		INSERT INTO matches (id, tournament_id, round, match_number, team_1_id, team_2_id, winner_id, loser_id, status, next_match_id, next_match_slot)
		VALUES (:id, :tournament_id, :round, :match_number, :team_1_id, :team_2_id, :winner_id, :loser_id, :status, :next_match_id, :next_match_slot)
	`
	getMatchQuery     = `SELECT ` + matchColumns + ` FROM matches WHERE id = ?`
	getMatchesQuery   = `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = ? ORDER BY round ASC, match_number ASC`
	getRoundQuery     = `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = ? AND round = ? ORDER BY match_number ASC`
	countMatchesQuery = `SELECT COUNT(*) FROM matches WHERE tournament_id = ?`
	teamMatchesQuery  = `SELECT ` + matchColumns + ` FROM matches WHERE team_1_id = ? OR team_2_id = ? ORDER BY round ASC, match_number ASC`

	updateMatchQuery = `
		UPDATE matches SET
		team_1_id = :team_1_id,
		team_2_id = :team_2_id,
		winner_id = :winner_id,
		loser_id = :loser_id,
		status = :status
		WHERE id = :id
	`

	bracketColumns = `tournament_id, structure, active_round, champion_id, created_at`

	createBracketQuery = `
		INSERT INTO brackets (tournament_id, structure, active_round, champion_id)
		VALUES (:tournament_id, :structure, :active_round, :champion_id)
	`

	getBracketQuery            = `SELECT ` + bracketColumns + ` FROM brackets WHERE tournament_id = ?`
	updateBracketProgressQuery = `UPDATE brackets SET active_round = ?, champion_id = ? WHERE tournament_id = ?`
)

// CreateMatches inserts the whole match set in one statement.
func (s *TournamentStore) CreateMatches(ctx context.Context, tx *sqlx.Tx, matches []bracket.Match) error {
	if len(matches) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, createMatchesQuery, matches)
	return err
}

func (s *TournamentStore) GetMatch(ctx context.Context, id uuid.UUID) (*bracket.Match, error) {
	var match bracket.Match
	if err := s.db.GetContext(ctx, &match, getMatchQuery, id); err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *TournamentStore) GetMatchTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*bracket.Match, error) {
	var match bracket.Match
	if err := tx.GetContext(ctx, &match, getMatchQuery, id); err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *TournamentStore) GetMatches(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Match, error) {
	var matches []bracket.Match
	err := s.db.SelectContext(ctx, &matches, getMatchesQuery, tournamentID)
	return matches, err
}

func (s *TournamentStore) GetRoundMatches(ctx context.Context, tournamentID uuid.UUID, round int) ([]bracket.Match, error) {
	var matches []bracket.Match
	err := s.db.SelectContext(ctx, &matches, getRoundQuery, tournamentID, round)
	return matches, err
}

func (s *TournamentStore) GetRoundMatchesTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, round int) ([]bracket.Match, error) {
	var matches []bracket.Match
	err := tx.SelectContext(ctx, &matches, getRoundQuery, tournamentID, round)
	return matches, err
}

// GetTeamMatches returns every match the team has been placed in so far.
func (s *TournamentStore) GetTeamMatches(ctx context.Context, teamID uuid.UUID) ([]bracket.Match, error) {
	var matches []bracket.Match
	err := s.db.SelectContext(ctx, &matches, teamMatchesQuery, teamID, teamID)
	return matches, err
}

func (s *TournamentStore) CountMatchesTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) (int, error) {
	var count int
	err := tx.GetContext(ctx, &count, countMatchesQuery, tournamentID)
	return count, err
}

// UpdateMatch writes the mutable part of a match: its slots and result.
func (s *TournamentStore) UpdateMatch(ctx context.Context, tx *sqlx.Tx, match *bracket.Match) error {
	_, err := tx.NamedExecContext(ctx, updateMatchQuery, match)
	return err
}

func (s *TournamentStore) CreateBracket(ctx context.Context, tx *sqlx.Tx, b *bracket.Bracket) error {
	_, err := tx.NamedExecContext(ctx, createBracketQuery, b)
	return err
}

func (s *TournamentStore) GetBracket(ctx context.Context, tournamentID uuid.UUID) (*bracket.Bracket, error) {
	var b bracket.Bracket
	if err := s.db.GetContext(ctx, &b, getBracketQuery, tournamentID); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *TournamentStore) UpdateBracketProgressTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, activeRound int, championID *uuid.UUID) error {
	_, err := tx.ExecContext(ctx, updateBracketProgressQuery, activeRound, championID, tournamentID)
	return err
}
