package store

import (
	"context"

	"github.com/AdamBeresnev/knockout/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

const (
	tournamentColumns = `id, name, description, status, current_round, total_rounds, total_teams, total_byes, champion_id, created_at`
	teamColumns       = `id, tournament_id, name, logo, description, previous_standing, created_at`

	getTournamentQuery   = `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = ?`
	listTournamentsQuery = `SELECT ` + tournamentColumns + ` FROM tournaments ORDER BY created_at DESC`

	getByeTeamIDsQuery = `
		SELECT id FROM teams
		WHERE tournament_id = ? AND bye_position IS NOT NULL
		ORDER BY bye_position ASC
	`

	getTeamsQuery = `SELECT ` + teamColumns + ` FROM teams WHERE tournament_id = ? ORDER BY created_at ASC, rowid ASC`
	getTeamQuery  = `SELECT ` + teamColumns + ` FROM teams WHERE id = ?`

	createTournamentQuery = `
		INSERT INTO tournaments (id, name, description, status, current_round, total_rounds, total_teams, total_byes)
		VALUES (:id, :name, :description, :status, :current_round, :total_rounds, :total_teams, :total_byes)
	`
	createTeamsQuery = `
		INSERT INTO teams (id, tournament_id, name, logo, description, previous_standing)
		VALUES (:id, :tournament_id, :name, :logo, :description, :previous_standing)
	`
	updateTournamentQuery = `
		UPDATE tournaments SET
		status = :status,
		current_round = :current_round,
		total_rounds = :total_rounds,
		total_teams = :total_teams,
		total_byes = :total_byes,
		champion_id = :champion_id
		WHERE id = :id
	`

	updateTeamQuery = `
		UPDATE teams SET
		name = :name,
		logo = :logo,
		description = :description,
		previous_standing = :previous_standing
		WHERE id = :id
	`

	setByePositionQuery = `UPDATE teams SET bye_position = ? WHERE id = ? AND tournament_id = ?`
)

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	_, err := tx.NamedExecContext(ctx, createTournamentQuery, tournament)
	return err
}

func (s *TournamentStore) GetTournament(ctx context.Context, id uuid.UUID) (*bracket.Tournament, error) {
	return getTournament(ctx, s.db, id)
}

func (s *TournamentStore) GetTournamentTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*bracket.Tournament, error) {
	return getTournament(ctx, tx, id)
}

func getTournament(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	if err := sqlx.GetContext(ctx, q, &tournament, getTournamentQuery, id); err != nil {
		return nil, err
	}

	byes := []uuid.UUID{}
	if err := sqlx.SelectContext(ctx, q, &byes, getByeTeamIDsQuery, id); err != nil {
		return nil, err
	}
	tournament.TeamsWithBye = byes

	return &tournament, nil
}

func (s *TournamentStore) ListTournaments(ctx context.Context) ([]bracket.Tournament, error) {
	var tournaments []bracket.Tournament
	err := s.db.SelectContext(ctx, &tournaments, listTournamentsQuery)
	return tournaments, err
}

// UpdateTournamentTx writes the bracket metadata and progress of a tournament.
func (s *TournamentStore) UpdateTournamentTx(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	_, err := tx.NamedExecContext(ctx, updateTournamentQuery, tournament)
	return err
}

// SetByeTeamsTx records which teams skipped round 1, in bye order.
func (s *TournamentStore) SetByeTeamsTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, teamIDs []uuid.UUID) error {
	for i, id := range teamIDs {
		if _, err := tx.ExecContext(ctx, setByePositionQuery, i+1, id, tournamentID); err != nil {
			return err
		}
	}
	return nil
}

func (s *TournamentStore) CreateTeams(ctx context.Context, tx *sqlx.Tx, teams []bracket.Team) error {
	if len(teams) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, createTeamsQuery, teams)
	return err
}

// GetTeams returns a tournament's roster in registration order.
func (s *TournamentStore) GetTeams(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Team, error) {
	var teams []bracket.Team
	err := s.db.SelectContext(ctx, &teams, getTeamsQuery, tournamentID)
	return teams, err
}

func (s *TournamentStore) GetTeamsTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) ([]bracket.Team, error) {
	var teams []bracket.Team
	err := tx.SelectContext(ctx, &teams, getTeamsQuery, tournamentID)
	return teams, err
}

func (s *TournamentStore) GetTeam(ctx context.Context, id uuid.UUID) (*bracket.Team, error) {
	return getTeam(ctx, s.db, id)
}

func (s *TournamentStore) GetTeamTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*bracket.Team, error) {
	return getTeam(ctx, tx, id)
}

func getTeam(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*bracket.Team, error) {
	var team bracket.Team
	if err := sqlx.GetContext(ctx, q, &team, getTeamQuery, id); err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *TournamentStore) UpdateTeamTx(ctx context.Context, tx *sqlx.Tx, team *bracket.Team) error {
	_, err := tx.NamedExecContext(ctx, updateTeamQuery, team)
	return err
}
