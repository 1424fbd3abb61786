package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/AdamBeresnev/knockout/internal/bracket"
	"github.com/AdamBeresnev/knockout/internal/store"
	"github.com/AdamBeresnev/knockout/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

type TeamService struct {
	db    *sqlx.DB
	store *store.TournamentStore
}

func NewTeamService(db *sqlx.DB, store *store.TournamentStore) *TeamService {
	return &TeamService{db: db, store: store}
}

// TeamUpdate changes only the fields that are set. An empty logo or
// description clears it.
type TeamUpdate struct {
	Name             *string           `json:"name"`
	Logo             *string           `json:"logo"`
	Description      *string           `json:"description"`
	PreviousStanding *bracket.Standing `json:"previousStanding"`
}

type StandingUpdate struct {
	TeamID           uuid.UUID        `json:"teamId"`
	PreviousStanding bracket.Standing `json:"previousStanding"`
}

type TeamPosition string

const (
	PositionRegistered TeamPosition = "registered"
	PositionActive     TeamPosition = "active"
	PositionEliminated TeamPosition = "eliminated"
	PositionChampion   TeamPosition = "champion"
)

type MatchOutcome string

const (
	OutcomeWon     MatchOutcome = "won"
	OutcomeLost    MatchOutcome = "lost"
	OutcomePending MatchOutcome = "pending"
)

type TeamResult struct {
	MatchID    uuid.UUID    `json:"matchId"`
	Round      int          `json:"round"`
	OpponentID *uuid.UUID   `json:"opponentId"`
	Outcome    MatchOutcome `json:"outcome"`
}

type TeamStats struct {
	Team             *bracket.Team `json:"team"`
	TournamentName   string        `json:"tournamentName"`
	TotalMatches     int           `json:"totalMatches"`
	CompletedMatches int           `json:"completedMatches"`
	PendingMatches   int           `json:"pendingMatches"`
	Wins             int           `json:"wins"`
	Losses           int           `json:"losses"`
	WinPercentage    float64       `json:"winPercentage"`
	Position         TeamPosition  `json:"position"`
	EliminatedRound  *int          `json:"eliminatedRound,omitempty"`
	Results          []TeamResult  `json:"results"`
}

func (s *TeamService) GetTeam(ctx context.Context, teamID uuid.UUID) (*bracket.Team, error) {
	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return nil, storeErr(err, fmt.Sprintf("get team %s", teamID))
	}
	return team, nil
}

// ListTeams returns a tournament's roster in registration order, optionally
// only the teams with the given previous standing.
func (s *TeamService) ListTeams(ctx context.Context, tournamentID uuid.UUID, standing bracket.Standing) ([]bracket.Team, error) {
	if standing != "" && !standing.Valid() {
		return nil, fmt.Errorf("%w: unknown standing %q", bracket.ErrInvalidInput, standing)
	}

	if _, err := s.store.GetTournament(ctx, tournamentID); err != nil {
		return nil, storeErr(err, fmt.Sprintf("get tournament %s", tournamentID))
	}

	teams, err := s.store.GetTeams(ctx, tournamentID)
	if err != nil {
		return nil, storeErr(err, "get teams")
	}
	if standing == "" {
		return teams, nil
	}

	filtered := make([]bracket.Team, 0, len(teams))
	for _, t := range teams {
		if t.PreviousStanding == standing {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// TeamStats summarises a team's run from the matches it has been placed in.
func (s *TeamService) TeamStats(ctx context.Context, teamID uuid.UUID) (*TeamStats, error) {
	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return nil, storeErr(err, fmt.Sprintf("get team %s", teamID))
	}

	var (
		tournament *bracket.Tournament
		matches    []bracket.Match
	)
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := s.store.GetTournament(gCtx, team.TournamentID)
		if err != nil {
			return storeErr(err, fmt.Sprintf("get tournament %s", team.TournamentID))
		}
		tournament = t
		return nil
	})

	g.Go(func() error {
		m, err := s.store.GetTeamMatches(gCtx, teamID)
		if err != nil {
			return storeErr(err, "get team matches")
		}
		matches = m
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &TeamStats{
		Team:           team,
		TournamentName: tournament.Name,
		TotalMatches:   len(matches),
		Position:       PositionRegistered,
		Results:        make([]TeamResult, 0, len(matches)),
	}

	for _, m := range matches {
		result := TeamResult{
			MatchID:    m.ID,
			Round:      m.Round,
			OpponentID: m.Opponent(teamID),
			Outcome:    OutcomePending,
		}

		switch {
		case m.IsWinner(teamID):
			stats.Wins++
			result.Outcome = OutcomeWon
		case m.IsLoser(teamID):
			stats.Losses++
			result.Outcome = OutcomeLost
			stats.EliminatedRound = utils.Ptr(m.Round)
		default:
			stats.PendingMatches++
		}
		stats.Results = append(stats.Results, result)
	}

	stats.CompletedMatches = stats.Wins + stats.Losses
	if stats.CompletedMatches > 0 {
		pct := float64(stats.Wins) / float64(stats.CompletedMatches) * 100
		stats.WinPercentage = math.Round(pct*100) / 100
	}

	switch {
	case tournament.ChampionID != nil && *tournament.ChampionID == teamID:
		stats.Position = PositionChampion
	case stats.Losses > 0:
		stats.Position = PositionEliminated
	case len(matches) > 0:
		stats.Position = PositionActive
	}

	return stats, nil
}

// UpdateTeam edits a team's details. The previous standing decides who gets
// a bye, so it can no longer change once the bracket exists.
func (s *TeamService) UpdateTeam(ctx context.Context, teamID uuid.UUID, update TeamUpdate) (*bracket.Team, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeErr(err, "begin update team")
	}
	defer tx.Rollback()

	team, err := s.store.GetTeamTx(ctx, tx, teamID)
	if err != nil {
		return nil, storeErr(err, fmt.Sprintf("get team %s", teamID))
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: team name must not be empty", bracket.ErrInvalidInput)
		}
		team.Name = name
	}
	if update.Logo != nil {
		team.Logo = utils.StringOrNil(*update.Logo)
	}
	if update.Description != nil {
		team.Description = utils.StringOrNil(*update.Description)
	}

	if update.PreviousStanding != nil && *update.PreviousStanding != team.PreviousStanding {
		if !update.PreviousStanding.Valid() {
			return nil, fmt.Errorf("%w: unknown standing %q", bracket.ErrInvalidInput, *update.PreviousStanding)
		}
		if err := s.ensureNoBracket(ctx, tx, team.TournamentID); err != nil {
			return nil, err
		}
		team.PreviousStanding = *update.PreviousStanding
	}

	if err := s.store.UpdateTeamTx(ctx, tx, team); err != nil {
		return nil, storeErr(err, "update team")
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr(err, "commit update team")
	}
	return team, nil
}

// UpdateStandings sets the previous standing of several teams at once. Either
// every update is applied or none is.
func (s *TeamService) UpdateStandings(ctx context.Context, tournamentID uuid.UUID, updates []StandingUpdate) ([]bracket.Team, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no standing updates given", bracket.ErrInvalidInput)
	}
	for _, u := range updates {
		if !u.PreviousStanding.Valid() {
			return nil, fmt.Errorf("%w: team %s has unknown standing %q", bracket.ErrInvalidInput, u.TeamID, u.PreviousStanding)
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeErr(err, "begin update standings")
	}
	defer tx.Rollback()

	if _, err := s.store.GetTournamentTx(ctx, tx, tournamentID); err != nil {
		return nil, storeErr(err, fmt.Sprintf("get tournament %s", tournamentID))
	}
	if err := s.ensureNoBracket(ctx, tx, tournamentID); err != nil {
		return nil, err
	}

	teams := make([]bracket.Team, 0, len(updates))
	for _, u := range updates {
		team, err := s.store.GetTeamTx(ctx, tx, u.TeamID)
		if err != nil {
			return nil, storeErr(err, fmt.Sprintf("get team %s", u.TeamID))
		}
		if team.TournamentID != tournamentID {
			return nil, fmt.Errorf("team %s is not in tournament %s: %w", u.TeamID, tournamentID, bracket.ErrNotFound)
		}

		team.PreviousStanding = u.PreviousStanding
		if err := s.store.UpdateTeamTx(ctx, tx, team); err != nil {
			return nil, storeErr(err, "update team")
		}
		teams = append(teams, *team)
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr(err, "commit update standings")
	}

	slog.Info("standings updated", "tournament_id", tournamentID, "teams", len(teams))
	return teams, nil
}

func (s *TeamService) ensureNoBracket(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) error {
	count, err := s.store.CountMatchesTx(ctx, tx, tournamentID)
	if err != nil {
		return storeErr(err, "count matches")
	}
	if count > 0 {
		return fmt.Errorf("tournament %s: %w", tournamentID, bracket.ErrBracketExists)
	}
	return nil
}
