package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AdamBeresnev/knockout/internal/bracket"
	"github.com/AdamBeresnev/knockout/internal/store"
	"github.com/AdamBeresnev/knockout/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

type TournamentService struct {
	db    *sqlx.DB
	store *store.TournamentStore
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore) *TournamentService {
	return &TournamentService{db: db, store: store}
}

type TeamInput struct {
	Name             string           `json:"name"`
	Logo             string           `json:"logo"`
	Description      string           `json:"description"`
	PreviousStanding bracket.Standing `json:"previousStanding"`
}

type TournamentInput struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Teams       []TeamInput `json:"teams"`
}

type TournamentData struct {
	Tournament *bracket.Tournament `json:"tournament"`
	Teams      []bracket.Team      `json:"teams"`
	Matches    []bracket.Match     `json:"matches"`
	Bracket    *bracket.Bracket    `json:"bracket,omitempty"`
}

func (s *TournamentService) CreateTournament(ctx context.Context, input TournamentInput) (uuid.UUID, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return uuid.Nil, fmt.Errorf("%w: tournament name is required", bracket.ErrInvalidInput)
	}

	tournamentID := uuid.New()
	teams, err := newTeams(tournamentID, input.Teams)
	if err != nil {
		return uuid.Nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return uuid.Nil, storeErr(err, "begin create tournament")
	}
	defer tx.Rollback()

	tournament := bracket.Tournament{
		ID:           tournamentID,
		Name:         name,
		Description:  utils.StringOrNil(input.Description),
		Status:       bracket.TournamentUpcoming,
		CurrentRound: 1,
		TotalTeams:   len(teams),
	}

	if err := s.store.CreateTournament(ctx, tx, &tournament); err != nil {
		return uuid.Nil, storeErr(err, "create tournament")
	}
	if err := s.store.CreateTeams(ctx, tx, teams); err != nil {
		return uuid.Nil, storeErr(err, "create teams")
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, storeErr(err, "commit create tournament")
	}
	return tournamentID, nil
}

// AddTeams registers more teams. The roster is frozen once a bracket exists.
func (s *TournamentService) AddTeams(ctx context.Context, tournamentID uuid.UUID, inputs []TeamInput) ([]bracket.Team, error) {
	teams, err := newTeams(tournamentID, inputs)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, fmt.Errorf("%w: no teams given", bracket.ErrInvalidInput)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeErr(err, "begin add teams")
	}
	defer tx.Rollback()

	tournament, err := s.store.GetTournamentTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, storeErr(err, fmt.Sprintf("get tournament %s", tournamentID))
	}

	count, err := s.store.CountMatchesTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, storeErr(err, "count matches")
	}
	if count > 0 {
		return nil, fmt.Errorf("tournament %s: %w", tournamentID, bracket.ErrBracketExists)
	}

	if err := s.store.CreateTeams(ctx, tx, teams); err != nil {
		return nil, storeErr(err, "create teams")
	}

	tournament.TotalTeams += len(teams)
	if err := s.store.UpdateTournamentTx(ctx, tx, tournament); err != nil {
		return nil, storeErr(err, "update tournament")
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr(err, "commit add teams")
	}
	return teams, nil
}

// UpdateStatus moves a tournament to status by hand. A tournament is
// completed exactly when it has a champion, and cannot go back to upcoming
// once its bracket exists.
func (s *TournamentService) UpdateStatus(ctx context.Context, id uuid.UUID, status bracket.TournamentStatus) (*bracket.Tournament, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", bracket.ErrInvalidInput, status)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeErr(err, "begin update status")
	}
	defer tx.Rollback()

	tournament, err := s.store.GetTournamentTx(ctx, tx, id)
	if err != nil {
		return nil, storeErr(err, fmt.Sprintf("get tournament %s", id))
	}

	switch {
	case status == bracket.TournamentCompleted && tournament.ChampionID == nil:
		return nil, fmt.Errorf("%w: tournament %s has no champion yet", bracket.ErrInvalidInput, id)
	case status != bracket.TournamentCompleted && tournament.ChampionID != nil:
		return nil, fmt.Errorf("%w: tournament %s already has a champion", bracket.ErrInvalidInput, id)
	case status == bracket.TournamentUpcoming:
		count, err := s.store.CountMatchesTx(ctx, tx, id)
		if err != nil {
			return nil, storeErr(err, "count matches")
		}
		if count > 0 {
			return nil, fmt.Errorf("tournament %s: %w", id, bracket.ErrBracketExists)
		}
	}

	previous := tournament.Status
	tournament.Status = status
	if err := s.store.UpdateTournamentTx(ctx, tx, tournament); err != nil {
		return nil, storeErr(err, "update tournament")
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr(err, "commit update status")
	}

	slog.Info("tournament status changed", "tournament_id", id, "from", previous, "to", status)
	return tournament, nil
}

func (s *TournamentService) ListTournaments(ctx context.Context) ([]bracket.Tournament, error) {
	tournaments, err := s.store.ListTournaments(ctx)
	if err != nil {
		return nil, storeErr(err, "list tournaments")
	}
	return tournaments, nil
}

func (s *TournamentService) GetTournamentData(ctx context.Context, id uuid.UUID) (*TournamentData, error) {
	data := &TournamentData{}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tournament, err := s.store.GetTournament(gCtx, id)
		if err != nil {
			return storeErr(err, fmt.Sprintf("get tournament %s", id))
		}
		data.Tournament = tournament
		return nil
	})

	g.Go(func() error {
		teams, err := s.store.GetTeams(gCtx, id)
		if err != nil {
			return storeErr(err, "get teams")
		}
		data.Teams = teams
		return nil
	})

	g.Go(func() error {
		matches, err := s.store.GetMatches(gCtx, id)
		if err != nil {
			return storeErr(err, "get matches")
		}
		data.Matches = matches
		return nil
	})

	// No bracket yet is not an error
	g.Go(func() error {
		b, err := s.store.GetBracket(gCtx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return storeErr(err, "get bracket")
		}
		data.Bracket = b
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

func newTeams(tournamentID uuid.UUID, inputs []TeamInput) ([]bracket.Team, error) {
	teams := make([]bracket.Team, 0, len(inputs))
	for i, input := range inputs {
		name := strings.TrimSpace(input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: team %d has no name", bracket.ErrInvalidInput, i+1)
		}

		standing := input.PreviousStanding
		if standing == "" {
			standing = bracket.StandingNone
		}
		if !standing.Valid() {
			return nil, fmt.Errorf("%w: team %q has unknown standing %q", bracket.ErrInvalidInput, name, standing)
		}

		teams = append(teams, bracket.Team{
			ID:               uuid.New(),
			TournamentID:     tournamentID,
			Name:             name,
			Logo:             utils.StringOrNil(input.Logo),
			Description:      utils.StringOrNil(input.Description),
			PreviousStanding: standing,
		})
	}
	return teams, nil
}
