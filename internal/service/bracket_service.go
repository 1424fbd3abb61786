package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/AdamBeresnev/knockout/internal/bracket"
	"github.com/AdamBeresnev/knockout/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type BracketService struct {
	db    *sqlx.DB
	store *store.TournamentStore

	mu  sync.Mutex
	rng *rand.Rand
}

// NewBracketService draws byes from rng, or from a randomly seeded source
// when rng is nil.
func NewBracketService(db *sqlx.DB, store *store.TournamentStore, rng *rand.Rand) *BracketService {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &BracketService{db: db, store: store, rng: rng}
}

type BuildResult struct {
	Matches       []bracket.Match  `json:"matches"`
	Bracket       *bracket.Bracket `json:"bracket"`
	TotalRounds   int              `json:"totalRounds"`
	TotalByes     int              `json:"totalByes"`
	TeamsWithBye  []uuid.UUID      `json:"teamsWithBye"`
	TeamsInRound1 []uuid.UUID      `json:"teamsInRound1"`
}

// GenerateBracket builds the bracket from the tournament's registered roster.
// A tournament gets exactly one bracket.
func (s *BracketService) GenerateBracket(ctx context.Context, tournamentID uuid.UUID) (*BuildResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeErr(err, "begin generate bracket")
	}
	defer tx.Rollback()

	count, err := s.store.CountMatchesTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, storeErr(err, "count matches")
	}
	if count > 0 {
		return nil, fmt.Errorf("tournament %s: %w", tournamentID, bracket.ErrBracketExists)
	}

	teams, err := s.store.GetTeamsTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, storeErr(err, "get teams")
	}

	result, err := s.buildBracket(ctx, tx, tournamentID, teams)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr(err, "commit bracket")
	}
	logGenerated(tournamentID, len(teams), result)
	return result, nil
}

// BuildBracket lays out and persists a bracket for teams in a single
// transaction. Nothing is written when any step fails. It does not check for
// an existing bracket; callers that need that use GenerateBracket.
func (s *BracketService) BuildBracket(ctx context.Context, tournamentID uuid.UUID, teams []bracket.Team) (*BuildResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeErr(err, "begin build bracket")
	}
	defer tx.Rollback()

	result, err := s.buildBracket(ctx, tx, tournamentID, teams)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr(err, "commit bracket")
	}
	logGenerated(tournamentID, len(teams), result)
	return result, nil
}

func (s *BracketService) buildBracket(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, teams []bracket.Team) (*BuildResult, error) {
	tournament, err := s.store.GetTournamentTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, storeErr(err, fmt.Sprintf("get tournament %s", tournamentID))
	}

	s.mu.Lock()
	build, err := bracket.NewBuild(tournamentID, teams, s.rng)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("tournament %s: %w", tournamentID, err)
	}

	matches := build.Matches()
	if err := s.store.CreateMatches(ctx, tx, matches); err != nil {
		return nil, storeErr(err, "create matches")
	}

	tournament.TotalRounds = build.TotalRounds
	tournament.TotalByes = build.TotalByes
	tournament.TotalTeams = len(teams)
	tournament.TeamsWithBye = build.ByeTeamIDs()
	tournament.CurrentRound = 1
	tournament.Status = bracket.TournamentOngoing

	if err := s.store.UpdateTournamentTx(ctx, tx, tournament); err != nil {
		return nil, storeErr(err, "update tournament")
	}
	if err := s.store.SetByeTeamsTx(ctx, tx, tournamentID, tournament.TeamsWithBye); err != nil {
		return nil, storeErr(err, "record byes")
	}

	record := &bracket.Bracket{
		TournamentID: tournamentID,
		Structure:    build.Index(),
		ActiveRound:  1,
	}
	if err := s.store.CreateBracket(ctx, tx, record); err != nil {
		return nil, storeErr(err, "create bracket")
	}

	round1 := make([]uuid.UUID, len(build.TeamsInRound1))
	for i, t := range build.TeamsInRound1 {
		round1[i] = t.ID
	}

	return &BuildResult{
		Matches:       matches,
		Bracket:       record,
		TotalRounds:   build.TotalRounds,
		TotalByes:     build.TotalByes,
		TeamsWithBye:  tournament.TeamsWithBye,
		TeamsInRound1: round1,
	}, nil
}

func (s *BracketService) GetBracket(ctx context.Context, tournamentID uuid.UUID) (*bracket.Bracket, error) {
	b, err := s.store.GetBracket(ctx, tournamentID)
	if err != nil {
		return nil, storeErr(err, fmt.Sprintf("get bracket for tournament %s", tournamentID))
	}
	return b, nil
}

func logGenerated(tournamentID uuid.UUID, teams int, result *BuildResult) {
	slog.Info("bracket generated",
		"tournament_id", tournamentID,
		"teams", teams,
		"rounds", result.TotalRounds,
		"byes", result.TotalByes,
		"matches", len(result.Matches),
	)
}
