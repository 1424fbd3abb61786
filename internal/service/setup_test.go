package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/AdamBeresnev/knockout/internal/bracket"
	"github.com/AdamBeresnev/knockout/internal/store"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:?_foreign_keys=on")
	require.NoError(t, err, "Failed to connect to in-memory DB")

	// One connection keeps every query on the same in-memory database and
	// serializes transactions the way BEGIN IMMEDIATE does on disk
	database.SetMaxOpenConns(1)

	driver, err := sqlite3.WithInstance(database.DB, &sqlite3.Config{})
	require.NoError(t, err, "Failed to create migrate driver instance")

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"sqlite3",
		driver,
	)
	require.NoError(t, err, "Failed to create migrate instance")

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to apply migrations")
	}

	return database
}

type services struct {
	db          *sqlx.DB
	store       *store.TournamentStore
	tournaments *TournamentService
	teams       *TeamService
	brackets    *BracketService
	matches     *MatchService
}

func newServices(t *testing.T, seed uint64) *services {
	t.Helper()

	db := setupTestDB(t)
	t.Cleanup(func() { db.Close() })

	tournamentStore := store.NewTournamentStore(db)
	return &services{
		db:          db,
		store:       tournamentStore,
		tournaments: NewTournamentService(db, tournamentStore),
		teams:       NewTeamService(db, tournamentStore),
		brackets:    NewBracketService(db, tournamentStore, rand.New(rand.NewPCG(seed, seed))),
		matches:     NewMatchService(db, tournamentStore),
	}
}

func teamInputs(n int) []TeamInput {
	inputs := make([]TeamInput, n)
	for i := range inputs {
		inputs[i] = TeamInput{Name: fmt.Sprintf("Team %d", i+1)}
	}
	return inputs
}

func (s *services) createTournament(t *testing.T, inputs []TeamInput) (uuid.UUID, []bracket.Team) {
	t.Helper()

	ctx := context.Background()
	id, err := s.tournaments.CreateTournament(ctx, TournamentInput{Name: "Cup", Teams: inputs})
	require.NoError(t, err)

	teams, err := s.store.GetTeams(ctx, id)
	require.NoError(t, err)
	require.Len(t, teams, len(inputs))

	return id, teams
}

// roundMatches loads a round from storage, ordered by match number.
func (s *services) roundMatches(t *testing.T, tournamentID uuid.UUID, round int) []bracket.Match {
	t.Helper()

	matches, err := s.store.GetRoundMatches(context.Background(), tournamentID, round)
	require.NoError(t, err)
	return matches
}
