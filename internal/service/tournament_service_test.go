package service

import (
	"context"
	"testing"

	"github.com/AdamBeresnev/knockout/internal/bracket"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTournament(t *testing.T) {
	testCases := []struct {
		name          string
		input         TournamentInput
		expectedTeams int
		expectedError error
	}{
		{
			name: "with teams and standings",
			input: TournamentInput{Name: "Cup", Teams: []TeamInput{
				{Name: "Lions", PreviousStanding: bracket.StandingWinner},
				{Name: "Tigers", PreviousStanding: bracket.StandingRunnerUp},
				{Name: "Bears"},
			}},
			expectedTeams: 3,
		},
		{
			name:          "without teams",
			input:         TournamentInput{Name: "Empty Cup"},
			expectedTeams: 0,
		},
		{
			name:          "missing name",
			input:         TournamentInput{Name: "   "},
			expectedError: bracket.ErrInvalidInput,
		},
		{
			name:          "unnamed team",
			input:         TournamentInput{Name: "Cup", Teams: []TeamInput{{Name: ""}}},
			expectedError: bracket.ErrInvalidInput,
		},
		{
			name:          "unknown standing",
			input:         TournamentInput{Name: "Cup", Teams: []TeamInput{{Name: "Lions", PreviousStanding: "quarterFinalist"}}},
			expectedError: bracket.ErrInvalidInput,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newServices(t, 1)
			ctx := context.Background()

			id, err := s.tournaments.CreateTournament(ctx, tc.input)
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				return
			}
			require.NoError(t, err)

			data, err := s.tournaments.GetTournamentData(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, bracket.TournamentUpcoming, data.Tournament.Status)
			assert.Equal(t, tc.expectedTeams, data.Tournament.TotalTeams)
			assert.Len(t, data.Teams, tc.expectedTeams)
			assert.Empty(t, data.Matches)
			assert.Nil(t, data.Bracket)

			for _, team := range data.Teams {
				assert.True(t, team.PreviousStanding.Valid())
			}
		})
	}
}

func TestAddTeams(t *testing.T) {
	s := newServices(t, 1)
	ctx := context.Background()

	tournamentID, _ := s.createTournament(t, teamInputs(2))

	added, err := s.tournaments.AddTeams(ctx, tournamentID, []TeamInput{{Name: "Late", PreviousStanding: bracket.StandingSemiFinalist1}})
	require.NoError(t, err)
	require.Len(t, added, 1)

	data, err := s.tournaments.GetTournamentData(ctx, tournamentID)
	require.NoError(t, err)
	assert.Len(t, data.Teams, 3)
	assert.Equal(t, 3, data.Tournament.TotalTeams)

	_, err = s.brackets.GenerateBracket(ctx, tournamentID)
	require.NoError(t, err)

	// Roster is frozen once the bracket exists
	_, err = s.tournaments.AddTeams(ctx, tournamentID, teamInputs(1))
	assert.ErrorIs(t, err, bracket.ErrBracketExists)

	_, err = s.tournaments.AddTeams(ctx, uuid.New(), teamInputs(1))
	assert.ErrorIs(t, err, bracket.ErrNotFound)

	_, err = s.tournaments.AddTeams(ctx, tournamentID, nil)
	assert.ErrorIs(t, err, bracket.ErrInvalidInput)
}

func TestGetTournamentData(t *testing.T) {
	s := newServices(t, 1)
	ctx := context.Background()

	tournamentID, _ := s.createTournament(t, teamInputs(5))
	_, err := s.brackets.GenerateBracket(ctx, tournamentID)
	require.NoError(t, err)

	data, err := s.tournaments.GetTournamentData(ctx, tournamentID)
	require.NoError(t, err)
	assert.Equal(t, bracket.TournamentOngoing, data.Tournament.Status)
	assert.Len(t, data.Tournament.TeamsWithBye, 3)
	assert.Len(t, data.Teams, 5)
	assert.Len(t, data.Matches, 4)
	require.NotNil(t, data.Bracket)
	assert.Equal(t, bracket.NewRoundIndex(3, data.Matches), data.Bracket.Structure)

	_, err = s.tournaments.GetTournamentData(ctx, uuid.New())
	assert.ErrorIs(t, err, bracket.ErrNotFound)

	list, err := s.tournaments.ListTournaments(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpdateStatus(t *testing.T) {
	s := newServices(t, 1)
	ctx := context.Background()

	upcomingID, _ := s.createTournament(t, teamInputs(2))
	playingID, _ := s.createTournament(t, teamInputs(2))
	_, err := s.brackets.GenerateBracket(ctx, playingID)
	require.NoError(t, err)

	decidedID, _ := s.createTournament(t, teamInputs(2))
	built, err := s.brackets.GenerateBracket(ctx, decidedID)
	require.NoError(t, err)
	final := built.Matches[0]
	_, err = s.matches.MarkWinner(ctx, final.ID, *final.Team1ID)
	require.NoError(t, err)

	testCases := []struct {
		name          string
		id            uuid.UUID
		status        bracket.TournamentStatus
		expectedError error
	}{
		{"start before generation", upcomingID, bracket.TournamentOngoing, nil},
		{"unknown status", upcomingID, "archived", bracket.ErrInvalidInput},
		{"complete without champion", playingID, bracket.TournamentCompleted, bracket.ErrInvalidInput},
		{"back to upcoming with bracket", playingID, bracket.TournamentUpcoming, bracket.ErrBracketExists},
		{"reopen decided tournament", decidedID, bracket.TournamentOngoing, bracket.ErrInvalidInput},
		{"complete decided tournament", decidedID, bracket.TournamentCompleted, nil},
		{"unknown tournament", uuid.New(), bracket.TournamentOngoing, bracket.ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			before, _ := s.store.GetTournament(ctx, tc.id)

			tournament, err := s.tournaments.UpdateStatus(ctx, tc.id, tc.status)
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				if before != nil {
					after, err := s.store.GetTournament(ctx, tc.id)
					require.NoError(t, err)
					assert.Equal(t, before.Status, after.Status)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.status, tournament.Status)

			stored, err := s.store.GetTournament(ctx, tc.id)
			require.NoError(t, err)
			assert.Equal(t, tc.status, stored.Status)
		})
	}
}
