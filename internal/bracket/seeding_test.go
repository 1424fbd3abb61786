package bracket

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTeams(n int) []Team {
	teams := make([]Team, n)
	for i := range teams {
		teams[i] = Team{
			ID:               uuid.New(),
			Name:             fmt.Sprintf("Team %d", i+1),
			PreviousStanding: StandingNone,
		}
	}
	return teams
}

func teamIDs(teams []Team) []uuid.UUID {
	ids := make([]uuid.UUID, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}
	return ids
}

func TestAssignByes_PriorityOrder(t *testing.T) {
	teams := newTeams(7)
	teams[1].PreviousStanding = StandingSemiFinalist2
	teams[2].PreviousStanding = StandingRunnerUp
	teams[4].PreviousStanding = StandingWinner
	teams[6].PreviousStanding = StandingRunnerUp

	// 7 teams -> 1 bye
	withBye, round1, err := AssignByes(teams, 1, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	require.Len(t, withBye, 1)
	assert.Equal(t, teams[4].ID, withBye[0].ID)
	assert.Len(t, round1, 6)

	withBye, _, err = AssignByes(teams, 3, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	// First runner-up in input order wins the tier; semi-finalist 1 is absent
	assert.Equal(t, []uuid.UUID{teams[4].ID, teams[2].ID, teams[1].ID}, teamIDs(withBye))
}

func TestAssignByes_RandomFill(t *testing.T) {
	teams := newTeams(5)
	teams[0].PreviousStanding = StandingWinner

	withBye, round1, err := AssignByes(teams, 3, rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)
	require.Len(t, withBye, 3)
	require.Len(t, round1, 2)
	assert.Equal(t, teams[0].ID, withBye[0].ID)

	seen := make(map[uuid.UUID]int)
	for _, team := range append(withBye, round1...) {
		seen[team.ID]++
	}
	assert.Len(t, seen, 5)
	for id, count := range seen {
		assert.Equal(t, 1, count, "team %s placed more than once", id)
	}
}

func TestAssignByes_DeterministicWithSeed(t *testing.T) {
	teams := newTeams(11)

	first, _, err := AssignByes(teams, 5, rand.New(rand.NewPCG(42, 1)))
	require.NoError(t, err)
	second, _, err := AssignByes(teams, 5, rand.New(rand.NewPCG(42, 1)))
	require.NoError(t, err)

	assert.Equal(t, teamIDs(first), teamIDs(second))
}

func TestAssignByes_DoesNotMutateInput(t *testing.T) {
	teams := newTeams(6)
	teams[3].PreviousStanding = StandingWinner
	before := teamIDs(teams)

	_, _, err := AssignByes(teams, 2, nil)
	require.NoError(t, err)

	assert.Equal(t, before, teamIDs(teams))
}

func TestAssignByes_Partition(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 9))
	for n := 2; n <= 70; n++ {
		teams := newTeams(n)
		if n > 3 {
			teams[n-1].PreviousStanding = StandingWinner
			teams[1].PreviousStanding = StandingSemiFinalist1
		}
		byes, err := ByeCount(n)
		require.NoError(t, err)

		withBye, round1, err := AssignByes(teams, byes, rng)
		require.NoError(t, err)

		assert.Len(t, withBye, byes, "%d teams", n)
		assert.Zero(t, len(round1)%2, "%d teams leave an odd round 1", n)
		assert.Len(t, round1, n-byes)
	}
}

func TestAssignByes_InvalidCount(t *testing.T) {
	teams := newTeams(4)

	_, _, err := AssignByes(teams, -1, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = AssignByes(teams, 5, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
