package bracket

import (
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotKey struct {
	matchID uuid.UUID
	slot    Slot
}

func TestNewBuild_Shape(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 5))

	for n := 2; n <= 100; n++ {
		teams := newTeams(n)
		b, err := NewBuild(uuid.New(), teams, rng)
		require.NoError(t, err, "%d teams", n)

		totalRounds, _ := TotalRounds(n)
		assert.Equal(t, totalRounds, b.TotalRounds)
		require.Len(t, b.Rounds, totalRounds, "%d teams", n)

		rounds := make(map[int]bool)
		for _, m := range b.Matches() {
			rounds[m.Round] = true
		}
		assert.Len(t, rounds, totalRounds, "%d teams", n)

		final := b.Rounds[totalRounds-1]
		require.Len(t, final, 1, "%d teams", n)
		assert.Nil(t, final[0].NextMatchID)
		assert.Nil(t, final[0].NextMatchSlot)

		for r, round := range b.Rounds[:totalRounds-1] {
			for _, m := range round {
				assert.Equal(t, r+1, m.Round)
				require.NotNil(t, m.NextMatchID, "round %d match %d of %d teams", m.Round, m.MatchNumber, n)
				require.NotNil(t, m.NextMatchSlot)
			}
		}
	}
}

func TestNewBuild_EveryTeamPlacedOnce(t *testing.T) {
	rng := rand.New(rand.NewPCG(2, 4))

	for n := 2; n <= 100; n++ {
		teams := newTeams(n)
		b, err := NewBuild(uuid.New(), teams, rng)
		require.NoError(t, err)

		placed := make(map[uuid.UUID]int)
		for _, round := range b.Rounds[:min(2, len(b.Rounds))] {
			for _, m := range round {
				if m.Team1ID != nil {
					placed[*m.Team1ID]++
				}
				if m.Team2ID != nil {
					placed[*m.Team2ID]++
				}
			}
		}

		require.Len(t, placed, n, "%d teams", n)
		for _, team := range teams {
			assert.Equal(t, 1, placed[team.ID], "team %s in a %d team bracket", team.Name, n)
		}
		assert.Len(t, b.TeamsWithBye, b.TotalByes)
	}
}

func TestNewBuild_ByesAvoidReservedSlots(t *testing.T) {
	rng := rand.New(rand.NewPCG(8, 8))

	for n := 3; n <= 100; n++ {
		b, err := NewBuild(uuid.New(), newTeams(n), rng)
		require.NoError(t, err)

		reserved := make(map[slotKey]bool)
		for _, m := range b.Rounds[0] {
			reserved[slotKey{*m.NextMatchID, *m.NextMatchSlot}] = true
		}

		byes := 0
		for _, m := range b.Rounds[1] {
			if m.Team1ID != nil {
				byes++
				assert.False(t, reserved[slotKey{m.ID, SlotTeam1}], "%d teams: bye on reserved team1 of match %d", n, m.MatchNumber)
			}
			if m.Team2ID != nil {
				byes++
				assert.False(t, reserved[slotKey{m.ID, SlotTeam2}], "%d teams: bye on reserved team2 of match %d", n, m.MatchNumber)
			}
		}
		assert.Equal(t, b.TotalByes, byes)
	}
}

func TestNewBuild_SixTeams(t *testing.T) {
	teams := newTeams(6)

	b, err := NewBuild(uuid.New(), teams, rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)

	assert.Equal(t, 3, b.TotalRounds)
	assert.Equal(t, 2, b.TotalByes)
	require.Len(t, b.Rounds[0], 2)
	require.Len(t, b.Rounds[1], 2)
	require.Len(t, b.Rounds[2], 1)

	// Both round 1 winners land in the first round 2 match
	first, second := b.Rounds[1][0], b.Rounds[1][1]
	assert.Nil(t, first.Team1ID)
	assert.Nil(t, first.Team2ID)
	require.NotNil(t, second.Team1ID)
	require.NotNil(t, second.Team2ID)
	assert.Equal(t, b.TeamsWithBye[0].ID, *second.Team1ID)
	assert.Equal(t, b.TeamsWithBye[1].ID, *second.Team2ID)

	assert.Equal(t, first.ID, *b.Rounds[0][0].NextMatchID)
	assert.Equal(t, SlotTeam1, *b.Rounds[0][0].NextMatchSlot)
	assert.Equal(t, first.ID, *b.Rounds[0][1].NextMatchID)
	assert.Equal(t, SlotTeam2, *b.Rounds[0][1].NextMatchSlot)
}

func TestNewBuild_FiveTeamsWithChampion(t *testing.T) {
	teams := newTeams(5)
	teams[0].PreviousStanding = StandingWinner

	b, err := NewBuild(uuid.New(), teams, rand.New(rand.NewPCG(5, 5)))
	require.NoError(t, err)

	assert.Equal(t, 3, b.TotalRounds)
	assert.Equal(t, 3, b.TotalByes)
	require.Len(t, b.TeamsWithBye, 3)
	assert.Equal(t, teams[0].ID, b.TeamsWithBye[0].ID)

	require.Len(t, b.Rounds[0], 1)
	round1 := b.Rounds[0][0]
	for _, bye := range b.TeamsWithBye {
		assert.False(t, round1.HasTeam(bye.ID), "bye team %s also plays round 1", bye.Name)
	}

	// Round 1 winner plus three bye teams fill round 2
	require.Len(t, b.Rounds[1], 2)
	r2 := b.Rounds[1]
	assert.Nil(t, r2[0].Team1ID)
	assert.Equal(t, b.TeamsWithBye[0].ID, *r2[0].Team2ID)
	assert.Equal(t, b.TeamsWithBye[1].ID, *r2[1].Team1ID)
	assert.Equal(t, b.TeamsWithBye[2].ID, *r2[1].Team2ID)
	assert.Equal(t, r2[0].ID, *round1.NextMatchID)
	assert.Equal(t, SlotTeam1, *round1.NextMatchSlot)
}

func TestNewBuild_EightTeams(t *testing.T) {
	teams := newTeams(8)

	b, err := NewBuild(uuid.New(), teams, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, b.TotalByes)
	assert.Empty(t, b.TeamsWithBye)
	assert.Equal(t, teamIDs(teams), teamIDs(b.TeamsInRound1))
	require.Len(t, b.Rounds[0], 4)
	require.Len(t, b.Rounds[1], 2)
	require.Len(t, b.Rounds[2], 1)

	for _, m := range b.Rounds[1] {
		assert.Nil(t, m.Team1ID)
		assert.Nil(t, m.Team2ID)
	}

	index := b.Index()
	require.Len(t, index, 3)
	for r, round := range b.Rounds {
		require.Len(t, index[r], len(round))
		for i, m := range round {
			assert.Equal(t, m.ID, index[r][i])
		}
	}
	assert.Equal(t, index, NewRoundIndex(3, b.Matches()))
}

func TestNewBuild_TwoTeams(t *testing.T) {
	b, err := NewBuild(uuid.New(), newTeams(2), nil)
	require.NoError(t, err)

	require.Len(t, b.Rounds, 1)
	require.Len(t, b.Rounds[0], 1)
	assert.True(t, b.Rounds[0][0].IsFinal())
}

func TestNewBuild_InvalidRoster(t *testing.T) {
	_, err := NewBuild(uuid.New(), nil, nil)
	assert.ErrorIs(t, err, ErrNoTeams)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewBuild(uuid.New(), newTeams(1), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPlaceByes_TooManyByes(t *testing.T) {
	round2 := NewShells(uuid.New(), 2, 1)

	err := placeByes(1, round2, newTeams(2))
	assert.ErrorIs(t, err, ErrStructural)
}
