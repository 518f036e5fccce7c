package contracts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumsValid(t *testing.T) {
	assert.True(t, PositionGoalkeeper.Valid())
	assert.False(t, Position("striker").Valid())
	assert.True(t, StatusNotReady.Valid())
	assert.False(t, Status("ready").Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("owner").Valid())
	assert.True(t, FootBoth.Valid())
	assert.False(t, Foot("right").Valid())
}

func TestPlayerOf_HidesPassword(t *testing.T) {
	u := User{ID: 4, Username: "kane", PasswordHash: "$2a$10$secret", Player: "Harry", Status: StatusReady}

	data, err := json.Marshal(PlayerOf(u, 7.5))
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.NotContains(t, out, "password")
	assert.Equal(t, 7.5, out["avgRating"])
	assert.Equal(t, "Harry", out["player"])
	assert.Nil(t, out["profilePicUrl"])
}

func TestProfileUpdate_Apply(t *testing.T) {
	pic := "https://example.com/a.png"
	u := User{ID: 1, Player: "Old", Height: 1.70, Status: StatusReady, ProfilePicURL: &pic}

	name := "New"
	height := 1.82
	status := StatusNotReady
	empty := ""
	ProfileUpdate{Player: &name, Height: &height, Status: &status, ProfilePicURL: &empty}.Apply(&u)

	assert.Equal(t, "New", u.Player)
	assert.Equal(t, 1.82, u.Height)
	assert.Equal(t, StatusNotReady, u.Status)
	assert.Nil(t, u.ProfilePicURL)
	assert.Equal(t, 1, u.ID)
}

func TestAverageRating(t *testing.T) {
	ratings := []Rating{
		{ID: 1, RaterID: 1, RatedPlayerID: 2, Score: 7},
		{ID: 2, RaterID: 3, RatedPlayerID: 2, Score: 8},
		{ID: 3, RaterID: 4, RatedPlayerID: 2, Score: 8},
		{ID: 4, RaterID: 2, RatedPlayerID: 1, Score: 10},
	}

	tests := []struct {
		name     string
		playerID int
		want     float64
	}{
		{"three ratings", 2, 7.7},
		{"single rating", 1, 10},
		{"unrated", 9, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AverageRating(tt.playerID, ratings))
		})
	}
}

func TestRoundTenth(t *testing.T) {
	assert.Equal(t, 6.5, RoundTenth(6.45000001))
	assert.Equal(t, 6.3, RoundTenth(6.25))
	assert.Equal(t, -2.5, RoundTenth(-2.45000001))
	assert.Equal(t, 0.0, RoundTenth(0))
}

func TestTeamRequest_Needed(t *testing.T) {
	assert.Equal(t, 12, TeamRequest{NumTeams: 3, PlayersPerTeam: 4}.Needed())
}
