package roster

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/wonny/squadpick/internal/auth"
	"github.com/wonny/squadpick/internal/contracts"
	"github.com/wonny/squadpick/internal/store/jsonfile"
	"github.com/wonny/squadpick/internal/teamgen"
	"github.com/wonny/squadpick/pkg/logger"
)

type recorded struct {
	strategy contracts.Strategy
	result   string
}

type fakeRecorder struct {
	calls []recorded
}

func (f *fakeRecorder) TeamGeneration(strategy contracts.Strategy, result string) {
	f.calls = append(f.calls, recorded{strategy, result})
}

type fixture struct {
	svc    *Service
	store  *jsonfile.Store
	tokens *auth.TokenIssuer
	rec    *fakeRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := jsonfile.New(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)

	tokens, err := auth.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	rec := &fakeRecorder{}
	svc := New(st, auth.NewHasher(bcrypt.MinCost), tokens, logger.Nop(),
		WithGenerator(teamgen.New(teamgen.NewSeededSource(7))),
		WithRecorder(rec),
	)
	return &fixture{svc: svc, store: st, tokens: tokens, rec: rec}
}

func height(h float64) *float64 { return &h }
func intp(v int) *int           { return &v }
func str(s string) *string      { return &s }

func validRegister(username string) RegisterInput {
	return RegisterInput{
		Username:      username,
		Password:      "secret1",
		Player:        "Player " + username,
		Height:        height(1.8),
		Position:      "midfielder",
		PreferredFoot: "Right",
	}
}

func (f *fixture) register(t *testing.T, username string, pos contracts.Position) contracts.Player {
	t.Helper()
	in := validRegister(username)
	in.Position = string(pos)
	p, err := f.svc.Register(context.Background(), in)
	require.NoError(t, err)
	return p
}

func TestRegister(t *testing.T) {
	f := newFixture(t)

	in := validRegister("  alice  ")
	in.Player = "<b>Al</b>"
	in.ProfilePicURL = "https://example.com/a.png"

	p, err := f.svc.Register(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 1, p.ID)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, "&lt;b&gt;Al&lt;&#x2F;b&gt;", p.Player)
	assert.Equal(t, contracts.StatusReady, p.Status)
	assert.Equal(t, contracts.RolePlayer, p.Role)
	assert.Zero(t, p.Matches)
	assert.Equal(t, 0.0, p.AvgRating)
	require.NotNil(t, p.ProfilePicURL)

	stored, err := f.store.GetUser(context.Background(), p.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestRegister_Duplicate(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", contracts.PositionAttacker)

	_, err := f.svc.Register(context.Background(), validRegister("alice"))
	assert.ErrorIs(t, err, contracts.ErrDuplicateUsername)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Register(context.Background(), RegisterInput{
		Username:      "   ",
		Password:      "123",
		Position:      "striker",
		PreferredFoot: "right",
		ProfilePicURL: "not a url",
	})

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, ValidationErrors{
		{"username", "Username is required"},
		{"password", "Password must be at least 6 characters"},
		{"player", "Player name is required"},
		{"height", "Height is required"},
		{"position", "Invalid position"},
		{"preferredFoot", "Invalid preferred foot"},
		{"profilePicUrl", "Invalid image URL"},
	}, verrs)
}

func TestRegister_HeightRange(t *testing.T) {
	f := newFixture(t)

	for _, h := range []float64{0.99, 2.51} {
		in := validRegister("tall")
		in.Height = height(h)
		_, err := f.svc.Register(context.Background(), in)
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "height", verrs[0].Field)
	}

	in := validRegister("edge")
	in.Height = height(2.5)
	_, err := f.svc.Register(context.Background(), in)
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	registered := f.register(t, "alice", contracts.PositionDefender)

	token, player, err := f.svc.Login(context.Background(), LoginInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, player.ID)

	principal, err := f.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, principal.ID)
	assert.Equal(t, "alice", principal.Username)
	assert.Equal(t, contracts.RolePlayer, principal.Role)
}

func TestLogin_Failures(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", contracts.PositionDefender)

	_, _, err := f.svc.Login(context.Background(), LoginInput{Username: "alice", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = f.svc.Login(context.Background(), LoginInput{Username: "bob", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = f.svc.Login(context.Background(), LoginInput{})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestPlayers_AverageRatings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a", contracts.PositionAttacker)
	b := f.register(t, "b", contracts.PositionDefender)
	c := f.register(t, "c", contracts.PositionGoalkeeper)

	_, _, err := f.svc.Rate(ctx, a.ID, c.ID, intp(8))
	require.NoError(t, err)
	_, _, err = f.svc.Rate(ctx, b.ID, c.ID, intp(7))
	require.NoError(t, err)

	players, err := f.svc.Players(ctx)
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, 0.0, players[0].AvgRating)
	assert.Equal(t, 7.5, players[2].AvgRating)
}

func TestRate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a", contracts.PositionAttacker)
	b := f.register(t, "b", contracts.PositionDefender)

	r, created, err := f.svc.Rate(ctx, a.ID, b.ID, intp(4))
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := f.svc.Rate(ctx, a.ID, b.ID, intp(9))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, r.ID, again.ID)

	p, err := f.svc.Profile(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 9.0, p.AvgRating)
}

func TestRate_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a", contracts.PositionAttacker)

	tests := []struct {
		name    string
		rated   int
		score   *int
		wantErr error
		field   string
	}{
		{name: "missing score", rated: 99, score: nil, field: "score"},
		{name: "score too low", rated: 99, score: intp(0), field: "score"},
		{name: "score too high", rated: 99, score: intp(11), field: "score"},
		{name: "self rating", rated: a.ID, score: intp(5), wantErr: ErrSelfRating},
		{name: "unknown player", rated: 99, score: intp(5), wantErr: contracts.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.svc.Rate(ctx, a.ID, tt.rated, tt.score)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a", contracts.PositionAttacker)

	p, err := f.svc.UpdateProfile(ctx, a.ID, UpdateInput{
		Status:   str("Not Ready"),
		Height:   height(1.91),
		Goals:    intp(3),
		Password: str("another1"),
	})
	require.NoError(t, err)
	assert.Equal(t, contracts.StatusNotReady, p.Status)
	assert.Equal(t, 1.91, p.Height)
	assert.Equal(t, 3, p.Goals)

	_, _, err = f.svc.Login(ctx, LoginInput{Username: "a", Password: "another1"})
	assert.NoError(t, err)
}

func TestUpdateProfile_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a", contracts.PositionAttacker)

	_, err := f.svc.UpdateProfile(ctx, a.ID, UpdateInput{Status: str("Busy"), Goals: intp(-1)})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, ValidationErrors{{"status", "Invalid status"}, {"goals", "Must be a non-negative integer"}}, verrs)

	_, err = f.svc.UpdateProfile(ctx, a.ID, UpdateInput{Role: str("admin")})
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "role", verrs[0].Field)

	_, err = f.svc.UpdateProfile(ctx, 42, UpdateInput{Goals: intp(1)})
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}

func TestUpdateProfile_ClearsPicture(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := validRegister("pic")
	in.ProfilePicURL = "http://example.com/p.jpg"
	p, err := f.svc.Register(ctx, in)
	require.NoError(t, err)

	p, err = f.svc.UpdateProfile(ctx, p.ID, UpdateInput{ProfilePicURL: str("")})
	require.NoError(t, err)
	assert.Nil(t, p.ProfilePicURL)
}

func TestSetRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "boss", contracts.PositionAttacker)

	p, err := f.svc.SetRole(ctx, "boss", contracts.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, contracts.RoleAdmin, p.Role)

	_, err = f.svc.SetRole(ctx, "nobody", contracts.RoleAdmin)
	assert.ErrorIs(t, err, contracts.ErrNotFound)

	_, err = f.svc.SetRole(ctx, "boss", contracts.Role("owner"))
	var verrs ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a", contracts.PositionAttacker)
	b := f.register(t, "b", contracts.PositionDefender)
	_, _, err := f.svc.Rate(ctx, a.ID, b.ID, intp(6))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteUser(ctx, a.ID))

	p, err := f.svc.Profile(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.AvgRating)

	assert.ErrorIs(t, f.svc.DeleteUser(ctx, a.ID), contracts.ErrNotFound)
}

func TestReadyPool(t *testing.T) {
	players := []contracts.Player{
		{ID: 1, Status: contracts.StatusReady},
		{ID: 2, Status: contracts.StatusNotReady},
		{ID: 3, Status: contracts.StatusReady},
	}

	pool := ReadyPool(players)
	require.Len(t, pool, 2)
	assert.Equal(t, 1, pool[0].ID)
	assert.Equal(t, 3, pool[1].ID)
	assert.Empty(t, ReadyPool(nil))
}

func TestGenerateTeams(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	positions := []contracts.Position{
		contracts.PositionAttacker, contracts.PositionAttacker,
		contracts.PositionMidfielder, contracts.PositionMidfielder,
		contracts.PositionDefender, contracts.PositionDefender,
		contracts.PositionGoalkeeper,
	}
	var ids []int
	for i, pos := range positions {
		ids = append(ids, f.register(t, string(rune('a'+i)), pos).ID)
	}
	// the goalkeeper sits out
	_, err := f.svc.UpdateProfile(ctx, ids[6], UpdateInput{Status: str("Not Ready")})
	require.NoError(t, err)

	teams, err := f.svc.GenerateTeams(ctx, contracts.TeamRequest{NumTeams: 2, PlayersPerTeam: 3, Strategy: contracts.StrategyBalanced})
	require.NoError(t, err)
	require.Len(t, teams, 2)

	seen := map[int]bool{}
	for _, team := range teams {
		assert.Equal(t, 3, team.Size())
		for _, p := range team.Players {
			assert.NotEqual(t, ids[6], p.ID)
			assert.False(t, seen[p.ID])
			seen[p.ID] = true
		}
	}
	assert.Equal(t, []recorded{{contracts.StrategyBalanced, ResultOK}}, f.rec.calls)
}

func TestGenerateTeams_Failures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a", contracts.PositionAttacker)
	f.register(t, "b", contracts.PositionDefender)

	_, err := f.svc.GenerateTeams(ctx, contracts.TeamRequest{NumTeams: 2, PlayersPerTeam: 2, Strategy: contracts.StrategyRanked})
	var insufficient *teamgen.InsufficientPlayersError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Not enough ready players. Need 4, have 2", err.Error())

	_, err = f.svc.GenerateTeams(ctx, contracts.TeamRequest{NumTeams: 1, PlayersPerTeam: 2, Strategy: contracts.StrategyBalanced})
	var invalid *teamgen.InvalidRequestError
	require.ErrorAs(t, err, &invalid)

	assert.Equal(t, []recorded{
		{contracts.StrategyRanked, ResultInsufficient},
		{contracts.StrategyBalanced, ResultInvalid},
	}, f.rec.calls)
}
