package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/squadpick/internal/contracts"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	return s
}

func user(name string) contracts.User {
	return contracts.User{
		Username:      name,
		PasswordHash:  "hash",
		Player:        name,
		Height:        1.8,
		Position:      contracts.PositionMidfielder,
		PreferredFoot: contracts.FootRight,
		Status:        contracts.StatusReady,
		Role:          contracts.RolePlayer,
	}
}

func TestNew_CreatesEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "db.json")

	_, err := New(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string][]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Empty(t, doc["users"])
	assert.Empty(t, doc["ratings"])
	assert.Contains(t, doc, "users")
	assert.Contains(t, doc, "ratings")
}

func TestNew_RejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := New(path)
	assert.Error(t, err)
}

func TestCreateUser_AssignsMaxPlusOne(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	a, err := s.CreateUser(ctx, user("alice"))
	require.NoError(t, err)
	b, err := s.CreateUser(ctx, user("bob"))
	require.NoError(t, err)
	assert.Equal(t, 1, a.ID)
	assert.Equal(t, 2, b.ID)

	require.NoError(t, s.DeleteUser(ctx, a.ID))
	c, err := s.CreateUser(ctx, user("carol"))
	require.NoError(t, err)
	assert.Equal(t, 3, c.ID)
}

func TestCreateUser_Duplicate(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.CreateUser(ctx, user("alice"))
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, user("alice"))
	assert.ErrorIs(t, err, contracts.ErrDuplicateUsername)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	created, err := s.CreateUser(ctx, user("alice"))
	require.NoError(t, err)

	got, err := s.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	got, err = s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = s.GetUser(ctx, 99)
	assert.ErrorIs(t, err, contracts.ErrNotFound)
	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	created, err := s.CreateUser(ctx, user("alice"))
	require.NoError(t, err)

	status := contracts.StatusNotReady
	goals := 4
	updated, err := s.UpdateUser(ctx, created.ID, contracts.ProfileUpdate{Status: &status, Goals: &goals})
	require.NoError(t, err)
	assert.Equal(t, contracts.StatusNotReady, updated.Status)
	assert.Equal(t, 4, updated.Goals)
	assert.Equal(t, "alice", updated.Player)

	// persisted
	reloaded, err := New(s.Path())
	require.NoError(t, err)
	got, err := reloaded.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, contracts.StatusNotReady, got.Status)

	_, err = s.UpdateUser(ctx, 42, contracts.ProfileUpdate{Goals: &goals})
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}

func TestDeleteUser_RemovesRelatedRatings(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	a, _ := s.CreateUser(ctx, user("alice"))
	b, _ := s.CreateUser(ctx, user("bob"))
	c, _ := s.CreateUser(ctx, user("carol"))

	_, _, err := s.UpsertRating(ctx, a.ID, b.ID, 7)
	require.NoError(t, err)
	_, _, err = s.UpsertRating(ctx, b.ID, a.ID, 5)
	require.NoError(t, err)
	_, _, err = s.UpsertRating(ctx, b.ID, c.ID, 9)
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(ctx, a.ID))

	ratings, err := s.ListRatings(ctx)
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, c.ID, ratings[0].RatedPlayerID)

	assert.ErrorIs(t, s.DeleteUser(ctx, a.ID), contracts.ErrNotFound)
}

func TestUpsertRating(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	first, created, err := s.UpsertRating(ctx, 1, 2, 6)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, first.ID)

	again, created, err := s.UpsertRating(ctx, 1, 2, 9)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 9, again.Score)

	other, created, err := s.UpsertRating(ctx, 2, 1, 3)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 2, other.ID)

	ratings, err := s.ListRatings(ctx)
	require.NoError(t, err)
	assert.Len(t, ratings, 2)
}

func TestStore_PicksUpExternalEdits(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	doc := `{"users":[{"id":5,"username":"manual","status":"Ready"}],"ratings":[]}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(doc), 0o644))

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 5, users[0].ID)

	created, err := s.CreateUser(ctx, user("next"))
	require.NoError(t, err)
	assert.Equal(t, 6, created.ID)
}
