package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/squadpick/internal/contracts"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  plain  ", "plain"},
		{"Tom & Jerry", "Tom &amp; Jerry"},
		{`<script>alert("x")</script>`, "&lt;script&gt;alert(&quot;x&quot;)&lt;&#x2F;script&gt;"},
		{"O'Neil", "O&#x27;Neil"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitize(tt.in), tt.in)
	}
}

func TestPictureURL(t *testing.T) {
	valid := []string{"http://example.com/a.png", "https://cdn.example.com/p?id=1", "  https://example.com/x.jpg  ", ""}
	invalid := []string{"example.com/a.png", "ftp://example.com/a", "https://", "javascript:alert(1)", "::"}

	for _, u := range valid {
		pic := u
		_, _, err := UpdateInput{ProfilePicURL: &pic}.toUpdate(false)
		assert.NoError(t, err, u)
	}
	for _, u := range invalid {
		pic := u
		_, _, err := UpdateInput{ProfilePicURL: &pic}.toUpdate(false)
		assert.Equal(t, ValidationErrors{{"profilePicUrl", "Invalid image URL"}}, err, u)
	}
}

func TestUpdateInput_Messages(t *testing.T) {
	tests := []struct {
		name string
		in   UpdateInput
		want ValidationErrors
	}{
		{"blank player", UpdateInput{Player: str("  ")}, ValidationErrors{{"player", "Player name is required"}}},
		{"short", UpdateInput{Height: height(0.5)}, ValidationErrors{{"height", "Height must be a number (e.g., 1.75)"}}},
		{"position", UpdateInput{Position: str("striker")}, ValidationErrors{{"position", "Invalid position"}}},
		{"foot", UpdateInput{PreferredFoot: str("both")}, ValidationErrors{{"preferredFoot", "Invalid preferred foot"}}},
		{"password", UpdateInput{Password: str("12345")}, ValidationErrors{{"password", "Password must be at least 6 characters"}}},
		{"counters", UpdateInput{Matches: intp(-1), MinPlayed: intp(-5)}, ValidationErrors{
			{"matches", "Must be a non-negative integer"},
			{"minPlayed", "Must be a non-negative integer"},
		}},
		{"role without admin", UpdateInput{Goals: intp(-1), Role: str("admin")}, ValidationErrors{
			{"goals", "Must be a non-negative integer"},
			{"role", "Only an admin can change roles"},
		}},
		{"unknown role without admin", UpdateInput{Role: str("owner")}, ValidationErrors{{"role", "Only an admin can change roles"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.in.toUpdate(false)
			assert.Equal(t, tt.want, err)
		})
	}
}

func TestUpdateInput_AdminRole(t *testing.T) {
	up, _, err := UpdateInput{Role: str("admin")}.toUpdate(true)
	require.NoError(t, err)
	require.NotNil(t, up.Role)
	assert.Equal(t, contracts.RoleAdmin, *up.Role)

	_, _, err = UpdateInput{Role: str("owner")}.toUpdate(true)
	assert.Equal(t, ValidationErrors{{"role", "Invalid role"}}, err)
}

func TestUpdateInput_EmptyIsNoop(t *testing.T) {
	up, password, err := UpdateInput{}.toUpdate(false)
	require.NoError(t, err)
	assert.Nil(t, password)
	assert.Equal(t, contracts.ProfileUpdate{}, up)
}

func TestValidateScore(t *testing.T) {
	assert.Equal(t, ValidationErrors{{"score", "Rating is required"}}, validateScore(nil))
	assert.Equal(t, ValidationErrors{{"score", "Rating must be an integer between 1 and 10"}}, validateScore(intp(0)))
	assert.Equal(t, ValidationErrors{{"score", "Rating must be an integer between 1 and 10"}}, validateScore(intp(11)))
	assert.NoError(t, validateScore(intp(10)))
}

func TestValidationErrors_KeepsFirstPerField(t *testing.T) {
	var errs ValidationErrors
	errs.add("height", "Height is required")
	errs.add("height", "Height must be a number (e.g., 1.75)")
	errs.add("position", "Invalid position")

	assert.Len(t, errs, 2)
	assert.Equal(t, "validation failed: height: Height is required; position: Invalid position", errs.Error())
	assert.NoError(t, ValidationErrors(nil).err())
}
