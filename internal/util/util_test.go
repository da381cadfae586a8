package util

import (
	"primary_reading_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNameFromURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://cdn.example.com/bucket/stories/images/a.png?X-Amz-Signature=abc", "a.png"},
		{"https://cdn.example.com/bucket/a.png", "a.png"},
		{"/uploads/stories/images/b_thumb.png", "b_thumb.png"},
		{"plain.png", "plain.png"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ObjectNameFromURL(tc.url), tc.url)
	}
}

func TestGenerateRandomString(t *testing.T) {
	a := GenerateRandomString(6)
	b := GenerateRandomString(6)

	assert.Len(t, a, 6)
	assert.Len(t, b, 6)
	assert.NotEqual(t, a, b)
}

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Email: "parent@example.com", Role: model.Parent}
	user.ID = 42

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "test-secret")
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, model.Parent, claims.Role)
	assert.Equal(t, "parent@example.com", claims.Email)
}

func TestJWTWrongSecret(t *testing.T) {
	user := &model.User{Email: "parent@example.com", Role: model.Parent}
	token, err := GenerateJWT(user, "test-secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	user := &model.User{Email: "parent@example.com", Role: model.Parent}
	token, err := GenerateJWT(user, "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "test-secret")
	assert.Error(t, err)
}
