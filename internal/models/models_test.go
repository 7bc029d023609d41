package models

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserBeforeSave_HashesOnce(t *testing.T) {
	PasswordCost = bcrypt.MinCost

	u := &User{Password: "correct horse"}
	require.NoError(t, u.BeforeSave(nil))
	assert.True(t, IsPasswordHash(u.Password))
	assert.True(t, u.VerifyPassword("correct horse"))

	hashed := u.Password
	require.NoError(t, u.BeforeSave(nil))
	assert.Equal(t, hashed, u.Password, "already hashed value must not be re-hashed")
}

func TestUserBeforeSave_EmptyPasswordUntouched(t *testing.T) {
	u := &User{}
	require.NoError(t, u.BeforeSave(nil))
	assert.Empty(t, u.Password)
	assert.False(t, u.VerifyPassword(""))
}

func TestUserJSON_OmitsPassword(t *testing.T) {
	b, err := json.Marshal(User{ID: 1, DisplayName: "ann", Password: "secret"})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	assert.Contains(t, string(b), `"displayName":"ann"`)
}

func TestTagList_Scan(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  TagList
	}{
		{"null aggregate", nil, TagList{}},
		{"empty string", "", TagList{}},
		{"string", "sky,cat", TagList{"cat", "sky"}},
		{"bytes", []byte("ink"), TagList{"ink"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got TagList
			require.NoError(t, got.Scan(tt.input))
			assert.Equal(t, tt.want, got)
		})
	}

	var bad TagList
	assert.Error(t, bad.Scan(42))
}

func TestTagList_MarshalNilAsArray(t *testing.T) {
	b, err := json.Marshal(ArtworkListing{})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"tags":[]`)
}

func TestRespondWithError_FieldByStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		err    error
		want   ErrorResponse
	}{
		{"validation uses message", fiber.StatusBadRequest, NewValidationError("Like already exists"), ErrorResponse{Message: "Like already exists"}},
		{"not found uses message", fiber.StatusNotFound, NewNotFoundError("Artwork not found"), ErrorResponse{Message: "Artwork not found"}},
		{"unauthorized uses error", fiber.StatusUnauthorized, NewUnauthorizedError("Authentication failed."), ErrorResponse{Error: "Authentication failed."}},
		{"internal hides details", fiber.StatusInternalServerError, NewInternalError(errors.New("db down")), ErrorResponse{Error: "Internal server error"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return RespondWithError(c, tt.status, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.want, body)
		})
	}
}

func TestIsCode(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), NewNotFoundError("User not found!"))
	assert.True(t, IsCode(wrapped, CodeNotFound))
	assert.False(t, IsCode(wrapped, CodeValidation))
	assert.False(t, IsCode(errors.New("plain"), CodeNotFound))
}
