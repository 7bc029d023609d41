package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"alley/internal/cache"
	"alley/internal/config"
	"alley/internal/models"
	"alley/internal/observability"
	"alley/internal/repository"
	"alley/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestTokenRoundTrip(t *testing.T) {
	s := &Server{config: &config.Config{JWTSecret: testJWTSecret}}

	token, err := s.generateToken(17)
	require.NoError(t, err)

	id, err := s.parseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(17), id)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	require.NoError(t, err)
	exp, err := parsed.Claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), exp.Time, time.Minute)
}

func TestGenerateTokenRequiresSecret(t *testing.T) {
	s := &Server{config: &config.Config{}}
	_, err := s.generateToken(1)
	assert.Error(t, err)
}

func TestParseTokenRejects(t *testing.T) {
	s := &Server{config: &config.Config{JWTSecret: testJWTSecret}}
	secret := []byte(testJWTSecret)
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"wrong secret", signed(t, jwt.SigningMethodHS256, []byte("other-secret"), jwt.MapClaims{"id": 1, "exp": future})},
		{"expired", signed(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{"id": 1, "exp": time.Now().Add(-time.Hour).Unix()})},
		{"no expiry", signed(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{"id": 1})},
		{"missing id", signed(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{"exp": future})},
		{"string id", signed(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{"id": "1", "exp": future})},
		{"fractional id", signed(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{"id": 1.5, "exp": future})},
		{"alg none", signed(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"id": 1, "exp": future})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.parseToken(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestResolveUserCountsSoftFailures(t *testing.T) {
	env := newTestEnv(t)

	before := promtest.ToFloat64(observability.AuthSoftFailures.WithLabelValues("malformed"))
	req := httptest.NewRequest(http.MethodGet, "/artwork/gallery?sort_by=latest", nil)
	req.Header.Set("Authorization", "Token abc")
	status, _ := env.send(t, req)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, before+1, promtest.ToFloat64(observability.AuthSoftFailures.WithLabelValues("malformed")))

	// A valid signature for a user that does not exist.
	token, err := env.server.generateToken(4242)
	require.NoError(t, err)
	before = promtest.ToFloat64(observability.AuthSoftFailures.WithLabelValues("unknown_user"))
	status, body := env.do(t, http.MethodGet, "/user/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Authentication failed.", body["error"])
	assert.Equal(t, before+1, promtest.ToFloat64(observability.AuthSoftFailures.WithLabelValues("unknown_user")))
}

// MockArtworkRepository is a mock of the ArtworkRepository interface
type MockArtworkRepository struct {
	mock.Mock
}

func (m *MockArtworkRepository) List(ctx context.Context, q repository.ListingQuery) ([]models.ArtworkListing, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.ArtworkListing), args.Get(1).(int64), args.Error(2)
}

func (m *MockArtworkRepository) GetByID(ctx context.Context, id uint) (*models.Artwork, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artwork), args.Error(1)
}

func (m *MockArtworkRepository) Create(ctx context.Context, artwork *models.Artwork, tagNames []string) error {
	args := m.Called(ctx, artwork, tagNames)
	return args.Error(0)
}

func (m *MockArtworkRepository) Update(ctx context.Context, id uint, upd repository.ArtworkUpdate) (*models.Artwork, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artwork), args.Error(1)
}

func (m *MockArtworkRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockArtworkRepository) CountLikes(ctx context.Context, id uint) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func TestGetGallery_RepositoryFailure(t *testing.T) {
	mockRepo := new(MockArtworkRepository)
	s := &Server{
		config:         &config.Config{},
		artworkService: service.NewArtworkService(mockRepo, nil, nil, cache.New(nil)),
	}

	mockRepo.On("List", mock.Anything, repository.ListingQuery{
		Sort: repository.SortLatest, Limit: defaultGalleryLimit,
	}).Return(nil, int64(0), errors.New("connection reset"))

	app := fiber.New()
	app.Get("/artwork/gallery", s.GetGallery)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/artwork/gallery?sort_by=latest", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Internal server error", body["error"])
	assert.NotContains(t, body, "message")
	mockRepo.AssertExpectations(t)
}

func TestGetArtwork_IncludesLikeCount(t *testing.T) {
	mockRepo := new(MockArtworkRepository)
	s := &Server{
		config:         &config.Config{},
		artworkService: service.NewArtworkService(mockRepo, nil, nil, cache.New(nil)),
	}

	mockRepo.On("GetByID", mock.Anything, uint(7)).
		Return(&models.Artwork{ID: 7, Title: "Dunes", UserID: 3, Tags: []models.Tag{{Name: "sand"}}}, nil)
	mockRepo.On("CountLikes", mock.Anything, uint(7)).Return(int64(12), nil)

	app := fiber.New()
	app.Get("/artwork/art/:id", s.GetArtwork)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/artwork/art/7", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		ID         uint   `json:"id"`
		Title      string `json:"title"`
		TotalLikes int64  `json:"totalLikes"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, uint(7), body.ID)
	assert.Equal(t, "Dunes", body.Title)
	assert.Equal(t, int64(12), body.TotalLikes)
	mockRepo.AssertExpectations(t)
}
