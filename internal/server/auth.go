package server

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"alley/internal/middleware"
	"alley/internal/models"
	"alley/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the lifetime of issued tokens.
const TokenTTL = 7 * 24 * time.Hour

var errAuthFailed = models.NewUnauthorizedError("Authentication failed.")

// generateToken signs an HS256 token carrying the user id.
func (s *Server) generateToken(userID uint) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"id":  userID,
		"iat": now.Unix(),
		"exp": now.Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// parseToken verifies tokenString and returns the user id it names.
func (s *Server) parseToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token claims")
	}
	// JSON numbers decode as float64.
	id, ok := claims["id"].(float64)
	if !ok || id <= 0 || id != float64(uint(id)) {
		return 0, errors.New("invalid id claim")
	}
	return uint(id), nil
}

// ResolveUser attaches the bearer token's user to the request when the token
// verifies and the user still exists. Any failure leaves the request
// anonymous; handlers that need a user reject it themselves.
func (s *Server) ResolveUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}

		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			s.softAuthFailure(c, "malformed", errors.New("authorization header is not a bearer token"))
			return c.Next()
		}

		userID, err := s.parseToken(tokenString)
		if err != nil {
			s.softAuthFailure(c, "invalid", err)
			return c.Next()
		}

		if _, err := s.userService.GetUserByID(c.UserContext(), userID); err != nil {
			s.softAuthFailure(c, "unknown_user", err)
			return c.Next()
		}

		c.Locals("userID", userID)
		c.SetUserContext(middleware.WithUserID(c.UserContext(), userID))
		return c.Next()
	}
}

func (s *Server) softAuthFailure(c *fiber.Ctx, reason string, err error) {
	observability.AuthSoftFailures.WithLabelValues(reason).Inc()
	middleware.Logger.DebugContext(c.UserContext(), "ignoring bearer token",
		slog.String("reason", reason), slog.String("error", err.Error()))
}

// requireUser rejects anonymous requests with 401.
func (s *Server) requireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := currentUserID(c); !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized, errAuthFailed)
		}
		return c.Next()
	}
}

func currentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("userID").(uint)
	return id, ok && id != 0
}
