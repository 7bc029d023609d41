package server

import (
	"alley/internal/models"
	"alley/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SignUp handles POST /user/sign-up
func (s *Server) SignUp(c *fiber.Ctx) error {
	var req struct {
		DisplayName string `json:"displayName"`
		Email       string `json:"email"`
		Password    string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	user, err := s.userService.SignUp(c.UserContext(), service.SignUpInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return s.respondWithSession(c, user)
}

// SignIn handles POST /user/sign-in
func (s *Server) SignIn(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	user, err := s.userService.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondServiceError(c, err)
	}

	return s.respondWithSession(c, user)
}

func (s *Server) respondWithSession(c *fiber.Ctx, user *models.User) error {
	token, err := s.generateToken(user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}
