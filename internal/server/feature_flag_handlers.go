package server

import "github.com/gofiber/fiber/v2"

// GetFeatureFlags returns the configured rollouts and their evaluation for
// the current user, or for an anonymous caller.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)

	rollout := map[string]int{}
	evaluated := map[string]bool{}
	for _, name := range s.featureFlags.Names() {
		rollout[name] = s.featureFlags.Percent(name)
		evaluated[name] = s.featureFlags.Enabled(name, userID)
	}

	return c.JSON(fiber.Map{
		"rollout":   rollout,
		"evaluated": evaluated,
	})
}
