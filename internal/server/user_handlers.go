package server

import (
	"alley/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /user/profile
func (s *Server) GetProfile(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)

	user, err := s.userService.GetUserByID(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// UpdateProfile handles PATCH /user/profile. Only displayName, email and
// description can be changed here.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)

	var req struct {
		DisplayName *string `json:"displayName"`
		Email       *string `json:"email"`
		Description *string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), userID, service.UpdateProfileInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Description: req.Description,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// UpdateAvatar handles PATCH|PUT /user/profile/avatar. The image may be sent
// as "file" or "avatar".
func (s *Server) UpdateAvatar(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)

	file, err := readUpload(c, userID, "file", "avatar")
	if err != nil {
		return respondServiceError(c, err)
	}

	user, err := s.userService.UpdateAvatar(c.UserContext(), file)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// ChangePassword handles POST /user/change-password
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)

	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	user, err := s.userService.ChangePassword(c.UserContext(), service.ChangePasswordInput{
		UserID:      userID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// DeleteAccount handles DELETE /user/delete-account
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)

	if err := s.userService.DeleteAccount(c.UserContext(), userID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// SearchArtists handles GET /user/search?term=...
func (s *Server) SearchArtists(c *fiber.Ctx) error {
	page := parsePagination(c, defaultArtistLimit)

	artists, total, err := s.userService.SearchArtists(c.UserContext(), c.Query("term"), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"artists":    artists,
		"hasMore":    len(artists) == page.Limit,
		"totalCount": total,
	})
}

// GetArtist handles GET /user/artist/:id
func (s *Server) GetArtist(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	artist, err := s.userService.GetArtist(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(artist)
}

// GetArtistGallery handles GET /user/artist/:id/gallery
func (s *Server) GetArtistGallery(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.userService.GetUserByID(c.UserContext(), id); err != nil {
		return respondServiceError(c, err)
	}
	artworks, total, err := s.artworkService.ArtistGallery(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"artworks":   artworks,
		"totalCount": total,
	})
}

// GetArtistLikes handles GET /user/artist/:id/likes
func (s *Server) GetArtistLikes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	likes, err := s.socialService.LikesByUser(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"likes":      likes,
		"totalCount": len(likes),
	})
}

// GetArtistFollowers handles GET /user/artist/:id/followers
func (s *Server) GetArtistFollowers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	followers, err := s.socialService.Followers(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"followers":  followers,
		"totalCount": len(followers),
	})
}

// GetArtistFollowing handles GET /user/artist/:id/following
func (s *Server) GetArtistFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	following, err := s.socialService.Following(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"following":  following,
		"totalCount": len(following),
	})
}

// GetFollowStatus handles GET /user/artist/:id/follow
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	following, err := s.socialService.FollowStatus(c.UserContext(), userID, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"following": following})
}

// FollowArtist handles POST /user/artist/:id/follow
func (s *Server) FollowArtist(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.socialService.Follow(c.UserContext(), userID, id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// UnfollowArtist handles DELETE /user/artist/:id/follow
func (s *Server) UnfollowArtist(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.socialService.Unfollow(c.UserContext(), userID, id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}
