package server

import (
	"alley/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetGallery handles GET /artwork/gallery
func (s *Server) GetGallery(c *fiber.Ctx) error {
	page := parsePagination(c, defaultGalleryLimit)

	listing, err := s.artworkService.Gallery(c.UserContext(), c.Query("sort_by"), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"artworks": listing.Artworks,
		"hasMore":  listing.HasMore,
	})
}

// SearchArtworks handles GET /artwork/search?term=...
func (s *Server) SearchArtworks(c *fiber.Ctx) error {
	page := parsePagination(c, defaultGalleryLimit)

	listing, err := s.artworkService.Search(c.UserContext(), c.Query("term"), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(listing)
}

// GetArtwork handles GET /artwork/art/:id
func (s *Server) GetArtwork(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	artwork, err := s.artworkService.GetArtwork(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(artwork)
}

// UpdateArtwork handles PATCH /artwork/art/:id
func (s *Server) UpdateArtwork(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       *string   `json:"title"`
		Description *string   `json:"description"`
		Tags        *[]string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	artwork, err := s.artworkService.UpdateArtwork(c.UserContext(), service.UpdateArtworkInput{
		UserID:      userID,
		ArtworkID:   id,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(artwork)
}

// DeleteArtwork handles DELETE /artwork/art/:id
func (s *Server) DeleteArtwork(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.artworkService.DeleteArtwork(c.UserContext(), userID, id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// GetComments handles GET /artwork/art/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.artworkService.ListComments(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"comments":   comments,
		"totalCount": len(comments),
	})
}

// CreateComment handles POST /artwork/art/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	comment, err := s.artworkService.AddComment(c.UserContext(), userID, id, req.Text)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(comment)
}

// GetLikeStatus handles GET /artwork/art/:id/like
func (s *Server) GetLikeStatus(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	liked, err := s.socialService.LikeStatus(c.UserContext(), userID, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"liked": liked})
}

// LikeArtwork handles POST /artwork/art/:id/like
func (s *Server) LikeArtwork(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.socialService.Like(c.UserContext(), userID, id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// UnlikeArtwork handles DELETE /artwork/art/:id/like
func (s *Server) UnlikeArtwork(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.socialService.Unlike(c.UserContext(), userID, id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// UploadArtwork handles POST /artwork/upload. Tags arrive as repeated
// "tags" or "tags[]" form fields.
func (s *Server) UploadArtwork(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)

	file, err := readUpload(c, userID, "file")
	if err != nil {
		return respondServiceError(c, err)
	}

	artwork, err := s.artworkService.UploadArtwork(c.UserContext(), service.UploadArtworkInput{
		UserID:      userID,
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Tags:        formValues(c, "tags", "tags[]"),
		File:        file,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(artwork)
}
