package server

import (
	"errors"
	"io"
	"strings"
	"unicode"

	"alley/internal/models"
	"alley/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const (
	maxPaginationLimit = 100

	defaultGalleryLimit = 60
	defaultArtistLimit  = 4
)

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "userId" -> "user ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		words := splitCamel(param[:len(param)-2])
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// mapServiceError picks the HTTP status for an error returned by a service.
func mapServiceError(err error) int {
	switch {
	case models.IsCode(err, models.CodeNotFound):
		return fiber.StatusNotFound
	case models.IsCode(err, models.CodeValidation):
		return fiber.StatusBadRequest
	case models.IsCode(err, models.CodeUnauthorized):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// respondServiceError writes err with the status chosen by mapServiceError.
func respondServiceError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, mapServiceError(err), err)
}

// invalidBody is the response for a request body that cannot be parsed.
func invalidBody(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusBadRequest,
		models.NewValidationError("Invalid request body"))
}

// readUpload reads the first multipart file present under one of fields.
// A request without any of them yields service.ErrMissingFile.
func readUpload(c *fiber.Ctx, userID uint, fields ...string) (service.ImageUpload, error) {
	for _, field := range fields {
		file, err := c.FormFile(field)
		if err != nil {
			continue
		}

		src, err := file.Open()
		if err != nil {
			return service.ImageUpload{}, service.ErrUploadFailed
		}
		content, err := io.ReadAll(src)
		_ = src.Close()
		if err != nil {
			return service.ImageUpload{}, service.ErrUploadFailed
		}

		return service.ImageUpload{
			UserID:      userID,
			Filename:    file.Filename,
			ContentType: file.Header.Get(fiber.HeaderContentType),
			Content:     content,
		}, nil
	}
	return service.ImageUpload{}, service.ErrMissingFile
}

// formValues collects every value of the given multipart fields, in order.
func formValues(c *fiber.Ctx, fields ...string) []string {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	var out []string
	for _, field := range fields {
		out = append(out, form.Value[field]...)
	}
	return out
}
