// Package repository implements gorm-backed data access for users, artworks,
// comments and the social graph.
package repository

import (
	"errors"
	"strings"

	"alley/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidCredentials = models.NewValidationError("Invalid combination of email and password")
	ErrInvalidPassword    = models.NewValidationError("Invalid password")
	ErrEmailTaken         = models.NewValidationError("This email is already registered, maybe you want to sign in?")
	ErrUserNotFound       = models.NewNotFoundError("User not found!")
	ErrArtworkNotFound    = models.NewNotFoundError("Artwork not found")
)

// publicUserColumns are the user columns safe to load outside credential checks.
var publicUserColumns = []string{"id", "created_at", "updated_at", "display_name", "email", "avatar_url", "description"}

// publicUser is a preload scope that leaves the password hash unloaded.
func publicUser(db *gorm.DB) *gorm.DB {
	return db.Select(publicUserColumns)
}

// newestFirst orders artworks for per-user collections.
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

// likeEscape is appended to every LIKE that takes a likePattern.
const likeEscape = ` ESCAPE '\'`

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a case-insensitive substring pattern for
// LOWER(col) LIKE ? ESCAPE '\'. Wildcards in term match literally.
func likePattern(term string) string {
	return "%" + likeReplacer.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}

// isUniqueConstraintError reports a unique index violation on postgres or sqlite.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// findOrCreateTags resolves names to Tag rows, inserting the missing ones.
// Names are trimmed and de-duplicated; empty names are skipped.
func findOrCreateTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	seen := make(map[string]bool, len(names))
	tags := make([]models.Tag, 0, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		tag := models.Tag{Name: name}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&tag).Error
		if err != nil {
			return nil, err
		}
		if tag.ID == 0 {
			if err := tx.Where("name = ?", name).First(&tag).Error; err != nil {
				return nil, err
			}
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
