// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"alley/internal/models"
)

const (
	MinPasswordLength    = 8
	MaxPasswordLength    = 72 // bcrypt ignores anything past 72 bytes
	MaxDisplayNameLength = 50
	MaxEmailLength       = 254
	MaxCommentLength     = 1000
	MaxTagsPerArtwork    = 10
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// NormalizeEmail trims and lowercases an address before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if len(email) > MaxEmailLength {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword checks length bounds. The upper bound is in bytes.
// Values shaped like a bcrypt hash are refused because the user hook stores
// them verbatim.
func ValidatePassword(password string) error {
	if models.IsPasswordHash(password) {
		return fmt.Errorf("password must not be a bcrypt hash")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("password must not exceed %d bytes", MaxPasswordLength)
	}
	return nil
}

// ValidateDisplayName requires a non-blank name of bounded length.
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("display name is required")
	}
	if utf8.RuneCountInString(name) > MaxDisplayNameLength {
		return fmt.Errorf("display name must not exceed %d characters", MaxDisplayNameLength)
	}
	return nil
}

// ValidateTitle requires a non-blank title of bounded length.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLength {
		return fmt.Errorf("title must not exceed %d characters", models.MaxTitleLength)
	}
	return nil
}

func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > models.MaxDescriptionLength {
		return fmt.Errorf("description must not exceed %d characters", models.MaxDescriptionLength)
	}
	return nil
}

// ValidateComment requires non-blank text within MaxCommentLength.
func ValidateComment(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("comment text is required")
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return fmt.Errorf("comment must not exceed %d characters", MaxCommentLength)
	}
	return nil
}

// NormalizeTags trims names, drops blanks and duplicates, and enforces the
// per-tag and per-artwork limits. Order of first appearance is kept.
func NormalizeTags(raw []string) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if utf8.RuneCountInString(name) > models.MaxTagLength {
			return nil, fmt.Errorf("tag %q must not exceed %d characters", name, models.MaxTagLength)
		}
		if strings.Contains(name, ",") {
			return nil, fmt.Errorf("tag %q must not contain commas", name)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	if len(out) > MaxTagsPerArtwork {
		return nil, fmt.Errorf("an artwork can have at most %d tags", MaxTagsPerArtwork)
	}
	return out, nil
}
