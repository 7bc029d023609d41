package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"alley/internal/middleware"
	"alley/internal/models"
	"alley/internal/validation"

	"gopkg.in/yaml.v3"
)

// Fixture is a hand-written data set. Users are referenced by email and
// artworks by title.
type Fixture struct {
	Users    []FixtureUser    `yaml:"users"`
	Follows  []FixtureFollow  `yaml:"follows"`
	Likes    []FixtureLike    `yaml:"likes"`
	Comments []FixtureComment `yaml:"comments"`
}

type FixtureUser struct {
	DisplayName string           `yaml:"displayName"`
	Email       string           `yaml:"email"`
	Password    string           `yaml:"password"`
	Description string           `yaml:"description"`
	AvatarURL   string           `yaml:"avatarUrl"`
	Artworks    []FixtureArtwork `yaml:"artworks"`
}

type FixtureArtwork struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	ThumbnailURL string   `yaml:"thumbnailUrl"`
	ImageURL     string   `yaml:"imageUrl"`
	Tags         []string `yaml:"tags"`
}

type FixtureFollow struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

type FixtureLike struct {
	User    string `yaml:"user"`
	Artwork string `yaml:"artwork"`
}

type FixtureComment struct {
	User    string `yaml:"user"`
	Artwork string `yaml:"artwork"`
	Text    string `yaml:"text"`
}

// LoadFixture decodes and validates a fixture. Unknown keys are errors.
func LoadFixture(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadFixtureFile reads a fixture from path.
func LoadFixtureFile(path string) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return LoadFixture(file)
}

// Validate checks field limits and that every reference resolves.
func (f *Fixture) Validate() error {
	emails := make(map[string]struct{}, len(f.Users))
	titles := make(map[string]struct{})

	for i := range f.Users {
		u := &f.Users[i]
		u.Email = validation.NormalizeEmail(u.Email)
		if err := validation.ValidateEmail(u.Email); err != nil {
			return fmt.Errorf("user %d: %w", i, err)
		}
		if _, dup := emails[u.Email]; dup {
			return fmt.Errorf("user %s: duplicate email", u.Email)
		}
		emails[u.Email] = struct{}{}
		if err := validation.ValidateDisplayName(u.DisplayName); err != nil {
			return fmt.Errorf("user %s: %w", u.Email, err)
		}
		if u.Password != "" {
			if err := validation.ValidatePassword(u.Password); err != nil {
				return fmt.Errorf("user %s: %w", u.Email, err)
			}
		}

		for j := range u.Artworks {
			a := &u.Artworks[j]
			if a.Title == "" {
				return fmt.Errorf("user %s: artwork %d has no title", u.Email, j)
			}
			if _, dup := titles[a.Title]; dup {
				return fmt.Errorf("artwork %q: duplicate title", a.Title)
			}
			titles[a.Title] = struct{}{}
			if err := validation.ValidateTitle(a.Title); err != nil {
				return fmt.Errorf("artwork %q: %w", a.Title, err)
			}
			if err := validation.ValidateDescription(a.Description); err != nil {
				return fmt.Errorf("artwork %q: %w", a.Title, err)
			}
			tags, err := validation.NormalizeTags(a.Tags)
			if err != nil {
				return fmt.Errorf("artwork %q: %w", a.Title, err)
			}
			a.Tags = tags
		}
	}

	user := func(email string) error {
		if _, ok := emails[validation.NormalizeEmail(email)]; !ok {
			return fmt.Errorf("unknown user %q", email)
		}
		return nil
	}
	artwork := func(title string) error {
		if _, ok := titles[title]; !ok {
			return fmt.Errorf("unknown artwork %q", title)
		}
		return nil
	}

	for _, fl := range f.Follows {
		if err := errors.Join(user(fl.From), user(fl.To)); err != nil {
			return fmt.Errorf("follow: %w", err)
		}
		if validation.NormalizeEmail(fl.From) == validation.NormalizeEmail(fl.To) {
			return fmt.Errorf("follow: %s cannot follow themselves", fl.From)
		}
	}
	for _, l := range f.Likes {
		if err := errors.Join(user(l.User), artwork(l.Artwork)); err != nil {
			return fmt.Errorf("like: %w", err)
		}
	}
	for _, c := range f.Comments {
		if err := errors.Join(user(c.User), artwork(c.Artwork)); err != nil {
			return fmt.Errorf("comment: %w", err)
		}
		if err := validation.ValidateComment(c.Text); err != nil {
			return fmt.Errorf("comment by %s: %w", c.User, err)
		}
	}
	return nil
}

// Apply writes a validated fixture. Likes on one's own artwork are skipped.
func (s *Seeder) Apply(ctx context.Context, f *Fixture) (Summary, error) {
	var sum Summary
	userIDs := make(map[string]uint, len(f.Users))
	artworks := make(map[string]*models.Artwork)

	for _, fu := range f.Users {
		user := &models.User{
			DisplayName: fu.DisplayName,
			Email:       fu.Email,
			Description: fu.Description,
			AvatarURL:   fu.AvatarURL,
			Password:    fu.Password,
		}
		if user.Password == "" {
			user.Password = s.passwordHash
		}
		if err := s.users.Create(ctx, user); err != nil {
			return sum, fmt.Errorf("create user %s: %w", fu.Email, err)
		}
		userIDs[fu.Email] = user.ID
		sum.Users++

		for _, fa := range fu.Artworks {
			artwork := &models.Artwork{
				Title:        fa.Title,
				Description:  fa.Description,
				ThumbnailURL: fa.ThumbnailURL,
				ImageURL:     fa.ImageURL,
				UserID:       user.ID,
			}
			if err := s.artworks.Create(ctx, artwork, fa.Tags); err != nil {
				return sum, fmt.Errorf("create artwork %q: %w", fa.Title, err)
			}
			artworks[fa.Title] = artwork
			sum.Artworks++
		}
	}

	for _, fl := range f.Follows {
		created, err := s.social.Follow(ctx,
			userIDs[validation.NormalizeEmail(fl.From)], userIDs[validation.NormalizeEmail(fl.To)])
		if err != nil {
			return sum, fmt.Errorf("follow %s -> %s: %w", fl.From, fl.To, err)
		}
		if created {
			sum.Follows++
		}
	}

	for _, l := range f.Likes {
		userID := userIDs[validation.NormalizeEmail(l.User)]
		artwork := artworks[l.Artwork]
		if artwork.UserID == userID {
			middleware.Logger.WarnContext(ctx, "skipping self like",
				slog.String("user", l.User), slog.String("artwork", l.Artwork))
			continue
		}
		created, err := s.social.Like(ctx, userID, artwork.ID)
		if err != nil {
			return sum, fmt.Errorf("like %q: %w", l.Artwork, err)
		}
		if created {
			sum.Likes++
		}
	}

	for _, c := range f.Comments {
		comment := &models.Comment{
			Text:      c.Text,
			ArtworkID: artworks[c.Artwork].ID,
			UserID:    userIDs[validation.NormalizeEmail(c.User)],
		}
		if err := s.comments.Create(ctx, comment); err != nil {
			return sum, fmt.Errorf("comment on %q: %w", c.Artwork, err)
		}
		sum.Comments++
	}

	middleware.Logger.InfoContext(ctx, "fixture applied", sum.attrs()...)
	return sum, nil
}
