// Package seed fills a database with demo data for development. Data goes
// through the repositories, so tags, likes and follows obey the same
// uniqueness rules as the API.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"alley/internal/cache"
	"alley/internal/middleware"
	"alley/internal/models"
	"alley/internal/repository"
	"alley/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password123"

var artTags = []string{
	"abstract", "portrait", "landscape", "sketch", "digital", "watercolor",
	"oil", "ink", "charcoal", "pixelart", "concept", "fanart", "nature",
	"city", "sea", "animals", "fantasy", "scifi", "minimal", "surreal",
}

// Options controls a random seeding run.
type Options struct {
	Users           int
	ArtworksPerUser int
	MaxTags         int
	CommentsPerUser int
	LikesPerUser    int
	FollowsPerUser  int
	// Seed makes runs reproducible. Zero picks a random seed.
	Seed int64
}

// DefaultOptions is a small but lively demo data set.
func DefaultOptions() Options {
	return Options{
		Users:           20,
		ArtworksPerUser: 5,
		MaxTags:         4,
		CommentsPerUser: 5,
		LikesPerUser:    10,
		FollowsPerUser:  4,
	}
}

// Summary counts what a run created.
type Summary struct {
	Users    int
	Artworks int
	Comments int
	Likes    int
	Follows  int
}

func (s Summary) attrs() []any {
	return []any{
		slog.Int("users", s.Users),
		slog.Int("artworks", s.Artworks),
		slog.Int("comments", s.Comments),
		slog.Int("likes", s.Likes),
		slog.Int("follows", s.Follows),
	}
}

// Seeder writes demo data through the repositories.
type Seeder struct {
	db       *gorm.DB
	users    repository.UserRepository
	artworks repository.ArtworkRepository
	comments repository.CommentRepository
	social   repository.SocialRepository

	// passwordHash is computed once; the user hook keeps existing hashes.
	passwordHash string
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB) (*Seeder, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), models.PasswordCost)
	if err != nil {
		return nil, fmt.Errorf("hash default password: %w", err)
	}
	return &Seeder{
		db:           db,
		users:        repository.NewUserRepository(db, cache.New(nil)),
		artworks:     repository.NewArtworkRepository(db),
		comments:     repository.NewCommentRepository(db),
		social:       repository.NewSocialRepository(db),
		passwordHash: string(hash),
	}, nil
}

// ClearAll deletes every row the application owns, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	tables := []string{"follows", "likes", "comments", "artwork_tags", "artworks", "tags", "users"}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		middleware.Logger.InfoContext(ctx, "cleared seed tables", slog.Int("tables", len(tables)))
		return nil
	})
}

// Random creates users with artworks, comments, likes and follows.
func (s *Seeder) Random(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary
	faker := gofakeit.New(opts.Seed)

	users := make([]*models.User, 0, opts.Users)
	for i := range opts.Users {
		first, last := faker.FirstName(), faker.LastName()
		user := &models.User{
			DisplayName: first + " " + last,
			Email:       validation.NormalizeEmail(fmt.Sprintf("%s.%s.%d@example.com", first, last, i)),
			Description: faker.Sentence(12),
			Password:    s.passwordHash,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return sum, fmt.Errorf("create user %s: %w", user.Email, err)
		}
		users = append(users, user)
		sum.Users++
	}

	var artworks []*models.Artwork
	for _, user := range users {
		for range opts.ArtworksPerUser {
			token := faker.UUID()
			artwork := &models.Artwork{
				Title:        faker.Adjective() + " " + faker.Noun(),
				Description:  faker.Paragraph(1, 2, 10, " "),
				ThumbnailURL: fmt.Sprintf("https://picsum.photos/seed/%s/400/400", token),
				ImageURL:     fmt.Sprintf("https://picsum.photos/seed/%s/800/600", token),
				UserID:       user.ID,
			}
			if err := s.artworks.Create(ctx, artwork, pickTags(faker, opts.MaxTags)); err != nil {
				return sum, fmt.Errorf("create artwork for user %d: %w", user.ID, err)
			}
			artworks = append(artworks, artwork)
			sum.Artworks++
		}
	}

	if len(artworks) > 0 {
		for _, user := range users {
			for range opts.CommentsPerUser {
				target := artworks[faker.Number(0, len(artworks)-1)]
				comment := &models.Comment{Text: faker.Sentence(8), ArtworkID: target.ID, UserID: user.ID}
				if err := s.comments.Create(ctx, comment); err != nil {
					return sum, fmt.Errorf("create comment: %w", err)
				}
				sum.Comments++
			}

			for range opts.LikesPerUser {
				target := artworks[faker.Number(0, len(artworks)-1)]
				if target.UserID == user.ID {
					continue
				}
				created, err := s.social.Like(ctx, user.ID, target.ID)
				if err != nil {
					return sum, fmt.Errorf("create like: %w", err)
				}
				if created {
					sum.Likes++
				}
			}
		}
	}

	if len(users) > 1 {
		for _, user := range users {
			for range opts.FollowsPerUser {
				target := users[faker.Number(0, len(users)-1)]
				if target.ID == user.ID {
					continue
				}
				created, err := s.social.Follow(ctx, user.ID, target.ID)
				if err != nil {
					return sum, fmt.Errorf("create follow: %w", err)
				}
				if created {
					sum.Follows++
				}
			}
		}
	}

	middleware.Logger.InfoContext(ctx, "random seed complete", sum.attrs()...)
	return sum, nil
}

// pickTags returns up to maxTags distinct tag names.
func pickTags(faker *gofakeit.Faker, maxTags int) []string {
	if maxTags <= 0 {
		return nil
	}
	n := faker.Number(0, maxTags)
	seen := make(map[string]struct{}, n)
	tags := make([]string, 0, n)
	for range n {
		tag := faker.RandomString(artTags)
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
