package service

import (
	"context"

	"alley/internal/models"
	"alley/internal/observability"
	"alley/internal/repository"
)

var (
	ErrSelfLike      = models.NewValidationError("You are the user of this artwork!")
	ErrLikeExists    = models.NewValidationError("Like already exists")
	ErrLikeNotFound  = models.NewNotFoundError("Like not found")
	ErrSelfFollow    = models.NewValidationError("You cannot like yourself! :^)")
	ErrFollowExists  = models.NewValidationError("Follow already exists")
	ErrFollowMissing = models.NewNotFoundError("Follow not found")
)

// SocialService covers likes and follows.
type SocialService struct {
	socialRepo  repository.SocialRepository
	artworkRepo repository.ArtworkRepository
	userRepo    repository.UserRepository
}

func NewSocialService(
	socialRepo repository.SocialRepository,
	artworkRepo repository.ArtworkRepository,
	userRepo repository.UserRepository,
) *SocialService {
	return &SocialService{
		socialRepo:  socialRepo,
		artworkRepo: artworkRepo,
		userRepo:    userRepo,
	}
}

func (s *SocialService) LikeStatus(ctx context.Context, userID, artworkID uint) (bool, error) {
	if _, err := s.artworkRepo.GetByID(ctx, artworkID); err != nil {
		return false, err
	}
	return s.socialRepo.HasLiked(ctx, userID, artworkID)
}

func (s *SocialService) Like(ctx context.Context, userID, artworkID uint) error {
	artwork, err := s.artworkRepo.GetByID(ctx, artworkID)
	if err != nil {
		return err
	}
	if artwork.UserID == userID {
		return ErrSelfLike
	}
	created, err := s.socialRepo.Like(ctx, userID, artworkID)
	if err != nil {
		return err
	}
	if !created {
		return ErrLikeExists
	}
	observability.SocialActions.WithLabelValues("like").Inc()
	return nil
}

func (s *SocialService) Unlike(ctx context.Context, userID, artworkID uint) error {
	removed, err := s.socialRepo.Unlike(ctx, userID, artworkID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrLikeNotFound
	}
	observability.SocialActions.WithLabelValues("unlike").Inc()
	return nil
}

// LikesByUser lists the likes of an existing user with the liked artworks.
func (s *SocialService) LikesByUser(ctx context.Context, userID uint) ([]models.Like, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.socialRepo.LikesByUser(ctx, userID)
}

func (s *SocialService) FollowStatus(ctx context.Context, followerID, followeeID uint) (bool, error) {
	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		return false, err
	}
	return s.socialRepo.IsFollowing(ctx, followerID, followeeID)
}

func (s *SocialService) Follow(ctx context.Context, followerID, followeeID uint) error {
	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		return err
	}
	if followerID == followeeID {
		return ErrSelfFollow
	}
	created, err := s.socialRepo.Follow(ctx, followerID, followeeID)
	if err != nil {
		return err
	}
	if !created {
		return ErrFollowExists
	}
	observability.SocialActions.WithLabelValues("follow").Inc()
	return nil
}

func (s *SocialService) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	removed, err := s.socialRepo.Unfollow(ctx, followerID, followeeID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrFollowMissing
	}
	observability.SocialActions.WithLabelValues("unfollow").Inc()
	return nil
}

func (s *SocialService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.socialRepo.Followers(ctx, userID)
}

func (s *SocialService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.socialRepo.Following(ctx, userID)
}
