package service

import (
	"context"
	"strings"

	"alley/internal/cache"
	"alley/internal/models"
	"alley/internal/observability"
	"alley/internal/repository"
	"alley/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
	images   *ImageService
	cache    *cache.Store
}

type SignUpInput struct {
	DisplayName string
	Email       string
	Password    string
}

// UpdateProfileInput is the allow-list of self-editable profile fields.
type UpdateProfileInput struct {
	DisplayName *string
	Email       *string
	Description *string
}

type ChangePasswordInput struct {
	UserID      uint
	OldPassword string
	NewPassword string
}

// NewUserService wires the user use cases. store may be nil.
func NewUserService(userRepo repository.UserRepository, images *ImageService, store *cache.Store) *UserService {
	return &UserService{userRepo: userRepo, images: images, cache: store}
}

func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	email := validation.NormalizeEmail(in.Email)
	if err := validation.ValidateDisplayName(in.DisplayName); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	exists, err := s.userRepo.Exists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, repository.ErrEmailTaken
	}

	user := &models.User{
		DisplayName: strings.TrimSpace(in.DisplayName),
		Email:       email,
		Password:    in.Password,
	}
	// The unique index still guards against a concurrent sign-up.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	observability.SignUps.Inc()
	return user, nil
}

func (s *UserService) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	return s.userRepo.Login(ctx, validation.NormalizeEmail(email), password)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	upd := repository.ProfileUpdate{Description: in.Description}
	if in.DisplayName != nil {
		if err := validation.ValidateDisplayName(*in.DisplayName); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		name := strings.TrimSpace(*in.DisplayName)
		upd.DisplayName = &name
	}
	if in.Email != nil {
		email := validation.NormalizeEmail(*in.Email)
		if err := validation.ValidateEmail(email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		upd.Email = &email
	}
	if in.Description != nil {
		if err := validation.ValidateDescription(*in.Description); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}
	user, err := s.userRepo.UpdateProfile(ctx, userID, upd)
	if err != nil {
		return nil, err
	}
	// Gallery rows embed the owner's display name.
	if upd.DisplayName != nil {
		s.cache.InvalidateGallery(ctx)
	}
	return user, nil
}

// UpdateAvatar stores a new avatar and points the user at it. The previous
// avatar object is removed once the row is updated.
func (s *UserService) UpdateAvatar(ctx context.Context, in ImageUpload) (*models.User, error) {
	current, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	stored, err := s.images.ProcessAvatar(ctx, in)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.UpdateAvatar(ctx, in.UserID, stored.URL)
	if err != nil {
		s.images.Discard(ctx, stored.Key)
		return nil, err
	}
	if old := KeyFromURL(current.AvatarURL); old != "" {
		s.images.Discard(ctx, old)
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, in ChangePasswordInput) (*models.User, error) {
	if err := s.userRepo.CheckPassword(ctx, in.UserID, in.OldPassword); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(in.NewPassword); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := s.userRepo.UpdatePassword(ctx, in.UserID, in.NewPassword); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, in.UserID)
}

func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	s.cache.InvalidateGallery(ctx)
	return nil
}

// GetArtist returns the public profile with follower and following counts.
func (s *UserService) GetArtist(ctx context.Context, id uint) (*models.ArtistProfile, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	followers, following, err := s.userRepo.FollowCounts(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.ArtistProfile{User: *user, Followers: followers, Following: following}, nil
}

func (s *UserService) SearchArtists(ctx context.Context, term string, limit, offset int) ([]models.User, int64, error) {
	return s.userRepo.Search(ctx, term, limit, offset)
}
