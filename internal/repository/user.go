package repository

import (
	"context"
	"errors"
	"time"

	"alley/internal/cache"
	"alley/internal/models"

	"gorm.io/gorm"
)

// ProfileUpdate lists the user columns a caller may change. Nil fields are
// left alone.
type ProfileUpdate struct {
	DisplayName *string
	Email       *string
	Description *string
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Exists(ctx context.Context, email string) (bool, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	CheckPassword(ctx context.Context, id uint, password string) error
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	UpdateProfile(ctx context.Context, id uint, upd ProfileUpdate) (*models.User, error)
	UpdateAvatar(ctx context.Context, id uint, avatarURL string) (*models.User, error)
	UpdatePassword(ctx context.Context, id uint, password string) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, term string, limit, offset int) ([]models.User, int64, error)
	FollowCounts(ctx context.Context, id uint) (followers, following int64, err error)
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.Store
}

// NewUserRepository creates a new user repository. store may be nil.
func NewUserRepository(db *gorm.DB, store *cache.Store) UserRepository {
	return &userRepository{db: db, cache: store}
}

func (r *userRepository) Exists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) Login(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}
	user.Password = ""
	return &user, nil
}

func (r *userRepository) CheckPassword(ctx context.Context, id uint, password string) error {
	var user models.User
	err := r.db.WithContext(ctx).Select("id", "password").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if !user.VerifyPassword(password) {
		return ErrInvalidPassword
	}
	return nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if isUniqueConstraintError(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return err
	}
	user.Password = ""
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.cache.Aside(ctx, "user", cache.UserKey(id), &user, cache.UserTTL, func() error {
		return r.db.WithContext(ctx).Select(publicUserColumns).First(&user, id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id uint, upd ProfileUpdate) (*models.User, error) {
	updates := map[string]any{}
	if upd.DisplayName != nil {
		updates["display_name"] = *upd.DisplayName
	}
	if upd.Email != nil {
		updates["email"] = *upd.Email
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
		if isUniqueConstraintError(res.Error) {
			return nil, ErrEmailTaken
		}
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrUserNotFound
		}
		r.cache.InvalidateUser(ctx, id)
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) UpdateAvatar(ctx context.Context, id uint, avatarURL string) (*models.User, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]any{"avatar_url": avatarURL, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	r.cache.InvalidateUser(ctx, id)
	return r.GetByID(ctx, id)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, password string) error {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	// Save runs the BeforeSave hook, which hashes the new plaintext.
	user.Password = password
	if err := r.db.WithContext(ctx).Save(&user).Error; err != nil {
		return err
	}
	r.cache.InvalidateUser(ctx, id)
	return nil
}

// Delete removes the user and everything that references them: their
// artworks with those artworks' comments, likes and tag links, plus the
// comments, likes and follows the user authored or received.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&models.Artwork{}).Select("id").Where("user_id = ?", id)

		if err := tx.Exec("DELETE FROM artwork_tags WHERE artwork_id IN (?)", owned).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR artwork_id IN (?)", id, owned).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR artwork_id IN (?)", id, owned).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_one_id = ? OR user_two_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Artwork{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.cache.InvalidateUser(ctx, id)
	return nil
}

func (r *userRepository) Search(ctx context.Context, term string, limit, offset int) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(display_name) LIKE ?"+likeEscape, likePattern(term)).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	users := []models.User{}
	err := query.Select(publicUserColumns).
		Preload("Artworks", newestFirst).
		Scopes(newestFirst).
		Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) FollowCounts(ctx context.Context, id uint) (int64, int64, error) {
	var followers, following int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Follow{}).Where("user_two_id = ?", id).Count(&followers).Error; err != nil {
		return 0, 0, err
	}
	if err := db.Model(&models.Follow{}).Where("user_one_id = ?", id).Count(&following).Error; err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}
