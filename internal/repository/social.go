package repository

import (
	"context"

	"alley/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SocialRepository covers likes and follows.
type SocialRepository interface {
	// Like inserts a like and reports false when it already existed.
	Like(ctx context.Context, userID, artworkID uint) (bool, error)
	// Unlike deletes a like and reports false when there was none.
	Unlike(ctx context.Context, userID, artworkID uint) (bool, error)
	HasLiked(ctx context.Context, userID, artworkID uint) (bool, error)
	LikesByUser(ctx context.Context, userID uint) ([]models.Like, error)

	Follow(ctx context.Context, followerID, followeeID uint) (bool, error)
	Unfollow(ctx context.Context, followerID, followeeID uint) (bool, error)
	IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error)
	Followers(ctx context.Context, userID uint) ([]models.User, error)
	Following(ctx context.Context, userID uint) ([]models.User, error)
}

type socialRepository struct {
	db *gorm.DB
}

// NewSocialRepository creates a new social graph repository.
func NewSocialRepository(db *gorm.DB) SocialRepository {
	return &socialRepository{db: db}
}

// insertIgnoringDuplicate inserts row and reports whether a new row was written.
func insertIgnoringDuplicate(db *gorm.DB, row any, columns ...string) (bool, error) {
	conflict := clause.OnConflict{DoNothing: true}
	for _, c := range columns {
		conflict.Columns = append(conflict.Columns, clause.Column{Name: c})
	}
	res := db.Clauses(conflict).Create(row)
	if res.Error != nil {
		if isUniqueConstraintError(res.Error) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *socialRepository) Like(ctx context.Context, userID, artworkID uint) (bool, error) {
	like := &models.Like{UserID: userID, ArtworkID: artworkID}
	return insertIgnoringDuplicate(r.db.WithContext(ctx), like, "user_id", "artwork_id")
}

func (r *socialRepository) Unlike(ctx context.Context, userID, artworkID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND artwork_id = ?", userID, artworkID).
		Delete(&models.Like{})
	return res.RowsAffected > 0, res.Error
}

func (r *socialRepository) HasLiked(ctx context.Context, userID, artworkID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND artwork_id = ?", userID, artworkID).
		Count(&count).Error
	return count > 0, err
}

func (r *socialRepository) LikesByUser(ctx context.Context, userID uint) ([]models.Like, error) {
	likes := []models.Like{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Artwork").
		Preload("Artwork.User", publicUser).
		Preload("Artwork.Tags").
		Order("created_at DESC").Order("id DESC").
		Find(&likes).Error
	return likes, err
}

func (r *socialRepository) Follow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	follow := &models.Follow{UserOneID: followerID, UserTwoID: followeeID}
	return insertIgnoringDuplicate(r.db.WithContext(ctx), follow, "user_one_id", "user_two_id")
}

func (r *socialRepository) Unfollow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_one_id = ? AND user_two_id = ?", followerID, followeeID).
		Delete(&models.Follow{})
	return res.RowsAffected > 0, res.Error
}

func (r *socialRepository) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_one_id = ? AND user_two_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, err
}

// Followers returns the users following userID.
func (r *socialRepository) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	var follows []models.Follow
	err := r.db.WithContext(ctx).
		Where("user_two_id = ?", userID).
		Preload("UserOne", publicUser).
		Preload("UserOne.Artworks", newestFirst).
		Order("created_at DESC").Order("id DESC").
		Find(&follows).Error
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(follows))
	for _, f := range follows {
		if f.UserOne != nil {
			users = append(users, *f.UserOne)
		}
	}
	return users, nil
}

// Following returns the users userID follows.
func (r *socialRepository) Following(ctx context.Context, userID uint) ([]models.User, error) {
	var follows []models.Follow
	err := r.db.WithContext(ctx).
		Where("user_one_id = ?", userID).
		Preload("UserTwo", publicUser).
		Preload("UserTwo.Artworks", newestFirst).
		Order("created_at DESC").Order("id DESC").
		Find(&follows).Error
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(follows))
	for _, f := range follows {
		if f.UserTwo != nil {
			users = append(users, *f.UserTwo)
		}
	}
	return users, nil
}
