package repository

import (
	"context"
	"errors"

	"alley/internal/models"

	"gorm.io/gorm"
)

// SortMode selects the gallery ordering.
type SortMode string

const (
	SortLatest   SortMode = "latest"
	SortTrending SortMode = "trending"
	SortFeatured SortMode = "featured"
)

// ParseSort validates a sort_by value. There is no default mode.
func ParseSort(raw string) (SortMode, bool) {
	switch SortMode(raw) {
	case SortLatest, SortTrending, SortFeatured:
		return SortMode(raw), true
	}
	return "", false
}

// orderClause returns the ORDER BY list for mode. Every mode ends on id so
// pages never overlap or skip rows.
func (m SortMode) orderClause() string {
	switch m {
	case SortTrending:
		return "title DESC, id DESC"
	case SortFeatured:
		return "title ASC, id ASC"
	default:
		return "created_at DESC, id DESC"
	}
}

// ListingQuery filters and pages the artwork listing. Zero Limit means no limit.
type ListingQuery struct {
	Sort   SortMode
	Term   string
	UserID uint
	Limit  int
	Offset int
}

// ArtworkUpdate carries owner edits. Tags, when non-nil, replaces the whole
// tag set; an empty slice clears it.
type ArtworkUpdate struct {
	Title       *string
	Description *string
	Tags        *[]string
}

// ArtworkRepository defines the interface for artwork data access
type ArtworkRepository interface {
	List(ctx context.Context, q ListingQuery) ([]models.ArtworkListing, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Artwork, error)
	Create(ctx context.Context, artwork *models.Artwork, tagNames []string) error
	Update(ctx context.Context, id uint, upd ArtworkUpdate) (*models.Artwork, error)
	Delete(ctx context.Context, id uint) error
	CountLikes(ctx context.Context, id uint) (int64, error)
}

type artworkRepository struct {
	db *gorm.DB
}

// NewArtworkRepository creates a new artwork repository.
func NewArtworkRepository(db *gorm.DB) ArtworkRepository {
	return &artworkRepository{db: db}
}

// List reads one page of the artwork_listings view and the total number of
// rows matching the filters.
func (r *artworkRepository) List(ctx context.Context, q ListingQuery) ([]models.ArtworkListing, int64, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.ArtworkListing{})

	if q.UserID != 0 {
		query = query.Where("user_id = ?", q.UserID)
	}
	if q.Term != "" {
		pattern := likePattern(q.Term)
		tagged := db.Table("artwork_tags atg").
			Select("atg.artwork_id").
			Joins("JOIN tags t ON t.id = atg.tag_id").
			Where("LOWER(t.name) LIKE ?"+likeEscape, pattern)
		query = query.Where("(LOWER(title) LIKE ?"+likeEscape+" OR id IN (?))", pattern, tagged)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := query.Order(q.Sort.orderClause())
	if q.Limit > 0 {
		page = page.Limit(q.Limit)
	}
	if q.Offset > 0 {
		page = page.Offset(q.Offset)
	}

	rows := []models.ArtworkListing{}
	if err := page.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *artworkRepository) GetByID(ctx context.Context, id uint) (*models.Artwork, error) {
	return loadArtwork(r.db.WithContext(ctx), id)
}

func loadArtwork(db *gorm.DB, id uint) (*models.Artwork, error) {
	var artwork models.Artwork
	err := db.Preload("User", publicUser).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name ASC") }).
		First(&artwork, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrArtworkNotFound
	}
	if err != nil {
		return nil, err
	}
	if artwork.Tags == nil {
		artwork.Tags = []models.Tag{}
	}
	return &artwork, nil
}

func (r *artworkRepository) Create(ctx context.Context, artwork *models.Artwork, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := findOrCreateTags(tx, tagNames)
		if err != nil {
			return err
		}
		artwork.Tags = tags
		return tx.Omit("Tags.*").Create(artwork).Error
	})
}

func (r *artworkRepository) Update(ctx context.Context, id uint, upd ArtworkUpdate) (*models.Artwork, error) {
	var updated *models.Artwork
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		artwork := &models.Artwork{ID: id}

		columns := map[string]any{}
		if upd.Title != nil {
			columns["title"] = *upd.Title
		}
		if upd.Description != nil {
			columns["description"] = *upd.Description
		}
		if len(columns) > 0 {
			res := tx.Model(artwork).Updates(columns)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrArtworkNotFound
			}
		}

		if upd.Tags != nil {
			tags, err := findOrCreateTags(tx, *upd.Tags)
			if err != nil {
				return err
			}
			assoc := tx.Model(artwork).Association("Tags")
			if len(tags) == 0 {
				err = assoc.Clear()
			} else {
				err = assoc.Replace(tags)
			}
			if err != nil {
				return err
			}
		}

		var err error
		updated, err = loadArtwork(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the artwork with its comments, likes and tag links.
func (r *artworkRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM artwork_tags WHERE artwork_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("artwork_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("artwork_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Artwork{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrArtworkNotFound
		}
		return nil
	})
}

func (r *artworkRepository) CountLikes(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).Where("artwork_id = ?", id).Count(&count).Error
	return count, err
}
