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

var (
	ErrInvalidSort = models.NewValidationError("Invalid sort_by")
	// ErrNotOwner is reported as not found so callers cannot probe other
	// users' artworks.
	ErrNotOwner = models.NewNotFoundError("You are not the user of this artwork!")
)

// ListingPage is one page of artwork listings.
type ListingPage struct {
	Artworks   []models.ArtworkListing `json:"artworks"`
	HasMore    bool                    `json:"hasMore"`
	TotalCount int64                   `json:"totalCount"`
}

func newListingPage(rows []models.ArtworkListing, total int64, limit int) *ListingPage {
	return &ListingPage{
		Artworks:   rows,
		HasMore:    limit > 0 && len(rows) == limit,
		TotalCount: total,
	}
}

type UploadArtworkInput struct {
	UserID      uint
	Title       string
	Description string
	Tags        []string
	File        ImageUpload
}

type UpdateArtworkInput struct {
	UserID      uint
	ArtworkID   uint
	Title       *string
	Description *string
	Tags        *[]string
}

type ArtworkService struct {
	artworkRepo repository.ArtworkRepository
	commentRepo repository.CommentRepository
	images      *ImageService
	cache       *cache.Store
}

// NewArtworkService wires the artwork use cases. store may be nil.
func NewArtworkService(
	artworkRepo repository.ArtworkRepository,
	commentRepo repository.CommentRepository,
	images *ImageService,
	store *cache.Store,
) *ArtworkService {
	return &ArtworkService{
		artworkRepo: artworkRepo,
		commentRepo: commentRepo,
		images:      images,
		cache:       store,
	}
}

// Gallery lists artworks in the requested order. The first page of each
// sort and limit is served through the cache.
func (s *ArtworkService) Gallery(ctx context.Context, sortBy string, limit, offset int) (*ListingPage, error) {
	sort, ok := repository.ParseSort(sortBy)
	if !ok {
		return nil, ErrInvalidSort
	}
	q := repository.ListingQuery{Sort: sort, Limit: limit, Offset: offset}

	fetch := func(page *ListingPage) error {
		rows, total, err := s.artworkRepo.List(ctx, q)
		if err != nil {
			return err
		}
		*page = *newListingPage(rows, total, limit)
		return nil
	}

	var page ListingPage
	if offset > 0 {
		if err := fetch(&page); err != nil {
			return nil, err
		}
		return &page, nil
	}
	err := s.cache.Aside(ctx, "gallery", cache.GalleryKey(string(sort), limit), &page, cache.GalleryTTL, func() error {
		return fetch(&page)
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Search matches term against titles and tag names. An empty term matches
// every artwork.
func (s *ArtworkService) Search(ctx context.Context, term string, limit, offset int) (*ListingPage, error) {
	rows, total, err := s.artworkRepo.List(ctx, repository.ListingQuery{
		Sort:   repository.SortLatest,
		Term:   strings.TrimSpace(term),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}
	return newListingPage(rows, total, limit), nil
}

// ArtistGallery lists every artwork owned by userID, newest first.
func (s *ArtworkService) ArtistGallery(ctx context.Context, userID uint) ([]models.ArtworkListing, int64, error) {
	return s.artworkRepo.List(ctx, repository.ListingQuery{Sort: repository.SortLatest, UserID: userID})
}

func (s *ArtworkService) GetArtwork(ctx context.Context, id uint) (*models.ArtworkDetail, error) {
	artwork, err := s.artworkRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	likes, err := s.artworkRepo.CountLikes(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.ArtworkDetail{Artwork: *artwork, TotalLikes: likes}, nil
}

// ownedArtwork loads id and checks that userID owns it.
func (s *ArtworkService) ownedArtwork(ctx context.Context, userID, id uint) (*models.Artwork, error) {
	artwork, err := s.artworkRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if artwork.UserID != userID {
		return nil, ErrNotOwner
	}
	return artwork, nil
}

func (s *ArtworkService) UpdateArtwork(ctx context.Context, in UpdateArtworkInput) (*models.Artwork, error) {
	if _, err := s.ownedArtwork(ctx, in.UserID, in.ArtworkID); err != nil {
		return nil, err
	}

	upd := repository.ArtworkUpdate{Title: in.Title, Description: in.Description}
	if in.Title != nil {
		if err := validation.ValidateTitle(*in.Title); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}
	if in.Description != nil {
		if err := validation.ValidateDescription(*in.Description); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}
	if in.Tags != nil {
		tags, err := validation.NormalizeTags(*in.Tags)
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		upd.Tags = &tags
	}

	artwork, err := s.artworkRepo.Update(ctx, in.ArtworkID, upd)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateGallery(ctx)
	return artwork, nil
}

// DeleteArtwork removes an owned artwork and then its stored images.
func (s *ArtworkService) DeleteArtwork(ctx context.Context, userID, id uint) error {
	artwork, err := s.ownedArtwork(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.artworkRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.InvalidateGallery(ctx)
	if s.images != nil {
		s.images.Discard(ctx, KeyFromURL(artwork.ThumbnailURL), KeyFromURL(artwork.ImageURL))
	}
	return nil
}

// UploadArtwork processes the image and records the artwork with its tags.
// Stored images are removed again if the row cannot be written.
func (s *ArtworkService) UploadArtwork(ctx context.Context, in UploadArtworkInput) (artwork *models.Artwork, err error) {
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		observability.ArtworkUploads.WithLabelValues(outcome).Inc()
	}()

	if err := validation.ValidateTitle(in.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateDescription(in.Description); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	tags, err := validation.NormalizeTags(in.Tags)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	in.File.UserID = in.UserID
	stored, err := s.images.ProcessArtwork(ctx, in.File)
	if err != nil {
		return nil, err
	}

	artwork = &models.Artwork{
		Title:        in.Title,
		Description:  in.Description,
		ThumbnailURL: stored.Thumbnail.URL,
		ImageURL:     stored.Full.URL,
		NSFW:         false,
		UserID:       in.UserID,
	}
	if err := s.artworkRepo.Create(ctx, artwork, tags); err != nil {
		s.images.Discard(ctx, stored.Keys()...)
		return nil, err
	}
	s.cache.InvalidateGallery(ctx)
	return s.artworkRepo.GetByID(ctx, artwork.ID)
}

func (s *ArtworkService) ListComments(ctx context.Context, artworkID uint) ([]models.Comment, error) {
	if _, err := s.artworkRepo.GetByID(ctx, artworkID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByArtwork(ctx, artworkID)
}

func (s *ArtworkService) AddComment(ctx context.Context, userID, artworkID uint, text string) (*models.Comment, error) {
	if _, err := s.artworkRepo.GetByID(ctx, artworkID); err != nil {
		return nil, err
	}
	if err := validation.ValidateComment(text); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	comment := &models.Comment{Text: strings.TrimSpace(text), ArtworkID: artworkID, UserID: userID}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	// Gallery rows carry comment counts.
	s.cache.InvalidateGallery(ctx)
	return comment, nil
}
