package service

import (
	"context"

	"alley/internal/models"
	"alley/internal/repository"
)

// userRepoStub is a stub for repository.UserRepository. Unset funcs return
// zero values.
type userRepoStub struct {
	existsFn         func(context.Context, string) (bool, error)
	loginFn          func(context.Context, string, string) (*models.User, error)
	checkPasswordFn  func(context.Context, uint, string) error
	createFn         func(context.Context, *models.User) error
	getByIDFn        func(context.Context, uint) (*models.User, error)
	updateProfileFn  func(context.Context, uint, repository.ProfileUpdate) (*models.User, error)
	updateAvatarFn   func(context.Context, uint, string) (*models.User, error)
	updatePasswordFn func(context.Context, uint, string) error
	deleteFn         func(context.Context, uint) error
	searchFn         func(context.Context, string, int, int) ([]models.User, int64, error)
	followCountsFn   func(context.Context, uint) (int64, int64, error)
}

func (s *userRepoStub) Exists(ctx context.Context, email string) (bool, error) {
	if s.existsFn == nil {
		return false, nil
	}
	return s.existsFn(ctx, email)
}
func (s *userRepoStub) Login(ctx context.Context, email, password string) (*models.User, error) {
	return s.loginFn(ctx, email, password)
}
func (s *userRepoStub) CheckPassword(ctx context.Context, id uint, password string) error {
	if s.checkPasswordFn == nil {
		return nil
	}
	return s.checkPasswordFn(ctx, id, password)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	if s.createFn == nil {
		user.ID = 1
		return nil
	}
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if s.getByIDFn == nil {
		return &models.User{ID: id}, nil
	}
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) UpdateProfile(ctx context.Context, id uint, upd repository.ProfileUpdate) (*models.User, error) {
	return s.updateProfileFn(ctx, id, upd)
}
func (s *userRepoStub) UpdateAvatar(ctx context.Context, id uint, url string) (*models.User, error) {
	return s.updateAvatarFn(ctx, id, url)
}
func (s *userRepoStub) UpdatePassword(ctx context.Context, id uint, password string) error {
	if s.updatePasswordFn == nil {
		return nil
	}
	return s.updatePasswordFn(ctx, id, password)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) Search(ctx context.Context, term string, limit, offset int) ([]models.User, int64, error) {
	return s.searchFn(ctx, term, limit, offset)
}
func (s *userRepoStub) FollowCounts(ctx context.Context, id uint) (int64, int64, error) {
	if s.followCountsFn == nil {
		return 0, 0, nil
	}
	return s.followCountsFn(ctx, id)
}

// artworkRepoStub is a stub for repository.ArtworkRepository.
type artworkRepoStub struct {
	listFn       func(context.Context, repository.ListingQuery) ([]models.ArtworkListing, int64, error)
	getByIDFn    func(context.Context, uint) (*models.Artwork, error)
	createFn     func(context.Context, *models.Artwork, []string) error
	updateFn     func(context.Context, uint, repository.ArtworkUpdate) (*models.Artwork, error)
	deleteFn     func(context.Context, uint) error
	countLikesFn func(context.Context, uint) (int64, error)
}

func (s *artworkRepoStub) List(ctx context.Context, q repository.ListingQuery) ([]models.ArtworkListing, int64, error) {
	return s.listFn(ctx, q)
}
func (s *artworkRepoStub) GetByID(ctx context.Context, id uint) (*models.Artwork, error) {
	return s.getByIDFn(ctx, id)
}
func (s *artworkRepoStub) Create(ctx context.Context, artwork *models.Artwork, tags []string) error {
	return s.createFn(ctx, artwork, tags)
}
func (s *artworkRepoStub) Update(ctx context.Context, id uint, upd repository.ArtworkUpdate) (*models.Artwork, error) {
	return s.updateFn(ctx, id, upd)
}
func (s *artworkRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *artworkRepoStub) CountLikes(ctx context.Context, id uint) (int64, error) {
	if s.countLikesFn == nil {
		return 0, nil
	}
	return s.countLikesFn(ctx, id)
}

// ownedBy returns a getByIDFn for an artwork owned by ownerID.
func ownedBy(ownerID uint) func(context.Context, uint) (*models.Artwork, error) {
	return func(_ context.Context, id uint) (*models.Artwork, error) {
		return &models.Artwork{ID: id, UserID: ownerID, Tags: []models.Tag{}}, nil
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	listFn   func(context.Context, uint) ([]models.Comment, error)
	createFn func(context.Context, *models.Comment) error
}

func (s *commentRepoStub) ListByArtwork(ctx context.Context, artworkID uint) ([]models.Comment, error) {
	return s.listFn(ctx, artworkID)
}
func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}

// socialRepoStub is a stub for repository.SocialRepository.
type socialRepoStub struct {
	likeFn        func(context.Context, uint, uint) (bool, error)
	unlikeFn      func(context.Context, uint, uint) (bool, error)
	hasLikedFn    func(context.Context, uint, uint) (bool, error)
	likesByUserFn func(context.Context, uint) ([]models.Like, error)
	followFn      func(context.Context, uint, uint) (bool, error)
	unfollowFn    func(context.Context, uint, uint) (bool, error)
	isFollowingFn func(context.Context, uint, uint) (bool, error)
	followersFn   func(context.Context, uint) ([]models.User, error)
	followingFn   func(context.Context, uint) ([]models.User, error)
}

func (s *socialRepoStub) Like(ctx context.Context, u, a uint) (bool, error) {
	return s.likeFn(ctx, u, a)
}
func (s *socialRepoStub) Unlike(ctx context.Context, u, a uint) (bool, error) {
	return s.unlikeFn(ctx, u, a)
}
func (s *socialRepoStub) HasLiked(ctx context.Context, u, a uint) (bool, error) {
	return s.hasLikedFn(ctx, u, a)
}
func (s *socialRepoStub) LikesByUser(ctx context.Context, u uint) ([]models.Like, error) {
	return s.likesByUserFn(ctx, u)
}
func (s *socialRepoStub) Follow(ctx context.Context, a, b uint) (bool, error) {
	return s.followFn(ctx, a, b)
}
func (s *socialRepoStub) Unfollow(ctx context.Context, a, b uint) (bool, error) {
	return s.unfollowFn(ctx, a, b)
}
func (s *socialRepoStub) IsFollowing(ctx context.Context, a, b uint) (bool, error) {
	return s.isFollowingFn(ctx, a, b)
}
func (s *socialRepoStub) Followers(ctx context.Context, u uint) ([]models.User, error) {
	return s.followersFn(ctx, u)
}
func (s *socialRepoStub) Following(ctx context.Context, u uint) ([]models.User, error) {
	return s.followingFn(ctx, u)
}
