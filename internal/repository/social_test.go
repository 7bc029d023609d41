package repository

import (
	"context"
	"testing"

	"alley/internal/models"
	"alley/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocialRepository_Likes(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSocialRepository(db)
	ctx := context.Background()

	artist := testutil.CreateUser(t, db, "Artist", "artist@example.com")
	fan := testutil.CreateUser(t, db, "Fan", "fan@example.com")
	art := testutil.CreateArtwork(t, db, artist.ID, "piece", "ink")

	created, err := repo.Like(ctx, fan.ID, art.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Like(ctx, fan.ID, art.ID)
	require.NoError(t, err)
	assert.False(t, created, "second like is a duplicate")

	liked, err := repo.HasLiked(ctx, fan.ID, art.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	likes, err := repo.LikesByUser(ctx, fan.ID)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	require.NotNil(t, likes[0].Artwork)
	assert.Equal(t, "piece", likes[0].Artwork.Title)
	require.NotNil(t, likes[0].Artwork.User)
	assert.Equal(t, "Artist", likes[0].Artwork.User.DisplayName)
	require.Len(t, likes[0].Artwork.Tags, 1)

	removed, err := repo.Unlike(ctx, fan.ID, art.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Unlike(ctx, fan.ID, art.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	likes, err = repo.LikesByUser(ctx, fan.ID)
	require.NoError(t, err)
	assert.Empty(t, likes)
	assert.NotNil(t, likes)
}

func TestSocialRepository_Follows(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSocialRepository(db)
	ctx := context.Background()

	a := testutil.CreateUser(t, db, "A", "a@example.com")
	b := testutil.CreateUser(t, db, "B", "b@example.com")
	c := testutil.CreateUser(t, db, "C", "c@example.com")
	testutil.CreateArtwork(t, db, a.ID, "by-a")

	for _, follower := range []uint{a.ID, c.ID} {
		created, err := repo.Follow(ctx, follower, b.ID)
		require.NoError(t, err)
		assert.True(t, created)
	}
	created, err := repo.Follow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, created)

	following, err := repo.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, following)
	following, err = repo.IsFollowing(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, following, "follows are directed")

	followers, err := repo.Followers(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	var sawArtworks bool
	for _, u := range followers {
		assert.Empty(t, u.Password)
		if u.ID == a.ID {
			sawArtworks = len(u.Artworks) == 1
		}
	}
	assert.True(t, sawArtworks, "follower rows carry their artworks")

	followed, err := repo.Following(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, followed, 1)
	assert.Equal(t, b.ID, followed[0].ID)

	removed, err := repo.Unfollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = repo.Unfollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	var n int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestCommentRepository_CreateAndList(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "Talker", "talker@example.com")
	art := testutil.CreateArtwork(t, db, u.ID, "talked-about")

	first := &models.Comment{Text: "first", ArtworkID: art.ID, UserID: u.ID}
	require.NoError(t, repo.Create(ctx, first))
	require.NotNil(t, first.User)
	assert.Equal(t, "Talker", first.User.DisplayName)
	assert.Empty(t, first.User.Password)

	require.NoError(t, repo.Create(ctx, &models.Comment{Text: "second", ArtworkID: art.ID, UserID: u.ID}))

	comments, err := repo.ListByArtwork(ctx, art.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)

	comments, err = repo.ListByArtwork(ctx, 777)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
