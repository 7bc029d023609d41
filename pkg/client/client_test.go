package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	assert.NoError(t, json.NewEncoder(w).Encode(v))
}

func summaries(ids ...uint) []ArtworkSummary {
	out := make([]ArtworkSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, ArtworkSummary{ID: id, Title: "art " + strconv.Itoa(int(id)), Tags: []string{}})
	}
	return out
}

func summaryIDs(items []ArtworkSummary) []uint {
	out := make([]uint, 0, len(items))
	for _, a := range items {
		out = append(out, a.ID)
	}
	return out
}

// galleryServer serves two gallery pages per sort order: ids {base+1, base+2}
// at offset 0 and {base+3} at offset 60, where base depends on the sort.
func galleryServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/artwork/gallery", r.URL.Path)
		assert.Equal(t, "60", r.URL.Query().Get("limit"))
		assert.NotEmpty(t, r.URL.Query().Get("sort_by"))

		base := uint(0)
		if r.URL.Query().Get("sort_by") == "featured" {
			base = 100
		}
		switch r.URL.Query().Get("offset") {
		case "0":
			writeJSON(t, w, http.StatusOK, GalleryPage{Artworks: summaries(base+1, base+2), HasMore: true})
		case "60":
			writeJSON(t, w, http.StatusOK, GalleryPage{Artworks: summaries(base + 3), HasMore: false})
		default:
			writeJSON(t, w, http.StatusOK, GalleryPage{Artworks: []ArtworkSummary{}, HasMore: false})
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestGetGallery_AppendsLaterPages(t *testing.T) {
	srv, hits := galleryServer(t)
	c := New(Config{BaseURL: srv.URL})
	ctx := context.Background()

	page, err := c.GetGallery(ctx, GalleryArgs{SortBy: "latest"})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, summaryIDs(page.Artworks))
	assert.True(t, page.HasMore)

	page, err = c.GetGallery(ctx, GalleryArgs{SortBy: "latest", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, summaryIDs(page.Artworks))
	assert.False(t, page.HasMore)

	cached, ok := c.CachedGallery()
	require.True(t, ok)
	assert.Equal(t, []uint{1, 2, 3}, summaryIDs(cached.Artworks))

	// Refetching the first page starts over.
	page, err = c.GetGallery(ctx, GalleryArgs{SortBy: "latest"})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, summaryIDs(page.Artworks))
	assert.True(t, page.HasMore)
	assert.Equal(t, int32(3), hits.Load())
}

func TestGetGallery_SortChangeReplaces(t *testing.T) {
	srv, _ := galleryServer(t)
	c := New(Config{BaseURL: srv.URL})
	ctx := context.Background()

	_, err := c.GetGallery(ctx, GalleryArgs{SortBy: "latest"})
	require.NoError(t, err)

	page, err := c.GetGallery(ctx, GalleryArgs{SortBy: "featured", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, []uint{103}, summaryIDs(page.Artworks))
	assert.False(t, page.HasMore)
}

func TestGetGallery_ReturnedSliceIsACopy(t *testing.T) {
	srv, _ := galleryServer(t)
	c := New(Config{BaseURL: srv.URL})

	page, err := c.GetGallery(context.Background(), GalleryArgs{})
	require.NoError(t, err)
	page.Artworks[0].ID = 999

	cached, ok := c.CachedGallery()
	require.True(t, ok)
	assert.Equal(t, uint(1), cached.Artworks[0].ID)
}

func TestSearch_RequiresTerm(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(t, w, http.StatusOK, ArtistPage{Artists: []User{}})
	}))
	t.Cleanup(srv.Close)
	c := New(Config{BaseURL: srv.URL})

	_, err := c.Search(context.Background(), SearchArgs{})
	assert.ErrorIs(t, err, ErrParamRequired)
	assert.EqualError(t, err, "param is required")

	_, err = c.SearchArtists(context.Background(), SearchArgs{Page: 2})
	assert.ErrorIs(t, err, ErrParamRequired)
	assert.Zero(t, hits.Load())

	// Blank but present terms go to the server like any other term.
	_, err = c.SearchArtists(context.Background(), SearchArgs{Term: "   "})
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestGetGallery_DefaultsToLatest(t *testing.T) {
	var sortBy string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sortBy = r.URL.Query().Get("sort_by")
		writeJSON(t, w, http.StatusOK, GalleryPage{Artworks: summaries(1)})
	}))
	t.Cleanup(srv.Close)
	c := New(Config{BaseURL: srv.URL})

	_, err := c.GetGallery(context.Background(), GalleryArgs{})
	require.NoError(t, err)
	assert.Equal(t, DefaultSort, sortBy)
}

func TestSearch_TermChangeReplaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/artwork/search", r.URL.Path)
		term := r.URL.Query().Get("term")
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		base := uint(10)
		if term == "boats" {
			base = 20
		}
		writeJSON(t, w, http.StatusOK, SearchPage{
			Artworks:   summaries(base + uint(offset/60)),
			HasMore:    offset == 0,
			TotalCount: 2,
		})
	}))
	t.Cleanup(srv.Close)
	c := New(Config{BaseURL: srv.URL})
	ctx := context.Background()

	page, err := c.Search(ctx, SearchArgs{Term: "sea"})
	require.NoError(t, err)
	assert.Equal(t, []uint{10}, summaryIDs(page.Artworks))

	page, err = c.Search(ctx, SearchArgs{Term: "sea", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, []uint{10, 11}, summaryIDs(page.Artworks))
	assert.False(t, page.HasMore)
	assert.Equal(t, int64(2), page.TotalCount)

	page, err = c.Search(ctx, SearchArgs{Term: "boats", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, []uint{21}, summaryIDs(page.Artworks))
}

func TestSearchArtists_PagesOfFour(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/search", r.URL.Path)
		assert.Equal(t, "4", r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		var artists []User
		for i := offset; i < min(offset+4, 6); i++ {
			artists = append(artists, User{ID: uint(i + 1), DisplayName: "Painter " + strconv.Itoa(i)})
		}
		writeJSON(t, w, http.StatusOK, ArtistPage{Artists: artists, HasMore: len(artists) == 4, TotalCount: 6})
	}))
	t.Cleanup(srv.Close)
	c := New(Config{BaseURL: srv.URL})
	ctx := context.Background()

	page, err := c.SearchArtists(ctx, SearchArgs{Term: "paint"})
	require.NoError(t, err)
	assert.Len(t, page.Artists, 4)
	assert.True(t, page.HasMore)

	page, err = c.SearchArtists(ctx, SearchArgs{Term: "paint", Page: 1})
	require.NoError(t, err)
	assert.Len(t, page.Artists, 6)
	assert.False(t, page.HasMore)
	assert.Equal(t, int64(6), page.TotalCount)
}

func TestAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/artwork/art/1/like":
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"error": "Authentication failed."})
		case "/artwork/art/2":
			writeJSON(t, w, http.StatusNotFound, map[string]string{"message": "Artwork not found"})
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>upstream</html>"))
		}
	}))
	t.Cleanup(srv.Close)
	c := New(Config{BaseURL: srv.URL + "/"})
	ctx := context.Background()

	var apiErr *APIError
	_, err := c.GetArtworkLike(ctx, 1)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Authentication failed.", apiErr.Message)

	_, err = c.GetArtwork(ctx, 2)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Artwork not found", apiErr.Message)

	_, err = c.GetArtist(ctx, 3)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestSignInKeepsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/sign-in":
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if body["password"] != "password123" {
				writeJSON(t, w, http.StatusBadRequest, map[string]string{"message": "Invalid combination of email and password"})
				return
			}
			writeJSON(t, w, http.StatusOK, Session{User: User{ID: 5, Email: body["email"]}, Token: "tok-5"})
		case "/user/profile":
			if r.Header.Get("Authorization") != "Bearer tok-5" {
				writeJSON(t, w, http.StatusUnauthorized, map[string]string{"error": "Authentication failed."})
				return
			}
			writeJSON(t, w, http.StatusOK, User{ID: 5, DisplayName: "Ada"})
		case "/user/artist/9/follow":
			assert.Equal(t, "Bearer tok-5", r.Header.Get("Authorization"))
			writeJSON(t, w, http.StatusOK, map[string]bool{"following": true})
		}
	}))
	t.Cleanup(srv.Close)
	c := New(Config{BaseURL: srv.URL})
	ctx := context.Background()

	_, err := c.GetUserInfo(ctx)
	require.Error(t, err)

	_, err = c.SignIn(ctx, "ada@example.com", "nope")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Invalid combination of email and password", apiErr.Message)
	assert.Empty(t, c.Token())

	session, err := c.SignIn(ctx, "ada@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "tok-5", session.Token)
	assert.Equal(t, "tok-5", c.Token())

	user, err := c.GetUserInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.DisplayName)

	following, err := c.GetFollowStatus(ctx, 9)
	require.NoError(t, err)
	assert.True(t, following)
}

func TestPageCache_ConcurrentMerges(t *testing.T) {
	cache := newPageCache[int]()
	cache.merge("numbers", "", 0, []int{0}, true, 0)

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cache.merge("numbers", "", i, []int{i}, true, 0)
		}(i)
	}
	wg.Wait()

	items, hasMore, ok := cache.get("numbers")
	require.True(t, ok)
	assert.Len(t, items, 51)
	assert.True(t, hasMore)

	cache.reset()
	_, _, ok = cache.get("numbers")
	assert.False(t, ok)
}
