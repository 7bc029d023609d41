package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// GetGallery fetches one gallery page and merges it into the gallery cache.
// The result holds every artwork accumulated so far for this sort order.
func (c *Client) GetGallery(ctx context.Context, args GalleryArgs) (*GalleryPage, error) {
	if args.SortBy == "" {
		args.SortBy = DefaultSort
	}
	page := max(args.Page, 0)
	query := pageQuery(page, GalleryPageSize)
	query.Set("sort_by", args.SortBy)

	var resp GalleryPage
	if err := c.get(ctx, "/artwork/gallery", query, &resp); err != nil {
		return nil, err
	}

	items, hasMore, _ := c.artworkPages.merge(EndpointGallery, args.SortBy, page, resp.Artworks, resp.HasMore, 0)
	return &GalleryPage{Artworks: items, HasMore: hasMore}, nil
}

// Search fetches one page of artworks matching args.Term and merges it into
// the search cache.
func (c *Client) Search(ctx context.Context, args SearchArgs) (*SearchPage, error) {
	if args.Term == "" {
		return nil, ErrParamRequired
	}
	page := max(args.Page, 0)
	query := pageQuery(page, GalleryPageSize)
	query.Set("term", args.Term)

	var resp SearchPage
	if err := c.get(ctx, "/artwork/search", query, &resp); err != nil {
		return nil, err
	}

	items, hasMore, total := c.artworkPages.merge(EndpointSearch, args.Term, page, resp.Artworks, resp.HasMore, resp.TotalCount)
	return &SearchPage{Artworks: items, HasMore: hasMore, TotalCount: total}, nil
}

// SearchArtists fetches one page of artists whose display name matches
// args.Term and merges it into the artist cache.
func (c *Client) SearchArtists(ctx context.Context, args SearchArgs) (*ArtistPage, error) {
	if args.Term == "" {
		return nil, ErrParamRequired
	}
	page := max(args.Page, 0)
	query := pageQuery(page, ArtistPageSize)
	query.Set("term", args.Term)

	var resp ArtistPage
	if err := c.get(ctx, "/user/search", query, &resp); err != nil {
		return nil, err
	}

	items, hasMore, total := c.artistPages.merge(EndpointArtists, args.Term, page, resp.Artists, resp.HasMore, resp.TotalCount)
	return &ArtistPage{Artists: items, HasMore: hasMore, TotalCount: total}, nil
}

// CachedGallery returns the accumulated gallery without a request.
func (c *Client) CachedGallery() (*GalleryPage, bool) {
	items, hasMore, ok := c.artworkPages.get(EndpointGallery)
	if !ok {
		return nil, false
	}
	return &GalleryPage{Artworks: items, HasMore: hasMore}, true
}

func (c *Client) GetArtwork(ctx context.Context, id uint) (*Artwork, error) {
	var out Artwork
	if err := c.get(ctx, fmt.Sprintf("/artwork/art/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetArtworkComments(ctx context.Context, id uint) ([]Comment, error) {
	var out struct {
		Comments []Comment `json:"comments"`
	}
	if err := c.get(ctx, fmt.Sprintf("/artwork/art/%d/comments", id), nil, &out); err != nil {
		return nil, err
	}
	return out.Comments, nil
}

// GetArtworkLike reports whether the signed-in user likes artwork id.
func (c *Client) GetArtworkLike(ctx context.Context, id uint) (bool, error) {
	var out struct {
		Liked bool `json:"liked"`
	}
	if err := c.get(ctx, fmt.Sprintf("/artwork/art/%d/like", id), nil, &out); err != nil {
		return false, err
	}
	return out.Liked, nil
}

// GetUserInfo returns the signed-in user's profile.
func (c *Client) GetUserInfo(ctx context.Context) (*User, error) {
	var out User
	if err := c.get(ctx, "/user/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetArtist(ctx context.Context, id uint) (*Artist, error) {
	var out Artist
	if err := c.get(ctx, fmt.Sprintf("/user/artist/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetArtistGallery(ctx context.Context, id uint) (*ArtistGallery, error) {
	var out ArtistGallery
	if err := c.get(ctx, fmt.Sprintf("/user/artist/%d/gallery", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetArtistLikes(ctx context.Context, id uint) ([]Like, error) {
	var out struct {
		Likes []Like `json:"likes"`
	}
	if err := c.get(ctx, fmt.Sprintf("/user/artist/%d/likes", id), nil, &out); err != nil {
		return nil, err
	}
	return out.Likes, nil
}

func (c *Client) GetArtistFollowers(ctx context.Context, id uint) ([]User, error) {
	var out struct {
		Followers []User `json:"followers"`
	}
	if err := c.get(ctx, fmt.Sprintf("/user/artist/%d/followers", id), nil, &out); err != nil {
		return nil, err
	}
	return out.Followers, nil
}

func (c *Client) GetArtistFollowing(ctx context.Context, id uint) ([]User, error) {
	var out struct {
		Following []User `json:"following"`
	}
	if err := c.get(ctx, fmt.Sprintf("/user/artist/%d/following", id), nil, &out); err != nil {
		return nil, err
	}
	return out.Following, nil
}

// GetFollowStatus reports whether the signed-in user follows artist id.
func (c *Client) GetFollowStatus(ctx context.Context, id uint) (bool, error) {
	var out struct {
		Following bool `json:"following"`
	}
	if err := c.get(ctx, fmt.Sprintf("/user/artist/%d/follow", id), nil, &out); err != nil {
		return false, err
	}
	return out.Following, nil
}

// SignIn exchanges credentials for a session and keeps its token for later
// requests.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return c.session(ctx, "/user/sign-in", map[string]string{
		"email":    email,
		"password": password,
	})
}

// SignUp registers an account and keeps the returned token.
func (c *Client) SignUp(ctx context.Context, displayName, email, password string) (*Session, error) {
	return c.session(ctx, "/user/sign-up", map[string]string{
		"displayName": displayName,
		"email":       email,
		"password":    password,
	})
}

func (c *Client) session(ctx context.Context, path string, body map[string]string) (*Session, error) {
	var out Session
	if err := c.do(ctx, http.MethodPost, path, url.Values{}, body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}
