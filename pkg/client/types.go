package client

import "time"

// User is a public account record.
type User struct {
	ID          uint      `json:"id"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Artist is a user with follow counts.
type Artist struct {
	User
	TotalFollowers int64 `json:"totalFollowers"`
	TotalFollowing int64 `json:"totalFollowing"`
}

// Tag labels an artwork.
type Tag struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ArtworkSummary is one row of a gallery or search page.
type ArtworkSummary struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Tags          []string  `json:"tags"`
	ThumbnailURL  string    `json:"thumbnailUrl"`
	ImageURL      string    `json:"imageUrl"`
	NSFW          bool      `json:"nsfw"`
	UserID        uint      `json:"userId"`
	Username      string    `json:"username"`
	TotalComments int64     `json:"totalComments"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Artwork is a single artwork with its owner, tags and like count.
type Artwork struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	ImageURL     string    `json:"imageUrl"`
	NSFW         bool      `json:"nsfw"`
	UserID       uint      `json:"userId"`
	User         *User     `json:"user,omitempty"`
	Tags         []Tag     `json:"tags"`
	TotalLikes   int64     `json:"totalLikes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Comment is a note on an artwork.
type Comment struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	ArtworkID uint      `json:"artworkId"`
	UserID    uint      `json:"userId"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Like is a user's like with the liked artwork.
type Like struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"userId"`
	ArtworkID uint      `json:"artworkId"`
	Artwork   *Artwork  `json:"artwork,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is returned by sign-in and sign-up.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// GalleryPage is the merged state of the gallery after a fetch.
type GalleryPage struct {
	Artworks []ArtworkSummary `json:"artworks"`
	HasMore  bool             `json:"hasMore"`
}

// SearchPage is the merged state of an artwork search.
type SearchPage struct {
	Artworks   []ArtworkSummary `json:"artworks"`
	HasMore    bool             `json:"hasMore"`
	TotalCount int64            `json:"totalCount"`
}

// ArtistPage is the merged state of an artist search.
type ArtistPage struct {
	Artists    []User `json:"artists"`
	HasMore    bool   `json:"hasMore"`
	TotalCount int64  `json:"totalCount"`
}

// ArtistGallery lists every artwork of one artist.
type ArtistGallery struct {
	Artworks   []ArtworkSummary `json:"artworks"`
	TotalCount int64            `json:"totalCount"`
}

// DefaultSort is sent when GalleryArgs.SortBy is empty.
const DefaultSort = "latest"

// GalleryArgs selects a gallery page. Page counts from zero.
type GalleryArgs struct {
	SortBy string
	Page   int
}

// SearchArgs selects a search page. Page counts from zero.
type SearchArgs struct {
	Term string
	Page int
}
