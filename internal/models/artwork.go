package models

import "time"

// Artwork limits.
const (
	MaxDescriptionLength = 1000
	MaxTagLength         = 20
	MaxTitleLength       = 255
)

// Artwork is an uploaded piece owned by a user.
type Artwork struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"size:1000" json:"description"`
	ThumbnailURL string    `gorm:"column:thumbnail_url;size:512;not null" json:"thumbnailUrl"`
	ImageURL     string    `gorm:"column:image_url;size:512;not null" json:"imageUrl"`
	NSFW         bool      `gorm:"column:nsfw;not null;default:false" json:"nsfw"`
	UserID       uint      `gorm:"not null;index" json:"userId"`
	User         *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Tags         []Tag     `gorm:"many2many:artwork_tags;constraint:OnDelete:CASCADE" json:"tags"`
	Comments     []Comment `gorm:"foreignKey:ArtworkID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

// ArtworkDetail is a single artwork with its like count.
type ArtworkDetail struct {
	Artwork
	TotalLikes int64 `json:"totalLikes"`
}

// Tag labels artworks. Names are unique.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Name      string    `gorm:"size:20;uniqueIndex;not null" json:"name"`
}

// Comment is a note left by a user on an artwork.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Text      string    `gorm:"size:1000;not null" json:"text"`
	ArtworkID uint      `gorm:"not null;index" json:"artworkId"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}
