package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ArtworkListing is a read-only row of the artwork_listings view: one
// artwork with its owner name, tag names and comment count.
type ArtworkListing struct {
	ID            uint      `gorm:"column:id" json:"id"`
	Title         string    `gorm:"column:title" json:"title"`
	Description   string    `gorm:"column:description" json:"description"`
	Tags          TagList   `gorm:"column:tags" json:"tags"`
	ThumbnailURL  string    `gorm:"column:thumbnail_url" json:"thumbnailUrl"`
	ImageURL      string    `gorm:"column:image_url" json:"imageUrl"`
	NSFW          bool      `gorm:"column:nsfw" json:"nsfw"`
	UserID        uint      `gorm:"column:user_id" json:"userId"`
	Username      string    `gorm:"column:username" json:"username"`
	TotalComments int64     `gorm:"column:total_comments" json:"totalComments"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"createdAt"`
}

// TableName binds ArtworkListing to the view.
func (ArtworkListing) TableName() string {
	return "artwork_listings"
}

// TagList is a comma-joined tag aggregate decoded into sorted names.
type TagList []string

// Scan implements sql.Scanner. NULL and empty aggregates decode to an empty list.
func (t *TagList) Scan(value any) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*t = TagList{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported tag aggregate type %T", value)
	}

	out := TagList{}
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	*t = out
	return nil
}

// Value implements driver.Valuer.
func (t TagList) Value() (driver.Value, error) {
	return strings.Join(t, ","), nil
}

// MarshalJSON always emits an array.
func (t TagList) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}
