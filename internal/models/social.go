package models

import "time"

// Like records that a user likes an artwork. At most one per pair.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_artwork" json:"userId"`
	ArtworkID uint      `gorm:"not null;uniqueIndex:idx_likes_user_artwork;index" json:"artworkId"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Artwork   *Artwork  `gorm:"foreignKey:ArtworkID;constraint:OnDelete:CASCADE" json:"artwork,omitempty"`
}

// Follow records that UserOne (follower) follows UserTwo (followee).
type Follow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserOneID uint      `gorm:"column:user_one_id;not null;uniqueIndex:idx_follows_pair" json:"userOneId"`
	UserTwoID uint      `gorm:"column:user_two_id;not null;uniqueIndex:idx_follows_pair;index" json:"userTwoId"`
	UserOne   *User     `gorm:"foreignKey:UserOneID;constraint:OnDelete:CASCADE" json:"userOne,omitempty"`
	UserTwo   *User     `gorm:"foreignKey:UserTwoID;constraint:OnDelete:CASCADE" json:"userTwo,omitempty"`
}
