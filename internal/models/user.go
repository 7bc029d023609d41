// Package models defines the persisted entities and API error types.
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// PasswordCost is the bcrypt cost used when hashing passwords. Tests lower it.
var PasswordCost = bcrypt.DefaultCost

// User is a registered account. Password holds the bcrypt hash and is never
// serialized.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	DisplayName string    `gorm:"size:100;not null" json:"displayName"`
	Email       string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"size:255;not null" json:"-"`
	AvatarURL   string    `gorm:"column:avatar_url;size:512" json:"avatarUrl,omitempty"`
	Description string    `gorm:"type:text" json:"description"`
	Artworks    []Artwork `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"artworks,omitempty"`
}

// BeforeSave hashes a plaintext password. Values that already are bcrypt
// hashes pass through untouched so unrelated updates never double-hash.
func (u *User) BeforeSave(_ *gorm.DB) error {
	if u.Password == "" || IsPasswordHash(u.Password) {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), PasswordCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// VerifyPassword compares plain against the stored hash.
func (u *User) VerifyPassword(plain string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// IsPasswordHash reports whether s parses as a bcrypt hash.
func IsPasswordHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}

// ArtistProfile is a public user record with follow counts.
type ArtistProfile struct {
	User
	Followers int64 `json:"totalFollowers"`
	Following int64 `json:"totalFollowing"`
}
