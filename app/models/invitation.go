package models

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var slugEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Invitation is one wedding invitation page owned by a user.
type Invitation struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	Slug         string         `gorm:"type:varchar(32);uniqueIndex" json:"slug"`
	Title        string         `gorm:"type:varchar(150)" json:"title" validate:"required,min=1,max=150"`
	GroomName    string         `gorm:"type:varchar(100)" json:"groom_name" validate:"required,max=100"`
	BrideName    string         `gorm:"type:varchar(100)" json:"bride_name" validate:"required,max=100"`
	WeddingAt    time.Time      `gorm:"not null" json:"wedding_at"`
	VenueName    string         `gorm:"type:varchar(200)" json:"venue_name" validate:"max=200"`
	VenueAddress string         `gorm:"type:varchar(300)" json:"venue_address" validate:"max=300"`
	VenueLat     float64        `gorm:"default:0" json:"venue_lat"`
	VenueLng     float64        `gorm:"default:0" json:"venue_lng"`
	Greeting     string         `gorm:"type:text" json:"greeting" validate:"max=2000"`
	Theme        string         `gorm:"type:varchar(50);default:'classic'" json:"theme"`
	IsPublished  bool           `gorm:"default:false;index" json:"is_published"`
	ViewCount    int64          `gorm:"default:0" json:"view_count"`
	ShareCount   int64          `gorm:"default:0" json:"share_count"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	User   User              `gorm:"foreignKey:UserID" json:"-"`
	Photos []InvitationPhoto `gorm:"foreignKey:InvitationID" json:"photos,omitempty"`
}

func (i *Invitation) Validate() error {
	v := validator.New()

	return v.Struct(i)
}

// GenerateSlug assigns a random URL slug. Safe to call again on unique
// collisions.
func (i *Invitation) GenerateSlug() error {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return err
	}
	i.Slug = strings.ToLower(slugEncoding.EncodeToString(b))
	return nil
}

// IsOwnedBy reports whether userID owns this invitation.
func (i *Invitation) IsOwnedBy(userID uint) bool {
	return i.UserID == userID
}
