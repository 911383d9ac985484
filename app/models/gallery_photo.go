package models

import (
	"time"

	"gorm.io/gorm"
)

// GalleryPhoto is a photo in a user's media library. AI results land here
// too, flagged via Source.
const (
	PhotoSourceUpload = "upload"
	PhotoSourceAi     = "ai"
)

type GalleryPhoto struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	FilePath  string         `gorm:"type:varchar(300);not null" json:"file_path"`
	ThumbPath string         `gorm:"type:varchar(300);default:''" json:"thumb_path"`
	Source    string         `gorm:"type:varchar(20);default:'upload'" json:"source"`
	Width     int            `gorm:"default:0" json:"width"`
	Height    int            `gorm:"default:0" json:"height"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// InvitationPhoto attaches a gallery photo to an invitation. The composite
// unique index keeps the gallery-apply merge free of duplicates.
type InvitationPhoto struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	InvitationID uint      `gorm:"not null;index:ux_invitation_photos_pair,unique,priority:1" json:"invitation_id"`
	PhotoID      uint      `gorm:"not null;index:ux_invitation_photos_pair,unique,priority:2" json:"photo_id"`
	Position     int       `gorm:"default:0" json:"position"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	Photo GalleryPhoto `gorm:"foreignKey:PhotoID" json:"photo,omitempty"`
}
