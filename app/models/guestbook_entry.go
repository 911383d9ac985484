package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// GuestbookEntry is a public congratulation message on an invitation page.
// Deletion is soft so the owner can moderate without losing history.
type GuestbookEntry struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	InvitationID uint           `gorm:"not null;index" json:"invitation_id"`
	AuthorName   string         `gorm:"type:varchar(100);not null" json:"author_name" validate:"required,min=1,max=100"`
	Message      string         `gorm:"type:varchar(1000);not null" json:"message" validate:"required,min=1,max=1000"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (g *GuestbookEntry) Validate() error {
	v := validator.New()

	return v.Struct(g)
}
