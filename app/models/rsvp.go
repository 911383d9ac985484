package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Rsvp is a guest's attendance reply on a public invitation page.
type Rsvp struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	InvitationID uint      `gorm:"not null;index" json:"invitation_id"`
	GuestName    string    `gorm:"type:varchar(100);not null" json:"guest_name" validate:"required,min=1,max=100"`
	Attending    bool      `gorm:"not null" json:"attending"`
	Headcount    int       `gorm:"not null;default:1" json:"headcount" validate:"min=1,max=20"`
	Phone        string    `gorm:"type:varchar(30);default:''" json:"-" validate:"max=30"`
	Message      string    `gorm:"type:varchar(500);default:''" json:"message" validate:"max=500"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (r *Rsvp) Validate() error {
	v := validator.New()

	return v.Struct(r)
}
