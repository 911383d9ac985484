package models

import (
	"time"

	"gorm.io/gorm"
)

// UserSettings stores per-user preferences
type UserSettings struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"uniqueIndex" json:"user_id"`
	NotifyRsvpEmail bool           `gorm:"default:true" json:"notify_rsvp_email"`
	DefaultTheme    string         `gorm:"type:varchar(50);default:'classic'" json:"default_theme"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// GetOrCreateUserSettings returns existing settings or creates defaults
func GetOrCreateUserSettings(db *gorm.DB, userID uint) (*UserSettings, error) {
	var us UserSettings
	if err := db.Where("user_id = ?", userID).First(&us).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			us = UserSettings{UserID: userID, NotifyRsvpEmail: true, DefaultTheme: "classic"}
			if err := db.Create(&us).Error; err != nil {
				return nil, err
			}
			return &us, nil
		}
		return nil, err
	}
	return &us, nil
}
