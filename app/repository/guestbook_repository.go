package repository

import (
	"github.com/HanaSeol/CardMoa/app/models"
	"gorm.io/gorm"
)

// guestbookRepository implements the GuestbookRepository interface
type guestbookRepository struct {
	db *gorm.DB
}

// NewGuestbookRepository creates a new guestbook repository instance
func NewGuestbookRepository(db *gorm.DB) GuestbookRepository {
	return &guestbookRepository{db: db}
}

// Create stores a guestbook entry
func (r *guestbookRepository) Create(entry *models.GuestbookEntry) error {
	return r.db.Create(entry).Error
}

// GetByID retrieves an entry by ID
func (r *guestbookRepository) GetByID(id uint) (*models.GuestbookEntry, error) {
	var entry models.GuestbookEntry
	err := r.db.First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetByInvitationID retrieves entries for an invitation, newest first
func (r *guestbookRepository) GetByInvitationID(invitationID uint, offset, limit int) ([]models.GuestbookEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var entries []models.GuestbookEntry
	err := r.db.Where("invitation_id = ?", invitationID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, err
}

// Delete soft-deletes an entry (owner moderation)
func (r *guestbookRepository) Delete(id uint) error {
	return r.db.Delete(&models.GuestbookEntry{}, id).Error
}

// CountByInvitationID returns the number of visible entries
func (r *guestbookRepository) CountByInvitationID(invitationID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.GuestbookEntry{}).
		Where("invitation_id = ?", invitationID).Count(&count).Error
	return count, err
}
