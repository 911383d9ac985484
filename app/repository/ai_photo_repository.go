package repository

import (
	"github.com/HanaSeol/CardMoa/app/models"
	"gorm.io/gorm"
)

// aiPhotoRepository implements the AiPhotoRepository interface
type aiPhotoRepository struct {
	db *gorm.DB
}

// NewAiPhotoRepository creates a new AI photo repository instance
func NewAiPhotoRepository(db *gorm.DB) AiPhotoRepository {
	return &aiPhotoRepository{db: db}
}

// Create stores a new AI photo job record
func (r *aiPhotoRepository) Create(photo *models.AiPhoto) error {
	return r.db.Create(photo).Error
}

// GetByID retrieves a record by ID
func (r *aiPhotoRepository) GetByID(id uint) (*models.AiPhoto, error) {
	var photo models.AiPhoto
	err := r.db.First(&photo, id).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// GetByUUID retrieves a record by its public UUID
func (r *aiPhotoRepository) GetByUUID(uuid string) (*models.AiPhoto, error) {
	var photo models.AiPhoto
	err := r.db.Where("uuid = ?", uuid).First(&photo).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// GetByUserID retrieves a user's generation history, newest first
func (r *aiPhotoRepository) GetByUserID(userID uint, offset, limit int) ([]models.AiPhoto, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var photos []models.AiPhoto
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&photos).Error
	return photos, err
}

// Update updates an existing record
func (r *aiPhotoRepository) Update(photo *models.AiPhoto) error {
	return r.db.Save(photo).Error
}

// CountPendingByUserID returns the number of unfinished jobs for a user
func (r *aiPhotoRepository) CountPendingByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.AiPhoto{}).
		Where("user_id = ? AND status IN ?", userID,
			[]string{models.AiPhotoStatusPending, models.AiPhotoStatusProcessing}).
		Count(&count).Error
	return count, err
}
