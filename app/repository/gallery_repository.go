package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/HanaSeol/CardMoa/app/models"
)

// galleryRepository implements the GalleryRepository interface
type galleryRepository struct {
	db *gorm.DB
}

// NewGalleryRepository creates a new gallery repository instance
func NewGalleryRepository(db *gorm.DB) GalleryRepository {
	return &galleryRepository{db: db}
}

// CreatePhoto stores a new library photo
func (r *galleryRepository) CreatePhoto(photo *models.GalleryPhoto) error {
	return r.db.Create(photo).Error
}

// GetPhotoByID retrieves a photo by ID
func (r *galleryRepository) GetPhotoByID(id uint) (*models.GalleryPhoto, error) {
	var photo models.GalleryPhoto
	err := r.db.First(&photo, id).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// GetPhotosByUserID retrieves a user's library, newest first
func (r *galleryRepository) GetPhotosByUserID(userID uint) ([]models.GalleryPhoto, error) {
	var photos []models.GalleryPhoto
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&photos).Error
	return photos, err
}

// DeletePhoto soft-deletes a library photo and detaches it from invitations
func (r *galleryRepository) DeletePhoto(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("photo_id = ?", id).Delete(&models.InvitationPhoto{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.GalleryPhoto{}, id).Error
	})
}

// CountByUserID returns the size of a user's library
func (r *galleryRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.GalleryPhoto{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// ApplyPhotos merges the given photos into an invitation's gallery. Photos
// already attached keep their position; new ones are appended. The composite
// unique index on (invitation_id, photo_id) backs the merge under concurrency.
func (r *galleryRepository) ApplyPhotos(invitationID uint, photoIDs []uint) error {
	if len(photoIDs) == 0 {
		return nil
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing []models.InvitationPhoto
		if err := tx.Where("invitation_id = ?", invitationID).
			Order("position DESC").Find(&existing).Error; err != nil {
			return err
		}

		attached := make(map[uint]bool, len(existing))
		nextPosition := 0
		for _, ip := range existing {
			attached[ip.PhotoID] = true
			if ip.Position >= nextPosition {
				nextPosition = ip.Position + 1
			}
		}

		for _, photoID := range photoIDs {
			if attached[photoID] {
				continue
			}
			attached[photoID] = true

			link := models.InvitationPhoto{
				InvitationID: invitationID,
				PhotoID:      photoID,
				Position:     nextPosition,
			}
			if err := tx.Create(&link).Error; err != nil {
				// A concurrent apply already attached this photo.
				var my *mysql.MySQLError
				if errors.As(err, &my) && my.Number == 1062 {
					continue
				}
				return err
			}
			nextPosition++
		}
		return nil
	})
}

// GetInvitationPhotos returns the attached photos in display order
func (r *galleryRepository) GetInvitationPhotos(invitationID uint) ([]models.InvitationPhoto, error) {
	var photos []models.InvitationPhoto
	err := r.db.Preload("Photo").Where("invitation_id = ?", invitationID).
		Order("position ASC").Find(&photos).Error
	return photos, err
}

// RemoveInvitationPhoto detaches one photo from an invitation
func (r *galleryRepository) RemoveInvitationPhoto(invitationID, photoID uint) error {
	return r.db.Where("invitation_id = ? AND photo_id = ?", invitationID, photoID).
		Delete(&models.InvitationPhoto{}).Error
}
