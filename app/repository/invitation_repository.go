package repository

import (
	"github.com/HanaSeol/CardMoa/app/models"
	"gorm.io/gorm"
)

// invitationRepository implements the InvitationRepository interface
type invitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new invitation repository instance
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &invitationRepository{db: db}
}

// Create creates a new invitation
func (r *invitationRepository) Create(invitation *models.Invitation) error {
	return r.db.Create(invitation).Error
}

// GetByID retrieves an invitation by ID
func (r *invitationRepository) GetByID(id uint) (*models.Invitation, error) {
	var invitation models.Invitation
	err := r.db.Preload("Photos.Photo").First(&invitation, id).Error
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

// GetBySlug retrieves an invitation by its URL slug regardless of publish state
func (r *invitationRepository) GetBySlug(slug string) (*models.Invitation, error) {
	var invitation models.Invitation
	err := r.db.Preload("Photos.Photo").Where("slug = ?", slug).First(&invitation).Error
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

// GetPublishedBySlug retrieves a published invitation for public viewing
func (r *invitationRepository) GetPublishedBySlug(slug string) (*models.Invitation, error) {
	var invitation models.Invitation
	err := r.db.Preload("Photos.Photo").
		Where("slug = ? AND is_published = ?", slug, true).
		First(&invitation).Error
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

// GetByUserID retrieves all invitations owned by a user
func (r *invitationRepository) GetByUserID(userID uint) ([]models.Invitation, error) {
	var invitations []models.Invitation
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&invitations).Error
	return invitations, err
}

// Update updates an existing invitation
func (r *invitationRepository) Update(invitation *models.Invitation) error {
	return r.db.Save(invitation).Error
}

// Delete soft-deletes an invitation
func (r *invitationRepository) Delete(id uint) error {
	return r.db.Delete(&models.Invitation{}, id).Error
}

// CountByUserID returns the number of invitations a user owns
func (r *invitationRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Invitation{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// SlugExists checks whether a slug is already taken
func (r *invitationRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Invitation{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}
