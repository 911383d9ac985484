package repository

import (
	"github.com/HanaSeol/CardMoa/app/models"
	"gorm.io/gorm"
)

// rsvpRepository implements the RsvpRepository interface
type rsvpRepository struct {
	db *gorm.DB
}

// NewRsvpRepository creates a new RSVP repository instance
func NewRsvpRepository(db *gorm.DB) RsvpRepository {
	return &rsvpRepository{db: db}
}

// Create stores a guest reply
func (r *rsvpRepository) Create(rsvp *models.Rsvp) error {
	return r.db.Create(rsvp).Error
}

// GetByInvitationID retrieves all replies for an invitation, newest first
func (r *rsvpRepository) GetByInvitationID(invitationID uint) ([]models.Rsvp, error) {
	var rsvps []models.Rsvp
	err := r.db.Where("invitation_id = ?", invitationID).
		Order("created_at DESC").Find(&rsvps).Error
	return rsvps, err
}

// GetSummary aggregates replies and headcount for the owner dashboard
func (r *rsvpRepository) GetSummary(invitationID uint) (*RsvpSummary, error) {
	summary := &RsvpSummary{}

	err := r.db.Model(&models.Rsvp{}).
		Where("invitation_id = ?", invitationID).
		Count(&summary.TotalReplies).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Model(&models.Rsvp{}).
		Where("invitation_id = ? AND attending = ?", invitationID, true).
		Count(&summary.Attending).Error
	if err != nil {
		return nil, err
	}
	summary.NotAttending = summary.TotalReplies - summary.Attending

	err = r.db.Model(&models.Rsvp{}).
		Select("COALESCE(SUM(headcount), 0)").
		Where("invitation_id = ? AND attending = ?", invitationID, true).
		Scan(&summary.TotalHeadcount).Error
	if err != nil {
		return nil, err
	}

	return summary, nil
}
