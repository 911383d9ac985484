package repository

import (
	"github.com/HanaSeol/CardMoa/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByActivationToken(token string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	Count() (int64, error)
}

// InvitationRepository defines the interface for invitation-related database operations
type InvitationRepository interface {
	Create(invitation *models.Invitation) error
	GetByID(id uint) (*models.Invitation, error)
	GetBySlug(slug string) (*models.Invitation, error)
	GetPublishedBySlug(slug string) (*models.Invitation, error)
	GetByUserID(userID uint) ([]models.Invitation, error)
	Update(invitation *models.Invitation) error
	Delete(id uint) error
	CountByUserID(userID uint) (int64, error)
	SlugExists(slug string) (bool, error)
}

// RsvpRepository defines the interface for RSVP operations
type RsvpRepository interface {
	Create(rsvp *models.Rsvp) error
	GetByInvitationID(invitationID uint) ([]models.Rsvp, error)
	GetSummary(invitationID uint) (*RsvpSummary, error)
}

// GuestbookRepository defines the interface for guestbook operations
type GuestbookRepository interface {
	Create(entry *models.GuestbookEntry) error
	GetByID(id uint) (*models.GuestbookEntry, error)
	GetByInvitationID(invitationID uint, offset, limit int) ([]models.GuestbookEntry, error)
	Delete(id uint) error
	CountByInvitationID(invitationID uint) (int64, error)
}

// GalleryRepository defines the interface for media library operations
type GalleryRepository interface {
	CreatePhoto(photo *models.GalleryPhoto) error
	GetPhotoByID(id uint) (*models.GalleryPhoto, error)
	GetPhotosByUserID(userID uint) ([]models.GalleryPhoto, error)
	DeletePhoto(id uint) error
	CountByUserID(userID uint) (int64, error)
	ApplyPhotos(invitationID uint, photoIDs []uint) error
	GetInvitationPhotos(invitationID uint) ([]models.InvitationPhoto, error)
	RemoveInvitationPhoto(invitationID, photoID uint) error
}

// AiPhotoRepository defines the interface for AI photo job records
type AiPhotoRepository interface {
	Create(photo *models.AiPhoto) error
	GetByID(id uint) (*models.AiPhoto, error)
	GetByUUID(uuid string) (*models.AiPhoto, error)
	GetByUserID(userID uint, offset, limit int) ([]models.AiPhoto, error)
	Update(photo *models.AiPhoto) error
	CountPendingByUserID(userID uint) (int64, error)
}

// RsvpSummary aggregates attendance replies for one invitation.
type RsvpSummary struct {
	TotalReplies   int64
	Attending      int64
	NotAttending   int64
	TotalHeadcount int64
}

// Repositories struct holds all repository instances
type Repositories struct {
	User       UserRepository
	Invitation InvitationRepository
	Rsvp       RsvpRepository
	Guestbook  GuestbookRepository
	Gallery    GalleryRepository
	AiPhoto    AiPhotoRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Invitation: NewInvitationRepository(db),
		Rsvp:       NewRsvpRepository(db),
		Guestbook:  NewGuestbookRepository(db),
		Gallery:    NewGalleryRepository(db),
		AiPhoto:    NewAiPhotoRepository(db),
	}
}
