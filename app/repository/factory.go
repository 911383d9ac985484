package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetInvitationRepository returns the invitation repository instance
func (f *Factory) GetInvitationRepository() InvitationRepository {
	return f.GetRepositories().Invitation
}

// GetRsvpRepository returns the RSVP repository instance
func (f *Factory) GetRsvpRepository() RsvpRepository {
	return f.GetRepositories().Rsvp
}

// GetGuestbookRepository returns the guestbook repository instance
func (f *Factory) GetGuestbookRepository() GuestbookRepository {
	return f.GetRepositories().Guestbook
}

// GetGalleryRepository returns the gallery repository instance
func (f *Factory) GetGalleryRepository() GalleryRepository {
	return f.GetRepositories().Gallery
}

// GetAiPhotoRepository returns the AI photo repository instance
func (f *Factory) GetAiPhotoRepository() AiPhotoRepository {
	return f.GetRepositories().AiPhoto
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
