package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to existing controllers to keep behavior consistent
	"github.com/HanaSeol/CardMoa/app/controllers"
	"github.com/HanaSeol/CardMoa/internal/pkg/middleware"
)

// APIServer bundles the JSON API handlers behind session authentication.
type APIServer struct {
	payments *controllers.PaymentController
}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{
		payments: controllers.DefaultPaymentController(),
	}
}

// RegisterHandlers mounts all v1 routes on the given group.
func RegisterHandlers(router fiber.Router, s *APIServer) {
	router.Get("/ping", s.GetPing)

	auth := router.Group("", middleware.RequireAPISessionAuth)

	// Commerce order activation
	auth.Post("/payments/activate", s.PostActivateOrder)

	// Account
	auth.Get("/user/account", s.GetUserAccount)
	auth.Get("/user/ledger", s.GetCreditLedger)

	// Photo library
	auth.Get("/gallery/photos", s.GetGalleryPhotos)
	auth.Post("/gallery/photos", s.PostGalleryPhoto)
	auth.Delete("/gallery/photos/:id", s.DeleteGalleryPhoto)
	auth.Post("/invitations/:id/photos", s.PostInvitationPhotos)
	auth.Delete("/invitations/:id/photos/:photoId", s.DeleteInvitationPhoto)

	// AI photo generation
	auth.Post("/ai-photos", s.PostAiPhoto)
	auth.Get("/ai-photos", s.GetAiPhotos)
	auth.Get("/ai-photos/:uuid", s.GetAiPhotoStatus)
	auth.Post("/ai-photos/:uuid/import", s.PostAiPhotoImport)

	// Venue lookup proxy
	auth.Get("/venues/search", s.GetVenueSearch)
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// PostActivateOrder activates a commerce order for the logged-in user.
func (s *APIServer) PostActivateOrder(c *fiber.Ctx) error {
	return s.payments.HandleActivateOrder(c)
}

// GetUserAccount returns account information for the authenticated user.
func (s *APIServer) GetUserAccount(c *fiber.Ctx) error {
	return controllers.HandleGetUserAccount(c)
}

// GetCreditLedger returns the user's credit transaction history.
func (s *APIServer) GetCreditLedger(c *fiber.Ctx) error {
	return controllers.HandleGetCreditLedger(c)
}

func (s *APIServer) GetGalleryPhotos(c *fiber.Ctx) error {
	return controllers.HandleGalleryList(c)
}

func (s *APIServer) PostGalleryPhoto(c *fiber.Ctx) error {
	return controllers.HandleGalleryUpload(c)
}

func (s *APIServer) DeleteGalleryPhoto(c *fiber.Ctx) error {
	return controllers.HandleGalleryDelete(c)
}

func (s *APIServer) PostInvitationPhotos(c *fiber.Ctx) error {
	return controllers.HandleGalleryApply(c)
}

func (s *APIServer) DeleteInvitationPhoto(c *fiber.Ctx) error {
	return controllers.HandleGalleryDetach(c)
}

func (s *APIServer) PostAiPhoto(c *fiber.Ctx) error {
	return controllers.HandleAiPhotoCreate(c)
}

func (s *APIServer) GetAiPhotos(c *fiber.Ctx) error {
	return controllers.HandleAiPhotoList(c)
}

func (s *APIServer) GetAiPhotoStatus(c *fiber.Ctx) error {
	return controllers.HandleAiPhotoStatus(c)
}

func (s *APIServer) PostAiPhotoImport(c *fiber.Ctx) error {
	return controllers.HandleAiPhotoImport(c)
}

// GetVenueSearch proxies wedding hall lookups to the map provider.
func (s *APIServer) GetVenueSearch(c *fiber.Ctx) error {
	return controllers.HandleVenueSearch(c)
}
