package router

import (
	"github.com/gofiber/fiber/v2"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/HanaSeol/CardMoa/app/controllers"
	"github.com/HanaSeol/CardMoa/internal/pkg/middleware"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Static pages
	app.Get("/pricing", loggedInMiddleware, controllers.HandlePricing)

	// Published invitation pages. Guests never log in, so none of these
	// routes require a session.
	app.Get("/i/:slug", loggedInMiddleware, controllers.HandlePublicInvitation)
	app.Post("/i/:slug/rsvp", controllers.HandleRsvpSubmit)
	app.Post("/i/:slug/guestbook", controllers.HandleGuestbookSubmit)
	app.Post("/i/:slug/share", controllers.HandleInvitationShare)

	// Auth
	app.Post("/logout", middleware.RequireAuth, controllers.HandleAuthLogout)

	// Social OAuth
	app.Get("/auth/:provider", gothfiber.BeginAuthHandler)
	app.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)
}
