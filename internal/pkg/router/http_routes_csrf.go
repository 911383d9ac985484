package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/HanaSeol/CardMoa/app/controllers"
	"github.com/HanaSeol/CardMoa/internal/pkg/env"
	"github.com/HanaSeol/CardMoa/internal/pkg/middleware"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))
	group.Get("/", loggedInMiddleware, controllers.HandleStart)
	group.Get("/login", loggedInMiddleware, controllers.HandleAuthLogin)
	group.Post("/login", loggedInMiddleware, controllers.HandleAuthLogin)
	group.Get("/register", loggedInMiddleware, controllers.HandleAuthRegister)
	group.Post("/register", loggedInMiddleware, controllers.HandleAuthRegister)
	group.Get("/activate", loggedInMiddleware, controllers.HandleUserActivate)

	// Owner dashboard
	group.Get("/dashboard", middleware.RequireAuth, controllers.HandleInvitationList)
	group.Get("/invitations", middleware.RequireAuth, controllers.HandleInvitationList)
	group.Get("/invitations/new", middleware.RequireAuth, controllers.HandleInvitationNew)
	group.Post("/invitations/new", middleware.RequireAuth, controllers.HandleInvitationNew)
	group.Get("/invitations/:id/edit", middleware.RequireAuth, controllers.HandleInvitationEdit)
	group.Post("/invitations/:id/edit", middleware.RequireAuth, controllers.HandleInvitationEdit)
	group.Post("/invitations/:id/publish", middleware.RequireAuth, controllers.HandleInvitationPublish)
	group.Post("/invitations/:id/delete", middleware.RequireAuth, controllers.HandleInvitationDelete)
	group.Get("/invitations/:id/rsvps", middleware.RequireAuth, controllers.HandleRsvpList)

	// Guestbook moderation
	group.Post("/guestbook/:entryId/delete", middleware.RequireAuth, controllers.HandleGuestbookDelete)
}
