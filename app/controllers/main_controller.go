package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"
	"gorm.io/gorm"

	"github.com/HanaSeol/CardMoa/app/repository"
	"github.com/HanaSeol/CardMoa/internal/pkg/entitlements"
	"github.com/HanaSeol/CardMoa/internal/pkg/mapsearch"
	metrics "github.com/HanaSeol/CardMoa/internal/pkg/metrics/counter"
	"github.com/HanaSeol/CardMoa/internal/pkg/usercontext"
)

// HandleStart renders the landing page.
func HandleStart(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	return c.Render("home", fiber.Map{
		"Title":      "CardMoa",
		"IsLoggedIn": userCtx.IsLoggedIn,
		"Username":   userCtx.Username,
		"Flash":      flash.Get(c),
	})
}

// HandlePricing renders the product pricing page.
func HandlePricing(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	return c.Render("pricing", fiber.Map{
		"Title":      "요금 안내",
		"IsLoggedIn": userCtx.IsLoggedIn,
	})
}

// HandlePublicInvitation renders a published invitation page for guests.
// Views are counted in Redis and flushed to the DB in batches.
func HandlePublicInvitation(c *fiber.Ctx) error {
	slug := c.Params("slug")

	repo := repository.GetGlobalFactory().GetInvitationRepository()
	invitation, err := repo.GetPublishedBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{"Title": "찾을 수 없음"})
		}
		return c.Status(fiber.StatusInternalServerError).Render("errors/500", fiber.Map{"Title": "오류"})
	}

	if err := metrics.AddInvitationView(invitation.ID); err != nil {
		log.Warnf("[Main] View counter failed for invitation %d: %v", invitation.ID, err)
	}

	ownerIsPremium := false
	if u, err := repository.GetGlobalFactory().GetUserRepository().GetByID(invitation.UserID); err == nil {
		ownerIsPremium = u.IsPremium
	}

	entries, err := repository.GetGlobalFactory().GetGuestbookRepository().
		GetByInvitationID(invitation.ID, 0, 20)
	if err != nil {
		entries = nil
	}

	return c.Render("invite/show", fiber.Map{
		"Title":      invitation.Title,
		"Invitation": invitation,
		"Guestbook":  entries,
		"Watermark":  !entitlements.WatermarkRemoved(ownerIsPremium),
	})
}

// HandleInvitationShare counts one share action on a published invitation.
func HandleInvitationShare(c *fiber.Ctx) error {
	slug := c.Params("slug")

	repo := repository.GetGlobalFactory().GetInvitationRepository()
	invitation, err := repo.GetPublishedBySlug(slug)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "invitation not found"})
	}

	if err := metrics.AddInvitationShare(invitation.ID); err != nil {
		log.Warnf("[Main] Share counter failed for invitation %d: %v", invitation.ID, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// HandleVenueSearch proxies wedding hall lookups to the map provider so the
// API credentials stay server-side.
func HandleVenueSearch(c *fiber.Ctx) error {
	query := c.Query("q")

	client := mapsearch.NewClientFromEnv()
	places, err := client.Search(c.UserContext(), query)
	if err != nil {
		if errors.Is(err, mapsearch.ErrNotConfigured) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "unavailable", "message": "venue search is not configured",
			})
		}
		log.Errorf("[Main] Venue search failed for %q: %v", query, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "upstream_error", "message": "venue search temporarily unavailable",
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": places})
}
