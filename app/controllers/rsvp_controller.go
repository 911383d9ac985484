package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"
	"gorm.io/gorm"

	"github.com/HanaSeol/CardMoa/app/models"
	"github.com/HanaSeol/CardMoa/app/repository"
	"github.com/HanaSeol/CardMoa/internal/pkg/database"
	"github.com/HanaSeol/CardMoa/internal/pkg/mail"
	"github.com/HanaSeol/CardMoa/internal/pkg/usercontext"
)

// HandleRsvpSubmit records a guest's attendance reply on a published page.
// Guests are anonymous; only the invitation owner needs an account.
func HandleRsvpSubmit(c *fiber.Ctx) error {
	slug := c.Params("slug")

	repo := repository.GetGlobalFactory().GetInvitationRepository()
	invitation, err := repo.GetPublishedBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "invitation not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to load invitation"})
	}

	headcount, err := strconv.Atoi(c.FormValue("headcount", "1"))
	if err != nil {
		headcount = 1
	}

	rsvp := models.Rsvp{
		InvitationID: invitation.ID,
		GuestName:    c.FormValue("guest_name"),
		Attending:    c.FormValue("attending") == "yes",
		Headcount:    headcount,
		Phone:        c.FormValue("phone"),
		Message:      c.FormValue("message"),
	}
	if err := rsvp.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "참석 정보를 확인해 주세요"})
	}

	if err := repository.GetGlobalFactory().GetRsvpRepository().Create(&rsvp); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to save reply"})
	}

	go notifyOwnerOfRsvp(invitation, &rsvp)

	return c.JSON(fiber.Map{"success": true})
}

// HandleRsvpList shows all replies and the attendance summary to the owner.
func HandleRsvpList(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	invitation, err := loadOwnedInvitation(c, userCtx.UserID)
	if invitation == nil {
		// Response already written by the loader.
		return err
	}

	rsvpRepo := repository.GetGlobalFactory().GetRsvpRepository()
	rsvps, err := rsvpRepo.GetByInvitationID(invitation.ID)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "참석 응답을 불러오지 못했습니다"}).Redirect("/invitations")
	}
	summary, err := rsvpRepo.GetSummary(invitation.ID)
	if err != nil {
		summary = &repository.RsvpSummary{}
	}

	return c.Render("rsvp/list", fiber.Map{
		"Title":      "참석 응답",
		"Invitation": invitation,
		"Rsvps":      rsvps,
		"Summary":    summary,
		"Flash":      flash.Get(c),
	})
}

// HandleGuestbookSubmit adds a congratulation message to a published page.
func HandleGuestbookSubmit(c *fiber.Ctx) error {
	slug := c.Params("slug")

	repo := repository.GetGlobalFactory().GetInvitationRepository()
	invitation, err := repo.GetPublishedBySlug(slug)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "invitation not found"})
	}

	entry := models.GuestbookEntry{
		InvitationID: invitation.ID,
		AuthorName:   c.FormValue("author_name"),
		Message:      c.FormValue("message"),
	}
	if err := entry.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "방명록 내용을 확인해 주세요"})
	}

	if err := repository.GetGlobalFactory().GetGuestbookRepository().Create(&entry); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to save entry"})
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"id": entry.ID}})
}

// HandleGuestbookDelete lets the invitation owner remove an entry.
func HandleGuestbookDelete(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	entryID, err := c.ParamsInt("entryId")
	if err != nil || entryID <= 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "entry not found"})
	}

	gbRepo := repository.GetGlobalFactory().GetGuestbookRepository()
	entry, err := gbRepo.GetByID(uint(entryID))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "entry not found"})
	}

	invitation, err := repository.GetGlobalFactory().GetInvitationRepository().GetByID(entry.InvitationID)
	if err != nil || !invitation.IsOwnedBy(userCtx.UserID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "not your invitation"})
	}

	if err := gbRepo.Delete(entry.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to delete entry"})
	}

	return c.JSON(fiber.Map{"success": true})
}

func notifyOwnerOfRsvp(invitation *models.Invitation, rsvp *models.Rsvp) {
	var owner models.User
	if err := database.GetDB().First(&owner, invitation.UserID).Error; err != nil {
		log.Warnf("[Rsvp] Owner %d not found for notification: %v", invitation.UserID, err)
		return
	}

	settings, err := models.GetOrCreateUserSettings(database.GetDB(), owner.ID)
	if err != nil || !settings.NotifyRsvpEmail {
		return
	}

	attending := "참석"
	if !rsvp.Attending {
		attending = "불참"
	}
	body := fmt.Sprintf(
		"<p>%s 청첩장에 새 참석 응답이 도착했습니다.</p><p>%s님 · %s · %d명</p>",
		invitation.Title, rsvp.GuestName, attending, rsvp.Headcount,
	)
	_ = mail.SendMail(owner.Email, "[CardMoa] 새 참석 응답", body)
}
