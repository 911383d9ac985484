package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
	"gorm.io/gorm"

	"github.com/HanaSeol/CardMoa/app/models"
	"github.com/HanaSeol/CardMoa/app/repository"
	"github.com/HanaSeol/CardMoa/internal/pkg/entitlements"
	"github.com/HanaSeol/CardMoa/internal/pkg/usercontext"
)

// HandleInvitationList shows the owner dashboard with all invitations.
func HandleInvitationList(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	repo := repository.GetGlobalFactory().GetInvitationRepository()
	invitations, err := repo.GetByUserID(userCtx.UserID)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "청첩장 목록을 불러오지 못했습니다"}).Redirect("/")
	}

	return c.Render("invitation/list", fiber.Map{
		"Title":       "내 청첩장",
		"Username":    userCtx.Username,
		"Invitations": invitations,
		"Max":         entitlements.MaxInvitations(userCtx.IsPremium),
		"Flash":       flash.Get(c),
	})
}

// HandleInvitationNew renders the creation form and creates on POST.
func HandleInvitationNew(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repo := repository.GetGlobalFactory().GetInvitationRepository()

	if c.Method() == fiber.MethodPost {
		count, err := repo.CountByUserID(userCtx.UserID)
		if err != nil {
			return flash.WithError(c, fiber.Map{"type": "error", "message": "잠시 후 다시 시도해 주세요"}).Redirect("/invitations")
		}
		if count >= int64(entitlements.MaxInvitations(userCtx.IsPremium)) {
			return flash.WithError(c, fiber.Map{
				"type":    "error",
				"message": "만들 수 있는 청첩장 수를 초과했습니다. 프리미엄으로 업그레이드해 보세요",
			}).Redirect("/invitations")
		}

		weddingAt, err := time.Parse("2006-01-02T15:04", c.FormValue("wedding_at"))
		if err != nil {
			return flash.WithError(c, fiber.Map{"type": "error", "message": "예식 일시를 확인해 주세요"}).Redirect("/invitations/new")
		}

		invitation := models.Invitation{
			UserID:    userCtx.UserID,
			Title:     c.FormValue("title"),
			GroomName: c.FormValue("groom_name"),
			BrideName: c.FormValue("bride_name"),
			WeddingAt: weddingAt,
			Greeting:  c.FormValue("greeting"),
			Theme:     themeOrDefault(c.FormValue("theme"), userCtx.IsPremium),
		}
		if err := invitation.Validate(); err != nil {
			return flash.WithError(c, fiber.Map{"type": "error", "message": fmt.Sprintf("입력값을 확인해 주세요: %s", err)}).Redirect("/invitations/new")
		}

		// Slug collisions are rare; retry a couple of times before giving up.
		for attempt := 0; attempt < 3; attempt++ {
			if err := invitation.GenerateSlug(); err != nil {
				return flash.WithError(c, fiber.Map{"type": "error", "message": "잠시 후 다시 시도해 주세요"}).Redirect("/invitations")
			}
			if taken, _ := repo.SlugExists(invitation.Slug); !taken {
				break
			}
		}

		if err := repo.Create(&invitation); err != nil {
			return flash.WithError(c, fiber.Map{"type": "error", "message": "청첩장을 만들지 못했습니다"}).Redirect("/invitations")
		}

		return flash.WithSuccess(c, fiber.Map{"type": "success", "message": "청첩장이 만들어졌습니다"}).
			Redirect(fmt.Sprintf("/invitations/%d/edit", invitation.ID))
	}

	return c.Render("invitation/new", fiber.Map{
		"Title": "새 청첩장",
		"Flash": flash.Get(c),
	})
}

// HandleInvitationEdit renders the editor and applies updates on POST.
func HandleInvitationEdit(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	invitation, err := loadOwnedInvitation(c, userCtx.UserID)
	if invitation == nil {
		// Response already written by the loader.
		return err
	}

	if c.Method() == fiber.MethodPost {
		if v := c.FormValue("title"); v != "" {
			invitation.Title = v
		}
		if v := c.FormValue("groom_name"); v != "" {
			invitation.GroomName = v
		}
		if v := c.FormValue("bride_name"); v != "" {
			invitation.BrideName = v
		}
		if v := c.FormValue("wedding_at"); v != "" {
			if weddingAt, perr := time.Parse("2006-01-02T15:04", v); perr == nil {
				invitation.WeddingAt = weddingAt
			}
		}
		invitation.Greeting = c.FormValue("greeting", invitation.Greeting)
		invitation.VenueName = c.FormValue("venue_name", invitation.VenueName)
		invitation.VenueAddress = c.FormValue("venue_address", invitation.VenueAddress)
		if lat := c.FormValue("venue_lat"); lat != "" {
			fmt.Sscanf(lat, "%f", &invitation.VenueLat)
		}
		if lng := c.FormValue("venue_lng"); lng != "" {
			fmt.Sscanf(lng, "%f", &invitation.VenueLng)
		}
		if theme := c.FormValue("theme"); theme != "" {
			if !entitlements.CanUseTheme(userCtx.IsPremium, theme) {
				return flash.WithError(c, fiber.Map{
					"type":    "error",
					"message": "프리미엄 전용 테마입니다",
				}).Redirect(fmt.Sprintf("/invitations/%d/edit", invitation.ID))
			}
			invitation.Theme = theme
		}

		if err := invitation.Validate(); err != nil {
			return flash.WithError(c, fiber.Map{"type": "error", "message": fmt.Sprintf("입력값을 확인해 주세요: %s", err)}).
				Redirect(fmt.Sprintf("/invitations/%d/edit", invitation.ID))
		}

		repo := repository.GetGlobalFactory().GetInvitationRepository()
		if err := repo.Update(invitation); err != nil {
			return flash.WithError(c, fiber.Map{"type": "error", "message": "저장하지 못했습니다"}).
				Redirect(fmt.Sprintf("/invitations/%d/edit", invitation.ID))
		}

		return flash.WithSuccess(c, fiber.Map{"type": "success", "message": "저장되었습니다"}).
			Redirect(fmt.Sprintf("/invitations/%d/edit", invitation.ID))
	}

	return c.Render("invitation/edit", fiber.Map{
		"Title":      "청첩장 편집",
		"Invitation": invitation,
		"IsPremium":  userCtx.IsPremium,
		"Flash":      flash.Get(c),
	})
}

// HandleInvitationPublish toggles the public visibility of an invitation.
func HandleInvitationPublish(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	invitation, err := loadOwnedInvitation(c, userCtx.UserID)
	if invitation == nil {
		// Response already written by the loader.
		return err
	}

	invitation.IsPublished = !invitation.IsPublished
	repo := repository.GetGlobalFactory().GetInvitationRepository()
	if err := repo.Update(invitation); err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "공개 설정을 변경하지 못했습니다"}).Redirect("/invitations")
	}

	msg := "청첩장이 공개되었습니다"
	if !invitation.IsPublished {
		msg = "청첩장이 비공개로 전환되었습니다"
	}
	return flash.WithSuccess(c, fiber.Map{"type": "success", "message": msg}).
		Redirect(fmt.Sprintf("/invitations/%d/edit", invitation.ID))
}

// HandleInvitationDelete soft-deletes an invitation.
func HandleInvitationDelete(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	invitation, err := loadOwnedInvitation(c, userCtx.UserID)
	if invitation == nil {
		// Response already written by the loader.
		return err
	}

	repo := repository.GetGlobalFactory().GetInvitationRepository()
	if err := repo.Delete(invitation.ID); err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "삭제하지 못했습니다"}).Redirect("/invitations")
	}

	return flash.WithSuccess(c, fiber.Map{"type": "success", "message": "삭제되었습니다"}).Redirect("/invitations")
}

// loadOwnedInvitation fetches the :id invitation and enforces ownership.
// Returns a rendered error response as the error when the caller must stop.
func loadOwnedInvitation(c *fiber.Ctx, userID uint) (*models.Invitation, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{"Title": "찾을 수 없음"})
	}

	repo := repository.GetGlobalFactory().GetInvitationRepository()
	invitation, err := repo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{"Title": "찾을 수 없음"})
		}
		return nil, c.Status(fiber.StatusInternalServerError).Render("errors/500", fiber.Map{"Title": "오류"})
	}
	if !invitation.IsOwnedBy(userID) {
		return nil, c.Status(fiber.StatusForbidden).Render("errors/403", fiber.Map{"Title": "권한 없음"})
	}
	return invitation, nil
}

func themeOrDefault(theme string, isPremium bool) string {
	if theme == "" || !entitlements.CanUseTheme(isPremium, theme) {
		return "classic"
	}
	return theme
}
