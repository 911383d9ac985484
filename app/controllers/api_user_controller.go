package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/HanaSeol/CardMoa/app/repository"
	"github.com/HanaSeol/CardMoa/internal/pkg/database"
	"github.com/HanaSeol/CardMoa/internal/pkg/entitlements"
	"github.com/HanaSeol/CardMoa/internal/pkg/payments"
	"github.com/HanaSeol/CardMoa/internal/pkg/usercontext"
)

// HandleGetUserAccount returns account information for the authenticated user.
func HandleGetUserAccount(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing or invalid authentication"})
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	account, err := repo.GetByID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load user"})
	}

	invitationCount, err := repository.GetGlobalFactory().GetInvitationRepository().CountByUserID(userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load statistics"})
	}

	return c.JSON(fiber.Map{
		"id":             account.ID,
		"username":       account.Name,
		"email":          account.Email,
		"status":         account.Status,
		"is_premium":     account.IsPremium,
		"premium_since":  formatTimePtr(account.PremiumSince),
		"credit_balance": account.CreditBalance,
		"created_at":     account.CreatedAt.UTC().Format(time.RFC3339),
		"stats": fiber.Map{
			"invitations": fiber.Map{
				"count": invitationCount,
				"max":   entitlements.MaxInvitations(account.IsPremium),
			},
		},
	})
}

// HandleGetCreditLedger returns the most recent credit transactions for the
// authenticated user, newest first.
func HandleGetCreditLedger(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing or invalid authentication"})
	}

	limit := c.QueryInt("limit", 50)
	svc := payments.NewServiceFromDB(database.GetDB())
	entries, err := svc.History(c.UserContext(), userCtx.UserID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load ledger"})
	}

	items := make([]fiber.Map, 0, len(entries))
	for _, e := range entries {
		items = append(items, fiber.Map{
			"id":            e.ID,
			"type":          e.Type,
			"amount":        e.Amount,
			"balance_after": e.BalanceAfter,
			"memo":          e.Memo,
			"created_at":    e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    items,
	})
}
