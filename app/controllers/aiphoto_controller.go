package controllers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/HanaSeol/CardMoa/app/models"
	"github.com/HanaSeol/CardMoa/app/repository"
	"github.com/HanaSeol/CardMoa/internal/pkg/constants"
	"github.com/HanaSeol/CardMoa/internal/pkg/database"
	"github.com/HanaSeol/CardMoa/internal/pkg/jobqueue"
	"github.com/HanaSeol/CardMoa/internal/pkg/payments"
	"github.com/HanaSeol/CardMoa/internal/pkg/usercontext"
)

// One unfinished generation at a time keeps a single user from draining the
// worker pool.
const maxPendingAiJobs = 2

var aiPhotoStyles = map[string]bool{
	"classic":    true,
	"hanbok":     true,
	"watercolor": true,
	"film":       true,
}

// HandleAiPhotoCreate accepts a source photo, deducts one credit and queues
// the generation job. The credit is refunded if the job permanently fails.
func HandleAiPhotoCreate(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repo := repository.GetGlobalFactory().GetAiPhotoRepository()

	style := strings.TrimSpace(c.FormValue("style"))
	if !aiPhotoStyles[style] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "unknown style"})
	}

	pending, err := repo.CountPendingByUserID(userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to check jobs"})
	}
	if pending >= maxPendingAiJobs {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too_many_jobs", "message": "이미 진행 중인 작업이 있습니다"})
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "photo file is required"})
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedPhotoExt[ext] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "unsupported image format"})
	}

	dir := filepath.Join(constants.UploadsPath, "ai", fmt.Sprintf("%d", userCtx.UserID))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to store photo"})
	}

	photoUUID := uuid.New().String()
	sourcePath := filepath.Join(dir, photoUUID+ext)
	if err := c.SaveFile(fileHeader, sourcePath); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to store photo"})
	}

	photo := models.AiPhoto{
		UUID:       photoUUID,
		UserID:     userCtx.UserID,
		Style:      style,
		SourcePath: sourcePath,
		Status:     models.AiPhotoStatusPending,
	}
	if err := repo.Create(&photo); err != nil {
		_ = os.Remove(sourcePath)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to create job"})
	}

	// The credit is deducted up front, referencing the job row.
	svc := payments.NewServiceFromDB(database.GetDB())
	if _, err := svc.SpendCredit(c.UserContext(), userCtx.UserID, photo.ID, "ai photo"); err != nil {
		_ = database.GetDB().Delete(&photo).Error
		_ = os.Remove(sourcePath)
		if errors.Is(err, payments.ErrInsufficientCredit) {
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": "insufficient_credit", "message": "크레딧이 부족합니다"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to reserve credit"})
	}

	payload := jobqueue.AiPhotoJobPayload{
		AiPhotoID:  photo.ID,
		PhotoUUID:  photo.UUID,
		UserID:     photo.UserID,
		Style:      photo.Style,
		SourcePath: photo.SourcePath,
	}
	if _, err := jobqueue.GetManager().GetQueue().EnqueueJob(jobqueue.JobTypeAiPhoto, payload.ToMap()); err != nil {
		log.Errorf("[AiPhoto] Failed to enqueue job for photo %d: %v", photo.ID, err)
		if _, rerr := svc.RefundCredit(c.UserContext(), userCtx.UserID, photo.ID, "ai photo enqueue failed"); rerr != nil {
			log.Errorf("[AiPhoto] Refund after enqueue failure also failed for photo %d: %v", photo.ID, rerr)
		}
		_ = database.GetDB().Model(&photo).Updates(map[string]interface{}{
			"status":   models.AiPhotoStatusFailed,
			"refunded": true,
		}).Error
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to queue job"})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"uuid":   photo.UUID,
			"status": photo.Status,
		},
	})
}

// HandleAiPhotoList returns the user's generation history.
func HandleAiPhotoList(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 20)
	photos, err := repository.GetGlobalFactory().GetAiPhotoRepository().GetByUserID(userCtx.UserID, offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to load jobs"})
	}

	return c.JSON(fiber.Map{"success": true, "data": photos})
}

// HandleAiPhotoStatus returns one job by its public UUID for polling.
func HandleAiPhotoStatus(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	photo, err := repository.GetGlobalFactory().GetAiPhotoRepository().GetByUUID(c.Params("uuid"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "job not found"})
	}
	if photo.UserID != userCtx.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "not your job"})
	}

	return c.JSON(fiber.Map{"success": true, "data": photo})
}

// HandleAiPhotoImport copies a completed result into the photo library so it
// can be applied to invitations like any upload.
func HandleAiPhotoImport(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	photo, err := repository.GetGlobalFactory().GetAiPhotoRepository().GetByUUID(c.Params("uuid"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "job not found"})
	}
	if photo.UserID != userCtx.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "not your job"})
	}
	if photo.Status != models.AiPhotoStatusCompleted {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "not_ready", "message": "generation not finished"})
	}

	entry := models.GalleryPhoto{
		UserID:   userCtx.UserID,
		FilePath: photo.ResultURL,
		Source:   models.PhotoSourceAi,
	}
	if err := repository.GetGlobalFactory().GetGalleryRepository().CreatePhoto(&entry); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to import photo"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": entry})
}
