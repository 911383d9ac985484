package controllers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/HanaSeol/CardMoa/app/models"
	"github.com/HanaSeol/CardMoa/app/repository"
	"github.com/HanaSeol/CardMoa/internal/pkg/constants"
	"github.com/HanaSeol/CardMoa/internal/pkg/entitlements"
	"github.com/HanaSeol/CardMoa/internal/pkg/usercontext"
)

const galleryThumbWidth = 400

var allowedPhotoExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// HandleGalleryList returns the user's photo library.
func HandleGalleryList(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	photos, err := repository.GetGlobalFactory().GetGalleryRepository().GetPhotosByUserID(userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to load gallery"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"photos": photos,
			"max":    entitlements.MaxGalleryPhotos(userCtx.IsPremium),
		},
	})
}

// HandleGalleryUpload stores an uploaded photo and its thumbnail on disk.
func HandleGalleryUpload(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repo := repository.GetGlobalFactory().GetGalleryRepository()

	count, err := repo.CountByUserID(userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to check gallery size"})
	}
	if count >= int64(entitlements.MaxGalleryPhotos(userCtx.IsPremium)) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "quota_exceeded", "message": "사진 보관함이 가득 찼습니다"})
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "photo file is required"})
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedPhotoExt[ext] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "unsupported image format"})
	}

	dir := filepath.Join(constants.UploadsPath, "gallery", fmt.Sprintf("%d", userCtx.UserID))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to store photo"})
	}

	name := uuid.New().String()
	filePath := filepath.Join(dir, name+ext)
	if err := c.SaveFile(fileHeader, filePath); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to store photo"})
	}

	// EXIF orientation is baked in during decode so thumbnails match the
	// phone's view of the photo.
	img, err := imaging.Open(filePath, imaging.AutoOrientation(true))
	if err != nil {
		_ = os.Remove(filePath)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "file is not a valid image"})
	}

	thumbPath := filepath.Join(dir, name+"_thumb.jpg")
	thumb := imaging.Resize(img, galleryThumbWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath, imaging.JPEGQuality(85)); err != nil {
		log.Warnf("[Gallery] Thumbnail save failed for %s: %v", filePath, err)
		thumbPath = ""
	}

	bounds := img.Bounds()
	photo := models.GalleryPhoto{
		UserID:    userCtx.UserID,
		FilePath:  filePath,
		ThumbPath: thumbPath,
		Source:    models.PhotoSourceUpload,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
	}
	if err := repo.CreatePhoto(&photo); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to save photo"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": photo})
}

// HandleGalleryDelete removes a photo from the library and all invitations.
func HandleGalleryDelete(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	photoID, err := c.ParamsInt("id")
	if err != nil || photoID <= 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "photo not found"})
	}

	repo := repository.GetGlobalFactory().GetGalleryRepository()
	photo, err := repo.GetPhotoByID(uint(photoID))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "photo not found"})
	}
	if photo.UserID != userCtx.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "not your photo"})
	}

	if err := repo.DeletePhoto(photo.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to delete photo"})
	}

	return c.JSON(fiber.Map{"success": true})
}

type applyPhotosRequest struct {
	PhotoIDs []uint `json:"photoIds"`
}

// HandleGalleryApply merges the selected library photos into an invitation's
// gallery. Already attached photos stay put; the result never holds
// duplicates.
func HandleGalleryApply(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	invitation, err := loadOwnedInvitationJSON(c, userCtx.UserID)
	if invitation == nil {
		return err
	}

	var req applyPhotosRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "malformed request body"})
	}

	repo := repository.GetGlobalFactory().GetGalleryRepository()

	// Only the caller's own photos may be attached.
	owned := make([]uint, 0, len(req.PhotoIDs))
	for _, id := range req.PhotoIDs {
		photo, err := repo.GetPhotoByID(id)
		if err != nil || photo.UserID != userCtx.UserID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "photo does not belong to you"})
		}
		owned = append(owned, id)
	}

	if err := repo.ApplyPhotos(invitation.ID, owned); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to apply photos"})
	}

	attached, err := repo.GetInvitationPhotos(invitation.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to load gallery"})
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"photos": attached}})
}

// HandleGalleryDetach removes one photo from an invitation without deleting
// it from the library.
func HandleGalleryDetach(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	invitation, err := loadOwnedInvitationJSON(c, userCtx.UserID)
	if invitation == nil {
		return err
	}

	photoID, err := c.ParamsInt("photoId")
	if err != nil || photoID <= 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "photo not found"})
	}

	repo := repository.GetGlobalFactory().GetGalleryRepository()
	if err := repo.RemoveInvitationPhoto(invitation.ID, uint(photoID)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to detach photo"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// loadOwnedInvitationJSON is the JSON-API variant of loadOwnedInvitation.
func loadOwnedInvitationJSON(c *fiber.Ctx, userID uint) (*models.Invitation, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "invitation not found"})
	}

	repo := repository.GetGlobalFactory().GetInvitationRepository()
	invitation, err := repo.GetByID(uint(id))
	if err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "invitation not found"})
	}
	if !invitation.IsOwnedBy(userID) {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "not your invitation"})
	}
	return invitation, nil
}
