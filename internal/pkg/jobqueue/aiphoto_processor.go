package jobqueue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/HanaSeol/CardMoa/app/models"
	"github.com/HanaSeol/CardMoa/internal/pkg/aigen"
	"github.com/HanaSeol/CardMoa/internal/pkg/database"
)

// PhotoGenerator produces a styled photo and stores the result.
type PhotoGenerator interface {
	GenerateAndStore(ctx context.Context, photo *models.AiPhoto) (resultKey, resultURL string, err error)
}

var photoGenerator PhotoGenerator

// SetPhotoGenerator overrides the generator used by AI photo jobs (tests).
func SetPhotoGenerator(g PhotoGenerator) {
	photoGenerator = g
}

func getPhotoGenerator() PhotoGenerator {
	if photoGenerator == nil {
		photoGenerator = aigen.GetService()
	}
	return photoGenerator
}

// processAiPhotoJob runs one generation attempt. Infrastructure errors bubble
// up so the queue retries; a rejected style fails the job immediately.
func (q *Queue) processAiPhotoJob(ctx context.Context, job *Job) error {
	payload, err := AiPhotoJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid ai photo payload: %w", err)
	}

	db := database.GetDB()
	var photo models.AiPhoto
	if err := db.First(&photo, payload.AiPhotoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Row gone, nothing to generate or refund through this job.
			log.Warnf("[JobQueue] AI photo %d no longer exists, dropping job", payload.AiPhotoID)
			return nil
		}
		return err
	}
	if photo.IsFinished() {
		log.Infof("[JobQueue] AI photo %d already %s, skipping", photo.ID, photo.Status)
		return nil
	}

	if err := db.Model(&photo).Update("status", models.AiPhotoStatusProcessing).Error; err != nil {
		return err
	}

	resultKey, resultURL, err := getPhotoGenerator().GenerateAndStore(ctx, &photo)
	if err != nil {
		if errors.Is(err, aigen.ErrUnsupportedStyle) {
			// Provider will never accept this input, stop retrying.
			job.RetryCount = job.MaxRetries
		}
		return fmt.Errorf("generate ai photo %d: %w", photo.ID, err)
	}

	now := time.Now()
	return db.Model(&photo).Updates(map[string]interface{}{
		"status":       models.AiPhotoStatusCompleted,
		"result_key":   resultKey,
		"result_url":   resultURL,
		"error_msg":    "",
		"completed_at": &now,
	}).Error
}

// handlePermanentFailure runs after the last retry of a job was spent.
// For AI photo jobs this marks the row failed and refunds the credit that
// was deducted at enqueue time. Dispatch jobs need no compensation, the
// grant stays valid and the payment row keeps its paid status for operators.
func (q *Queue) handlePermanentFailure(ctx context.Context, job *Job) {
	if job.Type != JobTypeAiPhoto {
		return
	}

	payload, err := AiPhotoJobPayloadFromMap(job.Payload)
	if err != nil {
		log.Errorf("[JobQueue] Cannot decode failed AI photo job %s: %v", job.ID, err)
		return
	}

	db := database.GetDB()
	var photo models.AiPhoto
	if err := db.First(&photo, payload.AiPhotoID).Error; err != nil {
		log.Errorf("[JobQueue] Failed AI photo %d not found for refund: %v", payload.AiPhotoID, err)
		return
	}
	if photo.Refunded {
		return
	}

	if err := db.Model(&photo).Updates(map[string]interface{}{
		"status":    models.AiPhotoStatusFailed,
		"error_msg": job.ErrorMsg,
		"refunded":  true,
	}).Error; err != nil {
		log.Errorf("[JobQueue] Failed to mark AI photo %d failed: %v", photo.ID, err)
		return
	}

	if _, err := getPaymentsService().RefundCredit(ctx, photo.UserID, photo.ID, "ai photo failed"); err != nil {
		log.Errorf("[JobQueue] Failed to refund credit for AI photo %d: %v", photo.ID, err)
		return
	}
	log.Infof("[JobQueue] Refunded credit for failed AI photo %d (user %d)", photo.ID, photo.UserID)
}
