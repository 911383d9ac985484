package aigen

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2/log"
	"github.com/rwcarlsen/goexif/exif"

	"github.com/HanaSeol/CardMoa/app/models"
)

const thumbnailWidth = 400

// Service runs the full generation pipeline for one AI photo: normalize the
// source, call the provider, store the result and a thumbnail.
type Service struct {
	provider *ProviderClient
	storage  *Storage
	config   *Config
}

var (
	globalService *Service
	serviceOnce   sync.Once
	serviceErr    error
)

// GetService returns the global AI generation service (singleton).
func GetService() *Service {
	serviceOnce.Do(func() {
		cfg, err := LoadConfig()
		if err != nil {
			serviceErr = err
			log.Errorf("[AiGen] Service unavailable: %v", err)
			return
		}
		storage, err := NewStorage(cfg)
		if err != nil {
			serviceErr = err
			log.Errorf("[AiGen] Service unavailable: %v", err)
			return
		}
		globalService = &Service{
			provider: NewProviderClient(cfg.ProviderURL, cfg.ProviderKey),
			storage:  storage,
			config:   cfg,
		}
	})
	return globalService
}

// NewService builds a service from explicit parts (tests).
func NewService(provider *ProviderClient, storage *Storage, cfg *Config) *Service {
	return &Service{provider: provider, storage: storage, config: cfg}
}

// GenerateAndStore runs one generation attempt for the photo and returns the
// object key and public URL of the stored result.
func (s *Service) GenerateAndStore(ctx context.Context, photo *models.AiPhoto) (string, string, error) {
	if s == nil {
		return "", "", fmt.Errorf("aigen: service not configured: %w", serviceErr)
	}

	source, err := loadNormalizedSource(photo.SourcePath)
	if err != nil {
		return "", "", fmt.Errorf("load source for photo %s: %w", photo.UUID, err)
	}

	result, err := s.provider.Generate(ctx, photo.Style, source)
	if err != nil {
		return "", "", err
	}

	now := time.Now()
	resultKey := s.config.GetObjectKey(photo.UUID, now, false)
	resultURL, err := s.storage.Put(ctx, resultKey, result)
	if err != nil {
		return "", "", err
	}

	// Thumbnail failure is not worth retrying the whole generation for.
	if thumb, terr := makeThumbnail(result); terr == nil {
		thumbKey := s.config.GetObjectKey(photo.UUID, now, true)
		if _, perr := s.storage.Put(ctx, thumbKey, thumb); perr != nil {
			log.Warnf("[AiGen] Thumbnail upload failed for %s: %v", photo.UUID, perr)
		}
	} else {
		log.Warnf("[AiGen] Thumbnail encode failed for %s: %v", photo.UUID, terr)
	}

	return resultKey, resultURL, nil
}

// DeleteResult removes stored objects for a photo record.
func (s *Service) DeleteResult(ctx context.Context, photo *models.AiPhoto) error {
	if s == nil || photo.ResultKey == "" {
		return nil
	}
	return s.storage.Delete(ctx, photo.ResultKey)
}

// loadNormalizedSource reads the uploaded source and bakes the EXIF
// orientation into the pixels so the provider sees an upright image.
func loadNormalizedSource(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode source image: %w", err)
	}

	img = applyOrientation(img, raw)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(92)); err != nil {
		return nil, fmt.Errorf("encode source image: %w", err)
	}
	return buf.Bytes(), nil
}

func applyOrientation(img image.Image, raw []byte) image.Image {
	meta, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return img
	}
	tag, err := meta.Get(exif.Orientation)
	if err != nil {
		return img
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return img
	}

	switch orientation {
	case 3:
		return imaging.Rotate180(img)
	case 6:
		return imaging.Rotate270(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

func makeThumbnail(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
