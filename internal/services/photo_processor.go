package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/storage"
)

const thumbMaxSize = 320

// PhotoProcessor derives thumbnail variants of answer photos so the dashboard
// can list non-conformities without pulling full-size captures.
type PhotoProcessor struct {
	storage storage.Driver
}

func NewPhotoProcessor(storageDriver storage.Driver) *PhotoProcessor {
	return &PhotoProcessor{storage: storageDriver}
}

// CreateThumbnail reads the stored photo, resizes it within
// thumbMaxSize x thumbMaxSize keeping aspect ratio, and stores the result as
// a JPEG next to the original.
func (p *PhotoProcessor) CreateThumbnail(ctx context.Context, storagePath string) error {
	reader, err := p.storage.GetReader(ctx, storagePath)
	if err != nil {
		return fmt.Errorf("failed to read photo: %w", err)
	}
	defer reader.Close()

	srcImage, err := imaging.Decode(reader)
	if err != nil {
		return fmt.Errorf("failed to decode photo: %w", err)
	}

	thumb := imaging.Fit(srcImage, thumbMaxSize, thumbMaxSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG); err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	if _, _, err := p.storage.Upload(ctx, &buf, thumbnailPath(storagePath)); err != nil {
		return fmt.Errorf("failed to store thumbnail: %w", err)
	}

	return nil
}

// thumbnailPath maps a photo path to its thumbnail path.
// Thumbnails are always JPEG regardless of the source format.
func thumbnailPath(storagePath string) string {
	ext := filepath.Ext(storagePath)
	return strings.TrimSuffix(storagePath, ext) + "_thumb.jpg"
}
