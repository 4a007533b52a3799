package services

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/storage"
)

var allowedPhotoTypes = []string{".jpg", ".jpeg", ".png", ".webp"}

// StoredPhoto identifies a photo written to storage.
type StoredPhoto struct {
	StoragePath string
	PublicURL   string
}

// UploadService writes answer photos to the configured storage driver and
// produces a thumbnail variant for each.
type UploadService struct {
	storage     storage.Driver
	processor   *PhotoProcessor
	maxFileSize int64
}

func NewUploadService(storageDriver storage.Driver, maxFileSize int64) *UploadService {
	return &UploadService{
		storage:     storageDriver,
		processor:   NewPhotoProcessor(storageDriver),
		maxFileSize: maxFileSize,
	}
}

// ValidatePhoto validates a photo before upload
func (s *UploadService) ValidatePhoto(file *multipart.FileHeader) error {
	if s.maxFileSize > 0 && file.Size > s.maxFileSize {
		return fmt.Errorf("file %s exceeds maximum size of %d bytes", file.Filename, s.maxFileSize)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	for _, allowed := range allowedPhotoTypes {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("file type %s not allowed", ext)
}

// StorePhoto uploads a non-conformity photo for an execution.
// The filename is a fresh uuid so retried submissions never collide.
func (s *UploadService) StorePhoto(ctx context.Context, file *multipart.FileHeader, executionID uuid.UUID) (*StoredPhoto, error) {
	if err := s.ValidatePhoto(file); err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	storagePath := fmt.Sprintf("%s/%s", executionID.String(), filename)

	finalPath, publicURL, err := s.storage.Upload(ctx, src, storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to upload photo: %w", err)
	}

	// Thumbnail is best effort. A missing thumb never blocks an answer.
	if err := s.processor.CreateThumbnail(ctx, finalPath); err != nil {
		log.Printf("WARNING: failed to create thumbnail for %s: %v", finalPath, err)
	}

	return &StoredPhoto{StoragePath: finalPath, PublicURL: publicURL}, nil
}

// Remove deletes a stored photo and its thumbnail. Compensating action when
// the answer insert fails after the photo was written.
func (s *UploadService) Remove(ctx context.Context, storagePath string) error {
	if err := s.storage.Delete(ctx, storagePath); err != nil {
		return fmt.Errorf("failed to remove photo: %w", err)
	}
	if err := s.storage.Delete(ctx, thumbnailPath(storagePath)); err != nil {
		log.Printf("WARNING: failed to remove thumbnail for %s: %v", storagePath, err)
	}
	return nil
}
