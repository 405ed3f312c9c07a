package gallery

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tripwripp/booking-backend/internal/pkg/storage"
	"github.com/tripwripp/booking-backend/internal/trip"
)

type Service interface {
	// Upload stores a gallery image for a trip and generates a thumbnail.
	Upload(ctx context.Context, header *multipart.FileHeader, tripID string) (*Image, error)
	Get(ctx context.Context, id string) (*Image, error)
	ListByTrip(ctx context.Context, tripID string) ([]*Image, error)
	Delete(ctx context.Context, id string) error
	Download(ctx context.Context, id string) (io.ReadCloser, *Image, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Image, error)
}

type service struct {
	repo    Repository
	trips   trip.Service
	storage storage.Storage
	imgProc *storage.ImageProcessor
}

func NewService(repo Repository, trips trip.Service, store storage.Storage) Service {
	return &service{
		repo:    repo,
		trips:   trips,
		storage: store,
		imgProc: storage.NewImageProcessor(),
	}
}

func (s *service) Upload(ctx context.Context, header *multipart.FileHeader, tripID string) (*Image, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, err
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotImage
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	// Buffer the content; gallery photos are small enough for that, and
	// the bytes are read twice (original save + thumbnail).
	fileBytes, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}

	imageID := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(header.Filename))

	// Sharding path: gallery/ab/UUID.ext
	shard := imageID[:2]
	storagePath := fmt.Sprintf("gallery/%s/%s%s", shard, imageID, ext)

	if err := s.storage.Save(ctx, storagePath, bytes.NewReader(fileBytes)); err != nil {
		return nil, fmt.Errorf("failed to save image to storage: %w", err)
	}

	// Thumbnail failures don't fail the upload; the full image remains
	// servable.
	var thumbnailPath *string
	if thumbReader, err := s.imgProc.GenerateThumbnail(bytes.NewReader(fileBytes), 320, 240); err == nil {
		tPath := fmt.Sprintf("gallery/%s/%s_thumb.jpg", shard, imageID)
		if err := s.storage.Save(ctx, tPath, thumbReader); err == nil {
			thumbnailPath = &tPath
		}
	}

	img := &Image{
		ID:            imageID,
		TripID:        tripID,
		Filename:      header.Filename,
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   contentType,
		Size:          header.Size,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, img); err != nil {
		// Cleanup storage if persisting the record fails.
		_ = s.storage.Delete(ctx, storagePath)
		if thumbnailPath != nil {
			_ = s.storage.Delete(ctx, *thumbnailPath)
		}
		return nil, err
	}

	return img, nil
}

func (s *service) Get(ctx context.Context, id string) (*Image, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByTrip(ctx context.Context, tripID string) ([]*Image, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, err
	}
	return s.repo.ListByTrip(ctx, tripID)
}

func (s *service) Delete(ctx context.Context, id string) error {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Best-effort storage cleanup before dropping the record.
	_ = s.storage.Delete(ctx, img.StoragePath)
	if img.ThumbnailPath != nil {
		_ = s.storage.Delete(ctx, *img.ThumbnailPath)
	}

	return s.repo.Delete(ctx, id)
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *Image, error) {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.storage.Get(ctx, img.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve image from storage: %w", err)
	}

	return stream, img, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Image, error) {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if img.ThumbnailPath == nil {
		return nil, nil, ErrNoThumbnail
	}

	stream, err := s.storage.Get(ctx, *img.ThumbnailPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve thumbnail from storage: %w", err)
	}

	return stream, img, nil
}
