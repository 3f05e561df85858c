package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventsfp/booking-backend/internal/pkg/storage"
)

const (
	maxImageBytes = 10 << 20 // 10 MiB
	thumbWidth    = 400
	thumbHeight   = 300
)

type Service interface {
	// Upload stores an event image and generates a thumbnail.
	Upload(ctx context.Context, header *multipart.FileHeader, uploaderID string) (*Image, error)
	Get(ctx context.Context, id string) (*Image, error)
	Download(ctx context.Context, id string) (io.ReadCloser, *Image, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Image, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo      Repository
	storage   storage.Storage
	processor *storage.ImageProcessor
	logger    *zap.Logger
}

func NewService(repo Repository, store storage.Storage, logger *zap.Logger) Service {
	return &service{
		repo:      repo,
		storage:   store,
		processor: storage.NewImageProcessor(),
		logger:    logger,
	}
}

func (s *service) Upload(ctx context.Context, header *multipart.FileHeader, uploaderID string) (*Image, error) {
	if header.Size > maxImageBytes {
		return nil, ErrImageTooLarge
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotAnImage
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file failed: %w", err)
	}
	defer src.Close()

	// Buffered so the content can be saved and thumbnailed from one read.
	content, err := io.ReadAll(io.LimitReader(src, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read uploaded file failed: %w", err)
	}
	if int64(len(content)) > maxImageBytes {
		return nil, ErrImageTooLarge
	}

	id := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(header.Filename))
	shard := id[:2]
	storagePath := fmt.Sprintf("media/%s/%s%s", shard, id, ext)

	if err := s.storage.Save(ctx, storagePath, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("save image failed: %w", err)
	}

	// A failed thumbnail never fails the upload.
	var thumbnailPath *string
	if thumb, err := s.processor.Thumbnail(bytes.NewReader(content), thumbWidth, thumbHeight); err == nil {
		tPath := fmt.Sprintf("media/%s/%s_thumb.jpg", shard, id)
		if err := s.storage.Save(ctx, tPath, thumb); err == nil {
			thumbnailPath = &tPath
		} else {
			s.logger.Warn("failed to save thumbnail", zap.String("image_id", id), zap.Error(err))
		}
	} else {
		s.logger.Warn("failed to generate thumbnail", zap.String("image_id", id), zap.Error(err))
	}

	img := &Image{
		ID:            id,
		UploaderID:    uploaderID,
		Filename:      header.Filename,
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   contentType,
		Size:          int64(len(content)),
	}

	if err := s.repo.Create(ctx, img); err != nil {
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

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *Image, error) {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	stream, err := s.storage.Get(ctx, img.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve image failed: %w", err)
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
		return nil, nil, fmt.Errorf("retrieve thumbnail failed: %w", err)
	}
	return stream, img, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, img.StoragePath); err != nil {
		s.logger.Warn("failed to delete stored image", zap.String("image_id", id), zap.Error(err))
	}
	if img.ThumbnailPath != nil {
		_ = s.storage.Delete(ctx, *img.ThumbnailPath)
	}
	return s.repo.Delete(ctx, id)
}
