package media

import (
	"net/http"
	"time"

	"github.com/eventsfp/booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound      = apperror.New(http.StatusNotFound, "image not found")
	ErrNotAnImage    = apperror.New(http.StatusBadRequest, "uploaded file is not an image")
	ErrImageTooLarge = apperror.New(http.StatusRequestEntityTooLarge, "image exceeds the size limit")
	ErrNoThumbnail   = apperror.New(http.StatusNotFound, "thumbnail not available")
)

// Image is an uploaded event image with an optional generated thumbnail.
type Image struct {
	ID            string
	UploaderID    string
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

// URL returns the public path for the full-size image.
func URL(id string) string {
	return "/v1/media/" + id
}

// ThumbnailURL returns the public path for the image thumbnail.
func ThumbnailURL(id string) string {
	return "/v1/media/" + id + "/thumbnail"
}
