package gallery

import (
	"net/http"
	"time"

	"github.com/tripwripp/booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound    = apperror.New(http.StatusNotFound, "image not found")
	ErrNoThumbnail = apperror.New(http.StatusNotFound, "thumbnail not available")
	ErrNotImage    = apperror.New(http.StatusBadRequest, "uploaded file is not an image")
)

// Image is one gallery photo attached to a trip.
type Image struct {
	ID            string    `json:"id"`
	TripID        string    `json:"trip_id"`
	Filename      string    `json:"filename"`
	StoragePath   string    `json:"-"` // Internal path
	ThumbnailPath *string   `json:"-"` // Internal path
	ContentType   string    `json:"content_type"`
	Size          int64     `json:"size"`
	CreatedAt     time.Time `json:"created_at"`
}

// ImageURL returns the public URL for an image by its ID.
func ImageURL(id string) string {
	return "/v1/gallery/" + id
}

// ThumbnailURL returns the public URL for an image's thumbnail by its ID.
func ThumbnailURL(id string) string {
	return "/v1/gallery/" + id + "/thumbnail"
}
