package http

import (
	"time"

	"github.com/tripwripp/booking-backend/internal/gallery"
)

type ImageResponse struct {
	ID           string    `json:"id"`
	TripID       string    `json:"trip_id"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewImageResponse(img *gallery.Image) ImageResponse {
	resp := ImageResponse{
		ID:          img.ID,
		TripID:      img.TripID,
		Filename:    img.Filename,
		ContentType: img.ContentType,
		Size:        img.Size,
		URL:         gallery.ImageURL(img.ID),
		CreatedAt:   img.CreatedAt,
	}
	if img.ThumbnailPath != nil {
		u := gallery.ThumbnailURL(img.ID)
		resp.ThumbnailURL = &u
	}
	return resp
}
