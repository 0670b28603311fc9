package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Video metadata. The video file and thumbnail live in external object
// storage; only their references are recorded here.
type Video struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"ownerId"`
	VideoURL     string    `json:"videoFile"`
	ThumbnailURL string    `json:"thumbnail"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Duration     int       `json:"duration"` // seconds
	Views        int64     `json:"views"`
	IsPublished  bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type CreateVideoParams struct {
	OwnerID      uuid.UUID
	VideoURL     string
	ThumbnailURL string
	Title        string
	Description  string
	Duration     int
}

type VideoRepository interface {
	Create(ctx context.Context, params CreateVideoParams) (*Video, error)
	GetByID(ctx context.Context, videoID uuid.UUID) (*Video, error)
	// GetByIDs fetches the given videos keyed by ID. Missing IDs are
	// simply absent from the result.
	GetByIDs(ctx context.Context, videoIDs []uuid.UUID) (map[uuid.UUID]*Video, error)
	IncrementViews(ctx context.Context, videoID uuid.UUID) error
}
