package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/tomaskrat/videotube/internal/domain"
)

// VideoService manages the video catalog. The media files themselves live in
// external object storage; this service records their references.
type VideoService struct {
	users  domain.UserRepository
	videos domain.VideoRepository
}

func NewVideoService(users domain.UserRepository, videos domain.VideoRepository) *VideoService {
	return &VideoService{users: users, videos: videos}
}

type PublishParams struct {
	OwnerID      uuid.UUID
	VideoURL     string
	ThumbnailURL string
	Title        string
	Description  string
	Duration     int
}

func (s *VideoService) Publish(ctx context.Context, params PublishParams) (*domain.Video, error) {
	return s.videos.Create(ctx, domain.CreateVideoParams{
		OwnerID:      params.OwnerID,
		VideoURL:     params.VideoURL,
		ThumbnailURL: params.ThumbnailURL,
		Title:        strings.TrimSpace(params.Title),
		Description:  strings.TrimSpace(params.Description),
		Duration:     params.Duration,
	})
}

// Get loads a video with its owner summary and counts the view.
func (s *VideoService) Get(ctx context.Context, videoID uuid.UUID) (*domain.Video, domain.OwnerSummary, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, domain.OwnerSummary{}, err
	}

	owners, err := s.users.OwnerSummaries(ctx, []uuid.UUID{video.OwnerID})
	if err != nil {
		return nil, domain.OwnerSummary{}, fmt.Errorf("failed to load video owner: %w", err)
	}

	if err := s.videos.IncrementViews(ctx, videoID); err != nil {
		// The read itself succeeded; a lost view count is not worth failing the request.
		slog.WarnContext(ctx, "failed to increment view count", "video_id", videoID, "error", err)
	}

	return video, owners[video.OwnerID], nil
}
