package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tomaskrat/videotube/internal/domain"
)

// ProfileService is the read-side join engine. Both operations re-read
// storage on every call; there is no cache in between.
type ProfileService struct {
	users  domain.UserRepository
	subs   domain.SubscriptionRepository
	videos domain.VideoRepository
}

func NewProfileService(users domain.UserRepository, subs domain.SubscriptionRepository, videos domain.VideoRepository) *ProfileService {
	return &ProfileService{users: users, subs: subs, videos: videos}
}

// ChannelProfile joins the target user's record with subscription counts in
// both directions and the viewer's own subscription flag. Duplicate edges
// are counted as-is.
func (s *ProfileService) ChannelProfile(ctx context.Context, viewerID uuid.UUID, username string) (*domain.ChannelProfile, error) {
	target, err := s.users.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, err
	}

	subscriberCount, err := s.subs.CountForChannel(ctx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count subscribers: %w", err)
	}

	subscribedToCount, err := s.subs.CountForSubscriber(ctx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count subscribed channels: %w", err)
	}

	isSubscribed, err := s.subs.Exists(ctx, viewerID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check subscription: %w", err)
	}

	return &domain.ChannelProfile{
		ID:                     target.ID,
		Username:               target.Username,
		Fullname:               target.Fullname,
		Email:                  target.Email,
		AvatarURL:              target.AvatarURL,
		CoverURL:               target.CoverURL,
		SubscriberCount:        subscriberCount,
		ChannelSubscribedCount: subscribedToCount,
		IsSubscribed:           isSubscribed,
	}, nil
}

// WatchHistory resolves the viewer's stored history sequence to full video
// records with an owner summary embedded per entry. Stored order is
// preserved and duplicates render their own entries.
func (s *ProfileService) WatchHistory(ctx context.Context, viewerID uuid.UUID) ([]domain.HistoryEntry, error) {
	videoIDs, err := s.users.WatchHistory(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if len(videoIDs) == 0 {
		return []domain.HistoryEntry{}, nil
	}

	videos, err := s.videos.GetByIDs(ctx, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load history videos: %w", err)
	}

	ownerIDs := make([]uuid.UUID, 0, len(videos))
	seen := make(map[uuid.UUID]struct{}, len(videos))
	for _, v := range videos {
		if _, ok := seen[v.OwnerID]; ok {
			continue
		}
		seen[v.OwnerID] = struct{}{}
		ownerIDs = append(ownerIDs, v.OwnerID)
	}

	owners, err := s.users.OwnerSummaries(ctx, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load video owners: %w", err)
	}

	entries := make([]domain.HistoryEntry, 0, len(videoIDs))
	for _, id := range videoIDs {
		video, ok := videos[id]
		if !ok {
			// The video was removed after being watched; the entry
			// has nothing left to render.
			continue
		}
		entries = append(entries, domain.HistoryEntry{
			Video: *video,
			Owner: owners[video.OwnerID],
		})
	}

	return entries, nil
}

// Subscribe adds a viewer→channel edge. Edges are not unique; subscribing
// twice records two edges.
func (s *ProfileService) Subscribe(ctx context.Context, viewerID uuid.UUID, channelUsername string) (*domain.Subscription, error) {
	channel, err := s.users.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(channelUsername)))
	if err != nil {
		return nil, err
	}
	if channel.ID == viewerID {
		return nil, domain.ErrSelfSubscription
	}

	return s.subs.Create(ctx, viewerID, channel.ID)
}

// Unsubscribe removes every edge between the viewer and the channel.
func (s *ProfileService) Unsubscribe(ctx context.Context, viewerID uuid.UUID, channelUsername string) error {
	channel, err := s.users.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(channelUsername)))
	if err != nil {
		return err
	}

	return s.subs.Delete(ctx, viewerID, channel.ID)
}

// RecordWatch appends a history entry for the viewer. Re-watching a video
// appends again rather than moving the earlier entry.
func (s *ProfileService) RecordWatch(ctx context.Context, viewerID, videoID uuid.UUID) error {
	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		return err
	}

	return s.users.AppendWatchHistory(ctx, viewerID, videoID)
}
