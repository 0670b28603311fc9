package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomaskrat/videotube/internal/domain"
)

// --- In-memory repository fakes ---

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*domain.User
	history map[uuid.UUID][]uuid.UUID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[uuid.UUID]*domain.User),
		history: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, params domain.CreateUserParams) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == params.Username || u.Email == params.Email {
			return nil, domain.ErrDuplicateUser
		}
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     params.Username,
		Email:        params.Email,
		Fullname:     params.Fullname,
		AvatarURL:    params.AvatarURL,
		CoverURL:     params.CoverURL,
		PasswordHash: params.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[user.ID] = user

	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByLogin(_ context.Context, usernameOrEmail string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == usernameOrEmail || strings.EqualFold(u.Email, usernameOrEmail) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateAccount(_ context.Context, userID uuid.UUID, fullname, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.Fullname = fullname
	user.Email = email
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) UpdateAvatar(_ context.Context, userID uuid.UUID, avatarURL string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.AvatarURL = avatarURL
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) UpdateCover(_ context.Context, userID uuid.UUID, coverURL string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.CoverURL = coverURL
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) UpdatePasswordHash(_ context.Context, userID uuid.UUID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.PasswordHash = hash
	return nil
}

func (r *fakeUserRepo) SetRefreshToken(_ context.Context, userID uuid.UUID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.RefreshToken = token
	return nil
}

func (r *fakeUserRepo) SwapRefreshToken(_ context.Context, userID uuid.UUID, old, replacement string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if user.RefreshToken != old {
		return domain.ErrTokenInvalid
	}
	user.RefreshToken = replacement
	return nil
}

func (r *fakeUserRepo) ClearRefreshToken(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.RefreshToken = ""
	return nil
}

func (r *fakeUserRepo) WatchHistory(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := r.history[userID]
	out := make([]uuid.UUID, len(history))
	copy(out, history)
	return out, nil
}

func (r *fakeUserRepo) AppendWatchHistory(_ context.Context, userID, videoID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.history[userID] = append(r.history[userID], videoID)
	return nil
}

func (r *fakeUserRepo) OwnerSummaries(_ context.Context, userIDs []uuid.UUID) (map[uuid.UUID]domain.OwnerSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[uuid.UUID]domain.OwnerSummary, len(userIDs))
	for _, id := range userIDs {
		if u, ok := r.users[id]; ok {
			out[id] = domain.OwnerSummary{
				Fullname:  u.Fullname,
				Username:  u.Username,
				AvatarURL: u.AvatarURL,
			}
		}
	}
	return out, nil
}

type fakeSubscriptionRepo struct {
	mu    sync.Mutex
	edges []domain.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{}
}

func (r *fakeSubscriptionRepo) Create(_ context.Context, subscriberID, channelID uuid.UUID) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub := domain.Subscription{
		ID:           uuid.New(),
		SubscriberID: subscriberID,
		ChannelID:    channelID,
		CreatedAt:    time.Now(),
	}
	r.edges = append(r.edges, sub)
	return &sub, nil
}

func (r *fakeSubscriptionRepo) Delete(_ context.Context, subscriberID, channelID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.edges[:0]
	removed := 0
	for _, e := range r.edges {
		if e.SubscriberID == subscriberID && e.ChannelID == channelID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.edges = kept

	if removed == 0 {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}

func (r *fakeSubscriptionRepo) CountForChannel(_ context.Context, channelID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, e := range r.edges {
		if e.ChannelID == channelID {
			n++
		}
	}
	return n, nil
}

func (r *fakeSubscriptionRepo) CountForSubscriber(_ context.Context, subscriberID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, e := range r.edges {
		if e.SubscriberID == subscriberID {
			n++
		}
	}
	return n, nil
}

func (r *fakeSubscriptionRepo) Exists(_ context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.edges {
		if e.SubscriberID == subscriberID && e.ChannelID == channelID {
			return true, nil
		}
	}
	return false, nil
}

type fakeVideoRepo struct {
	mu     sync.Mutex
	videos map[uuid.UUID]*domain.Video
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: make(map[uuid.UUID]*domain.Video)}
}

func (r *fakeVideoRepo) Create(_ context.Context, params domain.CreateVideoParams) (*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	video := &domain.Video{
		ID:           uuid.New(),
		OwnerID:      params.OwnerID,
		VideoURL:     params.VideoURL,
		ThumbnailURL: params.ThumbnailURL,
		Title:        params.Title,
		Description:  params.Description,
		Duration:     params.Duration,
		IsPublished:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.videos[video.ID] = video

	copied := *video
	return &copied, nil
}

func (r *fakeVideoRepo) GetByID(_ context.Context, videoID uuid.UUID) (*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	video, ok := r.videos[videoID]
	if !ok {
		return nil, domain.ErrVideoNotFound
	}
	copied := *video
	return &copied, nil
}

func (r *fakeVideoRepo) GetByIDs(_ context.Context, videoIDs []uuid.UUID) (map[uuid.UUID]*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[uuid.UUID]*domain.Video, len(videoIDs))
	for _, id := range videoIDs {
		if v, ok := r.videos[id]; ok {
			copied := *v
			out[id] = &copied
		}
	}
	return out, nil
}

func (r *fakeVideoRepo) IncrementViews(_ context.Context, videoID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	video, ok := r.videos[videoID]
	if !ok {
		return domain.ErrVideoNotFound
	}
	video.Views++
	return nil
}
