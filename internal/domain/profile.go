package domain

import "github.com/google/uuid"

// ChannelProfile is the denormalized per-viewer channel view: the channel's
// public fields joined with subscription counts and the viewer's own
// subscription flag.
type ChannelProfile struct {
	ID                     uuid.UUID `json:"id"`
	Username               string    `json:"username"`
	Fullname               string    `json:"fullname"`
	Email                  string    `json:"email"`
	AvatarURL              string    `json:"avatar"`
	CoverURL               string    `json:"coverImage"`
	SubscriberCount        int64     `json:"subscriberCount"`
	ChannelSubscribedCount int64     `json:"channelSubscribedCount"`
	IsSubscribed           bool      `json:"isSubscribed"`
}

// HistoryEntry is one watched video with its owner embedded. A video watched
// twice produces two entries.
type HistoryEntry struct {
	Video Video        `json:"video"`
	Owner OwnerSummary `json:"owner"`
}
