package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Subscription is a directed edge: subscriber follows channel. Edges carry no
// uniqueness constraint; duplicate edges are counted as-is.
type Subscription struct {
	ID           uuid.UUID `json:"id"`
	SubscriberID uuid.UUID `json:"subscriberId"`
	ChannelID    uuid.UUID `json:"channelId"`
	CreatedAt    time.Time `json:"createdAt"`
}

type SubscriptionRepository interface {
	Create(ctx context.Context, subscriberID, channelID uuid.UUID) (*Subscription, error)
	// Delete removes every edge between subscriber and channel. Returns
	// ErrSubscriptionNotFound when no edge existed.
	Delete(ctx context.Context, subscriberID, channelID uuid.UUID) error

	CountForChannel(ctx context.Context, channelID uuid.UUID) (int64, error)
	CountForSubscriber(ctx context.Context, subscriberID uuid.UUID) (int64, error)
	Exists(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error)
}
