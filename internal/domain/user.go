package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID
	Username  string // stored lowercase
	Email     string
	Fullname  string
	AvatarURL string
	CoverURL  string

	// PasswordHash and RefreshToken never leave the backend. Every read
	// path that serializes a user goes through View().
	PasswordHash string
	// RefreshToken is the single live refresh token for this user, empty
	// after logout. Overwriting it invalidates the previous one.
	RefreshToken string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserView is the externally visible shape of a user record.
type UserView struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Fullname  string    `json:"fullname"`
	AvatarURL string    `json:"avatar"`
	CoverURL  string    `json:"coverImage"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) View() UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Fullname:  u.Fullname,
		AvatarURL: u.AvatarURL,
		CoverURL:  u.CoverURL,
		CreatedAt: u.CreatedAt,
	}
}

// OwnerSummary is the condensed owner record embedded in history entries.
type OwnerSummary struct {
	Fullname  string `json:"fullname"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar"`
}

type CreateUserParams struct {
	Username     string
	Email        string
	Fullname     string
	AvatarURL    string
	CoverURL     string
	PasswordHash string
}

type UserRepository interface {
	Create(ctx context.Context, params CreateUserParams) (*User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	// GetByLogin resolves either a username or an email address.
	GetByLogin(ctx context.Context, usernameOrEmail string) (*User, error)

	UpdateAccount(ctx context.Context, userID uuid.UUID, fullname, email string) (*User, error)
	UpdateAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) (*User, error)
	UpdateCover(ctx context.Context, userID uuid.UUID, coverURL string) (*User, error)
	UpdatePasswordHash(ctx context.Context, userID uuid.UUID, hash string) error

	// SetRefreshToken unconditionally overwrites the stored refresh token.
	SetRefreshToken(ctx context.Context, userID uuid.UUID, token string) error
	// SwapRefreshToken replaces the stored refresh token only if it still
	// equals old. Returns ErrTokenInvalid when it does not, so that a
	// replayed refresh token loses the race.
	SwapRefreshToken(ctx context.Context, userID uuid.UUID, old, replacement string) error
	// ClearRefreshToken removes the stored refresh token. Idempotent.
	ClearRefreshToken(ctx context.Context, userID uuid.UUID) error

	// WatchHistory returns watched video IDs in append order, duplicates included.
	WatchHistory(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	AppendWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error

	OwnerSummaries(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]OwnerSummary, error)
}
