package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/tomaskrat/videotube/internal/domain"
	"github.com/tomaskrat/videotube/internal/password"
	"github.com/tomaskrat/videotube/internal/token"
)

// LoginThrottle limits repeated credential failures per login name. A nil
// throttle disables limiting.
type LoginThrottle interface {
	// Allow returns domain.ErrTooManyAttempts once the failure budget for
	// key is exhausted.
	Allow(ctx context.Context, key string) error
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// AuthService owns the account and session-token lifecycle: registration,
// credential verification, token issue/rotate/revoke, and account field
// updates.
type AuthService struct {
	users    domain.UserRepository
	tokens   *token.Manager
	hasher   *password.Hasher
	throttle LoginThrottle
}

func NewAuthService(users domain.UserRepository, tokens *token.Manager, hasher *password.Hasher, throttle LoginThrottle) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		hasher:   hasher,
		throttle: throttle,
	}
}

type RegisterParams struct {
	Fullname  string
	Email     string
	Username  string
	Password  string
	AvatarURL string
	CoverURL  string
}

// Register creates a new account. The username is case-normalized to
// lowercase before storage so profile lookups are case-insensitive.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (*domain.User, error) {
	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, domain.CreateUserParams{
		Username:     strings.ToLower(strings.TrimSpace(params.Username)),
		Email:        strings.ToLower(strings.TrimSpace(params.Email)),
		Fullname:     strings.TrimSpace(params.Fullname),
		AvatarURL:    params.AvatarURL,
		CoverURL:     params.CoverURL,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies the submitted credential against the stored hash and issues
// a fresh token pair. The login name may be a username or an email address.
func (s *AuthService) Login(ctx context.Context, login, pwd string) (*domain.User, domain.TokenPair, error) {
	login = strings.ToLower(strings.TrimSpace(login))

	if s.throttle != nil {
		if err := s.throttle.Allow(ctx, login); err != nil {
			return nil, domain.TokenPair{}, err
		}
	}

	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}

	ok, err := s.hasher.Verify(pwd, user.PasswordHash)
	if err != nil {
		return nil, domain.TokenPair{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		if s.throttle != nil {
			if terr := s.throttle.RecordFailure(ctx, login); terr != nil {
				slog.WarnContext(ctx, "failed to record login failure", "error", terr)
			}
		}
		return nil, domain.TokenPair{}, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if terr := s.throttle.Reset(ctx, login); terr != nil {
			slog.WarnContext(ctx, "failed to reset login throttle", "error", terr)
		}
	}

	pair, err := s.Issue(ctx, user.ID)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}

	return user, pair, nil
}

// Issue mints a fresh access/refresh pair and persists the refresh token as
// the user's single live one, invalidating whatever was stored before.
func (s *AuthService) Issue(ctx context.Context, userID uuid.UUID) (domain.TokenPair, error) {
	access, err := s.tokens.MintAccess(userID)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to mint access token: %w", err)
	}
	refresh, err := s.tokens.MintRefresh(userID)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to mint refresh token: %w", err)
	}

	if err := s.users.SetRefreshToken(ctx, userID, refresh); err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Rotate exchanges a refresh token for a new pair. The presented token must
// both verify cryptographically and equal the stored one; both failure causes
// surface as domain.ErrTokenInvalid so callers cannot distinguish an expired
// token from a replayed one. When two rotations race with the same token, the
// conditional swap in the repository lets at most one win.
func (s *AuthService) Rotate(ctx context.Context, presented string) (*domain.User, domain.TokenPair, error) {
	if presented == "" {
		return nil, domain.TokenPair{}, domain.ErrUnauthenticated
	}

	userID, err := s.tokens.ParseRefresh(presented)
	if err != nil {
		return nil, domain.TokenPair{}, domain.ErrTokenInvalid
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.TokenPair{}, domain.ErrTokenInvalid
		}
		return nil, domain.TokenPair{}, err
	}

	access, err := s.tokens.MintAccess(userID)
	if err != nil {
		return nil, domain.TokenPair{}, fmt.Errorf("failed to mint access token: %w", err)
	}
	refresh, err := s.tokens.MintRefresh(userID)
	if err != nil {
		return nil, domain.TokenPair{}, fmt.Errorf("failed to mint refresh token: %w", err)
	}

	if err := s.users.SwapRefreshToken(ctx, userID, presented, refresh); err != nil {
		return nil, domain.TokenPair{}, err
	}

	return user, domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Revoke clears the stored refresh token (logout). Idempotent.
func (s *AuthService) Revoke(ctx context.Context, userID uuid.UUID) error {
	return s.users.ClearRefreshToken(ctx, userID)
}

// VerifyAccess checks an access token's signature and expiry and resolves it
// to a user ID. Storage is not consulted.
func (s *AuthService) VerifyAccess(tokenStr string) (uuid.UUID, error) {
	if tokenStr == "" {
		return uuid.Nil, domain.ErrUnauthenticated
	}
	return s.tokens.ParseAccess(tokenStr)
}

// GetUser loads a user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ChangePassword re-verifies the old credential before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPwd, newPwd string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(oldPwd, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return domain.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPwd)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.users.UpdatePasswordHash(ctx, userID, hash)
}

// UpdateAccount updates display name and email.
func (s *AuthService) UpdateAccount(ctx context.Context, userID uuid.UUID, fullname, email string) (*domain.User, error) {
	return s.users.UpdateAccount(ctx, userID, strings.TrimSpace(fullname), strings.ToLower(strings.TrimSpace(email)))
}

// UpdateAvatar replaces the stored avatar reference.
func (s *AuthService) UpdateAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) (*domain.User, error) {
	return s.users.UpdateAvatar(ctx, userID, avatarURL)
}

// UpdateCover replaces the stored cover-image reference.
func (s *AuthService) UpdateCover(ctx context.Context, userID uuid.UUID, coverURL string) (*domain.User, error) {
	return s.users.UpdateCover(ctx, userID, coverURL)
}
