// Package token mints and verifies the signed access and refresh tokens.
// The two token kinds use distinct HMAC secrets and distinct expiries;
// verification here is purely cryptographic and never consults storage.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/tomaskrat/videotube/internal/domain"
)

const issuer = "videotube"

type Config struct {
	AccessSecret  []byte
	AccessTTL     time.Duration
	RefreshSecret []byte
	RefreshTTL    time.Duration
}

// Claims is the payload carried by both token kinds.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// Manager signs and parses token pairs. Safe for concurrent use.
type Manager struct {
	config Config
	clock  clockwork.Clock
}

func NewManager(cfg Config, clock clockwork.Clock) (*Manager, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("token secrets must not be empty")
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}
	return &Manager{config: cfg, clock: clock}, nil
}

// MintAccess signs a short-lived access token for the given user.
func (m *Manager) MintAccess(userID uuid.UUID) (string, error) {
	return m.mint(userID, m.config.AccessSecret, m.config.AccessTTL)
}

// MintRefresh signs a long-lived refresh token for the given user.
func (m *Manager) MintRefresh(userID uuid.UUID) (string, error) {
	return m.mint(userID, m.config.RefreshSecret, m.config.RefreshTTL)
}

func (m *Manager) mint(userID uuid.UUID, secret []byte, ttl time.Duration) (string, error) {
	now := m.clock.Now()
	claims := Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			// JWT timestamps have one-second granularity, so without a unique
			// ID two tokens minted within the same second would be identical
			// and a superseded refresh token would still match the stored one.
			ID:        uuid.NewString(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseAccess verifies an access token and returns the user ID it carries.
// Returns domain.ErrTokenExpired for an elapsed expiry and domain.ErrTokenInvalid
// for anything else wrong with the token.
func (m *Manager) ParseAccess(tokenStr string) (uuid.UUID, error) {
	return m.parse(tokenStr, m.config.AccessSecret)
}

// ParseRefresh verifies a refresh token and returns the user ID it carries.
func (m *Manager) ParseRefresh(tokenStr string) (uuid.UUID, error) {
	return m.parse(tokenStr, m.config.RefreshSecret)
}

func (m *Manager) parse(tokenStr string, secret []byte) (uuid.UUID, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.clock.Now),
	)

	var claims Claims
	token, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, domain.ErrTokenExpired
		}
		return uuid.Nil, domain.ErrTokenInvalid
	}
	if !token.Valid {
		return uuid.Nil, domain.ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, domain.ErrTokenInvalid
	}

	return userID, nil
}
