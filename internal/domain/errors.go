package domain

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrVideoNotFound        = errors.New("video not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrDuplicateUser        = errors.New("username or email already taken")
	ErrSelfSubscription     = errors.New("cannot subscribe to own channel")
	ErrInvalidCredentials   = errors.New("invalid credentials")

	// ErrUnauthenticated means no usable credential was presented.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrTokenExpired    = errors.New("token expired")
	// ErrTokenInvalid covers both a cryptographically bad refresh token and
	// one that no longer matches storage. Callers cannot tell the two apart.
	ErrTokenInvalid = errors.New("invalid token")

	ErrTooManyAttempts = errors.New("too many failed attempts")
)
