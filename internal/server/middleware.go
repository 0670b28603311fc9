package server

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tomaskrat/videotube/internal/correlation"
	"github.com/tomaskrat/videotube/internal/domain"
	apperrors "github.com/tomaskrat/videotube/internal/errors"
)

const (
	contextKeyUser   = "user"
	contextKeyUserID = "userID"
)

func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := correlation.WithID(c.Request().Context(), correlation.NewID())
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// requireAuth gates a route on a valid access token. The token is read from
// the accessToken cookie first; the Authorization bearer header is the
// fallback. The resolved user is stored on the request context.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenStr := accessTokenFrom(c)
		if tokenStr == "" {
			return apperrors.UnauthenticatedError("missing access token")
		}

		userID, err := s.auth.VerifyAccess(tokenStr)
		if err != nil {
			return err
		}

		user, err := s.auth.GetUser(c.Request().Context(), userID)
		if err != nil {
			// The token outlived the account.
			if serr := apperrors.AsStructuredError(err); serr.Type == apperrors.TypeNotFound {
				return apperrors.TokenInvalidError("invalid access token")
			}
			return err
		}

		// The attached identity never carries credential material.
		scrubbed := *user
		scrubbed.PasswordHash = ""
		scrubbed.RefreshToken = ""
		c.Set(contextKeyUser, &scrubbed)
		c.Set(contextKeyUserID, userID.String())
		return next(c)
	}
}

func accessTokenFrom(c echo.Context) string {
	if cookie, err := c.Cookie(accessCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}

func currentUser(c echo.Context) *domain.User {
	user, _ := c.Get(contextKeyUser).(*domain.User)
	return user
}
