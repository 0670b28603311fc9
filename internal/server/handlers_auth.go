package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tomaskrat/videotube/internal/app"
	"github.com/tomaskrat/videotube/internal/domain"
	apperrors "github.com/tomaskrat/videotube/internal/errors"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
	Cover    string `json:"coverImage"`
}

func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	for name, value := range map[string]string{
		"username": req.Username,
		"email":    req.Email,
		"fullname": req.Fullname,
		"password": req.Password,
		"avatar":   req.Avatar,
	} {
		if strings.TrimSpace(value) == "" {
			return apperrors.ValidationError(name + " is required")
		}
	}

	user, err := s.auth.Register(c.Request().Context(), app.RegisterParams{
		Username:  req.Username,
		Email:     req.Email,
		Fullname:  req.Fullname,
		Password:  req.Password,
		AvatarURL: req.Avatar,
		CoverURL:  req.Cover,
	})
	if err != nil {
		return err
	}

	s.authMetrics.Registrations.Inc()
	return respond(c, http.StatusCreated, user.View(), "user registered successfully")
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User         domain.UserView `json:"user"`
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	login := req.Username
	if strings.TrimSpace(login) == "" {
		login = req.Email
	}
	if strings.TrimSpace(login) == "" {
		return apperrors.ValidationError("username or email is required")
	}
	if req.Password == "" {
		return apperrors.ValidationError("password is required")
	}

	user, pair, err := s.auth.Login(c.Request().Context(), login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTooManyAttempts):
			s.authMetrics.Logins.WithLabelValues("throttled").Inc()
		case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUserNotFound):
			s.authMetrics.Logins.WithLabelValues("rejected").Inc()
		default:
			s.authMetrics.Logins.WithLabelValues("error").Inc()
		}
		return err
	}

	s.authMetrics.Logins.WithLabelValues("success").Inc()
	s.setAuthCookies(c, pair.AccessToken, pair.RefreshToken)

	resp := loginResponse{
		User:         user.View(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
	return respond(c, http.StatusOK, resp, "user logged in successfully")
}

func (s *Server) handleLogout(c echo.Context) error {
	user := currentUser(c)

	if err := s.auth.Revoke(c.Request().Context(), user.ID); err != nil {
		return err
	}

	s.clearAuthCookies(c)
	return respond(c, http.StatusOK, nil, "user logged out successfully")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) handleRefreshToken(c echo.Context) error {
	presented := ""
	if cookie, err := c.Cookie(refreshCookieName); err == nil {
		presented = cookie.Value
	}
	if presented == "" {
		var req refreshRequest
		if err := c.Bind(&req); err == nil {
			presented = req.RefreshToken
		}
	}

	_, pair, err := s.auth.Rotate(c.Request().Context(), presented)
	if err != nil {
		// Rotate collapses expiry into ErrTokenInvalid, so rejected covers
		// every bad-token cause.
		switch {
		case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrUnauthenticated):
			s.authMetrics.TokenRotations.WithLabelValues("rejected").Inc()
		default:
			s.authMetrics.TokenRotations.WithLabelValues("error").Inc()
		}
		return err
	}

	s.authMetrics.TokenRotations.WithLabelValues("success").Inc()
	s.setAuthCookies(c, pair.AccessToken, pair.RefreshToken)

	return respond(c, http.StatusOK, pair, "access token refreshed")
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (s *Server) handleChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return apperrors.ValidationError("oldPassword and newPassword are required")
	}

	user := currentUser(c)
	if err := s.auth.ChangePassword(c.Request().Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}

	return respond(c, http.StatusOK, nil, "password changed successfully")
}

func (s *Server) handleCurrentUser(c echo.Context) error {
	user := currentUser(c)
	return respond(c, http.StatusOK, user.View(), "current user fetched successfully")
}

type updateAccountRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
}

func (s *Server) handleUpdateAccount(c echo.Context) error {
	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if strings.TrimSpace(req.Fullname) == "" || strings.TrimSpace(req.Email) == "" {
		return apperrors.ValidationError("fullname and email are required")
	}

	user := currentUser(c)
	updated, err := s.auth.UpdateAccount(c.Request().Context(), user.ID, req.Fullname, req.Email)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, updated.View(), "account updated successfully")
}

type updateAvatarRequest struct {
	Avatar string `json:"avatar"`
}

func (s *Server) handleUpdateAvatar(c echo.Context) error {
	var req updateAvatarRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if strings.TrimSpace(req.Avatar) == "" {
		return apperrors.ValidationError("avatar is required")
	}

	user := currentUser(c)
	updated, err := s.auth.UpdateAvatar(c.Request().Context(), user.ID, req.Avatar)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, updated.View(), "avatar updated successfully")
}

type updateCoverRequest struct {
	Cover string `json:"coverImage"`
}

func (s *Server) handleUpdateCover(c echo.Context) error {
	var req updateCoverRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if strings.TrimSpace(req.Cover) == "" {
		return apperrors.ValidationError("coverImage is required")
	}

	user := currentUser(c)
	updated, err := s.auth.UpdateCover(c.Request().Context(), user.ID, req.Cover)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, updated.View(), "cover image updated successfully")
}
