package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "github.com/tomaskrat/videotube/internal/errors"
)

func (s *Server) handleChannelProfile(c echo.Context) error {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		return apperrors.ValidationError("username is required")
	}

	user := currentUser(c)
	profile, err := s.profiles.ChannelProfile(c.Request().Context(), user.ID, username)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, profile, "channel profile fetched successfully")
}

func (s *Server) handleSubscribe(c echo.Context) error {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		return apperrors.ValidationError("username is required")
	}

	user := currentUser(c)
	sub, err := s.profiles.Subscribe(c.Request().Context(), user.ID, username)
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, sub, "subscribed successfully")
}

func (s *Server) handleUnsubscribe(c echo.Context) error {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		return apperrors.ValidationError("username is required")
	}

	user := currentUser(c)
	if err := s.profiles.Unsubscribe(c.Request().Context(), user.ID, username); err != nil {
		return err
	}

	return respond(c, http.StatusOK, nil, "unsubscribed successfully")
}
