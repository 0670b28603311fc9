package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "github.com/tomaskrat/videotube/internal/errors"
)

func (s *Server) handleWatchHistory(c echo.Context) error {
	user := currentUser(c)

	history, err := s.profiles.WatchHistory(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, history, "watch history fetched successfully")
}

func (s *Server) handleRecordWatch(c echo.Context) error {
	videoID, err := uuid.Parse(c.Param("videoId"))
	if err != nil {
		return apperrors.ValidationError("invalid video id")
	}

	user := currentUser(c)
	if err := s.profiles.RecordWatch(c.Request().Context(), user.ID, videoID); err != nil {
		return err
	}

	return respond(c, http.StatusCreated, nil, "watch recorded successfully")
}
