package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tomaskrat/videotube/internal/app"
	"github.com/tomaskrat/videotube/internal/domain"
	apperrors "github.com/tomaskrat/videotube/internal/errors"
)

type publishVideoRequest struct {
	VideoFile   string `json:"videoFile"`
	Thumbnail   string `json:"thumbnail"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
}

func (s *Server) handlePublishVideo(c echo.Context) error {
	var req publishVideoRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	for name, value := range map[string]string{
		"videoFile": req.VideoFile,
		"thumbnail": req.Thumbnail,
		"title":     req.Title,
	} {
		if strings.TrimSpace(value) == "" {
			return apperrors.ValidationError(name + " is required")
		}
	}
	if req.Duration < 0 {
		return apperrors.ValidationError("duration must not be negative")
	}

	user := currentUser(c)
	video, err := s.videos.Publish(c.Request().Context(), app.PublishParams{
		OwnerID:      user.ID,
		VideoURL:     req.VideoFile,
		ThumbnailURL: req.Thumbnail,
		Title:        req.Title,
		Description:  req.Description,
		Duration:     req.Duration,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, video, "video published successfully")
}

type videoResponse struct {
	domain.Video
	Owner domain.OwnerSummary `json:"owner"`
}

func (s *Server) handleGetVideo(c echo.Context) error {
	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid video id")
	}

	video, owner, err := s.videos.Get(c.Request().Context(), videoID)
	if err != nil {
		return err
	}

	resp := videoResponse{Video: *video, Owner: owner}
	return respond(c, http.StatusOK, resp, "video fetched successfully")
}
