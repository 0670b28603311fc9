package server

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	apperrors "github.com/tomaskrat/videotube/internal/errors"
	"github.com/tomaskrat/videotube/internal/metrics"
)

func (s *Server) registerRoutes() {
	s.echo.Use(correlationMiddleware)
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(s.httpMetrics.Middleware())
	s.echo.Use(apperrors.Middleware())
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{s.config.CORSAllowedOrigin},
		AllowCredentials: s.config.CORSAllowedOrigin != "*",
	}))

	credentialLimiter := newRateLimiter(2, 5)

	s.echo.POST("/register", s.handleRegister, credentialLimiter)
	s.echo.POST("/login", s.handleLogin, credentialLimiter)
	s.echo.POST("/refresh-token", s.handleRefreshToken)
	s.echo.POST("/logout", s.handleLogout, s.requireAuth)
	s.echo.PATCH("/change-password", s.handleChangePassword, s.requireAuth)
	s.echo.GET("/current-user", s.handleCurrentUser, s.requireAuth)
	s.echo.PATCH("/update-account", s.handleUpdateAccount, s.requireAuth)
	s.echo.PATCH("/avatar", s.handleUpdateAvatar, s.requireAuth)
	s.echo.PATCH("/cover-image", s.handleUpdateCover, s.requireAuth)
	s.echo.GET("/c/:username", s.handleChannelProfile, s.requireAuth)
	s.echo.POST("/c/:username/subscribe", s.handleSubscribe, s.requireAuth)
	s.echo.DELETE("/c/:username/subscribe", s.handleUnsubscribe, s.requireAuth)
	s.echo.GET("/history", s.handleWatchHistory, s.requireAuth)
	s.echo.POST("/history/:videoId", s.handleRecordWatch, s.requireAuth)
	s.echo.POST("/videos", s.handlePublishVideo, s.requireAuth)
	s.echo.GET("/videos/:id", s.handleGetVideo, s.requireAuth)

	s.registerHealthRoutes()
	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler(s.registry)))
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.InfoContext(c.Request().Context(), "Request", attrs...)
			return nil
		},
	})
}
