// Package server exposes the HTTP surface: authentication, channel and
// video endpoints, the watch history, and operational routes. Handlers
// translate between the wire envelope and the application services; they
// carry no business rules of their own.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tomaskrat/videotube/internal/app"
	"github.com/tomaskrat/videotube/internal/config"
	"github.com/tomaskrat/videotube/internal/metrics"
)

const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"
)

type Server struct {
	echo   *echo.Echo
	config *config.Config

	auth     *app.AuthService
	profiles *app.ProfileService
	videos   *app.VideoService

	httpMetrics *metrics.HTTPMetrics
	authMetrics *metrics.AuthMetrics
	registry    *prometheus.Registry

	healthChecks []HealthCheck
	startTime    time.Time
}

func NewServer(cfg *config.Config, auth *app.AuthService, profiles *app.ProfileService, videos *app.VideoService, registry *prometheus.Registry, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		config:       cfg,
		auth:         auth,
		profiles:     profiles,
		videos:       videos,
		httpMetrics:  metrics.NewHTTPMetrics(registry),
		authMetrics:  metrics.NewAuthMetrics(registry),
		registry:     registry,
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) setAuthCookies(c echo.Context, accessToken, refreshToken string) {
	c.SetCookie(s.authCookie(accessCookieName, accessToken, s.config.AccessTokenTTL))
	c.SetCookie(s.authCookie(refreshCookieName, refreshToken, s.config.RefreshTokenTTL))
}

func (s *Server) clearAuthCookies(c echo.Context) {
	c.SetCookie(s.authCookie(accessCookieName, "", -time.Second))
	c.SetCookie(s.authCookie(refreshCookieName, "", -time.Second))
}

func (s *Server) authCookie(name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.config.AppEnv == "production",
		SameSite: http.SameSiteLaxMode,
	}
}
