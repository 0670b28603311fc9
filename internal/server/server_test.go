package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/tomaskrat/videotube/internal/app"
	"github.com/tomaskrat/videotube/internal/config"
	"github.com/tomaskrat/videotube/internal/metrics"
	"github.com/tomaskrat/videotube/internal/password"
	"github.com/tomaskrat/videotube/internal/token"
)

type testEnv struct {
	srv    *Server
	clock  *clockwork.FakeClock
	users  *fakeUserRepo
	videos *fakeVideoRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		AppEnv:          "test",
		Port:            "0",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 240 * time.Hour,
	}

	clock := clockwork.NewFakeClock()
	manager, err := token.NewManager(token.Config{
		AccessSecret:  []byte("access-secret-for-tests-0123456789ab"),
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshSecret: []byte("refresh-secret-for-tests-0123456789a"),
		RefreshTTL:    cfg.RefreshTokenTTL,
	}, clock)
	require.NoError(t, err)

	hasher, err := password.NewHasher(password.Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	require.NoError(t, err)

	users := newFakeUserRepo()
	subs := &fakeSubscriptionRepo{}
	videos := newFakeVideoRepo()

	authSvc := app.NewAuthService(users, manager, hasher, nil)
	profileSvc := app.NewProfileService(users, subs, videos)
	videoSvc := app.NewVideoService(users, videos)

	srv := NewServer(cfg, authSvc, profileSvc, videoSvc, metrics.NewRegistry(), nil)

	return &testEnv{srv: srv, clock: clock, users: users, videos: videos}
}

type testRequest struct {
	method  string
	path    string
	body    string
	cookies []*http.Cookie
	headers map[string]string
}

func (e *testEnv) do(t *testing.T, req testRequest) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if req.body != "" {
		body = strings.NewReader(req.body)
	}

	httpReq := httptest.NewRequest(req.method, req.path, body)
	if req.body != "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range req.cookies {
		httpReq.AddCookie(cookie)
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(rec, httpReq)
	return rec
}

// register creates a user through the real endpoint.
func (e *testEnv) register(t *testing.T, username string) {
	t.Helper()

	rec := e.do(t, testRequest{
		method: http.MethodPost,
		path:   "/register",
		body: `{
			"username": "` + username + `",
			"email": "` + username + `@example.com",
			"fullname": "Test ` + username + `",
			"password": "secret1",
			"avatar": "https://cdn.example.com/` + username + `.png"
		}`,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

// login logs a user in and returns the two auth cookies.
func (e *testEnv) login(t *testing.T, username string) []*http.Cookie {
	t.Helper()

	rec := e.do(t, testRequest{
		method: http.MethodPost,
		path:   "/login",
		body:   `{"username": "` + username + `", "password": "secret1"}`,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	return cookies
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func cookieNamed(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()

	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not found", name)
	return nil
}
