package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/AndyRamoss/Invitacion-Andy/internal/config"
	"github.com/AndyRamoss/Invitacion-Andy/internal/infrastructure/database"
	"github.com/AndyRamoss/Invitacion-Andy/internal/middleware"
	"github.com/AndyRamoss/Invitacion-Andy/internal/pkg/metrics"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminSession = "test-session"

func setupApp(t *testing.T) *fiber.App {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	require.NoError(t, mr.Set(middleware.SessionRedisPrefix+adminSession, `{"user":{"uid":"1","email":"admin@example.com","name":"Admin"}}`))

	cfg := &config.Config{
		Env:             "test",
		BootstrapAdmins: []string{"Admin@Example.com"},
		AllowedQuotas:   []int{2, 4, 6, 10},
		PublicBaseURL:   "https://boda.example.com",
		HealthAdminKey:  "secret",
	}
	app, err := NewApp(cfg, &Deps{DB: db, Rdb: rdb, Metrics: metrics.New()})
	require.NoError(t, err)
	return app
}

func request(t *testing.T, app *fiber.App, method, path string, body interface{}, session string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.Header.Set("Cookie", middleware.SessionCookieName+"="+session)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

func TestAdminRoutes_RequireSession(t *testing.T) {
	app := setupApp(t)
	status, body := request(t, app, "GET", "/api/v1/stats/view-stats", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, string(body), "UNAUTHENTICATED")

	status, _ = request(t, app, "GET", "/api/v1/stats/view-stats", nil, adminSession)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestInvitationFlow(t *testing.T) {
	app := setupApp(t)

	status, _ := request(t, app, "POST", "/api/v1/invitations/create-invitation",
		map[string]interface{}{"name": "Ana", "maxGuests": 2, "customCode": "ANA123"}, adminSession)
	require.Equal(t, fiber.StatusCreated, status)

	status, _ = request(t, app, "GET", "/api/v1/invitations/public/view/ANA123", nil, "")
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = request(t, app, "POST", "/api/v1/invitations/public/rsvp",
		map[string]interface{}{"code": "ANA123", "attendance": "yes", "guestsCount": 2}, "")
	assert.Equal(t, fiber.StatusOK, status)

	status, body := request(t, app, "GET", "/api/v1/stats/view-stats", nil, adminSession)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), `"confirmedTotal":2`)

	status, body = request(t, app, "GET", "/metrics", nil, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), "rsvp_submissions_total")
}

func TestHealthJSON(t *testing.T) {
	app := setupApp(t)
	status, body := request(t, app, "GET", "/health/json", nil, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), `"status":"ok"`)
}

func TestLogin_WithoutClientID(t *testing.T) {
	app := setupApp(t)
	status, _ := request(t, app, "POST", "/api/v1/auth/login", map[string]string{"id_token": "x"}, "")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}

func TestLogin_RateLimited(t *testing.T) {
	app := setupApp(t)
	for i := 0; i < authRateMax; i++ {
		status, _ := request(t, app, "POST", "/api/v1/auth/login", map[string]string{"id_token": "x"}, "")
		require.Equal(t, fiber.StatusServiceUnavailable, status)
	}
	status, body := request(t, app, "POST", "/api/v1/auth/login", map[string]string{"id_token": "x"}, "")
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.Contains(t, string(body), "RATE_LIMITED")

	// Session reads are not counted against the login budget.
	status, _ = request(t, app, "GET", "/api/v1/auth/me", nil, adminSession)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestAuthMe_RequiresSession(t *testing.T) {
	app := setupApp(t)
	status, body := request(t, app, "GET", "/api/v1/auth/me", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, string(body), "UNAUTHENTICATED")

	status, body = request(t, app, "GET", "/api/v1/auth/me", nil, adminSession)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), "admin@example.com")

	status, _ = request(t, app, "DELETE", "/api/v1/auth/logout", nil, "")
	assert.Equal(t, fiber.StatusOK, status)
}
