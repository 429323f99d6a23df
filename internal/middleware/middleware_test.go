package middleware

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return mr, rdb
}

type staticAdmins struct {
	emails map[string]bool
	err    error
}

func (s staticAdmins) IsAdmin(_ context.Context, email string) (bool, error) {
	return s.emails[email], s.err
}

func TestSession_LoginPersistsAndLoads(t *testing.T) {
	mr, rdb := setupRedis(t)
	app := fiber.New()
	app.Use(Session(rdb))
	app.Post("/login", func(c *fiber.Ctx) error {
		sid := RegenerateSessionID(c)
		SetSessionUser(c, SessionUser{UID: "1", Email: "admin@example.com", Name: "Admin"})
		cookie := SessionCookieConfig(SessionConfig{})
		cookie.Value = sid
		c.Cookie(&cookie)
		return c.SendString(sid)
	})
	app.Get("/whoami", RequireAuth(), func(c *fiber.Ctx) error {
		return c.SendString(SessionEmail(c))
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	sid := string(body)
	assert.True(t, mr.Exists(SessionRedisPrefix+sid))

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Cookie", SessionCookieName+"="+sid)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "admin@example.com", string(body))

	resp, err = app.Test(httptest.NewRequest("GET", "/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestSession_DestroyDoesNotResave(t *testing.T) {
	mr, rdb := setupRedis(t)
	require.NoError(t, mr.Set(SessionRedisPrefix+"abc", `{"user":{"email":"a@b.co"}}`))
	app := fiber.New()
	app.Use(Session(rdb))
	app.Delete("/logout", func(c *fiber.Ctx) error {
		_ = rdb.Del(c.UserContext(), SessionRedisPrefix+GetSessionID(c)).Err()
		DestroySession(c)
		return c.SendStatus(200)
	})

	req := httptest.NewRequest("DELETE", "/logout", nil)
	req.Header.Set("Cookie", SessionCookieName+"=abc")
	_, err := app.Test(req)
	require.NoError(t, err)
	assert.False(t, mr.Exists(SessionRedisPrefix+"abc"))
}

func withUser(email string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"email": email})
		return c.Next()
	}
}

func TestRequireAdmin(t *testing.T) {
	admins := staticAdmins{emails: map[string]bool{"admin@example.com": true}}
	ok := func(c *fiber.Ctx) error { return c.SendStatus(200) }

	cases := []struct {
		email string
		check AdminChecker
		want  int
	}{
		{"admin@example.com", admins, 200},
		{"guest@example.com", admins, 403},
		{"", admins, 401},
		{"admin@example.com", staticAdmins{err: errors.New("db down")}, 503},
	}
	for _, tc := range cases {
		app := fiber.New()
		app.Get("/x", withUser(tc.email), RequireAdmin(tc.check), ok)
		resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
		require.NoError(t, err)
		assert.Equal(t, tc.want, resp.StatusCode, tc.email)
	}
}

func TestCORS(t *testing.T) {
	app := fiber.New()
	app.Use(CORS(CORSConfig{AllowedOrigins: []string{"https://boda.example.com"}, AllowedSuffix: ".vercel.app", DevPassword: "pw"}))
	app.Get("/x", func(c *fiber.Ctx) error { return c.SendStatus(200) })

	check := func(origin, devPassword, method string) *httptestResult {
		req := httptest.NewRequest(method, "/x", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		if devPassword != "" {
			req.Header.Set("dev-password", devPassword)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return &httptestResult{status: resp.StatusCode, allowOrigin: resp.Header.Get("Access-Control-Allow-Origin")}
	}

	r := check("https://boda.example.com", "", "GET")
	assert.Equal(t, 200, r.status)
	assert.Equal(t, "https://boda.example.com", r.allowOrigin)
	assert.Equal(t, 200, check("https://preview.vercel.app", "", "GET").status)
	assert.Equal(t, 204, check("http://localhost:5173", "", "OPTIONS").status)
	assert.Equal(t, 200, check("https://evil.example.com", "pw", "GET").status)
	assert.Equal(t, 403, check("https://evil.example.com", "", "GET").status)
	assert.Equal(t, 200, check("", "", "GET").status)
}

type httptestResult struct {
	status      int
	allowOrigin string
}

func TestErrorHandler_LogsServerErrors(t *testing.T) {
	mr, rdb := setupRedis(t)
	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(rdb)})
	app.Use(Tracing())
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("kaboom") })
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-Id"))

	resp, err = app.Test(httptest.NewRequest("GET", "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)

	entries, err := mr.List(KeyErrorLog)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0], "kaboom")
}

func TestHealthMarker_CountsRequests(t *testing.T) {
	mr, rdb := setupRedis(t)
	app := fiber.New()
	app.Use(HealthMarker(rdb))
	app.Get("/api/x", func(c *fiber.Ctx) error { return c.SendStatus(200) })
	app.Get("/api/fail", func(c *fiber.Ctx) error { return c.SendStatus(503) })
	app.Get("/health/json", func(c *fiber.Ctx) error { return c.SendStatus(200) })

	for _, p := range []string{"/api/x", "/api/fail", "/health/json"} {
		_, err := app.Test(httptest.NewRequest("GET", p, nil))
		require.NoError(t, err)
	}
	total, _ := mr.Get(KeyReqTotal)
	assert.Equal(t, "2", total)
	errs, _ := mr.Get(KeyReqErrors)
	assert.Equal(t, "1", errs)
}

func TestTracing_ReusesValidHeader(t *testing.T) {
	app := fiber.New()
	app.Use(Tracing())
	app.Get("/x", func(c *fiber.Ctx) error { return c.SendString(GetTraceID(c)) })

	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("X-Trace-Id", "3f0c8d4e-8a8e-4b8f-9a4e-3a1b2c3d4e5f")
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "3f0c8d4e-8a8e-4b8f-9a4e-3a1b2c3d4e5f", string(body))

	req = httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("X-Trace-Id", "not-a-uuid")
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.NotEqual(t, "not-a-uuid", string(body))
}
