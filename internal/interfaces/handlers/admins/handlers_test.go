package admins

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	adminsvc "github.com/AndyRamoss/Invitacion-Andy/internal/application/admins"
	"github.com/AndyRamoss/Invitacion-Andy/internal/infrastructure/database"
	"github.com/AndyRamoss/Invitacion-Andy/internal/infrastructure/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAdminsApp(t *testing.T, sessionEmail string) (*fiber.App, *adminsvc.Service) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	svc := &adminsvc.Service{Admins: &store.AdminStore{DB: db}, Audit: &store.InvitationStore{DB: db}}
	_, err = svc.Seed(context.Background(), []string{"root@example.com"})
	require.NoError(t, err)

	h := &Handlers{Service: svc}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"email": sessionEmail})
		return c.Next()
	})
	app.Get("/admins", h.ViewAdmins)
	app.Post("/admins", h.AddAdmin)
	app.Delete("/admins/:email", h.RemoveAdmin)
	return app, svc
}

func postAdmin(t *testing.T, app *fiber.App, email string) int {
	body, _ := json.Marshal(AddAdminRequest{Email: email})
	req := httptest.NewRequest("POST", "/admins", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAddAdmin(t *testing.T) {
	app, svc := setupAdminsApp(t, "root@example.com")

	assert.Equal(t, fiber.StatusCreated, postAdmin(t, app, "Nueva@Example.com"))
	assert.Equal(t, fiber.StatusConflict, postAdmin(t, app, "nueva@example.com"))
	assert.Equal(t, fiber.StatusBadRequest, postAdmin(t, app, "not-an-email"))

	ok, err := svc.IsAdmin(context.Background(), "nueva@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestViewAdmins(t *testing.T) {
	app, _ := setupAdminsApp(t, "root@example.com")
	resp, err := app.Test(httptest.NewRequest("GET", "/admins", nil))
	require.NoError(t, err)
	var body struct {
		Data []struct {
			Email string `json:"email"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "root@example.com", body.Data[0].Email)
}

func TestRemoveAdmin(t *testing.T) {
	app, _ := setupAdminsApp(t, "root@example.com")

	resp, err := app.Test(httptest.NewRequest("DELETE", "/admins/root@example.com", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/admins/ghost@example.com", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	require.Equal(t, fiber.StatusCreated, postAdmin(t, app, "otra@example.com"))
	resp, err = app.Test(httptest.NewRequest("DELETE", "/admins/otra@example.com", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
