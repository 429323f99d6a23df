package admins

import (
	"context"
	"testing"

	"github.com/AndyRamoss/Invitacion-Andy/internal/domain"
	"github.com/AndyRamoss/Invitacion-Andy/internal/infrastructure/database"
	"github.com/AndyRamoss/Invitacion-Andy/internal/infrastructure/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAdminsTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	return &Service{Admins: &store.AdminStore{DB: db}, Audit: &store.InvitationStore{DB: db}}, db
}

func TestIsAdmin_OnlyFromTable(t *testing.T) {
	svc, _ := setupAdminsTest(t)
	ctx := context.Background()

	ok, err := svc.IsAdmin(ctx, "root@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := svc.Seed(ctx, []string{"Root@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	ok, err = svc.IsAdmin(ctx, " ROOT@example.com ")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsAdmin(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSeed_Idempotent(t *testing.T) {
	svc, _ := setupAdminsTest(t)
	ctx := context.Background()
	_, err := svc.Seed(ctx, []string{"a@example.com", "b@example.com"})
	require.NoError(t, err)
	n, err := svc.Seed(ctx, []string{"a@example.com", "b@example.com"})
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := svc.ListAdmins(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestAddAdmin(t *testing.T) {
	svc, db := setupAdminsTest(t)
	ctx := context.Background()

	a, err := svc.AddAdmin(ctx, " New@Example.com", "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", a.Email)
	assert.Equal(t, "root@example.com", a.AddedBy)

	_, err = svc.AddAdmin(ctx, "new@example.com", "root@example.com")
	assert.ErrorIs(t, err, ErrAdminExists)
	_, err = svc.AddAdmin(ctx, "bad", "root@example.com")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	var n int64
	require.NoError(t, db.Model(&domain.LogEntry{}).Where("action = ?", domain.ActionAdminAdded).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestRemoveAdmin(t *testing.T) {
	svc, _ := setupAdminsTest(t)
	ctx := context.Background()
	_, err := svc.Seed(ctx, []string{"root@example.com", "other@example.com"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.RemoveAdmin(ctx, "ROOT@example.com", "root@example.com"), ErrCannotRemoveSelf)
	assert.ErrorIs(t, svc.RemoveAdmin(ctx, "ghost@example.com", "root@example.com"), ErrNotFound)

	require.NoError(t, svc.RemoveAdmin(ctx, "other@example.com", "root@example.com"))
	ok, err := svc.IsAdmin(ctx, "other@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.Seed(ctx, []string{"third@example.com"})
	require.NoError(t, err)
	require.NoError(t, svc.RemoveAdmin(ctx, "root@example.com", "third@example.com"))
	assert.ErrorIs(t, svc.RemoveAdmin(ctx, "third@example.com", "cli@example.com"), ErrLastAdmin)
}
