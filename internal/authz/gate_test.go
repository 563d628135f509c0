package authz

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/go-portale/internal/models"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.UserRole{}))
	return db
}

func seedAdmin(t *testing.T, db *gorm.DB) uuid.UUID {
	id := uuid.New()
	require.NoError(t, db.Create(&models.UserRole{UserID: id, Role: models.RolePlatformAdmin}).Error)
	return id
}

func adminCount(t *testing.T, db *gorm.DB) int64 {
	var count int64
	require.NoError(t, db.Model(&models.UserRole{}).
		Where("role = ?", models.RolePlatformAdmin).
		Count(&count).Error)
	return count
}

func TestHasRoleFreshUser(t *testing.T) {
	db := setupTestDB(t, t.Name())
	g := NewGate(db)

	ok, err := g.HasRole(context.Background(), uuid.New(), models.RolePlatformAdmin)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGrantTakesEffectImmediately(t *testing.T) {
	db := setupTestDB(t, t.Name())
	g := NewGate(db)
	admin := seedAdmin(t, db)
	target := uuid.New()

	require.NoError(t, g.Grant(context.Background(), admin, target, models.RolePlatformAdmin))

	ok, err := g.HasRole(context.Background(), target, models.RolePlatformAdmin)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGrantIsIdempotent(t *testing.T) {
	db := setupTestDB(t, t.Name())
	g := NewGate(db)
	admin := seedAdmin(t, db)
	target := uuid.New()

	require.NoError(t, g.Grant(context.Background(), admin, target, models.RolePlatformAdmin))
	require.NoError(t, g.Grant(context.Background(), admin, target, models.RolePlatformAdmin))

	var count int64
	require.NoError(t, db.Model(&models.UserRole{}).
		Where("user_id = ? AND role = ?", target, models.RolePlatformAdmin).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGrantRequiresAdmin(t *testing.T) {
	db := setupTestDB(t, t.Name())
	g := NewGate(db)

	err := g.Grant(context.Background(), uuid.New(), uuid.New(), models.RolePlatformAdmin)
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = g.Grant(context.Background(), uuid.Nil, uuid.New(), models.RolePlatformAdmin)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestGrantUnknownRole(t *testing.T) {
	db := setupTestDB(t, t.Name())
	g := NewGate(db)
	admin := seedAdmin(t, db)

	err := g.Grant(context.Background(), admin, uuid.New(), "superuser")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestRevokeTakesEffectImmediately(t *testing.T) {
	db := setupTestDB(t, t.Name())
	g := NewGate(db)
	admin := seedAdmin(t, db)
	target := uuid.New()
	require.NoError(t, g.Grant(context.Background(), admin, target, models.RolePlatformAdmin))

	require.NoError(t, g.Revoke(context.Background(), admin, target, models.RolePlatformAdmin))

	ok, err := g.HasRole(context.Background(), target, models.RolePlatformAdmin)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRevokeSelfRejected(t *testing.T) {
	db := setupTestDB(t, t.Name())
	g := NewGate(db)
	admin := seedAdmin(t, db)
	seedAdmin(t, db)

	err := g.Revoke(context.Background(), admin, admin, models.RolePlatformAdmin)
	assert.ErrorIs(t, err, ErrSelfRevocation)

	// The assignment must be untouched.
	ok, err := g.HasRole(context.Background(), admin, models.RolePlatformAdmin)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(2), adminCount(t, db))
}

func TestRevokeSoleAdminRejected(t *testing.T) {
	db := setupTestDB(t, t.Name())
	g := NewGate(db)
	sole := seedAdmin(t, db)

	err := g.Revoke(context.Background(), sole, sole, models.RolePlatformAdmin)
	assert.ErrorIs(t, err, ErrLastAdmin)
	assert.Equal(t, int64(1), adminCount(t, db))
}

func TestRevokeNonAdminRoleFromSelf(t *testing.T) {
	db := setupTestDB(t, t.Name())
	g := NewGate(db)
	admin := seedAdmin(t, db)
	require.NoError(t, g.Grant(context.Background(), admin, admin, models.RoleSocietyManager))

	// The self and last-admin guards only cover platform_admin.
	require.NoError(t, g.Revoke(context.Background(), admin, admin, models.RoleSocietyManager))

	ok, err := g.HasRole(context.Background(), admin, models.RoleSocietyManager)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRevokeMissingAssignmentIsNoop(t *testing.T) {
	db := setupTestDB(t, t.Name())
	g := NewGate(db)
	admin := seedAdmin(t, db)

	require.NoError(t, g.Revoke(context.Background(), admin, uuid.New(), models.RolePlatformAdmin))
	assert.Equal(t, int64(1), adminCount(t, db))
}

func TestRevokeRequiresAdmin(t *testing.T) {
	db := setupTestDB(t, t.Name())
	g := NewGate(db)
	target := seedAdmin(t, db)

	err := g.Revoke(context.Background(), uuid.New(), target, models.RolePlatformAdmin)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
