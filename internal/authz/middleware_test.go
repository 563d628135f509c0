package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/go-portale/internal/auth"
	"github.com/diewo77/go-portale/internal/models"
)

func protected(g *Gate) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return g.RequireAdmin()(ok)
}

func TestRequireAdminAnonymousRedirectsToSignIn(t *testing.T) {
	db := setupTestDB(t, t.Name())
	g := NewGate(db)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	protected(g).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/sign-in", rec.Header().Get("Location"))
}

func TestRequireAdminAnonymousJSONGets401(t *testing.T) {
	db := setupTestDB(t, t.Name())
	g := NewGate(db)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	protected(g).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdminNonAdminRedirectsHome(t *testing.T) {
	db := setupTestDB(t, t.Name())
	g := NewGate(db)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()
	protected(g).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestRequireAdminNonAdminJSONGets403(t *testing.T) {
	db := setupTestDB(t, t.Name())
	g := NewGate(db)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Accept", "application/json")
	req = req.WithContext(auth.WithUserID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()
	protected(g).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdminLetsAdminThrough(t *testing.T) {
	db := setupTestDB(t, t.Name())
	g := NewGate(db)
	admin := seedAdmin(t, db)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), admin))
	rec := httptest.NewRecorder()
	protected(g).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdminRevocationIsImmediate(t *testing.T) {
	db := setupTestDB(t, t.Name())
	g := NewGate(db)
	admin := seedAdmin(t, db)
	target := seedAdmin(t, db)
	h := protected(g)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), target))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, g.Revoke(req.Context(), admin, target, models.RolePlatformAdmin))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}
