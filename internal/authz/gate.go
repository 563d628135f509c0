// Package authz is the single authorization checkpoint for privileged pages
// and mutations. Every check queries current role rows; there is deliberately
// no cache, so a revoked admin loses access on their very next request.
package authz

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/diewo77/go-portale/internal/auth"
	"github.com/diewo77/go-portale/internal/httpx"
	"github.com/diewo77/go-portale/internal/models"
)

// Gate answers role-membership questions and performs role mutations.
type Gate struct {
	db *gorm.DB

	// signInURL and homeURL build redirect targets for browser requests;
	// the app sets them so redirects keep the active locale prefix.
	signInURL func(*http.Request) string
	homeURL   func(*http.Request) string
}

// NewGate creates a gate over the given database.
func NewGate(db *gorm.DB) *Gate {
	return &Gate{
		db:        db,
		signInURL: func(*http.Request) string { return "/auth/sign-in" },
		homeURL:   func(*http.Request) string { return "/" },
	}
}

// SetRedirects overrides the sign-in and home redirect builders used by the
// middleware for HTML requests.
func (g *Gate) SetRedirects(signIn, home func(*http.Request) string) {
	if signIn != nil {
		g.signInURL = signIn
	}
	if home != nil {
		g.homeURL = home
	}
}

// HasRole reports whether a (userID, role) assignment currently exists.
func (g *Gate) HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).
		Model(&models.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("role lookup: %w", err)
	}
	return count > 0, nil
}

// requireAdmin resolves the caller's admin standing for a privileged mutation.
func (g *Gate) requireAdmin(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthenticated
	}
	ok, err := g.HasRole(ctx, userID, models.RolePlatformAdmin)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

// Grant assigns role to targetID. The grantor must be a platform admin.
// Granting an already-held role is a no-op, not an error.
func (g *Gate) Grant(ctx context.Context, grantorID, targetID uuid.UUID, role string) error {
	if err := g.requireAdmin(ctx, grantorID); err != nil {
		return err
	}
	if !models.KnownRole(role) {
		return ErrUnknownRole
	}
	assignment := models.UserRole{UserID: targetID, Role: role, GrantedBy: &grantorID}
	err := g.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", targetID, role).
		FirstOrCreate(&assignment).Error
	if err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	return nil
}

// Revoke removes role from targetID. The revoker must be a platform admin.
// Removing the last remaining platform_admin row fails with ErrLastAdmin and
// revoking platform_admin from oneself fails with ErrSelfRevocation, so the
// system can never talk itself out of all administrators. The last-admin
// check runs first: a sole admin revoking themselves gets the more specific
// answer.
func (g *Gate) Revoke(ctx context.Context, revokerID, targetID uuid.UUID, role string) error {
	if err := g.requireAdmin(ctx, revokerID); err != nil {
		return err
	}
	if !models.KnownRole(role) {
		return ErrUnknownRole
	}
	if role == models.RolePlatformAdmin {
		held, err := g.HasRole(ctx, targetID, role)
		if err != nil {
			return err
		}
		if held {
			var admins int64
			err := g.db.WithContext(ctx).
				Model(&models.UserRole{}).
				Where("role = ?", models.RolePlatformAdmin).
				Count(&admins).Error
			if err != nil {
				return fmt.Errorf("admin count: %w", err)
			}
			if admins <= 1 {
				return ErrLastAdmin
			}
		}
		if targetID == revokerID {
			return ErrSelfRevocation
		}
	}
	err := g.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", targetID, role).
		Delete(&models.UserRole{}).Error
	if err != nil {
		return fmt.Errorf("revoke role: %w", err)
	}
	return nil
}

// RequireAdmin returns middleware that only lets platform admins through.
// Anonymous browsers are redirected to sign-in, non-admins to the home page;
// JSON clients get 401/403 instead.
func (g *Gate) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				if httpx.WantsJSON(r) {
					httpx.JSONError(w, http.StatusUnauthorized, "unauthenticated", nil)
					return
				}
				http.Redirect(w, r, g.signInURL(r), http.StatusSeeOther)
				return
			}
			isAdmin, err := g.HasRole(r.Context(), userID, models.RolePlatformAdmin)
			if err != nil || !isAdmin {
				if httpx.WantsJSON(r) {
					httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
					return
				}
				http.Redirect(w, r, g.homeURL(r), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
