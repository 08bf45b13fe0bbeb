// Package authz provides request-scoped role helpers layered on auth.
package authz

import (
	"net/http"

	"github.com/contesthub/contesthub/internal/app/system/auth"
	"github.com/contesthub/contesthub/internal/domain/models"
)

// UserCtx returns the verified user's role, name, email, and a found flag.
// ok=false means the request is anonymous.
func UserCtx(r *http.Request) (role, name, email string, ok bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return "", "", "", false
	}
	return u.Role, u.Name, u.Email, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleAdmin
}

// IsCreator reports whether the current request's user is a creator.
func IsCreator(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleCreator
}

// HasAnyRole reports whether the current request's user has any of the
// given roles. Roles are exact matches.
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == want {
			return true
		}
	}
	return false
}
