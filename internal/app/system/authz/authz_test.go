package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/contesthub/contesthub/internal/app/system/auth"
	"github.com/contesthub/contesthub/internal/domain/models"
)

func reqWithUser(role string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	return auth.WithTestUser(r, &auth.ContextUser{Email: "u@example.com", Name: "U", Role: role})
}

func TestUserCtx_Anonymous(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, _, _, ok := UserCtx(r); ok {
		t.Fatal("anonymous request reported a user")
	}
}

func TestUserCtx(t *testing.T) {
	role, name, email, ok := UserCtx(reqWithUser(models.RoleCreator))
	if !ok {
		t.Fatal("user not found")
	}
	if role != models.RoleCreator || name != "U" || email != "u@example.com" {
		t.Fatalf("got (%q, %q, %q)", role, name, email)
	}
}

func TestRoleHelpers(t *testing.T) {
	if !IsAdmin(reqWithUser(models.RoleAdmin)) {
		t.Error("IsAdmin false for admin")
	}
	if IsAdmin(reqWithUser(models.RoleCreator)) {
		t.Error("IsAdmin true for creator")
	}
	if !IsCreator(reqWithUser(models.RoleCreator)) {
		t.Error("IsCreator false for creator")
	}
	// Role checks are exact: admin is not a creator.
	if IsCreator(reqWithUser(models.RoleAdmin)) {
		t.Error("IsCreator true for admin")
	}
}

func TestHasAnyRole(t *testing.T) {
	r := reqWithUser(models.RoleCreator)
	if !HasAnyRole(r, models.RoleAdmin, models.RoleCreator) {
		t.Error("HasAnyRole false when role listed")
	}
	if HasAnyRole(r, models.RoleAdmin) {
		t.Error("HasAnyRole true when role not listed")
	}
	if HasAnyRole(httptest.NewRequest(http.MethodGet, "/", nil), models.RoleUser) {
		t.Error("HasAnyRole true for anonymous")
	}
}
