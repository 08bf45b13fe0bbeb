package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	userstore "github.com/contesthub/contesthub/internal/app/store/users"
	"github.com/contesthub/contesthub/internal/app/system/apperr"
	"github.com/contesthub/contesthub/internal/app/system/auth"
	"github.com/contesthub/contesthub/internal/domain/models"
	"github.com/contesthub/contesthub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// mapVerifier maps tokens to emails.
type mapVerifier map[string]string

func (v mapVerifier) Verify(_ context.Context, token string) (string, error) {
	email, ok := v[token]
	if !ok {
		return "", apperr.New(apperr.Unauthorized, "invalid credential")
	}
	return email, nil
}

func newServer(t *testing.T, db *mongo.Database, verifier mapVerifier) http.Handler {
	t.Helper()
	store := userstore.New(db)
	log := zap.NewNop()
	h := NewHandler(store, log)
	m := &auth.Middleware{Verifier: verifier, Users: store, Log: log}

	root := http.NewServeMux()
	root.Handle("/", m.Verify(Routes(h, m)))
	return root
}

func TestRegister(t *testing.T) {
	db := testutil.SetupTestDB(t)
	srv := newServer(t, db, mapVerifier{"tok-bob": "bob@example.com"})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"full_name":"Bob Jones"}`))
	req.Header.Set("Authorization", "Bearer tok-bob")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got userView
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Email != "bob@example.com" {
		t.Fatalf("email = %q, want bob@example.com", got.Email)
	}
	// Every registration starts as a plain user.
	if got.Role != models.RoleUser {
		t.Fatalf("role = %q, want user", got.Role)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	srv := newServer(t, db, mapVerifier{"tok-bob": "bob@example.com"})

	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"full_name":"Bob Jones"}`))
		req.Header.Set("Authorization", "Bearer tok-bob")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("attempt %d status = %d, want %d", i+1, rec.Code, want)
		}
	}
}

func TestRegister_NoCredential(t *testing.T) {
	db := testutil.SetupTestDB(t)
	srv := newServer(t, db, mapVerifier{})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"full_name":"Bob"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestServeRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateCreator(ctx, "carol@example.com")
	fx.CreateUser(ctx, "bob@example.com", models.RoleUser)

	srv := newServer(t, db, mapVerifier{"tok-bob": "bob@example.com"})

	req := httptest.NewRequest(http.MethodGet, "/role?email=carol@example.com", nil)
	req.Header.Set("Authorization", "Bearer tok-bob")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got map[string]string
	json.NewDecoder(rec.Body).Decode(&got)
	if got["role"] != models.RoleCreator {
		t.Fatalf("role = %q, want creator", got["role"])
	}
}

func TestServeRole_Unknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateUser(ctx, "bob@example.com", models.RoleUser)

	srv := newServer(t, db, mapVerifier{"tok-bob": "bob@example.com"})

	req := httptest.NewRequest(http.MethodGet, "/role?email=ghost@example.com", nil)
	req.Header.Set("Authorization", "Bearer tok-bob")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSetRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateAdmin(ctx, "admin@example.com")
	fx.CreateUser(ctx, "bob@example.com", models.RoleUser)

	srv := newServer(t, db, mapVerifier{
		"tok-admin": "admin@example.com",
		"tok-bob":   "bob@example.com",
	})

	// A plain user cannot change roles.
	req := httptest.NewRequest(http.MethodPatch, "/bob@example.com/role", strings.NewReader(`{"role":"creator"}`))
	req.Header.Set("Authorization", "Bearer tok-bob")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("user promote status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPatch, "/bob@example.com/role", strings.NewReader(`{"role":"creator"}`))
	req.Header.Set("Authorization", "Bearer tok-admin")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin promote status = %d, body = %s", rec.Code, rec.Body.String())
	}

	u, err := userstore.New(db).GetByEmail(ctx, "bob@example.com")
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if u.Role != models.RoleCreator {
		t.Fatalf("role = %q, want creator", u.Role)
	}
}

func TestSetRole_BadRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateAdmin(ctx, "admin@example.com")

	srv := newServer(t, db, mapVerifier{"tok-admin": "admin@example.com"})

	req := httptest.NewRequest(http.MethodPatch, "/bob@example.com/role", strings.NewReader(`{"role":"emperor"}`))
	req.Header.Set("Authorization", "Bearer tok-admin")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestList_AdminOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateAdmin(ctx, "admin@example.com")
	fx.CreateUser(ctx, "bob@example.com", models.RoleUser)

	srv := newServer(t, db, mapVerifier{
		"tok-admin": "admin@example.com",
		"tok-bob":   "bob@example.com",
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok-bob")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("user list status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok-admin")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin list status = %d", rec.Code)
	}

	var got listResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Users) != 2 {
		t.Fatalf("len(users) = %d, want 2", len(got.Users))
	}
	if got.Meta.Total != 2 {
		t.Fatalf("meta.total = %d, want 2", got.Meta.Total)
	}
}
