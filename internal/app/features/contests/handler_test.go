package contests

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	conteststore "github.com/contesthub/contesthub/internal/app/store/contests"
	userstore "github.com/contesthub/contesthub/internal/app/store/users"
	"github.com/contesthub/contesthub/internal/app/system/auth"
	"github.com/contesthub/contesthub/internal/domain/models"
	"github.com/contesthub/contesthub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newServer(t *testing.T, db *mongo.Database, verifier testutil.TokenVerifier) http.Handler {
	t.Helper()
	log := zap.NewNop()
	h := NewHandler(conteststore.New(db), log)
	m := &auth.Middleware{Verifier: verifier, Users: userstore.New(db), Log: log}

	r := chi.NewRouter()
	r.Use(m.Verify)
	r.Mount("/contests", Routes(h, m))
	r.Mount("/creator/contests", CreatorRoutes(h, m))
	r.Mount("/admin/contests", AdminRoutes(h, m))
	return r
}

func do(t *testing.T, srv http.Handler, method, path, token string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func createBody(name string) string {
	deadline := time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339)
	return fmt.Sprintf(`{"name":%q,"contest_type":"design","entry_price":1000,"prize_money":5000,"deadline":%q}`, name, deadline)
}

func TestCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateCreator(ctx, "carol@example.com")

	srv := newServer(t, db, testutil.TokenVerifier{"tok-carol": "carol@example.com"})

	rec := do(t, srv, http.MethodPost, "/contests", "tok-carol", createBody("Logo Jam"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got contestView
	json.NewDecoder(rec.Body).Decode(&got)
	if got.Status != models.StatusPending {
		t.Fatalf("status = %q, want pending", got.Status)
	}
	if got.ParticipantsCount != 0 || got.Winner != nil {
		t.Fatalf("lifecycle fields not forced: %+v", got)
	}
	if got.CreatorEmail != "carol@example.com" {
		t.Fatalf("creator = %q", got.CreatorEmail)
	}
}

func TestCreate_RoleGate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateUser(ctx, "bob@example.com", models.RoleUser)
	fx.CreateAdmin(ctx, "admin@example.com")

	srv := newServer(t, db, testutil.TokenVerifier{
		"tok-bob":   "bob@example.com",
		"tok-admin": "admin@example.com",
	})

	if rec := do(t, srv, http.MethodPost, "/contests", "tok-bob", createBody("X")); rec.Code != http.StatusForbidden {
		t.Fatalf("user create status = %d, want 403", rec.Code)
	}
	// Roles are exact: admin does not satisfy a creator-only gate.
	if rec := do(t, srv, http.MethodPost, "/contests", "tok-admin", createBody("X")); rec.Code != http.StatusForbidden {
		t.Fatalf("admin create status = %d, want 403", rec.Code)
	}
	if rec := do(t, srv, http.MethodPost, "/contests", "", createBody("X")); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create status = %d, want 401", rec.Code)
	}
}

func TestCreate_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateCreator(ctx, "carol@example.com")

	srv := newServer(t, db, testutil.TokenVerifier{"tok-carol": "carol@example.com"})

	rec := do(t, srv, http.MethodPost, "/contests", "tok-carol", `{"name":"","contest_type":"","entry_price":-5}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body = %s", rec.Code, rec.Body.String())
	}
}

func TestPublicList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateApprovedContest(ctx, "Big", "carol@example.com", "design", 9)
	fx.CreateApprovedContest(ctx, "Small", "carol@example.com", "design", 2)
	fx.CreateApprovedContest(ctx, "Code", "carol@example.com", "coding", 5)
	fx.CreateContest(ctx, "Hidden", "carol@example.com", models.StatusPending)

	srv := newServer(t, db, testutil.TokenVerifier{})

	rec := do(t, srv, http.MethodGet, "/contests", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got listResponse
	json.NewDecoder(rec.Body).Decode(&got)
	if len(got.Contests) != 3 {
		t.Fatalf("len = %d, want 3 (pending hidden)", len(got.Contests))
	}
	if got.Meta.Total != 3 {
		t.Fatalf("meta.total = %d, want 3", got.Meta.Total)
	}

	rec = do(t, srv, http.MethodGet, "/contests?type=design&sort=popular", "", "")
	got = listResponse{}
	json.NewDecoder(rec.Body).Decode(&got)
	if len(got.Contests) != 2 {
		t.Fatalf("filtered len = %d, want 2", len(got.Contests))
	}
	if got.Contests[0].Name != "Big" {
		t.Fatalf("popular sort first = %q, want Big", got.Contests[0].Name)
	}
}

func TestSearch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateApprovedContest(ctx, "A", "carol@example.com", "Graphic Design", 0)
	fx.CreateApprovedContest(ctx, "B", "carol@example.com", "coding", 0)

	srv := newServer(t, db, testutil.TokenVerifier{})

	rec := do(t, srv, http.MethodGet, "/contests/search?type=DESIGN", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got struct {
		Contests []contestView `json:"contests"`
	}
	json.NewDecoder(rec.Body).Decode(&got)
	if len(got.Contests) != 1 || got.Contests[0].Name != "A" {
		t.Fatalf("results = %+v", got.Contests)
	}
}

func TestDetail_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	srv := newServer(t, db, testutil.TokenVerifier{})

	if rec := do(t, srv, http.MethodGet, "/contests/ffffffffffffffffffffffff", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/contests/not-an-id", "", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id status = %d, want 400", rec.Code)
	}
}

func TestCreatorList_BoundToCaller(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateCreator(ctx, "carol@example.com")
	fx.CreateCreator(ctx, "dave@example.com")
	fx.CreateContest(ctx, "Carols", "carol@example.com", models.StatusPending)
	fx.CreateContest(ctx, "Daves", "dave@example.com", models.StatusPending)

	srv := newServer(t, db, testutil.TokenVerifier{"tok-carol": "carol@example.com"})

	rec := do(t, srv, http.MethodGet, "/creator/contests", "tok-carol", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got struct {
		Contests []contestView `json:"contests"`
	}
	json.NewDecoder(rec.Body).Decode(&got)
	if len(got.Contests) != 1 || got.Contests[0].Name != "Carols" {
		t.Fatalf("results = %+v", got.Contests)
	}
}

func TestAdminList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateAdmin(ctx, "admin@example.com")
	fx.CreateUser(ctx, "bob@example.com", models.RoleUser)
	fx.CreateContest(ctx, "P", "carol@example.com", models.StatusPending)
	fx.CreateContest(ctx, "R", "carol@example.com", models.StatusRejected)

	srv := newServer(t, db, testutil.TokenVerifier{
		"tok-admin": "admin@example.com",
		"tok-bob":   "bob@example.com",
	})

	if rec := do(t, srv, http.MethodGet, "/admin/contests", "tok-bob", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("user status = %d, want 403", rec.Code)
	}

	rec := do(t, srv, http.MethodGet, "/admin/contests?status=pending", "tok-admin", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("admin status = %d", rec.Code)
	}
	var got struct {
		Contests []contestView `json:"contests"`
	}
	json.NewDecoder(rec.Body).Decode(&got)
	if len(got.Contests) != 1 || got.Contests[0].Name != "P" {
		t.Fatalf("results = %+v", got.Contests)
	}
}

func TestSetStatus_ApprovedIsTerminal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateAdmin(ctx, "admin@example.com")
	c := fx.CreateContest(ctx, "C", "carol@example.com", models.StatusPending)

	srv := newServer(t, db, testutil.TokenVerifier{"tok-admin": "admin@example.com"})
	path := "/contests/" + c.ID.Hex() + "/status"

	if rec := do(t, srv, http.MethodPatch, path, "tok-admin", `{"status":"approved"}`); rec.Code != http.StatusOK {
		t.Fatalf("approve status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec := do(t, srv, http.MethodPatch, path, "tok-admin", `{"status":"rejected"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("reject-after-approve status = %d, want 409", rec.Code)
	}

	got, err := conteststore.New(db).GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != models.StatusApproved {
		t.Fatalf("status = %q, want approved unchanged", got.Status)
	}
}

func TestSetStatus_RejectedCanBeApproved(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateAdmin(ctx, "admin@example.com")
	c := fx.CreateContest(ctx, "C", "carol@example.com", models.StatusRejected)

	srv := newServer(t, db, testutil.TokenVerifier{"tok-admin": "admin@example.com"})

	rec := do(t, srv, http.MethodPatch, "/contests/"+c.ID.Hex()+"/status", "tok-admin", `{"status":"approved"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateCreator(ctx, "carol@example.com")
	fx.CreateCreator(ctx, "dave@example.com")
	c := fx.CreateContest(ctx, "C", "carol@example.com", models.StatusPending)

	srv := newServer(t, db, testutil.TokenVerifier{
		"tok-carol": "carol@example.com",
		"tok-dave":  "dave@example.com",
	})
	path := "/contests/" + c.ID.Hex()

	// Another creator cannot edit.
	if rec := do(t, srv, http.MethodPatch, path, "tok-dave", `{"name":"Stolen"}`); rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner status = %d, want 403", rec.Code)
	}

	rec := do(t, srv, http.MethodPatch, path, "tok-carol", `{"name":"Renamed","prize_money":9000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got contestView
	json.NewDecoder(rec.Body).Decode(&got)
	if got.Name != "Renamed" || got.PrizeMoney != 9000 {
		t.Fatalf("updated = %+v", got)
	}
}

func TestUpdate_ApprovedImmutable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateCreator(ctx, "carol@example.com")
	c := fx.CreateContest(ctx, "C", "carol@example.com", models.StatusApproved)

	srv := newServer(t, db, testutil.TokenVerifier{"tok-carol": "carol@example.com"})

	rec := do(t, srv, http.MethodPatch, "/contests/"+c.ID.Hex(), "tok-carol", `{"name":"Renamed"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateCreator(ctx, "carol@example.com")
	fx.CreateCreator(ctx, "dave@example.com")
	fx.CreateAdmin(ctx, "admin@example.com")
	mine := fx.CreateContest(ctx, "Mine", "carol@example.com", models.StatusPending)
	other := fx.CreateContest(ctx, "Other", "dave@example.com", models.StatusPending)

	srv := newServer(t, db, testutil.TokenVerifier{
		"tok-carol": "carol@example.com",
		"tok-admin": "admin@example.com",
	})

	// A creator cannot delete someone else's contest.
	if rec := do(t, srv, http.MethodDelete, "/contests/"+other.ID.Hex(), "tok-carol", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner delete status = %d, want 403", rec.Code)
	}

	if rec := do(t, srv, http.MethodDelete, "/contests/"+mine.ID.Hex(), "tok-carol", ""); rec.Code != http.StatusOK {
		t.Fatalf("owner delete status = %d", rec.Code)
	}

	// Admins can delete any contest.
	if rec := do(t, srv, http.MethodDelete, "/contests/"+other.ID.Hex(), "tok-admin", ""); rec.Code != http.StatusOK {
		t.Fatalf("admin delete status = %d", rec.Code)
	}
}
