// Package auth resolves bearer credentials into a context user and
// provides the route middleware that gates access by authentication
// and role.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	users "github.com/contesthub/contesthub/internal/app/store/users"
	"github.com/contesthub/contesthub/internal/app/system/apperr"
	"github.com/contesthub/contesthub/internal/app/system/identity"
	"github.com/contesthub/contesthub/internal/app/system/respond"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ContextUser is what Verify injects into r.Context() after the bearer
// credential checks out and the user record is loaded.
type ContextUser struct {
	Email string
	Name  string
	Role  string
}

type ctxKey string

const (
	currentUserKey   ctxKey = "currentUser"
	verifiedEmailKey ctxKey = "verifiedEmail"
)

// CurrentUser returns the verified user and a found flag.
func CurrentUser(r *http.Request) (*ContextUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*ContextUser)
	return u, ok
}

// VerifiedEmail returns the email a valid bearer credential verified to
// when no user record exists for it yet. Registration is the one
// consumer; everywhere else the gates turn this state into NotFound.
func VerifiedEmail(r *http.Request) (string, bool) {
	email, ok := r.Context().Value(verifiedEmailKey).(string)
	return email, ok
}

func withUser(r *http.Request, u *ContextUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestUser injects a context user directly. Test helper only.
func WithTestUser(r *http.Request, u *ContextUser) *http.Request {
	return withUser(r, u)
}

// Middleware bundles the verifier and user store the auth chain needs.
type Middleware struct {
	Verifier identity.Verifier
	Users    *users.Store
	Log      *zap.Logger
}

// Verify extracts the Authorization bearer token, verifies it with the
// identity provider, loads the registered user, and injects the context
// user. Requests with no Authorization header pass through anonymous;
// RequireVerified is the gate that rejects those. A valid credential
// with no user record also passes through, carrying only the verified
// email, so registration can run before a record exists.
func (m *Middleware) Verify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := BearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		email, err := m.Verifier.Verify(r.Context(), token)
		if err != nil {
			respond.Error(w, m.Log, err)
			return
		}

		u, err := m.Users.GetByEmail(r.Context(), email)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				ctx := context.WithValue(r.Context(), verifiedEmailKey, email)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			respond.Error(w, m.Log, apperr.Wrap(apperr.Store, "load user", err))
			return
		}

		next.ServeHTTP(w, withUser(r, &ContextUser{
			Email: u.Email,
			Name:  u.FullName,
			Role:  u.Role,
		}))
	})
}

// RequireVerified rejects requests that carry no registered user.
// Anonymous callers get Unauthorized; a valid credential whose email
// was never registered gets NotFound.
func (m *Middleware) RequireVerified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			respond.Error(w, m.Log, m.missingUserErr(r))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) missingUserErr(r *http.Request) error {
	if _, verified := VerifiedEmail(r); verified {
		return apperr.New(apperr.NotFound, "user is not registered")
	}
	return apperr.New(apperr.Unauthorized, "credential required")
}

// RequireRole rejects verified users whose role is not in the allowed set.
// Roles are exact: admin does not implicitly pass a creator gate.
func (m *Middleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				respond.Error(w, m.Log, m.missingUserErr(r))
				return
			}
			for _, want := range roles {
				if u.Role == want {
					next.ServeHTTP(w, r)
					return
				}
			}
			respond.Error(w, m.Log, apperr.New(apperr.Forbidden, "role not permitted"))
		})
	}
}

// BearerToken extracts the Authorization bearer credential, if any.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(h[len(prefix):])
	if token == "" {
		return "", false
	}
	return token, true
}
