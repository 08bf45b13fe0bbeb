package users

import (
	"github.com/contesthub/contesthub/internal/app/system/auth"
	"github.com/contesthub/contesthub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all User routes under the base path (typically "/users"
// from bootstrap).
func Routes(h *Handler, m *auth.Middleware) chi.Router {
	r := chi.NewRouter()

	// Registration runs without the registered-user gate: the verify
	// chain passes a valid credential through with its email even when
	// no user record exists yet.
	r.Post("/", h.HandleRegister)

	r.Group(func(pr chi.Router) {
		pr.Use(m.RequireVerified)
		pr.Get("/role", h.ServeRole)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(m.RequireVerified)
		pr.Use(m.RequireRole(models.RoleAdmin))
		pr.Get("/", h.ServeList)
		pr.Patch("/{email}/role", h.HandleSetRole)
	})

	return r
}
