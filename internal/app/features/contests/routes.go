package contests

import (
	"github.com/contesthub/contesthub/internal/app/system/auth"
	"github.com/contesthub/contesthub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all Contest routes under the base path (typically
// "/contests" from bootstrap).
func Routes(h *Handler, m *auth.Middleware) chi.Router {
	r := chi.NewRouter()

	// Public listing, search, and detail.
	r.Get("/", h.ServeList)
	r.Get("/search", h.ServeSearch)
	r.Get("/{id}", h.ServeDetail)

	// Creator routes.
	r.Group(func(pr chi.Router) {
		pr.Use(m.RequireVerified)
		pr.Use(m.RequireRole(models.RoleCreator))
		pr.Post("/", h.HandleCreate)
		pr.Get("/{id}/edit", h.ServeEdit)
		pr.Patch("/{id}", h.HandleUpdate)
	})

	// Admin status transitions.
	r.Group(func(pr chi.Router) {
		pr.Use(m.RequireVerified)
		pr.Use(m.RequireRole(models.RoleAdmin))
		pr.Patch("/{id}/status", h.HandleSetStatus)
	})

	// Deletion is shared: creators delete their own, admins delete any.
	// The handler applies the ownership policy.
	r.Group(func(pr chi.Router) {
		pr.Use(m.RequireVerified)
		pr.Use(m.RequireRole(models.RoleCreator, models.RoleAdmin))
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}

// CreatorRoutes mounts the creator's own-contests listing (typically
// "/creator/contests" from bootstrap).
func CreatorRoutes(h *Handler, m *auth.Middleware) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(m.RequireVerified)
		pr.Use(m.RequireRole(models.RoleCreator))
		pr.Get("/", h.ServeCreatorList)
	})
	return r
}

// AdminRoutes mounts the admin moderation listing (typically
// "/admin/contests" from bootstrap).
func AdminRoutes(h *Handler, m *auth.Middleware) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(m.RequireVerified)
		pr.Use(m.RequireRole(models.RoleAdmin))
		pr.Get("/", h.ServeAdminList)
	})
	return r
}
