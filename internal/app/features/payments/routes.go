package payments

import (
	"github.com/contesthub/contesthub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all Payment routes under the base path (typically
// "/payments" from bootstrap).
func Routes(h *Handler, m *auth.Middleware) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(m.RequireVerified)
		pr.Post("/checkout", h.HandleCheckout)
		pr.Post("/complete", h.HandleComplete)
		pr.Get("/status", h.ServeStatus)
	})

	return r
}
