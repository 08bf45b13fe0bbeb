package contests

import (
	"context"
	"net/http"

	"github.com/contesthub/contesthub/internal/app/policy/contestpolicy"
	"github.com/contesthub/contesthub/internal/app/system/apperr"
	"github.com/contesthub/contesthub/internal/app/system/authz"
	"github.com/contesthub/contesthub/internal/app/system/respond"
	"github.com/contesthub/contesthub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeCreatorList handles GET /creator/contests. The listing is bound
// to the verified caller's email, not a query parameter.
func (h *Handler) ServeCreatorList(w http.ResponseWriter, r *http.Request) {
	_, _, email, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, h.Log, apperr.New(apperr.Unauthorized, "credential required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	own, err := h.Contests.ListByCreator(ctx, email)
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(apperr.Store, "list own contests", err))
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"contests": viewsOf(own)})
}

// ServeAdminList handles GET /admin/contests. Admin moderation view,
// optionally filtered by ?status=.
func (h *Handler) ServeAdminList(w http.ResponseWriter, r *http.Request) {
	status := query.Get(r, "status")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	all, err := h.Contests.ListAll(ctx, status)
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(apperr.Store, "list contests", err))
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"contests": viewsOf(all)})
}

// ServeEdit handles GET /contests/{id}/edit. Only the owning creator
// sees the edit view.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id, err := contestID(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.loadContest(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	if !contestpolicy.CanEdit(r, &c) {
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "not your contest"))
		return
	}

	respond.JSON(w, http.StatusOK, viewOf(&c))
}
