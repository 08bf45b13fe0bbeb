package users

import (
	"context"
	"net/http"

	"github.com/contesthub/contesthub/internal/app/system/apperr"
	"github.com/contesthub/contesthub/internal/app/system/paging"
	"github.com/contesthub/contesthub/internal/app/system/respond"
	"github.com/contesthub/contesthub/internal/app/system/timeouts"
)

type listResponse struct {
	Users []userView  `json:"users"`
	Meta  paging.Meta `json:"meta"`
}

// ServeList handles GET /users. Admin only, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	page := paging.ParsePage(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	all, total, err := h.Users.List(ctx, paging.Skip(page), paging.PageSize)
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(apperr.Store, "list users", err))
		return
	}

	views := make([]userView, 0, len(all))
	for i := range all {
		views = append(views, viewOf(&all[i]))
	}

	respond.JSON(w, http.StatusOK, listResponse{Users: views, Meta: paging.NewMeta(page, total)})
}
