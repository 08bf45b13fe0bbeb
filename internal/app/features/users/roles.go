package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/contesthub/contesthub/internal/app/system/apperr"
	"github.com/contesthub/contesthub/internal/app/system/inputval"
	"github.com/contesthub/contesthub/internal/app/system/respond"
	"github.com/contesthub/contesthub/internal/app/system/timeouts"
	"github.com/contesthub/contesthub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeRole handles GET /users/role?email=. Any verified user may look
// up a role; the client uses this to shape its navigation.
func (h *Handler) ServeRole(w http.ResponseWriter, r *http.Request) {
	email := query.Get(r, "email")
	if !inputval.IsValidEmail(email) {
		respond.Error(w, h.Log, apperr.New(apperr.Validation, "email is not a valid address"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, h.Log, apperr.New(apperr.NotFound, "user not found"))
			return
		}
		respond.Error(w, h.Log, apperr.Wrap(apperr.Store, "load user", err))
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"email": u.Email, "role": u.Role})
}

type setRoleRequest struct {
	Role string `json:"role"`
}

// HandleSetRole handles PATCH /users/{email}/role. Admin only; this is
// how an account becomes a creator or an admin.
func (h *Handler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	var req setRoleRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	var v inputval.Checker
	v.OneOf("role", req.Role, models.RoleUser, models.RoleCreator, models.RoleAdmin)
	if !inputval.IsValidEmail(email) {
		respond.Error(w, h.Log, apperr.New(apperr.Validation, "email is not a valid address"))
		return
	}
	if err := v.Err(); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	matched, err := h.Users.SetRole(ctx, email, req.Role)
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(apperr.Store, "set role", err))
		return
	}
	if matched == 0 {
		respond.Error(w, h.Log, apperr.New(apperr.NotFound, "user not found"))
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"email": email, "role": req.Role})
}
