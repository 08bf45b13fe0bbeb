package contests

import (
	"context"
	"errors"
	"net/http"

	"github.com/contesthub/contesthub/internal/app/policy/contestpolicy"
	conteststore "github.com/contesthub/contesthub/internal/app/store/contests"
	"github.com/contesthub/contesthub/internal/app/system/apperr"
	"github.com/contesthub/contesthub/internal/app/system/authz"
	"github.com/contesthub/contesthub/internal/app/system/inputval"
	"github.com/contesthub/contesthub/internal/app/system/respond"
	"github.com/contesthub/contesthub/internal/app/system/timeouts"
	"github.com/contesthub/contesthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

type setStatusRequest struct {
	Status string `json:"status"`
}

// HandleSetStatus handles PATCH /contests/{id}/status. Admin only.
// Approved is terminal: once a contest is approved no further transition
// succeeds, including back to rejected.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := contestID(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	var req setStatusRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	var v inputval.Checker
	v.OneOf("status", req.Status, models.StatusApproved, models.StatusRejected)
	if err := v.Err(); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Contests.SetStatus(ctx, id, req.Status); err != nil {
		switch {
		case errors.Is(err, conteststore.ErrApprovedImmutable):
			respond.Error(w, h.Log, apperr.New(apperr.Conflict, "cannot edit an approved contest"))
		case errors.Is(err, mongo.ErrNoDocuments):
			respond.Error(w, h.Log, apperr.New(apperr.NotFound, "contest not found"))
		default:
			respond.Error(w, h.Log, apperr.Wrap(apperr.Store, "set contest status", err))
		}
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"id": id.Hex(), "status": req.Status})
}

// HandleDelete handles DELETE /contests/{id}. Admins delete any
// contest; creators only their own.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := contestID(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var deleted int64
	if authz.IsAdmin(r) {
		deleted, err = h.Contests.Delete(ctx, id)
	} else {
		// DeleteOwned binds the filter to the verified caller email, so a
		// creator cannot delete another creator's contest even by id.
		_, _, email, ok := authz.UserCtx(r)
		if !ok {
			respond.Error(w, h.Log, apperr.New(apperr.Unauthorized, "credential required"))
			return
		}
		deleted, err = h.Contests.DeleteOwned(ctx, id, email)
	}
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(apperr.Store, "delete contest", err))
		return
	}
	if deleted == 0 {
		// Distinguish "not yours" from "gone" for creators.
		if c, lerr := h.loadContest(ctx, id); lerr == nil && !contestpolicy.CanDelete(r, &c) {
			respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "not your contest"))
			return
		}
		respond.Error(w, h.Log, apperr.New(apperr.NotFound, "contest not found"))
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"id": id.Hex(), "deleted": "true"})
}
