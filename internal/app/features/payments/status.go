package payments

import (
	"context"
	"net/http"

	"github.com/contesthub/contesthub/internal/app/system/apperr"
	"github.com/contesthub/contesthub/internal/app/system/authz"
	"github.com/contesthub/contesthub/internal/app/system/respond"
	"github.com/contesthub/contesthub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeStatus handles GET /payments/status?contest_id=. The check is
// bound to the verified caller; there is no looking up someone else's
// payment state.
func (h *Handler) ServeStatus(w http.ResponseWriter, r *http.Request) {
	_, _, email, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, h.Log, apperr.New(apperr.Unauthorized, "credential required"))
		return
	}

	id, err := primitive.ObjectIDFromHex(query.Get(r, "contest_id"))
	if err != nil {
		respond.Error(w, h.Log, apperr.New(apperr.Validation, "contest_id is not a valid contest id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	paid, err := h.Participations.HasPaid(ctx, id, email)
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(apperr.Store, "check payment status", err))
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"contest_id": id.Hex(), "paid": paid})
}
