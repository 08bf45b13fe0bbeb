package submissions

import (
	"context"
	"net/http"

	"github.com/contesthub/contesthub/internal/app/system/apperr"
	"github.com/contesthub/contesthub/internal/app/system/auth"
	"github.com/contesthub/contesthub/internal/app/system/authz"
	"github.com/contesthub/contesthub/internal/app/system/htmlsanitize"
	"github.com/contesthub/contesthub/internal/app/system/inputval"
	"github.com/contesthub/contesthub/internal/app/system/respond"
	"github.com/contesthub/contesthub/internal/app/system/timeouts"
	"github.com/contesthub/contesthub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Routes registers the submission route on the given router (typically
// the root router from bootstrap, alongside the /contests namespace).
func Routes(r chi.Router, h *Handler, m *auth.Middleware) {
	r.With(m.RequireVerified).Post("/contests/{id}/submission", h.HandleSubmit)
}

type submitRequest struct {
	Info string `json:"info"`
	Link string `json:"link"`
}

// HandleSubmit handles POST /contests/{id}/submission. The participation
// record only exists once payment completed, so submitting without a
// payment reports NotFound; submission before payment is impossible by
// construction.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	_, _, email, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, h.Log, apperr.New(apperr.Unauthorized, "credential required"))
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, apperr.New(apperr.Validation, "id is not a valid contest id"))
		return
	}

	var req submitRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	var v inputval.Checker
	v.Require("link", req.Link)
	if err := v.Err(); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	matched, err := h.Participations.SetSubmission(ctx, id, email, models.Submission{
		Info: htmlsanitize.Sanitize(req.Info),
		Link: req.Link,
	})
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(apperr.Store, "record submission", err))
		return
	}
	if matched == 0 {
		respond.Error(w, h.Log, apperr.New(apperr.NotFound, "no participation record for this contest"))
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{
		"contest_id": id.Hex(),
		"status":     "submitted",
	})
}
