package winners

import (
	"context"
	"errors"
	"net/http"

	"github.com/contesthub/contesthub/internal/app/policy/contestpolicy"
	conteststore "github.com/contesthub/contesthub/internal/app/store/contests"
	"github.com/contesthub/contesthub/internal/app/system/apperr"
	"github.com/contesthub/contesthub/internal/app/system/auth"
	"github.com/contesthub/contesthub/internal/app/system/inputval"
	"github.com/contesthub/contesthub/internal/app/system/respond"
	"github.com/contesthub/contesthub/internal/app/system/timeouts"
	"github.com/contesthub/contesthub/internal/app/system/txn"
	"github.com/contesthub/contesthub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Routes registers the winner routes on the given router (typically the
// root router from bootstrap).
func Routes(r chi.Router, h *Handler, m *auth.Middleware) {
	r.With(m.RequireVerified, m.RequireRole(models.RoleCreator)).
		Post("/contests/{id}/winner", h.HandleDeclare)
	r.Get("/leaderboard", h.ServeLeaderboard)
}

type declareRequest struct {
	ParticipantEmail string `json:"participant_email"`
}

// HandleDeclare handles POST /contests/{id}/winner. Only the contest's
// own creator may declare, and only once: the first declaration wins and
// every later attempt reports already-declared without touching the
// recorded winner.
func (h *Handler) HandleDeclare(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, apperr.New(apperr.Validation, "id is not a valid contest id"))
		return
	}

	var req declareRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	var v inputval.Checker
	v.Email("participant_email", req.ParticipantEmail)
	if err := v.Err(); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	c, err := h.Contests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, h.Log, apperr.New(apperr.NotFound, "contest not found"))
			return
		}
		respond.Error(w, h.Log, apperr.Wrap(apperr.Store, "load contest", err))
		return
	}
	if !contestpolicy.CanDeclareWinner(r, &c) {
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "not your contest"))
		return
	}

	// The winner must hold a participation record for this contest.
	p, err := h.Participations.Get(ctx, id, req.ParticipantEmail)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, h.Log, apperr.New(apperr.NotFound, "participant has no participation record"))
			return
		}
		respond.Error(w, h.Log, apperr.Wrap(apperr.Store, "load participation", err))
		return
	}

	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if err := h.Contests.SetWinner(ctx, id, models.Participant{
			Email:         p.ParticipantEmail,
			PaymentStatus: p.PaymentStatus,
		}); err != nil {
			return err
		}
		if _, err := h.Participations.MarkWinner(ctx, id, p.ParticipantEmail); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, conteststore.ErrWinnerAlreadyDeclared):
			// First declaration wins; report as already done, not an error.
			// Reload for the authoritative winner in case this attempt lost
			// a race with the first one.
			winner := c.Winner
			if cur, lerr := h.Contests.GetByID(ctx, id); lerr == nil {
				winner = cur.Winner
			}
			respond.JSON(w, http.StatusOK, map[string]any{
				"already_declared": true,
				"winner":           winner,
			})
		case errors.Is(err, conteststore.ErrNotApproved):
			respond.Error(w, h.Log, apperr.New(apperr.Conflict, "contest is not approved"))
		default:
			respond.Error(w, h.Log, apperr.Wrap(apperr.Store, "declare winner", err))
		}
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"contest_id": id.Hex(),
		"winner":     map[string]string{"email": p.ParticipantEmail, "payment_status": p.PaymentStatus},
	})
}
