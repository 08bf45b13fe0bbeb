package payments

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/contesthub/contesthub/internal/app/system/apperr"
	"github.com/contesthub/contesthub/internal/app/system/authz"
	"github.com/contesthub/contesthub/internal/app/system/payments"
	"github.com/contesthub/contesthub/internal/app/system/respond"
	"github.com/contesthub/contesthub/internal/app/system/timeouts"
	"github.com/contesthub/contesthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type checkoutRequest struct {
	ContestID string `json:"contest_id"`
}

// HandleCheckout handles POST /payments/checkout. Pure delegation to
// the payment processor: the amount comes from the contest's entry
// price and no document is written here. The processor session carries
// the contest and participant identity as metadata, so completion does
// not trust anything the client later reports.
func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	_, _, email, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, h.Log, apperr.New(apperr.Unauthorized, "credential required"))
		return
	}

	var req checkoutRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	id, err := primitive.ObjectIDFromHex(req.ContestID)
	if err != nil {
		respond.Error(w, h.Log, apperr.New(apperr.Validation, "contest_id is not a valid contest id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
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

	if c.Status != models.StatusApproved {
		respond.Error(w, h.Log, apperr.New(apperr.Conflict, "contest is not open for enrollment"))
		return
	}

	sess, err := h.Provider.CreateSession(ctx, payments.CheckoutParams{
		Amount:      c.EntryPrice,
		Currency:    h.Currency,
		ProductName: c.Name,
		SuccessURL:  h.ClientBaseURL + "/payments/success",
		CancelURL:   h.ClientBaseURL + "/payments/cancel",
		Metadata: payments.Metadata{
			ContestID:        c.ID.Hex(),
			CreatorEmail:     c.CreatorEmail,
			ParticipantEmail: email,
			CreatedAt:        time.Now().UTC(),
		},
	})
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"session_id": sess.ID, "url": sess.URL})
}
