package payments

import (
	"context"
	"errors"
	"net/http"
	"time"

	participationstore "github.com/contesthub/contesthub/internal/app/store/participations"
	"github.com/contesthub/contesthub/internal/app/system/apperr"
	"github.com/contesthub/contesthub/internal/app/system/authz"
	"github.com/contesthub/contesthub/internal/app/system/normalize"
	"github.com/contesthub/contesthub/internal/app/system/payments"
	"github.com/contesthub/contesthub/internal/app/system/respond"
	"github.com/contesthub/contesthub/internal/app/system/timeouts"
	"github.com/contesthub/contesthub/internal/app/system/txn"
	"github.com/contesthub/contesthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type completeRequest struct {
	SessionID string `json:"session_id"`
}

// participationView is the JSON shape for a participation record.
type participationView struct {
	ContestID        string `json:"contest_id"`
	ContestName      string `json:"contest_name"`
	ParticipantEmail string `json:"participant_email"`
	TransactionID    string `json:"transaction_id"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	PaymentStatus    string `json:"payment_status"`
}

var errAlreadyProcessed = errors.New("completion already processed")

// HandleComplete handles POST /payments/complete. The client posts back
// only the session id; amount, status, and identities all come from the
// processor's finalized session. The ledger insert and the contest
// enrollment run as one transactional unit, and the unique index on the
// processor transaction id makes a replayed notification a no-op
// instead of a double enrollment.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	_, _, callerEmail, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, h.Log, apperr.New(apperr.Unauthorized, "credential required"))
		return
	}

	var req completeRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	if req.SessionID == "" {
		respond.Error(w, h.Log, apperr.New(apperr.Validation, "session_id is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	sess, err := h.Provider.RetrieveSession(ctx, req.SessionID)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	if normalize.Email(sess.Metadata.ParticipantEmail) != normalize.Email(callerEmail) {
		respond.Error(w, h.Log, apperr.New(apperr.Forbidden, "session belongs to another participant"))
		return
	}
	if sess.PaymentStatus != payments.StatusPaid {
		respond.Error(w, h.Log, apperr.New(apperr.Conflict, "payment is not completed"))
		return
	}

	contestID, err := primitive.ObjectIDFromHex(sess.Metadata.ContestID)
	if err != nil {
		respond.Error(w, h.Log, apperr.New(apperr.Upstream, "session carries no valid contest id"))
		return
	}

	c, err := h.Contests.GetByID(ctx, contestID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, h.Log, apperr.New(apperr.NotFound, "contest not found"))
			return
		}
		respond.Error(w, h.Log, apperr.Wrap(apperr.Store, "load contest", err))
		return
	}

	record := models.Participation{
		ContestID:        contestID,
		ContestName:      c.Name,
		CreatorEmail:     c.CreatorEmail,
		ParticipantEmail: sess.Metadata.ParticipantEmail,
		TransactionID:    sess.TransactionID,
		Amount:           sess.Amount,
		Currency:         sess.Currency,
		PaymentStatus:    models.PaymentPaid,
		CreatedAt:        time.Now().UTC(),
	}

	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		inserted, err := h.Participations.Insert(ctx, record)
		if err != nil {
			if errors.Is(err, participationstore.ErrDuplicate) {
				return errAlreadyProcessed
			}
			return err
		}
		record = inserted

		added, err := h.Contests.EnrollParticipant(ctx, contestID, record.ParticipantEmail, models.PaymentPaid)
		if err != nil {
			return err
		}
		if !added {
			// Already in the participant set from an earlier payment with a
			// different transaction: refresh the status in place rather than
			// appending a duplicate entry.
			if _, err := h.Contests.UpdateParticipantStatus(ctx, contestID, record.ParticipantEmail, models.PaymentPaid); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errAlreadyProcessed) {
			respond.JSON(w, http.StatusOK, map[string]any{
				"already_processed": true,
				"transaction_id":    sess.TransactionID,
			})
			return
		}
		respond.Error(w, h.Log, apperr.Wrap(apperr.Store, "record payment completion", err))
		return
	}

	respond.JSON(w, http.StatusCreated, participationView{
		ContestID:        contestID.Hex(),
		ContestName:      record.ContestName,
		ParticipantEmail: record.ParticipantEmail,
		TransactionID:    record.TransactionID,
		Amount:           record.Amount,
		Currency:         record.Currency,
		PaymentStatus:    record.PaymentStatus,
	})
}
