package contests

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/contesthub/contesthub/internal/app/policy/contestpolicy"
	conteststore "github.com/contesthub/contesthub/internal/app/store/contests"
	"github.com/contesthub/contesthub/internal/app/system/apperr"
	"github.com/contesthub/contesthub/internal/app/system/htmlsanitize"
	"github.com/contesthub/contesthub/internal/app/system/inputval"
	"github.com/contesthub/contesthub/internal/app/system/respond"
	"github.com/contesthub/contesthub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
)

type updateRequest struct {
	Name         *string    `json:"name"`
	Description  *string    `json:"description"`
	Instructions *string    `json:"instructions"`
	ImageURL     *string    `json:"image_url"`
	ContestType  *string    `json:"contest_type"`
	EntryPrice   *int64     `json:"entry_price"`
	PrizeMoney   *int64     `json:"prize_money"`
	Deadline     *time.Time `json:"deadline"`
}

// HandleUpdate handles PATCH /contests/{id}. Only the owning creator
// may edit, only while the contest has not been approved, and only the
// content fields: lifecycle fields have no representation in the
// payload at all.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := contestID(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	var req updateRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	var v inputval.Checker
	if req.Name != nil {
		v.Require("name", *req.Name)
	}
	if req.ContestType != nil {
		v.Require("contest_type", *req.ContestType)
	}
	if req.EntryPrice != nil {
		v.NonNegative("entry_price", *req.EntryPrice)
	}
	if req.PrizeMoney != nil {
		v.NonNegative("prize_money", *req.PrizeMoney)
	}
	if req.Deadline != nil {
		v.Future("deadline", *req.Deadline)
	}
	if err := v.Err(); err != nil {
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

	upd := conteststore.ContentUpdate{
		Name:         sanitized(req.Name),
		Description:  sanitized(req.Description),
		Instructions: sanitized(req.Instructions),
		ImageURL:     req.ImageURL,
		ContestType:  sanitized(req.ContestType),
		EntryPrice:   req.EntryPrice,
		PrizeMoney:   req.PrizeMoney,
		Deadline:     req.Deadline,
	}

	if err := h.Contests.UpdateContent(ctx, id, upd); err != nil {
		switch {
		case errors.Is(err, conteststore.ErrApprovedImmutable):
			respond.Error(w, h.Log, apperr.New(apperr.Conflict, "cannot edit an approved contest"))
		case errors.Is(err, mongo.ErrNoDocuments):
			respond.Error(w, h.Log, apperr.New(apperr.NotFound, "contest not found"))
		default:
			respond.Error(w, h.Log, apperr.Wrap(apperr.Store, "update contest", err))
		}
		return
	}

	c, err = h.loadContest(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, viewOf(&c))
}

func sanitized(s *string) *string {
	if s == nil {
		return nil
	}
	clean := htmlsanitize.Sanitize(*s)
	return &clean
}
