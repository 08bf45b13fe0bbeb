package contests

import (
	"context"
	"net/http"
	"time"

	"github.com/contesthub/contesthub/internal/app/system/apperr"
	"github.com/contesthub/contesthub/internal/app/system/authz"
	"github.com/contesthub/contesthub/internal/app/system/htmlsanitize"
	"github.com/contesthub/contesthub/internal/app/system/inputval"
	"github.com/contesthub/contesthub/internal/app/system/respond"
	"github.com/contesthub/contesthub/internal/app/system/timeouts"
	"github.com/contesthub/contesthub/internal/domain/models"
)

type createRequest struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Instructions string    `json:"instructions"`
	ImageURL     string    `json:"image_url"`
	ContestType  string    `json:"contest_type"`
	EntryPrice   int64     `json:"entry_price"`
	PrizeMoney   int64     `json:"prize_money"`
	Deadline     time.Time `json:"deadline"`
}

// HandleCreate handles POST /contests. The creator identity comes from
// the verified context user, never from the payload, and the lifecycle
// fields are forced server-side in the store.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, name, email, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, h.Log, apperr.New(apperr.Unauthorized, "credential required"))
		return
	}

	var req createRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	var v inputval.Checker
	v.Require("name", req.Name)
	v.Require("contest_type", req.ContestType)
	v.NonNegative("entry_price", req.EntryPrice)
	v.NonNegative("prize_money", req.PrizeMoney)
	v.Future("deadline", req.Deadline)
	if err := v.Err(); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.Contests.Create(ctx, models.Contest{
		Name:         htmlsanitize.Sanitize(req.Name),
		Description:  htmlsanitize.Sanitize(req.Description),
		Instructions: htmlsanitize.Sanitize(req.Instructions),
		ImageURL:     req.ImageURL,
		ContestType:  htmlsanitize.Sanitize(req.ContestType),
		CreatorEmail: email,
		CreatorName:  name,
		EntryPrice:   req.EntryPrice,
		PrizeMoney:   req.PrizeMoney,
		Deadline:     req.Deadline.UTC(),
	})
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(apperr.Store, "create contest", err))
		return
	}

	respond.JSON(w, http.StatusCreated, viewOf(&c))
}
