package contests

import (
	"context"
	"errors"
	"net/http"

	"github.com/contesthub/contesthub/internal/app/system/apperr"
	"github.com/contesthub/contesthub/internal/app/system/paging"
	"github.com/contesthub/contesthub/internal/app/system/respond"
	"github.com/contesthub/contesthub/internal/app/system/timeouts"
	"github.com/contesthub/contesthub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeList handles GET /contests. Public: only approved contests,
// optionally filtered by exact type, paginated, and sorted by popularity
// when sort=popular.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	page := paging.ParsePage(r)
	contestType := query.Get(r, "type")
	sortPopular := query.Get(r, "sort") == "popular"

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	res, err := h.Contests.ListApproved(ctx, contestType, page, sortPopular)
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(apperr.Store, "list contests", err))
		return
	}

	respond.JSON(w, http.StatusOK, listResponse{
		Contests: viewsOf(res.Items),
		Meta:     paging.NewMeta(page, res.Total),
	})
}

// ServeSearch handles GET /contests/search?type=. Public; matches the
// type substring case-insensitively against approved contests.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	sub := query.Get(r, "type")
	if sub == "" {
		respond.Error(w, h.Log, apperr.New(apperr.Validation, "type is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	found, err := h.Contests.SearchByType(ctx, sub)
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(apperr.Store, "search contests", err))
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"contests": viewsOf(found)})
}

// contestID parses the {id} route parameter.
func contestID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apperr.New(apperr.Validation, "id is not a valid contest id")
	}
	return id, nil
}

// loadContest fetches the contest or reports NotFound.
func (h *Handler) loadContest(ctx context.Context, id primitive.ObjectID) (models.Contest, error) {
	c, err := h.Contests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Contest{}, apperr.New(apperr.NotFound, "contest not found")
		}
		return models.Contest{}, apperr.Wrap(apperr.Store, "load contest", err)
	}
	return c, nil
}

// ServeDetail handles GET /contests/{id}. Public.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id, err := contestID(r)
	if err != nil {
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

	respond.JSON(w, http.StatusOK, viewOf(&c))
}
