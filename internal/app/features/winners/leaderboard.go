package winners

import (
	"context"
	"net/http"

	"github.com/contesthub/contesthub/internal/app/store/queries/leaderboard"
	"github.com/contesthub/contesthub/internal/app/system/apperr"
	"github.com/contesthub/contesthub/internal/app/system/respond"
	"github.com/contesthub/contesthub/internal/app/system/timeouts"
)

// ServeLeaderboard handles GET /leaderboard. Public; all-time win counts,
// most wins first.
func (h *Handler) ServeLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	entries, err := leaderboard.Wins(ctx, h.DB)
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(apperr.Store, "aggregate leaderboard", err))
		return
	}
	if entries == nil {
		entries = []leaderboard.Entry{}
	}

	respond.JSON(w, http.StatusOK, map[string]any{"leaderboard": entries})
}
