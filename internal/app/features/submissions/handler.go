// Package submissions records a paid participant's task submission on
// their participation record.
package submissions

import (
	participationstore "github.com/contesthub/contesthub/internal/app/store/participations"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Submissions.
type Handler struct {
	Participations *participationstore.Store
	Log            *zap.Logger
}

// NewHandler constructs a Submissions handler bound to the ledger store
// and logger.
func NewHandler(store *participationstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Participations: store, Log: logger}
}
