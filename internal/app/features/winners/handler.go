// Package winners finalizes a contest's winner and serves the win
// leaderboard.
package winners

import (
	conteststore "github.com/contesthub/contesthub/internal/app/store/contests"
	participationstore "github.com/contesthub/contesthub/internal/app/store/participations"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Winners.
type Handler struct {
	DB             *mongo.Database
	Contests       *conteststore.Store
	Participations *participationstore.Store
	Log            *zap.Logger
}

// NewHandler constructs a Winners handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:             db,
		Contests:       conteststore.New(db),
		Participations: participationstore.New(db),
		Log:            logger,
	}
}
