// Package payments exposes the checkout and payment-completion flow
// that enrolls a participant into a contest.
package payments

import (
	conteststore "github.com/contesthub/contesthub/internal/app/store/contests"
	participationstore "github.com/contesthub/contesthub/internal/app/store/participations"
	"github.com/contesthub/contesthub/internal/app/system/payments"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Payments.
type Handler struct {
	DB             *mongo.Database
	Contests       *conteststore.Store
	Participations *participationstore.Store
	Provider       payments.Provider
	ClientBaseURL  string
	Currency       string
	Log            *zap.Logger
}

// NewHandler constructs a Payments handler.
func NewHandler(db *mongo.Database, provider payments.Provider, clientBaseURL, currency string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:             db,
		Contests:       conteststore.New(db),
		Participations: participationstore.New(db),
		Provider:       provider,
		ClientBaseURL:  clientBaseURL,
		Currency:       currency,
		Log:            logger,
	}
}
