// Package users exposes registration, role lookup, and the admin user
// management surface.
package users

import (
	users "github.com/contesthub/contesthub/internal/app/store/users"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Users.
type Handler struct {
	Users *users.Store
	Log   *zap.Logger
}

// NewHandler constructs a Users handler bound to its store and logger.
func NewHandler(store *users.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: store, Log: logger}
}
