package users

import (
	"context"
	"errors"
	"net/http"
	"time"

	users "github.com/contesthub/contesthub/internal/app/store/users"
	"github.com/contesthub/contesthub/internal/app/system/apperr"
	"github.com/contesthub/contesthub/internal/app/system/auth"
	"github.com/contesthub/contesthub/internal/app/system/inputval"
	"github.com/contesthub/contesthub/internal/app/system/normalize"
	"github.com/contesthub/contesthub/internal/app/system/respond"
	"github.com/contesthub/contesthub/internal/app/system/timeouts"
	"github.com/contesthub/contesthub/internal/domain/models"
)

type registerRequest struct {
	FullName string `json:"full_name"`
	PhotoURL string `json:"photo_url"`
}

// userView is the JSON shape for a user record.
type userView struct {
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func viewOf(u *models.User) userView {
	return userView{
		Email:     u.Email,
		FullName:  u.FullName,
		PhotoURL:  u.PhotoURL,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// HandleRegister handles POST /users. The registered email is always
// the one the identity provider verified; the client cannot register an
// address it does not hold a credential for.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.VerifiedEmail(r)
	if !ok {
		u, live := auth.CurrentUser(r)
		if !live {
			respond.Error(w, h.Log, apperr.New(apperr.Unauthorized, "credential required"))
			return
		}
		email = u.Email
	}

	var req registerRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	var v inputval.Checker
	v.Require("full_name", req.FullName)
	if err := v.Err(); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		Email:    email,
		FullName: normalize.Name(req.FullName),
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		if errors.Is(err, users.ErrDuplicateEmail) {
			respond.Error(w, h.Log, apperr.New(apperr.Conflict, "user already registered"))
			return
		}
		respond.Error(w, h.Log, apperr.Wrap(apperr.Store, "create user", err))
		return
	}

	respond.JSON(w, http.StatusCreated, viewOf(&u))
}
