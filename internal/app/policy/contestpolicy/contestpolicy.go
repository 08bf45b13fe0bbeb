// Package contestpolicy answers ownership questions about contests.
package contestpolicy

import (
	"net/http"

	"github.com/contesthub/contesthub/internal/app/system/authz"
	"github.com/contesthub/contesthub/internal/app/system/normalize"
	"github.com/contesthub/contesthub/internal/domain/models"
)

// Owns reports whether the current request user is the creator of the
// given contest. Ownership is by creator email; admins are not owners.
func Owns(r *http.Request, c *models.Contest) bool {
	_, _, email, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	return normalize.Email(email) == normalize.Email(c.CreatorEmail)
}

// CanEdit reports whether the current request user may edit the contest:
// the owning creator can. Admins manage status through the review flow,
// not content edits.
func CanEdit(r *http.Request, c *models.Contest) bool {
	return authz.IsCreator(r) && Owns(r, c)
}

// CanDelete reports whether the current request user may delete the
// contest: the owning creator or an admin.
func CanDelete(r *http.Request, c *models.Contest) bool {
	if authz.IsAdmin(r) {
		return true
	}
	return authz.IsCreator(r) && Owns(r, c)
}

// CanDeclareWinner reports whether the current request user may declare
// the contest's winner: only the owning creator.
func CanDeclareWinner(r *http.Request, c *models.Contest) bool {
	return authz.IsCreator(r) && Owns(r, c)
}
