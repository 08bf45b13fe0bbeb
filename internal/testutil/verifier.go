package testutil

import (
	"context"

	"github.com/contesthub/contesthub/internal/app/system/apperr"
)

// TokenVerifier is an identity.Verifier backed by a static token→email map.
type TokenVerifier map[string]string

func (v TokenVerifier) Verify(_ context.Context, token string) (string, error) {
	email, ok := v[token]
	if !ok {
		return "", apperr.New(apperr.Unauthorized, "invalid credential")
	}
	return email, nil
}
