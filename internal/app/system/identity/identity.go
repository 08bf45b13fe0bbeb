// Package identity verifies caller credentials against the external
// identity provider and yields the verified email the rest of the service
// trusts as caller identity.
//
// Two verifiers are available, selected by configuration:
//   - "jwt":    verifies provider-issued HMAC-signed tokens locally
//   - "remote": posts the token to the provider's verification endpoint
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/contesthub/contesthub/internal/app/system/apperr"
	"github.com/contesthub/contesthub/internal/app/system/normalize"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2/clientcredentials"
)

// Verifier resolves a bearer credential to a verified email address.
type Verifier interface {
	Verify(ctx context.Context, token string) (email string, err error)
}

// Config selects and parameterizes a verifier.
type Config struct {
	Provider string // "jwt" or "remote"

	// jwt
	JWTSecret string

	// remote
	VerifyURL    string
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// New builds the configured verifier.
func New(cfg Config) (Verifier, error) {
	switch cfg.Provider {
	case "jwt":
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("identity: jwt verifier requires a secret")
		}
		return &jwtVerifier{secret: []byte(cfg.JWTSecret)}, nil
	case "remote":
		if cfg.VerifyURL == "" {
			return nil, fmt.Errorf("identity: remote verifier requires a verify URL")
		}
		client := &http.Client{Timeout: 10 * time.Second}
		if cfg.ClientID != "" {
			cc := clientcredentials.Config{
				ClientID:     cfg.ClientID,
				ClientSecret: cfg.ClientSecret,
				TokenURL:     cfg.TokenURL,
			}
			client = cc.Client(context.Background())
		}
		return &remoteVerifier{verifyURL: cfg.VerifyURL, client: client}, nil
	default:
		return nil, fmt.Errorf("identity: unknown provider %q", cfg.Provider)
	}
}

// jwtVerifier validates HMAC-signed tokens issued by the identity provider
// and extracts the email claim.
type jwtVerifier struct {
	secret []byte
}

type emailClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (v *jwtVerifier) Verify(_ context.Context, token string) (string, error) {
	var claims emailClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", apperr.Wrap(apperr.Unauthorized, "invalid credential", err)
	}
	if !parsed.Valid {
		return "", apperr.New(apperr.Unauthorized, "invalid credential")
	}

	email := normalize.Email(claims.Email)
	if email == "" {
		return "", apperr.New(apperr.Unauthorized, "credential carries no email")
	}
	return email, nil
}

// remoteVerifier posts the token to the provider's verification endpoint.
type remoteVerifier struct {
	verifyURL string
	client    *http.Client
}

func (v *remoteVerifier) Verify(ctx context.Context, token string) (string, error) {
	form := url.Values{"token": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", apperr.Wrap(apperr.Upstream, "build verify request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.Upstream, "identity provider unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", apperr.New(apperr.Unauthorized, "invalid credential")
	default:
		return "", apperr.Newf(apperr.Upstream, "identity provider returned %d", resp.StatusCode)
	}

	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", apperr.Wrap(apperr.Upstream, "decode verify response", err)
	}

	email := normalize.Email(body.Email)
	if email == "" {
		return "", apperr.New(apperr.Unauthorized, "credential carries no email")
	}
	return email, nil
}
