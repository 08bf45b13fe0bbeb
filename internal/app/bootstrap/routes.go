// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	contestsfeature "github.com/contesthub/contesthub/internal/app/features/contests"
	healthfeature "github.com/contesthub/contesthub/internal/app/features/health"
	paymentsfeature "github.com/contesthub/contesthub/internal/app/features/payments"
	submissionsfeature "github.com/contesthub/contesthub/internal/app/features/submissions"
	usersfeature "github.com/contesthub/contesthub/internal/app/features/users"
	winnersfeature "github.com/contesthub/contesthub/internal/app/features/winners"
	conteststore "github.com/contesthub/contesthub/internal/app/store/contests"
	participationstore "github.com/contesthub/contesthub/internal/app/store/participations"
	userstore "github.com/contesthub/contesthub/internal/app/store/users"
	"github.com/contesthub/contesthub/internal/app/system/auth"
	"github.com/contesthub/contesthub/internal/app/system/identity"
	"github.com/contesthub/contesthub/internal/app/system/payments"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE
// app. WAFFLE calls this after configuration, DB connections, schema
// setup, and Startup have completed.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	verifier, err := identity.New(identity.Config{
		Provider:     appCfg.IdentityProvider,
		JWTSecret:    appCfg.IdentityJWTSecret,
		VerifyURL:    appCfg.IdentityVerifyURL,
		ClientID:     appCfg.IdentityClientID,
		ClientSecret: appCfg.IdentityClientSecret,
		TokenURL:     appCfg.IdentityTokenURL,
	})
	if err != nil {
		logger.Error("identity verifier init failed", zap.Error(err))
		return nil, err
	}

	provider, err := payments.New(payments.Config{
		Provider:  appCfg.PaymentProvider,
		SecretKey: appCfg.PaymentSecretKey,
		APIURL:    appCfg.PaymentAPIURL,
	})
	if err != nil {
		logger.Error("payment provider init failed", zap.Error(err))
		return nil, err
	}

	users := userstore.New(db)
	m := &auth.Middleware{Verifier: verifier, Users: users, Log: logger}

	userH := usersfeature.NewHandler(users, logger)
	contestH := contestsfeature.NewHandler(conteststore.New(db), logger)
	paymentH := paymentsfeature.NewHandler(db, provider, appCfg.ClientBaseURL, appCfg.Currency, logger)
	submissionH := submissionsfeature.NewHandler(participationstore.New(db), logger)
	winnerH := winnersfeature.NewHandler(db, logger)
	healthH := healthfeature.NewHandler(deps.MongoClient, logger)

	r := chi.NewRouter()

	// Global auth middleware: resolves a bearer credential into a context
	// user on every request. Anonymous requests pass through; the
	// per-route gates reject them where a user is required.
	r.Use(m.Verify)

	r.Get("/health", healthH.Serve)

	r.Mount("/users", usersfeature.Routes(userH, m))
	r.Mount("/contests", contestsfeature.Routes(contestH, m))
	r.Mount("/creator/contests", contestsfeature.CreatorRoutes(contestH, m))
	r.Mount("/admin/contests", contestsfeature.AdminRoutes(contestH, m))
	r.Mount("/payments", paymentsfeature.Routes(paymentH, m))

	// Submission and winner endpoints live in the /contests path space but
	// are owned by their own features; they register directly on the root
	// router beside the /contests mount.
	submissionsfeature.Routes(r, submissionH, m)
	winnersfeature.Routes(r, winnerH, m)

	return r, nil
}
