// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for ContestHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, payment_provider, etc.
//   - Environment variables: CONTESTHUB_MONGO_URI, CONTESTHUB_PAYMENT_PROVIDER, etc.
//   - Command-line flags: --mongo_uri, --payment_provider, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "contesthub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	// Identity provider
	{Name: "identity_provider", Default: "jwt", Desc: "Identity verifier: 'jwt' or 'remote'"},
	{Name: "identity_jwt_secret", Default: "", Desc: "HMAC secret for jwt identity verification"},
	{Name: "identity_verify_url", Default: "", Desc: "Remote identity verification endpoint"},
	{Name: "identity_client_id", Default: "", Desc: "Client id for the remote identity provider"},
	{Name: "identity_client_secret", Default: "", Desc: "Client secret for the remote identity provider"},
	{Name: "identity_token_url", Default: "", Desc: "Token endpoint for the remote identity provider"},

	// Payment processor
	{Name: "payment_provider", Default: "stub", Desc: "Payment provider: 'stub' or 'hosted'"},
	{Name: "payment_secret_key", Default: "dev-only-change-me", Desc: "Payment processor secret key"},
	{Name: "payment_api_url", Default: "", Desc: "Hosted payment processor API base URL"},

	// Client application
	{Name: "client_base_url", Default: "http://localhost:3000", Desc: "Client app base URL for payment redirects"},
	{Name: "currency", Default: "usd", Desc: "Checkout currency code"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, CONTESTHUB_* for app), and
// flags, merging with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CONTESTHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		IdentityProvider:     appValues.String("identity_provider"),
		IdentityJWTSecret:    appValues.String("identity_jwt_secret"),
		IdentityVerifyURL:    appValues.String("identity_verify_url"),
		IdentityClientID:     appValues.String("identity_client_id"),
		IdentityClientSecret: appValues.String("identity_client_secret"),
		IdentityTokenURL:     appValues.String("identity_token_url"),

		PaymentProvider:  appValues.String("payment_provider"),
		PaymentSecretKey: appValues.String("payment_secret_key"),
		PaymentAPIURL:    appValues.String("payment_api_url"),

		ClientBaseURL: appValues.String("client_base_url"),
		Currency:      appValues.String("currency"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation. Missing
// identity or payment configuration is a fatal startup condition, not
// something to discover on the first request.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	switch appCfg.IdentityProvider {
	case "jwt":
		if appCfg.IdentityJWTSecret == "" {
			return fmt.Errorf("identity_provider 'jwt' requires identity_jwt_secret")
		}
	case "remote":
		if appCfg.IdentityVerifyURL == "" {
			return fmt.Errorf("identity_provider 'remote' requires identity_verify_url")
		}
	default:
		return fmt.Errorf("unknown identity_provider %q", appCfg.IdentityProvider)
	}

	switch appCfg.PaymentProvider {
	case "stub":
	case "hosted":
		if appCfg.PaymentAPIURL == "" {
			return fmt.Errorf("payment_provider 'hosted' requires payment_api_url")
		}
		if appCfg.PaymentSecretKey == "" {
			return fmt.Errorf("payment_provider 'hosted' requires payment_secret_key")
		}
	default:
		return fmt.Errorf("unknown payment_provider %q", appCfg.PaymentProvider)
	}

	if appCfg.ClientBaseURL == "" {
		return fmt.Errorf("client_base_url is required")
	}

	return nil
}
