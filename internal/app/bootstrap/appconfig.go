// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS); AppConfig carries everything specific to ContestHub:
// the Mongo connection, the identity provider, the payment processor,
// and the client application the payment redirects return to.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Identity provider configuration. Provider selects the verifier:
	// "jwt" verifies HMAC-signed tokens locally with IdentityJWTSecret;
	// "remote" posts tokens to IdentityVerifyURL, optionally with
	// client-credentials auth against IdentityTokenURL.
	IdentityProvider     string
	IdentityJWTSecret    string
	IdentityVerifyURL    string
	IdentityClientID     string
	IdentityClientSecret string
	IdentityTokenURL     string

	// Payment processor configuration. Provider is "stub" (in-memory,
	// development) or "hosted" (external checkout service).
	PaymentProvider  string
	PaymentSecretKey string
	PaymentAPIURL    string

	// Client application base URL for payment redirect targets.
	ClientBaseURL string

	// Currency for checkout sessions, smallest-unit amounts.
	Currency string
}
