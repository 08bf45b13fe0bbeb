package payments

import "fmt"

// Config selects and parameterizes a provider.
type Config struct {
	Provider  string // "stub" or "hosted"
	SecretKey string
	APIURL    string // hosted only
}

// New builds the configured provider.
func New(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "stub":
		return NewStub(cfg.SecretKey), nil
	case "hosted":
		if cfg.APIURL == "" {
			return nil, fmt.Errorf("payments: hosted provider requires an API URL")
		}
		return NewHosted(cfg.APIURL, cfg.SecretKey), nil
	default:
		return nil, fmt.Errorf("payments: unknown provider %q", cfg.Provider)
	}
}
