package okrapi

// Config holds connection settings for the OKR JSON API.
type Config struct {
	// BaseURL is the application root, e.g. https://okr.example.com.
	BaseURL string
	// CSRFToken is sent as X-CSRF-TOKEN when non-empty.
	CSRFToken string
	// SessionCookie is sent verbatim as the Cookie header when non-empty.
	SessionCookie string
	TimeoutMs     int
	LogCalls      bool
}

// DefaultConfig points at a local development server.
func DefaultConfig() Config {
	return Config{
		BaseURL:   "http://localhost:8000",
		TimeoutMs: 10000,
	}
}
