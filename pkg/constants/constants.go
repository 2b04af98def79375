package constants

import "time"

// RFC3339DateTimeFormat is used for every timestamp that crosses the API
// boundary.
const RFC3339DateTimeFormat = "2006-01-02T15:04:05Z07:00"

// Default rate limiting configuration.
const (
	// DefaultRateLimitRequests is the number of requests allowed per window.
	DefaultRateLimitRequests = 100
	// DefaultRateLimitWindowMinutes is the window length in minutes.
	DefaultRateLimitWindowMinutes = 1
)

// DefaultRateLimitWindow returns the default rate limit window duration.
func DefaultRateLimitWindow() time.Duration {
	return time.Duration(DefaultRateLimitWindowMinutes) * time.Minute
}

// DefaultLocale is the locale used when Accept-Language cannot be matched.
const DefaultLocale = "en"
