package hootsuite

import (
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://platform.hootsuite.com"
	defaultTimeout = 30 * time.Second
)

// Config represents Hootsuite API configuration
type Config struct {
	ClientID      string
	ClientSecret  string
	AuthEndpoint  string
	TokenEndpoint string
	RedirectURI   string

	// BaseURL is prepended to endpoints that are not absolute.
	BaseURL                string
	PostMessageEndpoint    string
	MediaEndpoint          string
	SocialProfilesEndpoint string

	Timeout time.Duration
}

func (c *Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}

func (c *Config) resolve(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(endpoint, "/")
}
