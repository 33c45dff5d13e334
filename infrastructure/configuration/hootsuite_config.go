package configuration

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAuthEndpoint           = "https://platform.hootsuite.com/oauth2/auth"
	defaultTokenEndpoint          = "https://platform.hootsuite.com/oauth2/token"
	defaultPostMessageEndpoint    = "/v1/messages"
	defaultMediaEndpoint          = "/v1/media"
	defaultSocialProfilesEndpoint = "/v1/socialProfiles"
)

var ErrHootsuiteCredentials = errors.New("hootsuite client id and secret are required")

// HootsuiteConfig is the resolved Hootsuite configuration
type HootsuiteConfig struct {
	ClientID               string
	ClientSecret           string
	AuthEndpoint           string
	TokenEndpoint          string
	RedirectURI            string
	BaseURL                string
	PostMessageEndpoint    string
	MediaEndpoint          string
	SocialProfilesEndpoint string
	RequestTimeout         time.Duration
	MediaPollAttempts      int
	MediaPollInterval      time.Duration
}

// GetHootsuiteConfig returns Hootsuite configuration from JSON config with
// HOOTSUITE_* environment variable overrides. Missing credentials are
// reported but the config is still returned so the service can start.
func GetHootsuiteConfig() (*HootsuiteConfig, error) {
	scheme := "http"
	if C.App.TLSEnabled {
		scheme = "https"
	}
	port := C.App.Port
	if port == 0 {
		port = 10001
	}
	defaultRedirect := fmt.Sprintf("%s://localhost:%d/auth/hootsuite/callback", scheme, port)
	h := C.Hootsuite

	config := &HootsuiteConfig{
		ClientID:               getConfigValue(h.ClientID, "HOOTSUITE_CLIENT_ID", ""),
		ClientSecret:           getConfigValue(h.ClientSecret, "HOOTSUITE_CLIENT_SECRET", ""),
		AuthEndpoint:           getConfigValue(h.AuthEndpoint, "HOOTSUITE_AUTH_ENDPOINT", defaultAuthEndpoint),
		TokenEndpoint:          getConfigValue(h.TokenEndpoint, "HOOTSUITE_TOKEN_ENDPOINT", defaultTokenEndpoint),
		RedirectURI:            getConfigValue(h.RedirectURI, "HOOTSUITE_REDIRECT_URI", defaultRedirect),
		BaseURL:                getConfigValue(h.BaseURL, "HOOTSUITE_BASE_URL", ""),
		PostMessageEndpoint:    getConfigValue(h.PostMessageEndpoint, "HOOTSUITE_POST_MESSAGE_ENDPOINT", defaultPostMessageEndpoint),
		MediaEndpoint:          getConfigValue(h.MediaEndpoint, "HOOTSUITE_MEDIA_ENDPOINT", defaultMediaEndpoint),
		SocialProfilesEndpoint: getConfigValue(h.SocialProfilesEndpoint, "HOOTSUITE_SOCIAL_PROFILES_ENDPOINT", defaultSocialProfilesEndpoint),
		RequestTimeout:         time.Duration(getIntValue(h.RequestTimeoutSeconds, "HOOTSUITE_REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		MediaPollAttempts:      getIntValue(h.MediaPollAttempts, "HOOTSUITE_MEDIA_POLL_ATTEMPTS", 20),
		MediaPollInterval:      time.Duration(getIntValue(h.MediaPollIntervalMs, "HOOTSUITE_MEDIA_POLL_INTERVAL_MS", 1000)) * time.Millisecond,
	}

	if config.ClientID == "" || config.ClientSecret == "" {
		return config, ErrHootsuiteCredentials
	}
	return config, nil
}

// getConfigValue gets value from config first, then environment variable, then default
func getConfigValue(configValue, envKey, defaultValue string) string {
	// Environment variable takes precedence when provided
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	// Otherwise use config value if set and not a placeholder
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	return defaultValue
}

func getIntValue(configValue int, envKey string, defaultValue int) int {
	if v := os.Getenv(envKey); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	if configValue > 0 {
		return configValue
	}
	return defaultValue
}
