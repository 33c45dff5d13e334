package model

import "time"

// TokenPair is the live access/refresh credential pair for the installation.
// Both fields are always written together.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (t TokenPair) IsEmpty() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}

// OAuthToken stores the provider token pair as persisted
type OAuthToken struct {
	ID           int64     `json:"id"`
	Provider     string    `json:"provider"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (t *OAuthToken) Pair() TokenPair {
	if t == nil {
		return TokenPair{}
	}
	return TokenPair{AccessToken: t.AccessToken, RefreshToken: t.RefreshToken}
}
