package hootsuite

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hootsuite-publisher/domain/model"
	"hootsuite-publisher/domain/repository"

	"github.com/google/go-querystring/query"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const (
	offlineScope = "offline"

	grantAuthorizationCode = "authorization_code"
	grantRefreshToken      = "refresh_token"
)

// tokenRequest is the form posted to the token endpoint.
type tokenRequest struct {
	GrantType    string `url:"grant_type"`
	Code         string `url:"code,omitempty"`
	RefreshToken string `url:"refresh_token,omitempty"`
	RedirectURI  string `url:"redirect_uri,omitempty"`
	Scope        string `url:"scope,omitempty"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthClient obtains tokens from the provider and keeps the token store current.
type AuthClient struct {
	oauth2Config *oauth2.Config
	httpClient   *http.Client
	store        repository.ITokenStore
	log          logrus.FieldLogger
	timeout      time.Duration
	refreshGroup singleflight.Group
}

// NewAuthClient creates an AuthClient. A nil httpClient gets a client with
// the configured timeout.
func NewAuthClient(cfg *Config, store repository.ITokenStore, httpClient *http.Client, log logrus.FieldLogger) *AuthClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.timeout()}
	}
	return &AuthClient{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{offlineScope},
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthEndpoint,
				TokenURL:  cfg.TokenEndpoint,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		httpClient: httpClient,
		store:      store,
		log:        log,
		timeout:    cfg.timeout(),
	}
}

// AuthorizationURL builds the consent URL the administrator is sent to.
// It depends only on the configured credentials.
func (a *AuthClient) AuthorizationURL() string {
	return a.oauth2Config.AuthCodeURL("")
}

// AuthorizationURLWithState is AuthorizationURL carrying a state value the
// provider echoes back to the callback.
func (a *AuthClient) AuthorizationURLWithState(state string) string {
	return a.oauth2Config.AuthCodeURL(state)
}

// ExchangeCode trades an authorization code for a token pair and stores it.
func (a *AuthClient) ExchangeCode(ctx context.Context, code string) (model.TokenPair, error) {
	pair, err := a.requestToken(ctx, tokenRequest{
		GrantType:   grantAuthorizationCode,
		Code:        code,
		RedirectURI: a.oauth2Config.RedirectURL,
		Scope:       offlineScope,
	})
	if err != nil {
		return model.TokenPair{}, err
	}
	if err := a.store.Save(ctx, pair); err != nil {
		a.log.WithField("error", err).Error("failed to store hootsuite tokens")
		return model.TokenPair{}, fmt.Errorf("store tokens: %w", err)
	}
	a.log.Info("hootsuite access tokens saved")
	return pair, nil
}

// Refresh replaces the stored pair using the stored refresh token.
// Concurrent callers share one request to the token endpoint. A caller
// that gives up does not cancel the shared request for the others.
func (a *AuthClient) Refresh(ctx context.Context) (model.TokenPair, error) {
	ch := a.refreshGroup.DoChan(grantRefreshToken, func() (interface{}, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()
		return a.refresh(rctx)
	})
	select {
	case <-ctx.Done():
		return model.TokenPair{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return model.TokenPair{}, res.Err
		}
		return res.Val.(model.TokenPair), nil
	}
}

func (a *AuthClient) refresh(ctx context.Context) (model.TokenPair, error) {
	current, err := a.store.Load(ctx)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("load tokens: %w", err)
	}
	if current.RefreshToken == "" {
		a.log.Warn("hootsuite refresh requested without a stored refresh token")
		return model.TokenPair{}, ErrNoRefreshToken
	}
	pair, err := a.requestToken(ctx, tokenRequest{
		GrantType:    grantRefreshToken,
		RefreshToken: current.RefreshToken,
		RedirectURI:  a.oauth2Config.RedirectURL,
		Scope:        offlineScope,
	})
	if err != nil {
		return model.TokenPair{}, err
	}
	// Providers that do not rotate omit refresh_token; the old one stays valid.
	if pair.RefreshToken == "" {
		pair.RefreshToken = current.RefreshToken
	}
	if err := a.store.Save(ctx, pair); err != nil {
		a.log.WithField("error", err).Error("failed to store refreshed hootsuite tokens")
		return model.TokenPair{}, fmt.Errorf("store tokens: %w", err)
	}
	a.log.Debug("hootsuite access token refreshed")
	return pair, nil
}

// Token returns the stored access token for request signing.
func (a *AuthClient) Token(ctx context.Context) (*oauth2.Token, error) {
	pair, err := a.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tokens: %w", err)
	}
	return &oauth2.Token{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
	}, nil
}

func (a *AuthClient) requestToken(ctx context.Context, form tokenRequest) (model.TokenPair, error) {
	lg := a.log.WithField("grant_type", form.GrantType)

	values, err := query.Values(form)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("encode token request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.oauth2Config.Endpoint.TokenURL, strings.NewReader(values.Encode()))
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(a.oauth2Config.ClientID, a.oauth2Config.ClientSecret)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		lg.WithField("error", err).Error("hootsuite token request failed")
		return model.TokenPair{}, fmt.Errorf("%w: %v", ErrAuthFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		lg.WithField("error", err).Error("reading hootsuite token response failed")
		return model.TokenPair{}, fmt.Errorf("%w: read response: %v", ErrAuthFailure, err)
	}
	if resp.StatusCode != http.StatusOK {
		lg.WithField("status", resp.StatusCode).WithField("body", string(body)).Error("hootsuite token request rejected")
		return model.TokenPair{}, fmt.Errorf("%w: status %d", ErrAuthFailure, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		lg.WithField("error", err).Error("unmarshal hootsuite token response")
		return model.TokenPair{}, fmt.Errorf("%w: parse response: %v", ErrAuthFailure, err)
	}
	if tr.AccessToken == "" {
		lg.WithField("body", string(body)).Error("hootsuite token response missing access_token")
		return model.TokenPair{}, fmt.Errorf("%w: missing access_token", ErrAuthFailure)
	}
	return model.TokenPair{AccessToken: tr.AccessToken, RefreshToken: tr.RefreshToken}, nil
}
