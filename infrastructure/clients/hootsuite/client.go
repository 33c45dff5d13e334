package hootsuite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"hootsuite-publisher/domain/model"

	"github.com/google/go-querystring/query"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// maxSends bounds how often one call reaches the provider: the original
// request plus one retry after a token refresh.
const maxSends = 2

// Authenticator supplies the bearer token and refreshes it on demand.
type Authenticator interface {
	Token(ctx context.Context) (*oauth2.Token, error)
	Refresh(ctx context.Context) (model.TokenPair, error)
}

// Client issues authenticated calls against the Hootsuite REST API
type Client struct {
	cfg        *Config
	httpClient *http.Client
	auth       Authenticator
	log        logrus.FieldLogger
}

// NewClient creates a new Hootsuite API client
func NewClient(cfg *Config, auth Authenticator, httpClient *http.Client, log logrus.FieldLogger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.timeout()}
	}
	return &Client{cfg: cfg, httpClient: httpClient, auth: auth, log: log}
}

// Config returns the endpoints the client was built with.
func (c *Client) Config() *Config { return c.cfg }

// Call sends an authenticated request and returns the raw body of a 2xx
// response. params may be url.Values or a struct with url tags; body is
// sent as JSON when non-nil. An auth rejection triggers one refresh and
// one retry, nothing more.
func (c *Client) Call(ctx context.Context, method, endpoint string, params, body interface{}) ([]byte, error) {
	target, err := c.buildURL(endpoint, params)
	if err != nil {
		return nil, err
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	lg := c.log.WithField("method", method).WithField("url", target)
	var lastErr error
	for attempt := 0; attempt < maxSends; attempt++ {
		if attempt > 0 {
			if _, err := c.auth.Refresh(ctx); err != nil {
				lg.WithField("error", err).Error("hootsuite token refresh failed")
				return nil, err
			}
		}

		respBody, err := c.send(ctx, method, target, payload)
		if err == nil {
			return respBody, nil
		}
		if !IsUnauthorized(err) {
			lg.WithField("error", err).Error("hootsuite call failed")
			return nil, err
		}
		lastErr = err
		lg.WithField("attempt", attempt+1).Warn("hootsuite rejected access token")
	}

	lg.WithField("error", lastErr).Error("hootsuite call unauthorized after refresh")
	return nil, fmt.Errorf("%w: %w", ErrAuthExpired, lastErr)
}

func (c *Client) send(ctx context.Context, method, target string, payload []byte) ([]byte, error) {
	token, err := c.auth.Token(ctx)
	if err != nil {
		return nil, &TransportError{Method: method, URL: target, Err: err}
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &TransportError{Method: method, URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token.SetAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: target, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Method: method, URL: target, StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}

// Upload pushes raw bytes to a pre-signed storage URL. The URL carries its
// own credentials so no bearer token is sent.
func (c *Client) Upload(ctx context.Context, uploadURL, mimeType string, size int64, r io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, r)
	if err != nil {
		return &TransportError{Method: http.MethodPut, URL: uploadURL, Err: err}
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", mimeType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithField("error", err).Error("media upload failed")
		return &TransportError{Method: http.MethodPut, URL: uploadURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		c.log.WithField("status", resp.StatusCode).Error("media upload rejected")
		return &TransportError{Method: http.MethodPut, URL: uploadURL, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}

func (c *Client) buildURL(endpoint string, params interface{}) (string, error) {
	target := c.cfg.resolve(endpoint)
	if params == nil {
		return target, nil
	}

	var values url.Values
	switch p := params.(type) {
	case url.Values:
		values = p
	default:
		v, err := query.Values(params)
		if err != nil {
			return "", fmt.Errorf("encode query: %w", err)
		}
		values = v
	}
	if len(values) == 0 {
		return target, nil
	}

	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("parse endpoint %q: %w", target, err)
	}
	q := u.Query()
	for k, vs := range values {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
