package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/fitroom/fitroom-go/routes"
)

// Endpoint classes for the request pipeline. Refresh and the credential
// endpoints are exempt from proactive refresh and the 401 retry: a 401
// from login is a wrong password, not a stale token, and retrying refresh
// with refresh would recurse.
type endpointKind int

const (
	endpointGeneral endpointKind = iota
	endpointRefresh
	endpointAuthNoRetry
)

func classifyEndpoint(path string) endpointKind {
	switch {
	case strings.Contains(path, routes.AuthRefresh):
		return endpointRefresh
	case strings.Contains(path, routes.AuthLogin),
		strings.Contains(path, routes.AuthRegister),
		strings.Contains(path, routes.AuthGoogle),
		strings.Contains(path, routes.AuthLogout):
		return endpointAuthNoRetry
	default:
		return endpointGeneral
	}
}

// send runs one request through the authenticated pipeline:
//
//  1. classify the endpoint
//  2. proactively refresh when the access token is within the skew window
//  3. attach the bearer token and dispatch
//  4. on a 401 for a general endpoint, refresh through the shared flight
//     and re-dispatch exactly once
//
// Status >= 400 is normalized into APIError; transport failures into
// TransportError. On success the caller owns resp.Body.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	kind := classifyEndpoint(req.URL.Path)

	token := c.session.AccessToken()
	if kind == endpointGeneral && token != "" && tokenExpiringSoon(token, c.refreshSkew, time.Now()) {
		// A failed proactive refresh is not fatal here: dispatch with the
		// stale token and let the server rule on it.
		if next, err := c.refreshAccessToken(ctx); err == nil && next != "" {
			token = next
		}
	}

	resp, err := c.dispatch(req, token)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && kind == endpointGeneral {
		originalErr := decodeAPIError(resp)
		_ = resp.Body.Close()

		// Concurrent 401s coalesce onto one refresh flight. If no token
		// comes back the original failure is surfaced untouched.
		next, _ := c.refreshAccessToken(ctx)
		if next == "" {
			return nil, originalErr
		}
		retry, cloneErr := cloneRequest(req)
		if cloneErr != nil {
			return nil, originalErr
		}
		retryResp, retryErr := c.dispatch(retry, next)
		if retryErr != nil {
			return nil, retryErr
		}
		if retryResp.StatusCode >= 400 {
			// A second 401 is propagated, never retried again.
			defer func() { _ = retryResp.Body.Close() }()
			return nil, decodeAPIError(retryResp)
		}
		return retryResp, nil
	}

	if resp.StatusCode >= 400 {
		//nolint:errcheck // best-effort cleanup on return
		defer func() { _ = resp.Body.Close() }()
		return nil, decodeAPIError(resp)
	}
	return resp, nil
}

func (c *Client) dispatch(req *http.Request, token string) (*http.Response, error) {
	c.prepare(req, token)
	if c.telemetry.OnHTTPRequest != nil {
		c.telemetry.OnHTTPRequest(req.Context(), req)
	}
	c.logger.Debug().Str("method", req.Method).Str("path", req.URL.Path).Msg("http request")
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.telemetry.OnHTTPResponse != nil {
		c.telemetry.OnHTTPResponse(req.Context(), req, resp, err, time.Since(start))
	}
	c.telemetry.metric(req.Context(), "sdk_http_request_latency_ms", float64(time.Since(start).Milliseconds()), map[string]string{
		"path": req.URL.Path,
	})
	if err != nil {
		return nil, TransportError{
			Kind:    classifyTransportErrorKind(err),
			Message: "request failed",
			Cause:   err,
		}
	}
	return resp, nil
}

func cloneRequest(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		clone.Body = body
	}
	return clone, nil
}

// RefreshRequest wraps the token used during refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// refreshAccessToken coordinates all refresh needs through one shared
// flight; the flight record lives only until settlement.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	return c.refreshFlight.Run(ctx, c.runRefresh)
}

// runRefresh performs one refresh attempt. A 400/401 from the refresh
// endpoint means the refresh token itself is dead, so the session is
// cleared; any other failure (network, 5xx) leaves the session intact for
// a later attempt.
func (c *Client) runRefresh(ctx context.Context) (string, error) {
	refreshToken := c.session.RefreshToken()
	if refreshToken == "" {
		c.session.ClearSession()
		return "", nil
	}

	sess, err := c.postRefresh(ctx, RefreshRequest{RefreshToken: refreshToken})
	c.telemetry.tokenRefresh(ctx, err)
	if err != nil {
		if status, ok := statusOf(err); ok && (status == http.StatusBadRequest || status == http.StatusUnauthorized) {
			c.session.ClearSession()
		}
		c.logger.Debug().Err(err).Msg("token refresh failed")
		return "", err
	}
	c.session.SetSession(sess)
	c.logger.Debug().Msg("token refresh succeeded")
	return sess.AccessToken, nil
}

// postRefresh talks to the refresh endpoint outside the pipeline so a
// refresh can never trigger another refresh.
func (c *Client) postRefresh(ctx context.Context, body RefreshRequest) (Session, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return Session{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(routes.AuthRefresh), bytes.NewReader(encoded))
	if err != nil {
		return Session{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.refreshHTTP.Do(req)
	if err != nil {
		return Session{}, TransportError{
			Kind:    classifyTransportErrorKind(err),
			Message: "refresh request failed",
			Cause:   err,
		}
	}
	//nolint:errcheck // best-effort cleanup on return
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 400 {
		return Session{}, decodeAPIError(resp)
	}
	var sess Session
	if err := json.NewDecoder(resp.Body).Decode(&sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}
