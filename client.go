package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fitroom/fitroom-go/headers"
)

const defaultBaseURL = "https://api.fitroom.app/api/v1"
const defaultUserAgent = "fitroom-sdk/" + Version

const defaultConnectTO = 10 * time.Second
const defaultRequestTO = 60 * time.Second

// Config wires authentication, base URL, and telemetry for the API client.
type Config struct {
	BaseURL string
	// Session owns the token pair. The transport reads and mutates it only
	// through this bridge. Leave nil for unauthenticated use.
	Session     SessionBridge
	HTTPClient  *http.Client
	Telemetry   TelemetryHooks
	Logger      zerolog.Logger
	UserAgent   string
	RefreshSkew time.Duration
}

// Client provides high-level helpers for interacting with the FitRoom API.
// All outgoing requests flow through the authenticated request pipeline in
// pipeline.go.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	refreshHTTP *http.Client
	session     SessionBridge
	telemetry   TelemetryHooks
	logger      zerolog.Logger
	userAgent   string
	refreshSkew time.Duration

	refreshFlight SingleFlight[string]

	// Grouped service clients.
	Auth    *AuthClient
	Social  *SocialClient
	Billing *BillingClient
	TryOn   *TryOnClient
}

// NewClient validates the configuration and returns a ready-to-use Client.
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(defaultConnectTO, defaultRequestTO)
	}
	session := cfg.Session
	if session == nil {
		session = &StaticTokens{}
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	skew := cfg.RefreshSkew
	if skew <= 0 {
		skew = AccessRefreshSkew
	}
	client := &Client{
		baseURL: normalized,
		// The refresh endpoint bypasses the pipeline entirely, mirroring the
		// dedicated refresh transport: a refresh must never trigger another
		// refresh.
		httpClient:  httpClient,
		refreshHTTP: httpClient,
		session:     session,
		telemetry:   cfg.Telemetry,
		logger:      cfg.Logger,
		userAgent:   ua,
		refreshSkew: skew,
	}
	client.Auth = &AuthClient{client: client}
	client.Social = &SocialClient{client: client}
	client.Billing = &BillingClient{client: client}
	client.TryOn = &TryOnClient{client: client}
	return client, nil
}

func newHTTPClient(connectTO, requestTO time.Duration) *http.Client {
	return &http.Client{
		Timeout: requestTO,
		Transport: &http.Transport{
			DialContext:         (&net.Dialer{Timeout: connectTO}).DialContext,
			TLSHandshakeTimeout: connectTO,
		},
	}
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ConfigError{Reason: "base URL required"}
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", ConfigError{Reason: fmt.Sprintf("invalid base URL: %v", err)}
	}
	if u.Scheme == "" {
		return "", ConfigError{Reason: "base URL missing scheme (http/https)"}
	}
	if u.Host == "" {
		return "", ConfigError{Reason: "base URL missing host"}
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return strings.TrimSuffix(u.String(), "/"), nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	injectTraceparent(ctx, req)
	return req, nil
}

// newFormRequest builds a multipart request; build writes the parts. The
// whole body is buffered so the pipeline can replay it on a 401 retry.
func (c *Client) newFormRequest(ctx context.Context, method, path string, build func(w *multipart.Writer) error) (*http.Request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := build(w); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	injectTraceparent(ctx, req)
	return req, nil
}

func (c *Client) prepare(req *http.Request, token string) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	// A retried request keeps its id so server logs show one logical call.
	if req.Header.Get(headers.RequestID) == "" {
		req.Header.Set(headers.RequestID, uuid.NewString())
	}
	req.Header.Set(headers.Client, "go/"+Version)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) buildURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// sendAndDecode issues a JSON request through the pipeline and decodes the
// response body into out (skipped when out is nil or the body is empty).
func (c *Client) sendAndDecode(ctx context.Context, method, path string, payload, out any) error {
	req, err := c.newJSONRequest(ctx, method, path, payload)
	if err != nil {
		return err
	}
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	//nolint:errcheck // best-effort cleanup on return
	defer func() { _ = resp.Body.Close() }()
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return decodeJSON(resp.Body, out)
}

// decodeJSON decodes a response body into out, treating an empty or
// literal-null body as "nothing to decode" (the draft endpoints answer
// that way).
func decodeJSON(r io.Reader, out any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}
	return json.Unmarshal(trimmed, out)
}
