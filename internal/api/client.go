package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/aletheia/internal/cache"
	"github.com/ppiankov/aletheia/internal/logging"
	"github.com/ppiankov/aletheia/internal/model"
	"github.com/ppiankov/aletheia/internal/util"
	"github.com/tidwall/gjson"
)

const (
	generatePath = "/generate/"
	reportPath   = "/api/llm/generate-report/"
	articlesPath = "/articles"
)

// Client talks to the analysis service and normalizes its responses
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	defaults   Defaults
	cache      cache.Cache
	cacheTTL   time.Duration
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithDefaults replaces the default-value provider
func WithDefaults(d Defaults) Option {
	return func(c *Client) { c.defaults = d }
}

// WithCache caches trending-article lists for ttl
func WithCache(store cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = store
		c.cacheTTL = ttl
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithMaxBodyBytes limits how much of a response body is read
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) { c.maxBytes = n }
}

// NewClient creates a client for the service at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = model.DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		userAgent:  "Aletheia/0.1",
		maxBytes:   4_000_000,
		defaults:   StaticDefaults{},
		cache:      cache.Nop{},
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientFromConfig builds a client with the configured transport, timeout and cache
func NewClientFromConfig(cfg *model.Config, logger *slog.Logger) *Client {
	transport := &http.Transport{
		Proxy: util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy),
	}
	if cfg.HTTP.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via --insecure
	}

	opts := []Option{
		WithHTTPClient(&http.Client{
			Timeout:   cfg.HTTP.Timeout,
			Transport: transport,
		}),
		WithUserAgent(cfg.HTTP.UserAgent),
		WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes),
		WithLogger(logger),
	}
	if cfg.Cache.Enabled {
		opts = append(opts, WithCache(cache.NewMemoryCache(cfg.Cache.ArticlesTTL, 10*time.Minute), cfg.Cache.ArticlesTTL))
	}

	return NewClient(cfg.API.BaseURL, opts...)
}

// BaseURL returns the service base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Defaults returns the client's default-value provider
func (c *Client) Defaults() Defaults {
	return c.defaults
}

type generateRequest struct {
	Query    string `json:"query"`
	UserType string `json:"user_type"`
}

// Fetch generates a report for mode, routing reader requests to the direct endpoint
// and journalist requests to the wrapped one.
func (c *Client) Fetch(ctx context.Context, mode model.UserMode, query string) (*model.AnalysisRecord, error) {
	if mode == model.ModeJournalist {
		return c.GenerateReport(ctx, query, mode)
	}
	return c.GenerateAnalysis(ctx, query, mode)
}

// GenerateAnalysis calls the direct endpoint, whose body is the analysis object itself
func (c *Client) GenerateAnalysis(ctx context.Context, query string, mode model.UserMode) (*model.AnalysisRecord, error) {
	body, err := c.generate(ctx, generatePath, query, mode)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, &MalformedResponseError{Reason: "response body is not valid JSON"}
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, &MalformedResponseError{Reason: "expected a JSON object"}
	}

	rec := normalizeRecord(root, c.defaults.Fields(EndpointDirect))
	return &rec, nil
}

// GenerateReport calls the wrapped endpoint and unwraps {success, message, data: {report, metadata}}
func (c *Client) GenerateReport(ctx context.Context, query string, mode model.UserMode) (*model.AnalysisRecord, error) {
	body, err := c.generate(ctx, reportPath, query, mode)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, &MalformedResponseError{Reason: "response body is not valid JSON"}
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, &MalformedResponseError{Reason: "expected a JSON object envelope"}
	}

	message := stringField(root, []string{"message"})
	if !root.Get("success").Bool() {
		if message == "" {
			message = "The analysis service reported a failure."
		}
		return nil, &ApplicationError{Message: message}
	}

	report := root.Get("data.report")
	if !report.IsObject() {
		if message == "" {
			message = "The analysis service returned no report."
		}
		return nil, &ApplicationError{Message: message}
	}

	rec := normalizeRecord(report, c.defaults.Fields(EndpointWrapped))
	rec.Metadata = normalizeMetadata(root.Get("data.metadata"))
	return &rec, nil
}

func (c *Client) generate(ctx context.Context, path string, query string, mode model.UserMode) ([]byte, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, &ValidationError{Field: "query", Message: "must not be empty"}
	}
	if mode == "" {
		mode = model.ModeNormal
	}

	c.logger.Debug("requesting report", "path", path, "mode", mode, "query", q)
	start := time.Now()

	body, err := c.do(ctx, http.MethodPost, path, generateRequest{Query: q, UserType: string(mode)})
	if err != nil {
		c.logger.Debug("report request failed", "path", path, "error", err, "elapsed", time.Since(start))
		return nil, err
	}

	c.logger.Debug("report received", "path", path, "bytes", len(body), "elapsed", time.Since(start))
	return body, nil
}

// do performs one request and returns the body of a 2xx response
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: method + " " + path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, &TransportError{Op: "read " + path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	return body, nil
}
