package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/phrazzld/recipe-api/internal/config"
	"github.com/phrazzld/recipe-api/internal/domain"
)

const (
	recipesPath      = "/recipes"
	cooccurrencePath = "/cooccurrence"

	// maxErrorBodyBytes bounds how much of a failed response is kept for the error message.
	maxErrorBodyBytes = 512
)

// Client talks to the analysis engine over HTTP.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Client for the engine at cfg.BaseURL. Each request is
// bounded by cfg.Timeout in addition to the caller's context.
func NewClient(cfg config.AnalysisConfig, logger *slog.Logger, opts ...Option) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: base URL cannot be empty", ErrInvalidConfig)
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse base URL: %v", ErrInvalidConfig, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidConfig, base.Scheme)
	}

	c := &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With("component", "analysis_client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type recipesResponse struct {
	Recipes []domain.Recipe `json:"recipes"`
}

type cooccurrenceRequest struct {
	Recipes     []domain.Recipe `json:"recipes"`
	Ingredients []string        `json:"ingredients"`
}

// PullRecipes retrieves the recipes matching tag, or all recipes when tag is nil.
func (c *Client) PullRecipes(ctx context.Context, tag *string) ([]domain.Recipe, error) {
	endpoint := c.endpoint(recipesPath)
	if tag != nil {
		endpoint.RawQuery = url.Values{"tag": []string{*tag}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build recipes request: %w", err)
	}

	var resp recipesResponse
	if err := c.do(req, &resp); err != nil {
		return nil, fmt.Errorf("pull recipes: %w", err)
	}

	c.logger.DebugContext(ctx, "pulled recipes", "count", len(resp.Recipes))
	return resp.Recipes, nil
}

// BuildCoOccurrence asks the engine for the co-occurrence matrix of
// ingredients across recipes.
func (c *Client) BuildCoOccurrence(
	ctx context.Context,
	recipes []domain.Recipe,
	ingredients []string,
) (*domain.CoOccurrence, error) {
	if recipes == nil {
		recipes = []domain.Recipe{}
	}
	if ingredients == nil {
		ingredients = []string{}
	}

	body, err := json.Marshal(cooccurrenceRequest{Recipes: recipes, Ingredients: ingredients})
	if err != nil {
		return nil, fmt.Errorf("failed to encode co-occurrence request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(cooccurrencePath).String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build co-occurrence request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var matrix domain.CoOccurrence
	if err := c.do(req, &matrix); err != nil {
		return nil, fmt.Errorf("build co-occurrence: %w", err)
	}

	c.logger.DebugContext(ctx, "built co-occurrence matrix", "size", matrix.Size())
	return &matrix, nil
}

func (c *Client) endpoint(path string) *url.URL {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	return &u
}

// do sends req and decodes a 2xx JSON response into out.
func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		c.logger.WarnContext(req.Context(), "analysis engine returned error status",
			"method", req.Method,
			"path", req.URL.Path,
			"status", resp.StatusCode)
		return fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
