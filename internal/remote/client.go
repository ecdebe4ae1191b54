// Package remote talks to the enrichment API: the token service, the job
// status service and the export service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/enrichhq/enrichctl/internal/api/dto/common"
	"github.com/enrichhq/enrichctl/internal/logging"
)

const apiPrefix = "/api/v1"

// Config configures a Client.
type Config struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	ExportDir string
	UserAgent string
}

// Client implements credential.Authority, jobs.Source and export.Authority
// against the enrichment API.
type Client struct {
	baseURL   *url.URL
	token     string
	http      *http.Client
	exportDir string
	userAgent string
	logger    *logging.Logger
}

func NewClient(cfg Config, logger *logging.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid API URL %q: scheme must be http or https", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "enrichctl"
	}
	if logger == nil {
		logger = logging.NewDiscard()
	}

	return &Client{
		baseURL:   u,
		token:     cfg.Token,
		http:      &http.Client{Timeout: cfg.Timeout},
		exportDir: cfg.ExportDir,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}, nil
}

type envelope struct {
	Success bool                  `json:"success"`
	Data    json.RawMessage       `json:"data"`
	Error   *common.ErrorResponse `json:"error"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Request, error) {
	if c.token == "" {
		return nil, ErrNoToken
	}

	u, err := url.Parse(strings.TrimRight(c.baseURL.String(), "/") + apiPrefix + path)
	if err != nil {
		return nil, fmt.Errorf("failed to build request URL: %w", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// send performs the request and returns the response when it is 2xx.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", logging.ErrConnection, req.Method, req.URL.Path, err)
	}
	c.logger.Debug("%s %s -> %d (%s)", req.Method, req.URL.Path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, statusError(resp)
	}
	return resp, nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	serr := &StatusError{StatusCode: resp.StatusCode}

	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		serr.Code = env.Error.Code
		serr.Message = env.Error.Message
	} else {
		serr.Message = strings.TrimSpace(string(body))
	}
	return serr
}

// do sends a JSON request and decodes the envelope's data into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Success {
		if env.Error != nil {
			return &StatusError{StatusCode: resp.StatusCode, Code: env.Error.Code, Message: env.Error.Message}
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: "request was not successful"}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
