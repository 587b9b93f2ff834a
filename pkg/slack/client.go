package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/testsabirweb/slack_extract/pkg/models"
)

// DefaultBaseURL is the Slack Web API root.
const DefaultBaseURL = "https://slack.com/api"

// ClientConfig contains tuning knobs for the API client.
type ClientConfig struct {
	BaseURL        string
	MaxRetries     int           // attempts per logical fetch, including the first
	InitialBackoff time.Duration // base wait before the first retry
	PageSize       int           // per-page limit for listing endpoints
}

// DefaultClientConfig returns default client configuration.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:        DefaultBaseURL,
		MaxRetries:     5,
		InitialBackoff: time.Second,
		PageSize:       200,
	}
}

// Client is a minimal Slack Web API client. All fetches go through a single
// backoff-governed GET; rate limits are retried with exponential backoff and
// jitter, every other failure is terminal for that fetch.
type Client struct {
	token          string
	baseURL        string
	httpClient     *http.Client
	maxRetries     int
	initialBackoff time.Duration
	pageSize       int

	// sleep and jitter are injectable so tests can run without waiting.
	sleep  func(time.Duration)
	jitter func() float64
}

// NewClient creates a new Slack API client with the given bearer token.
func NewClient(token string, config ...ClientConfig) *Client {
	cfg := DefaultClientConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 200
	}

	return &Client{
		token:          token,
		baseURL:        cfg.BaseURL,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		maxRetries:     cfg.MaxRetries,
		initialBackoff: cfg.InitialBackoff,
		pageSize:       cfg.PageSize,
		sleep:          time.Sleep,
		jitter:         rand.Float64,
	}
}

// responseMetadata carries the pagination cursor for the next page.
type responseMetadata struct {
	NextCursor string `json:"next_cursor"`
}

// apiResponse is the shared envelope for all Slack list/history endpoints.
// Only the fields relevant to the requested endpoint are populated.
type apiResponse struct {
	OK               bool             `json:"ok"`
	Error            string           `json:"error,omitempty"`
	Messages         []models.Message `json:"messages,omitempty"`
	HasMore          bool             `json:"has_more,omitempty"`
	Members          []userEntry      `json:"members,omitempty"`
	Channels         []channelEntry   `json:"channels,omitempty"`
	Usergroups       []usergroupEntry `json:"usergroups,omitempty"`
	ResponseMetadata responseMetadata `json:"response_metadata,omitempty"`
}

// get performs one logical fetch against a Web API method. A 429 response is
// retried with exponential backoff plus up to one second of jitter until
// maxRetries attempts are spent; any other HTTP error, transport error, or
// API-level failure is terminal and returned immediately.
func (c *Client) get(ctx context.Context, method string, params url.Values) (*apiResponse, error) {
	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, method, params.Encode())

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to send request: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if attempt == c.maxRetries-1 {
				break
			}
			wait := c.initialBackoff*time.Duration(1<<attempt) +
				time.Duration(c.jitter()*float64(time.Second))
			c.sleep(wait)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
		}

		var apiResp apiResponse
		err = json.NewDecoder(resp.Body).Decode(&apiResp)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		if !apiResp.OK {
			return nil, fmt.Errorf("slack API error on %s: %s", method, apiResp.Error)
		}

		return &apiResp, nil
	}

	return nil, fmt.Errorf("rate limited on %s after %d attempts", method, c.maxRetries)
}

// paginate drives get across cursor-based pages until the API stops
// returning a next cursor, a fetch fails, or handle returns false.
func (c *Client) paginate(ctx context.Context, method string, base url.Values, handle func(*apiResponse) bool) error {
	cursor := ""
	for {
		params := cloneValues(base)
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		resp, err := c.get(ctx, method, params)
		if err != nil {
			return err
		}

		if !handle(resp) {
			return nil
		}

		cursor = resp.ResponseMetadata.NextCursor
		if cursor == "" {
			return nil
		}
	}
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = vals
	}
	return out
}
