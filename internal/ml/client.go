// internal/ml/client.go
package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	appErrors "github.com/adityarw/nasabah-scoring-backend/internal/errors"
	"github.com/adityarw/nasabah-scoring-backend/internal/features"
)

// ScoreResult is the scoring API answer for one prospect. Raw carries the
// API's 0/1 prediction field before thresholding into a label.
type ScoreResult struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
	Threshold   float64 `json:"threshold"`
	Raw         int     `json:"prediction"`
}

type BatchResult struct {
	Predictions []ScoreResult `json:"predictions"`
}

// Scorer is what the service layer depends on; tests substitute it.
type Scorer interface {
	Score(ctx context.Context, fs features.FeatureSet) (*ScoreResult, error)
	ScoreBatch(ctx context.Context, list []features.FeatureSet) (*BatchResult, error)
}

const (
	defaultBaseURL = "http://localhost:8000"
	scoreTimeout   = 10 * time.Second
	probeTimeout   = 3 * time.Second
)

// Client talks to the scoring API. One failed call is one failed call:
// there are no retries here, the caller decides whether to re-request.
type Client struct {
	BaseURL string
	Timeout time.Duration
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		Timeout: scoreTimeout,
		HTTP:    &http.Client{},
	}
}

func (c *Client) Score(ctx context.Context, fs features.FeatureSet) (*ScoreResult, error) {
	var out ScoreResult
	if err := c.post(ctx, "/predict", map[string]any{"client": fs}, &out, c.Timeout); err != nil {
		return nil, err
	}
	return &out, nil
}

// ScoreBatch gets double the single-call budget since the API scores the
// clients sequentially.
func (c *Client) ScoreBatch(ctx context.Context, list []features.FeatureSet) (*BatchResult, error) {
	var out BatchResult
	if err := c.post(ctx, "/predict/batch", map[string]any{"clients": list}, &out, 2*c.Timeout); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health probes the scoring API. Operational visibility only; nothing on
// the write path depends on it.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	return c.get(ctx, "/health")
}

func (c *Client) ModelInfo(ctx context.Context) (map[string]any, error) {
	return c.get(ctx, "/model/info")
}

func (c *Client) post(ctx context.Context, path string, payload any, out any, timeout time.Duration) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode scoring request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build scoring request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return appErrors.NewUpstream(0, err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return appErrors.NewUpstream(0, err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return appErrors.NewUpstream(resp.StatusCode, string(respBody))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return appErrors.NewUpstream(resp.StatusCode, fmt.Sprintf("malformed scoring response: %v", err))
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build probe request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, appErrors.NewUpstream(0, err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.NewUpstream(0, err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, appErrors.NewUpstream(resp.StatusCode, string(respBody))
	}

	var out map[string]any
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, appErrors.NewUpstream(resp.StatusCode, fmt.Sprintf("malformed probe response: %v", err))
	}
	return out, nil
}

var _ Scorer = (*Client)(nil)
