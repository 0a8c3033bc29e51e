// Package classifier talks to the out-of-process inference backend. The
// backend owns the model; this client only moves bytes and applies the
// label-confidence policy to the returned predictions.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	// labelUnknown is returned when the top prediction does not dominate the
	// runner-up, signalling that the model declined to commit.
	labelUnknown = "Unknown"

	// unknownThresholdMul: the top prediction must exceed the runner-up by
	// this factor to be trusted.
	unknownThresholdMul = 2.0

	defaultTimeout = 10 * time.Second
)

// Config captures the settings for the inference backend connection.
type Config struct {
	// URL is the base URL of the inference server.
	URL string
	// Timeout bounds a single classification round-trip.
	Timeout time.Duration
}

// Client is an HTTP client for the inference backend.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: cfg.URL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// prediction is one entry of the backend's top-k response, ordered by
// descending probability.
type prediction struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

type predictResponse struct {
	Predictions []prediction `json:"predictions"`
}

// Classify posts the image to the backend and reduces its top-k predictions
// to a single label. When the top prediction does not beat the runner-up by
// unknownThresholdMul the result is labelUnknown with a nil confidence.
func (c *Client) Classify(ctx context.Context, image []byte) (string, *float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predictions", bytes.NewReader(image))
	if err != nil {
		return "", nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Error().Int("status", resp.StatusCode).Bytes("body", body).Msg("inference backend error")
		return "", nil, fmt.Errorf("inference backend returned %d", resp.StatusCode)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", nil, fmt.Errorf("decode inference response: %w", err)
	}
	if len(out.Predictions) == 0 {
		return "", nil, fmt.Errorf("inference backend returned no predictions")
	}

	top := out.Predictions[0]
	if len(out.Predictions) > 1 {
		runnerUp := out.Predictions[1]
		if top.Probability <= runnerUp.Probability*unknownThresholdMul {
			return labelUnknown, nil, nil
		}
	}
	return top.Label, &top.Probability, nil
}
