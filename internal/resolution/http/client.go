package resolution_http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"editor-media-sync/internal/custom_errors"
	"editor-media-sync/internal/logger"
	"editor-media-sync/internal/metrics"
	"editor-media-sync/internal/resolution"
)

// Client resolves playable URLs against the remote transcoding service's
// REST endpoint. Single attempt per call.
type Client struct {
	baseURL string
	client  *http.Client
	log     *logger.Logger
	metrics metrics.Provider
}

func NewClient(baseURL string, timeout time.Duration, log *logger.Logger, metricsProvider metrics.Provider) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
		metrics: metricsProvider,
	}
}

type videoResponse struct {
	VideoURL  string `json:"video_url"`
	PosterURL string `json:"poster_url"`
}

func (c *Client) ResolvePlayableURL(ctx context.Context, token string) (*resolution.PlaybackInfo, error) {
	start := time.Now()

	endpoint := fmt.Sprintf("%s/videos/%s", c.baseURL, url.PathEscape(token))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.metrics.IncrementResolutionOps(false)
		return nil, fmt.Errorf("failed to build resolution request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.IncrementResolutionOps(false)
		c.metrics.RecordResolutionDuration(time.Since(start))
		c.log.Error("Resolution request failed",
			slog.String("token", token),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", custom_errors.ErrResolutionFailed, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.log.Warn("Failed to close resolution response body", slog.String("error", closeErr.Error()))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		c.metrics.IncrementResolutionOps(false)
		c.metrics.RecordResolutionDuration(time.Since(start))
		c.log.Error("Resolution request returned non-OK status",
			slog.String("token", token),
			slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", custom_errors.ErrResolutionFailed, resp.StatusCode)
	}

	var body videoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.metrics.IncrementResolutionOps(false)
		c.metrics.RecordResolutionDuration(time.Since(start))
		c.log.Error("Failed to decode resolution response",
			slog.String("token", token),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", custom_errors.ErrResolutionFailed, err)
	}

	if body.VideoURL == "" {
		c.metrics.IncrementResolutionOps(false)
		c.metrics.RecordResolutionDuration(time.Since(start))
		return nil, fmt.Errorf("%w: empty video URL for token %s", custom_errors.ErrResolutionFailed, token)
	}

	c.metrics.IncrementResolutionOps(true)
	c.metrics.RecordResolutionDuration(time.Since(start))
	c.log.Debug("Resolved playable URL",
		slog.String("token", token),
		slog.String("video_url", body.VideoURL))

	return &resolution.PlaybackInfo{
		VideoURL:  body.VideoURL,
		PosterURL: body.PosterURL,
	}, nil
}
