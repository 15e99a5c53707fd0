// Package apifootball talks to the API-Football v3 REST API
// (api-sports.io). It is the only place that knows the provider's
// wire format; everything upstream works with usecase.ExternalFixture.
package apifootball

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"

	"github.com/topcornerhq/topcorner/internal/platform/logging"
	"github.com/topcornerhq/topcorner/internal/platform/resilience"
	"github.com/topcornerhq/topcorner/internal/usecase"
)

const (
	defaultBaseURL = "https://v3.football.api-sports.io"

	// The fixtures endpoint accepts at most 20 dash-separated IDs per
	// request.
	fixtureIDChunkSize = 20

	// Chunked lookups fan out on this many goroutines at most.
	fixtureFetchParallelism = 4
)

var apiKeyHeaderRegex = regexp.MustCompile(`(?i)x-apisports-key:\s*\S+`)
var errTransient = crerr.New("apifootball transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchLiveFixtures(ctx context.Context) ([]usecase.ExternalFixture, error) {
	var envelope fixturesEnvelope
	if err := c.doJSON(ctx, "/fixtures", map[string]string{"live": "all"}, &envelope); err != nil {
		return nil, fmt.Errorf("fetch live fixtures: %w", err)
	}
	return mapFixtures(envelope.Response), nil
}

func (c *Client) FetchFixturesByDate(ctx context.Context, date string) ([]usecase.ExternalFixture, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil, fmt.Errorf("date is required")
	}

	var envelope fixturesEnvelope
	if err := c.doJSON(ctx, "/fixtures", map[string]string{"date": date}, &envelope); err != nil {
		return nil, fmt.Errorf("fetch fixtures date=%s: %w", date, err)
	}
	return mapFixtures(envelope.Response), nil
}

type fixtureChunkResult struct {
	fixtures []usecase.ExternalFixture
	err      error
}

// FetchFixturesByIDs resolves match IDs in chunks of twenty,
// concurrently. Unknown IDs are silently absent from the result, and a
// failed chunk drops only its own matches: callers get everything the
// other chunks fetched. The call errors only when no chunk succeeded.
func (c *Client) FetchFixturesByIDs(ctx context.Context, matchIDs []int64) ([]usecase.ExternalFixture, error) {
	if len(matchIDs) == 0 {
		return nil, nil
	}

	chunks := chunkIDs(matchIDs, fixtureIDChunkSize)

	workers := pool.NewWithResults[fixtureChunkResult]().
		WithMaxGoroutines(fixtureFetchParallelism)
	for _, chunk := range chunks {
		chunk := chunk
		workers.Go(func() fixtureChunkResult {
			idValues := make([]string, 0, len(chunk))
			for _, id := range chunk {
				idValues = append(idValues, strconv.FormatInt(id, 10))
			}

			var envelope fixturesEnvelope
			if err := c.doJSON(ctx, "/fixtures", map[string]string{"ids": strings.Join(idValues, "-")}, &envelope); err != nil {
				return fixtureChunkResult{err: fmt.Errorf("fetch fixtures ids=%s: %w", strings.Join(idValues, "-"), err)}
			}
			return fixtureChunkResult{fixtures: mapFixtures(envelope.Response)}
		})
	}

	out := make([]usecase.ExternalFixture, 0, len(matchIDs))
	var firstErr error
	failedChunks := 0
	for _, result := range workers.Wait() {
		if result.err != nil {
			failedChunks++
			if firstErr == nil {
				firstErr = result.err
			}
			continue
		}
		out = append(out, result.fixtures...)
	}

	if failedChunks == len(chunks) {
		return nil, firstErr
	}
	if failedChunks > 0 {
		c.logger.WarnContext(ctx, "partial fixture lookup failure",
			"failed_chunks", failedChunks,
			"total_chunks", len(chunks),
			"error", firstErr,
		)
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "apifootball circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: football data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("x-apisports-key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "apifootball request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errTransient)
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
		return true
	}
	return code >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, key string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if key != "" {
		value = strings.ReplaceAll(value, key, "REDACTED")
	}
	return apiKeyHeaderRegex.ReplaceAllString(value, "x-apisports-key: REDACTED")
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func chunkIDs(ids []int64, size int) [][]int64 {
	if size <= 0 {
		size = fixtureIDChunkSize
	}
	chunks := make([][]int64, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
