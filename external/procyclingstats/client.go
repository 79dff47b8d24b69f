package procyclingstats

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/race"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/rider"
	"github.com/riskibarqy/fantasy-cycling/internal/platform/logging"
	"github.com/riskibarqy/fantasy-cycling/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-cycling/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL      = "https://www.procyclingstats.com"
	defaultTimeout      = 20 * time.Second
	defaultRetryBackoff = time.Second
	maxResponseBytes    = 6 << 20
)

var errProviderTransient = crerr.New("procyclingstats transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads startlists, stages and rider pages from a ProCyclingStats JSON
// gateway. Every endpoint answers with a {"data": ...} envelope.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	maxRetries   int
	retryBackoff time.Duration
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
	flight       resilience.Group[[]byte]
	now          func() time.Time
}

var _ usecase.RiderDataProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}
	breaker := resilience.NewCircuitBreaker(cfg.CircuitBreaker, resilience.WithStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("procyclingstats circuit breaker changed state", "from", from, "to", to)
	}))

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: backoff,
		logger:       logger,
		breaker:      breaker,
		now:          time.Now,
	}
}

func (c *Client) FetchStartlist(ctx context.Context, def race.Definition) ([]rider.StartlistRider, error) {
	var envelope dataEnvelope[[]startlistItem]
	if err := c.doJSON(ctx, def.StartlistPath(), &envelope); err != nil {
		return nil, fmt.Errorf("fetch startlist race=%s: %w", def.Key, err)
	}

	out := make([]rider.StartlistRider, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		entry := item.toDomain()
		if entry.RiderName == "" {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func (c *Client) FetchStages(ctx context.Context, def race.Definition) ([]race.Stage, error) {
	var envelope dataEnvelope[[]race.Stage]
	path := strings.TrimSuffix(def.URLPath, "/") + "/stages"
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		return nil, fmt.Errorf("fetch stages race=%s: %w", def.Key, err)
	}

	out := make([]race.Stage, 0, len(envelope.Data))
	for _, stage := range envelope.Data {
		stage.StageURL = cleanPath(stage.StageURL)
		if stage.StageURL == "" {
			continue
		}
		out = append(out, stage)
	}
	return out, nil
}

func (c *Client) FetchRider(ctx context.Context, riderURL string) (rider.Profile, error) {
	riderURL = cleanPath(riderURL)
	if riderURL == "" {
		return rider.Profile{}, fmt.Errorf("%w: rider url is required", usecase.ErrInvalidInput)
	}

	var envelope dataEnvelope[riderPage]
	if err := c.doJSON(ctx, riderURL, &envelope); err != nil {
		return rider.Profile{}, fmt.Errorf("fetch rider url=%s: %w", riderURL, err)
	}
	return envelope.Data.toDomain(riderURL, c.now().UTC()), nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	fullURL := c.baseURL + "/" + cleanPath(path)

	raw, err, _ := c.flight.Do(fullURL, func() ([]byte, error) {
		var body []byte
		execErr := c.breaker.Execute(func() error {
			var reqErr error
			body, reqErr = c.executeRequest(ctx, fullURL)
			return reqErr
		}, isCircuitFailure)
		return body, execErr
	})
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "procyclingstats circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: rider data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrap(err, "decode provider payload")
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, crerr.Wrap(err, "build request")
		}
		req.Header.Set("accept", "application/json")

		raw, status, err := c.send(req)
		switch {
		case err != nil:
			lastErr = fmt.Errorf("%w: %v", errProviderTransient, err)
		case status >= 200 && status < 300:
			return raw, nil
		case status == http.StatusNotFound:
			return nil, fmt.Errorf("%w: provider status=%d", usecase.ErrNotFound, status)
		case isRetryableStatus(status):
			lastErr = fmt.Errorf("%w: provider status=%d body=%s", errProviderTransient, status, abbreviateBody(raw))
		default:
			return nil, fmt.Errorf("provider status=%d body=%s", status, abbreviateBody(raw))
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "procyclingstats request failed", "url", fullURL, "attempts", c.maxRetries+1, "error", lastErr)
	return nil, lastErr
}

func (c *Client) send(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, crerr.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxResponseBytes)); err != nil {
		return nil, resp.StatusCode, crerr.Wrap(err, "read response body")
	}
	return append([]byte(nil), buf.B...), resp.StatusCode, nil
}

func isCircuitFailure(err error) bool {
	return stderrors.Is(err, errProviderTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func cleanPath(value string) string {
	return strings.Trim(strings.TrimSpace(value), "/")
}
