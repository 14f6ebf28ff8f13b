package sslapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/sync/singleflight"

	"github.com/riskibarqy/ssl-bot/internal/domain/leader"
	"github.com/riskibarqy/ssl-bot/internal/domain/standing"
	"github.com/riskibarqy/ssl-bot/internal/platform/logging"
	"github.com/riskibarqy/ssl-bot/internal/platform/resilience"
	"github.com/riskibarqy/ssl-bot/internal/usecase"
)

const (
	defaultBaseURL   = "https://api.simulationsoccer.com"
	standingsPath    = "/index/standings"
	draftClassPath   = "/player/getDraftClass"
	maxResponseBytes = 6 << 20
)

var errUpstreamTransient = crerr.New("ssl api transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryWaitMin   time.Duration
	RetryWaitMax   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads standings and draft classes from the league's public API.
type Client struct {
	http           *retryablehttp.Client
	baseURL        string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         singleflight.Group
	// callBudget bounds a shared request, which outlives any single caller.
	callBudget time.Duration
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

	retrying := retryablehttp.NewClient()
	retrying.HTTPClient = httpClient
	retrying.RetryMax = max(cfg.MaxRetries, 0)
	retrying.RetryWaitMin = cfg.RetryWaitMin
	retrying.RetryWaitMax = cfg.RetryWaitMax
	if retrying.RetryWaitMin <= 0 {
		retrying.RetryWaitMin = 500 * time.Millisecond
	}
	if retrying.RetryWaitMax < retrying.RetryWaitMin {
		retrying.RetryWaitMax = 4 * retrying.RetryWaitMin
	}
	retrying.Logger = nil
	retrying.ErrorHandler = retryablehttp.PassthroughErrorHandler

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	breakerCfg := cfg.CircuitBreaker.Normalize()
	breaker := resilience.NewNamedCircuitBreaker("ssl-api", breakerCfg, resilience.LogStateChanges(logger))
	logger.Debug("upstream client configured", append([]any{"breaker", "ssl-api", "base_url", baseURL}, breakerCfg.LogFields()...)...)

	return &Client{
		http:           retrying,
		baseURL:        baseURL,
		logger:         logger,
		breaker:        breaker,
		circuitEnabled: breakerCfg.Enabled,
		callBudget:     time.Duration(retrying.RetryMax+1)*httpClient.Timeout + time.Duration(retrying.RetryMax)*retrying.RetryWaitMax,
	}
}

// FetchStandings returns the normalized table for a league and season in
// upstream order.
func (c *Client) FetchStandings(ctx context.Context, season, leagueID int) ([]standing.Row, error) {
	if season <= 0 || leagueID <= 0 {
		return nil, fmt.Errorf("%w: season and league id must be greater than zero", usecase.ErrInvalidInput)
	}

	query := url.Values{}
	query.Set("season", strconv.Itoa(season))
	query.Set("league", strconv.Itoa(leagueID))

	var raw []map[string]any
	if err := c.doJSON(ctx, standingsPath, query, &raw); err != nil {
		return nil, fmt.Errorf("fetch standings season=%d league=%d: %w", season, leagueID, err)
	}

	rows, err := NormalizeStandings(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize standings season=%d league=%d: %w", season, leagueID, err)
	}
	return rows, nil
}

// FetchDraftClass returns every player of a draft class. A nil class asks for
// the academy.
func (c *Client) FetchDraftClass(ctx context.Context, class *int) ([]leader.Row, error) {
	query := url.Values{}
	if class != nil {
		if *class <= 0 {
			return nil, fmt.Errorf("%w: draft class must be greater than zero", usecase.ErrInvalidInput)
		}
		query.Set("class", strconv.Itoa(*class))
	}

	var raw []map[string]any
	if err := c.doJSON(ctx, draftClassPath, query, &raw); err != nil {
		return nil, fmt.Errorf("fetch draft class: %w", err)
	}
	return NormalizeDraftClass(raw), nil
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values, target any) error {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	// Callers of the same URL share one request, so the breaker admits and
	// records once per shared request, not once per caller.
	ch := c.flight.DoChan(fullURL, func() (any, error) {
		if c.circuitEnabled {
			if err := c.breaker.Allow(); err != nil {
				c.logger.WarnContext(ctx, "ssl api circuit breaker rejected request", "state", string(c.breaker.State()))
				return nil, fmt.Errorf("%w: league data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
			}
		}

		reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.callBudget)
		defer cancel()

		raw, reqErr := c.executeRequest(reqCtx, fullURL)
		if c.circuitEnabled {
			switch {
			case reqErr == nil, isUpstreamFailure(reqErr), stderrors.Is(reqErr, context.Canceled):
				c.breaker.Record(reqErr)
			default:
				// 4xx answers mean the provider is up.
				c.breaker.Record(nil)
			}
		}
		return raw, reqErr
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		if isUpstreamFailure(res.Err) {
			return fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, res.Err)
		}
		return res.Err
	}

	raw, ok := res.Val.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", res.Val)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: decode payload: %v", usecase.ErrMalformedData, err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if stderrors.Is(ctx.Err(), context.Canceled) {
			return nil, ctx.Err()
		}
		c.logger.WarnContext(ctx, "ssl api request failed", "url", fullURL, "error", err)
		return nil, crerr.Wrap(errUpstreamTransient, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, crerr.Wrapf(errUpstreamTransient, "read response body: %v", err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	statusErr := fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(body))
	if isRetryableStatus(resp.StatusCode) {
		c.logger.WarnContext(ctx, "ssl api request failed", "url", fullURL, "status", resp.StatusCode)
		return nil, crerr.Wrap(errUpstreamTransient, statusErr.Error())
	}
	return nil, statusErr
}

func isUpstreamFailure(err error) bool {
	return crerr.Is(err, errUpstreamTransient) && !stderrors.Is(err, context.Canceled)
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
