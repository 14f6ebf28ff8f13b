package avatar

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	_ "golang.org/x/image/webp"

	"github.com/riskibarqy/ssl-bot/internal/platform/logging"
	"github.com/riskibarqy/ssl-bot/internal/usecase"
)

const maxAvatarBytes = 8 << 20

type FetcherConfig struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	MaxRetries int
	Logger     *logging.Logger
}

// Fetcher downloads member avatars for welcome banners.
type Fetcher struct {
	http   *retryablehttp.Client
	logger *logging.Logger
}

func NewFetcher(cfg FetcherConfig) *Fetcher {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	retrying := retryablehttp.NewClient()
	retrying.HTTPClient = httpClient
	retrying.RetryMax = max(cfg.MaxRetries, 0)
	retrying.RetryWaitMin = 200 * time.Millisecond
	retrying.RetryWaitMax = time.Second
	retrying.Logger = nil
	retrying.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Fetcher{http: retrying, logger: logger}
}

// Fetch downloads and decodes the image at rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (image.Image, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("%w: avatar url is required", usecase.ErrInvalidInput)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build avatar request: %v", usecase.ErrInvalidInput, err)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch avatar: %v", usecase.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.logger.WarnContext(ctx, "avatar download failed", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: avatar status=%d", usecase.ErrDependencyUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAvatarBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read avatar: %v", usecase.ErrDependencyUnavailable, err)
	}
	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: decode avatar: %v", usecase.ErrMalformedData, err)
	}
	return img, nil
}
