package render

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"goodreads-insights/utils"
)

// maxBannerBytes caps the animation download.
const maxBannerBytes = 4 << 20

var errInvalidBanner = errors.New("response is not valid JSON")

// BannerFetcher downloads the decorative Lottie animation shown at the top
// of the HTML report. It never fails the caller: any problem is logged and
// reported as a nil banner.
type BannerFetcher struct {
	client *http.Client
	retry  *utils.RetryConfig
	logger *utils.Logger
}

// NewBannerFetcher builds a fetcher with a per-request timeout and the given
// attempt budget.
func NewBannerFetcher(logger *utils.Logger, timeout time.Duration, maxAttempts int) *BannerFetcher {
	return &BannerFetcher{
		client: &http.Client{Timeout: timeout},
		retry: &utils.RetryConfig{
			MaxAttempts: maxAttempts,
			BaseDelay:   500 * time.Millisecond,
			Logger:      logger,
		},
		logger: logger,
	}
}

// Fetch returns the animation JSON at url, or nil if url is empty or the
// download fails.
func (b *BannerFetcher) Fetch(ctx context.Context, url string) json.RawMessage {
	if url == "" {
		return nil
	}

	var banner json.RawMessage
	err := b.retry.Do(ctx, "fetch-banner", func(ctx context.Context) error {
		data, err := b.get(ctx, url)
		if err != nil {
			return err
		}
		banner = data
		return nil
	})
	if err != nil {
		b.logger.Warn("[render] Banner unavailable, rendering without it: %v", err)
		return nil
	}

	b.logger.Debug("[render] Banner fetched (%d bytes)", len(banner))
	return banner
}

func (b *BannerFetcher) get(ctx context.Context, url string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("banner: build request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("banner: get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("banner: get %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBannerBytes))
	if err != nil {
		return nil, fmt.Errorf("banner: read body: %w", err)
	}
	if !json.Valid(data) {
		return nil, errInvalidBanner
	}
	return json.RawMessage(data), nil
}
