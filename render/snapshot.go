package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"goodreads-insights/utils"
)

// Snapshotter captures a rendered HTML report as a PNG using headless Chrome.
type Snapshotter struct {
	chromeBin string
	logger    *utils.Logger
	retry     *utils.RetryConfig
	timeout   time.Duration
}

// NewSnapshotter prepares a snapshotter. An empty chromeBin falls back to
// the first Chrome or Chromium binary found on the machine.
func NewSnapshotter(chromeBin string, logger *utils.Logger, maxRetries int) *Snapshotter {
	if chromeBin == "" {
		chromeBin = FindChromeBinary()
	}
	return &Snapshotter{
		chromeBin: chromeBin,
		logger:    logger,
		retry: &utils.RetryConfig{
			MaxAttempts: maxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		timeout: 60 * time.Second,
	}
}

// Capture loads htmlPath in a headless browser and writes a full-page PNG
// to pngPath.
func (s *Snapshotter) Capture(ctx context.Context, htmlPath, pngPath string) error {
	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return fmt.Errorf("snapshot: resolve %q: %w", htmlPath, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	s.logger.Info("[render] Using browser binary: %s", s.chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(1000, 1400),
	)
	if s.chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(s.chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	var png []byte
	err = s.retry.Do(allocCtx, "snapshot", func(ctx context.Context) error {
		// Suppress chromedp log noise
		browserCtx, cancel := chromedp.NewContext(ctx, chromedp.WithLogf(func(string, ...any) {}))
		defer cancel()

		browserCtx, cancelTimeout := context.WithTimeout(browserCtx, s.timeout)
		defer cancelTimeout()

		return chromedp.Run(browserCtx,
			chromedp.Navigate("file://"+filepath.ToSlash(abs)),
			chromedp.WaitVisible("body", chromedp.ByQuery),
			// Give the banner animation a moment to draw its first frame.
			chromedp.Sleep(time.Second),
			chromedp.FullScreenshot(&png, 100),
		)
	})
	if err != nil {
		return fmt.Errorf("snapshot: capture %q: %w", htmlPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(pngPath), 0755); err != nil {
		return fmt.Errorf("snapshot: create output dir: %w", err)
	}
	if err := os.WriteFile(pngPath, png, 0644); err != nil {
		return fmt.Errorf("snapshot: write %q: %w", pngPath, err)
	}

	s.logger.Info("[render] Screenshot written to %s (%d bytes)", pngPath, len(png))
	return nil
}

// FindChromeBinary locates a Chrome/Chromium binary, preferring CHROME_BIN.
func FindChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	for _, name := range []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
