package numbeo

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"col-heatmap/utils"
)

// BrowserTransport loads pages in headless Chrome. It is used when the
// rankings site refuses plain HTTP clients.
type BrowserTransport struct {
	timeout     time.Duration
	logger      *utils.Logger
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
}

// NewBrowserTransport starts a browser allocator. Call Close when done.
func NewBrowserTransport(chromeBin, userAgent string, timeout time.Duration, logger *utils.Logger) *BrowserTransport {
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	logger.Info("[numbeo] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
	)
	if userAgent != "" {
		opts = append(opts, chromedp.UserAgent(userAgent))
	}
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &BrowserTransport{
		timeout:     timeout,
		logger:      logger,
		allocCtx:    allocCtx,
		cancelAlloc: cancel,
	}
}

func (b *BrowserTransport) Get(ctx context.Context, pageURL string) ([]byte, error) {
	tabCtx, cancelTab := chromedp.NewContext(b.allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, b.timeout)
	defer cancelTimeout()

	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	resp, err := chromedp.RunResponse(tabCtx, chromedp.Navigate(pageURL))
	if err != nil {
		return nil, fmt.Errorf("chromedp navigate: %w", err)
	}
	if resp != nil {
		if err := checkStatus(resp.Status, pageURL); err != nil {
			return nil, err
		}
	}

	var doc string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &doc, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("chromedp outer html: %w", err)
	}
	return []byte(doc), nil
}

// checkStatus maps the navigation status reported by the browser onto the
// same errors the HTTP transport returns.
func checkStatus(status int64, pageURL string) error {
	if status == 200 {
		return nil
	}
	return &StatusError{Code: int(status), URL: pageURL}
}

// Close shuts the browser down.
func (b *BrowserTransport) Close() error {
	b.cancelAlloc()
	return nil
}

func findChromeBinary() string {
	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
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
