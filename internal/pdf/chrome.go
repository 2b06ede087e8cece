package pdf

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Letter paper in inches.
const (
	letterWidth  = 8.5
	letterHeight = 11.0
)

// ErrRendererClosed is returned by RenderPDF after Close.
var ErrRendererClosed = errors.New("pdf renderer closed")

// ChromeOptions configure the headless browser.
type ChromeOptions struct {
	// ExecPath overrides the Chrome binary. Empty means chromedp's lookup.
	ExecPath string
	// Timeout bounds a single render. Zero means 30s.
	Timeout time.Duration
}

// ChromeRenderer prints HTML to PDF with one shared headless Chrome
// process. Each render runs in its own tab, so renders may run concurrently.
type ChromeRenderer struct {
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	timeout       time.Duration

	closeOnce sync.Once
	closeErr  error
}

// NewChromeRenderer starts the browser. The caller must Close it.
func NewChromeRenderer(ctx context.Context, opts ChromeOptions) (*ChromeRenderer, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	// The browser outlives ctx; ctx only bounds startup.
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	startCtx, cancelStart := context.WithTimeout(ctx, opts.Timeout)
	defer cancelStart()
	stop := context.AfterFunc(startCtx, cancelBrowser)
	err := chromedp.Run(browserCtx)
	stop()
	if err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}

	return &ChromeRenderer{
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
		timeout:       opts.Timeout,
	}, nil
}

// RenderPDF loads html into a fresh tab and prints it on letter paper.
func (r *ChromeRenderer) RenderPDF(ctx context.Context, html []byte) ([]byte, error) {
	if r.browserCtx.Err() != nil {
		return nil, ErrRendererClosed
	}

	tabCtx, cancelTab := chromedp.NewContext(r.browserCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, r.timeout)
	defer cancelTimeout()
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var buf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(letterWidth).
				WithPaperHeight(letterHeight).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	return buf, nil
}

// Close shuts the browser down. It is safe to call more than once.
func (r *ChromeRenderer) Close() error {
	r.closeOnce.Do(func() {
		r.closeErr = chromedp.Cancel(r.browserCtx)
		r.cancelBrowser()
		r.cancelAlloc()
	})
	return r.closeErr
}
