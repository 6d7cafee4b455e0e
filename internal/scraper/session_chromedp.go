package scraper

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
)

// extractRowsTemplate runs inside the page. Missing title or date blocks
// degrade to empty strings (filtered later); a missing course label falls
// back to the sentinel. The %q verb injects the row selector.
const extractRowsTemplate = `(() => {
	const rows = Array.from(document.querySelectorAll(%q));
	return rows.map((row) => {
		const text = (el) => (el && el.textContent ? el.textContent.trim() : '');
		const titleEl = row.querySelector('.d2l-textblock-strong');
		const dateEl = row.querySelector('.d2l-textblock:not(.d2l-textblock-strong)');
		const courseEl = row.querySelector('.d2l-offscreen');
		return {
			title: text(titleEl),
			dueText: text(dateEl),
			course: text(courseEl) || 'Unknown Course',
		};
	});
})()`

type ChromeOptions struct {
	// Headless must stay false for interactive logins: the operator has
	// to complete the DUO prompt in a visible window.
	Headless bool
}

// ChromeSession drives a real Chrome tab over the DevTools protocol.
type ChromeSession struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

func NewChromeSession(ctx context.Context, opts ChromeOptions) (*ChromeSession, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("start-maximized", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancel := chromedp.NewContext(allocCtx)

	// Start the browser now so the window is up before navigation.
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}

	return &ChromeSession{ctx: tabCtx, cancel: cancel, allocCancel: allocCancel}, nil
}

// NewChromeFactory adapts NewChromeSession to the SessionFactory shape.
func NewChromeFactory(opts ChromeOptions) SessionFactory {
	return func(ctx context.Context) (Session, error) {
		return NewChromeSession(ctx, opts)
	}
}

// run executes actions on the tab, honoring the caller's deadline. The
// tab context outlives individual stage timeouts, so a timed-out wait
// does not kill the browser.
func (s *ChromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx := s.ctx
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithDeadline(s.ctx, deadline)
		defer cancel()
	}
	return chromedp.Run(runCtx, actions...)
}

func (s *ChromeSession) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url))
}

func (s *ChromeSession) WaitVisible(ctx context.Context, selector string) error {
	return s.run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

func (s *ChromeSession) Click(ctx context.Context, selector string) error {
	return s.run(ctx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible))
}

func (s *ChromeSession) ExtractRows(ctx context.Context, selector string) ([]RawRow, error) {
	var rows []RawRow
	expr := fmt.Sprintf(extractRowsTemplate, selector)
	if err := s.run(ctx, chromedp.Evaluate(expr, &rows)); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ChromeSession) Close() error {
	s.cancel()
	s.allocCancel()
	return nil
}
