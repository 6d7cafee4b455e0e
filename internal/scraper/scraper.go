package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/PradyunT/catapult-project/internal/model"
	"github.com/PradyunT/catapult-project/pkg/metrics"
)

// Brightspace DOM contracts. Both are unstable external interfaces owned
// by the target site; a layout change surfaces as ErrNoRows.
const (
	viewSelector = "#ListPageViewSelector"
	rowSelector  = "li.d2l-datalist-item.d2l-datalist-item-actionable"
)

var (
	// ErrLoginTimeout means the view selector never appeared, i.e. the
	// operator did not finish the DUO login within the bound.
	ErrLoginTimeout = errors.New("timed out waiting for login to complete")
	// ErrNoRows means the list view produced no assignment rows: either
	// the user has no assignments or the site layout changed.
	ErrNoRows = errors.New("no assignment rows appeared")
)

// Session is the browser capability the pipeline drives. The production
// implementation is ChromeSession; tests inject stubs.
type Session interface {
	Navigate(ctx context.Context, url string) error
	WaitVisible(ctx context.Context, selector string) error
	Click(ctx context.Context, selector string) error
	ExtractRows(ctx context.Context, selector string) ([]RawRow, error)
	Close() error
}

// SessionFactory opens a fresh browser session. Each Scrape call owns
// exactly one session and closes it on every exit path.
type SessionFactory func(ctx context.Context) (Session, error)

type Config struct {
	CalendarURL  string
	LoginTimeout time.Duration
	SettleDelay  time.Duration
	RowsTimeout  time.Duration
}

type Scraper struct {
	cfg        Config
	newSession SessionFactory
	logger     *zap.Logger
}

func NewScraper(cfg Config, newSession SessionFactory, logger *zap.Logger) *Scraper {
	if cfg.LoginTimeout <= 0 {
		cfg.LoginTimeout = 120 * time.Second
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = 5 * time.Second
	}
	if cfg.RowsTimeout <= 0 {
		cfg.RowsTimeout = 15 * time.Second
	}
	return &Scraper{cfg: cfg, newSession: newSession, logger: logger}
}

// Scrape runs the four-stage pipeline: establish an authenticated session,
// switch the calendar to list view, extract raw rows, normalize them into
// tasks. Rows are returned in page order; rejected rows are only logged.
func (s *Scraper) Scrape(ctx context.Context) ([]model.Task, error) {
	sess, err := s.newSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser session: %w", err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			s.logger.Warn("Failed to close browser session", zap.Error(cerr))
		}
	}()

	if err := s.establishSession(ctx, sess); err != nil {
		return nil, err
	}

	if err := s.switchToListView(ctx, sess); err != nil {
		return nil, err
	}

	rows, err := sess.ExtractRows(ctx, rowSelector)
	if err != nil {
		return nil, fmt.Errorf("failed to extract assignment rows: %w", err)
	}
	s.logger.Info("Extracted assignment rows", zap.Int("row_count", len(rows)))

	tasks, skipped := NormalizeRows(rows)
	metrics.AddScrapeRows("accepted", len(tasks))
	metrics.AddScrapeRows("skipped", len(skipped))
	for _, skip := range skipped {
		s.logger.Debug("Skipped assignment row",
			zap.Int("index", skip.Index),
			zap.String("title", skip.Title),
			zap.String("reason", skip.Reason),
		)
	}
	s.logger.Info("Normalized assignment rows",
		zap.Int("accepted", len(tasks)),
		zap.Int("skipped", len(skipped)),
	)

	return tasks, nil
}

// establishSession navigates to the calendar and blocks until the view
// selector appears. The selector only renders after login, so its
// presence doubles as the authentication-completion signal.
func (s *Scraper) establishSession(ctx context.Context, sess Session) error {
	if err := sess.Navigate(ctx, s.cfg.CalendarURL); err != nil {
		return fmt.Errorf("failed to open calendar page: %w", err)
	}

	s.logger.Info("Waiting for manual login to complete",
		zap.String("url", s.cfg.CalendarURL),
		zap.Duration("timeout", s.cfg.LoginTimeout),
	)

	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.LoginTimeout)
	defer cancel()

	if err := sess.WaitVisible(waitCtx, viewSelector); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w (waited %s)", ErrLoginTimeout, s.cfg.LoginTimeout)
		}
		return fmt.Errorf("failed waiting for view selector: %w", err)
	}

	s.logger.Info("Login detected, calendar loaded")
	return nil
}

// switchToListView clicks the list tab, waits out the settle delay (the
// site exposes no readiness signal for this transition), then polls for
// the first assignment row as the real readiness gate.
func (s *Scraper) switchToListView(ctx context.Context, sess Session) error {
	if err := sess.Click(ctx, viewSelector); err != nil {
		return fmt.Errorf("failed to click list view tab: %w", err)
	}
	s.logger.Debug("Clicked list view tab", zap.Duration("settle_delay", s.cfg.SettleDelay))

	select {
	case <-time.After(s.cfg.SettleDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.RowsTimeout)
	defer cancel()

	if err := sess.WaitVisible(waitCtx, rowSelector); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w within %s", ErrNoRows, s.cfg.RowsTimeout)
		}
		return fmt.Errorf("failed waiting for assignment rows: %w", err)
	}

	return nil
}
