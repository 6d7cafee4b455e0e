package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSession struct {
	rows          []RawRow
	navigateErr   error
	failLoginWait bool
	failRowsWait  bool
	extractErr    error

	navigated  []string
	clicked    []string
	closeCount int
}

func (s *stubSession) Navigate(ctx context.Context, url string) error {
	s.navigated = append(s.navigated, url)
	return s.navigateErr
}

func (s *stubSession) WaitVisible(ctx context.Context, selector string) error {
	if selector == viewSelector && s.failLoginWait {
		return context.DeadlineExceeded
	}
	if selector == rowSelector && s.failRowsWait {
		return context.DeadlineExceeded
	}
	return nil
}

func (s *stubSession) Click(ctx context.Context, selector string) error {
	s.clicked = append(s.clicked, selector)
	return nil
}

func (s *stubSession) ExtractRows(ctx context.Context, selector string) ([]RawRow, error) {
	if s.extractErr != nil {
		return nil, s.extractErr
	}
	return s.rows, nil
}

func (s *stubSession) Close() error {
	s.closeCount++
	return nil
}

func newTestScraper(sess *stubSession) *Scraper {
	return NewScraper(
		Config{
			CalendarURL:  "https://example.edu/d2l/le/calendar/1",
			LoginTimeout: 50 * time.Millisecond,
			SettleDelay:  time.Millisecond,
			RowsTimeout:  50 * time.Millisecond,
		},
		func(ctx context.Context) (Session, error) { return sess, nil },
		zap.NewNop(),
	)
}

func TestScrapeSuccess(t *testing.T) {
	sess := &stubSession{
		rows: []RawRow{
			{Title: "Essay 1 - Due", DueText: "April 5, 2025", Course: "ENGL101"},
			{Title: "Calendar event", DueText: "April 6, 2025", Course: "ENGL101"},
			{Title: "Quiz 2 - due", DueText: "April 7, 2025", Course: "MATH200"},
		},
	}

	tasks, err := newTestScraper(sess).Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Essay 1 - Due", tasks[0].Title)
	assert.Equal(t, "Quiz 2 - due", tasks[1].Title)

	assert.Equal(t, []string{"https://example.edu/d2l/le/calendar/1"}, sess.navigated)
	assert.Equal(t, []string{viewSelector}, sess.clicked)
	assert.Equal(t, 1, sess.closeCount, "session must be closed exactly once on success")
}

func TestScrapeLoginTimeout(t *testing.T) {
	sess := &stubSession{failLoginWait: true}

	tasks, err := newTestScraper(sess).Scrape(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoginTimeout)
	assert.Nil(t, tasks)
	assert.Equal(t, 1, sess.closeCount, "session must be closed exactly once on login timeout")
	assert.Empty(t, sess.clicked)
}

func TestScrapeNoRowsTimeout(t *testing.T) {
	sess := &stubSession{failRowsWait: true}

	tasks, err := newTestScraper(sess).Scrape(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoRows)
	assert.Nil(t, tasks)
	assert.Equal(t, 1, sess.closeCount, "session must be closed exactly once on rows timeout")
}

func TestScrapeNavigateFailure(t *testing.T) {
	sess := &stubSession{navigateErr: errors.New("net::ERR_NAME_NOT_RESOLVED")}

	_, err := newTestScraper(sess).Scrape(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLoginTimeout)
	assert.Equal(t, 1, sess.closeCount)
}

func TestScrapeExtractFailure(t *testing.T) {
	sess := &stubSession{extractErr: errors.New("evaluate failed")}

	_, err := newTestScraper(sess).Scrape(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract")
	assert.Equal(t, 1, sess.closeCount)
}

func TestScrapeSessionLaunchFailure(t *testing.T) {
	launchErr := errors.New("chrome not found")
	s := NewScraper(
		Config{CalendarURL: "https://example.edu"},
		func(ctx context.Context) (Session, error) { return nil, launchErr },
		zap.NewNop(),
	)

	_, err := s.Scrape(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, launchErr)
}

func TestScrapeEmptyRowListYieldsEmptyTasks(t *testing.T) {
	sess := &stubSession{rows: []RawRow{}}

	tasks, err := newTestScraper(sess).Scrape(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Equal(t, 1, sess.closeCount)
}
