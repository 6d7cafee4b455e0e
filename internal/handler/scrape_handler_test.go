package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	mqcontracts "github.com/PradyunT/catapult-project/contracts/mq"
	"github.com/PradyunT/catapult-project/internal/model"
	"github.com/PradyunT/catapult-project/internal/scraper"
)

type stubScraper struct {
	tasks []model.Task
	err   error
}

func (s *stubScraper) Scrape(ctx context.Context) ([]model.Task, error) {
	return s.tasks, s.err
}

type stubLocker struct {
	acquire  bool
	releases int
}

func (l *stubLocker) AcquireOnce(ctx context.Context, scope, key string) bool { return l.acquire }
func (l *stubLocker) Release(ctx context.Context, scope, key string)          { l.releases++ }

type stubPublisher struct {
	routingKeys []string
	payloads    []any
	err         error
}

func (p *stubPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	p.routingKeys = append(p.routingKeys, routingKey)
	p.payloads = append(p.payloads, payload)
	return p.err
}

func performScrape(t *testing.T, h *ScrapeHandler) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/scrape-assignments", h.ScrapeAssignments)

	req := httptest.NewRequest(http.MethodPost, "/api/scrape-assignments", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sampleTasks() []model.Task {
	course := "ENGL101"
	desc := "Scraped from Brightspace: Essay 1 - Due"
	return []model.Task{
		{
			Title:       "Essay 1 - Due",
			Description: &desc,
			DueDate:     time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC),
			Category:    &course,
			Priority:    model.PriorityNormal,
		},
	}
}

func TestScrapeAssignmentsSuccess(t *testing.T) {
	locker := &stubLocker{acquire: true}
	h := NewScrapeHandler(&stubScraper{tasks: sampleTasks()}, locker, nil, time.Minute, zap.NewNop())

	w := performScrape(t, h)
	require.Equal(t, http.StatusOK, w.Code)

	var got []model.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Essay 1 - Due", got[0].Title)
	assert.Equal(t, 1, locker.releases, "lock must be released after the scrape")
}

func TestScrapeAssignmentsFailure(t *testing.T) {
	locker := &stubLocker{acquire: true}
	h := NewScrapeHandler(&stubScraper{err: errors.New("browser crashed")}, locker, nil, time.Minute, zap.NewNop())

	w := performScrape(t, h)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "failed to scrape assignments", body["error"])
	assert.Contains(t, body["details"], "browser crashed")
	assert.Equal(t, 1, locker.releases, "lock must be released on failure too")
}

func TestScrapeAssignmentsNoRows(t *testing.T) {
	h := NewScrapeHandler(&stubScraper{err: scraper.ErrNoRows}, &stubLocker{acquire: true}, nil, time.Minute, zap.NewNop())

	w := performScrape(t, h)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["details"], "no assignment rows")
}

func TestScrapeAssignmentsAlreadyRunning(t *testing.T) {
	locker := &stubLocker{acquire: false}
	h := NewScrapeHandler(&stubScraper{tasks: sampleTasks()}, locker, nil, time.Minute, zap.NewNop())

	w := performScrape(t, h)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 0, locker.releases)
}

func TestScrapeAssignmentsPublishesEvent(t *testing.T) {
	pub := &stubPublisher{}
	h := NewScrapeHandler(&stubScraper{tasks: sampleTasks()}, &stubLocker{acquire: true}, pub, time.Minute, zap.NewNop())

	w := performScrape(t, h)
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, pub.routingKeys, 1)
	assert.Equal(t, mqcontracts.RoutingKeyTasksScraped, pub.routingKeys[0])

	payload, ok := pub.payloads[0].(mqcontracts.TasksScrapedPayload)
	require.True(t, ok)
	assert.NotEmpty(t, payload.ScrapeID)
	require.Len(t, payload.Tasks, 1)
	assert.Equal(t, "Essay 1 - Due", payload.Tasks[0].Title)
}

func TestScrapeAssignmentsPublishErrorDoesNotFailRequest(t *testing.T) {
	pub := &stubPublisher{err: errors.New("mq down")}
	h := NewScrapeHandler(&stubScraper{tasks: sampleTasks()}, &stubLocker{acquire: true}, pub, time.Minute, zap.NewNop())

	w := performScrape(t, h)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestScrapeAssignmentsNoEventForEmptyResult(t *testing.T) {
	pub := &stubPublisher{}
	h := NewScrapeHandler(&stubScraper{tasks: []model.Task{}}, &stubLocker{acquire: true}, pub, time.Minute, zap.NewNop())

	w := performScrape(t, h)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, pub.routingKeys)
}
