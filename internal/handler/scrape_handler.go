package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	mqcontracts "github.com/PradyunT/catapult-project/contracts/mq"
	"github.com/PradyunT/catapult-project/internal/model"
	"github.com/PradyunT/catapult-project/internal/scraper"
	"github.com/PradyunT/catapult-project/pkg/metrics"
)

// AssignmentScraper runs the scrape pipeline. Satisfied by *scraper.Scraper.
type AssignmentScraper interface {
	Scrape(ctx context.Context) ([]model.Task, error)
}

// ScrapeLocker provides the single-flight lock. Satisfied by *util.Deduper.
type ScrapeLocker interface {
	AcquireOnce(ctx context.Context, scope, key string) bool
	Release(ctx context.Context, scope, key string)
}

// EventPublisher announces scraped tasks. Satisfied by *mq.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

const (
	scrapeLockScope = "scrape"
	scrapeLockKey   = "assignments"
)

type ScrapeHandler struct {
	scraper        AssignmentScraper
	locker         ScrapeLocker
	publisher      EventPublisher
	overallTimeout time.Duration
	logger         *zap.Logger
}

func NewScrapeHandler(s AssignmentScraper, locker ScrapeLocker, publisher EventPublisher, overallTimeout time.Duration, logger *zap.Logger) *ScrapeHandler {
	if overallTimeout <= 0 {
		overallTimeout = 5 * time.Minute
	}
	return &ScrapeHandler{
		scraper:        s,
		locker:         locker,
		publisher:      publisher,
		overallTimeout: overallTimeout,
		logger:         logger,
	}
}

// ScrapeAssignments opens a visible browser, waits for the operator to log
// in, and returns the scraped tasks as a JSON array. Only one scrape runs
// at a time; concurrent callers get 409.
func (h *ScrapeHandler) ScrapeAssignments(c *gin.Context) {
	if h.locker != nil {
		if !h.locker.AcquireOnce(c.Request.Context(), scrapeLockScope, scrapeLockKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "a scrape is already in progress"})
			return
		}
		defer h.locker.Release(context.Background(), scrapeLockScope, scrapeLockKey)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.overallTimeout)
	defer cancel()

	start := time.Now()
	tasks, err := h.scraper.Scrape(ctx)
	if err != nil {
		outcome := "error"
		switch {
		case errors.Is(err, scraper.ErrLoginTimeout):
			outcome = "login_timeout"
			h.logger.Error("Scrape failed: login never completed", zap.Error(err))
		case errors.Is(err, scraper.ErrNoRows):
			// Ambiguous: either no assignments exist or the site layout
			// changed. Logged distinctly so it can be told apart.
			outcome = "no_rows"
			h.logger.Warn("Scrape found no assignment rows (empty calendar or layout change)", zap.Error(err))
		default:
			h.logger.Error("Scrape failed", zap.Error(err))
		}
		metrics.RecordScrapeDuration(outcome, time.Since(start))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to scrape assignments",
			"details": err.Error(),
		})
		return
	}
	metrics.RecordScrapeDuration("success", time.Since(start))

	h.logger.Info("Scrape completed",
		zap.Int("task_count", len(tasks)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if h.publisher != nil && len(tasks) > 0 {
		h.publishScraped(c.Request.Context(), tasks)
	}

	c.JSON(http.StatusOK, tasks)
}

func (h *ScrapeHandler) publishScraped(ctx context.Context, tasks []model.Task) {
	payload := mqcontracts.TasksScrapedPayload{
		ScrapeID:  uuid.NewString(),
		ScrapedAt: time.Now().UTC(),
		Tasks:     make([]mqcontracts.ScrapedTask, len(tasks)),
	}
	for i, t := range tasks {
		payload.Tasks[i] = mqcontracts.ScrapedTask{
			Title:       t.Title,
			Description: t.Description,
			DueDate:     t.DueDate,
			Category:    t.Category,
			Priority:    t.Priority,
		}
	}

	if err := h.publisher.Publish(ctx, mqcontracts.RoutingKeyTasksScraped, payload); err != nil {
		// The caller already has the tasks; a lost event only skips the
		// background import.
		h.logger.Error("Failed to publish tasks.scraped event",
			zap.String("scrape_id", payload.ScrapeID),
			zap.Error(err),
		)
		return
	}

	h.logger.Info("Published tasks.scraped event",
		zap.String("scrape_id", payload.ScrapeID),
		zap.Int("task_count", len(payload.Tasks)),
	)
}
