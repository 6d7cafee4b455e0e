package mqhandler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	mqcontracts "github.com/PradyunT/catapult-project/contracts/mq"
	"github.com/PradyunT/catapult-project/internal/model"
	"github.com/PradyunT/catapult-project/internal/repository"
	"github.com/PradyunT/catapult-project/internal/util"
	"github.com/PradyunT/catapult-project/pkg/metrics"
)

// TasksScrapedHandler imports scraped assignments into the tasks table.
type TasksScrapedHandler struct {
	taskRepo *repository.TaskRepository
	deduper  *util.Deduper
	logger   *zap.Logger
}

func NewTasksScrapedHandler(taskRepo *repository.TaskRepository, deduper *util.Deduper, logger *zap.Logger) *TasksScrapedHandler {
	return &TasksScrapedHandler{
		taskRepo: taskRepo,
		deduper:  deduper,
		logger:   logger,
	}
}

func (h *TasksScrapedHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	var p mqcontracts.TasksScrapedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal TasksScrapedPayload", zap.Error(err))
		return err
	}

	h.logger.Info("Handling tasks.scraped event",
		zap.String("scrape_id", p.ScrapeID),
		zap.Int("task_count", len(p.Tasks)),
	)

	if len(p.Tasks) == 0 {
		h.logger.Warn("Empty task list in tasks.scraped event",
			zap.String("scrape_id", p.ScrapeID),
		)
		return nil
	}

	// 同一次抓取只导入一次
	if h.deduper != nil && !h.deduper.AcquireOnce(ctx, "tasks_scraped", p.ScrapeID) {
		return nil
	}

	tasks := make([]model.Task, len(p.Tasks))
	for i, st := range p.Tasks {
		tasks[i] = model.Task{
			Title:       st.Title,
			Description: st.Description,
			DueDate:     st.DueDate,
			Repeated:    false,
			Completed:   false,
			Category:    st.Category,
			Priority:    st.Priority,
			SpaceID:     nil,
		}
	}

	ids, err := h.taskRepo.BulkInsert(ctx, tasks)
	if err != nil {
		h.logger.Error("Failed to bulk insert scraped tasks",
			zap.Error(err),
			zap.String("scrape_id", p.ScrapeID),
			zap.Int("task_count", len(tasks)),
		)
		return err
	}

	for range ids {
		metrics.IncrementTaskGeneration("scrape")
	}

	h.logger.Info("Scraped tasks imported successfully",
		zap.String("scrape_id", p.ScrapeID),
		zap.Int("created_count", len(ids)),
	)
	return nil
}
