package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PradyunT/catapult-project/internal/model"
	"github.com/PradyunT/catapult-project/internal/repository"
	"github.com/PradyunT/catapult-project/pkg/metrics"
)

type TaskHandler struct {
	repo   *repository.TaskRepository
	logger *zap.Logger
}

func NewTaskHandler(repo *repository.TaskRepository, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{repo: repo, logger: logger}
}

// ListTasks returns all tasks, or tasks due in [from, to) when both query
// params are set (RFC 3339 timestamps).
func (h *TaskHandler) ListTasks(c *gin.Context) {
	fromRaw := c.Query("from")
	toRaw := c.Query("to")

	var (
		tasks []model.Task
		err   error
	)
	if fromRaw != "" && toRaw != "" {
		var from, to time.Time
		if from, err = time.Parse(time.RFC3339, fromRaw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' timestamp"})
			return
		}
		if to, err = time.Parse(time.RFC3339, toRaw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'to' timestamp"})
			return
		}
		tasks, err = h.repo.ListDueBetween(c.Request.Context(), from, to)
	} else {
		tasks, err = h.repo.List(c.Request.Context())
	}

	if err != nil {
		h.logger.Error("ListTasks: failed to fetch tasks", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var in model.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("CreateTask: invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task payload"})
		return
	}

	task, err := h.repo.Insert(c.Request.Context(), in)
	if err != nil {
		h.logger.Error("CreateTask: failed to insert task", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}

	metrics.IncrementTaskGeneration("manual")
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id := c.Param("id")

	var in model.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("UpdateTask: invalid request body",
			zap.String("task_id", id),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task payload"})
		return
	}

	task, err := h.repo.Update(c.Request.Context(), id, in)
	if err != nil {
		h.logger.Error("UpdateTask: failed to update task",
			zap.String("task_id", id),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id := c.Param("id")

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("DeleteTask: failed to delete task",
			zap.String("task_id", id),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
