package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PradyunT/catapult-project/internal/model"
	"github.com/PradyunT/catapult-project/internal/repository"
)

type ScheduleHandler struct {
	repo   *repository.ScheduleRepository
	logger *zap.Logger
}

func NewScheduleHandler(repo *repository.ScheduleRepository, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{repo: repo, logger: logger}
}

// ListSchedule returns all items, or those for a single day when ?date=
// (YYYY-MM-DD) is given.
func (h *ScheduleHandler) ListSchedule(c *gin.Context) {
	date := c.Query("date")

	var (
		items []model.ScheduleItem
		err   error
	)
	if date != "" {
		items, err = h.repo.ListForDate(c.Request.Context(), date)
	} else {
		items, err = h.repo.List(c.Request.Context())
	}

	if err != nil {
		h.logger.Error("ListSchedule: failed to fetch schedule", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch schedule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedule": items})
}

func (h *ScheduleHandler) CreateScheduleItem(c *gin.Context) {
	var in model.ScheduleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("CreateScheduleItem: invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule payload"})
		return
	}

	item, err := h.repo.Insert(c.Request.Context(), in)
	if err != nil {
		h.logger.Error("CreateScheduleItem: failed to insert item", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create schedule item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *ScheduleHandler) UpdateScheduleItem(c *gin.Context) {
	id := c.Param("id")

	var in model.ScheduleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("UpdateScheduleItem: invalid request body",
			zap.String("schedule_id", id),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule payload"})
		return
	}

	item, err := h.repo.Update(c.Request.Context(), id, in)
	if err != nil {
		h.logger.Error("UpdateScheduleItem: failed to update item",
			zap.String("schedule_id", id),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update schedule item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *ScheduleHandler) DeleteScheduleItem(c *gin.Context) {
	id := c.Param("id")

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("DeleteScheduleItem: failed to delete item",
			zap.String("schedule_id", id),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete schedule item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
