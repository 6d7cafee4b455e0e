package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PradyunT/catapult-project/internal/repository"
	"github.com/PradyunT/catapult-project/internal/service/planner"
)

type PlanHandler struct {
	planner  *planner.Client
	taskRepo *repository.TaskRepository
	logger   *zap.Logger
}

func NewPlanHandler(p *planner.Client, taskRepo *repository.TaskRepository, logger *zap.Logger) *PlanHandler {
	return &PlanHandler{planner: p, taskRepo: taskRepo, logger: logger}
}

type generatePlanRequest struct {
	Goal string `json:"goal" binding:"required"`
}

func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	var req generatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'goal' string is required"})
		return
	}

	taskContext := h.taskContext(c)

	plan, err := h.planner.GeneratePlan(c.Request.Context(), req.Goal, taskContext)
	if err != nil {
		h.logger.Error("GeneratePlan: planner call failed",
			zap.String("goal", req.Goal),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate plan", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, plan)
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *PlanHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'message' string is required"})
		return
	}

	taskContext := h.taskContext(c)

	reply, err := h.planner.Chat(c.Request.Context(), req.Message, taskContext)
	if err != nil {
		h.logger.Error("Chat: planner call failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate reply", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// taskContext loads the user's tasks for prompt grounding; a DB failure
// degrades to an empty context rather than failing the request.
func (h *PlanHandler) taskContext(c *gin.Context) string {
	tasks, err := h.taskRepo.List(c.Request.Context())
	if err != nil {
		h.logger.Warn("Failed to load tasks for plan context", zap.Error(err))
		return "Could not retrieve the user's current tasks."
	}
	return planner.BuildTaskContext(tasks)
}
