package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PradyunT/catapult-project/internal/model"
	"github.com/PradyunT/catapult-project/internal/repository"
)

type SpaceHandler struct {
	repo   *repository.SpaceRepository
	logger *zap.Logger
}

func NewSpaceHandler(repo *repository.SpaceRepository, logger *zap.Logger) *SpaceHandler {
	return &SpaceHandler{repo: repo, logger: logger}
}

func (h *SpaceHandler) ListSpaces(c *gin.Context) {
	spaces, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("ListSpaces: failed to fetch spaces", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch spaces"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"spaces": spaces})
}

func (h *SpaceHandler) GetSpace(c *gin.Context) {
	id := c.Param("id")

	space, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("GetSpace: failed to fetch space",
			zap.String("space_id", id),
			zap.Error(err),
		)
		c.JSON(http.StatusNotFound, gin.H{"error": "space not found"})
		return
	}

	c.JSON(http.StatusOK, space)
}

func (h *SpaceHandler) CreateSpace(c *gin.Context) {
	var in model.SpaceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("CreateSpace: invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid space payload"})
		return
	}

	space, err := h.repo.Insert(c.Request.Context(), in)
	if err != nil {
		h.logger.Error("CreateSpace: failed to insert space", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create space"})
		return
	}

	c.JSON(http.StatusCreated, space)
}

func (h *SpaceHandler) UpdateSpace(c *gin.Context) {
	id := c.Param("id")

	var in model.SpaceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("UpdateSpace: invalid request body",
			zap.String("space_id", id),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid space payload"})
		return
	}

	space, err := h.repo.Update(c.Request.Context(), id, in)
	if err != nil {
		h.logger.Error("UpdateSpace: failed to update space",
			zap.String("space_id", id),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update space"})
		return
	}

	c.JSON(http.StatusOK, space)
}

func (h *SpaceHandler) DeleteSpace(c *gin.Context) {
	id := c.Param("id")

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("DeleteSpace: failed to delete space",
			zap.String("space_id", id),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete space"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *SpaceHandler) TaskCount(c *gin.Context) {
	id := c.Param("id")

	count, err := h.repo.TaskCount(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("TaskCount: failed to count tasks",
			zap.String("space_id", id),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
