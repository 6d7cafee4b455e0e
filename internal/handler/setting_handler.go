package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PradyunT/catapult-project/internal/repository"
)

type SettingHandler struct {
	repo   *repository.SettingRepository
	logger *zap.Logger
}

func NewSettingHandler(repo *repository.SettingRepository, logger *zap.Logger) *SettingHandler {
	return &SettingHandler{repo: repo, logger: logger}
}

func (h *SettingHandler) GetSetting(c *gin.Context) {
	key := c.Param("key")

	setting, err := h.repo.Get(c.Request.Context(), key)
	if err != nil {
		h.logger.Error("GetSetting: failed to fetch setting",
			zap.String("key", key),
			zap.Error(err),
		)
		c.JSON(http.StatusNotFound, gin.H{"error": "setting not found"})
		return
	}

	c.JSON(http.StatusOK, setting)
}

func (h *SettingHandler) PutSetting(c *gin.Context) {
	key := c.Param("key")

	var value json.RawMessage
	if err := c.ShouldBindJSON(&value); err != nil {
		h.logger.Warn("PutSetting: invalid JSON value",
			zap.String("key", key),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "value must be valid JSON"})
		return
	}

	setting, err := h.repo.Upsert(c.Request.Context(), key, value)
	if err != nil {
		h.logger.Error("PutSetting: failed to upsert setting",
			zap.String("key", key),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save setting"})
		return
	}

	c.JSON(http.StatusOK, setting)
}
