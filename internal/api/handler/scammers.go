package handler

import (
	"errors"
	"net/http"
	"strconv"

	"pokepolice/backend/internal/config"
	"pokepolice/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) Health(c *gin.Context) {
	if err := h.Storage.Ping(c.Request.Context()); err != nil {
		h.logger.Warn("store ping failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetScammer returns the record for :id, or 404 when the user is not listed.
func (h *Handler) GetScammer(c *gin.Context) {
	id := c.Param("id")
	if !config.IsUserID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	record, err := h.Storage.GetScammer(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not listed"})
		return
	}
	if err != nil {
		h.logger.Error("get scammer", zap.String("user", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// ListScammers returns the newest records first. ?limit defaults to 50 and
// is capped at 200.
func (h *Handler) ListScammers(c *gin.Context) {
	limit := config.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, config.MaxListLimit)
	}

	records, err := h.Storage.ListScammers(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list scammers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(records), "scammers": records})
}
