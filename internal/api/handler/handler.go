// Package handler serves the read-only scammer lookup API.
package handler

import (
	"time"

	"pokepolice/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler holds what the API routes need.
type Handler struct {
	Storage storage.Storage
	Secret  []byte
	logger  *zap.Logger
}

func NewHandler(s storage.Storage, secret string, logger *zap.Logger) *Handler {
	return &Handler{
		Storage: s,
		Secret:  []byte(secret),
		logger:  logger.With(zap.String("component", "api")),
	}
}

// Router builds the gin engine. /healthz is public, everything under
// /scammers needs a bearer token.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.accessLog())

	r.GET("/healthz", h.Health)

	scammers := r.Group("/scammers", h.RequireToken())
	scammers.GET("", h.ListScammers)
	scammers.GET("/:id", h.GetScammer)
	return r
}

func (h *Handler) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.String("subject", c.GetString(subjectKey)),
			zap.Duration("latency", time.Since(start)))
	}
}
