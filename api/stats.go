package api

import (
	"context"
	"net/http"

	"github.com/Domenick1991/flightdata/internal/usage"
	"github.com/gin-gonic/gin"
)

type StatsReader interface {
	Stats(ctx context.Context) ([]usage.QueryStats, error)
}

// StatsHandler exposes the per-query usage counters collected by the worker.
type StatsHandler struct {
	stats StatsReader
}

func NewStatsHandler(stats StatsReader) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) Register(router *gin.RouterGroup) {
	router.GET("/stats", h.list)
}

func (h *StatsHandler) list(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
