package api

import (
	"github.com/Domenick1991/flightdata/internal/logging"
	"github.com/Domenick1991/flightdata/internal/metrics"
	"github.com/Domenick1991/flightdata/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOption func(*routerOptions)

type routerOptions struct {
	stats StatsReader
}

// WithStats registers /api/stats backed by reader.
func WithStats(reader StatsReader) RouterOption {
	return func(o *routerOptions) {
		o.stats = reader
	}
}

func NewRouter(service flights.FlightUseCase, opts ...RouterOption) *gin.Engine {
	var o routerOptions
	for _, opt := range opts {
		opt(&o)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), logging.RequestLogger(), metrics.Middleware())

	group := engine.Group("/api")
	NewHealthHandler(service).Register(group)
	NewFlightHandler(service).Register(group.Group("/flight"))
	if o.stats != nil {
		NewStatsHandler(o.stats).Register(group)
	}

	RegisterDocs(engine)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return engine
}
