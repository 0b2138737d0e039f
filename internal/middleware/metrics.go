package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yourspace_redis_errors_total",
		Help: "Total Redis command errors",
	}, []string{"command"})

	// ActiveWebSockets is the number of upgraded connections being served.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "yourspace_active_websockets",
		Help: "Number of WebSocket connections currently open",
	})

	// RateLimitRejections counts requests refused by the Redis limiter.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yourspace_rate_limit_rejections_total",
		Help: "Requests rejected by per-route rate limits",
	}, []string{"resource"})

	promOnce sync.Once
	promInst *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the process-wide HTTP metrics collector. The collector
// registers on the default registry so it is only built once.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promInst = fiberprometheus.New(serviceName)
	})
	return promInst
}

// MetricsMiddleware records request count and latency.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
