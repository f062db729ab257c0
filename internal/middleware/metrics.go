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
		Name: "yatube_redis_errors_total",
		Help: "Total number of failed Redis commands",
	}, []string{"command"})

	// CacheLookups counts cache-aside lookups by result (hit, miss).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_cache_lookups_total",
		Help: "Cache-aside lookups by result",
	}, []string{"result"})

	// DomainEvents counts successful writes by kind (post_created, comment_created, follow_created, ...).
	DomainEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_domain_events_total",
		Help: "Successful domain writes by kind",
	}, []string{"event"})
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the fiberprometheus middleware for the given service name.
// Collectors live in the default registry, so later calls return the first instance.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.NewWithRegistry(prometheus.DefaultRegisterer, serviceName, "http", "", nil)
	})
	return prom
}

// MetricsMiddleware wraps the fiberprometheus handler.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
