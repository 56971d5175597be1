package server

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mantonx/moviegraph/internal/database"
	"github.com/mantonx/moviegraph/internal/modules/modulemanager"
	"github.com/shirou/gopsutil/v4/mem"
)

const healthTimeout = 3 * time.Second

// handleHealth reports liveness, database reachability, module health and memory figures.
// An unreachable database turns the response into a 503.
func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	body := gin.H{
		"status":  "ok",
		"service": "moviegraph",
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	}

	dbStatus := gin.H{"type": s.cfg.Database.Type, "status": "connected"}
	if err := database.Ping(ctx, s.db); err != nil {
		s.log.Warn("health check database ping failed", "error", err)
		dbStatus["status"] = "unreachable"
		body["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}
	body["database"] = dbStatus

	modules := s.registry.HealthCheck(ctx)
	for _, h := range modules {
		if h.Status == modulemanager.HealthStateUnhealthy || h.Status == modulemanager.HealthStateDegraded {
			body["status"] = "degraded"
		}
	}
	body["modules"] = modules
	body["memory"] = memoryStats(ctx)

	c.JSON(status, body)
}

func memoryStats(ctx context.Context) gin.H {
	var rt runtime.MemStats
	runtime.ReadMemStats(&rt)
	stats := gin.H{
		"heap_alloc_bytes": rt.HeapAlloc,
		"goroutines":       runtime.NumGoroutine(),
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		stats["system_total_bytes"] = vm.Total
		stats["system_available_bytes"] = vm.Available
		stats["system_used_percent"] = vm.UsedPercent
	}
	return stats
}
