// File: internal/handlers/health_handler.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/sovereignai/assistant-api/internal/services/inference"
)

const healthCheckTimeout = 5 * time.Second

type HealthHandler struct {
	DB     *gorm.DB
	Engine inference.Engine
}

func NewHealthHandler(db *gorm.DB, engine inference.Engine) *HealthHandler {
	return &HealthHandler{DB: db, Engine: engine}
}

type checkResult struct {
	Status    string  `json:"status"`
	LatencyMS float64 `json:"latency_ms"`
	Error     string  `json:"error,omitempty"`
}

type healthResponse struct {
	Status    string                 `json:"status"`
	Timestamp int64                  `json:"timestamp"`
	Checks    map[string]checkResult `json:"checks"`
}

// Check handles GET /health. The store is the source of truth: a dead
// database makes the service unhealthy, a dead inference backend only
// degrades it since record keeping still works.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	checks := map[string]checkResult{
		"database":  h.checkDatabase(ctx),
		"inference": h.checkInference(ctx),
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if checks["database"].Status != "ok" {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	} else if checks["inference"].Status != "ok" {
		status = "degraded"
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:    status,
		Timestamp: time.Now().Unix(),
		Checks:    checks,
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) checkResult {
	start := time.Now()
	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	return newCheckResult(start, err)
}

func (h *HealthHandler) checkInference(ctx context.Context) checkResult {
	start := time.Now()
	err := h.Engine.HealthCheck(ctx)
	return newCheckResult(start, err)
}

func newCheckResult(start time.Time, err error) checkResult {
	result := checkResult{
		Status:    "ok",
		LatencyMS: float64(time.Since(start).Microseconds()) / 1000.0,
	}
	if err != nil {
		result.Status = "error"
		result.Error = err.Error()
	}
	return result
}
