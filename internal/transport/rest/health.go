package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus   `json:"status"`
	Message    string         `json:"message,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CheckedAt  time.Time      `json:"checked_at"`
	DurationMs int64          `json:"duration_ms"`
}

// NotifierStatus is what the health check needs to know about notifications.
type NotifierStatus interface {
	Transport() string
	Configured() bool
}

type HealthHandler struct {
	db       *sql.DB
	redis    redis.Cmdable
	notifier NotifierStatus
}

func NewHealthHandler(db *sql.DB, rdb redis.Cmdable, notifier NotifierStatus) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb, notifier: notifier}
}

func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "OK"})
}

func timed(check func() error) CheckEntry {
	start := time.Now()
	err := check()
	entry := CheckEntry{
		Status:     HealthHealthy,
		CheckedAt:  time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		entry.Status = HealthUnhealthy
		entry.Message = err.Error()
	}
	return entry
}

// healthCheckHandler reports readiness. The database is required; redis and
// the notification transport only degrade the service.
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := map[string]CheckEntry{
		"postgres": timed(func() error { return h.db.PingContext(ctx) }),
	}

	if h.redis != nil {
		entry := timed(func() error { return h.redis.Ping(ctx).Err() })
		if entry.Status == HealthUnhealthy {
			entry.Status = HealthDegraded
		}
		components["redis"] = entry
	}

	if h.notifier != nil {
		entry := CheckEntry{
			Status:    HealthHealthy,
			CheckedAt: time.Now(),
			Details: map[string]any{
				"transport":  h.notifier.Transport(),
				"configured": h.notifier.Configured(),
			},
		}
		if !h.notifier.Configured() {
			entry.Status = HealthDegraded
			entry.Message = "email delivery is not configured; notifications are only logged"
		}
		components["notifications"] = entry
	}

	overall := HealthHealthy
	for _, entry := range components {
		if entry.Status == HealthUnhealthy {
			overall = HealthUnhealthy
			break
		}
		if entry.Status == HealthDegraded {
			overall = HealthDegraded
		}
	}

	statusCode := http.StatusOK
	if overall == HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(HealthResponse{
		Status:     overall,
		CheckedAt:  time.Now(),
		Components: components,
	})
}
