package handler

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/quiz-backend/internal/config"
	"github.com/stemsi/quiz-backend/internal/response"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck pings one backing dependency.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// SystemHandler reports process and dependency health.
type SystemHandler struct {
	rdb       *redis.Client
	checks    []HealthCheck
	startTime time.Time
	log       zerolog.Logger
}

// NewSystemHandler creates a new SystemHandler. rdb may be nil when the
// submission log is disabled.
func NewSystemHandler(rdb *redis.Client, log zerolog.Logger, checks ...HealthCheck) *SystemHandler {
	return &SystemHandler{
		rdb:       rdb,
		checks:    checks,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

type healthReport struct {
	Status       string            `json:"status"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`

	Goroutines  int    `json:"goroutines"`
	HeapAlloc   uint64 `json:"heap_alloc"`
	AppRSSBytes uint64 `json:"app_rss_bytes"`
	GoVersion   string `json:"go_version"`

	QueueSubmissions int64 `json:"queue_submissions"`
}

// Health godoc
// GET /health
// Answers 503 when any dependency check fails.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	report := h.collect(ctx)
	status := http.StatusOK
	if report.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	response.Success(c, status, report)
}

func (h *SystemHandler) collect(ctx context.Context) healthReport {
	r := healthReport{
		Status:       "ok",
		Uptime:       formatDuration(time.Since(h.startTime)),
		Dependencies: make(map[string]string, len(h.checks)),
		Goroutines:   runtime.NumGoroutine(),
		GoVersion:    runtime.Version(),
	}

	for _, chk := range h.checks {
		if err := chk.Check(ctx); err != nil {
			h.log.Warn().Err(err).Str("dependency", chk.Name).Msg("Health check failed")
			r.Dependencies[chk.Name] = err.Error()
			r.Status = "degraded"
			continue
		}
		r.Dependencies[chk.Name] = "ok"
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	r.HeapAlloc = ms.HeapAlloc
	r.AppRSSBytes, _ = readProcessRSS()

	if h.rdb != nil {
		r.QueueSubmissions, _ = h.rdb.LLen(ctx, config.WorkerKey.PersistSubmissionsQueue).Result()
	}
	return r
}

// readProcessRSS reads VmRSS from /proc/self/status.
func readProcessRSS() (uint64, error) {
	f, err := os.Open("/proc/self/status")
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "VmRSS:") {
			// Format: "VmRSS:     123456 kB"
			fields := strings.Fields(line)
			if len(fields) < 2 {
				return 0, fmt.Errorf("malformed VmRSS line")
			}
			kb, err := strconv.ParseUint(fields[1], 10, 64)
			if err != nil {
				return 0, err
			}
			return kb * 1024, nil
		}
	}
	return 0, fmt.Errorf("VmRSS not found")
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
