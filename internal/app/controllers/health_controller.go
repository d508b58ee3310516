package controllers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/persondata/internal/app/models/dto"
)

const healthTimeout = 2 * time.Second

// HealthCheck reports the state of one dependency.
type HealthCheck func(ctx context.Context) error

// HealthController answers /health
type HealthController struct {
	mode    string
	started time.Time
	checks  map[string]HealthCheck
}

// NewHealthController creates a new HealthController. Nil checks are skipped.
func NewHealthController(mode string, checks map[string]HealthCheck) *HealthController {
	active := make(map[string]HealthCheck, len(checks))
	for name, check := range checks {
		if check != nil {
			active[name] = check
		}
	}
	return &HealthController{mode: mode, started: time.Now(), checks: active}
}

// Health runs every check; any failure turns the response into 503.
// GET /health
func (c *HealthController) Health(ctx *gin.Context) {
	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthTimeout)
	defer cancel()

	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	data := dto.HealthData{
		Status: "ok",
		Mode:   c.mode,
		Checks: make(map[string]string, len(names)),
		Uptime: time.Since(c.started).Round(time.Second).String(),
	}
	for _, name := range names {
		if err := c.checks[name](checkCtx); err != nil {
			data.Status = "degraded"
			data.Checks[name] = err.Error()
			continue
		}
		data.Checks[name] = "ok"
	}

	status := http.StatusOK
	resp := dto.NewSuccessResponse(data)
	if data.Status != "ok" {
		status = http.StatusServiceUnavailable
		resp.Success = false
	}
	ctx.JSON(status, resp)
}
