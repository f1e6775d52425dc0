package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const healthTimeout = 2 * time.Second

// Pinger is anything whose reachability can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping calls f.
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// SystemHandler serves liveness endpoints.
type SystemHandler struct {
	database Pinger
	cache    Pinger
}

// NewSystemHandler creates a new system handler. cache may be nil.
func NewSystemHandler(database, cache Pinger) *SystemHandler {
	return &SystemHandler{database: database, cache: cache}
}

// IndexResponse is the banner served at the root.
type IndexResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HealthResponse reports backend reachability.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// Index godoc
// @Summary Service banner
// @Tags system
// @Produce json
// @Success 200 {object} IndexResponse
// @Router / [get]
func (h *SystemHandler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, IndexResponse{
		Status:  "Online",
		Message: "Bites4Life API is Running!",
	})
}

// Health godoc
// @Summary Health check
// @Description The cache is optional; only an unreachable database fails the check.
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /healthz [get]
func (h *SystemHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", Database: "up", Cache: "disabled"}
	code := http.StatusOK

	if err := h.database.Ping(ctx); err != nil {
		resp.Status = "unavailable"
		resp.Database = "down"
		code = http.StatusServiceUnavailable
	}
	if h.cache != nil {
		resp.Cache = "up"
		if err := h.cache.Ping(ctx); err != nil {
			resp.Cache = "down"
			if code == http.StatusOK {
				resp.Status = "degraded"
			}
		}
	}
	return c.JSON(code, resp)
}
