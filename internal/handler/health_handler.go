package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// HealthHandler reports liveness and backend reachability.
type HealthHandler struct {
	db  *gorm.DB
	env string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *gorm.DB, env string) *HealthHandler {
	return &HealthHandler{db: db, env: env}
}

// HealthResponse describes the service state.
type HealthResponse struct {
	Status   string `json:"status"`
	Database bool   `json:"database"`
	Env      string `json:"env"`
}

// Healthz godoc
// @Summary Liveness probe
// @Tags health
// @Produce plain
// @Success 200 {string} string "ok"
// @Router /healthz [get]
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Health godoc
// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	return c.JSON(http.StatusOK, HealthResponse{
		Status:   "ok",
		Database: h.pingDB(ctx),
		Env:      h.env,
	})
}

func (h *HealthHandler) pingDB(ctx context.Context) bool {
	if h.db == nil {
		return false
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(ctx) == nil
}
