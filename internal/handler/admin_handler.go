package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"kelfit/internal/service"
)

// AdminHandler serves the admin dashboard.
type AdminHandler struct {
	svc service.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(svc service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Stats godoc
// @Summary Dashboard counts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Stats
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
