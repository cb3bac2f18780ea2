package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"kelfit/internal/service"
)

// ConfigHandler exposes the site configuration.
type ConfigHandler struct {
	svc service.ConfigService
}

// NewConfigHandler creates a new config handler.
func NewConfigHandler(svc service.ConfigService) *ConfigHandler {
	return &ConfigHandler{svc: svc}
}

// SetConfigRequest sets one configuration key.
type SetConfigRequest struct {
	Key   string `json:"key" validate:"required,max=100"`
	Value string `json:"value"`
}

// GetConfig godoc
// @Summary Get site configuration
// @Description Returns every key mapped to its value.
// @Tags config
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} errors.ErrorResponse
// @Router /config [get]
func (h *ConfigHandler) GetConfig(c echo.Context) error {
	values, err := h.svc.GetAll(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, values)
}

// SetConfig godoc
// @Summary Set a configuration key
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SetConfigRequest true "Key and value"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/config [post]
func (h *ConfigHandler) SetConfig(c echo.Context) error {
	var req SetConfigRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.svc.Set(c.Request().Context(), req.Key, req.Value); err != nil {
		return respondError(c, err)
	}
	return success(c)
}
