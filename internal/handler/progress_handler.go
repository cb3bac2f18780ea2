package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"kelfit/internal/service"
)

// ProgressHandler handles daily tracking endpoints.
type ProgressHandler struct {
	svc service.ProgressService
}

// NewProgressHandler creates a new progress handler.
func NewProgressHandler(svc service.ProgressService) *ProgressHandler {
	return &ProgressHandler{svc: svc}
}

// WaterRequest adds water to today's total, in millilitres.
type WaterRequest struct {
	Amount int `json:"amount"`
}

// WeightRequest records today's body weight in kilograms.
type WeightRequest struct {
	Weight *decimal.Decimal `json:"weight" validate:"required" swaggertype:"number"`
}

// CompleteWorkoutRequest marks a workout as done today.
type CompleteWorkoutRequest struct {
	WorkoutID uint `json:"workout_id" validate:"required"`
}

// ListProgress godoc
// @Summary List the caller's progress rows
// @Description Newest date first.
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Progress
// @Failure 401 {object} errors.ErrorResponse
// @Router /progress [get]
func (h *ProgressHandler) ListProgress(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	rows, err := h.svc.List(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// AddWater godoc
// @Summary Add water intake for today
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body WaterRequest true "Amount in ml"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /progress/water [post]
func (h *ProgressHandler) AddWater(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req WaterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.svc.AddWater(c.Request().Context(), userID, req.Amount); err != nil {
		return respondError(c, err)
	}
	return success(c)
}

// LogWeight godoc
// @Summary Record today's weight
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body WeightRequest true "Weight in kg"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /progress/weight [post]
func (h *ProgressHandler) LogWeight(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req WeightRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.svc.LogWeight(c.Request().Context(), userID, *req.Weight); err != nil {
		return respondError(c, err)
	}
	return success(c)
}

// CompleteWorkout godoc
// @Summary Mark a workout as completed today
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CompleteWorkoutRequest true "Workout"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /progress/workout [post]
func (h *ProgressHandler) CompleteWorkout(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req CompleteWorkoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.svc.CompleteWorkout(c.Request().Context(), userID, req.WorkoutID); err != nil {
		return respondError(c, err)
	}
	return success(c)
}
