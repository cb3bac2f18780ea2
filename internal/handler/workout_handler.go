package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"kelfit/internal/model"
	"kelfit/internal/service"
)

// WorkoutHandler serves workouts, exercises and challenges.
type WorkoutHandler struct {
	svc service.WorkoutService
}

// NewWorkoutHandler creates a new workout handler.
func NewWorkoutHandler(svc service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{svc: svc}
}

// CreateWorkoutRequest describes a new workout.
type CreateWorkoutRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Type        string `json:"type" validate:"required,max=10"`
	Category    string `json:"category" validate:"required,oneof=Home Gym"`
	VideoURL    string `json:"video_url" validate:"omitempty,url"`
	Duration    string `json:"duration" validate:"max=50"`
	Series      string `json:"series" validate:"max=50"`
	Description string `json:"description"`
	Tips        string `json:"tips"`
	OrderIndex  int    `json:"order_index"`
}

// ListWorkouts godoc
// @Summary List workouts
// @Description Ordered by order_index.
// @Tags workouts
// @Produce json
// @Security BearerAuth
// @Param category query string false "Home or Gym"
// @Success 200 {array} model.Workout
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c echo.Context) error {
	category := model.WorkoutCategory(c.QueryParam("category"))
	switch category {
	case "", model.CategoryHome, model.CategoryGym:
	default:
		return badRequest("category must be Home or Gym", "INVALID_CATEGORY")
	}

	workouts, err := h.svc.List(c.Request().Context(), category)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, workouts)
}

// ListExercises godoc
// @Summary List the exercises of a workout
// @Tags workouts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Workout ID"
// @Success 200 {array} model.Exercise
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /workouts/{id}/exercises [get]
func (h *WorkoutHandler) ListExercises(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	exercises, err := h.svc.Exercises(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, exercises)
}

// ListChallenges godoc
// @Summary List challenges
// @Tags workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Challenge
// @Failure 401 {object} errors.ErrorResponse
// @Router /challenges [get]
func (h *WorkoutHandler) ListChallenges(c echo.Context) error {
	challenges, err := h.svc.Challenges(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, challenges)
}

// CreateWorkout godoc
// @Summary Create a workout
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateWorkoutRequest true "Workout"
// @Success 201 {object} model.Workout
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/workouts [post]
func (h *WorkoutHandler) CreateWorkout(c echo.Context) error {
	var req CreateWorkoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	workout, err := h.svc.Create(c.Request().Context(), &model.Workout{
		Name:        req.Name,
		Type:        req.Type,
		Category:    model.WorkoutCategory(req.Category),
		VideoURL:    req.VideoURL,
		Duration:    req.Duration,
		Series:      req.Series,
		Description: req.Description,
		Tips:        req.Tips,
		OrderIndex:  req.OrderIndex,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, workout)
}

// DeleteWorkout godoc
// @Summary Delete a workout and its exercises
// @Description Deleting an unknown id also succeeds.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Workout ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/workouts/{id} [delete]
func (h *WorkoutHandler) DeleteWorkout(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return success(c)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest("invalid id", "INVALID_ID")
	}
	return uint(id), nil
}
