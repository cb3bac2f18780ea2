package router

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"kelfit/internal/auth"
	"kelfit/internal/handler"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Config   *handler.ConfigHandler
	Workouts *handler.WorkoutHandler
	Progress *handler.ProgressHandler
	Users    *handler.UserHandler
	Admin    *handler.AdminHandler
}

// Security holds what the auth middlewares need.
type Security struct {
	JWT    *auth.JWTService
	Tokens auth.TokenRegistry
	Users  auth.UserLookup
}

// Register wires routes and middleware.
func Register(e *echo.Echo, log zerolog.Logger, sec Security, h Handlers) {
	e.Use(middleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", h.Health.Healthz)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.GET("/health", h.Health.Health)
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/google", h.Auth.Google)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/config", h.Config.GetConfig)

	// Secured routes (require JWT authentication)
	secured := api.Group("", auth.Middleware(sec.JWT, sec.Tokens))

	secured.GET("/workouts", h.Workouts.ListWorkouts)
	secured.GET("/workouts/:id/exercises", h.Workouts.ListExercises)
	secured.GET("/challenges", h.Workouts.ListChallenges)

	secured.GET("/progress", h.Progress.ListProgress)
	secured.POST("/progress/water", h.Progress.AddWater)
	secured.POST("/progress/weight", h.Progress.LogWeight)
	secured.POST("/progress/workout", h.Progress.CompleteWorkout)

	secured.GET("/profile", h.Users.GetProfile)
	secured.PUT("/profile", h.Users.UpdateProfile)
	secured.POST("/profile/photo", h.Users.UploadPhoto, middleware.BodyLimit(handler.PhotoBodyLimit))

	// Admin routes
	admin := secured.Group("/admin", auth.RequireAdmin(sec.Users))

	admin.POST("/config", h.Config.SetConfig)
	admin.GET("/stats", h.Admin.Stats)
	admin.POST("/workouts", h.Workouts.CreateWorkout)
	admin.DELETE("/workouts/:id", h.Workouts.DeleteWorkout)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
