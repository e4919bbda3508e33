package api

import (
	"alcyxob/trainer-analytics/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles what the HTTP layer talks to.
type Services struct {
	Clients      service.ClientService
	Exercises    service.ExerciseService
	Workouts     service.WorkoutService
	Measurements service.MeasurementService
	Analytics    service.AnalyticsService
}

// RouterOptions carries the non-service settings of SetupRoutes.
type RouterOptions struct {
	JWTSecret string
	Location  *time.Location      // calendar for plain dates, UTC when nil
	Gatherer  prometheus.Gatherer // /metrics is served only when set
}

func SetupRoutes(router *gin.Engine, services Services, opts RouterOptions) {
	clientHandler := NewClientHandler(services.Clients)
	exerciseHandler := NewExerciseHandler(services.Exercises)
	workoutHandler := NewWorkoutHandler(services.Workouts, opts.Location)
	measurementHandler := NewMeasurementHandler(services.Measurements, opts.Location)
	analyticsHandler := NewAnalyticsHandler(services.Analytics, opts.Location)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	protected := router.Group("/api/v1")
	protected.Use(AuthMiddleware(opts.JWTSecret))
	{
		clientGroup := protected.Group("/clients")
		{
			clientGroup.GET("", clientHandler.ListClients)
			clientGroup.POST("", clientHandler.CreateClient)
			clientGroup.GET("/:id", clientHandler.GetClient)
			clientGroup.PUT("/:id", clientHandler.UpdateClient)
			clientGroup.DELETE("/:id", clientHandler.DeleteClient)
			clientGroup.GET("/:id/exercises/:exerciseId/history", analyticsHandler.ExerciseHistory)
		}

		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
		}

		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.GET("/:id", workoutHandler.GetWorkout)
			workoutGroup.PATCH("/:id/exercises/:entryId", workoutHandler.UpdateWorkoutEntry)
		}

		measurementGroup := protected.Group("/measurements")
		{
			measurementGroup.GET("", measurementHandler.ListMeasurements)
			measurementGroup.POST("", measurementHandler.CreateMeasurement)
		}

		analyticsGroup := protected.Group("/analytics")
		{
			analyticsGroup.GET("/period", analyticsHandler.PeriodComparison)
			analyticsGroup.GET("/report", analyticsHandler.Report)
			analyticsGroup.POST("/report/export", analyticsHandler.ExportReport)
			analyticsGroup.GET("/volume", analyticsHandler.VolumeSeries)
		}
	}
}
