package api

import (
	"alcyxob/trainer-desk/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Auth     service.AuthService
	Clients  service.ClientService
	Payments service.PaymentService
	Schedule service.ScheduleService
	Progress service.ProgressService
	Earnings service.EarningsService
}

func SetupRoutes(router *gin.Engine, jwtSecret string, services Services, log *logrus.Logger) {
	authHandler := NewAuthHandler(services.Auth, log)
	clientHandler := NewClientHandler(services.Clients, services.Payments, log)
	paymentHandler := NewPaymentHandler(services.Payments, log)
	scheduleHandler := NewScheduleHandler(services.Schedule, log)
	progressHandler := NewProgressHandler(services.Progress, log)
	earningsHandler := NewEarningsHandler(services.Earnings, log)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		protected.GET("/me", authHandler.Me)

		clientGroup := protected.Group("/clients")
		{
			clientGroup.POST("", clientHandler.CreateClient)
			clientGroup.GET("", clientHandler.ListClients)
			clientGroup.GET("/:clientId", clientHandler.GetClient)
			clientGroup.PUT("/:clientId", clientHandler.UpdateClient)
			clientGroup.DELETE("/:clientId", clientHandler.DeleteClient)
			clientGroup.GET("/:clientId/status", clientHandler.GetStatus)
			clientGroup.POST("/:clientId/toggle-active", clientHandler.ToggleActive)

			clientGroup.POST("/:clientId/payments", paymentHandler.RecordPayment)
			clientGroup.GET("/:clientId/payments", paymentHandler.ListPayments)

			clientGroup.POST("/:clientId/schedules", scheduleHandler.CreateSchedules)
			clientGroup.GET("/:clientId/schedules", scheduleHandler.ListSchedules)

			clientGroup.POST("/:clientId/progress", progressHandler.AddEntry)
			clientGroup.GET("/:clientId/progress", progressHandler.ListEntries)
		}

		protected.DELETE("/payments/:paymentId", paymentHandler.DeletePayment)
		protected.PUT("/schedules/:scheduleId", scheduleHandler.UpdateSchedule)
		protected.DELETE("/schedules/:scheduleId", scheduleHandler.DeleteSchedule)
		protected.DELETE("/progress/:entryId", progressHandler.DeleteEntry)

		protected.GET("/availability", scheduleHandler.GetAvailability)

		earningsGroup := protected.Group("/earnings")
		{
			earningsGroup.GET("", earningsHandler.GetSummary)
			earningsGroup.POST("/statements", earningsHandler.ExportStatement)
			earningsGroup.GET("/statements", earningsHandler.ListStatements)
		}
	}
}
