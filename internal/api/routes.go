package api

import (
	"net/http"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/service"

	"github.com/gin-gonic/gin"
)

// Services bundles what the routes need.
type Services struct {
	Auth      service.AuthService
	Client    service.ClientService
	Trainer   service.TrainerService
	Assistant service.AssistantService
}

func SetupRoutes(router *gin.Engine, jwtSecret string, production bool, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	onboardingHandler := NewOnboardingHandler(svc.Client)
	trainerHandler := NewTrainerHandler(svc.Trainer, svc.Client)
	clientHandler := NewClientHandler(svc.Client)
	assistantHandler := NewAssistantHandler(svc.Assistant)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	apiV1.Use(Boundary(production))
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/telegram", authHandler.TelegramLogin)
		}

		onboardingGroup := apiV1.Group("/onboarding")
		{
			onboardingGroup.POST("/validate", onboardingHandler.ValidateStep)
			onboardingGroup.POST("", onboardingHandler.Submit)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		protected.GET("/me", authHandler.Me)
		protected.POST("/assistant/chat", assistantHandler.Chat)

		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainerGroup.GET("/clients", trainerHandler.GetManagedClients)
			trainerGroup.POST("/clients", trainerHandler.CreateClient)
			trainerGroup.POST("/clients/claim", trainerHandler.ClaimClient)
			trainerGroup.PUT("/clients/:clientId/plan", trainerHandler.AssignPlan)
			trainerGroup.GET("/clients/:clientId/plan/export", trainerHandler.ExportPlan)
			trainerGroup.POST("/videos/upload-url", trainerHandler.RequestVideoUploadURL)
		}

		clientGroup := protected.Group("/client")
		clientGroup.Use(RoleMiddleware(domain.RoleClient))
		{
			clientGroup.GET("/me", clientHandler.GetMe)
			clientGroup.GET("/plan", clientHandler.GetPlan)
			clientGroup.POST("/workouts", clientHandler.LogWorkout)
		}
	}
}
