package routes

import (
	"cadet_app_backend/handlers"
	"cadet_app_backend/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(r *gin.Engine, healthHandler *handlers.HealthHandler, testHandler *handlers.ProfessionTestHandler, jwtSecret []byte) {
	// Public routes
	r.GET("/health", healthHandler.HealthCheck)

	// Protected routes
	protected := r.Group("/profession-test")
	protected.Use(middleware.AuthMiddleware(jwtSecret))
	{
		protected.GET("/professions", testHandler.GetProfessions)

		// Session routes
		protected.POST("/sessions", testHandler.StartSession)
		protected.GET("/sessions/:id", testHandler.GetSession)
		protected.POST("/sessions/:id/answers", testHandler.AnswerQuestion)
		protected.POST("/sessions/:id/next", testHandler.NextQuestion)
		protected.POST("/sessions/:id/previous", testHandler.PreviousQuestion)
		protected.POST("/sessions/:id/reset", testHandler.ResetSession)
		protected.GET("/sessions/:id/results", testHandler.GetResults)

		// History
		protected.GET("/results", testHandler.GetUserResults)
	}
}
