package routes

import (
	"nutriai-backend/controllers"
	"nutriai-backend/middlewares"
	"nutriai-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, log *zap.Logger) *gin.Engine {
	authSvc := services.NewAuthService(db, log)
	geminiSvc := services.NewGeminiService(log)
	planSvc := services.NewPlanService(db, geminiSvc, log)

	authCtrl := controllers.NewAuthController(authSvc)
	planCtrl := controllers.NewDietPlanController(planSvc, authSvc, geminiSvc)
	statusCtrl := controllers.NewStatusController(db, geminiSvc)

	r := gin.Default()

	r.GET("/api/status", statusCtrl.Status)

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authCtrl.Register)
		auth.POST("/login", authCtrl.Login)

		protected := auth.Group("")
		protected.Use(middlewares.AuthMiddleware())
		{
			protected.GET("/profile", authCtrl.GetProfile)
			protected.PUT("/profile", authCtrl.UpdateProfile)
			protected.GET("/validate-token", authCtrl.ValidateToken)
		}
	}

	plans := r.Group("/api/diet-plans")
	plans.Use(middlewares.AuthMiddleware())
	{
		plans.POST("/generate", planCtrl.Generate)
		plans.GET("/my-plans", planCtrl.MyPlans)
		plans.GET("/pending", planCtrl.Pending)
		plans.GET("/nutritionist-dashboard", planCtrl.Dashboard)
		plans.GET("/:id", planCtrl.GetPlan)
		plans.POST("/:id/validate", planCtrl.Validate)
	}

	return r
}
