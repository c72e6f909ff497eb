package controllers

import (
	"net/http"

	"nutriai-backend/models"
	"nutriai-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StatusController struct {
	DB *gorm.DB
	AI *services.GeminiService
}

func NewStatusController(db *gorm.DB, ai *services.GeminiService) *StatusController {
	return &StatusController{DB: db, AI: ai}
}

func (h *StatusController) Status(c *gin.Context) {
	var totalUsers, totalPlans, pendingValidation int64

	err := h.DB.Model(&models.User{}).Count(&totalUsers).Error
	if err == nil {
		err = h.DB.Model(&models.DietPlan{}).Count(&totalPlans).Error
	}
	if err == nil {
		err = h.DB.Model(&models.DietPlan{}).
			Where("status = ?", models.PlanStatusPending).
			Count(&pendingValidation).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":   "error",
			"message":  "Erro no banco de dados: " + err.Error(),
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":            "online",
		"message":           "NutriAI API Científica funcionando",
		"version":           "2.0.0",
		"database":          h.DB.Dialector.Name(),
		"gemini_configured": h.AI.IsConfigured(),
		"statistics": gin.H{
			"total_users":        totalUsers,
			"total_plans":        totalPlans,
			"pending_validation": pendingValidation,
		},
		"features": gin.H{
			"scientific_fields":       50,
			"metabolic_calculations":  true,
			"ai_personalization":      true,
			"nutritionist_validation": true,
		},
		"test_users": gin.H{
			"user":         "ana@email.com / 123456",
			"nutritionist": "maria@nutricionista.com / 123456",
		},
	})
}
