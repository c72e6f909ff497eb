package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"nutriai-backend/models"
	"nutriai-backend/services"
	"nutriai-backend/utils"

	"github.com/gin-gonic/gin"
)

type DietPlanController struct {
	Plans *services.PlanService
	Users *services.AuthService
	AI    *services.GeminiService
}

func NewDietPlanController(plans *services.PlanService, users *services.AuthService, ai *services.GeminiService) *DietPlanController {
	return &DietPlanController{Plans: plans, Users: users, AI: ai}
}

type ValidateInput struct {
	Action   string `json:"action" binding:"required"`
	Feedback string `json:"feedback"`
}

// currentUser loads the caller's row; the token alone is not trusted for
// role checks since accounts can change or disappear after issuance.
func (h *DietPlanController) currentUser(c *gin.Context) (*models.User, bool) {
	user, err := h.Users.GetUser(c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrUserNotFound.Error()})
		return nil, false
	}
	return user, true
}

func (h *DietPlanController) Generate(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	plan, err := h.Plans.Generate(user.ID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotPatient):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrIncompleteProfile):
			// Structured body: the client redirects to the profile form on
			// this error instead of showing a generic alert.
			c.JSON(http.StatusBadRequest, gin.H{
				"error":    err.Error(),
				"required": []string{"weight", "height", "age", "goal"},
				"message":  "Complete seu perfil para gerar planos personalizados",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":             "Plano alimentar gerado com sucesso",
		"plan":                services.NewPlanView(plan),
		"gemini_configured":   h.AI.IsConfigured(),
		"scientific_analysis": utils.MetabolicSummary(user),
	})
}

func (h *DietPlanController) MyPlans(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	plans, err := h.Plans.MyPlans(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plans":        services.NewPlanViews(plans),
		"total":        len(plans),
		"user_profile": utils.MetabolicSummary(user),
	})
}

func (h *DietPlanController) Pending(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if !user.IsNutritionist() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Apenas nutricionistas podem acessar planos pendentes"})
		return
	}

	plans, err := h.Plans.Pending()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	total, approved, rejected, err := h.Plans.NutritionistStats(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pending_plans": services.NewPlanViews(plans),
		"total":         len(plans),
		"nutritionist_stats": gin.H{
			"total_validated": total,
			"approved":        approved,
			"rejected":        rejected,
		},
	})
}

func (h *DietPlanController) GetPlan(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	planID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrPlanNotFound.Error()})
		return
	}

	plan, err := h.Plans.GetPlan(uint(planID))
	if err != nil {
		if errors.Is(err, services.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !user.IsNutritionist() && plan.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": services.ErrPlanForbidden.Error()})
		return
	}

	if user.IsNutritionist() && plan.User != nil {
		owner := plan.User
		c.JSON(http.StatusOK, gin.H{
			"plan": services.NewPlanView(plan),
			"user_scientific_data": gin.H{
				"metabolic": utils.MetabolicSummary(owner),
				"anthropometric": gin.H{
					"weight":              owner.Weight,
					"height":              owner.Height,
					"waist_circumference": owner.WaistCircumference,
					"weight_6_months_ago": owner.Weight6MonthsAgo,
				},
				"lifestyle": gin.H{
					"sleep_hours":        owner.SleepHours,
					"stress_level":       owner.StressLevel,
					"exercise_frequency": owner.ExerciseFrequency,
				},
				"family_history": gin.H{
					"diabetes":      owner.FamilyDiabetes,
					"hypertension":  owner.FamilyHypertension,
					"obesity":       owner.FamilyObesity,
					"heart_disease": owner.FamilyHeartDisease,
				},
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": services.NewPlanView(plan)})
}

func (h *DietPlanController) Validate(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if !user.IsNutritionist() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Apenas nutricionistas podem validar planos"})
		return
	}

	planID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrPlanNotFound.Error()})
		return
	}

	var input ValidateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrInvalidAction.Error()})
		return
	}

	plan, err := h.Plans.Validate(user.ID, uint(planID), input.Action, input.Feedback)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAction):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrPlanAlreadyDone):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	message := "Plano aprovado com sucesso"
	if plan.Status == models.PlanStatusRejected {
		message = "Plano rejeitado com sucesso"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"plan":    services.NewPlanView(plan),
	})
}

func (h *DietPlanController) Dashboard(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if !user.IsNutritionist() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Apenas nutricionistas podem acessar este dashboard"})
		return
	}

	stats, recentPending, err := h.Plans.Dashboard(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dashboard":      stats,
		"recent_pending": services.NewPlanViews(recentPending),
		"nutritionist":   services.UserView(user),
	})
}
