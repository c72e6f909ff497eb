package services

import (
	"encoding/json"
	"errors"
	"math"
	"time"

	"nutriai-backend/models"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PlanService struct {
	db     *gorm.DB
	gemini *GeminiService
	log    *zap.Logger
}

func NewPlanService(db *gorm.DB, gemini *GeminiService, log *zap.Logger) *PlanService {
	return &PlanService{db: db, gemini: gemini, log: log}
}

// DashboardStats is derived on demand over the plan collection, never stored.
type DashboardStats struct {
	TotalPlansSystem  int64   `json:"total_plans_system"`
	PendingValidation int64   `json:"pending_validation"`
	MyValidations     int64   `json:"my_validations"`
	MyApprovals       int64   `json:"my_approvals"`
	MyRejections      int64   `json:"my_rejections"`
	ApprovalRate      float64 `json:"approval_rate"`
	UniquePatients    int64   `json:"unique_patients"`
}

// Generate builds an AI plan from the caller's profile and persists it in
// pending state. Fails before touching the provider when the basic data
// (weight, height, age, goal) is missing.
func (s *PlanService) Generate(userID uint) (*models.DietPlan, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.UserType != models.UserTypeUser {
		return nil, ErrNotPatient
	}
	if !user.HasBasicData() {
		return nil, ErrIncompleteProfile
	}

	payload := s.gemini.GeneratePlan(&user)
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	budget := user.BudgetPerMeal
	if budget <= 0 {
		budget = 25.0
	}

	plan := &models.DietPlan{
		UserID:              user.ID,
		Goal:                user.Goal,
		BudgetPerMeal:       budget,
		DietaryRestrictions: user.DietaryRestrictions,
		PlanData:            datatypes.JSON(raw),
		Status:              models.PlanStatusPending,
	}
	if err := s.db.Create(plan).Error; err != nil {
		return nil, err
	}

	s.log.Info("diet plan generated",
		zap.Uint("plan_id", plan.ID),
		zap.Uint("user_id", user.ID),
		zap.Bool("fallback", payload.Fallback))
	return plan, nil
}

// MyPlans returns the caller's plans, newest first, including feedback.
func (s *PlanService) MyPlans(userID uint) ([]models.DietPlan, error) {
	var plans []models.DietPlan
	err := s.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&plans).Error
	return plans, err
}

// Pending returns every pending plan system-wide, newest first, with the
// owning user preloaded so views can annotate the patient name.
func (s *PlanService) Pending() ([]models.DietPlan, error) {
	var plans []models.DietPlan
	err := s.db.
		Preload("User").
		Where("status = ?", models.PlanStatusPending).
		Order("created_at DESC").
		Find(&plans).Error
	return plans, err
}

// GetPlan loads one plan with its owner.
func (s *PlanService) GetPlan(planID uint) (*models.DietPlan, error) {
	var plan models.DietPlan
	if err := s.db.Preload("User").First(&plan, planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// Validate transitions a pending plan to approved or rejected, exactly once.
// The UPDATE is guarded on status = pending, so of two concurrent
// validations one wins and the other sees zero affected rows.
func (s *PlanService) Validate(nutritionistID, planID uint, action, feedback string) (*models.DietPlan, error) {
	var status string
	switch action {
	case "approve":
		status = models.PlanStatusApproved
	case "reject":
		status = models.PlanStatusRejected
	default:
		return nil, ErrInvalidAction
	}

	now := time.Now().UTC()
	res := s.db.Model(&models.DietPlan{}).
		Where("id = ? AND status = ?", planID, models.PlanStatusPending).
		Updates(map[string]interface{}{
			"status":                status,
			"nutritionist_id":       nutritionistID,
			"nutritionist_feedback": feedback,
			"validated_at":          now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrPlanAlreadyDone
	}

	s.log.Info("plan validated",
		zap.Uint("plan_id", planID),
		zap.Uint("nutritionist_id", nutritionistID),
		zap.String("status", status))

	var plan models.DietPlan
	if err := s.db.First(&plan, planID).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// NutritionistStats counts the caller's past validations for the pending
// queue header.
func (s *PlanService) NutritionistStats(nutritionistID uint) (total, approved, rejected int64, err error) {
	if err = s.db.Model(&models.DietPlan{}).
		Where("nutritionist_id = ?", nutritionistID).
		Count(&total).Error; err != nil {
		return
	}
	if err = s.db.Model(&models.DietPlan{}).
		Where("nutritionist_id = ? AND status = ?", nutritionistID, models.PlanStatusApproved).
		Count(&approved).Error; err != nil {
		return
	}
	err = s.db.Model(&models.DietPlan{}).
		Where("nutritionist_id = ? AND status = ?", nutritionistID, models.PlanStatusRejected).
		Count(&rejected).Error
	return
}

// Dashboard aggregates the nutritionist statistics plus the five newest
// pending plans.
func (s *PlanService) Dashboard(nutritionistID uint) (*DashboardStats, []models.DietPlan, error) {
	stats := &DashboardStats{}

	if err := s.db.Model(&models.DietPlan{}).Count(&stats.TotalPlansSystem).Error; err != nil {
		return nil, nil, err
	}
	if err := s.db.Model(&models.DietPlan{}).
		Where("status = ?", models.PlanStatusPending).
		Count(&stats.PendingValidation).Error; err != nil {
		return nil, nil, err
	}

	var err error
	stats.MyValidations, stats.MyApprovals, stats.MyRejections, err = s.NutritionistStats(nutritionistID)
	if err != nil {
		return nil, nil, err
	}

	if stats.MyValidations > 0 {
		rate := float64(stats.MyApprovals) / float64(stats.MyValidations) * 100
		stats.ApprovalRate = math.Round(rate*10) / 10
	}

	if err := s.db.Model(&models.DietPlan{}).
		Where("nutritionist_id = ?", nutritionistID).
		Distinct("user_id").
		Count(&stats.UniquePatients).Error; err != nil {
		return nil, nil, err
	}

	var recentPending []models.DietPlan
	if err := s.db.
		Preload("User").
		Where("status = ?", models.PlanStatusPending).
		Order("created_at DESC").
		Limit(5).
		Find(&recentPending).Error; err != nil {
		return nil, nil, err
	}

	return stats, recentPending, nil
}

// PlanView serializes a plan for API responses; userName annotates pending
// entries with the patient's display name.
type PlanView struct {
	*models.DietPlan
	UserName string `json:"user_name,omitempty"`
}

func NewPlanView(p *models.DietPlan) PlanView {
	v := PlanView{DietPlan: p}
	if p.User != nil {
		v.UserName = p.User.Name
	}
	return v
}

func NewPlanViews(plans []models.DietPlan) []PlanView {
	views := make([]PlanView, 0, len(plans))
	for i := range plans {
		views = append(views, NewPlanView(&plans[i]))
	}
	return views
}
