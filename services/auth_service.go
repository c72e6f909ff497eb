package services

import (
	"encoding/json"
	"errors"

	"nutriai-backend/models"
	"nutriai-backend/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAuthService(db *gorm.DB, log *zap.Logger) *AuthService {
	return &AuthService{db: db, log: log}
}

// ProfileInput carries the scientific intake fields. Everything is a pointer
// so an update can tell "field absent" from "field set to zero" and merge
// only what the client actually sent.
type ProfileInput struct {
	Name                string   `json:"name,omitempty"`
	Age                 *int     `json:"age"`
	Weight              *float64 `json:"weight"`
	Height              *float64 `json:"height"`
	Goal                *string  `json:"goal"`
	BudgetPerMeal       *float64 `json:"budget_per_meal"`
	DietaryRestrictions *string  `json:"dietary_restrictions"`

	WaistCircumference     *float64 `json:"waist_circumference"`
	Weight6MonthsAgo       *float64 `json:"weight_6_months_ago"`
	TargetWeight           *float64 `json:"target_weight"`
	WeightVariationPattern *string  `json:"weight_variation_pattern"`

	MealTimes          *string `json:"meal_times"`
	EatingSpeed        *string `json:"eating_speed"`
	SnackingFrequency  *string `json:"snacking_frequency"`
	DailyWaterIntake   *int    `json:"daily_water_intake"`
	AlcoholConsumption *string `json:"alcohol_consumption"`
	FoodDislikes       *string `json:"food_dislikes"`

	SleepHours   *float64 `json:"sleep_hours"`
	SleepQuality *string  `json:"sleep_quality"`
	StressLevel  *int     `json:"stress_level"`
	WorkRoutine  *string  `json:"work_routine"`
	WorkSchedule *string  `json:"work_schedule"`

	FamilyDiabetes     *bool `json:"family_diabetes"`
	FamilyHypertension *bool `json:"family_hypertension"`
	FamilyObesity      *bool `json:"family_obesity"`
	FamilyHeartDisease *bool `json:"family_heart_disease"`

	CurrentExercise   *string `json:"current_exercise"`
	ExerciseFrequency *string `json:"exercise_frequency"`
	ExerciseDuration  *int    `json:"exercise_duration"`
	ExerciseIntensity *string `json:"exercise_intensity"`

	CurrentMedications *string `json:"current_medications"`
	Supplements        *string `json:"supplements"`
	MedicationSchedule *string `json:"medication_schedule"`

	EnergyLevel          *int    `json:"energy_level"`
	DispositionLevel     *int    `json:"disposition_level"`
	DigestiveIssues      *string `json:"digestive_issues"`
	BloatingFrequency    *string `json:"bloating_frequency"`
	HungerSatietyPattern *string `json:"hunger_satiety_pattern"`

	MonthlyWeightGoal      *float64 `json:"monthly_weight_goal"`
	TotalTimeframe         *int     `json:"total_timeframe"`
	MainMotivation         *string  `json:"main_motivation"`
	PreviousDietExperience *string  `json:"previous_diet_experience"`

	CRNNumber      *string `json:"crn_number"`
	Specialization *string `json:"specialization"`
}

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	UserType string `json:"user_type"`

	ProfileInput
}

func (s *AuthService) Register(in *RegisterInput) (*models.User, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	userType := in.UserType
	if userType != models.UserTypeNutritionist {
		userType = models.UserTypeUser
	}

	user := &models.User{
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		UserType:     userType,
	}
	applyProfile(user, &in.ProfileInput)

	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}

	s.log.Info("user registered",
		zap.Uint("user_id", user.ID),
		zap.String("user_type", user.UserType))
	return user, nil
}

func (s *AuthService) Login(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *AuthService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile merges the supplied fields into the caller's profile.
// Untouched fields keep their stored value.
func (s *AuthService) UpdateProfile(userID uint, in *ProfileInput) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	applyProfile(user, in)

	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}

	s.log.Info("profile updated", zap.Uint("user_id", user.ID))
	return user, nil
}

func applyProfile(u *models.User, in *ProfileInput) {
	if in.Age != nil {
		u.Age = *in.Age
	}
	if in.Weight != nil {
		u.Weight = *in.Weight
	}
	if in.Height != nil {
		u.Height = *in.Height
	}
	if in.Goal != nil {
		u.Goal = *in.Goal
	}
	if in.BudgetPerMeal != nil {
		u.BudgetPerMeal = *in.BudgetPerMeal
	}
	if in.DietaryRestrictions != nil {
		u.DietaryRestrictions = *in.DietaryRestrictions
	}

	if in.WaistCircumference != nil {
		u.WaistCircumference = *in.WaistCircumference
	}
	if in.Weight6MonthsAgo != nil {
		u.Weight6MonthsAgo = *in.Weight6MonthsAgo
	}
	if in.TargetWeight != nil {
		u.TargetWeight = *in.TargetWeight
	}
	if in.WeightVariationPattern != nil {
		u.WeightVariationPattern = *in.WeightVariationPattern
	}

	if in.MealTimes != nil {
		u.MealTimes = *in.MealTimes
	}
	if in.EatingSpeed != nil {
		u.EatingSpeed = *in.EatingSpeed
	}
	if in.SnackingFrequency != nil {
		u.SnackingFrequency = *in.SnackingFrequency
	}
	if in.DailyWaterIntake != nil {
		u.DailyWaterIntake = *in.DailyWaterIntake
	}
	if in.AlcoholConsumption != nil {
		u.AlcoholConsumption = *in.AlcoholConsumption
	}
	if in.FoodDislikes != nil {
		u.FoodDislikes = *in.FoodDislikes
	}

	if in.SleepHours != nil {
		u.SleepHours = *in.SleepHours
	}
	if in.SleepQuality != nil {
		u.SleepQuality = *in.SleepQuality
	}
	if in.StressLevel != nil {
		u.StressLevel = *in.StressLevel
	}
	if in.WorkRoutine != nil {
		u.WorkRoutine = *in.WorkRoutine
	}
	if in.WorkSchedule != nil {
		u.WorkSchedule = *in.WorkSchedule
	}

	if in.FamilyDiabetes != nil {
		u.FamilyDiabetes = *in.FamilyDiabetes
	}
	if in.FamilyHypertension != nil {
		u.FamilyHypertension = *in.FamilyHypertension
	}
	if in.FamilyObesity != nil {
		u.FamilyObesity = *in.FamilyObesity
	}
	if in.FamilyHeartDisease != nil {
		u.FamilyHeartDisease = *in.FamilyHeartDisease
	}

	if in.CurrentExercise != nil {
		u.CurrentExercise = *in.CurrentExercise
	}
	if in.ExerciseFrequency != nil {
		u.ExerciseFrequency = *in.ExerciseFrequency
	}
	if in.ExerciseDuration != nil {
		u.ExerciseDuration = *in.ExerciseDuration
	}
	if in.ExerciseIntensity != nil {
		u.ExerciseIntensity = *in.ExerciseIntensity
	}

	if in.CurrentMedications != nil {
		u.CurrentMedications = *in.CurrentMedications
	}
	if in.Supplements != nil {
		u.Supplements = *in.Supplements
	}
	if in.MedicationSchedule != nil {
		u.MedicationSchedule = *in.MedicationSchedule
	}

	if in.EnergyLevel != nil {
		u.EnergyLevel = *in.EnergyLevel
	}
	if in.DispositionLevel != nil {
		u.DispositionLevel = *in.DispositionLevel
	}
	if in.DigestiveIssues != nil {
		u.DigestiveIssues = *in.DigestiveIssues
	}
	if in.BloatingFrequency != nil {
		u.BloatingFrequency = *in.BloatingFrequency
	}
	if in.HungerSatietyPattern != nil {
		u.HungerSatietyPattern = *in.HungerSatietyPattern
	}

	if in.MonthlyWeightGoal != nil {
		u.MonthlyWeightGoal = *in.MonthlyWeightGoal
	}
	if in.TotalTimeframe != nil {
		u.TotalTimeframe = *in.TotalTimeframe
	}
	if in.MainMotivation != nil {
		u.MainMotivation = *in.MainMotivation
	}
	if in.PreviousDietExperience != nil {
		u.PreviousDietExperience = *in.PreviousDietExperience
	}

	// Nutritionist credentials only land on nutritionist accounts.
	if u.IsNutritionist() {
		if in.CRNNumber != nil {
			u.CRNNumber = *in.CRNNumber
		}
		if in.Specialization != nil {
			u.Specialization = *in.Specialization
		}
	}
}

// UserView serializes a user the way the API reports it: the stored profile
// plus the derived metabolic figures.
func UserView(u *models.User) map[string]interface{} {
	raw, _ := json.Marshal(u)
	out := map[string]interface{}{}
	_ = json.Unmarshal(raw, &out)
	for k, v := range utils.MetabolicSummary(u) {
		out[k] = v
	}
	return out
}
