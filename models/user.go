package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	UserTypeUser         = "user"
	UserTypeNutritionist = "nutritionist"
)

type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `gorm:"not null" json:"name"`
	UserType     string `gorm:"not null;default:'user'" json:"user_type"`

	// Dados básicos
	Age                 int     `json:"age"`
	Weight              float64 `json:"weight"`
	Height              float64 `json:"height"`
	Goal                string  `json:"goal"`
	BudgetPerMeal       float64 `json:"budget_per_meal"`
	DietaryRestrictions string  `json:"dietary_restrictions"`

	// Dados antropométricos
	WaistCircumference     float64 `json:"waist_circumference"`
	Weight6MonthsAgo       float64 `json:"weight_6_months_ago"`
	TargetWeight           float64 `json:"target_weight"`
	WeightVariationPattern string  `json:"weight_variation_pattern"` // engorda_facil, emagrece_facil, estavel

	// Comportamento alimentar
	MealTimes          string `json:"meal_times"` // JSON com horários das refeições
	EatingSpeed        string `json:"eating_speed"`
	SnackingFrequency  string `json:"snacking_frequency"`
	DailyWaterIntake   int    `json:"daily_water_intake"` // copos por dia
	AlcoholConsumption string `json:"alcohol_consumption"`
	FoodDislikes       string `json:"food_dislikes"`

	// Estilo de vida
	SleepHours   float64 `json:"sleep_hours"`
	SleepQuality string  `json:"sleep_quality"`
	StressLevel  int     `json:"stress_level"` // 1-10
	WorkRoutine  string  `json:"work_routine"`
	WorkSchedule string  `json:"work_schedule"`

	// Histórico familiar
	FamilyDiabetes     bool `gorm:"default:false" json:"family_diabetes"`
	FamilyHypertension bool `gorm:"default:false" json:"family_hypertension"`
	FamilyObesity      bool `gorm:"default:false" json:"family_obesity"`
	FamilyHeartDisease bool `gorm:"default:false" json:"family_heart_disease"`

	// Atividade física
	CurrentExercise   string `json:"current_exercise"`
	ExerciseFrequency string `json:"exercise_frequency"` // sedentario, leve, moderado, intenso, muito_intenso
	ExerciseDuration  int    `json:"exercise_duration"`  // minutos por sessão
	ExerciseIntensity string `json:"exercise_intensity"`

	// Medicamentos
	CurrentMedications string `json:"current_medications"`
	Supplements        string `json:"supplements"`
	MedicationSchedule string `json:"medication_schedule"`

	// Autoavaliação
	EnergyLevel          int    `json:"energy_level"`      // 1-10
	DispositionLevel     int    `json:"disposition_level"` // 1-10
	DigestiveIssues      string `json:"digestive_issues"`
	BloatingFrequency    string `json:"bloating_frequency"`
	HungerSatietyPattern string `json:"hunger_satiety_pattern"`

	// Objetivos
	MonthlyWeightGoal      float64 `json:"monthly_weight_goal"` // kg/mês
	TotalTimeframe         int     `json:"total_timeframe"`     // meses
	MainMotivation         string  `json:"main_motivation"`
	PreviousDietExperience string  `json:"previous_diet_experience"`

	// Campos específicos do nutricionista
	CRNNumber      string `json:"crn_number,omitempty"`
	Specialization string `json:"specialization,omitempty"`

	DietPlans []DietPlan `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) IsNutritionist() bool {
	return u.UserType == UserTypeNutritionist
}

// HasBasicData reports whether the profile is complete enough for plan
// generation: weight, height, age and goal.
func (u *User) HasBasicData() bool {
	return u.Weight > 0 && u.Height > 0 && u.Age > 0 && u.Goal != ""
}
