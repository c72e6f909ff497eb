package config

import (
	"nutriai-backend/models"
	"nutriai-backend/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedDemoData inserts the demo accounts used by the frontend login hints.
// Safe to call on every boot: existing emails are left untouched.
func SeedDemoData(db *gorm.DB) error {
	demo := []models.User{
		{
			Email:                  "ana@email.com",
			Name:                   "Ana Silva",
			UserType:               models.UserTypeUser,
			Age:                    28,
			Weight:                 65.5,
			Height:                 165.0,
			Goal:                   "perder_peso",
			BudgetPerMeal:          25.0,
			DietaryRestrictions:    "Sem lactose",
			WaistCircumference:     78.0,
			Weight6MonthsAgo:       70.0,
			TargetWeight:           60.0,
			WeightVariationPattern: "engorda_facil",
			MealTimes:              `{"cafe": "07:00", "almoco": "12:00", "jantar": "19:00"}`,
			EatingSpeed:            "normal",
			SnackingFrequency:      "raramente",
			DailyWaterIntake:       8,
			AlcoholConsumption:     "social",
			FoodDislikes:           "Brócolis, fígado",
			SleepHours:             7.5,
			SleepQuality:           "regular",
			StressLevel:            7,
			WorkRoutine:            "sedentario",
			WorkSchedule:           "comercial",
			FamilyDiabetes:         true,
			FamilyHypertension:     true,
			CurrentExercise:        "Caminhada",
			ExerciseFrequency:      "leve",
			ExerciseDuration:       30,
			ExerciseIntensity:      "leve",
			EnergyLevel:            6,
			DispositionLevel:       7,
			BloatingFrequency:      "frequentemente",
			HungerSatietyPattern:   "muita_fome",
			MonthlyWeightGoal:      2.0,
			TotalTimeframe:         6,
			MainMotivation:         "Melhorar saúde e autoestima",
			PreviousDietExperience: "Já tentei várias dietas mas sempre desisto",
		},
		{
			Email:          "maria@nutricionista.com",
			Name:           "Dr. Maria Oliveira",
			UserType:       models.UserTypeNutritionist,
			CRNNumber:      "CRN-3 12345",
			Specialization: "Nutrição Clínica e Esportiva",
		},
		{
			Email:               "carlos@email.com",
			Name:                "Carlos Santos",
			UserType:            models.UserTypeUser,
			Age:                 35,
			Weight:              85.0,
			Height:              178.0,
			Goal:                "ganhar_massa",
			BudgetPerMeal:       30.0,
			DietaryRestrictions: "Nenhuma",
			ExerciseFrequency:   "moderado",
			StressLevel:         5,
			EnergyLevel:         8,
		},
	}

	hash, err := utils.HashPassword("123456")
	if err != nil {
		return err
	}

	for i := range demo {
		demo[i].PasswordHash = hash

		var count int64
		if err := db.Model(&models.User{}).Where("email = ?", demo[i].Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&demo[i]).Error; err != nil {
			return err
		}
		Log.Info("seeded demo user", zap.String("email", demo[i].Email))
	}
	return nil
}
